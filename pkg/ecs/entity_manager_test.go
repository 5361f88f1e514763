package ecs

import (
	"reflect"
	"testing"
)

// 测试组件类型定义
type testBody struct {
	X, Y float64
}

type testEnemy struct {
	Kind int
}

func TestCreateEntity(t *testing.T) {
	em := NewEntityManager()
	id1 := em.CreateEntity()
	id2 := em.CreateEntity()

	if id1 == id2 {
		t.Error("Entity IDs should be unique")
	}
	// ID从1开始，0保留为无效ID
	if id1 != 1 || id2 != 2 {
		t.Errorf("Expected IDs 1 and 2, got %d and %d", id1, id2)
	}
}

func TestGenericAddAndGet(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	AddComponent(em, id, &testBody{X: 100, Y: 200})

	body, ok := GetComponent[*testBody](em, id)
	if !ok {
		t.Fatal("Component should be found")
	}
	if body.X != 100 || body.Y != 200 {
		t.Errorf("Component data mismatch, expected (100, 200), got (%f, %f)", body.X, body.Y)
	}

	// 泛型与反射 API 必须使用同一个键
	if !em.HasComponent(id, reflect.TypeOf(&testBody{})) {
		t.Error("Reflection lookup should see component added through generic API")
	}

	if _, ok := GetComponent[*testEnemy](em, id); ok {
		t.Error("Missing component should not be found")
	}
}

func TestDestroyIsDeferred(t *testing.T) {
	em := NewEntityManager()
	id := em.CreateEntity()
	AddComponent(em, id, &testBody{})

	em.DestroyEntity(id)
	em.DestroyEntity(id) // 重复标记不应重复记录

	if !HasComponent[*testBody](em, id) {
		t.Error("Entity should still exist before cleanup")
	}
	if !em.IsMarkedForDestroy(id) {
		t.Error("Entity should be marked")
	}

	em.RemoveMarkedEntities()
	if em.Exists(id) {
		t.Error("Entity should be removed after cleanup")
	}
	if em.Count() != 0 {
		t.Errorf("Expected 0 entities, got %d", em.Count())
	}
}

// TestQueryOrderIsDeterministic 查询结果必须按ID升序，与map遍历顺序无关
func TestQueryOrderIsDeterministic(t *testing.T) {
	em := NewEntityManager()
	var want []EntityID
	for i := 0; i < 64; i++ {
		id := em.CreateEntity()
		AddComponent(em, id, &testBody{X: float64(i)})
		if i%3 == 0 {
			AddComponent(em, id, &testEnemy{Kind: i})
			want = append(want, id)
		}
	}

	for round := 0; round < 10; round++ {
		got := GetEntitiesWith2[*testBody, *testEnemy](em)
		if len(got) != len(want) {
			t.Fatalf("Expected %d entities, got %d", len(want), len(got))
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("round %d: position %d expected %d, got %d", round, i, want[i], got[i])
			}
		}
	}
}

func TestClearKeepsIDCounter(t *testing.T) {
	em := NewEntityManager()
	em.CreateEntity()
	em.CreateEntity()
	em.Clear()

	if em.Count() != 0 {
		t.Errorf("Expected empty manager, got %d", em.Count())
	}
	if id := em.CreateEntity(); id != 3 {
		t.Errorf("IDs must not be reused after Clear, got %d", id)
	}
}

package systems

import (
	"testing"

	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/entities"
	"github.com/decker502/platformer/pkg/game"
	"github.com/decker502/platformer/pkg/level"
	"github.com/decker502/platformer/pkg/tilemap"
	"github.com/decker502/platformer/pkg/types"
)

// testLevel 30x15 的平地：地面在第 13、14 行，玩家出生在 (2,12)，终点在 (29,12)
var testLevel = []string{
	"..............................",
	"..............................",
	"..............................",
	"..............................",
	"..............................",
	"..............................",
	"..............................",
	"..............................",
	"..............................",
	"..............................",
	"..............................",
	"..............................",
	"..M..........................G",
	"##############################",
	"##############################",
}

// newTestWorld 解析关卡并生成初始实体
func newTestWorld(t *testing.T, tuning config.Tuning, rows ...string) *game.World {
	t.Helper()
	if len(rows) == 0 {
		rows = testLevel
	}
	lvl, err := level.Parse(rows)
	if err != nil {
		t.Fatalf("failed to parse test level: %v", err)
	}
	lvl.ID = t.Name()
	w := game.NewWorld(lvl, tuning)
	entities.SpawnLevelActors(w)
	return w
}

// mustPlayer 返回玩家碰撞盒和状态
func mustPlayer(t *testing.T, w *game.World) (*components.BodyComponent, *components.PlayerComponent) {
	t.Helper()
	body, p, ok := w.Player()
	if !ok {
		t.Fatal("player entity missing")
	}
	return body, p
}

// addEnemy 在格子上创建一个已激活的敌人
func addEnemy(w *game.World, kind types.EnemyKind, cx, cy int) (ecs.EntityID, *components.BodyComponent, *components.EnemyComponent) {
	id := entities.NewEnemyEntity(w.Entities, w.Tuning, kind, tilemap.Cell{X: cx, Y: cy})
	body, _ := ecs.GetComponent[*components.BodyComponent](w.Entities, id)
	enemy, _ := ecs.GetComponent[*components.EnemyComponent](w.Entities, id)
	enemy.Active = true
	return id, body, enemy
}

// countEvents 统计本 tick 指定类型的事件
func countEvents(w *game.World, kind game.EventKind) int {
	n := 0
	for _, ev := range w.Events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

// findEvent 返回本 tick 第一个指定类型的事件
func findEvent(w *game.World, kind game.EventKind) (game.Event, bool) {
	for _, ev := range w.Events {
		if ev.Kind == kind {
			return ev, true
		}
	}
	return game.Event{}, false
}

// tick 按引擎的顺序跑一个完整的 tick（不含不变量检查）
func tick(w *game.World, in game.Input) {
	dt := w.Tuning.Step()
	w.Tick++
	w.Events = nil
	w.Input = in
	NewPlayerControllerSystem(w).Update(dt)
	NewEnemySystem(w).Update(dt)
	NewItemSystem(w).Update(dt)
	NewProjectileSystem(w).Update(dt)
	NewLifetimeSystem(w.Entities).Update(dt)
	NewPhysicsSystem(w).Update(dt)
	NewInteractionSystem(w).Update(dt)
	w.Entities.RemoveMarkedEntities()
}

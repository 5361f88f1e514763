package entities

import (
	"testing"

	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/game"
	"github.com/decker502/platformer/pkg/level"
	"github.com/decker502/platformer/pkg/tilemap"
	"github.com/decker502/platformer/pkg/types"
)

func mustBody(t *testing.T, em *ecs.EntityManager, id ecs.EntityID) *components.BodyComponent {
	t.Helper()
	body, ok := ecs.GetComponent[*components.BodyComponent](em, id)
	if !ok {
		t.Fatalf("entity %d has no body", id)
	}
	return body
}

func assertBox(t *testing.T, body *components.BodyComponent, x, y, w, h float64) {
	t.Helper()
	if body.X != x || body.Y != y || body.W != w || body.H != h {
		t.Errorf("box = (%.2f, %.2f, %.2f, %.2f), want (%.2f, %.2f, %.2f, %.2f)",
			body.X, body.Y, body.W, body.H, x, y, w, h)
	}
}

func TestPlayerSize(t *testing.T) {
	tests := []struct {
		big   bool
		tile  float64
		wantW float64
		wantH float64
	}{
		{big: false, tile: 16, wantW: 12, wantH: 16},
		{big: true, tile: 16, wantW: 12, wantH: 28},
		{big: true, tile: 32, wantW: 24, wantH: 56},
		{big: false, tile: 8, wantW: 6, wantH: 8},
	}
	for _, tt := range tests {
		w, h := PlayerSize(tt.big, tt.tile)
		if w != tt.wantW || h != tt.wantH {
			t.Errorf("PlayerSize(%v, %v) = %v x %v, want %v x %v", tt.big, tt.tile, w, h, tt.wantW, tt.wantH)
		}
	}

	if got := ShellHeight(16); got != 14 {
		t.Errorf("ShellHeight(16) = %v, want 14", got)
	}
	if got := ShelledPatrolHeight(32); got != 40 {
		t.Errorf("ShelledPatrolHeight(32) = %v, want 40", got)
	}
}

// TestNewPlayerEntity 玩家脚底贴着出生格子底边，水平居中
func TestNewPlayerEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	tuning := config.DefaultTuning()
	id := NewPlayerEntity(em, tuning, tilemap.Cell{X: 2, Y: 12})

	body := mustBody(t, em, id)
	assertBox(t, body, 34, 192, 12, 16)
	if body.Facing != 1 || !body.Alive || !body.Gravity {
		t.Errorf("unexpected body flags: %+v", body)
	}
	if body.SafeX != body.X || body.SafeY != body.Y {
		t.Errorf("safe position (%v, %v) should equal spawn position", body.SafeX, body.SafeY)
	}

	p, ok := ecs.GetComponent[*components.PlayerComponent](em, id)
	if !ok {
		t.Fatal("player component missing")
	}
	if p.Power != types.PowerSmall {
		t.Errorf("power = %v, want small", p.Power)
	}
	if p.Lives != tuning.StartLives {
		t.Errorf("lives = %d, want %d", p.Lives, tuning.StartLives)
	}
}

func TestNewEnemyEntity(t *testing.T) {
	tuning := config.DefaultTuning()
	cell := tilemap.Cell{X: 8, Y: 12}

	tests := []struct {
		kind       types.EnemyKind
		wantH      float64
		immune     bool
		ledgeAware bool
	}{
		{kind: types.EnemyWalker, wantH: 14},
		{kind: types.EnemyShelled, wantH: 20, ledgeAware: true},
		{kind: types.EnemyFlying, wantH: 20},
		{kind: types.EnemySpiked, wantH: 14, immune: true},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			em := ecs.NewEntityManager()
			id := NewEnemyEntity(em, tuning, tt.kind, cell)

			body := mustBody(t, em, id)
			assertBox(t, body, 129, 208-tt.wantH, 14, tt.wantH)
			if body.Facing != -1 {
				t.Errorf("facing = %d, want -1", body.Facing)
			}

			enemy, ok := ecs.GetComponent[*components.EnemyComponent](em, id)
			if !ok {
				t.Fatal("enemy component missing")
			}
			if enemy.Kind != tt.kind || enemy.State != types.EnemyPatrol {
				t.Errorf("enemy = %v/%v, want %v/patrol", enemy.Kind, enemy.State, tt.kind)
			}
			if enemy.StompImmune != tt.immune {
				t.Errorf("StompImmune = %v, want %v", enemy.StompImmune, tt.immune)
			}
			if enemy.LedgeAware != tt.ledgeAware {
				t.Errorf("LedgeAware = %v, want %v", enemy.LedgeAware, tt.ledgeAware)
			}
		})
	}
}

// TestNewEmergingItemEntity 道具从问号块内部开始，关闭碰撞
func TestNewEmergingItemEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	id := NewEmergingItemEntity(em, config.DefaultTuning(), types.ItemMushroom, tilemap.Cell{X: 3, Y: 10}, 1)

	body := mustBody(t, em, id)
	assertBox(t, body, 49, 162, 14, 14)
	if body.Gravity {
		t.Error("emerging item should not fall")
	}
	if body.SafeY != 146 {
		t.Errorf("SafeY = %v, want 146 (one tile above)", body.SafeY)
	}

	item, ok := ecs.GetComponent[*components.ItemComponent](em, id)
	if !ok {
		t.Fatal("item component missing")
	}
	if !item.Emerging || item.EmergeOriginY != 162 || item.Kind != types.ItemMushroom {
		t.Errorf("unexpected item: %+v", item)
	}
	c, ok := ecs.GetComponent[*components.CollisionComponent](em, id)
	if !ok || !c.IgnoreTiles {
		t.Error("emerging item should ignore tiles")
	}
}

func TestNewCoinEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	id := NewCoinEntity(em, config.DefaultTuning(), tilemap.Cell{X: 3, Y: 11})

	body := mustBody(t, em, id)
	assertBox(t, body, 51, 177, 10, 14)
	if body.Gravity {
		t.Error("placed coin should not fall")
	}
	item, ok := ecs.GetComponent[*components.ItemComponent](em, id)
	if !ok || item.Kind != types.ItemCoin || !item.Static {
		t.Errorf("unexpected coin item: %+v", item)
	}
}

// TestNewDebrisEntities 碎片最多四块，从格子四个象限出发
func TestNewDebrisEntities(t *testing.T) {
	tuning := config.DefaultTuning()
	em := ecs.NewEntityManager()
	ids := NewDebrisEntities(em, tuning, tilemap.Cell{X: 3, Y: 10}, 6)
	if len(ids) != 4 {
		t.Fatalf("got %d debris, want 4", len(ids))
	}

	first := mustBody(t, em, ids[0])
	assertBox(t, first, 48, 160, 8, 8)
	if first.VX != -60 || first.VY != -300 {
		t.Errorf("first debris velocity = (%v, %v), want (-60, -300)", first.VX, first.VY)
	}
	last := mustBody(t, em, ids[3])
	assertBox(t, last, 56, 168, 8, 8)

	for _, id := range ids {
		life, ok := ecs.GetComponent[*components.LifetimeComponent](em, id)
		if !ok || life.MaxTicks != tuning.Ticks(tuning.DebrisTTL) {
			t.Errorf("debris %d lifetime = %+v", id, life)
		}
		pc, ok := ecs.GetComponent[*components.ParticleComponent](em, id)
		if !ok || pc.Kind != types.ParticleDebris {
			t.Errorf("debris %d particle = %+v", id, pc)
		}
	}

	if got := NewDebrisEntities(em, tuning, tilemap.Cell{X: 0, Y: 0}, 2); len(got) != 2 {
		t.Errorf("got %d debris, want 2", len(got))
	}
}

// TestNewCoinPopEntity 弹出的金币从问号块上方向上飞
func TestNewCoinPopEntity(t *testing.T) {
	tuning := config.DefaultTuning()
	em := ecs.NewEntityManager()
	id := NewCoinPopEntity(em, tuning, tilemap.Cell{X: 3, Y: 10})

	body := mustBody(t, em, id)
	assertBox(t, body, 51, 146, 10, 14)
	if body.VY >= 0 {
		t.Errorf("VY = %v, want upward", body.VY)
	}
	pc, ok := ecs.GetComponent[*components.ParticleComponent](em, id)
	if !ok || pc.Kind != types.ParticleCoinPop {
		t.Errorf("unexpected particle: %+v", pc)
	}
}

func TestNewFireballEntity(t *testing.T) {
	tuning := config.DefaultTuning()
	em := ecs.NewEntityManager()
	id := NewFireballEntity(em, tuning, 100, 100, -1)

	body := mustBody(t, em, id)
	assertBox(t, body, 96, 96, 8, 8)
	if body.VX != -tuning.FireballSpeed || body.Facing != -1 {
		t.Errorf("fireball VX=%v facing=%d", body.VX, body.Facing)
	}
	if !ecs.HasComponent[*components.ProjectileComponent](em, id) {
		t.Error("projectile component missing")
	}
	life, ok := ecs.GetComponent[*components.LifetimeComponent](em, id)
	if !ok || life.MaxTicks != tuning.Ticks(tuning.FireballTTL) {
		t.Errorf("fireball lifetime = %+v", life)
	}
}

// TestSpawnLevelActors 按关卡生成玩家、敌人和金币，重复调用会先清空
func TestSpawnLevelActors(t *testing.T) {
	rows := []string{
		"..........",
		"...o......",
		"..M..g..kG",
		"##########",
	}
	lvl, err := level.Parse(rows)
	if err != nil {
		t.Fatalf("failed to parse level: %v", err)
	}
	w := game.NewWorld(lvl, config.DefaultTuning())
	SpawnLevelActors(w)

	if got := w.Entities.Count(); got != 4 {
		t.Fatalf("entity count = %d, want 4", got)
	}
	body, p, ok := w.Player()
	if !ok {
		t.Fatal("player missing")
	}
	assertBox(t, body, 34, 32, 12, 16)
	if p.Lives != 3 {
		t.Errorf("lives = %d, want 3", p.Lives)
	}

	enemies := ecs.GetEntitiesWith1[*components.EnemyComponent](w.Entities)
	if len(enemies) != 2 {
		t.Fatalf("got %d enemies, want 2", len(enemies))
	}
	walker, _ := ecs.GetComponent[*components.EnemyComponent](w.Entities, enemies[0])
	if walker.Kind != types.EnemyWalker {
		t.Errorf("first enemy = %v, want walker", walker.Kind)
	}
	assertBox(t, mustBody(t, w.Entities, enemies[0]), 81, 34, 14, 14)

	items := ecs.GetEntitiesWith1[*components.ItemComponent](w.Entities)
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}

	oldPlayer := w.PlayerID
	SpawnLevelActors(w)
	if got := w.Entities.Count(); got != 4 {
		t.Errorf("entity count after respawn = %d, want 4", got)
	}
	if w.PlayerID == oldPlayer {
		t.Error("respawn should not reuse the old player ID")
	}
}

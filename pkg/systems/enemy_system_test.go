package systems

import (
	"testing"

	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/game"
	"github.com/decker502/platformer/pkg/types"
)

func TestEnemyActivation(t *testing.T) {
	w := newTestWorld(t, config.DefaultTuning())
	near, _, nearEnemy := addEnemy(w, types.EnemyWalker, 10, 12)
	_, farBody, farEnemy := addEnemy(w, types.EnemyWalker, 25, 12)
	nearEnemy.Active = false
	farEnemy.Active = false

	sys := NewEnemySystem(w)
	sys.Update(w.Tuning.Step())

	if !nearEnemy.Active {
		t.Errorf("enemy %d inside view should activate", near)
	}
	if farEnemy.Active || farBody.VX != 0 {
		t.Error("enemy beyond view + margin should stay dormant")
	}

	// 镜头右移后远处的敌人也被激活，之后不再休眠
	w.Camera.X = 200
	sys.Update(w.Tuning.Step())
	if !farEnemy.Active {
		t.Error("enemy should activate once the camera approaches")
	}
	w.Camera.X = 0
	sys.Update(w.Tuning.Step())
	if !farEnemy.Active {
		t.Error("activated enemy must stay active")
	}
}

func TestEnemyPatrol(t *testing.T) {
	tuning := config.DefaultTuning()

	t.Run("walks in facing direction", func(t *testing.T) {
		w := newTestWorld(t, tuning)
		_, body, _ := addEnemy(w, types.EnemyWalker, 5, 12)
		NewEnemySystem(w).Update(tuning.Step())
		if body.VX != -tuning.WalkerSpeed {
			t.Errorf("vx = %v, want %v", body.VX, -tuning.WalkerSpeed)
		}
	})

	t.Run("turns at wall", func(t *testing.T) {
		w := newTestWorld(t, tuning)
		_, body, _ := addEnemy(w, types.EnemyWalker, 5, 12)
		body.WallSide = -1
		NewEnemySystem(w).Update(tuning.Step())
		if body.Facing != 1 || body.VX != tuning.WalkerSpeed {
			t.Errorf("facing = %d vx = %v after hitting wall", body.Facing, body.VX)
		}
	})

	t.Run("flying hops when grounded", func(t *testing.T) {
		w := newTestWorld(t, tuning)
		_, body, _ := addEnemy(w, types.EnemyFlying, 5, 12)
		body.Grounded = true
		NewEnemySystem(w).Update(tuning.Step())
		if body.VY != -tuning.FlyerHopVY {
			t.Errorf("vy = %v, want %v", body.VY, -tuning.FlyerHopVY)
		}
	})
}

// ledgeLevel 地面只到第 9 列
var ledgeLevel = []string{
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
	"##########....................",
	"##########....................",
}

func TestEnemyLedge(t *testing.T) {
	tests := []struct {
		kind       types.EnemyKind
		wantFacing int
	}{
		{kind: types.EnemyShelled, wantFacing: -1},
		{kind: types.EnemyWalker, wantFacing: 1},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			w := newTestWorld(t, config.DefaultTuning(), ledgeLevel...)
			_, body, _ := addEnemy(w, tt.kind, 9, 12)
			body.Facing = 1
			body.Grounded = true

			NewEnemySystem(w).Update(w.Tuning.Step())
			if body.Facing != tt.wantFacing {
				t.Errorf("facing = %d, want %d", body.Facing, tt.wantFacing)
			}
		})
	}
}

func TestShellRevive(t *testing.T) {
	w := newTestWorld(t, config.DefaultTuning())
	id, body, enemy := addEnemy(w, types.EnemyShelled, 5, 12)
	toShell(w, body, enemy)
	enemy.ShellTicks = 2

	sys := NewEnemySystem(w)
	sys.Update(w.Tuning.Step())
	if enemy.State != types.EnemyShellIdle || body.VX != 0 {
		t.Fatalf("shell revived early: %v", enemy.State)
	}
	sys.Update(w.Tuning.Step())
	if enemy.State != types.EnemyPatrol {
		t.Fatalf("state = %v, want patrol", enemy.State)
	}
	if body.H != 20 || body.Bottom() != 208 {
		t.Errorf("revived box h = %v bottom = %v", body.H, body.Bottom())
	}
	ev, ok := findEvent(w, game.EventSpawn)
	if !ok || ev.Entity != id || ev.Detail != "shell_revive" {
		t.Errorf("expected revive event, got %+v", w.Events)
	}
}

// TestShellReviveBlocked 头顶有方块时推迟复活
func TestShellReviveBlocked(t *testing.T) {
	rows := append([]string(nil), testLevel...)
	rows[11] = ".....#........................"
	w := newTestWorld(t, config.DefaultTuning(), rows...)
	_, body, enemy := addEnemy(w, types.EnemyShelled, 5, 12)
	toShell(w, body, enemy)
	enemy.ShellTicks = 1

	NewEnemySystem(w).Update(w.Tuning.Step())
	if enemy.State != types.EnemyShellIdle || enemy.ShellTicks != 1 || body.H != 14 {
		t.Errorf("state = %v ticks = %d h = %v, want idle shell waiting", enemy.State, enemy.ShellTicks, body.H)
	}
}

func TestSlidingShellBounces(t *testing.T) {
	w := newTestWorld(t, config.DefaultTuning())
	_, body, enemy := addEnemy(w, types.EnemyShelled, 5, 12)
	toShell(w, body, enemy)
	enemy.State = types.EnemyShellSliding
	enemy.KickGraceTicks = 3
	body.Facing = 1
	body.WallSide = 1

	NewEnemySystem(w).Update(w.Tuning.Step())
	if body.Facing != -1 || body.VX != -w.Tuning.ShellSpeed {
		t.Errorf("facing = %d vx = %v after wall", body.Facing, body.VX)
	}
	if enemy.KickGraceTicks != 2 {
		t.Errorf("kick grace = %d, want 2", enemy.KickGraceTicks)
	}
}

func TestSquashedEnemyRemoved(t *testing.T) {
	w := newTestWorld(t, config.DefaultTuning())
	id, body, enemy := addEnemy(w, types.EnemyWalker, 5, 12)
	stompEnemy(w, id, body, enemy)

	sys := NewEnemySystem(w)
	for i := 1; i < w.Tuning.Ticks(w.Tuning.SquashTime); i++ {
		sys.Update(w.Tuning.Step())
	}
	if w.Entities.IsMarkedForDestroy(id) {
		t.Fatal("squashed enemy removed too early")
	}
	sys.Update(w.Tuning.Step())
	if !w.Entities.IsMarkedForDestroy(id) {
		t.Error("squashed enemy should be removed after squash time")
	}
}

// TestWalkerFallsOffLedge 走路怪不会在悬崖边掉头，掉出关卡后被删除
func TestWalkerFallsOffLedge(t *testing.T) {
	w := newTestWorld(t, config.DefaultTuning(), ledgeLevel...)
	id, body, _ := addEnemy(w, types.EnemyWalker, 9, 12)
	body.Facing = 1

	for i := 0; i < 300 && w.Entities.Exists(id); i++ {
		tick(w, game.Input{})
	}
	if w.Entities.Exists(id) {
		t.Errorf("walker still alive at (%v,%v)", body.X, body.Y)
	}
}

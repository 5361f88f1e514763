package systems

import (
	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/entities"
	"github.com/decker502/platformer/pkg/game"
	"github.com/decker502/platformer/pkg/tilemap"
	"github.com/decker502/platformer/pkg/types"
)

// kickGraceTime 龟壳被踢出后对踢壳的玩家无害的时间（秒）
const kickGraceTime = 0.2

// EnemySystem 敌人 AI
//
// 敌人在进入镜头视野（加上激活边距）之前保持休眠。激活后：
//   - PATROL：按朝向匀速移动，撞墙掉头，LedgeAware 的敌人在悬崖边掉头，飞行乌龟着地就起跳
//   - SHELL_IDLE / STUNNED：静止，倒计时结束后复活为 PATROL
//   - SHELL_SLIDING：高速滑行，撞墙反弹
//   - DEAD：被踩扁的停留 squash_time 后删除，被击飞的由 PhysicsSystem 掉出关卡后删除
type EnemySystem struct {
	world *game.World
}

// NewEnemySystem 创建敌人系统
func NewEnemySystem(w *game.World) *EnemySystem {
	return &EnemySystem{world: w}
}

// Update 更新所有敌人的 AI 状态和期望速度
func (s *EnemySystem) Update(dt float64) {
	w := s.world
	t := w.Tuning
	for _, id := range ecs.GetEntitiesWith2[*components.BodyComponent, *components.EnemyComponent](w.Entities) {
		body, _ := ecs.GetComponent[*components.BodyComponent](w.Entities, id)
		enemy, _ := ecs.GetComponent[*components.EnemyComponent](w.Entities, id)

		if !enemy.Active {
			if !s.inActivationRange(body) {
				continue
			}
			enemy.Active = true
		}

		switch enemy.State {
		case types.EnemyDead:
			if enemy.SquashTicks > 0 {
				enemy.SquashTicks--
				if enemy.SquashTicks == 0 {
					w.Entities.DestroyEntity(id)
				}
			}

		case types.EnemyPatrol:
			s.turnIfBlocked(body, enemy)
			body.VX = float64(body.Facing) * t.WalkerSpeed
			if enemy.Kind == types.EnemyFlying && body.Grounded {
				body.VY = -t.FlyerHopVY
			}

		case types.EnemyShellIdle, types.EnemyStunned:
			body.VX = 0
			if enemy.ShellTicks > 0 {
				enemy.ShellTicks--
				if enemy.ShellTicks == 0 {
					s.revive(id, body, enemy)
				}
			}

		case types.EnemyShellSliding:
			if enemy.KickGraceTicks > 0 {
				enemy.KickGraceTicks--
			}
			if body.WallSide != 0 && body.WallSide == body.Facing {
				body.Facing = -body.Facing
			}
			body.VX = float64(body.Facing) * t.ShellSpeed
		}
	}
}

// inActivationRange 敌人是否进入镜头视野加激活边距
func (s *EnemySystem) inActivationRange(body *components.BodyComponent) bool {
	w := s.world
	margin := w.Tuning.ActivationMargin
	return body.X < w.Camera.X+w.Tuning.ViewW+margin && body.Right() > w.Camera.X-margin
}

// turnIfBlocked 撞墙或走到悬崖边时掉头
func (s *EnemySystem) turnIfBlocked(body *components.BodyComponent, enemy *components.EnemyComponent) {
	if body.WallSide != 0 && body.WallSide == body.Facing {
		body.Facing = -body.Facing
		return
	}
	if enemy.LedgeAware && body.Grounded && !s.world.Resolver.GroundAhead(body, body.Facing) {
		body.Facing = -body.Facing
	}
}

// revive 龟壳复活为行走状态；头顶有阻挡时推迟一个 tick
func (s *EnemySystem) revive(id ecs.EntityID, body *components.BodyComponent, enemy *components.EnemyComponent) {
	h := entities.ShelledPatrolHeight(s.world.Map.TileSize())
	grown := tilemap.Rect{X: body.X, Y: body.Bottom() - h, W: body.W, H: h}
	if s.world.Resolver.OverlapsBlocking(grown) {
		enemy.ShellTicks = 1
		return
	}
	body.SetHeightKeepBottom(h)
	enemy.State = types.EnemyPatrol
	s.world.Emit(game.Event{Kind: game.EventSpawn, Entity: id, Detail: "shell_revive"})
}

// stompEnemy 敌人被踩
// 返回 false 表示这次接触应按踢壳处理
func stompEnemy(w *game.World, id ecs.EntityID, body *components.BodyComponent, enemy *components.EnemyComponent) bool {
	t := w.Tuning
	switch enemy.State {
	case types.EnemyPatrol:
		switch enemy.Kind {
		case types.EnemyWalker:
			enemy.State = types.EnemyDead
			enemy.SquashTicks = t.Ticks(t.SquashTime)
			body.VX = 0
		case types.EnemyFlying:
			// 翅膀被踩掉，变成普通乌龟
			enemy.Kind = types.EnemyShelled
			enemy.LedgeAware = true
		default:
			toShell(w, body, enemy)
		}
	case types.EnemyShellSliding:
		toShell(w, body, enemy)
	default:
		return false
	}
	awardScore(w, ScoreStomp, game.Event{Kind: game.EventStomp, Entity: id})
	return true
}

// toShell 缩进壳里静止
func toShell(w *game.World, body *components.BodyComponent, enemy *components.EnemyComponent) {
	enemy.State = types.EnemyShellIdle
	enemy.ShellTicks = w.Tuning.Ticks(w.Tuning.ShellReviveTime)
	enemy.KickGraceTicks = 0
	body.VX = 0
	body.SetHeightKeepBottom(entities.ShellHeight(w.Map.TileSize()))
}

// kickShell 把静止的龟壳朝远离玩家的方向踢出
func kickShell(w *game.World, id ecs.EntityID, body *components.BodyComponent, enemy *components.EnemyComponent, player *components.BodyComponent) {
	dir := sign(body.CenterX() - player.CenterX())
	if dir == 0 {
		dir = player.Facing
	}
	enemy.State = types.EnemyShellSliding
	enemy.KickGraceTicks = w.Tuning.Ticks(kickGraceTime)
	enemy.ShellTicks = 0
	body.Facing = dir
	body.VX = float64(dir) * w.Tuning.ShellSpeed
	w.Emit(game.Event{Kind: game.EventKick, Entity: id})
}

// knockOut 敌人被击飞（龟壳、火球、无敌星、从下方顶砖）：向上弹起后穿过地面掉出关卡
func knockOut(w *game.World, id ecs.EntityID, body *components.BodyComponent, enemy *components.EnemyComponent, points int, cause string) {
	enemy.State = types.EnemyDead
	enemy.SquashTicks = 0
	body.VX = 0
	body.VY = -w.Tuning.StompBounceVY
	body.Gravity = true
	ecs.AddComponent(w.Entities, id, &components.CollisionComponent{IgnoreTiles: true})
	awardScore(w, points, game.Event{Kind: game.EventKill, Entity: id, Detail: cause})
}

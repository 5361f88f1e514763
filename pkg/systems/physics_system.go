package systems

import (
	"math"

	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/game"
	"github.com/decker502/platformer/pkg/tilemap"
	"github.com/decker502/platformer/pkg/types"
)

// PhysicsSystem 固定步长积分与地图碰撞解析
//
// 对每个角色：vy ← min(vy + g·Δ, terminal_vy)；先沿 X 移动并解析，再沿 Y 移动并解析。
// 关闭地图碰撞的角色只积分，水平位置限制在关卡范围内。
// 角色上边缘低于 H·T + 2T 时移出关卡：玩家死亡，其余实体删除。
type PhysicsSystem struct {
	world *game.World
}

// NewPhysicsSystem 创建物理系统
//
// 参数:
//   - w: 世界状态
//
// 返回:
//   - *PhysicsSystem: 物理系统实例
func NewPhysicsSystem(w *game.World) *PhysicsSystem {
	return &PhysicsSystem{world: w}
}

// Update 积分所有角色并解析碰撞，按实体ID升序处理
//
// 参数:
//   - dt: 固定步长（秒）
func (s *PhysicsSystem) Update(dt float64) {
	w := s.world
	for _, id := range ecs.GetEntitiesWith1[*components.BodyComponent](w.Entities) {
		if w.Entities.IsMarkedForDestroy(id) || s.dormant(id) {
			continue
		}
		body, _ := ecs.GetComponent[*components.BodyComponent](w.Entities, id)
		s.integrate(id, body, dt)
	}
}

// UpdatePlayer 只积分玩家（死亡动画期间其余实体静止）
func (s *PhysicsSystem) UpdatePlayer(dt float64) {
	w := s.world
	if body, _, ok := w.Player(); ok {
		s.integrate(w.PlayerID, body, dt)
	}
}

// dormant 尚未激活的敌人不移动
func (s *PhysicsSystem) dormant(id ecs.EntityID) bool {
	enemy, ok := ecs.GetComponent[*components.EnemyComponent](s.world.Entities, id)
	return ok && !enemy.Active
}

func (s *PhysicsSystem) integrate(id ecs.EntityID, body *components.BodyComponent, dt float64) {
	w := s.world
	t := w.Tuning

	body.WasGrounded = body.Grounded
	if body.Gravity {
		body.VY = math.Min(body.VY+t.Gravity*dt, t.TerminalVY)
	}
	dx := body.VX * dt
	dy := body.VY * dt

	if w.IgnoresTiles(id) {
		body.X += dx
		body.Y += dy
		body.X = math.Max(0, math.Min(body.X, w.PixelWidth()-body.W))
		body.Grounded = false
		body.WallSide = 0
		body.OnSlope = false
	} else {
		vyBefore := body.VY
		xr := w.Resolver.MoveX(body, dx)
		body.WallSide = 0
		if xr.HitWall {
			body.WallSide = xr.WallSide
		}
		yr := w.Resolver.MoveY(body, dy, math.Abs(dx))
		body.OnSlope = yr.OnSlope

		if yr.HitCeiling && id == w.PlayerID {
			w.Bumps = append(w.Bumps, game.BumpRequest{
				Cell: yr.CeilingCell,
				Bumper: tilemap.Bumper{
					Power: s.playerPower(),
					VY:    vyBefore,
					Top:   yr.CeilingTop,
				},
				By: id,
			})
		}
	}

	if kill := w.KillPlaneY(); body.Y > kill {
		if id != w.PlayerID {
			w.Entities.DestroyEntity(id)
			return
		}
		killPlayer(w, "fall")
		// 死亡后继续下落的玩家也停在关卡下边界
		body.Y = kill
		body.VY = 0
		body.Gravity = false
	}
}

func (s *PhysicsSystem) playerPower() types.PowerState {
	if _, p, ok := s.world.Player(); ok {
		return p.Power
	}
	return types.PowerSmall
}

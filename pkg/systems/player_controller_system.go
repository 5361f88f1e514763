package systems

import (
	"math"

	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/entities"
	"github.com/decker502/platformer/pkg/game"
	"github.com/decker502/platformer/pkg/types"
)

// velocityDeadBand 地面摩擦时低于这个速度直接归零（像素/秒）
const velocityDeadBand = 1.0

// PlayerControllerSystem 把输入快照转换为玩家的速度和状态
//
// 负责：水平加速/刹车/摩擦、土狼时间、跳跃缓冲、可变跳跃高度、
// 无敌与无敌星计时、延迟变大、火球发射、关卡倒计时。
// 位置的积分和碰撞解析由 PhysicsSystem 完成。
type PlayerControllerSystem struct {
	world *game.World
}

// NewPlayerControllerSystem 创建玩家控制系统
func NewPlayerControllerSystem(w *game.World) *PlayerControllerSystem {
	return &PlayerControllerSystem{world: w}
}

// Update 处理一个固定步长的玩家输入
//
// 参数:
//   - dt: 固定步长（秒）
func (s *PlayerControllerSystem) Update(dt float64) {
	w := s.world
	body, p, ok := w.Player()
	if !ok || p.Dead {
		return
	}
	in := w.Input

	if p.InvulnTicks > 0 {
		p.InvulnTicks--
	}
	if p.StarTicks > 0 {
		p.StarTicks--
	}

	if w.TimeTicks > 0 {
		w.TimeTicks--
		if w.TimeTicks == 0 {
			w.Emit(game.Event{Kind: game.EventTimeUp, Entity: w.PlayerID})
			killPlayer(w, "time_up")
			return
		}
	}

	if p.PendingGrow {
		_, h := entities.PlayerSize(true, w.Map.TileSize())
		if tryGrow(w, body, h) {
			p.PendingGrow = false
		}
	}

	s.updateHorizontal(body, in, dt)
	s.updateJump(body, p, in, dt)

	if in.FirePressed && p.Power == types.PowerFire {
		s.throwFireball(body)
	}
}

// updateHorizontal 水平加速度、刹车和摩擦
func (s *PlayerControllerSystem) updateHorizontal(body *components.BodyComponent, in game.Input, dt float64) {
	t := s.world.Tuning
	dir := in.Horizontal()
	if dir != 0 {
		body.Facing = dir
	}

	limit := t.WalkCap
	accel := t.WalkAccel
	if in.Run {
		limit = t.RunCap
		accel = t.RunAccel
	}

	if !body.Grounded {
		if dir == 0 {
			return
		}
		// 空中保留已有的动量，只是不能再加速超过上限
		if float64(dir)*body.VX < limit {
			body.VX += float64(dir) * t.AirAccel * dt
			if float64(dir)*body.VX > limit {
				body.VX = float64(dir) * limit
			}
		}
		return
	}

	switch {
	case dir == 0:
		body.VX = approach(body.VX, 0, t.Friction*dt)
		if math.Abs(body.VX) < velocityDeadBand {
			body.VX = 0
		}
	case body.VX != 0 && sign(body.VX) != dir:
		body.VX = approach(body.VX, 0, t.SkidDecel*dt)
	case math.Abs(body.VX) > limit:
		// 松开跑步键后逐渐回落到行走上限
		body.VX = approach(body.VX, float64(dir)*limit, t.Friction*dt)
	default:
		body.VX += float64(dir) * accel * dt
		if math.Abs(body.VX) > limit {
			body.VX = float64(dir) * limit
		}
	}
}

// updateJump 土狼时间、跳跃缓冲和可变跳跃高度
//
// 着地时土狼计时保持满值，离地后逐 tick 递减；跳跃键按下时缓冲计时置满，
// 之后逐 tick 递减。两者都大于 0 时起跳，并同时清空两个计时，保证一次按键只跳一次。
func (s *PlayerControllerSystem) updateJump(body *components.BodyComponent, p *components.PlayerComponent, in game.Input, dt float64) {
	t := s.world.Tuning

	if body.Grounded {
		p.CoyoteTicks = t.Ticks(t.CoyoteTime)
		p.Jumping = false
	} else if p.CoyoteTicks > 0 {
		p.CoyoteTicks--
	}

	if in.JumpPressed {
		p.JumpBufferTicks = t.Ticks(t.JumpBufferTime)
	} else if p.JumpBufferTicks > 0 {
		p.JumpBufferTicks--
	}

	if p.JumpBufferTicks > 0 && p.CoyoteTicks > 0 {
		speedFrac := math.Min(math.Abs(body.VX)/t.RunCap, 1)
		body.VY = -(t.JumpInitialVY + t.JumpRunBonusVY*speedFrac)
		body.Grounded = false
		p.Jumping = true
		p.JumpBufferTicks = 0
		p.CoyoteTicks = 0
		s.world.Emit(game.Event{Kind: game.EventJump, Entity: s.world.PlayerID})
	}

	if p.Jumping {
		switch {
		case body.VY >= 0:
			p.Jumping = false
		case in.Jump:
			body.VY -= t.JumpHoldBoost * dt
		case body.VY < -t.JumpCutVY:
			body.VY = -t.JumpCutVY
			p.Jumping = false
		default:
			p.Jumping = false
		}
	}
	p.JumpHeld = in.Jump
}

// throwFireball 火焰状态下发射火球，同时最多 MaxFireballs 个
func (s *PlayerControllerSystem) throwFireball(body *components.BodyComponent) {
	w := s.world
	if len(ecs.GetEntitiesWith1[*components.ProjectileComponent](w.Entities)) >= MaxFireballs {
		return
	}
	x := body.CenterX() + float64(body.Facing)*body.W/2
	y := body.Y + body.H/3
	id := entities.NewFireballEntity(w.Entities, w.Tuning, x, y, body.Facing)
	w.Emit(game.Event{Kind: game.EventFireball, Entity: id})
}

// approach 把 v 向 target 移动最多 delta，不越过 target
func approach(v, target, delta float64) float64 {
	if v < target {
		return math.Min(v+delta, target)
	}
	return math.Max(v-delta, target)
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

package components

import "github.com/decker502/platformer/pkg/types"

// PlayerComponent 玩家专有状态
//
// 计时器单位均为 tick，由 Tuning.Ticks 从秒换算得到。
type PlayerComponent struct {
	Power types.PowerState

	InvulnTicks     int // 受伤后的无敌帧
	StarTicks       int // 无敌星剩余时间
	CoyoteTicks     int // 土狼时间剩余
	JumpBufferTicks int // 跳跃缓冲剩余
	JumpHeld        bool
	Jumping         bool // 由起跳产生的上升（区别于踩怪反弹）

	Coins int
	Score int
	Lives int

	// PendingGrow 头顶有阻挡时延迟变大，腾出空间后再增高碰撞盒
	PendingGrow bool
	Dead        bool
}

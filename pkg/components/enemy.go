package components

import "github.com/decker502/platformer/pkg/types"

// EnemyComponent 敌人专有状态
type EnemyComponent struct {
	Kind  types.EnemyKind
	State types.EnemyState

	SquashTicks    int  // 被踩扁后停留的时间
	StompImmune    bool // 刺猬为 true
	LedgeAware     bool // 走到悬崖边是否掉头
	KickGraceTicks int  // 龟壳被踢出后对玩家无害的短暂窗口
	ShellTicks     int  // 静止龟壳复活倒计时
	Active         bool // 是否已进入视野被激活
}

// IsHazard 返回敌人在当前状态下接触玩家是否造成伤害
func (e *EnemyComponent) IsHazard() bool {
	switch e.State {
	case types.EnemyPatrol:
		return true
	case types.EnemyShellSliding:
		return e.KickGraceTicks == 0
	}
	return false
}

// IsHarmless 返回敌人是否处于完全无交互的状态
func (e *EnemyComponent) IsHarmless() bool {
	return e.State == types.EnemyDead
}

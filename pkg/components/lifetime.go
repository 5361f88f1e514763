package components

// LifetimeComponent 管理实体的生命周期
// 用于自动清理存在时间超过上限的实体(如火球、砖块碎片)
type LifetimeComponent struct {
	MaxTicks     int  // 最大生命周期(tick)
	CurrentTicks int  // 当前已存在时间(tick)
	IsExpired    bool // 是否已过期
}

package components

// ProjectileComponent 火球等飞行道具
// 存活时间由 LifetimeComponent 管理
type ProjectileComponent struct {
	Damage int
}

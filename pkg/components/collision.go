package components

// CollisionComponent 控制实体与地图格子的碰撞
// 没有该组件的实体默认参与地图碰撞
type CollisionComponent struct {
	// IgnoreTiles 为 true 时只积分不做地图碰撞解析
	// 用于：正在冒出的道具、被击飞的敌人、砖块碎片、弹出的金币
	IgnoreTiles bool
}

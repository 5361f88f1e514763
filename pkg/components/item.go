package components

import "github.com/decker502/platformer/pkg/types"

// ItemComponent 道具专有状态
//
// 从问号块顶出的道具先经历“冒出”阶段：关闭碰撞，以固定速度上升一个格子高度，
// 之后才成为普通的受物理影响的实体。
type ItemComponent struct {
	Kind types.ItemKind

	Emerging       bool
	EmergeProgress float64 // 0..1
	EmergeOriginY  float64 // 冒出起点（问号块顶部下方）

	// Static 为 true 的道具（地图上摆放的金币）不移动
	Static bool
}

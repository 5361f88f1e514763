// Package types 定义共享的基础类型
// 这个包不依赖任何其他业务包，用于解决循环引用问题
package types

// TileType 定义地图格子的类型（封闭集合）
type TileType uint8

const (
	// TileEmpty 空格子
	TileEmpty TileType = iota
	// TileSolid 实心方块，四面阻挡
	TileSolid
	// TileBrick 砖块：大玛丽从下方顶会碎，否则只是被顶一下
	TileBrick
	// TileQuestion 问号块：只能触发一次，携带道具
	TileQuestion
	// TileSpentQuestion 已触发的问号块（实心、惰性）
	TileSpentQuestion
	// TileSlopeUpLeft 向左上升的斜坡：局部坐标 (T,T) 到 (0,0)
	TileSlopeUpLeft
	// TileSlopeUpRight 向右上升的斜坡：局部坐标 (0,T) 到 (T,0)
	TileSlopeUpRight
	// TileDecor 装饰，不参与碰撞
	TileDecor
	// TileGoal 终点触发器，不参与碰撞
	TileGoal
)

// IsBlocking 返回该格子是否为矩形阻挡块
func (t TileType) IsBlocking() bool {
	switch t {
	case TileSolid, TileBrick, TileQuestion, TileSpentQuestion:
		return true
	}
	return false
}

// IsSlope 返回该格子是否为斜坡
func (t TileType) IsSlope() bool {
	return t == TileSlopeUpLeft || t == TileSlopeUpRight
}

// IsSolidGround 返回该格子能否站立（阻挡块或斜坡）
func (t TileType) IsSolidGround() bool {
	return t.IsBlocking() || t.IsSlope()
}

// String 返回格子类型的字符串表示
func (t TileType) String() string {
	switch t {
	case TileEmpty:
		return "empty"
	case TileSolid:
		return "solid"
	case TileBrick:
		return "brick"
	case TileQuestion:
		return "question"
	case TileSpentQuestion:
		return "spent_question"
	case TileSlopeUpLeft:
		return "slope_up_left"
	case TileSlopeUpRight:
		return "slope_up_right"
	case TileDecor:
		return "decor"
	case TileGoal:
		return "goal"
	default:
		return "unknown"
	}
}

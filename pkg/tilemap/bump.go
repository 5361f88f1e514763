package tilemap

import "github.com/decker502/platformer/pkg/types"

// DebrisPerBreak 砖块碎裂时产生的碎片数量
const DebrisPerBreak = 4

// bumpEdgeTolerance 顶块时头顶与格子下边缘允许的误差（像素）
const bumpEdgeTolerance = 0.5

// BumpKind 顶块结果类型
type BumpKind uint8

const (
	// BumpNone 条件不满足，没有发生顶块
	BumpNone BumpKind = iota
	// BumpBonk 顶了一下，格子不变
	BumpBonk
	// BumpSpawn 问号块被触发，产出内容物
	BumpSpawn
	// BumpBreak 砖块被顶碎
	BumpBreak
)

// String 返回顶块结果的字符串表示
func (k BumpKind) String() string {
	switch k {
	case BumpNone:
		return "none"
	case BumpBonk:
		return "bonk"
	case BumpSpawn:
		return "spawn"
	case BumpBreak:
		return "break"
	default:
		return "unknown"
	}
}

// Bumper 顶块者的信息
type Bumper struct {
	Power types.PowerState
	VY    float64 // 解析前的竖直速度，必须为负（向上）
	Top   float64 // 顶块者碰撞盒上边缘
}

// BumpResult 顶块结果
type BumpResult struct {
	Kind    BumpKind
	Cell    Cell
	Payload types.ItemKind // 仅 BumpSpawn 有效
	Debris  int            // 仅 BumpBreak 有效
}

// Bump 处理从下方顶格子
//
// 只有顶块者向上运动且头顶贴着格子下边缘时才生效：
//   - 问号块：变为已触发，返回内容物（只会返回一次）
//   - 砖块：大玛丽/火焰玛丽顶碎（变为空，产生碎片），小玛丽只是顶一下
//   - 其他格子：顶一下，不改变状态
func (m *TileMap) Bump(cx, cy int, bumper Bumper) BumpResult {
	cell := Cell{cx, cy}
	if bumper.VY >= 0 {
		return BumpResult{Kind: BumpNone, Cell: cell}
	}
	r := m.CellRect(cx, cy)
	if bumper.Top > r.Bottom()+bumpEdgeTolerance || bumper.Top < r.Y {
		return BumpResult{Kind: BumpNone, Cell: cell}
	}

	t := m.Get(cx, cy)
	if !m.InBounds(cx, cy) {
		return BumpResult{Kind: BumpBonk, Cell: cell}
	}
	idx := cy*m.width + cx
	m.state[idx].hits++

	switch t {
	case types.TileQuestion:
		m.tiles[idx] = types.TileSpentQuestion
		m.state[idx].spent = true
		return BumpResult{Kind: BumpSpawn, Cell: cell, Payload: m.Payload(cx, cy)}
	case types.TileBrick:
		if bumper.Power.IsBig() {
			m.tiles[idx] = types.TileEmpty
			m.state[idx].broken = true
			return BumpResult{Kind: BumpBreak, Cell: cell, Debris: DebrisPerBreak}
		}
	}
	return BumpResult{Kind: BumpBonk, Cell: cell}
}

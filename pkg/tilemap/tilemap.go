// Package tilemap 实现平台关卡的格子地图
//
// 地形（加载时的格子类型）不可变，运行中的修改只有两种：
// 问号块 → 已触发问号块、砖块 → 空。Reset 可以恢复到加载时的状态。
package tilemap

import (
	"github.com/decker502/platformer/pkg/types"
)

// Cell 格子坐标
type Cell struct {
	X, Y int
}

// Rect 像素矩形，原点为左上角
type Rect struct {
	X, Y, W, H float64
}

// Right 返回右边缘
func (r Rect) Right() float64 { return r.X + r.W }

// Bottom 返回下边缘
func (r Rect) Bottom() float64 { return r.Y + r.H }

// Overlaps 严格重叠检查（仅边缘接触不算）
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X && r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// TileRef 是 TilesInAABB 返回的三元组：格子坐标、像素矩形、类型
type TileRef struct {
	Cell Cell
	Rect Rect
	Type types.TileType
}

// cellState 单个格子的可变状态
type cellState struct {
	hits   int  // 被顶的次数（渲染做弹跳动画用）
	spent  bool // 问号块已触发
	broken bool // 砖块已碎
}

// TileMap 关卡格子地图
type TileMap struct {
	width, height int
	tileSize      float64

	terrain  []types.TileType // 加载时的地形，行优先
	tiles    []types.TileType // 当前地形
	state    []cellState
	payloads map[Cell]types.ItemKind
}

// New 创建格子地图
//
// 参数:
//   - rows: 行优先的格子类型，所有行必须等长
//   - payloads: 问号块内容物，缺省为金币
//   - tileSize: 格子边长（像素）
func New(rows [][]types.TileType, payloads map[Cell]types.ItemKind, tileSize int) *TileMap {
	h := len(rows)
	w := 0
	if h > 0 {
		w = len(rows[0])
	}

	m := &TileMap{
		width:    w,
		height:   h,
		tileSize: float64(tileSize),
		terrain:  make([]types.TileType, w*h),
		tiles:    make([]types.TileType, w*h),
		state:    make([]cellState, w*h),
		payloads: make(map[Cell]types.ItemKind, len(payloads)),
	}
	for y, row := range rows {
		copy(m.terrain[y*w:(y+1)*w], row)
	}
	copy(m.tiles, m.terrain)
	for c, p := range payloads {
		m.payloads[c] = p
	}
	return m
}

// Width 返回宽度（格子数）
func (m *TileMap) Width() int { return m.width }

// Height 返回高度（格子数）
func (m *TileMap) Height() int { return m.height }

// TileSize 返回格子边长（像素）
func (m *TileMap) TileSize() float64 { return m.tileSize }

// PixelWidth 返回地图像素宽度 W·T
func (m *TileMap) PixelWidth() float64 { return float64(m.width) * m.tileSize }

// PixelHeight 返回地图像素高度 H·T
func (m *TileMap) PixelHeight() float64 { return float64(m.height) * m.tileSize }

// Index 返回格子的行优先索引，用于确定性的平局裁决
func (m *TileMap) Index(c Cell) int {
	return c.Y*m.width + c.X
}

// InBounds 检查格子是否在地图内
func (m *TileMap) InBounds(cx, cy int) bool {
	return cx >= 0 && cx < m.width && cy >= 0 && cy < m.height
}

// Get 返回格子类型
//
// 越界规则：
//   - 左右越界视为实心（关卡两侧是墙）
//   - 上方越界视为空（开放的天空）
//   - 下方越界同样视为空：坑没有底，角色掉出地图后由击杀线
//     (KillPlaneY) 判定死亡。下方若按实心处理，坑会被封住，击杀线永远触发不到
func (m *TileMap) Get(cx, cy int) types.TileType {
	if cx < 0 || cx >= m.width {
		return types.TileSolid
	}
	if cy < 0 || cy >= m.height {
		return types.TileEmpty
	}
	return m.tiles[cy*m.width+cx]
}

// Payload 返回问号块的内容物，未指定时为金币
func (m *TileMap) Payload(cx, cy int) types.ItemKind {
	if p, ok := m.payloads[Cell{cx, cy}]; ok {
		return p
	}
	return types.ItemCoin
}

// Hits 返回格子被顶的次数
func (m *TileMap) Hits(cx, cy int) int {
	if !m.InBounds(cx, cy) {
		return 0
	}
	return m.state[cy*m.width+cx].hits
}

// CellRect 返回格子的像素矩形
func (m *TileMap) CellRect(cx, cy int) Rect {
	return Rect{
		X: float64(cx) * m.tileSize,
		Y: float64(cy) * m.tileSize,
		W: m.tileSize,
		H: m.tileSize,
	}
}

// CellAt 返回像素坐标所在的格子
func (m *TileMap) CellAt(px, py float64) Cell {
	return Cell{X: floorDiv(px, m.tileSize), Y: floorDiv(py, m.tileSize)}
}

// TilesInAABB 遍历与矩形重叠的所有格子
//
// 先把矩形所在的格子范围向四周各扩一格，再逐格做严格重叠检查，
// 因此每次查询的代价只和覆盖的格子数有关，而不是整张地图。
// 回调按行优先（格子索引升序）的顺序调用，越界的格子按 Get 的规则返回；
// 空格子不会回调。回调返回 false 时提前结束。
func (m *TileMap) TilesInAABB(r Rect, fn func(TileRef) bool) {
	minX := floorDiv(r.X, m.tileSize) - 1
	minY := floorDiv(r.Y, m.tileSize) - 1
	maxX := floorDiv(r.Right(), m.tileSize) + 1
	maxY := floorDiv(r.Bottom(), m.tileSize) + 1

	for cy := minY; cy <= maxY; cy++ {
		for cx := minX; cx <= maxX; cx++ {
			t := m.Get(cx, cy)
			if t == types.TileEmpty {
				continue
			}
			cr := m.CellRect(cx, cy)
			if !cr.Overlaps(r) {
				continue
			}
			if !fn(TileRef{Cell: Cell{cx, cy}, Rect: cr, Type: t}) {
				return
			}
		}
	}
}

// Reset 恢复到加载时的地形并清空可变状态（玩家死亡后重开关卡）
func (m *TileMap) Reset() {
	copy(m.tiles, m.terrain)
	for i := range m.state {
		m.state[i] = cellState{}
	}
}

// floorDiv 向下取整除法（负坐标也正确）
func floorDiv(v, size float64) int {
	q := v / size
	i := int(q)
	if float64(i) > q {
		i--
	}
	return i
}

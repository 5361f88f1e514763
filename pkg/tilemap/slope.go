package tilemap

import "github.com/decker502/platformer/pkg/types"

// MaxWalkableSlopeDeg 可行走的最大坡度
// 目前只有两种 45° 斜坡，策略按角度判断以便扩展
const MaxWalkableSlopeDeg = 46.0

// SlopeAngleDeg 返回斜坡的坡度，非斜坡返回 0
func SlopeAngleDeg(t types.TileType) float64 {
	if t.IsSlope() {
		return 45
	}
	return 0
}

// IsWalkableSlope 返回斜坡是否可以站立行走
func IsWalkableSlope(t types.TileType) bool {
	return t.IsSlope() && SlopeAngleDeg(t) <= MaxWalkableSlopeDeg
}

// SlopeSurfaceY 返回斜坡在格子局部坐标 localX 处的表面高度（局部坐标）
//
// localX 会被限制在 [0, T]：
//   - SLOPE_UP_LEFT：线段 (T,T) → (0,0)，y = localX
//   - SLOPE_UP_RIGHT：线段 (0,T) → (T,0)，y = T - localX
//
// 非斜坡格子返回 false。
func (m *TileMap) SlopeSurfaceY(cx, cy int, localX float64) (float64, bool) {
	return SlopeSurface(m.Get(cx, cy), localX, m.tileSize)
}

// SlopeSurface 按格子类型计算局部表面高度
func SlopeSurface(t types.TileType, localX, tileSize float64) (float64, bool) {
	if localX < 0 {
		localX = 0
	}
	if localX > tileSize {
		localX = tileSize
	}
	switch t {
	case types.TileSlopeUpLeft:
		return localX, true
	case types.TileSlopeUpRight:
		return tileSize - localX, true
	}
	return 0, false
}

// HighestSurface 返回斜坡在水平区间 [left, right]（世界坐标）内的最高表面（世界坐标 y）
//
// 45° 斜坡是单调的，最高点总在区间与格子交集的上坡一端：
// 向右上升的斜坡取交集右端，向左上升的斜坡取交集左端。
func (m *TileMap) HighestSurface(cx, cy int, left, right float64) (float64, bool) {
	t := m.Get(cx, cy)
	if !t.IsSlope() {
		return 0, false
	}
	cellLeft := float64(cx) * m.tileSize
	cellTop := float64(cy) * m.tileSize

	lo := left - cellLeft
	hi := right - cellLeft
	if hi <= 0 || lo >= m.tileSize {
		return 0, false
	}

	sample := hi
	if t == types.TileSlopeUpLeft {
		sample = lo
	}
	localY, _ := SlopeSurface(t, sample, m.tileSize)
	return cellTop + localY, true
}

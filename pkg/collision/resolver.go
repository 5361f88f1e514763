// Package collision 负责角色碰撞盒与格子地图之间的穿透解析
//
// 每个 tick 先沿 X 轴移动并解析，再沿 Y 轴移动并解析，两轴严格分开。
// 水平解析只考虑矩形阻挡格子（斜坡不参与），斜坡只在竖直解析中生效。
package collision

import (
	"errors"
	"fmt"
	"math"

	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/tilemap"
	"github.com/decker502/platformer/pkg/types"
)

// ErrCollisionInvariantViolated 解析后角色仍与阻挡格子重叠
var ErrCollisionInvariantViolated = errors.New("collision invariant violated")

const (
	// maxResolveIterations 单轴解析的最大迭代次数
	maxResolveIterations = 4
	// riseEpsilon 判断“正在上升”的速度阈值（像素/秒）
	riseEpsilon = 1e-6
)

// Resolver 碰撞解析器
type Resolver struct {
	Map *tilemap.TileMap

	// SnapThreshold 斜坡吸附阈值：脚底在表面上方这个距离以内也会吸附
	SnapThreshold float64
	// StickDistance 上一 tick 着地时，向下贴合斜坡的最大距离
	StickDistance float64
}

// NewResolver 创建碰撞解析器
// 贴地距离取半个格子
func NewResolver(m *tilemap.TileMap, snapThreshold float64) *Resolver {
	return &Resolver{
		Map:           m,
		SnapThreshold: snapThreshold,
		StickDistance: m.TileSize() / 2,
	}
}

// XResult 水平解析结果
type XResult struct {
	HitWall   bool
	WallSide  int          // -1 左侧，+1 右侧
	WallCell  tilemap.Cell // 最后一次吸附的格子
	SteppedUp bool         // 从斜坡顶端跨上相邻平地时被抬起
}

// YResult 竖直解析结果
type YResult struct {
	Landed      bool // 向下吸附到平地或斜坡
	OnSlope     bool
	HitCeiling  bool
	CeilingCell tilemap.Cell // 头顶撞到的格子（中心列优先）
	CeilingTop  float64      // 吸附前的碰撞盒上边缘，用于顶块判定
}

func rectOf(b *components.BodyComponent) tilemap.Rect {
	return tilemap.Rect{X: b.X, Y: b.Y, W: b.W, H: b.H}
}

// blockers 返回与矩形重叠的阻挡格子（行优先）
func (r *Resolver) blockers(rect tilemap.Rect) []tilemap.TileRef {
	var refs []tilemap.TileRef
	r.Map.TilesInAABB(rect, func(ref tilemap.TileRef) bool {
		if ref.Type.IsBlocking() {
			refs = append(refs, ref)
		}
		return true
	})
	return refs
}

// OverlapsBlocking 检查矩形是否与任何阻挡格子严格重叠
func (r *Resolver) OverlapsBlocking(rect tilemap.Rect) bool {
	hit := false
	r.Map.TilesInAABB(rect, func(ref tilemap.TileRef) bool {
		if ref.Type.IsBlocking() {
			hit = true
			return false
		}
		return true
	})
	return hit
}

// pick 在候选格子中选择穿透最小的一个，相同时取格子索引更小的
func pick(refs []tilemap.TileRef, depth func(tilemap.TileRef) float64) (tilemap.TileRef, float64) {
	best := refs[0]
	bestDepth := depth(best)
	for _, ref := range refs[1:] {
		// refs 已按格子索引升序，严格小于才替换
		if d := depth(ref); d < bestDepth {
			best, bestDepth = ref, d
		}
	}
	return best, bestDepth
}

// MoveX 沿 X 轴移动 dx 并解析水平穿透
//
// 上一 tick 着地的角色从斜坡顶端走上相邻平地时，
// 如果只需要抬起不超过本次水平位移加吸附阈值的高度，会被抬起而不是挡住。
func (r *Resolver) MoveX(b *components.BodyComponent, dx float64) XResult {
	var res XResult
	b.X += dx

	for i := 0; i < maxResolveIterations; i++ {
		refs := r.blockers(rectOf(b))
		if len(refs) == 0 {
			return res
		}

		if b.WasGrounded && r.tryStepUp(b, refs, math.Abs(dx)) {
			res.SteppedUp = true
			continue
		}

		dir := sign(dx)
		if dir == 0 {
			dir = r.pushDirectionX(b, refs)
		}

		var ref tilemap.TileRef
		if dir > 0 {
			ref, _ = pick(refs, func(t tilemap.TileRef) float64 { return b.Right() - t.Rect.X })
			b.X = ref.Rect.X - b.W
		} else {
			ref, _ = pick(refs, func(t tilemap.TileRef) float64 { return t.Rect.Right() - b.X })
			b.X = ref.Rect.Right()
		}
		b.VX = 0
		res.HitWall = true
		res.WallSide = dir
		res.WallCell = ref.Cell
	}
	return res
}

// tryStepUp 所有重叠格子的顶部都在允许的抬升范围内且抬起后无阻挡时抬起角色
func (r *Resolver) tryStepUp(b *components.BodyComponent, refs []tilemap.TileRef, dx float64) bool {
	allowance := dx + r.SnapThreshold
	lift := 0.0
	for _, ref := range refs {
		d := b.Bottom() - ref.Rect.Y
		if d <= 0 || d > allowance {
			return false
		}
		lift = math.Max(lift, d)
	}
	lifted := rectOf(b)
	lifted.Y -= lift
	if r.OverlapsBlocking(lifted) {
		return false
	}
	b.Y -= lift
	return true
}

// pushDirectionX 静止时被卡住，选择穿透较小的方向推出
func (r *Resolver) pushDirectionX(b *components.BodyComponent, refs []tilemap.TileRef) int {
	_, right := pick(refs, func(t tilemap.TileRef) float64 { return b.Right() - t.Rect.X })
	_, left := pick(refs, func(t tilemap.TileRef) float64 { return t.Rect.Right() - b.X })
	if left < right {
		return +1
	}
	return -1
}

// MoveY 沿 Y 轴移动 dy 并解析竖直穿透
//
// 参数:
//   - b: 角色碰撞盒，会重置 Grounded 并在落地时置位
//   - dy: 竖直位移
//   - climb: 本 tick 水平位移的绝对值，限制斜坡允许的最大抬升
//
// 平地：向下吸附到格子顶部并着地，向上吸附到格子底部并报告头顶格子。
// 斜坡：未在上升时，取碰撞盒水平范围内最高的斜坡表面；
// 脚底在表面上方吸附阈值以内或已陷入表面时吸附到表面。
// 上一 tick 着地且没有上升速度时，斜坡表面或平地在贴地距离以内也会向下贴合。
func (r *Resolver) MoveY(b *components.BodyComponent, dy, climb float64) YResult {
	var res YResult
	res.CeilingTop = b.Y + dy
	b.Y += dy
	b.Grounded = false

	for i := 0; i < maxResolveIterations; i++ {
		refs := r.blockers(rectOf(b))
		if len(refs) == 0 {
			break
		}

		dir := sign(dy)
		if dir == 0 {
			_, down := pick(refs, func(t tilemap.TileRef) float64 { return b.Bottom() - t.Rect.Y })
			_, up := pick(refs, func(t tilemap.TileRef) float64 { return t.Rect.Bottom() - b.Y })
			dir = +1
			if up < down {
				dir = -1
			}
		}

		if dir > 0 {
			ref, _ := pick(refs, func(t tilemap.TileRef) float64 { return b.Bottom() - t.Rect.Y })
			b.Y = ref.Rect.Y - b.H
			if b.VY > 0 {
				b.VY = 0
			}
			b.Grounded = true
			res.Landed = true
		} else {
			ref, _ := pick(refs, func(t tilemap.TileRef) float64 { return t.Rect.Bottom() - b.Y })
			if !res.HitCeiling {
				res.CeilingCell = ceilingCell(b, refs, ref.Rect.Bottom())
			}
			b.Y = ref.Rect.Bottom()
			if b.VY < 0 {
				b.VY = 0
			}
			res.HitCeiling = true
		}
	}

	if b.VY >= -riseEpsilon && !res.HitCeiling {
		maxRise := r.SnapThreshold + climb + math.Max(dy, 0)
		if surface, ok := r.slopeSurfaceUnder(b, maxRise); ok {
			gap := surface - b.Bottom() // >0 表示脚底在表面上方
			stick := b.WasGrounded && b.VY >= 0 && gap <= r.StickDistance
			snapped := tilemap.Rect{X: b.X, Y: surface - b.H, W: b.W, H: b.H}
			if (gap <= r.SnapThreshold || stick) && !r.OverlapsBlocking(snapped) {
				b.Y = surface - b.H
				if b.VY > 0 {
					b.VY = 0
				}
				b.Grounded = true
				res.Landed = true
				res.OnSlope = true
			}
		}
	}

	if !res.Landed && b.WasGrounded && b.VY >= 0 {
		r.stickToFloor(b, &res)
	}
	return res
}

// stickToFloor 从斜坡底端走回平地时，脚底可能离地面还差不到一个 tick 的下落距离，
// 这时直接贴到地面上，保证着地状态连续
func (r *Resolver) stickToFloor(b *components.BodyComponent, res *YResult) {
	probe := tilemap.Rect{X: b.X, Y: b.Bottom(), W: b.W, H: r.StickDistance}
	top := math.Inf(1)
	r.Map.TilesInAABB(probe, func(ref tilemap.TileRef) bool {
		if ref.Type.IsBlocking() && ref.Rect.Y >= b.Bottom() {
			top = math.Min(top, ref.Rect.Y)
		}
		return true
	})
	if math.IsInf(top, 1) {
		return
	}
	b.Y = top - b.H
	b.VY = 0
	b.Grounded = true
	res.Landed = true
}

// slopeSurfaceUnder 返回碰撞盒水平范围内最高的斜坡表面
// 需要把角色抬起超过 maxRise 的表面会被忽略
func (r *Resolver) slopeSurfaceUnder(b *components.BodyComponent, maxRise float64) (float64, bool) {
	t := r.Map.TileSize()
	minX := int(math.Floor(b.X / t))
	maxX := int(math.Floor((b.Right() - 1e-9) / t))
	minY := int(math.Floor(b.Y / t))
	maxY := int(math.Floor((b.Bottom() + r.StickDistance) / t))

	best := 0.0
	found := false
	for cy := minY; cy <= maxY; cy++ {
		for cx := minX; cx <= maxX; cx++ {
			if !tilemap.IsWalkableSlope(r.Map.Get(cx, cy)) {
				continue
			}
			surface, ok := r.Map.HighestSurface(cx, cy, b.X, b.Right())
			if !ok {
				continue
			}
			if b.Bottom()-surface > maxRise {
				continue
			}
			if !found || surface < best {
				best = surface
				found = true
			}
		}
	}
	return best, found
}

// ceilingCell 选择头顶撞到的格子
// 优先取碰撞盒中心列所在的格子，否则取水平重叠最大的，相同时取格子索引更小的
func ceilingCell(b *components.BodyComponent, refs []tilemap.TileRef, edge float64) tilemap.Cell {
	cx := b.CenterX()
	var (
		best     tilemap.Cell
		bestOver = -1.0
	)
	for _, ref := range refs {
		if ref.Rect.Bottom() != edge {
			continue
		}
		if cx >= ref.Rect.X && cx < ref.Rect.Right() {
			return ref.Cell
		}
		over := math.Min(b.Right(), ref.Rect.Right()) - math.Max(b.X, ref.Rect.X)
		if over > bestOver {
			best, bestOver = ref.Cell, over
		}
	}
	return best
}

// Check 检查角色是否与阻挡格子重叠
func (r *Resolver) Check(b *components.BodyComponent) error {
	var hit *tilemap.TileRef
	r.Map.TilesInAABB(rectOf(b), func(ref tilemap.TileRef) bool {
		if ref.Type.IsBlocking() {
			hit = &ref
			return false
		}
		return true
	})
	if hit != nil {
		return fmt.Errorf("%w: body at (%.2f, %.2f) %gx%g overlaps %s tile at cell (%d, %d)",
			ErrCollisionInvariantViolated, b.X, b.Y, b.W, b.H, hit.Type, hit.Cell.X, hit.Cell.Y)
	}
	return nil
}

// GroundAhead 悬崖探测：检查前方一格、脚下一格是否有地面
//
// 探测点取碰撞盒前沿外侧一个格子宽度、脚底下方半个格子处。
func (r *Resolver) GroundAhead(b *components.BodyComponent, facing int) bool {
	t := r.Map.TileSize()
	px := b.Right() + t/2
	if facing < 0 {
		px = b.X - t/2
	}
	py := b.Bottom() + t/2
	c := r.Map.CellAt(px, py)
	tt := r.Map.Get(c.X, c.Y)
	return tt.IsSolidGround() || tt == types.TileEmpty && r.slopeBelowFoot(c)
}

// slopeBelowFoot 走下斜坡时前方格子为空，但再下一格是斜坡
func (r *Resolver) slopeBelowFoot(c tilemap.Cell) bool {
	return r.Map.Get(c.X, c.Y+1).IsSlope()
}

func sign(v float64) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

package components

// BodyComponent 是所有可移动实体共用的轴对齐碰撞盒与速度
//
// 坐标原点为碰撞盒左上角，x 向右、y 向下，单位为像素（浮点，支持亚像素）。
// 速度单位为 像素/秒。
type BodyComponent struct {
	X, Y   float64
	W, H   float64
	VX, VY float64

	Grounded    bool // 本 tick 解析后是否站在地面上
	WasGrounded bool // 上一个 tick 是否站在地面上（用于土狼时间和贴地）
	Facing      int  // -1 朝左，+1 朝右
	Alive       bool
	Gravity     bool // 是否受重力影响
	WallSide    int  // 本 tick 水平解析撞墙的方向，0 表示没有撞墙
	OnSlope     bool // 本 tick 站在斜坡上

	// 上一次通过不变量检查的位置，发布版本中用于回滚
	SafeX, SafeY float64
}

// Left 返回碰撞盒左边缘
func (b *BodyComponent) Left() float64 { return b.X }

// Right 返回碰撞盒右边缘
func (b *BodyComponent) Right() float64 { return b.X + b.W }

// Top 返回碰撞盒上边缘
func (b *BodyComponent) Top() float64 { return b.Y }

// Bottom 返回碰撞盒下边缘
func (b *BodyComponent) Bottom() float64 { return b.Y + b.H }

// CenterX 返回碰撞盒中心X
func (b *BodyComponent) CenterX() float64 { return b.X + b.W/2 }

// CenterY 返回碰撞盒中心Y
func (b *BodyComponent) CenterY() float64 { return b.Y + b.H/2 }

// Overlaps 检查两个碰撞盒是否严格重叠（仅边缘接触不算）
func (b *BodyComponent) Overlaps(o *BodyComponent) bool {
	return b.X < o.X+o.W && b.X+b.W > o.X && b.Y < o.Y+o.H && b.Y+b.H > o.Y
}

// SetHeightKeepBottom 改变高度并保持脚底不动（变大变小时使用）
func (b *BodyComponent) SetHeightKeepBottom(h float64) {
	bottom := b.Bottom()
	b.H = h
	b.Y = bottom - h
}

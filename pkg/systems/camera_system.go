package systems

import (
	"math"

	"github.com/decker502/platformer/pkg/game"
)

// CameraSystem 死区跟随镜头
//
// 死区是以视口中心为中心的矩形。跟随目标（玩家中心，水平方向可加 look_ahead · vx）
// 越过死区边缘时，镜头按越过的距离平移；平移之后再把视口限制在关卡范围内。
// 关卡比视口小时该轴固定为 0。
type CameraSystem struct {
	world *game.World
}

// NewCameraSystem 创建镜头系统
//
// 参数:
//   - w: 世界状态（镜头位置保存在 w.Camera）
//
// 返回:
//   - *CameraSystem: 镜头系统实例
func NewCameraSystem(w *game.World) *CameraSystem {
	return &CameraSystem{world: w}
}

// Update 根据玩家位置移动镜头
func (s *CameraSystem) Update(dt float64) {
	w := s.world
	body, _, ok := w.Player()
	if !ok {
		return
	}
	t := w.Tuning
	tx, ty := s.target(body.CenterX(), body.CenterY(), body.VX)

	left := w.Camera.X + (t.ViewW-t.DeadZoneW)/2
	if right := left + t.DeadZoneW; tx > right {
		w.Camera.X += tx - right
	} else if tx < left {
		w.Camera.X -= left - tx
	}

	top := w.Camera.Y + (t.ViewH-t.DeadZoneH)/2
	if bottom := top + t.DeadZoneH; ty > bottom {
		w.Camera.Y += ty - bottom
	} else if ty < top {
		w.Camera.Y -= top - ty
	}

	s.clamp()
}

// Snap 镜头直接以玩家为中心（关卡开始和重生时使用）
func (s *CameraSystem) Snap() {
	w := s.world
	body, _, ok := w.Player()
	if !ok {
		return
	}
	w.Camera.X = body.CenterX() - w.Tuning.ViewW/2
	w.Camera.Y = body.CenterY() - w.Tuning.ViewH/2
	s.clamp()
}

func (s *CameraSystem) target(cx, cy, vx float64) (float64, float64) {
	return cx + s.world.Tuning.LookAhead*vx, cy
}

// clamp 视口保持在 [0, W·T] × [0, H·T] 之内
func (s *CameraSystem) clamp() {
	w := s.world
	maxX := math.Max(0, w.PixelWidth()-w.Tuning.ViewW)
	maxY := math.Max(0, w.PixelHeight()-w.Tuning.ViewH)
	w.Camera.X = math.Max(0, math.Min(w.Camera.X, maxX))
	w.Camera.Y = math.Max(0, math.Min(w.Camera.Y, maxY))
}

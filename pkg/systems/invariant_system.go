package systems

import (
	"fmt"
	"log"

	"github.com/decker502/platformer/pkg/collision"
	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/game"
)

// containmentEpsilon 水平范围检查允许的浮点误差（像素）
const containmentEpsilon = 1e-6

// InvariantSystem 在碰撞解析之后检查每个角色
//
//   - 不与任何阻挡格子重叠
//   - 水平位置在 [0, W·T − w] 内，上边缘不低于 H·T + 2T
//
// 调试模式下返回 collision.ErrCollisionInvariantViolated；
// 否则把角色放回上一次通过检查的位置并清零速度，同时输出警告日志。
type InvariantSystem struct {
	world *game.World
	debug bool
}

// NewInvariantSystem 创建不变量检查系统
func NewInvariantSystem(w *game.World, debug bool) *InvariantSystem {
	return &InvariantSystem{world: w, debug: debug}
}

// Update 检查所有参与地图碰撞的角色
func (s *InvariantSystem) Update(dt float64) error {
	w := s.world
	for _, id := range ecs.GetEntitiesWith1[*components.BodyComponent](w.Entities) {
		if w.Entities.IsMarkedForDestroy(id) {
			continue
		}
		body, _ := ecs.GetComponent[*components.BodyComponent](w.Entities, id)

		err := s.check(id, body)
		if err == nil {
			body.SafeX, body.SafeY = body.X, body.Y
			continue
		}
		if s.debug {
			return fmt.Errorf("entity %d at tick %d: %w", id, w.Tick, err)
		}
		log.Printf("[InvariantSystem] Warning: entity %d at tick %d: %v (restoring last safe position)", id, w.Tick, err)
		body.X, body.Y = body.SafeX, body.SafeY
		body.VX, body.VY = 0, 0
	}
	return nil
}

func (s *InvariantSystem) check(id ecs.EntityID, body *components.BodyComponent) error {
	w := s.world
	if body.X < -containmentEpsilon || body.X > w.PixelWidth()-body.W+containmentEpsilon {
		return fmt.Errorf("%w: x %.3f outside [0, %.3f]", collision.ErrCollisionInvariantViolated, body.X, w.PixelWidth()-body.W)
	}
	if body.Y > w.KillPlaneY() {
		return fmt.Errorf("%w: y %.3f below kill plane %.3f", collision.ErrCollisionInvariantViolated, body.Y, w.KillPlaneY())
	}
	if w.IgnoresTiles(id) {
		return nil
	}
	return w.Resolver.Check(body)
}

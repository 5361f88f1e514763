package systems

import (
	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/game"
)

// ProjectileSystem 火球运动：落地反弹，撞墙消失
type ProjectileSystem struct {
	world *game.World
}

// NewProjectileSystem 创建飞行道具系统
func NewProjectileSystem(w *game.World) *ProjectileSystem {
	return &ProjectileSystem{world: w}
}

// Update 根据上一 tick 的碰撞结果更新火球速度
func (s *ProjectileSystem) Update(dt float64) {
	w := s.world
	t := w.Tuning
	for _, id := range ecs.GetEntitiesWith2[*components.BodyComponent, *components.ProjectileComponent](w.Entities) {
		body, _ := ecs.GetComponent[*components.BodyComponent](w.Entities, id)
		if body.WallSide != 0 {
			w.Entities.DestroyEntity(id)
			continue
		}
		if body.Grounded {
			body.VY = -t.FireballBounceVY
		}
		body.VX = float64(body.Facing) * t.FireballSpeed
	}
}

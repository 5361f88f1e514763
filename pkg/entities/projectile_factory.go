package entities

import (
	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/ecs"
)

// NewFireballEntity 创建火球
//
// 火球从发射者身体中部朝 facing 方向飞出，受重力影响，落地反弹，撞墙或超时消失。
//
// 参数:
//   - em: 实体管理器
//   - tuning: 调参
//   - originX, originY: 发射点（火球中心）
//   - facing: 飞行方向 -1/+1
//
// 返回:
//   - ecs.EntityID: 火球实体ID
func NewFireballEntity(em *ecs.EntityManager, tuning config.Tuning, originX, originY float64, facing int) ecs.EntityID {
	size := scaled(fireballSize, tuning.TileSizeF())
	x := originX - size/2
	y := originY - size/2

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.BodyComponent{
		X: x, Y: y, W: size, H: size,
		VX:      float64(facing) * tuning.FireballSpeed,
		Facing:  facing,
		Alive:   true,
		Gravity: true,
		SafeX:   x,
		SafeY:   y,
	})
	ecs.AddComponent(em, id, &components.ProjectileComponent{Damage: 1})
	ecs.AddComponent(em, id, &components.LifetimeComponent{MaxTicks: tuning.Ticks(tuning.FireballTTL)})
	return id
}

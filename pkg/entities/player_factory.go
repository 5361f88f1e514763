package entities

import (
	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/tilemap"
	"github.com/decker502/platformer/pkg/types"
)

// NewPlayerEntity 在出生点创建小玛丽
//
// 参数:
//   - em: 实体管理器
//   - tuning: 调参
//   - spawn: 出生格子，玩家脚底贴着格子底边
//
// 返回:
//   - ecs.EntityID: 玩家实体ID
func NewPlayerEntity(em *ecs.EntityManager, tuning config.Tuning, spawn tilemap.Cell) ecs.EntityID {
	tile := tuning.TileSizeF()
	w, h := PlayerSize(false, tile)
	x, y := placeOnCell(spawn, w, h, tile)

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.BodyComponent{
		X: x, Y: y, W: w, H: h,
		Facing:  1,
		Alive:   true,
		Gravity: true,
		SafeX:   x,
		SafeY:   y,
	})
	ecs.AddComponent(em, id, &components.PlayerComponent{
		Power: types.PowerSmall,
		Lives: tuning.StartLives,
	})
	return id
}

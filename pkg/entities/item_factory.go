package entities

import (
	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/tilemap"
	"github.com/decker502/platformer/pkg/types"
)

// NewEmergingItemEntity 创建从问号块中冒出的道具
//
// 道具从格子内部开始（底边与格子底边对齐），关闭碰撞与重力，
// 由 ItemSystem 在 emerge_time 内匀速上升一个格子高度后转为普通角色。
//
// 参数:
//   - em: 实体管理器
//   - tuning: 调参
//   - kind: 道具种类（金币不走这个流程）
//   - block: 被顶的问号块
//   - facing: 冒出后的移动方向
//
// 返回:
//   - ecs.EntityID: 道具实体ID
func NewEmergingItemEntity(em *ecs.EntityManager, tuning config.Tuning, kind types.ItemKind, block tilemap.Cell, facing int) ecs.EntityID {
	tile := tuning.TileSizeF()
	size := scaled(itemSize, tile)
	x := float64(block.X)*tile + (tile-size)/2
	y := float64(block.Y+1)*tile - size

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.BodyComponent{
		X: x, Y: y, W: size, H: size,
		Facing: facing,
		Alive:  true,
		SafeX:  x,
		SafeY:  y - tile,
	})
	ecs.AddComponent(em, id, &components.ItemComponent{
		Kind:          kind,
		Emerging:      true,
		EmergeOriginY: y,
	})
	ecs.AddComponent(em, id, &components.CollisionComponent{IgnoreTiles: true})
	return id
}

// NewCoinEntity 创建摆放在地图上的金币（不受重力、不参与地图碰撞）
func NewCoinEntity(em *ecs.EntityManager, tuning config.Tuning, cell tilemap.Cell) ecs.EntityID {
	tile := tuning.TileSizeF()
	w := scaled(coinWidth, tile)
	h := scaled(itemSize, tile)
	x := float64(cell.X)*tile + (tile-w)/2
	y := float64(cell.Y)*tile + (tile-h)/2

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.BodyComponent{
		X: x, Y: y, W: w, H: h,
		Facing: 1,
		Alive:  true,
		SafeX:  x,
		SafeY:  y,
	})
	ecs.AddComponent(em, id, &components.ItemComponent{
		Kind:   types.ItemCoin,
		Static: true,
	})
	ecs.AddComponent(em, id, &components.CollisionComponent{IgnoreTiles: true})
	return id
}

package entities

import (
	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/tilemap"
	"github.com/decker502/platformer/pkg/types"
)

// NewEnemyEntity 创建敌人
//
// 敌人初始面朝左（朝向玩家出生的方向），在进入镜头激活范围之前保持静止。
// 乌龟会在悬崖边掉头，其余敌人会直接走下去。
//
// 参数:
//   - em: 实体管理器
//   - tuning: 调参
//   - kind: 敌人种类
//   - cell: 出生格子
//
// 返回:
//   - ecs.EntityID: 敌人实体ID
func NewEnemyEntity(em *ecs.EntityManager, tuning config.Tuning, kind types.EnemyKind, cell tilemap.Cell) ecs.EntityID {
	tile := tuning.TileSizeF()
	w := scaled(enemyWidth, tile)
	h := scaled(enemyHeight, tile)
	if kind == types.EnemyShelled || kind == types.EnemyFlying {
		h = scaled(shelledPatrolHeight, tile)
	}
	x, y := placeOnCell(cell, w, h, tile)

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.BodyComponent{
		X: x, Y: y, W: w, H: h,
		Facing:  -1,
		Alive:   true,
		Gravity: true,
		SafeX:   x,
		SafeY:   y,
	})
	ecs.AddComponent(em, id, &components.EnemyComponent{
		Kind:        kind,
		State:       types.EnemyPatrol,
		StompImmune: kind == types.EnemySpiked,
		LedgeAware:  kind == types.EnemyShelled,
	})
	return id
}

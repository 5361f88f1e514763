package entities

import (
	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/tilemap"
	"github.com/decker502/platformer/pkg/types"
)

// coinPopTime 从问号块弹出的金币动画时长（秒）
const coinPopTime = 0.5

// debrisLaunch 四块碎片的初速度（基准格子下的 像素/秒）
var debrisLaunch = [4][2]float64{
	{-60, -300},
	{60, -300},
	{-60, -180},
	{60, -180},
}

// NewDebrisEntities 砖块碎裂时生成碎片
//
// 碎片从格子的四个象限飞出，不参与地图碰撞，到期后由 LifetimeSystem 删除。
//
// 参数:
//   - em: 实体管理器
//   - tuning: 调参
//   - cell: 碎掉的砖块
//   - count: 碎片数量（最多 4 块）
//
// 返回:
//   - []ecs.EntityID: 碎片实体ID
func NewDebrisEntities(em *ecs.EntityManager, tuning config.Tuning, cell tilemap.Cell, count int) []ecs.EntityID {
	tile := tuning.TileSizeF()
	size := scaled(debrisSize, tile)
	ttl := tuning.Ticks(tuning.DebrisTTL)

	ids := make([]ecs.EntityID, 0, count)
	for i := 0; i < count && i < len(debrisLaunch); i++ {
		x := float64(cell.X)*tile + float64(i%2)*(tile-size)
		y := float64(cell.Y)*tile + float64(i/2)*(tile-size)

		id := em.CreateEntity()
		ecs.AddComponent(em, id, &components.BodyComponent{
			X: x, Y: y, W: size, H: size,
			VX:      scaled(debrisLaunch[i][0], tile),
			VY:      scaled(debrisLaunch[i][1], tile),
			Facing:  1,
			Alive:   true,
			Gravity: true,
		})
		ecs.AddComponent(em, id, &components.ParticleComponent{Kind: types.ParticleDebris})
		ecs.AddComponent(em, id, &components.LifetimeComponent{MaxTicks: ttl})
		ecs.AddComponent(em, id, &components.CollisionComponent{IgnoreTiles: true})
		ids = append(ids, id)
	}
	return ids
}

// NewCoinPopEntity 问号块顶出金币时的弹出动画
func NewCoinPopEntity(em *ecs.EntityManager, tuning config.Tuning, block tilemap.Cell) ecs.EntityID {
	tile := tuning.TileSizeF()
	w := scaled(coinWidth, tile)
	h := scaled(itemSize, tile)
	x := float64(block.X)*tile + (tile-w)/2
	y := float64(block.Y)*tile - h

	id := em.CreateEntity()
	ecs.AddComponent(em, id, &components.BodyComponent{
		X: x, Y: y, W: w, H: h,
		VY:      -tuning.StarBounceVY,
		Facing:  1,
		Alive:   true,
		Gravity: true,
	})
	ecs.AddComponent(em, id, &components.ParticleComponent{Kind: types.ParticleCoinPop})
	ecs.AddComponent(em, id, &components.LifetimeComponent{MaxTicks: tuning.Ticks(coinPopTime)})
	ecs.AddComponent(em, id, &components.CollisionComponent{IgnoreTiles: true})
	return id
}

package systems

import (
	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/game"
	"github.com/decker502/platformer/pkg/types"
)

// ItemSystem 道具运动
//
// 冒出阶段：关闭碰撞与重力，在 emerge_time 内匀速上升一个格子高度。
// 冒出之后：蘑菇和 1UP 匀速移动、撞墙掉头；无敌星落地就弹起；火焰花不动。
type ItemSystem struct {
	world *game.World
}

// NewItemSystem 创建道具系统
func NewItemSystem(w *game.World) *ItemSystem {
	return &ItemSystem{world: w}
}

// Update 更新所有道具
func (s *ItemSystem) Update(dt float64) {
	w := s.world
	t := w.Tuning
	tile := w.Map.TileSize()

	for _, id := range ecs.GetEntitiesWith2[*components.BodyComponent, *components.ItemComponent](w.Entities) {
		body, _ := ecs.GetComponent[*components.BodyComponent](w.Entities, id)
		item, _ := ecs.GetComponent[*components.ItemComponent](w.Entities, id)

		if item.Static {
			continue
		}

		if item.Emerging {
			item.EmergeProgress += dt / t.EmergeTime
			if item.EmergeProgress >= 1 {
				item.EmergeProgress = 1
				s.finishEmerging(id, body, item)
			}
			body.Y = item.EmergeOriginY - item.EmergeProgress*tile
			continue
		}

		switch item.Kind {
		case types.ItemMushroom, types.ItemOneUp, types.ItemStar:
			if body.WallSide != 0 && body.WallSide == body.Facing {
				body.Facing = -body.Facing
			}
			body.VX = float64(body.Facing) * t.ItemSpeed
			if item.Kind == types.ItemStar && body.Grounded {
				body.VY = -t.StarBounceVY
			}
		}
	}
}

// finishEmerging 冒出完成，道具成为普通角色
func (s *ItemSystem) finishEmerging(id ecs.EntityID, body *components.BodyComponent, item *components.ItemComponent) {
	item.Emerging = false
	if item.Kind == types.ItemFireFlower {
		// 火焰花停在方块顶上，不受重力
		return
	}
	body.Gravity = true
	ecs.AddComponent(s.world.Entities, id, &components.CollisionComponent{IgnoreTiles: false})
}

package systems

import (
	"log"
	"math"

	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/entities"
	"github.com/decker502/platformer/pkg/game"
	"github.com/decker502/platformer/pkg/tilemap"
	"github.com/decker502/platformer/pkg/types"
)

// standingTolerance 判断敌人是否站在被顶格子上时允许的竖直误差（像素）
const standingTolerance = 1.0

// InteractionSystem 在所有角色完成地图碰撞解析之后处理角色间的交互
//
// 处理顺序固定：
//  1. 顶块请求（格子变化、产出道具、碎片、击飞站在格子上的敌人）
//  2. 玩家与敌人
//  3. 滑行龟壳与敌人、巡逻敌人之间互相掉头
//  4. 火球与敌人
//  5. 玩家与道具
//  6. 终点
//
// 同一阶段内按实体ID升序处理，保证结果可复现。
type InteractionSystem struct {
	world *game.World
}

// NewInteractionSystem 创建交互系统
func NewInteractionSystem(w *game.World) *InteractionSystem {
	return &InteractionSystem{world: w}
}

// Update 按顺序处理本 tick 的全部交互
func (s *InteractionSystem) Update(dt float64) {
	s.resolveBumps()
	s.resolvePlayerEnemies(dt)
	s.resolveEnemyEnemies()
	s.resolveProjectiles()
	s.resolveItems()
	s.resolveGoal()
	s.world.Bumps = s.world.Bumps[:0]
}

// live 实体存在且未被标记删除
func (s *InteractionSystem) live(id ecs.EntityID) bool {
	return !s.world.Entities.IsMarkedForDestroy(id)
}

func (s *InteractionSystem) resolveBumps() {
	w := s.world
	for _, req := range w.Bumps {
		res := w.Map.Bump(req.Cell.X, req.Cell.Y, req.Bumper)
		switch res.Kind {
		case tilemap.BumpNone:
			continue
		case tilemap.BumpBonk:
			w.Emit(game.Event{Kind: game.EventBump, Entity: req.By, Cell: res.Cell, Detail: res.Kind.String()})
		case tilemap.BumpSpawn:
			w.Emit(game.Event{Kind: game.EventBump, Entity: req.By, Cell: res.Cell, Detail: res.Kind.String()})
			s.spawnPayload(req, res)
		case tilemap.BumpBreak:
			entities.NewDebrisEntities(w.Entities, w.Tuning, res.Cell, res.Debris)
			awardScore(w, ScoreBrickBreak, game.Event{Kind: game.EventBreak, Entity: req.By, Cell: res.Cell})
		}
		s.knockEnemiesOn(res.Cell)
	}
}

// spawnPayload 问号块产出内容物
//
// 金币直接计入并播放弹出动画；小玛丽顶出的火焰花换成蘑菇。
func (s *InteractionSystem) spawnPayload(req game.BumpRequest, res tilemap.BumpResult) {
	w := s.world
	kind := res.Payload
	if kind == types.ItemCoin {
		entities.NewCoinPopEntity(w.Entities, w.Tuning, res.Cell)
		addCoin(w, res.Cell)
		return
	}
	if kind == types.ItemFireFlower && req.Bumper.Power == types.PowerSmall {
		kind = types.ItemMushroom
	}

	facing := 1
	if body, _, ok := w.Player(); ok {
		blockCenter := (float64(res.Cell.X) + 0.5) * w.Map.TileSize()
		if body.CenterX() > blockCenter {
			facing = -1
		}
	}
	id := entities.NewEmergingItemEntity(w.Entities, w.Tuning, kind, res.Cell, facing)
	w.Emit(game.Event{Kind: game.EventSpawn, Entity: id, Cell: res.Cell, Detail: kind.String()})
}

// knockEnemiesOn 从下方顶格子时，站在格子上的敌人被击飞（乌龟被顶翻）
func (s *InteractionSystem) knockEnemiesOn(cell tilemap.Cell) {
	w := s.world
	top := w.Map.CellRect(cell.X, cell.Y)
	for _, id := range ecs.GetEntitiesWith2[*components.BodyComponent, *components.EnemyComponent](w.Entities) {
		if !s.live(id) || w.IgnoresTiles(id) {
			continue
		}
		body, _ := ecs.GetComponent[*components.BodyComponent](w.Entities, id)
		enemy, _ := ecs.GetComponent[*components.EnemyComponent](w.Entities, id)
		if enemy.IsHarmless() || !enemy.Active {
			continue
		}
		if math.Abs(body.Bottom()-top.Y) > standingTolerance || body.Right() <= top.X || body.X >= top.Right() {
			continue
		}
		if enemy.Kind == types.EnemyShelled {
			stunEnemy(w, id, body, enemy)
			continue
		}
		knockOut(w, id, body, enemy, ScoreBumpKill, "bump")
	}
}

// resolvePlayerEnemies 玩家与敌人的接触
//
// 仲裁顺序：无敌星击杀 → 无敌帧/无害状态忽略 → 踩踏 → 踢静止龟壳 → 受伤。
func (s *InteractionSystem) resolvePlayerEnemies(dt float64) {
	w := s.world
	pb, p, ok := w.Player()
	if !ok || p.Dead {
		return
	}
	for _, id := range ecs.GetEntitiesWith2[*components.BodyComponent, *components.EnemyComponent](w.Entities) {
		if !s.live(id) {
			continue
		}
		body, _ := ecs.GetComponent[*components.BodyComponent](w.Entities, id)
		enemy, _ := ecs.GetComponent[*components.EnemyComponent](w.Entities, id)
		if !enemy.Active || enemy.IsHarmless() || !pb.Overlaps(body) {
			continue
		}

		if p.StarTicks > 0 {
			knockOut(w, id, body, enemy, ScoreStarKill, "star")
			continue
		}
		if p.InvulnTicks > 0 {
			continue
		}

		if !enemy.StompImmune && s.isStomp(pb, body, dt) {
			if stompEnemy(w, id, body, enemy) {
				pb.VY = -w.Tuning.StompBounceVY
				p.Jumping = true
				continue
			}
		}

		switch {
		case enemy.State == types.EnemyShellIdle || enemy.State == types.EnemyStunned:
			kickShell(w, id, body, enemy, pb)
		case enemy.IsHazard():
			damagePlayer(w, id)
			if p.Dead {
				return
			}
		}
	}
}

// isStomp 玩家向下运动，且脚底进入敌人顶部的容差范围内
//
// 容差包含本 tick 的下落距离，高速下落时也不会漏判。
func (s *InteractionSystem) isStomp(player, enemy *components.BodyComponent, dt float64) bool {
	if player.VY <= 0 {
		return false
	}
	tolerance := s.world.Tuning.StompToleranceFrac*enemy.H + player.VY*dt
	return player.Bottom()-enemy.Top() <= tolerance
}

// resolveEnemyEnemies 滑行龟壳击飞沿途的敌人，巡逻的敌人相撞时各自掉头
func (s *InteractionSystem) resolveEnemyEnemies() {
	w := s.world
	ids := ecs.GetEntitiesWith2[*components.BodyComponent, *components.EnemyComponent](w.Entities)
	for i, a := range ids {
		if !s.live(a) {
			continue
		}
		ab, _ := ecs.GetComponent[*components.BodyComponent](w.Entities, a)
		ae, _ := ecs.GetComponent[*components.EnemyComponent](w.Entities, a)
		if !ae.Active || ae.IsHarmless() {
			continue
		}
		for _, b := range ids[i+1:] {
			if !s.live(b) {
				continue
			}
			bb, _ := ecs.GetComponent[*components.BodyComponent](w.Entities, b)
			be, _ := ecs.GetComponent[*components.EnemyComponent](w.Entities, b)
			if !be.Active || be.IsHarmless() || !ab.Overlaps(bb) {
				continue
			}

			aSliding := ae.State == types.EnemyShellSliding
			bSliding := be.State == types.EnemyShellSliding
			switch {
			case aSliding && bSliding:
				knockOut(w, a, ab, ae, ScoreShellKill, "shell")
				knockOut(w, b, bb, be, ScoreShellKill, "shell")
			case aSliding:
				knockOut(w, b, bb, be, ScoreShellKill, "shell")
			case bSliding:
				knockOut(w, a, ab, ae, ScoreShellKill, "shell")
			case ae.State == types.EnemyPatrol && be.State == types.EnemyPatrol:
				turnAway(ab, bb)
				turnAway(bb, ab)
			}
			if ae.IsHarmless() {
				break
			}
		}
	}
}

// turnAway 让 a 朝远离 b 的方向移动
func turnAway(a, b *components.BodyComponent) {
	if dir := sign(a.CenterX() - b.CenterX()); dir != 0 {
		a.Facing = dir
	}
}

// resolveProjectiles 火球击中敌人后消失
func (s *InteractionSystem) resolveProjectiles() {
	w := s.world
	enemies := ecs.GetEntitiesWith2[*components.BodyComponent, *components.EnemyComponent](w.Entities)
	for _, fid := range ecs.GetEntitiesWith2[*components.BodyComponent, *components.ProjectileComponent](w.Entities) {
		if !s.live(fid) {
			continue
		}
		fb, _ := ecs.GetComponent[*components.BodyComponent](w.Entities, fid)
		for _, id := range enemies {
			if !s.live(id) {
				continue
			}
			body, _ := ecs.GetComponent[*components.BodyComponent](w.Entities, id)
			enemy, _ := ecs.GetComponent[*components.EnemyComponent](w.Entities, id)
			if !enemy.Active || enemy.IsHarmless() || !fb.Overlaps(body) {
				continue
			}
			knockOut(w, id, body, enemy, ScoreFireballKill, "fireball")
			w.Entities.DestroyEntity(fid)
			break
		}
	}
}

// resolveItems 玩家拾取道具（冒出阶段的道具不能拾取）
func (s *InteractionSystem) resolveItems() {
	w := s.world
	pb, p, ok := w.Player()
	if !ok || p.Dead {
		return
	}
	for _, id := range ecs.GetEntitiesWith2[*components.BodyComponent, *components.ItemComponent](w.Entities) {
		if !s.live(id) {
			continue
		}
		body, _ := ecs.GetComponent[*components.BodyComponent](w.Entities, id)
		item, _ := ecs.GetComponent[*components.ItemComponent](w.Entities, id)
		if item.Emerging || !pb.Overlaps(body) {
			continue
		}
		cell := w.Map.CellAt(body.CenterX(), body.CenterY())
		applyItem(w, item.Kind, cell)
		w.Entities.DestroyEntity(id)
	}
}

// resolveGoal 玩家碰到终点格子即通关，剩余时间按秒换算成分数
func (s *InteractionSystem) resolveGoal() {
	w := s.world
	pb, p, ok := w.Player()
	if !ok || p.Dead || w.Status != game.StatusPlaying {
		return
	}
	player := tilemap.Rect{X: pb.X, Y: pb.Y, W: pb.W, H: pb.H}
	for _, goal := range w.Level.Goals {
		if !player.Overlaps(w.Map.CellRect(goal.X, goal.Y)) {
			continue
		}
		seconds := int(math.Ceil(float64(w.TimeTicks) * w.Tuning.Step()))
		w.Status = game.StatusCleared
		pb.VX = 0
		awardScore(w, seconds*ScoreTimePerSecond, game.Event{Kind: game.EventClear, Entity: w.PlayerID, Cell: goal})
		log.Printf("[InteractionSystem] Level %s cleared at tick %d, score %d", w.Level.ID, w.Tick, p.Score)
		return
	}
}

// stunEnemy 乌龟被从下方顶翻：缩成龟壳，可以被踢，倒计时后复活
func stunEnemy(w *game.World, id ecs.EntityID, body *components.BodyComponent, enemy *components.EnemyComponent) {
	toShell(w, body, enemy)
	enemy.State = types.EnemyStunned
	body.VY = -w.Tuning.StompBounceVY / 2
	awardScore(w, ScoreBumpKill, game.Event{Kind: game.EventKill, Entity: id, Detail: "bump"})
}

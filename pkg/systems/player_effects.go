package systems

import (
	"log"

	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/entities"
	"github.com/decker502/platformer/pkg/game"
	"github.com/decker502/platformer/pkg/tilemap"
	"github.com/decker502/platformer/pkg/types"
)

// 计分表
const (
	ScoreStomp         = 100
	ScoreShellKill     = 100
	ScoreBumpKill      = 100
	ScoreFireballKill  = 200
	ScoreStarKill      = 200
	ScoreCoin          = 200
	ScorePowerUp       = 1000
	ScoreBrickBreak    = 50
	ScoreTimePerSecond = 50

	// CoinsPerLife 每收集这么多金币奖励一条命
	CoinsPerLife = 100
	// MaxFireballs 同时存在的火球上限
	MaxFireballs = 2
)

// awardScore 给玩家加分并记录事件
func awardScore(w *game.World, points int, e game.Event) {
	if _, p, ok := w.Player(); ok {
		p.Score += points
	}
	e.Score = points
	w.Emit(e)
}

// addCoin 金币 +1，每满 CoinsPerLife 个奖励一条命
func addCoin(w *game.World, cell tilemap.Cell) {
	_, p, ok := w.Player()
	if !ok {
		return
	}
	p.Coins++
	awardScore(w, ScoreCoin, game.Event{Kind: game.EventCoin, Entity: w.PlayerID, Cell: cell})
	if p.Coins >= CoinsPerLife {
		p.Coins -= CoinsPerLife
		p.Lives++
		w.Emit(game.Event{Kind: game.EventOneUp, Entity: w.PlayerID, Detail: "coins"})
	}
}

// setPlayerPower 切换能力状态，必要时改变碰撞盒高度（保持脚底不动）
//
// 变大时如果头顶有阻挡，先记录 PendingGrow，等腾出空间再增高。
func setPlayerPower(w *game.World, body *components.BodyComponent, p *components.PlayerComponent, power types.PowerState) {
	p.Power = power
	tile := w.Map.TileSize()
	_, h := entities.PlayerSize(power.IsBig(), tile)
	if h <= body.H {
		body.SetHeightKeepBottom(h)
		p.PendingGrow = false
		return
	}
	if !tryGrow(w, body, h) {
		p.PendingGrow = true
		return
	}
	p.PendingGrow = false
}

// tryGrow 头顶没有阻挡时增高碰撞盒
func tryGrow(w *game.World, body *components.BodyComponent, h float64) bool {
	grown := tilemap.Rect{X: body.X, Y: body.Bottom() - h, W: body.W, H: h}
	if !w.IgnoresTiles(w.PlayerID) && w.Resolver.OverlapsBlocking(grown) {
		return false
	}
	body.SetHeightKeepBottom(h)
	return true
}

// damagePlayer 玩家受伤：能力降一级并进入无敌时间，小玛丽直接死亡
func damagePlayer(w *game.World, source ecs.EntityID) {
	body, p, ok := w.Player()
	if !ok || p.Dead {
		return
	}
	switch p.Power {
	case types.PowerFire:
		setPlayerPower(w, body, p, types.PowerBig)
	case types.PowerBig:
		setPlayerPower(w, body, p, types.PowerSmall)
	default:
		killPlayer(w, "enemy")
		return
	}
	p.InvulnTicks = w.Tuning.Ticks(w.Tuning.InvulnTime)
	w.Emit(game.Event{Kind: game.EventDamage, Entity: source, Detail: p.Power.String()})
}

// killPlayer 玩家死亡，进入 dying 状态
//
// 被敌人碰死时先向上弹起再穿过地面掉落；掉出关卡时原地停住。
func killPlayer(w *game.World, reason string) {
	body, p, ok := w.Player()
	if !ok || p.Dead {
		return
	}
	p.Dead = true
	p.InvulnTicks = 0
	p.StarTicks = 0
	p.PendingGrow = false
	body.VX = 0
	if reason == "fall" {
		body.VY = 0
		body.Gravity = false
		body.Alive = false
		if kill := w.KillPlaneY(); body.Y > kill {
			body.Y = kill
		}
	} else {
		body.VY = -w.Tuning.StompBounceVY * 2
	}
	ecs.AddComponent(w.Entities, w.PlayerID, &components.CollisionComponent{IgnoreTiles: true})

	w.Status = game.StatusDying
	w.StatusTicks = w.Tuning.Ticks(w.Tuning.RespawnDelay)
	w.Emit(game.Event{Kind: game.EventDeath, Entity: w.PlayerID, Detail: reason})
	log.Printf("[PlayerController] Player died (%s) at tick %d, lives left %d", reason, w.Tick, p.Lives)
}

// applyItem 玩家拾取道具
func applyItem(w *game.World, kind types.ItemKind, cell tilemap.Cell) {
	body, p, ok := w.Player()
	if !ok {
		return
	}
	switch kind {
	case types.ItemCoin:
		addCoin(w, cell)
		return
	case types.ItemMushroom:
		if p.Power == types.PowerSmall {
			setPlayerPower(w, body, p, types.PowerBig)
		}
	case types.ItemFireFlower:
		setPlayerPower(w, body, p, types.PowerFire)
	case types.ItemStar:
		p.StarTicks = w.Tuning.Ticks(w.Tuning.StarPowerTime)
	case types.ItemOneUp:
		p.Lives++
		w.Emit(game.Event{Kind: game.EventOneUp, Entity: w.PlayerID, Cell: cell, Detail: "item"})
		return
	}
	awardScore(w, ScorePowerUp, game.Event{Kind: game.EventPowerUp, Entity: w.PlayerID, Cell: cell, Detail: kind.String()})
}

package game

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/types"
)

// TileView 可见格子
type TileView struct {
	X    int    `yaml:"x"`
	Y    int    `yaml:"y"`
	Type string `yaml:"type"`
	Hits int    `yaml:"hits,omitempty"`
}

// ActorView 可见角色
type ActorView struct {
	ID     ecs.EntityID `yaml:"id"`
	Kind   string       `yaml:"kind"`
	X      float64      `yaml:"x"`
	Y      float64      `yaml:"y"`
	W      float64      `yaml:"w"`
	H      float64      `yaml:"h"`
	Facing int          `yaml:"facing"`
	State  string       `yaml:"state,omitempty"`
}

// HUD 抬头显示数据
type HUD struct {
	Score  int    `yaml:"score"`
	Coins  int    `yaml:"coins"`
	Lives  int    `yaml:"lives"`
	Power  string `yaml:"power"`
	Time   int    `yaml:"time"` // 剩余秒数（向上取整）
	Status string `yaml:"status"`
}

// FrameSnapshot 每个 tick 交给渲染层的只读快照
//
// 快照不引用 World 内部的任何可变数据，渲染层可以在任意时刻读取。
type FrameSnapshot struct {
	Tick    uint64      `yaml:"tick"`
	Alpha   float64     `yaml:"alpha"` // 插值系数：累加器余量 / 固定步长
	CameraX float64     `yaml:"camera_x"`
	CameraY float64     `yaml:"camera_y"`
	Tiles   []TileView  `yaml:"tiles_visible"`
	Actors  []ActorView `yaml:"actors_visible"`
	HUD     HUD         `yaml:"hud"`
	Events  []Event     `yaml:"events,omitempty"`
}

// Encode 按固定字段顺序输出 YAML
// 相同的快照总是得到逐字节相同的结果
func (s *FrameSnapshot) Encode() ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode frame snapshot: %w", err)
	}
	return data, nil
}

// BuildSnapshot 从世界状态生成快照
//
// 可见格子取镜头视口覆盖的格子（不含空格子），按行优先顺序；
// 可见角色取与视口相交的实体，按实体ID升序。
func BuildSnapshot(w *World) FrameSnapshot {
	snap := FrameSnapshot{
		Tick:    w.Tick,
		CameraX: w.Camera.X,
		CameraY: w.Camera.Y,
	}

	tile := w.Map.TileSize()
	viewW, viewH := w.Tuning.ViewW, w.Tuning.ViewH
	minX := int(math.Floor(w.Camera.X / tile))
	minY := int(math.Floor(w.Camera.Y / tile))
	maxX := int(math.Ceil((w.Camera.X+viewW)/tile)) - 1
	maxY := int(math.Ceil((w.Camera.Y+viewH)/tile)) - 1
	for cy := max(minY, 0); cy <= min(maxY, w.Map.Height()-1); cy++ {
		for cx := max(minX, 0); cx <= min(maxX, w.Map.Width()-1); cx++ {
			t := w.Map.Get(cx, cy)
			if t == types.TileEmpty {
				continue
			}
			snap.Tiles = append(snap.Tiles, TileView{X: cx, Y: cy, Type: t.String(), Hits: w.Map.Hits(cx, cy)})
		}
	}

	em := w.Entities
	for _, id := range ecs.GetEntitiesWith1[*components.BodyComponent](em) {
		if em.IsMarkedForDestroy(id) {
			continue
		}
		body, _ := ecs.GetComponent[*components.BodyComponent](em, id)
		if body.Right() <= w.Camera.X || body.X >= w.Camera.X+viewW ||
			body.Bottom() <= w.Camera.Y || body.Y >= w.Camera.Y+viewH {
			continue
		}
		kind, state := describe(em, id)
		snap.Actors = append(snap.Actors, ActorView{
			ID:     id,
			Kind:   kind,
			X:      body.X,
			Y:      body.Y,
			W:      body.W,
			H:      body.H,
			Facing: body.Facing,
			State:  state,
		})
	}

	if _, player, ok := w.Player(); ok {
		snap.HUD = HUD{
			Score: player.Score,
			Coins: player.Coins,
			Lives: player.Lives,
			Power: player.Power.String(),
		}
	}
	snap.HUD.Time = int(math.Ceil(float64(w.TimeTicks) * w.Tuning.Step()))
	snap.HUD.Status = w.Status.String()

	if len(w.Events) > 0 {
		snap.Events = append([]Event(nil), w.Events...)
	}
	return snap
}

// describe 返回实体的类型名和状态名
func describe(em *ecs.EntityManager, id ecs.EntityID) (string, string) {
	if p, ok := ecs.GetComponent[*components.PlayerComponent](em, id); ok {
		switch {
		case p.Dead:
			return "player", "dead"
		case p.StarTicks > 0:
			return "player", p.Power.String() + "_star"
		case p.InvulnTicks > 0:
			return "player", p.Power.String() + "_invuln"
		}
		return "player", p.Power.String()
	}
	if e, ok := ecs.GetComponent[*components.EnemyComponent](em, id); ok {
		return e.Kind.String(), e.State.String()
	}
	if it, ok := ecs.GetComponent[*components.ItemComponent](em, id); ok {
		if it.Emerging {
			return it.Kind.String(), "emerging"
		}
		return it.Kind.String(), ""
	}
	if ecs.HasComponent[*components.ProjectileComponent](em, id) {
		return "fireball", ""
	}
	if pc, ok := ecs.GetComponent[*components.ParticleComponent](em, id); ok {
		return pc.Kind.String(), ""
	}
	return "actor", ""
}

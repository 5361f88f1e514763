package game

import (
	"github.com/decker502/platformer/pkg/collision"
	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/level"
	"github.com/decker502/platformer/pkg/tilemap"
)

// Status 关卡流程状态
type Status uint8

const (
	// StatusPlaying 正常游戏中
	StatusPlaying Status = iota
	// StatusDying 玩家死亡动画中，倒计时结束后重生或游戏结束
	StatusDying
	// StatusCleared 到达终点
	StatusCleared
	// StatusGameOver 生命耗尽
	StatusGameOver
)

// String 返回状态的字符串表示
func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusDying:
		return "dying"
	case StatusCleared:
		return "cleared"
	case StatusGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Camera 镜头位置（视口左上角，像素）
type Camera struct {
	X, Y float64
}

// BumpRequest 竖直解析时头顶撞到格子登记的顶块请求
// 在交互阶段统一处理，保证所有角色先完成碰撞解析
type BumpRequest struct {
	Cell   tilemap.Cell
	Bumper tilemap.Bumper
	By     ecs.EntityID
}

// World 一局游戏的全部可变状态
//
// 所有系统通过指针共享同一个 World，没有任何包级可变状态。
// World 只在 tick 内被修改；渲染端只读取 FrameSnapshot。
type World struct {
	Level    *level.Level
	Tuning   config.Tuning
	Map      *tilemap.TileMap
	Resolver *collision.Resolver
	Entities *ecs.EntityManager

	PlayerID ecs.EntityID
	Camera   Camera
	Input    Input // 本 tick 的输入快照

	Tick        uint64
	Status      Status
	StatusTicks int // 死亡或通关后的倒计时
	TimeTicks   int // 关卡剩余时间

	Bumps  []BumpRequest
	Events []Event // 本 tick 产生的事件，每个 tick 开始时清空
}

// NewWorld 基于关卡和调参创建世界
// 实体由调用方通过 entities 包生成
func NewWorld(lvl *level.Level, tuning config.Tuning) *World {
	m := lvl.NewTileMap(tuning.TileSize)
	return &World{
		Level:     lvl,
		Tuning:    tuning,
		Map:       m,
		Resolver:  collision.NewResolver(m, tuning.SnapThreshold),
		Entities:  ecs.NewEntityManager(),
		Status:    StatusPlaying,
		TimeTicks: tuning.Ticks(LevelTimeSeconds(lvl, tuning)),
	}
}

// LevelTimeSeconds 返回关卡时间限制（秒），关卡未指定时使用调参默认值
func LevelTimeSeconds(lvl *level.Level, tuning config.Tuning) float64 {
	if lvl.TimeLimit > 0 {
		return float64(lvl.TimeLimit)
	}
	return tuning.LevelTime
}

// Emit 记录一个事件
func (w *World) Emit(e Event) {
	e.Tick = w.Tick
	w.Events = append(w.Events, e)
}

// Player 返回玩家的碰撞盒和状态
func (w *World) Player() (*components.BodyComponent, *components.PlayerComponent, bool) {
	body, ok := ecs.GetComponent[*components.BodyComponent](w.Entities, w.PlayerID)
	if !ok {
		return nil, nil, false
	}
	player, ok := ecs.GetComponent[*components.PlayerComponent](w.Entities, w.PlayerID)
	if !ok {
		return nil, nil, false
	}
	return body, player, true
}

// PixelWidth 返回关卡像素宽度
func (w *World) PixelWidth() float64 { return w.Map.PixelWidth() }

// PixelHeight 返回关卡像素高度
func (w *World) PixelHeight() float64 { return w.Map.PixelHeight() }

// KillPlaneY 角色上边缘低于这个高度即视为掉出关卡
func (w *World) KillPlaneY() float64 {
	return w.Map.PixelHeight() + 2*w.Map.TileSize()
}

// IgnoresTiles 返回实体是否关闭了地图碰撞
func (w *World) IgnoresTiles(id ecs.EntityID) bool {
	c, ok := ecs.GetComponent[*components.CollisionComponent](w.Entities, id)
	return ok && c.IgnoreTiles
}

// Package engine 驱动固定步长的游戏主循环
//
// Engine 持有一局游戏的 World 和全部系统。外层（窗口、终端、命令行）每帧调用
// Advance 传入墙钟间隔，Engine 用累加器把它切成若干个固定步长，
// 每个步长从 InputSource 取一次输入并按固定顺序更新各系统。
// 渲染层只读取 Snapshot 返回的 FrameSnapshot。
package engine

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/entities"
	"github.com/decker502/platformer/pkg/game"
	"github.com/decker502/platformer/pkg/level"
	"github.com/decker502/platformer/pkg/systems"
)

// ErrNilLevel 创建引擎时没有提供关卡
var ErrNilLevel = errors.New("engine: nil level")

// Options 引擎选项
type Options struct {
	// Debug 为 true 时碰撞不变量被破坏直接返回错误；
	// 否则把角色放回上一次的安全位置并记录警告
	Debug bool
}

// Engine 一局游戏的主循环
type Engine struct {
	world *game.World
	opts  Options

	step        time.Duration
	dtMax       time.Duration
	maxSteps    int
	accumulator time.Duration

	playerSystem      *systems.PlayerControllerSystem
	enemySystem       *systems.EnemySystem
	itemSystem        *systems.ItemSystem
	projectileSystem  *systems.ProjectileSystem
	lifetimeSystem    *systems.LifetimeSystem
	physicsSystem     *systems.PhysicsSystem
	invariantSystem   *systems.InvariantSystem
	interactionSystem *systems.InteractionSystem
	cameraSystem      *systems.CameraSystem

	snapshot game.FrameSnapshot
}

// New 创建引擎并生成关卡初始实体
//
// 参数:
//   - lvl: 已解析的关卡
//   - tuning: 调参（会再次校验）
//   - opts: 引擎选项
//
// 返回:
//   - *Engine: 引擎实例
//   - error: 关卡为空或调参无效
func New(lvl *level.Level, tuning config.Tuning, opts Options) (*Engine, error) {
	if lvl == nil {
		return nil, ErrNilLevel
	}
	if err := tuning.Validate(); err != nil {
		return nil, err
	}

	w := game.NewWorld(lvl, tuning)
	e := &Engine{
		world:    w,
		opts:     opts,
		step:     tuning.StepDuration(),
		dtMax:    tuning.DTMaxDuration(),
		maxSteps: tuning.MaxSteps,

		playerSystem:      systems.NewPlayerControllerSystem(w),
		enemySystem:       systems.NewEnemySystem(w),
		itemSystem:        systems.NewItemSystem(w),
		projectileSystem:  systems.NewProjectileSystem(w),
		lifetimeSystem:    systems.NewLifetimeSystem(w.Entities),
		physicsSystem:     systems.NewPhysicsSystem(w),
		invariantSystem:   systems.NewInvariantSystem(w, opts.Debug),
		interactionSystem: systems.NewInteractionSystem(w),
		cameraSystem:      systems.NewCameraSystem(w),
	}

	entities.SpawnLevelActors(w)
	e.cameraSystem.Snap()
	e.snapshot = game.BuildSnapshot(w)

	log.Printf("[Engine] Level %q loaded: %dx%d tiles, step %v, debug=%v",
		lvl.ID, lvl.Width, lvl.Height, e.step, opts.Debug)
	return e, nil
}

// World 返回世界状态（测试和调试工具使用，渲染层应使用 Snapshot）
func (e *Engine) World() *game.World {
	return e.world
}

// Status 返回当前关卡流程状态
func (e *Engine) Status() game.Status {
	return e.world.Status
}

// Snapshot 返回最近一个 tick 结束时的快照
func (e *Engine) Snapshot() game.FrameSnapshot {
	return e.snapshot
}

// Accumulator 返回累加器中尚未消耗的时间
func (e *Engine) Accumulator() time.Duration {
	return e.accumulator
}

// Advance 推进墙钟时间 dt
//
// dt 先被限制在 [0, dt_max]；累加器够一个步长就执行一次 Step，
// 每次调用最多执行 max_steps 次。达到上限时丢弃积压的整步时间，
// 下一帧立即恢复响应。
//
// 参数:
//   - dt: 距上一帧的墙钟时间
//   - src: 输入来源，每个步长调用一次 Poll
//
// 返回:
//   - steps: 本次执行的固定步长数
//   - alpha: 插值系数 accumulator / step，位于 [0, 1)
//   - err: 调试模式下的碰撞不变量错误
func (e *Engine) Advance(dt time.Duration, src game.InputSource) (steps int, alpha float64, err error) {
	if dt < 0 {
		dt = 0
	}
	if dt > e.dtMax {
		dt = e.dtMax
	}
	e.accumulator += dt

	for e.accumulator >= e.step && steps < e.maxSteps {
		if err := e.Step(src.Poll()); err != nil {
			return steps, e.alpha(), err
		}
		e.accumulator -= e.step
		steps++
	}
	if e.accumulator >= e.step {
		log.Printf("[Engine] Warning: step cap %d reached at tick %d, dropping %v", e.maxSteps, e.world.Tick, e.accumulator-e.accumulator%e.step)
		e.accumulator %= e.step
	}

	alpha = e.alpha()
	e.snapshot.Alpha = alpha
	return steps, alpha, nil
}

func (e *Engine) alpha() float64 {
	return float64(e.accumulator) / float64(e.step)
}

// Step 执行一个固定步长
//
// 顺序：输入 → 玩家 → 敌人 → 道具 → 飞行物 → 生命周期 → 碰撞解析
// → 不变量检查 → 交互 → 镜头 → 快照。
//
// 参数:
//   - in: 本 tick 的输入快照
//
// 返回:
//   - error: 调试模式下的碰撞不变量错误
func (e *Engine) Step(in game.Input) error {
	w := e.world
	dt := w.Tuning.Step()

	w.Tick++
	w.Events = nil
	w.Bumps = w.Bumps[:0]
	w.Input = in

	var err error
	switch w.Status {
	case game.StatusPlaying:
		err = e.stepPlaying(dt)
	case game.StatusDying:
		err = e.stepDying(dt)
	}

	w.Entities.RemoveMarkedEntities()
	e.snapshot = game.BuildSnapshot(w)
	e.snapshot.Alpha = e.alpha()
	return err
}

func (e *Engine) stepPlaying(dt float64) error {
	e.playerSystem.Update(dt)
	e.enemySystem.Update(dt)
	e.itemSystem.Update(dt)
	e.projectileSystem.Update(dt)
	e.lifetimeSystem.Update(dt)
	e.physicsSystem.Update(dt)
	if err := e.invariantSystem.Update(dt); err != nil {
		return err
	}
	e.interactionSystem.Update(dt)
	e.cameraSystem.Update(dt)
	return nil
}

// stepDying 死亡动画：只有玩家继续下落，倒计时结束后扣命
func (e *Engine) stepDying(dt float64) error {
	w := e.world
	e.physicsSystem.UpdatePlayer(dt)
	e.lifetimeSystem.Update(dt)

	if w.StatusTicks > 0 {
		w.StatusTicks--
	}
	if w.StatusTicks == 0 {
		e.loseLife()
	}
	return nil
}

// loseLife 扣一条命：还有剩余就在起点重生，否则游戏结束
//
// 重生时地图恢复初始状态，分数和金币保留。
func (e *Engine) loseLife() {
	w := e.world
	_, p, ok := w.Player()
	if !ok {
		return
	}
	score, coins, lives := p.Score, p.Coins, p.Lives-1
	p.Lives = lives

	if lives <= 0 {
		w.Status = game.StatusGameOver
		w.Emit(game.Event{Kind: game.EventGameOver, Entity: w.PlayerID})
		log.Printf("[Engine] Game over at tick %d, final score %d", w.Tick, score)
		return
	}

	w.Map.Reset()
	entities.SpawnLevelActors(w)
	_, p, _ = w.Player()
	p.Score, p.Coins, p.Lives = score, coins, lives

	w.Status = game.StatusPlaying
	w.StatusTicks = 0
	w.TimeTicks = w.Tuning.Ticks(game.LevelTimeSeconds(w.Level, w.Tuning))
	e.cameraSystem.Snap()
	w.Emit(game.Event{Kind: game.EventRespawn, Entity: w.PlayerID, Detail: fmt.Sprintf("lives=%d", lives)})
	log.Printf("[Engine] Player respawned at tick %d, lives left %d", w.Tick, lives)
}

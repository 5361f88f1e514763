package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/game"
	"github.com/decker502/platformer/pkg/level"
	"github.com/decker502/platformer/pkg/types"
)

// newTimedEngine 关卡时间限制为 seconds 秒的引擎
func newTimedEngine(t *testing.T, tuning config.Tuning, seconds int, rows []string) *Engine {
	t.Helper()
	lvl, err := level.Parse(rows)
	require.NoError(t, err)
	lvl.ID = t.Name()
	lvl.TimeLimit = seconds
	e, err := New(lvl, tuning, Options{Debug: true})
	require.NoError(t, err)
	return e
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(nil, config.DefaultTuning(), Options{})
	assert.ErrorIs(t, err, ErrNilLevel)

	lvl, err := level.Parse(flatLevel("..M...........................G"))
	require.NoError(t, err)
	tuning := config.DefaultTuning()
	tuning.MaxSteps = 0
	_, err = New(lvl, tuning, Options{})
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))

	// 截断成 0ns 的步长会让累加器取模除零
	tuning = config.DefaultTuning()
	tuning.FixedStep = 1e-10
	_, err = New(lvl, tuning, Options{})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	tuning = config.DefaultTuning()
	tuning.DTMax = math.NaN()
	_, err = New(lvl, tuning, Options{})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestInitialSnapshot(t *testing.T) {
	e := newTestEngine(t, config.DefaultTuning(), flatLevel("..M.....g.....................G"))
	snap := e.Snapshot()

	assert.Zero(t, snap.Tick)
	assert.Equal(t, game.StatusPlaying, e.Status())
	assert.Equal(t, "playing", snap.HUD.Status)
	assert.Equal(t, 3, snap.HUD.Lives)
	assert.Equal(t, "small", snap.HUD.Power)
	assert.Equal(t, 400, snap.HUD.Time)
	require.Len(t, snap.Actors, 2)
	assert.Equal(t, "player", snap.Actors[0].Kind)
	assert.Equal(t, 34.0, snap.Actors[0].X)
	assert.Equal(t, 192.0, snap.Actors[0].Y)
}

// TestTimeUpRespawn 时间耗尽后死亡，延迟结束后在起点重生，地图恢复而分数保留
func TestTimeUpRespawn(t *testing.T) {
	tuning := config.DefaultTuning()
	e := newTimedEngine(t, tuning, 1, brickLevel('B'))
	body := playerBody(t, e)
	p := playerState(t, e)
	p.Power = types.PowerBig
	body.SetHeightKeepBottom(28)

	snaps := runFrames(t, e, jumpFrames(60))
	require.Len(t, eventsOf(snaps, game.EventBreak), 1)
	assert.Equal(t, types.TileEmpty, e.World().Map.Get(3, 10))

	timeUp := eventsOf(snaps, game.EventTimeUp)
	require.Len(t, timeUp, 1)
	assert.Equal(t, uint64(60), timeUp[0].Tick)
	deaths := eventsOf(snaps, game.EventDeath)
	require.Len(t, deaths, 1)
	assert.Equal(t, "time_up", deaths[0].Detail)
	assert.Equal(t, game.StatusDying, e.Status())

	delay := tuning.Ticks(tuning.RespawnDelay)
	snaps = runFrames(t, e, hold(delay, game.Input{}))
	respawns := eventsOf(snaps, game.EventRespawn)
	require.Len(t, respawns, 1)
	assert.Equal(t, uint64(60+delay), respawns[0].Tick)
	assert.Equal(t, "lives=2", respawns[0].Detail)

	assert.Equal(t, game.StatusPlaying, e.Status())
	assert.Equal(t, types.TileBrick, e.World().Map.Get(3, 10), "map should be restored")

	p = playerState(t, e)
	body = playerBody(t, e)
	assert.Equal(t, 2, p.Lives)
	assert.Equal(t, 50, p.Score, "score survives respawn")
	assert.Equal(t, types.PowerSmall, p.Power)
	assert.False(t, p.Dead)
	assert.Equal(t, 16.0, body.H)

	last := snaps[len(snaps)-1]
	assert.Equal(t, 1, last.HUD.Time)
	assert.Equal(t, 2, last.HUD.Lives)
}

// TestGameOver 最后一条命用完后停在 game over
func TestGameOver(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.StartLives = 1
	e := newTimedEngine(t, tuning, 1, flatLevel("..M...........................G"))

	delay := tuning.Ticks(tuning.RespawnDelay)
	snaps := runFrames(t, e, hold(60+delay, game.Input{}))
	overs := eventsOf(snaps, game.EventGameOver)
	require.Len(t, overs, 1)
	assert.Equal(t, uint64(60+delay), overs[0].Tick)
	assert.Empty(t, eventsOf(snaps, game.EventRespawn))
	assert.Equal(t, game.StatusGameOver, e.Status())
	assert.Equal(t, 0, playerState(t, e).Lives)

	// 之后 tick 继续计数但世界冻结
	before := *playerBody(t, e)
	snaps = runFrames(t, e, hold(30, game.Input{Right: true, Jump: true}))
	assert.Equal(t, game.StatusGameOver, e.Status())
	assert.Equal(t, before, *playerBody(t, e))
	for _, s := range snaps {
		assert.Empty(t, s.Events)
		assert.Equal(t, "game_over", s.HUD.Status)
	}
}

// TestFallDeath 掉进坑里死亡
func TestFallDeath(t *testing.T) {
	rows := flatLevel("..M.........................G.")
	for _, i := range []int{13, 14} {
		rows[i] = "###########..............#####"
	}
	e := newTestEngine(t, config.DefaultTuning(), rows)

	snaps := runFrames(t, e, hold(200, game.Input{Right: true}))
	deaths := eventsOf(snaps, game.EventDeath)
	require.Len(t, deaths, 1)
	assert.Equal(t, "fall", deaths[0].Detail)

	body := playerBody(t, e)
	assert.LessOrEqual(t, body.Y, e.World().KillPlaneY())
}

// TestGoalClear 碰到终点通关，剩余时间折算分数，之后世界冻结
func TestGoalClear(t *testing.T) {
	e := newTestEngine(t, config.DefaultTuning(), flatLevel("..MG..........................."))

	var clear []game.Event
	for i := 0; i < 60 && len(clear) == 0; i++ {
		require.NoError(t, e.Step(game.Input{Right: true}))
		clear = eventsOf([]game.FrameSnapshot{e.Snapshot()}, game.EventClear)
	}
	require.Len(t, clear, 1)
	assert.Equal(t, game.StatusCleared, e.Status())

	w := e.World()
	seconds := int(math.Ceil(float64(w.TimeTicks) * w.Tuning.Step()))
	assert.Equal(t, seconds*50, clear[0].Score)
	assert.Equal(t, seconds*50, playerState(t, e).Score)

	before := *playerBody(t, e)
	timeLeft := w.TimeTicks
	runFrames(t, e, hold(30, game.Input{Right: true}))
	assert.Equal(t, before, *playerBody(t, e))
	assert.Equal(t, timeLeft, w.TimeTicks)
	assert.Equal(t, game.StatusCleared, e.Status())
}

// TestAdvanceAccumulator 不足一步的时间留在累加器里，并反映在 alpha 中
func TestAdvanceAccumulator(t *testing.T) {
	tuning := config.DefaultTuning()
	e := newTestEngine(t, tuning, flatLevel("..M...........................G"))
	src := NewScriptedInput(nil)
	step := tuning.StepDuration()

	steps, alpha, err := e.Advance(step/2, src)
	require.NoError(t, err)
	assert.Zero(t, steps)
	assert.InDelta(t, 0.5, alpha, 1e-6)
	assert.Equal(t, step/2, e.Accumulator())

	steps, alpha, err = e.Advance(step, src)
	require.NoError(t, err)
	assert.Equal(t, 1, steps)
	assert.InDelta(t, 0.5, alpha, 1e-6)
	assert.InDelta(t, 0.5, e.Snapshot().Alpha, 1e-6)

	// 负的间隔按 0 处理
	steps, _, err = e.Advance(-step, src)
	require.NoError(t, err)
	assert.Zero(t, steps)
	assert.Equal(t, step/2, e.Accumulator())
	assert.Equal(t, 1, src.Polled())
}

// TestDebugInvariantError 调试模式下角色被解析到关卡之外时 Step 返回错误，发布模式下恢复到安全位置
func TestDebugInvariantError(t *testing.T) {
	rows := flatLevel("..M...........................G")

	e := newTestEngine(t, config.DefaultTuning(), rows)
	require.NoError(t, e.Step(game.Input{}))
	body := playerBody(t, e)
	// 一个 tick 的位移远超关卡宽度，解析迭代次数用完后仍在关卡右侧之外
	body.VX = 1e5
	err := e.Step(game.Input{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision invariant")

	lvl, err := level.Parse(rows)
	require.NoError(t, err)
	release, err := New(lvl, config.DefaultTuning(), Options{})
	require.NoError(t, err)
	require.NoError(t, release.Step(game.Input{}))
	body = playerBody(t, release)
	safeX, safeY := body.X, body.Y
	body.VX = 1e5
	require.NoError(t, release.Step(game.Input{}))
	assert.Equal(t, safeX, body.X)
	assert.Equal(t, safeY, body.Y)
	assert.Zero(t, body.VX)
	assert.Zero(t, body.VY)
}

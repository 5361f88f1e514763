package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/game"
	"github.com/decker502/platformer/pkg/level"
)

// newTestEngine 解析字符行并创建调试模式的引擎
func newTestEngine(t *testing.T, tuning config.Tuning, rows []string) *Engine {
	t.Helper()
	lvl, err := level.Parse(rows)
	require.NoError(t, err)
	lvl.ID = t.Name()
	e, err := New(lvl, tuning, Options{Debug: true})
	require.NoError(t, err)
	return e
}

// flatLevel 30x15 的平地关卡：地面在第 13、14 行，row12 是出生点所在的第 12 行
func flatLevel(row12 string) []string {
	rows := make([]string, 0, 15)
	for i := 0; i < 12; i++ {
		rows = append(rows, "..............................")
	}
	rows = append(rows, row12)
	rows = append(rows, "##############################")
	rows = append(rows, "##############################")
	return rows
}

// hold 生成 n 个相同的输入
func hold(n int, in game.Input) []game.Input {
	frames := make([]game.Input, n)
	for i := range frames {
		frames[i] = in
	}
	return frames
}

// runFrames 逐 tick 回放输入，返回每个 tick 的快照
func runFrames(t *testing.T, e *Engine, frames []game.Input) []game.FrameSnapshot {
	t.Helper()
	src := NewScriptedInput(frames)
	snaps := make([]game.FrameSnapshot, 0, len(frames))
	for range frames {
		require.NoError(t, e.Step(src.Poll()))
		snaps = append(snaps, e.Snapshot())
	}
	return snaps
}

// eventsOf 收集快照中指定类型的事件
func eventsOf(snaps []game.FrameSnapshot, kind game.EventKind) []game.Event {
	var out []game.Event
	for _, s := range snaps {
		for _, ev := range s.Events {
			if ev.Kind == kind {
				out = append(out, ev)
			}
		}
	}
	return out
}

// playerBody 返回玩家碰撞盒
func playerBody(t *testing.T, e *Engine) *components.BodyComponent {
	t.Helper()
	body, _, ok := e.World().Player()
	require.True(t, ok, "player entity missing")
	return body
}

// playerState 返回玩家状态
func playerState(t *testing.T, e *Engine) *components.PlayerComponent {
	t.Helper()
	_, p, ok := e.World().Player()
	require.True(t, ok, "player entity missing")
	return p
}

// firstEnemy 返回ID最小的敌人
func firstEnemy(t *testing.T, e *Engine) (ecs.EntityID, *components.BodyComponent, *components.EnemyComponent) {
	t.Helper()
	em := e.World().Entities
	ids := ecs.GetEntitiesWith2[*components.BodyComponent, *components.EnemyComponent](em)
	require.NotEmpty(t, ids, "no enemy in world")
	body, _ := ecs.GetComponent[*components.BodyComponent](em, ids[0])
	enemy, _ := ecs.GetComponent[*components.EnemyComponent](em, ids[0])
	return ids[0], body, enemy
}

package engine

import (
	"bytes"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decker502/platformer/pkg/components"
	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/game"
)

// mixedLevel 包含斜坡、砖块、问号块、坑和几种敌人
var mixedLevel = []string{
	"........................................",
	"........................................",
	"........................................",
	"........................................",
	"........................................",
	"........................................",
	"..........B?B!B.........................",
	"........................................",
	"........................................",
	"......................BBB...............",
	"........................................",
	"...............................o.o......",
	"..M.....g.....k........\\#####/g......G..",
	"###################....#################",
	"###################....#################",
}

// randomFrames 生成可复现的随机输入：每 15 个 tick 换一次方向，随机按跳跃和开火
func randomFrames(seed int64, n int) []game.Input {
	rng := rand.New(rand.NewSource(seed))
	frames := make([]game.Input, n)
	var cur game.Input
	for i := range frames {
		if i%15 == 0 {
			cur = game.Input{}
			switch rng.Intn(4) {
			case 0, 1:
				cur.Right = true
			case 2:
				cur.Left = true
			}
			cur.Run = rng.Intn(2) == 0
		}
		in := cur
		in.Jump = rng.Intn(3) == 0
		in.FirePressed = rng.Intn(20) == 0
		frames[i] = in
	}
	return frames
}

// TestContainmentAndNoOverlap 每个 tick 结束时所有角色都在关卡范围内且不与阻挡格子重叠
func TestContainmentAndNoOverlap(t *testing.T) {
	for _, seed := range []int64{1, 2, 3} {
		e := newTestEngine(t, config.DefaultTuning(), mixedLevel)
		w := e.World()
		src := NewScriptedInput(randomFrames(seed, 2400))

		for tick := 1; tick <= src.Len(); tick++ {
			// 调试模式下任何重叠都会让 Step 返回错误
			require.NoError(t, e.Step(src.Poll()), "seed %d tick %d", seed, tick)

			for _, id := range ecs.GetEntitiesWith1[*components.BodyComponent](w.Entities) {
				body, _ := ecs.GetComponent[*components.BodyComponent](w.Entities, id)
				require.GreaterOrEqual(t, body.X, -1e-6, "seed %d tick %d entity %d", seed, tick, id)
				require.LessOrEqual(t, body.X, w.PixelWidth()-body.W+1e-6, "seed %d tick %d entity %d", seed, tick, id)
				require.LessOrEqual(t, body.Y, w.KillPlaneY(), "seed %d tick %d entity %d", seed, tick, id)
				if !w.IgnoresTiles(id) {
					require.NoError(t, w.Resolver.Check(body), "seed %d tick %d entity %d", seed, tick, id)
				}
			}
		}
	}
}

// TestDeterminism 相同的输入序列两次运行得到逐字节相同的快照
func TestDeterminism(t *testing.T) {
	frames := randomFrames(42, 1200)
	a := newTestEngine(t, config.DefaultTuning(), mixedLevel)
	b := newTestEngine(t, config.DefaultTuning(), mixedLevel)
	srcA := NewScriptedInput(frames)
	srcB := NewScriptedInput(frames)

	for tick := 1; tick <= len(frames); tick++ {
		require.NoError(t, a.Step(srcA.Poll()))
		require.NoError(t, b.Step(srcB.Poll()))

		snapA, snapB := a.Snapshot(), b.Snapshot()
		encA, err := snapA.Encode()
		require.NoError(t, err)
		encB, err := snapB.Encode()
		require.NoError(t, err)
		if !bytes.Equal(encA, encB) {
			t.Fatalf("snapshots diverged at tick %d:\n%s\n---\n%s", tick, encA, encB)
		}
	}
}

// TestFrameRateIndependence 每帧 1/60 秒与每帧 1/20 秒（内部三步）得到相同的轨迹
func TestFrameRateIndependence(t *testing.T) {
	frames := randomFrames(7, 900)
	fine := newTestEngine(t, config.DefaultTuning(), mixedLevel)
	coarse := newTestEngine(t, config.DefaultTuning(), mixedLevel)
	fineSrc := NewScriptedInput(frames)
	coarseSrc := NewScriptedInput(frames)

	for frame := 0; frame < len(frames)/3; frame++ {
		for i := 0; i < 3; i++ {
			steps, _, err := fine.Advance(time.Second/60, fineSrc)
			require.NoError(t, err)
			require.Equal(t, 1, steps)
		}
		steps, _, err := coarse.Advance(time.Second/20, coarseSrc)
		require.NoError(t, err)
		require.Equal(t, 3, steps)

		fb, cb := playerBody(t, fine), playerBody(t, coarse)
		require.Equal(t, fine.World().Tick, coarse.World().Tick)
		require.Equal(t, *fb, *cb, "player diverged after frame %d", frame)
	}
}

// TestJumpBuffer 落地前 jump_buffer_time 内按下跳跃，落地后恰好起跳一次
func TestJumpBuffer(t *testing.T) {
	rows := flatLevel("..M...........................G")

	// 第 2 个 tick 起跳并按住 20 个 tick，返回落地的 tick
	firstJump := func(tick int) game.Input {
		in := game.Input{Jump: tick >= 2 && tick < 22}
		in.JumpPressed = tick == 2
		return in
	}
	e := newTestEngine(t, config.DefaultTuning(), rows)
	body := playerBody(t, e)
	landing := 0
	for tick := 1; tick < 200; tick++ {
		require.NoError(t, e.Step(firstJump(tick)))
		if tick > 2 && body.Grounded {
			landing = tick
			break
		}
	}
	require.NotZero(t, landing, "first jump never landed")

	tests := []struct {
		early int // 在落地前多少个 tick 按下
		want  int // 总跳跃次数
	}{
		{early: 0, want: 2},
		{early: 2, want: 2},
		{early: 4, want: 2},
		{early: 8, want: 1},
	}
	for _, tt := range tests {
		e := newTestEngine(t, config.DefaultTuning(), rows)
		press := landing - tt.early
		var snaps []game.FrameSnapshot
		for tick := 1; tick <= landing+40; tick++ {
			in := firstJump(tick)
			if tick == press {
				in.Jump, in.JumpPressed = true, true
			}
			require.NoError(t, e.Step(in))
			snaps = append(snaps, e.Snapshot())
		}
		jumps := eventsOf(snaps, game.EventJump)
		require.Len(t, jumps, tt.want, "press %d ticks before landing", tt.early)
		if tt.want == 2 {
			assert.Equal(t, uint64(landing+1), jumps[1].Tick, "buffered jump fires on the first grounded tick")
		}
	}
}

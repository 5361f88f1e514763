package tui

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/platformer/pkg/engine"
)

// Options 终端运行参数
type Options struct {
	LevelID   string
	FrameRate int // 每秒刷新次数，<= 0 时为 60
	HoldTicks int // 见 DefaultHoldTicks
}

// Run 在终端中运行引擎，直到按下 q/Esc/Ctrl-C 或 ctx 结束
//
// 调用方负责 screen.Init() 和 screen.Fini()。引擎按真实时间推进：
// 每次刷新把距离上次刷新的时间交给 Engine.Advance。
func Run(ctx context.Context, screen tcell.Screen, e *engine.Engine, opts Options) error {
	rate := opts.FrameRate
	if rate <= 0 {
		rate = 60
	}
	input := NewKeyInput(opts.HoldTicks)
	tuning := e.World().Tuning

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	defer close(quit)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()
	last := time.Now()

	draw := func() {
		Draw(screen, Compose(e.Snapshot(), tuning.TileSizeF(), tuning.ViewW, tuning.ViewH, opts.LevelID))
	}
	draw()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					log.Printf("[TUI] Quit requested at tick %d", e.World().Tick)
					return nil
				}
				input.HandleKey(ev.Key(), ev.Rune())
			case *tcell.EventResize:
				screen.Sync()
			}
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if _, _, err := e.Advance(dt, input); err != nil {
				return fmt.Errorf("level %s: %w", opts.LevelID, err)
			}
			draw()
		}
	}
}

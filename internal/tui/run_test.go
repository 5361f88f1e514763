package tui

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/engine"
	"github.com/decker502/platformer/pkg/level"
)

func TestRunAdvancesUntilCancelled(t *testing.T) {
	lvl, err := level.ParseText("..........\n.M......G.\n##########\n")
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	e, err := engine.New(lvl, config.DefaultTuning(), engine.Options{Debug: true})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(40, 20)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	if err := Run(ctx, screen, e, Options{LevelID: "t-1", FrameRate: 100}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if e.World().Tick == 0 {
		t.Error("engine should have advanced")
	}
}

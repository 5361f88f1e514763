package scenes

import (
	"testing"

	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/game"
	"github.com/decker502/platformer/pkg/level"
)

func testLevel(t *testing.T) *level.Level {
	t.Helper()
	lvl, err := level.ParseText("..........\n.M......G.\n##########\n")
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	lvl.ID = "t-1"
	return lvl
}

// TestNewLevelScene 创建场景时记录最近进入的关卡
func TestNewLevelScene(t *testing.T) {
	settings, _ := game.NewSettingsManager(nil)
	s, err := NewLevelScene(testLevel(t), config.DefaultTuning(), settings, true)
	if err != nil {
		t.Fatalf("NewLevelScene: %v", err)
	}
	if settings.GetSettings().LastLevel != "t-1" {
		t.Errorf("LastLevel: got %q, want t-1", settings.GetSettings().LastLevel)
	}
	if s.snapshot.HUD.Status != "playing" {
		t.Errorf("initial status: got %q", s.snapshot.HUD.Status)
	}
	if !s.SaveOnExit() {
		t.Error("SaveOnExit should succeed without persistent storage")
	}
}

// TestNewLevelSceneInvalidTuning 无效调参直接报错
func TestNewLevelSceneInvalidTuning(t *testing.T) {
	tuning := config.DefaultTuning()
	tuning.FixedStep = 0
	if _, err := NewLevelScene(testLevel(t), tuning, nil, false); err == nil {
		t.Fatal("expected error for invalid tuning")
	}
}

// TestLevelSceneRestart 重新开始后回到第 0 个 tick
func TestLevelSceneRestart(t *testing.T) {
	s, err := NewLevelScene(testLevel(t), config.DefaultTuning(), nil, true)
	if err != nil {
		t.Fatalf("NewLevelScene: %v", err)
	}
	for i := 0; i < 10; i++ {
		if err := s.Engine().Step(game.Input{Right: true}); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	if err := s.restart(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	if s.Engine().World().Tick != 0 || s.snapshot.Tick != 0 {
		t.Error("restart should start a fresh engine")
	}
}

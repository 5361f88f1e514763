package scenes

import (
	"fmt"
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/engine"
	"github.com/decker502/platformer/pkg/game"
	"github.com/decker502/platformer/pkg/level"
)

// LevelScene 在窗口中运行一个关卡
//
// 场景本身不做任何游戏逻辑：每帧把真实时间交给 Engine.Advance，
// 再把得到的 FrameSnapshot 画成色块。
type LevelScene struct {
	engine   *engine.Engine
	level    *level.Level
	tuning   config.Tuning
	input    *KeyboardInput
	settings *game.SettingsManager
	debug    bool

	// nextLevel 通关后按回车时调用，由外壳决定去哪一关
	nextLevel func() error

	snapshot game.FrameSnapshot
}

// NewLevelScene 创建关卡场景
//
// 参数:
//   - lvl: 已解析的关卡
//   - tuning: 调参
//   - settings: 外壳设置，可为 nil
//   - debug: 为 true 时碰撞不变量被破坏会让 Update 返回错误
//
// 返回:
//   - *LevelScene: 场景
//   - error: 调参无效
func NewLevelScene(lvl *level.Level, tuning config.Tuning, settings *game.SettingsManager, debug bool) (*LevelScene, error) {
	e, err := engine.New(lvl, tuning, engine.Options{Debug: debug})
	if err != nil {
		return nil, fmt.Errorf("failed to start level %s: %w", lvl.ID, err)
	}
	s := &LevelScene{
		engine:   e,
		level:    lvl,
		tuning:   tuning,
		input:    NewKeyboardInput(nil),
		settings: settings,
		debug:    debug,
	}
	s.snapshot = e.Snapshot()
	if settings != nil {
		settings.SetLastLevel(lvl.ID)
	}
	log.Printf("[LevelScene] Level %s started (%dx%d)", lvl.ID, lvl.Width, lvl.Height)
	return s, nil
}

// SetNextLevel 设置通关后的跳转
func (s *LevelScene) SetNextLevel(next func() error) {
	s.nextLevel = next
}

// Engine 返回场景持有的引擎
func (s *LevelScene) Engine() *engine.Engine {
	return s.engine
}

// restart 用同一份关卡和调参重新开始
func (s *LevelScene) restart() error {
	e, err := engine.New(s.level, s.tuning, engine.Options{Debug: s.debug})
	if err != nil {
		return err
	}
	s.engine = e
	s.input.Reset()
	s.snapshot = e.Snapshot()
	log.Printf("[LevelScene] Level %s restarted", s.level.ID)
	return nil
}

func (s *LevelScene) overlayEnabled() bool {
	return s.settings != nil && s.settings.GetSettings().DebugOverlay
}

// Update 处理外壳按键并推进引擎
func (s *LevelScene) Update(dt time.Duration) error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) && s.settings != nil {
		s.settings.SetDebugOverlay(!s.overlayEnabled())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := s.restart(); err != nil {
			return err
		}
	}
	if s.engine.Status() == game.StatusCleared && s.nextLevel != nil &&
		inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		return s.nextLevel()
	}

	if _, _, err := s.engine.Advance(dt, s.input); err != nil {
		return fmt.Errorf("level %s: %w", s.level.ID, err)
	}
	s.snapshot = s.engine.Snapshot()
	for _, ev := range s.snapshot.Events {
		log.Printf("[LevelScene] tick %d: %s %s", ev.Tick, ev.Kind, ev.Detail)
	}
	return nil
}

// Draw 绘制最近一次快照
func (s *LevelScene) Draw(screen *ebiten.Image) {
	snap := s.snapshot
	tile := float32(s.tuning.TileSize)
	camX, camY := float32(snap.CameraX), float32(snap.CameraY)

	screen.Fill(skyColor)

	for _, t := range snap.Tiles {
		x := float32(t.X)*tile - camX
		y := float32(t.Y)*tile - camY
		c := tileColor(t.Type)
		switch t.Type {
		case "slope_up_right", "slope_up_left":
			drawSlope(screen, x, y, tile, t.Type == "slope_up_right", c)
		default:
			vector.DrawFilledRect(screen, x, y, tile, tile, c, false)
			if t.Type != "decor" {
				vector.StrokeRect(screen, x, y, tile, tile, 1, shade(c), false)
			}
		}
	}

	for _, a := range snap.Actors {
		x := float32(a.X) - camX
		y := float32(a.Y) - camY
		vector.DrawFilledRect(screen, x, y, float32(a.W), float32(a.H), actorColor(a, snap.Tick), false)
		if s.overlayEnabled() {
			vector.StrokeRect(screen, x, y, float32(a.W), float32(a.H), 1, hitboxColor, false)
		}
	}

	if s.overlayEnabled() {
		w, h := float32(s.tuning.DeadZoneW), float32(s.tuning.DeadZoneH)
		vx, vy := float32(s.tuning.ViewW), float32(s.tuning.ViewH)
		vector.StrokeRect(screen, (vx-w)/2, (vy-h)/2, w, h, 1, deadZoneCol, false)
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("tick %d  alpha %.2f  actors %d",
			snap.Tick, snap.Alpha, len(snap.Actors)), 4, int(vy)-16)
	}

	lines := hudLines(snap.HUD, s.level.ID)
	vector.DrawFilledRect(screen, 0, 0, float32(s.tuning.ViewW), float32(16*len(lines)), hudColor, false)
	for i, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 4, i*16)
	}
}

// drawSlope 用竖条近似画出 45° 斜坡，risingRight 为 true 时右侧高
func drawSlope(screen *ebiten.Image, x, y, tile float32, risingRight bool, c color.RGBA) {
	const strip = 2
	for off := float32(0); off < tile; off += strip {
		mid := off + strip/2
		height := mid
		if !risingRight {
			height = tile - mid
		}
		vector.DrawFilledRect(screen, x+off, y+tile-height, strip, height, c, false)
	}
}

// SaveOnExit 实现 Saveable，保存最近进入的关卡和叠加层开关
func (s *LevelScene) SaveOnExit() bool {
	if s.settings == nil {
		return true
	}
	if err := s.settings.Save(); err != nil {
		log.Printf("[LevelScene] Failed to save settings: %v", err)
		return false
	}
	return true
}

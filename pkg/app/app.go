// Package app 提供窗口外壳的核心包装器
//
// 该包把初始化逻辑从 main 包提取出来：读取嵌入关卡和调参、打开设置存储、
// 创建场景管理器。main.go 只负责解析命令行参数并调用 NewApp()。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/embedded"
	"github.com/decker502/platformer/pkg/game"
	"github.com/decker502/platformer/pkg/level"
	"github.com/decker502/platformer/pkg/scenes"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// Level 指定要进入的嵌入关卡 ID（如 "1-2"），为空则使用上次进入的关卡或第一关
	Level string
	// LevelFile 从磁盘加载关卡文档，优先于 Level
	LevelFile string
	// TuningFile 从磁盘加载调参，为空时使用嵌入的 data/tuning.yaml
	TuningFile string
	// Debug 碰撞不变量被破坏时直接退出
	Debug bool
}

// App 实现 ebiten.Game 接口
type App struct {
	sceneManager *scenes.SceneManager
	settings     *game.SettingsManager
	tuning       config.Tuning
	levels       []*level.Level
	verbose      bool
	debug        bool

	lastUpdate time.Time
	now        func() time.Time
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	tuning, err := loadTuning(cfg.TuningFile)
	if err != nil {
		return nil, fmt.Errorf("调参加载失败: %w", err)
	}

	levels, err := embedded.LoadLevels()
	if err != nil {
		return nil, fmt.Errorf("关卡加载失败: %w", err)
	}
	if cfg.LevelFile != "" {
		lvl, err := level.LoadFile(cfg.LevelFile)
		if err != nil {
			return nil, err
		}
		levels = []*level.Level{lvl}
	}
	if len(levels) == 0 {
		return nil, fmt.Errorf("no levels available")
	}

	// 设置存储打不开时降级为内存设置
	var store *gdata.Manager
	if m, err := gdata.Open(gdata.Config{AppName: "platformer"}); err != nil {
		log.Printf("[App] Warning: settings storage unavailable: %v", err)
	} else {
		store = m
	}
	settings, _ := game.NewSettingsManager(store)

	a := &App{
		sceneManager: scenes.NewSceneManager(),
		settings:     settings,
		tuning:       tuning,
		levels:       levels,
		verbose:      cfg.Verbose,
		debug:        cfg.Debug,
		now:          time.Now,
	}
	a.sceneManager.SetSceneFactory(a.createScene)

	start := pickLevel(levels, cfg.Level, settings.GetSettings().LastLevel)
	log.Printf("[App] Starting level: %s", start)
	if err := a.sceneManager.LoadLevel(start); err != nil {
		return nil, err
	}
	return a, nil
}

func loadTuning(path string) (config.Tuning, error) {
	if path != "" {
		return config.LoadTuning(path)
	}
	return embedded.LoadTuning()
}

// pickLevel 依次尝试命令行指定的关卡、上次进入的关卡，最后退回第一关
func pickLevel(levels []*level.Level, requested, last string) string {
	for _, want := range []string{requested, last} {
		if want == "" {
			continue
		}
		for _, lvl := range levels {
			if lvl.ID == want {
				return want
			}
		}
		log.Printf("[App] Level %q not found, ignoring", want)
	}
	return levels[0].ID
}

// nextLevelID 返回 id 之后的关卡，最后一关之后回到第一关
func nextLevelID(levels []*level.Level, id string) string {
	for i, lvl := range levels {
		if lvl.ID == id {
			return levels[(i+1)%len(levels)].ID
		}
	}
	return levels[0].ID
}

// createScene 场景工厂
func (a *App) createScene(id string) (scenes.Scene, error) {
	for _, lvl := range a.levels {
		if lvl.ID != id {
			continue
		}
		scene, err := scenes.NewLevelScene(lvl, a.tuning, a.settings, a.debug)
		if err != nil {
			return nil, err
		}
		scene.SetNextLevel(func() error {
			return a.sceneManager.LoadLevel(nextLevelID(a.levels, id))
		})
		return scene, nil
	}
	return nil, fmt.Errorf("%w: %q", embedded.ErrUnknownLevel, id)
}

// frameDelta 返回距离上一次 Update 的真实时间，第一帧按一个固定步长计
func (a *App) frameDelta() time.Duration {
	now := a.now()
	if a.lastUpdate.IsZero() {
		a.lastUpdate = now
		return a.tuning.StepDuration()
	}
	dt := now.Sub(a.lastUpdate)
	a.lastUpdate = now
	return dt
}

// Update 处理窗口按键并推进当前场景
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		full := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(full)
		a.settings.SetFullscreen(full)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		a.rescale(a.settings.GetSettings().WindowScale + 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		a.rescale(a.settings.GetSettings().WindowScale - 1)
	}

	return a.sceneManager.Update(a.frameDelta())
}

func (a *App) rescale(scale int) {
	a.settings.SetWindowScale(scale)
	w, h := a.WindowSize()
	ebiten.SetWindowSize(w, h)
	log.Printf("[App] Window scale %d (%dx%d)", a.settings.GetSettings().WindowScale, w, h)
}

// Draw 绘制当前场景
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer：最近邻缩放保持像素锐利，黑边填充
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterNearest
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸，即调参中的视口大小
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(a.tuning.ViewW), int(a.tuning.ViewH)
}

// WindowSize 返回按设置缩放后的窗口尺寸
func (a *App) WindowSize() (int, int) {
	scale := a.settings.GetSettings().WindowScale
	return int(a.tuning.ViewW) * scale, int(a.tuning.ViewH) * scale
}

// Settings 返回设置管理器
func (a *App) Settings() *game.SettingsManager {
	return a.settings
}

// Close 退出前保存场景和设置
func (a *App) Close() {
	if s, ok := a.sceneManager.GetCurrentScene().(scenes.Saveable); ok {
		if !s.SaveOnExit() {
			log.Printf("[App] Scene failed to save on exit")
		}
		return
	}
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] Failed to save settings: %v", err)
	}
}

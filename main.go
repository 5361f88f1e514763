package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/platformer/pkg/app"
	"github.com/decker502/platformer/pkg/embedded"
)

var (
	verbose    = flag.Bool("verbose", false, "显示详细日志")
	levelID    = flag.String("level", "", "起始关卡 ID，如 1-2")
	levelFile  = flag.String("level-file", "", "从文件加载关卡文档")
	tuningFile = flag.String("tuning", "", "从文件加载调参")
	debug      = flag.Bool("debug", false, "碰撞不变量被破坏时立即退出")
)

func main() {
	flag.Parse()
	embedded.Init(dataFS)

	gameApp, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		Level:      *levelID,
		LevelFile:  *levelFile,
		TuningFile: *tuningFile,
		Debug:      *debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "启动失败: %v\n", err)
		os.Exit(1)
	}
	defer gameApp.Close()

	w, h := gameApp.WindowSize()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Platformer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(gameApp.Settings().GetSettings().Fullscreen)

	if err := ebiten.RunGame(gameApp); err != nil {
		fmt.Fprintf(os.Stderr, "运行错误: %v\n", err)
		gameApp.Close()
		os.Exit(1)
	}
}

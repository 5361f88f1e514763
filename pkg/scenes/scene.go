package scenes

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 窗口外壳中的一个场景（目前只有关卡场景）
type Scene interface {
	// Update 推进场景，dt 是距离上一帧的真实时间
	// 返回错误时外壳退出
	Update(dt time.Duration) error

	// Draw 把场景绘制到 screen
	Draw(screen *ebiten.Image)
}

// Saveable 可选接口：场景在窗口关闭时保存自己的偏好
type Saveable interface {
	// SaveOnExit 返回 false 表示保存失败（程序仍然正常退出）
	SaveOnExit() bool
}

var (
	_ Scene    = (*LevelScene)(nil)
	_ Saveable = (*LevelScene)(nil)
)

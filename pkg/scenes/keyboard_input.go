package scenes

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/platformer/pkg/game"
)

// KeyState 查询某个键当前是否按下，窗口运行时就是 ebiten.IsKeyPressed
type KeyState func(ebiten.Key) bool

// 键位：方向键或 A/D 移动，Z/空格/上 跳跃，X/Shift 奔跑，C/Ctrl 开火
var (
	leftKeys  = []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}
	rightKeys = []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}
	jumpKeys  = []ebiten.Key{ebiten.KeyZ, ebiten.KeySpace, ebiten.KeyArrowUp}
	runKeys   = []ebiten.Key{ebiten.KeyX, ebiten.KeyShiftLeft, ebiten.KeyShiftRight}
	fireKeys  = []ebiten.Key{ebiten.KeyC, ebiten.KeyControlLeft, ebiten.KeyControlRight}
)

// KeyboardInput 把键盘状态转换成每个固定步长的 game.Input
//
// 按下沿在 Poll 之间计算，所以一帧内跑了多个固定步长时，
// JumpPressed 和 FirePressed 只在第一个步长为 true。
type KeyboardInput struct {
	pressed  KeyState
	prevJump bool
	prevFire bool
}

// NewKeyboardInput 创建键盘输入源，pressed 为 nil 时使用 ebiten.IsKeyPressed
func NewKeyboardInput(pressed KeyState) *KeyboardInput {
	if pressed == nil {
		pressed = ebiten.IsKeyPressed
	}
	return &KeyboardInput{pressed: pressed}
}

func (k *KeyboardInput) any(keys []ebiten.Key) bool {
	for _, key := range keys {
		if k.pressed(key) {
			return true
		}
	}
	return false
}

// Poll 实现 game.InputSource
func (k *KeyboardInput) Poll() game.Input {
	in := game.Input{
		Left:  k.any(leftKeys),
		Right: k.any(rightKeys),
		Jump:  k.any(jumpKeys),
		Run:   k.any(runKeys),
	}
	fire := k.any(fireKeys)
	in.JumpPressed = in.Jump && !k.prevJump
	in.FirePressed = fire && !k.prevFire
	k.prevJump, k.prevFire = in.Jump, fire
	return in
}

// Reset 清除按下沿状态，重新开始关卡时调用
func (k *KeyboardInput) Reset() {
	k.prevJump, k.prevFire = false, false
}

package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/decker502/platformer/pkg/game"
)

// DefaultHoldTicks 一次按键事件让动作保持按下的 tick 数
//
// 终端只报告按下和自动重复，不报告松开；自动重复的间隔通常在 30~50ms，
// 所以按下后保持若干个 tick，重复事件会不断续期。
const DefaultHoldTicks = 8

type action uint8

const (
	actLeft action = iota
	actRight
	actJump
	actRun
	actFire
	actionCount
)

// KeyInput 把终端按键事件转换成 game.Input
//
// HandleKey 和 Poll 必须在同一个 goroutine 调用。
type KeyInput struct {
	hold     int
	tick     int
	lastSeen [actionCount]int // 最近一次事件所在的 tick，0 表示从未按下
	prevJump bool
	prevFire bool
}

// NewKeyInput 创建终端输入源，hold <= 0 时使用 DefaultHoldTicks
func NewKeyInput(hold int) *KeyInput {
	if hold <= 0 {
		hold = DefaultHoldTicks
	}
	return &KeyInput{hold: hold}
}

// HandleKey 记录一次按键
// 方向键或 h/l 移动，空格/z/k 跳跃，x 奔跑，c 开火
func (k *KeyInput) HandleKey(key tcell.Key, r rune) {
	var act action
	switch {
	case key == tcell.KeyLeft || r == 'h' || r == 'a':
		act = actLeft
	case key == tcell.KeyRight || r == 'l' || r == 'd':
		act = actRight
	case key == tcell.KeyUp || r == ' ' || r == 'z' || r == 'k':
		act = actJump
	case r == 'x':
		act = actRun
	case r == 'c':
		act = actFire
	default:
		return
	}
	// 记在下一个 tick 上，保证紧接着的 Poll 能看到
	k.lastSeen[act] = k.tick + 1
	switch act {
	case actLeft:
		k.lastSeen[actRight] = 0
	case actRight:
		k.lastSeen[actLeft] = 0
	}
}

func (k *KeyInput) held(act action) bool {
	seen := k.lastSeen[act]
	return seen > 0 && k.tick-seen < k.hold
}

// Poll 实现 game.InputSource，每次调用推进一个 tick
func (k *KeyInput) Poll() game.Input {
	k.tick++
	in := game.Input{
		Left:  k.held(actLeft),
		Right: k.held(actRight),
		Jump:  k.held(actJump),
		Run:   k.held(actRun),
	}
	fire := k.held(actFire)
	in.JumpPressed = in.Jump && !k.prevJump
	in.FirePressed = fire && !k.prevFire
	k.prevJump, k.prevFire = in.Jump, fire
	return in
}

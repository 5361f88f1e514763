package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/decker502/platformer/pkg/game"
)

// ErrInvalidScript 输入脚本无法解析
var ErrInvalidScript = errors.New("invalid input script")

// ScriptedInput 按 tick 回放预先录制的输入
//
// 脚本结束后返回空输入。Jump 从松开变为按下的 tick 自动标记 JumpPressed，
// 因此脚本只需要描述按键的按住状态。
type ScriptedInput struct {
	frames []game.Input
	next   int
}

// NewScriptedInput 创建脚本输入
func NewScriptedInput(frames []game.Input) *ScriptedInput {
	out := make([]game.Input, len(frames))
	held := false
	for i, in := range frames {
		if in.Jump && !held {
			in.JumpPressed = true
		}
		held = in.Jump
		out[i] = in
	}
	return &ScriptedInput{frames: out}
}

// Poll 实现 game.InputSource
func (s *ScriptedInput) Poll() game.Input {
	if s.next >= len(s.frames) {
		s.next++
		return game.Input{}
	}
	in := s.frames[s.next]
	s.next++
	return in
}

// Polled 返回已经回放的 tick 数
func (s *ScriptedInput) Polled() int {
	return s.next
}

// Len 返回脚本长度（tick）
func (s *ScriptedInput) Len() int {
	return len(s.frames)
}

// Segment 输入脚本中的一段：同样的按键状态保持 Ticks 个 tick
type Segment struct {
	Ticks int  `yaml:"ticks"`
	Left  bool `yaml:"left"`
	Right bool `yaml:"right"`
	Jump  bool `yaml:"jump"`
	Run   bool `yaml:"run"`
	Fire  bool `yaml:"fire"` // 只在本段第一个 tick 触发
}

// Expand 把分段脚本展开为逐 tick 的输入
func Expand(segments []Segment) []game.Input {
	var frames []game.Input
	for _, seg := range segments {
		for i := 0; i < seg.Ticks; i++ {
			frames = append(frames, game.Input{
				Left:        seg.Left,
				Right:       seg.Right,
				Jump:        seg.Jump,
				Run:         seg.Run,
				FirePressed: seg.Fire && i == 0,
			})
		}
	}
	return frames
}

// ParseScript 解析 YAML 输入脚本
//
// 格式为分段列表，例如：
//
//	- {ticks: 60, right: true}
//	- {ticks: 12, right: true, jump: true}
//
// 返回:
//   - []game.Input: 逐 tick 的输入
//   - error: 未知字段或 ticks 不为正时返回包装了 ErrInvalidScript 的错误
func ParseScript(data []byte) ([]game.Input, error) {
	var segments []Segment
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&segments); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScript, err)
	}
	for i, seg := range segments {
		if seg.Ticks <= 0 {
			return nil, fmt.Errorf("%w: segment %d: ticks must be > 0, got %d", ErrInvalidScript, i, seg.Ticks)
		}
	}
	return Expand(segments), nil
}

// LoadScript 从文件加载输入脚本
func LoadScript(path string) ([]game.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input script: %w", err)
	}
	frames, err := ParseScript(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse input script %s: %w", path, err)
	}
	return frames, nil
}

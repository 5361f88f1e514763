package game

// Input 单个 tick 的输入快照，由窗口层提供
type Input struct {
	Left  bool `yaml:"left,omitempty"`
	Right bool `yaml:"right,omitempty"`
	Jump  bool `yaml:"jump,omitempty"` // 跳跃键是否按住
	Run   bool `yaml:"run,omitempty"`

	JumpPressed bool `yaml:"jump_pressed,omitempty"` // 跳跃键本 tick 刚按下
	FirePressed bool `yaml:"fire_pressed,omitempty"` // 开火键本 tick 刚按下（火焰状态发射火球）
}

// Horizontal 返回水平输入方向：-1、0 或 +1
// 同时按下左右视为没有输入
func (in Input) Horizontal() int {
	switch {
	case in.Left && !in.Right:
		return -1
	case in.Right && !in.Left:
		return 1
	}
	return 0
}

// InputSource 每个固定步长调用一次 Poll 获取输入快照
type InputSource interface {
	Poll() Input
}

// InputFunc 把普通函数适配成 InputSource
type InputFunc func() Input

// Poll 实现 InputSource
func (f InputFunc) Poll() Input { return f() }

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig 调参配置无效（字段未知或数值越界）
var ErrInvalidConfig = errors.New("invalid config")

// Tuning 平台跳跃核心的全部手感参数
//
// 单位约定：
//   - 长度：像素
//   - 速度：像素/秒，加速度：像素/秒²
//   - 时间：秒（运行时由 Ticks 换算成固定步长的 tick 数）
//
// 所有字段都有默认值；YAML 中缺省的字段保持默认值，未知字段直接报错。
//
// 配置文件位置: data/tuning.yaml
type Tuning struct {
	TileSize int `yaml:"tile_size"`

	// 重力与下落
	Gravity    float64 `yaml:"gravity"`
	TerminalVY float64 `yaml:"terminal_vy"`

	// 水平移动
	WalkAccel float64 `yaml:"walk_accel"`
	RunAccel  float64 `yaml:"run_accel"`
	AirAccel  float64 `yaml:"air_accel"`
	WalkCap   float64 `yaml:"walk_cap"`
	RunCap    float64 `yaml:"run_cap"`
	Friction  float64 `yaml:"friction"`
	SkidDecel float64 `yaml:"skid_decel"`

	// 跳跃
	JumpInitialVY  float64 `yaml:"jump_initial_vy"`
	JumpRunBonusVY float64 `yaml:"jump_run_bonus_vy"` // 满速奔跑时额外的起跳速度
	JumpHoldBoost  float64 `yaml:"jump_hold_boost"`   // 按住跳跃上升时抵消的重力
	JumpCutVY      float64 `yaml:"jump_cut_vy"`       // 松开跳跃时上升速度的上限
	CoyoteTime     float64 `yaml:"coyote_time"`
	JumpBufferTime float64 `yaml:"jump_buffer_time"`

	// 镜头
	DeadZoneW float64 `yaml:"dead_zone_w"`
	DeadZoneH float64 `yaml:"dead_zone_h"`
	ViewW     float64 `yaml:"view_w"`
	ViewH     float64 `yaml:"view_h"`
	LookAhead float64 `yaml:"look_ahead"` // 秒：镜头跟随目标前移 look_ahead * vx

	// 玩家状态
	StarPowerTime      float64 `yaml:"star_power_time"`
	InvulnTime         float64 `yaml:"invuln_time"`
	StompToleranceFrac float64 `yaml:"stomp_tolerance_frac"`
	StompBounceVY      float64 `yaml:"stomp_bounce_vy"`

	// 敌人
	WalkerSpeed      float64 `yaml:"walker_speed"`
	ShellSpeed       float64 `yaml:"shell_speed"`
	ShellReviveTime  float64 `yaml:"shell_revive_time"`
	SquashTime       float64 `yaml:"squash_time"`
	FlyerHopVY       float64 `yaml:"flyer_hop_vy"`
	ActivationMargin float64 `yaml:"activation_margin"`

	// 道具与飞行物
	ItemSpeed        float64 `yaml:"item_speed"`
	StarBounceVY     float64 `yaml:"star_bounce_vy"`
	EmergeTime       float64 `yaml:"emerge_time"`
	FireballSpeed    float64 `yaml:"fireball_speed"`
	FireballBounceVY float64 `yaml:"fireball_bounce_vy"`
	FireballTTL      float64 `yaml:"fireball_ttl"`
	DebrisTTL        float64 `yaml:"debris_ttl"`

	// 碰撞
	SnapThreshold float64 `yaml:"snap_threshold"`

	// 关卡流程
	LevelTime    float64 `yaml:"level_time"`
	RespawnDelay float64 `yaml:"respawn_delay"`
	StartLives   int     `yaml:"start_lives"`

	// 主循环
	FixedStep float64 `yaml:"fixed_step"`
	DTMax     float64 `yaml:"dt_max"`
	MaxSteps  int     `yaml:"max_steps"`
}

// DefaultTuning 返回默认调参
//
// 数值参考 NES 手感：60Hz 下重力约 0.4 像素/tick²，奔跑上限约 2.5 像素/tick。
func DefaultTuning() Tuning {
	return Tuning{
		TileSize: 16,

		Gravity:    1440,
		TerminalVY: 540,

		WalkAccel: 540,
		RunAccel:  720,
		AirAccel:  360,
		WalkCap:   90,
		RunCap:    150,
		Friction:  720,
		SkidDecel: 1440,

		JumpInitialVY:  300,
		JumpRunBonusVY: 30,
		JumpHoldBoost:  720,
		JumpCutVY:      120,
		CoyoteTime:     0.08,
		JumpBufferTime: 0.10,

		DeadZoneW: 48,
		DeadZoneH: 64,
		ViewW:     256,
		ViewH:     240,
		LookAhead: 0,

		StarPowerTime:      10,
		InvulnTime:         2,
		StompToleranceFrac: 0.25,
		StompBounceVY:      180,

		WalkerSpeed:      30,
		ShellSpeed:       180,
		ShellReviveTime:  5,
		SquashTime:       0.5,
		FlyerHopVY:       240,
		ActivationMargin: 32,

		ItemSpeed:        60,
		StarBounceVY:     240,
		EmergeTime:       0.25,
		FireballSpeed:    240,
		FireballBounceVY: 180,
		FireballTTL:      2,
		DebrisTTL:        1,

		SnapThreshold: 0.5,

		LevelTime:    400,
		RespawnDelay: 2,
		StartLives:   3,

		FixedStep: 1.0 / 60.0,
		DTMax:     0.1,
		MaxSteps:  4,
	}
}

// ParseTuning 从 YAML 数据解析调参，缺省字段使用默认值
//
// 参数:
//   - data: YAML 文本（可以为空，此时返回默认值）
//
// 返回:
//   - Tuning: 合并默认值后的配置
//   - error: 未知字段、类型错误或数值越界时返回包装了 ErrInvalidConfig 的错误
func ParseTuning(data []byte) (Tuning, error) {
	t := DefaultTuning()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&t); err != nil && !errors.Is(err, io.EOF) {
		return Tuning{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

// LoadTuning 从文件加载调参
func LoadTuning(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("failed to read tuning config: %w", err)
	}
	t, err := ParseTuning(data)
	if err != nil {
		return Tuning{}, fmt.Errorf("failed to parse tuning config %s: %w", path, err)
	}
	return t, nil
}

// Validate 验证配置有效性
//
// 除了基本的正数检查外，还要求单个 tick 内的最大位移小于一个格子，
// 否则逐轴解析会穿透薄墙。
func (t Tuning) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
	}

	if t.TileSize <= 0 {
		return invalid("tile_size must be > 0, got %d", t.TileSize)
	}
	if !(t.FixedStep > 0) || math.IsInf(t.FixedStep, 0) {
		return invalid("fixed_step must be > 0, got %v", t.FixedStep)
	}
	// 累加器按整数纳秒取模，步长不能截断成 0
	if t.StepDuration() <= 0 {
		return invalid("fixed_step(%v) is shorter than 1ns", t.FixedStep)
	}
	if !(t.DTMax >= t.FixedStep) || math.IsInf(t.DTMax, 0) {
		return invalid("dt_max(%v) must be >= fixed_step(%v)", t.DTMax, t.FixedStep)
	}
	if t.DTMaxDuration() < t.StepDuration() {
		return invalid("dt_max(%v) rounds below one step", t.DTMax)
	}
	if t.MaxSteps < 1 {
		return invalid("max_steps must be >= 1, got %d", t.MaxSteps)
	}

	positive := map[string]float64{
		"gravity":         t.Gravity,
		"terminal_vy":     t.TerminalVY,
		"walk_accel":      t.WalkAccel,
		"run_accel":       t.RunAccel,
		"walk_cap":        t.WalkCap,
		"run_cap":         t.RunCap,
		"jump_initial_vy": t.JumpInitialVY,
		"view_w":          t.ViewW,
		"view_h":          t.ViewH,
		"shell_speed":     t.ShellSpeed,
		"fireball_speed":  t.FireballSpeed,
		"emerge_time":     t.EmergeTime,
	}
	for _, name := range sortedKeys(positive) {
		if v := positive[name]; !(v > 0) || math.IsInf(v, 0) {
			return invalid("%s must be > 0, got %v", name, v)
		}
	}

	nonNegative := map[string]float64{
		"air_accel":          t.AirAccel,
		"friction":           t.Friction,
		"skid_decel":         t.SkidDecel,
		"jump_run_bonus_vy":  t.JumpRunBonusVY,
		"jump_hold_boost":    t.JumpHoldBoost,
		"jump_cut_vy":        t.JumpCutVY,
		"coyote_time":        t.CoyoteTime,
		"jump_buffer_time":   t.JumpBufferTime,
		"dead_zone_w":        t.DeadZoneW,
		"dead_zone_h":        t.DeadZoneH,
		"look_ahead":         t.LookAhead,
		"star_power_time":    t.StarPowerTime,
		"invuln_time":        t.InvulnTime,
		"stomp_bounce_vy":    t.StompBounceVY,
		"walker_speed":       t.WalkerSpeed,
		"shell_revive_time":  t.ShellReviveTime,
		"squash_time":        t.SquashTime,
		"flyer_hop_vy":       t.FlyerHopVY,
		"activation_margin":  t.ActivationMargin,
		"item_speed":         t.ItemSpeed,
		"star_bounce_vy":     t.StarBounceVY,
		"fireball_bounce_vy": t.FireballBounceVY,
		"fireball_ttl":       t.FireballTTL,
		"debris_ttl":         t.DebrisTTL,
		"snap_threshold":     t.SnapThreshold,
		"level_time":         t.LevelTime,
		"respawn_delay":      t.RespawnDelay,
	}
	for _, name := range sortedKeys(nonNegative) {
		if v := nonNegative[name]; v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return invalid("%s must be >= 0, got %v", name, v)
		}
	}

	if t.WalkCap > t.RunCap {
		return invalid("walk_cap(%v) must be <= run_cap(%v)", t.WalkCap, t.RunCap)
	}
	if !(t.StompToleranceFrac > 0) || t.StompToleranceFrac > 1 {
		return invalid("stomp_tolerance_frac must be in (0, 1], got %v", t.StompToleranceFrac)
	}
	if t.DeadZoneW > t.ViewW || t.DeadZoneH > t.ViewH {
		return invalid("dead zone %vx%v larger than view %vx%v", t.DeadZoneW, t.DeadZoneH, t.ViewW, t.ViewH)
	}
	if t.SnapThreshold > float64(t.TileSize)/2 {
		return invalid("snap_threshold(%v) must be <= tile_size/2", t.SnapThreshold)
	}
	if t.StartLives < 1 {
		return invalid("start_lives must be >= 1, got %d", t.StartLives)
	}

	// 单 tick 位移必须小于一个格子
	tile := float64(t.TileSize)
	speeds := map[string]float64{
		"terminal_vy":     t.TerminalVY,
		"run_cap":         t.RunCap,
		"shell_speed":     t.ShellSpeed,
		"fireball_speed":  t.FireballSpeed,
		"jump_initial_vy": t.JumpInitialVY + t.JumpRunBonusVY,
	}
	for _, name := range sortedKeys(speeds) {
		if speed := speeds[name]; speed*t.FixedStep >= tile {
			return invalid("%s moves %.2f px per tick, must be < tile_size %d", name, speed*t.FixedStep, t.TileSize)
		}
	}

	return nil
}

// Ticks 把秒换算成固定步长下的 tick 数（四舍五入，正数至少为 1）
func (t Tuning) Ticks(seconds float64) int {
	if seconds <= 0 {
		return 0
	}
	n := int(math.Round(seconds / t.FixedStep))
	if n < 1 {
		n = 1
	}
	return n
}

// Step 返回固定步长（秒）
func (t Tuning) Step() float64 {
	return t.FixedStep
}

// StepDuration 返回固定步长的整数纳秒表示
//
// 截断而非四舍五入：1/60 秒 → 16666666ns，三个步长不超过 1/20 秒，
// 保证“一次喂 1/20 秒”与“三次喂 1/60 秒”推进相同的步数。
func (t Tuning) StepDuration() time.Duration {
	return time.Duration(t.FixedStep * float64(time.Second))
}

// DTMaxDuration 返回单帧墙钟时间的上限
func (t Tuning) DTMaxDuration() time.Duration {
	return time.Duration(t.DTMax * float64(time.Second))
}

// TileSizeF 返回浮点格子尺寸
func (t Tuning) TileSizeF() float64 {
	return float64(t.TileSize)
}

package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// 窗口缩放倍数范围
const (
	MinWindowScale = 1
	MaxWindowScale = 6
)

// ShellSettings 窗口外壳的偏好设置
// 只保存显示偏好和上次玩到的关卡，不保存任何游戏进度
type ShellSettings struct {
	WindowScale  int    `yaml:"windowScale"`  // 逻辑分辨率的放大倍数
	Fullscreen   bool   `yaml:"fullscreen"`   // 启动时是否全屏
	DebugOverlay bool   `yaml:"debugOverlay"` // 是否绘制碰撞盒和死区
	LastLevel    string `yaml:"lastLevel"`    // 上次进入的关卡 ID
}

// DefaultSettings 返回默认设置
func DefaultSettings() *ShellSettings {
	return &ShellSettings{
		WindowScale:  3,
		Fullscreen:   false,
		DebugOverlay: false,
		LastLevel:    "",
	}
}

// SettingsManager 设置管理器
// 负责外壳设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *ShellSettings
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "shell"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 返回：
//   - *SettingsManager: 设置管理器实例
//   - error: 保留给调用方的错误返回（加载失败只记录日志，不影响创建）
func NewSettingsManager(gdataManager *gdata.Manager) (*SettingsManager, error) {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}

	return sm, nil
}

// Load 从 gdata 加载设置
//
// 如果 gdataManager 为 nil 或数据不存在，使用默认设置；
// 读到的缩放倍数越界时修正到合法范围。
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil {
		sm.settings = DefaultSettings()
		return nil
	}

	if !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	loaded := DefaultSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}
	loaded.WindowScale = clampScale(loaded.WindowScale)

	sm.settings = loaded
	log.Printf("[SettingsManager] Settings loaded successfully (scale=%d, lastLevel=%q)",
		loaded.WindowScale, loaded.LastLevel)
	return nil
}

// Save 保存设置到 gdata
// gdataManager 为 nil 时直接返回 nil
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *ShellSettings {
	return sm.settings
}

// SetWindowScale 设置窗口缩放倍数，限制在 [MinWindowScale, MaxWindowScale]
// 仅修改内存中的设置，需调用 Save() 持久化
func (sm *SettingsManager) SetWindowScale(scale int) {
	sm.settings.WindowScale = clampScale(scale)
}

// SetFullscreen 设置全屏模式
func (sm *SettingsManager) SetFullscreen(enabled bool) {
	sm.settings.Fullscreen = enabled
}

// SetDebugOverlay 设置调试叠加层开关
func (sm *SettingsManager) SetDebugOverlay(enabled bool) {
	sm.settings.DebugOverlay = enabled
}

// SetLastLevel 记录上次进入的关卡
func (sm *SettingsManager) SetLastLevel(id string) {
	sm.settings.LastLevel = id
}

func clampScale(scale int) int {
	if scale < MinWindowScale {
		return MinWindowScale
	}
	if scale > MaxWindowScale {
		return MaxWindowScale
	}
	return scale
}

package scenes

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrNoSceneFactory 在设置工厂函数之前加载关卡
var ErrNoSceneFactory = errors.New("scene factory not set")

// SceneFactory 按关卡 ID 创建关卡场景，由外壳注入关卡目录和设置
type SceneFactory func(levelID string) (Scene, error)

// SceneManager 保证任意时刻只有一个场景被更新和绘制
type SceneManager struct {
	currentScene Scene
	currentLevel string
	sceneFactory SceneFactory
}

// NewSceneManager 创建没有活动场景的管理器，之后用 SwitchTo 或 LoadLevel 设置场景
func NewSceneManager() *SceneManager {
	return &SceneManager{}
}

// SetSceneFactory 设置场景工厂函数
func (sm *SceneManager) SetSceneFactory(factory SceneFactory) {
	sm.sceneFactory = factory
}

// SwitchTo 直接切换到给定场景
func (sm *SceneManager) SwitchTo(scene Scene) {
	sm.currentScene = scene
}

// GetCurrentScene 返回当前活动的场景，没有时返回 nil
func (sm *SceneManager) GetCurrentScene() Scene {
	return sm.currentScene
}

// CurrentLevel 返回最近一次通过 LoadLevel 成功加载的关卡 ID
func (sm *SceneManager) CurrentLevel() string {
	return sm.currentLevel
}

// LoadLevel 用工厂函数创建关卡场景并切换过去
// 创建失败时保持当前场景不变
//
// 参数：
//   - levelID: 关卡 ID，如 "1-1"
func (sm *SceneManager) LoadLevel(levelID string) error {
	log.Printf("[SceneManager] 加载关卡: %s", levelID)

	if sm.sceneFactory == nil {
		return ErrNoSceneFactory
	}

	scene, err := sm.sceneFactory(levelID)
	if err != nil {
		return fmt.Errorf("failed to create scene for level %s: %w", levelID, err)
	}
	sm.SwitchTo(scene)
	sm.currentLevel = levelID
	log.Printf("[SceneManager] 成功切换到关卡: %s", levelID)
	return nil
}

// Update 更新当前场景，没有场景时什么都不做
func (sm *SceneManager) Update(dt time.Duration) error {
	if sm.currentScene == nil {
		return nil
	}
	return sm.currentScene.Update(dt)
}

// Draw 绘制当前场景，没有场景时什么都不做
func (sm *SceneManager) Draw(screen *ebiten.Image) {
	if sm.currentScene != nil {
		sm.currentScene.Draw(screen)
	}
}

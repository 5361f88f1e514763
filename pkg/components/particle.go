package components

import "github.com/decker502/platformer/pkg/types"

// ParticleComponent 纯视觉粒子（砖块碎片、弹出的金币）
// 不参与任何交互，只用于渲染快照
type ParticleComponent struct {
	Kind types.ParticleKind
}

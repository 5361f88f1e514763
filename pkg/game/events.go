package game

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/decker502/platformer/pkg/ecs"
	"github.com/decker502/platformer/pkg/tilemap"
)

// EventKind 游戏事件类型
type EventKind uint8

const (
	EventBump EventKind = iota
	EventJump
	EventBreak
	EventSpawn
	EventCoin
	EventStomp
	EventKick
	EventKill
	EventDamage
	EventPowerUp
	EventOneUp
	EventFireball
	EventDeath
	EventRespawn
	EventClear
	EventGameOver
	EventTimeUp
)

var eventNames = [...]string{
	EventBump:     "bump",
	EventJump:     "jump",
	EventBreak:    "break",
	EventSpawn:    "spawn",
	EventCoin:     "coin",
	EventStomp:    "stomp",
	EventKick:     "kick",
	EventKill:     "kill",
	EventDamage:   "damage",
	EventPowerUp:  "power_up",
	EventOneUp:    "one_up",
	EventFireball: "fireball",
	EventDeath:    "death",
	EventRespawn:  "respawn",
	EventClear:    "clear",
	EventGameOver: "game_over",
	EventTimeUp:   "time_up",
}

// String 返回事件类型的字符串表示
func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return "unknown"
}

// MarshalYAML 快照中以名字输出事件类型
func (k EventKind) MarshalYAML() (interface{}, error) {
	return k.String(), nil
}

// UnmarshalYAML 按名字读回事件类型，供回放工具解析快照
func (k *EventKind) UnmarshalYAML(value *yaml.Node) error {
	for i, name := range eventNames {
		if name == value.Value {
			*k = EventKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown event kind %q", value.Value)
}

// Event 一个 tick 内发生的游戏事件
// 供渲染层播放音效/动画，也用于测试断言
type Event struct {
	Tick   uint64       `yaml:"tick"`
	Kind   EventKind    `yaml:"kind"`
	Entity ecs.EntityID `yaml:"entity,omitempty"`
	Cell   tilemap.Cell `yaml:"cell,flow"`
	Score  int          `yaml:"score,omitempty"` // 本事件增加的分数
	Detail string       `yaml:"detail,omitempty"`
}

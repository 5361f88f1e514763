package types

// ItemKind 定义道具类型，同时也是问号块的内容物
type ItemKind uint8

const (
	// ItemCoin 金币
	ItemCoin ItemKind = iota
	// ItemMushroom 蘑菇：SMALL → BIG
	ItemMushroom
	// ItemFireFlower 火焰花：→ FIRE
	ItemFireFlower
	// ItemStar 无敌星
	ItemStar
	// ItemOneUp 1UP 蘑菇
	ItemOneUp
)

// String 返回道具类型的字符串表示
func (k ItemKind) String() string {
	switch k {
	case ItemCoin:
		return "coin"
	case ItemMushroom:
		return "mushroom"
	case ItemFireFlower:
		return "fire_flower"
	case ItemStar:
		return "star"
	case ItemOneUp:
		return "one_up"
	default:
		return "unknown"
	}
}

// PowerState 玩家的能力状态
type PowerState uint8

const (
	// PowerSmall 小玛丽
	PowerSmall PowerState = iota
	// PowerBig 大玛丽
	PowerBig
	// PowerFire 火焰玛丽
	PowerFire
)

// String 返回能力状态的字符串表示
func (p PowerState) String() string {
	switch p {
	case PowerSmall:
		return "small"
	case PowerBig:
		return "big"
	case PowerFire:
		return "fire"
	default:
		return "unknown"
	}
}

// IsBig 大玛丽和火焰玛丽共用高碰撞盒，也都能顶碎砖块
func (p PowerState) IsBig() bool {
	return p == PowerBig || p == PowerFire
}

// EnemyKind 敌人种类
type EnemyKind uint8

const (
	// EnemyWalker 栗子怪：直线巡逻
	EnemyWalker EnemyKind = iota
	// EnemyShelled 乌龟：可踩成龟壳、踢出
	EnemyShelled
	// EnemyFlying 飞行乌龟：不断跳跃，被踩后掉落翅膀
	EnemyFlying
	// EnemySpiked 刺猬：不能踩
	EnemySpiked
)

// String 返回敌人种类的字符串表示
func (k EnemyKind) String() string {
	switch k {
	case EnemyWalker:
		return "walker"
	case EnemyShelled:
		return "shelled"
	case EnemyFlying:
		return "flying"
	case EnemySpiked:
		return "spiked"
	default:
		return "unknown"
	}
}

// EnemyState 敌人 AI 状态
type EnemyState uint8

const (
	// EnemyPatrol 巡逻
	EnemyPatrol EnemyState = iota
	// EnemyShellIdle 龟壳静止
	EnemyShellIdle
	// EnemyShellSliding 龟壳滑行
	EnemyShellSliding
	// EnemyStunned 被从下方顶翻
	EnemyStunned
	// EnemyDead 死亡
	EnemyDead
)

// String 返回 AI 状态的字符串表示
func (s EnemyState) String() string {
	switch s {
	case EnemyPatrol:
		return "patrol"
	case EnemyShellIdle:
		return "shell_idle"
	case EnemyShellSliding:
		return "shell_sliding"
	case EnemyStunned:
		return "stunned"
	case EnemyDead:
		return "dead"
	default:
		return "unknown"
	}
}

// ParticleKind 纯视觉粒子种类
type ParticleKind uint8

const (
	// ParticleDebris 砖块碎片
	ParticleDebris ParticleKind = iota
	// ParticleCoinPop 问号块弹出的金币
	ParticleCoinPop
)

// String 返回粒子种类的字符串表示
func (k ParticleKind) String() string {
	switch k {
	case ParticleDebris:
		return "debris"
	case ParticleCoinPop:
		return "coin_pop"
	default:
		return "unknown"
	}
}

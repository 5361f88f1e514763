// Package level 把 ASCII / CSV 字符网格解析成关卡数据
//
// 字符表：
//
//	.  空          #  实心        B  砖块        P  水管（实心）
//	?  问号块（金币）  !  问号块（蘑菇）  F  问号块（火焰花）
//	*  问号块（无敌星）  +  问号块（1UP）
//	/  左高斜坡    \  右高斜坡    G  终点        d  装饰
//	M  玩家出生点  g  栗子怪      k  乌龟        f  飞行乌龟
//	s  刺猬        o  金币
//
// 出生点所在的格子地形为空。
package level

import (
	"errors"

	"github.com/decker502/platformer/pkg/tilemap"
	"github.com/decker502/platformer/pkg/types"
)

// ErrMalformedLevel 关卡文本无法解析
var ErrMalformedLevel = errors.New("malformed level")

// SpawnKind 关卡中摆放的实体类型
type SpawnKind uint8

const (
	// SpawnWalker 栗子怪
	SpawnWalker SpawnKind = iota
	// SpawnShelled 乌龟
	SpawnShelled
	// SpawnFlying 飞行乌龟
	SpawnFlying
	// SpawnSpiked 刺猬
	SpawnSpiked
	// SpawnCoin 摆放在地图上的金币
	SpawnCoin
)

// String 返回实体类型的字符串表示
func (k SpawnKind) String() string {
	switch k {
	case SpawnWalker:
		return "walker"
	case SpawnShelled:
		return "shelled"
	case SpawnFlying:
		return "flying"
	case SpawnSpiked:
		return "spiked"
	case SpawnCoin:
		return "coin"
	default:
		return "unknown"
	}
}

// EnemyKind 返回对应的敌人种类，金币返回 false
func (k SpawnKind) EnemyKind() (types.EnemyKind, bool) {
	switch k {
	case SpawnWalker:
		return types.EnemyWalker, true
	case SpawnShelled:
		return types.EnemyShelled, true
	case SpawnFlying:
		return types.EnemyFlying, true
	case SpawnSpiked:
		return types.EnemySpiked, true
	}
	return 0, false
}

// Spawn 初始实体
type Spawn struct {
	Kind SpawnKind
	Cell tilemap.Cell
}

// Level 解析后的关卡（加载后不可变）
//
// 格子边长由 Tuning.TileSize 决定，关卡本身只描述网格。
type Level struct {
	ID        string
	Name      string
	TimeLimit int // 秒，0 表示使用 Tuning.LevelTime

	Width, Height int
	Tiles         [][]types.TileType
	Payloads      map[tilemap.Cell]types.ItemKind

	PlayerSpawn tilemap.Cell
	Goals       []tilemap.Cell
	Spawns      []Spawn // 按格子行优先顺序排列
}

// PixelWidth 返回关卡像素宽度 W·T
func (l *Level) PixelWidth(tileSize float64) float64 {
	return float64(l.Width) * tileSize
}

// PixelHeight 返回关卡像素高度 H·T
func (l *Level) PixelHeight(tileSize float64) float64 {
	return float64(l.Height) * tileSize
}

// NewTileMap 基于关卡地形创建一张新的格子地图
// 每次调用都返回独立的可变状态
func (l *Level) NewTileMap(tileSize int) *tilemap.TileMap {
	return tilemap.New(l.Tiles, l.Payloads, tileSize)
}

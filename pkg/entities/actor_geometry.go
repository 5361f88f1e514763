package entities

import "github.com/decker502/platformer/pkg/tilemap"

// 角色尺寸以 16 像素格子为基准，按实际格子边长等比缩放
const baseTileSize = 16.0

const (
	playerWidth       = 12.0
	playerSmallHeight = 16.0
	playerBigHeight   = 28.0

	enemyWidth          = 14.0
	enemyHeight         = 14.0
	shelledPatrolHeight = 20.0

	itemSize     = 14.0
	coinWidth    = 10.0
	fireballSize = 8.0
	debrisSize   = 8.0
)

// scaled 把基准尺寸换算到实际格子边长
func scaled(px, tileSize float64) float64 {
	return px * tileSize / baseTileSize
}

// PlayerSize 返回玩家在指定能力状态下的碰撞盒尺寸
func PlayerSize(big bool, tileSize float64) (w, h float64) {
	if big {
		return scaled(playerWidth, tileSize), scaled(playerBigHeight, tileSize)
	}
	return scaled(playerWidth, tileSize), scaled(playerSmallHeight, tileSize)
}

// ShellHeight 返回乌龟缩进壳后的高度
func ShellHeight(tileSize float64) float64 {
	return scaled(enemyHeight, tileSize)
}

// ShelledPatrolHeight 返回乌龟行走时的高度
func ShelledPatrolHeight(tileSize float64) float64 {
	return scaled(shelledPatrolHeight, tileSize)
}

// placeOnCell 返回站在格子底部、水平居中时碰撞盒的左上角
func placeOnCell(c tilemap.Cell, w, h, tileSize float64) (x, y float64) {
	x = float64(c.X)*tileSize + (tileSize-w)/2
	y = float64(c.Y+1)*tileSize - h
	return x, y
}

package scenes

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/decker502/platformer/pkg/game"
)

var (
	skyColor     = color.RGBA{R: 92, G: 148, B: 252, A: 255}
	hudColor     = color.RGBA{R: 0, G: 0, B: 0, A: 160}
	deadZoneCol  = color.RGBA{R: 255, G: 255, B: 0, A: 200}
	hitboxColor  = color.RGBA{R: 255, G: 0, B: 255, A: 200}
	unknownColor = color.RGBA{R: 255, G: 0, B: 255, A: 255}
)

// tileColors 快照格子类型名到颜色
var tileColors = map[string]color.RGBA{
	"solid":          {R: 200, G: 76, B: 12, A: 255},
	"brick":          {R: 160, G: 60, B: 20, A: 255},
	"question":       {R: 252, G: 188, B: 60, A: 255},
	"spent_question": {R: 136, G: 112, B: 0, A: 255},
	"slope_up_left":  {R: 0, G: 168, B: 0, A: 255},
	"slope_up_right": {R: 0, G: 168, B: 0, A: 255},
	"decor":          {R: 252, G: 252, B: 252, A: 255},
	"goal":           {R: 0, G: 200, B: 80, A: 255},
}

// actorColors 快照角色类型名到颜色
var actorColors = map[string]color.RGBA{
	"player":      {R: 228, G: 0, B: 88, A: 255},
	"walker":      {R: 136, G: 72, B: 16, A: 255},
	"shelled":     {R: 0, G: 136, B: 0, A: 255},
	"flying":      {R: 88, G: 216, B: 84, A: 255},
	"spiked":      {R: 216, G: 40, B: 0, A: 255},
	"coin":        {R: 252, G: 216, B: 0, A: 255},
	"coin_pop":    {R: 252, G: 216, B: 0, A: 255},
	"mushroom":    {R: 228, G: 92, B: 16, A: 255},
	"fire_flower": {R: 252, G: 120, B: 88, A: 255},
	"star":        {R: 252, G: 252, B: 120, A: 255},
	"one_up":      {R: 0, G: 200, B: 0, A: 255},
	"fireball":    {R: 252, G: 152, B: 56, A: 255},
	"debris":      {R: 160, G: 60, B: 20, A: 255},
}

// tileColor 返回格子颜色，未知类型用醒目的品红色
func tileColor(kind string) color.RGBA {
	if c, ok := tileColors[kind]; ok {
		return c
	}
	return unknownColor
}

// actorColor 返回角色颜色
// 星星无敌时闪烁，受伤无敌时每 4 个 tick 变暗一次，被踩扁或击倒的角色变灰
func actorColor(a game.ActorView, tick uint64) color.RGBA {
	c, ok := actorColors[a.Kind]
	if !ok {
		c = unknownColor
	}
	switch {
	case a.State == "dead":
		return color.RGBA{R: 96, G: 96, B: 96, A: 255}
	case strings.HasSuffix(a.State, "_star"):
		if tick/4%2 == 0 {
			return color.RGBA{R: 252, G: 252, B: 252, A: 255}
		}
	case strings.HasSuffix(a.State, "_invuln"):
		if tick/4%2 == 0 {
			c.A = 96
		}
	}
	return c
}

// hudLines 抬头显示的文字
func hudLines(h game.HUD, levelID string) []string {
	lines := []string{
		fmt.Sprintf("SCORE %06d  COINS %02d  WORLD %s  TIME %03d", h.Score, h.Coins, levelID, h.Time),
		fmt.Sprintf("LIVES %d  %s", h.Lives, strings.ToUpper(h.Power)),
	}
	switch h.Status {
	case "cleared":
		lines = append(lines, "COURSE CLEAR!  ENTER: NEXT")
	case "game_over":
		lines = append(lines, "GAME OVER  R: RETRY")
	}
	return lines
}

// shade 返回同色相的暗色，用于格子描边
func shade(c color.RGBA) color.RGBA {
	return color.RGBA{R: c.R / 2, G: c.G / 2, B: c.B / 2, A: c.A}
}

// Package tui 在终端里显示关卡快照，并把按键转换成固定步长的输入
//
// 每个格子占两列字符以接近正方形，角色画在其中心所在的格子上。
package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/decker502/platformer/pkg/game"
)

// CellWidth 每个格子占用的字符列数
const CellWidth = 2

// HUDRows 画面顶部抬头显示占用的行数
const HUDRows = 2

// Cell 一个字符单元
type Cell struct {
	Rune  rune
	Style tcell.Style
}

// Frame 一帧终端画面
type Frame struct {
	Width, Height int
	Cells         [][]Cell // [行][列]
}

// At 返回 (x, y) 处的单元，越界时返回空格
func (f *Frame) At(x, y int) Cell {
	if y < 0 || y >= f.Height || x < 0 || x >= f.Width {
		return Cell{Rune: ' ', Style: tcell.StyleDefault}
	}
	return f.Cells[y][x]
}

// Row 返回第 y 行的文字
func (f *Frame) Row(y int) string {
	var sb strings.Builder
	for x := 0; x < f.Width; x++ {
		sb.WriteRune(f.At(x, y).Rune)
	}
	return sb.String()
}

func (f *Frame) set(x, y int, r rune, style tcell.Style) {
	if y < 0 || y >= f.Height || x < 0 || x >= f.Width {
		return
	}
	f.Cells[y][x] = Cell{Rune: r, Style: style}
}

func (f *Frame) text(x, y int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		f.set(x+i, y, r, style)
	}
}

type glyph struct {
	r     rune
	color tcell.Color
}

var tileGlyphs = map[string]glyph{
	"solid":          {'#', tcell.ColorSaddleBrown},
	"brick":          {'B', tcell.ColorFireBrick},
	"question":       {'?', tcell.ColorGold},
	"spent_question": {'=', tcell.ColorOlive},
	"slope_up_left":  {'\\', tcell.ColorGreen},
	"slope_up_right": {'/', tcell.ColorGreen},
	"decor":          {'~', tcell.ColorWhite},
	"goal":           {'|', tcell.ColorLime},
}

var actorGlyphs = map[string]glyph{
	"player":      {'@', tcell.ColorRed},
	"walker":      {'g', tcell.ColorSaddleBrown},
	"shelled":     {'k', tcell.ColorGreen},
	"flying":      {'w', tcell.ColorLime},
	"spiked":      {'x', tcell.ColorOrangeRed},
	"coin":        {'o', tcell.ColorYellow},
	"coin_pop":    {'o', tcell.ColorYellow},
	"mushroom":    {'m', tcell.ColorOrange},
	"fire_flower": {'f', tcell.ColorOrangeRed},
	"star":        {'*', tcell.ColorYellow},
	"one_up":      {'1', tcell.ColorLime},
	"fireball":    {'.', tcell.ColorOrange},
	"debris":      {',', tcell.ColorFireBrick},
}

// Compose 把快照排成字符画面
//
// 参数:
//   - snap: 帧快照
//   - tileSize: 格子边长（像素）
//   - viewW, viewH: 视口大小（像素）
//   - levelID: 显示在抬头中的关卡 ID
//
// 返回:
//   - Frame: 宽 ceil(viewW/tileSize)*CellWidth，高 ceil(viewH/tileSize)+HUDRows
func Compose(snap game.FrameSnapshot, tileSize, viewW, viewH float64, levelID string) Frame {
	cols := int(math.Ceil(viewW / tileSize))
	rows := int(math.Ceil(viewH / tileSize))
	f := Frame{Width: cols * CellWidth, Height: rows + HUDRows}
	f.Cells = make([][]Cell, f.Height)
	for y := range f.Cells {
		f.Cells[y] = make([]Cell, f.Width)
		for x := range f.Cells[y] {
			f.Cells[y][x] = Cell{Rune: ' ', Style: tcell.StyleDefault}
		}
	}

	// 镜头不一定对齐格子，以镜头左上角所在的格子为原点
	originX := int(math.Floor(snap.CameraX / tileSize))
	originY := int(math.Floor(snap.CameraY / tileSize))

	for _, t := range snap.Tiles {
		g, ok := tileGlyphs[t.Type]
		if !ok {
			continue
		}
		style := tcell.StyleDefault.Foreground(g.color)
		for i := 0; i < CellWidth; i++ {
			f.set((t.X-originX)*CellWidth+i, t.Y-originY+HUDRows, g.r, style)
		}
	}

	for _, a := range snap.Actors {
		g, ok := actorGlyphs[a.Kind]
		if !ok {
			g = glyph{'?', tcell.ColorFuchsia}
		}
		r := g.r
		if a.Kind == "player" && !strings.HasPrefix(a.State, "small") {
			r = '&'
		}
		if a.State == "dead" {
			r = '_'
		}
		style := tcell.StyleDefault.Foreground(g.color).Bold(true)
		cx := int(math.Floor((a.X+a.W/2)/tileSize)) - originX
		cy := int(math.Floor((a.Y+a.H/2)/tileSize)) - originY
		x := cx * CellWidth
		if a.Facing < 0 {
			f.set(x, cy+HUDRows, r, style)
		} else {
			f.set(x+CellWidth-1, cy+HUDRows, r, style)
		}
	}

	hud := snap.HUD
	f.text(0, 0, fmt.Sprintf("%-5s SCORE %06d TIME %03d", levelID, hud.Score, hud.Time), tcell.StyleDefault.Bold(true))
	status := strings.ToUpper(hud.Power)
	switch hud.Status {
	case "cleared":
		status = "COURSE CLEAR"
	case "game_over":
		status = "GAME OVER"
	}
	f.text(0, 1, fmt.Sprintf("COINS %02d LIVES %d %s", hud.Coins, hud.Lives, status), tcell.StyleDefault)
	return f
}

// Draw 把画面写入屏幕并刷新
func Draw(screen tcell.Screen, f Frame) {
	screen.Clear()
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := f.Cells[y][x]
			screen.SetContent(x, y, c.Rune, nil, c.Style)
		}
	}
	screen.Show()
}

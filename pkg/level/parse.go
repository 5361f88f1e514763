package level

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/decker502/platformer/pkg/tilemap"
	"github.com/decker502/platformer/pkg/types"
)

// terrainCodes 纯地形字符
var terrainCodes = map[rune]types.TileType{
	'.':  types.TileEmpty,
	'#':  types.TileSolid,
	'P':  types.TileSolid,
	'B':  types.TileBrick,
	'/':  types.TileSlopeUpLeft,
	'\\': types.TileSlopeUpRight,
	'G':  types.TileGoal,
	'd':  types.TileDecor,
}

// questionCodes 问号块字符及其内容物
var questionCodes = map[rune]types.ItemKind{
	'?': types.ItemCoin,
	'!': types.ItemMushroom,
	'F': types.ItemFireFlower,
	'*': types.ItemStar,
	'+': types.ItemOneUp,
}

// spawnCodes 实体字符（地形为空）
var spawnCodes = map[rune]SpawnKind{
	'g': SpawnWalker,
	'k': SpawnShelled,
	'f': SpawnFlying,
	's': SpawnSpiked,
	'o': SpawnCoin,
}

const playerCode = 'M'

// Parse 解析字符行
//
// 较短的行在右侧用空格子补齐。以下情况返回 ErrMalformedLevel：
// 没有任何行或所有行都为空、出现未知字符、没有或多于一个玩家出生点、没有终点。
func Parse(rows []string) (*Level, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrMalformedLevel)
	}

	width := 0
	for _, row := range rows {
		if n := utf8.RuneCountInString(row); n > width {
			width = n
		}
	}
	if width == 0 {
		return nil, fmt.Errorf("%w: all rows are empty", ErrMalformedLevel)
	}

	lvl := &Level{
		Width:    width,
		Height:   len(rows),
		Tiles:    make([][]types.TileType, len(rows)),
		Payloads: make(map[tilemap.Cell]types.ItemKind),
	}

	players := 0
	for y, row := range rows {
		line := make([]types.TileType, width)
		x := 0
		for _, ch := range row {
			cell := tilemap.Cell{X: x, Y: y}
			if t, ok := terrainCodes[ch]; ok {
				line[x] = t
				if t == types.TileGoal {
					lvl.Goals = append(lvl.Goals, cell)
				}
			} else if p, ok := questionCodes[ch]; ok {
				line[x] = types.TileQuestion
				lvl.Payloads[cell] = p
			} else if s, ok := spawnCodes[ch]; ok {
				lvl.Spawns = append(lvl.Spawns, Spawn{Kind: s, Cell: cell})
			} else if ch == playerCode {
				players++
				lvl.PlayerSpawn = cell
			} else {
				return nil, fmt.Errorf("%w: row %d, column %d: unknown character %q", ErrMalformedLevel, y, x, ch)
			}
			x++
		}
		lvl.Tiles[y] = line
	}

	switch {
	case players == 0:
		return nil, fmt.Errorf("%w: missing player spawn %q", ErrMalformedLevel, playerCode)
	case players > 1:
		return nil, fmt.Errorf("%w: %d player spawns, expected exactly one", ErrMalformedLevel, players)
	case len(lvl.Goals) == 0:
		return nil, fmt.Errorf("%w: missing goal 'G'", ErrMalformedLevel)
	}
	return lvl, nil
}

// ParseText 解析多行文本
// 兼容 \r\n 换行，末尾的空行会被忽略
func ParseText(s string) (*Level, error) {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, "\r")
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return Parse(lines)
}

// ParseCSV 解析 CSV 网格，每个单元格一个字符
//
// 空单元格视为 '.'，单元格两侧的空白会被去掉；多字符单元格返回 ErrMalformedLevel。
// 各行列数可以不同，短行按 Parse 的规则补齐。
func ParseCSV(r io.Reader) (*Level, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []string
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedLevel, err)
		}

		var sb strings.Builder
		for col, field := range record {
			field = strings.TrimSpace(field)
			switch utf8.RuneCountInString(field) {
			case 0:
				sb.WriteRune('.')
			case 1:
				sb.WriteString(field)
			default:
				return nil, fmt.Errorf("%w: row %d, column %d: cell %q has more than one character",
					ErrMalformedLevel, len(rows), col, field)
			}
		}
		rows = append(rows, sb.String())
	}
	return Parse(rows)
}

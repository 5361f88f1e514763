package level

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// 关卡文档的网格格式
const (
	FormatASCII = "ascii"
	FormatCSV   = "csv"
)

// Document 关卡 YAML 文档
//
// 示例：
//
//	id: "1-1"
//	name: "草原"
//	timeLimit: 300
//	format: ascii
//	grid: |
//	  ..........
//	  .M......G.
//	  ##########
type Document struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	TimeLimit int    `yaml:"timeLimit"` // 秒，可选
	Format    string `yaml:"format"`    // "ascii"（默认）或 "csv"
	Grid      string `yaml:"grid"`
}

// ParseDocument 解析 YAML 关卡文档
// 未知字段、空网格或网格错误都返回 ErrMalformedLevel
func ParseDocument(data []byte) (*Level, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrMalformedLevel)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedLevel, err)
	}

	if doc.TimeLimit < 0 {
		return nil, fmt.Errorf("%w: timeLimit must be >= 0, got %d", ErrMalformedLevel, doc.TimeLimit)
	}

	var (
		lvl *Level
		err error
	)
	switch doc.Format {
	case "", FormatASCII:
		lvl, err = ParseText(doc.Grid)
	case FormatCSV:
		lvl, err = ParseCSV(strings.NewReader(doc.Grid))
	default:
		return nil, fmt.Errorf("%w: unknown format %q", ErrMalformedLevel, doc.Format)
	}
	if err != nil {
		if doc.ID != "" {
			return nil, fmt.Errorf("level %s: %w", doc.ID, err)
		}
		return nil, err
	}

	lvl.ID = doc.ID
	lvl.Name = doc.Name
	lvl.TimeLimit = doc.TimeLimit
	return lvl, nil
}

// LoadFile 从 YAML 文件加载关卡
//
// 参数:
//   - path: 关卡文件路径
//
// 返回:
//   - *Level: 解析后的关卡
//   - error: 读取失败或格式错误
func LoadFile(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level file %s: %w", path, err)
	}
	lvl, err := ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse level file %s: %w", path, err)
	}
	log.Printf("[LevelLoader] Loaded level %q from %s (%dx%d, %d spawns)",
		lvl.ID, path, lvl.Width, lvl.Height, len(lvl.Spawns))
	return lvl, nil
}

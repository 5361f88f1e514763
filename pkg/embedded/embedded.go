// Package embedded 提供嵌入资源的统一访问接口
//
// 由于 Go embed 指令只能嵌入当前包目录及其子目录的文件，
// embed.FS 变量必须声明在项目根目录（embed.go）。
// 本包提供包装函数，让其他包可以访问嵌入的关卡和调参文件。
//
// 使用前必须调用 Init() 初始化。
package embedded

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/level"
)

// 嵌入内容的固定位置
const (
	LevelsDir  = "data/levels"
	TuningPath = "data/tuning.yaml"
)

// ErrNotInitialized 在 Init 之前访问资源
var ErrNotInitialized = errors.New("embedded package not initialized, call Init() first")

// ErrUnknownLevel 没有对应 ID 的嵌入关卡
var ErrUnknownLevel = errors.New("unknown level")

var (
	dataFS      fs.FS
	initialized bool
)

// Init 初始化嵌入文件系统
// 必须在 main() 开始时、任何资源加载之前调用
func Init(data fs.FS) {
	dataFS = data
	initialized = data != nil
}

// IsInitialized 返回 embedded 包是否已初始化
func IsInitialized() bool {
	return initialized
}

// normalize 统一路径分隔符并校验前缀，路径必须以 "data/" 开头
func normalize(p string) (string, error) {
	if !initialized {
		return "", ErrNotInitialized
	}
	p = strings.TrimPrefix(filepath.ToSlash(p), "./")
	if !strings.HasPrefix(p, "data/") {
		return "", fmt.Errorf("unknown resource path prefix: %s (must start with 'data/')", p)
	}
	return p, nil
}

// Open 打开嵌入文件
func Open(p string) (fs.File, error) {
	p, err := normalize(p)
	if err != nil {
		return nil, err
	}
	return dataFS.Open(p)
}

// ReadFile 读取嵌入文件内容
func ReadFile(p string) ([]byte, error) {
	p, err := normalize(p)
	if err != nil {
		return nil, err
	}
	return fs.ReadFile(dataFS, p)
}

// Exists 检查文件是否存在
func Exists(p string) bool {
	file, err := Open(p)
	if err != nil {
		return false
	}
	file.Close()
	return true
}

// Glob 匹配嵌入文件，结果按字典序排列
func Glob(pattern string) ([]string, error) {
	pattern, err := normalize(pattern)
	if err != nil {
		return nil, err
	}
	return fs.Glob(dataFS, pattern)
}

// LoadLevels 解析 data/levels 下的全部关卡文档
//
// 返回:
//   - []*level.Level: 按关卡 ID 排序
//   - error: 任意一个文档损坏都返回错误，错误中带有文件名
func LoadLevels() ([]*level.Level, error) {
	files, err := Glob(LevelsDir + "/*.yaml")
	if err != nil {
		return nil, err
	}

	levels := make([]*level.Level, 0, len(files))
	for _, file := range files {
		data, err := ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file, err)
		}
		lvl, err := level.ParseDocument(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path.Base(file), err)
		}
		if lvl.ID == "" {
			lvl.ID = strings.TrimSuffix(path.Base(file), ".yaml")
		}
		levels = append(levels, lvl)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].ID < levels[j].ID })
	return levels, nil
}

// LoadLevel 按 ID 查找嵌入关卡
func LoadLevel(id string) (*level.Level, error) {
	levels, err := LoadLevels()
	if err != nil {
		return nil, err
	}
	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, id)
}

// LoadTuning 读取嵌入的默认调参
// 文件不存在时返回内置默认值
func LoadTuning() (config.Tuning, error) {
	if !Exists(TuningPath) {
		return config.DefaultTuning(), nil
	}
	data, err := ReadFile(TuningPath)
	if err != nil {
		return config.Tuning{}, err
	}
	return config.ParseTuning(data)
}

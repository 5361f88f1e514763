// Package main 是平台跳跃核心的命令行工具
//
// 子命令：
//   - run:      用输入脚本无窗口地运行关卡，输出快照
//   - validate: 检查关卡文档和调参文件
//   - play:     在终端里游玩关卡
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/decker502/platformer/pkg/config"
)

// rootOptions 所有子命令共用的参数
type rootOptions struct {
	tuningPath string
	verbose    bool
}

// tuning 读取调参，未指定文件时使用内置默认值
func (o *rootOptions) tuning() (config.Tuning, error) {
	if o.tuningPath == "" {
		return config.DefaultTuning(), nil
	}
	return config.LoadTuning(o.tuningPath)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "platformer-sim",
		Short:         "Fixed-timestep platformer simulator",
		Long:          `platformer-sim runs levels headlessly from input scripts, validates level and tuning files, and plays levels in the terminal.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.verbose {
				log.SetOutput(cmd.ErrOrStderr())
			} else {
				log.SetOutput(io.Discard)
			}
		},
	}
	cmd.PersistentFlags().StringVar(&opts.tuningPath, "tuning", "", "tuning YAML file (defaults to built-in values)")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log engine events to stderr")

	cmd.AddCommand(newRunCmd(opts))
	cmd.AddCommand(newValidateCmd(opts))
	cmd.AddCommand(newPlayCmd(opts))
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/decker502/platformer/internal/tui"
	"github.com/decker502/platformer/pkg/engine"
	"github.com/decker502/platformer/pkg/level"
)

func newPlayCmd(root *rootOptions) *cobra.Command {
	var (
		levelPath string
		fps       int
		hold      int
		debug     bool
	)
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a level in the terminal",
		Long: `Play renders the level with two characters per tile.
Keys: arrows or h/l move, space/z/k jump, x run, c fire, q or Esc quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			tuning, err := root.tuning()
			if err != nil {
				return err
			}
			lvl, err := level.LoadFile(levelPath)
			if err != nil {
				return err
			}
			e, err := engine.New(lvl, tuning, engine.Options{Debug: debug})
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("failed to create terminal screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("failed to init terminal screen: %w", err)
			}
			defer screen.Fini()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
			defer stop()
			return tui.Run(ctx, screen, e, tui.Options{LevelID: lvl.ID, FrameRate: fps, HoldTicks: hold})
		},
	}
	cmd.Flags().StringVarP(&levelPath, "level", "l", "data/levels/level-1-1.yaml", "level YAML file")
	cmd.Flags().IntVar(&fps, "fps", 60, "terminal refresh rate")
	cmd.Flags().IntVar(&hold, "hold", tui.DefaultHoldTicks, "ticks a key press stays held without repeats")
	cmd.Flags().BoolVar(&debug, "debug", false, "exit on collision invariant violations")
	return cmd
}

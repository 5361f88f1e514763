package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/decker502/platformer/pkg/engine"
	"github.com/decker502/platformer/pkg/game"
	"github.com/decker502/platformer/pkg/level"
)

type runOptions struct {
	levelPath  string
	scriptPath string
	ticks      int
	frameDT    time.Duration
	every      int
	events     bool
	debug      bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a level headlessly with a scripted input",
		Long: `Run feeds frames of --dt wall time into the engine, polling the input script once per fixed step.
The final snapshot (and every --every ticks, if set) is printed as YAML.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLevel(cmd.OutOrStdout(), root, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.levelPath, "level", "l", "", "level YAML file (required)")
	cmd.Flags().StringVarP(&opts.scriptPath, "script", "s", "", "input script YAML file (empty: no input)")
	cmd.Flags().IntVarP(&opts.ticks, "ticks", "n", 0, "number of fixed steps to run (0: script length)")
	cmd.Flags().DurationVar(&opts.frameDT, "dt", time.Second/60, "wall time per rendered frame")
	cmd.Flags().IntVar(&opts.every, "every", 0, "also print a snapshot every N ticks")
	cmd.Flags().BoolVar(&opts.events, "events", false, "print gameplay events as they happen")
	cmd.Flags().BoolVar(&opts.debug, "debug", true, "fail on collision invariant violations")
	_ = cmd.MarkFlagRequired("level")
	return cmd
}

func runLevel(out io.Writer, root *rootOptions, opts *runOptions) error {
	tuning, err := root.tuning()
	if err != nil {
		return err
	}
	lvl, err := level.LoadFile(opts.levelPath)
	if err != nil {
		return err
	}

	var frames []game.Input
	if opts.scriptPath != "" {
		if frames, err = engine.LoadScript(opts.scriptPath); err != nil {
			return err
		}
	}
	total := opts.ticks
	if total <= 0 {
		total = len(frames)
	}
	if total <= 0 {
		return fmt.Errorf("nothing to run: give --ticks or a non-empty --script")
	}
	if opts.frameDT <= 0 {
		return fmt.Errorf("--dt must be > 0, got %v", opts.frameDT)
	}

	e, err := engine.New(lvl, tuning, engine.Options{Debug: opts.debug})
	if err != nil {
		return err
	}
	src := engine.NewScriptedInput(frames)

	printed := uint64(0)
	for e.World().Tick < uint64(total) {
		if _, _, err := e.Advance(opts.frameDT, src); err != nil {
			return err
		}
		snap := e.Snapshot()
		if opts.events {
			for _, ev := range snap.Events {
				fmt.Fprintf(out, "# tick %d: %s entity=%d score=%d %s\n", ev.Tick, ev.Kind, ev.Entity, ev.Score, ev.Detail)
			}
		}
		if opts.every > 0 && snap.Tick/uint64(opts.every) > printed {
			printed = snap.Tick / uint64(opts.every)
			if err := writeSnapshot(out, snap); err != nil {
				return err
			}
		}
		if s := e.Status(); s == game.StatusCleared || s == game.StatusGameOver {
			break
		}
	}

	fmt.Fprintf(out, "# level %s finished after %d ticks: %s\n", lvl.ID, e.World().Tick, e.Status())
	return writeSnapshot(out, e.Snapshot())
}

func writeSnapshot(out io.Writer, snap game.FrameSnapshot) error {
	data, err := snap.Encode()
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "---\n%s", data); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/decker502/platformer/pkg/config"
	"github.com/decker502/platformer/pkg/engine"
	"github.com/decker502/platformer/pkg/level"
)

func newValidateCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate LEVEL.yaml...",
		Short: "Check level documents and the tuning file",
		Long: `Validate parses every level document, builds an engine for it with the selected tuning
and runs one idle step, so malformed grids, bad tuning values and spawn overlaps are all reported.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return validate(cmd.OutOrStdout(), root, args)
		},
	}
}

func validate(out io.Writer, root *rootOptions, paths []string) error {
	tuning, err := root.tuning()
	if err != nil {
		return err
	}
	if root.tuningPath != "" {
		fmt.Fprintf(out, "ok   %s\n", root.tuningPath)
	}

	failed := 0
	for _, path := range paths {
		if err := validateLevel(path, tuning); err != nil {
			fmt.Fprintf(out, "FAIL %s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Fprintf(out, "ok   %s\n", path)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d level(s) invalid", failed, len(paths))
	}
	return nil
}

func validateLevel(path string, tuning config.Tuning) error {
	lvl, err := level.LoadFile(path)
	if err != nil {
		return err
	}
	e, err := engine.New(lvl, tuning, engine.Options{Debug: true})
	if err != nil {
		return err
	}
	return e.Step(engine.NewScriptedInput(nil).Poll())
}

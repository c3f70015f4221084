package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"pydoxy/internal/clock"
	"pydoxy/internal/core"
	"pydoxy/internal/tui"
	"pydoxy/internal/watcher"
)

// newTUICmd launches the interactive preview of the rewritten docstrings.
func newTUICmd(fs afero.Fs) *cobra.Command {
	tuiCmd := &cobra.Command{
		Use:   "tui FILE",
		Short: "Preview the Doxygen blocks of a Python file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, log, err := loadOptions(cmd, args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			// The trace would garble the alternate screen.
			load := func() (*core.Result, error) {
				return core.Preview(ctx, fs, opts, zerolog.Nop())
			}

			var w *watcher.Watcher
			if watch, _ := cmd.Flags().GetBool("watch"); watch {
				w = watcher.New(args[0], watcher.DefaultDebounce, clock.RealClock{})
				if err := w.Start(); err != nil {
					return fmt.Errorf("failed to watch %s: %w", args[0], err)
				}
				defer w.Stop()
				log.Debug().Str("file", args[0]).Msg("watching")
			}

			if err := tui.Run(args[0], load, w, clock.RealClock{}); err != nil {
				return fmt.Errorf("error running TUI: %w", err)
			}
			return nil
		},
	}
	tuiCmd.Flags().BoolP("watch", "w", false, "re-run the filter whenever the file changes")
	return tuiCmd
}

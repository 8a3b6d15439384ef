package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ordenar/internal/layout"
	"ordenar/internal/organize"
)

func newUndoCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "undo",
		Short: "Move the files of the last organize run back to where they came from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			categories, err := cfg.CategoryTable()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}
			store, err := ctx.openJournal()
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			engine := organize.NewEngine(organize.Config{
				Table:      categories,
				Store:      store,
				Logger:     logger,
				MonthNamer: layout.NamerFor(cfg.Organize.MonthLanguage),
				Hooks: organize.Hooks{
					Log: func(line string) {
						if !jsonOut {
							fmt.Fprintln(out, line)
						}
					},
				},
			})

			result, err := engine.Undo(cmd.Context())
			if errors.Is(err, organize.ErrNothingToUndo) {
				if jsonOut {
					return writeJSON(cmd, map[string]any{"restored": 0, "errors": 0, "nothing_to_undo": true})
				}
				fmt.Fprintln(out, "Nothing to undo.")
				return nil
			}
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, map[string]any{
					"batch_id": result.BatchID,
					"root":     result.Root,
					"restored": result.Restored,
					"errors":   result.Errors,
				})
			}
			fmt.Fprintf(out, "Restored %d files under %s", result.Restored, result.Root)
			if result.Errors > 0 {
				fmt.Fprintf(out, " (%d errors)", result.Errors)
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the undo result as JSON")
	return cmd
}

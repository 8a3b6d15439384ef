package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"ordenar/internal/journal"
	"ordenar/internal/layout"
	"ordenar/internal/organize"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var recursive bool
	var dryRun bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "organize <path>",
		Short: "Move files under a directory into category folders",
		Long: `Organize classifies every file under <path> by extension and moves it
into the matching category folder, bucketing some categories by the
file's modification date. Files already inside a category folder are
left alone. A journal of the run is kept so it can be reversed with
'ordenar undo'.`,
		Args: cobra.ExactArgs(1),
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

			var store *journal.Store
			if !dryRun {
				store, err = ctx.openJournal()
				if err != nil {
					return err
				}
				defer store.Close()
			}

			out := cmd.OutOrStdout()
			showBar := stdoutIsTerminal() && !jsonOut
			var bar *progressbar.ProgressBar

			hooks := organize.Hooks{
				Log: func(line string) {
					if !jsonOut {
						fmt.Fprintln(out, line)
					}
				},
				Progress: func(done, total int) {
					if !showBar || total == 0 {
						return
					}
					if bar == nil {
						bar = progressbar.NewOptions(total,
							progressbar.OptionSetWriter(os.Stderr),
							progressbar.OptionSetDescription("organizing"),
							progressbar.OptionClearOnFinish(),
						)
					}
					_ = bar.Set(done)
				},
			}

			engine := organize.NewEngine(organize.Config{
				Table:        categories,
				Store:        store,
				Logger:       logger,
				MonthNamer:   layout.NamerFor(cfg.Organize.MonthLanguage),
				ExcludeGlobs: cfg.Organize.Exclude,
				Hooks:        hooks,
			})

			summary, err := engine.Run(cmd.Context(), organize.Options{
				Root:      args[0],
				Recursive: recursive,
				DryRun:    dryRun,
			})
			if bar != nil {
				_ = bar.Finish()
			}
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, summaryPayload(summary))
			}
			printSummary(cmd, summary)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Include files in subdirectories")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report the plan without moving anything")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the run summary as JSON")
	return cmd
}

type summaryJSON struct {
	Moved      map[string]int `json:"moved"`
	MovedTotal int            `json:"moved_total"`
	Errors     int            `json:"errors"`
	Candidates int            `json:"candidates"`
	BytesMoved int64          `json:"bytes_moved"`
	DryRun     bool           `json:"dry_run"`
}

func summaryPayload(summary *organize.Summary) summaryJSON {
	return summaryJSON{
		Moved:      summary.Moved,
		MovedTotal: summary.MovedTotal(),
		Errors:     summary.Errors,
		Candidates: summary.Total,
		BytesMoved: summary.BytesMoved,
		DryRun:     summary.DryRun,
	}
}

func printSummary(cmd *cobra.Command, summary *organize.Summary) {
	out := cmd.OutOrStdout()

	if summary.Total == 0 {
		fmt.Fprintln(out, "Nothing to organize.")
		return
	}

	categories := make([]string, 0, len(summary.Moved))
	for cat := range summary.Moved {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	rows := make([]table.Row, 0, len(categories))
	for _, cat := range categories {
		rows = append(rows, table.Row{cat, summary.Moved[cat]})
	}
	fmt.Fprintln(out, renderTable(table.Row{"Category", "Files"}, rows, 2))

	verb := "Moved"
	if summary.DryRun {
		verb = "Would move"
	}
	fmt.Fprintf(out, "%s %d of %d files", verb, summary.MovedTotal(), summary.Total)
	if !summary.DryRun && summary.BytesMoved > 0 {
		fmt.Fprintf(out, " (%s)", humanize.Bytes(uint64(summary.BytesMoved)))
	}
	fmt.Fprintln(out)
	if summary.Errors > 0 {
		fmt.Fprintf(out, "Errors: %d (see the log lines above)\n", summary.Errors)
	}
	if summary.DryRun {
		fmt.Fprintln(out, "Dry run: nothing was moved.")
	}
}

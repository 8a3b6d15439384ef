package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newRulesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "Print the active category table",
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

			rows := make([]table.Row, 0, len(categories.Rules())+1)
			for _, rule := range categories.Rules() {
				rows = append(rows, table.Row{
					rule.Name,
					strings.Join(rule.Extensions, " "),
					yesNo(rule.DateBuckets),
				})
			}
			rows = append(rows, table.Row{categories.Fallback(), "(everything else)", yesNo(false)})

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(table.Row{"Category", "Extensions", "Date buckets"}, rows))
			fmt.Fprintf(out, "Month labels: %s\n", cfg.Organize.MonthLanguage)
			return nil
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"teamnotify/internal/routing"
)

func newRoutesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Show the label to channel routing table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			table := routing.FromConfig(cfg.Routing.Teams)
			out := cmd.OutOrStdout()
			if table.Len() == 0 {
				fmt.Fprintln(out, "No teams configured")
				return nil
			}

			fmt.Fprintln(out, renderTable([]string{"Label", "Channel", "Status"}, routeRows(table)))
			fmt.Fprintf(out, "Prefix %q, pull request selection %q\n", cfg.Routing.Prefix, cfg.Routing.Selection)
			return nil
		},
	}
}

func routeRows(table routing.Table) [][]string {
	shadowed := make(map[int]bool)
	seen := make(map[string]bool)
	entries := table.Entries()
	for i, entry := range entries {
		if seen[entry.Label] {
			shadowed[i] = true
		}
		seen[entry.Label] = true
	}

	rows := make([][]string, 0, len(entries))
	for i, entry := range entries {
		status := "active"
		if shadowed[i] {
			status = "shadowed"
		}
		rows = append(rows, []string{entry.Label, "#" + entry.Channel, status})
	}
	return rows
}

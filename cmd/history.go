// Copyright (c) 2025 nlq
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"nlq/cli/internal/queryflow"
)

// historyCmd fetches the query log from the engine and shows the most recent
// entries, newest first.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent queries",
	Long: `The history command lists the most recent queries answered by the engine,
newest first. The engine keeps the last 50 entries; nlq shows the latest few.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, logger, err := newClient()
		if err != nil {
			return err
		}

		history := queryflow.NewHistoryStore(client, logger)
		if err := history.Refresh(cmd.Context()); err != nil {
			presentServiceError(err, "fetching the query history")
			return err
		}
		printRecentHistory(history)
		return nil
	},
}

// printRecentHistory renders the newest entries of the local history view.
func printRecentHistory(history *queryflow.HistoryStore) {
	recent := history.MostRecent(queryflow.RecentDisplayCount)
	if len(recent) == 0 {
		pterm.Println("No queries yet.")
		return
	}
	pterm.Println(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprint("Recent queries"))
	rows := pterm.TableData{{"When", "Type", "Query"}}
	for _, rec := range recent {
		rows = append(rows, []string{rec.Timestamp, rec.QueryType, rec.Query})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

// Copyright (c) 2025 nlq
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"nlq/cli/internal/queryflow"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var (
	showHistoryAfterQuery bool
)

// queryCmd submits a natural-language query and prints the engine's answer.
// Successful queries refresh the local history view; --history appends the
// most recent entries to the output.
var queryCmd = &cobra.Command{
	Use:   "query <text...>",
	Short: "Ask a question in plain language",
	Long: `The query command sends a natural-language question to the query engine and
prints the answer. Depending on the question the engine answers from the
connected database, the uploaded documents, or both.

Requires an established connection; run 'nlq connect' first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, logger, err := newClient()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		text := strings.TrimSpace(strings.Join(args, " "))
		history := queryflow.NewHistoryStore(client, logger)
		orch := queryflow.NewOrchestrator(client, history, logger)
		defer orch.Close()

		stopSpinner := startInlineSpinner(os.Stdout, "thinking", []string{"-", "\\", "|", "/"}, 100*time.Millisecond)
		res := orch.Submit(ctx, text)
		stopSpinner()

		if res == nil {
			// Whitespace-only input; nothing was sent
			return nil
		}
		if res.Failed() {
			pterm.Println("❌ " + res.Err)
			return errors.New(res.Err)
		}

		printQueryResult(res)

		if showHistoryAfterQuery {
			pterm.Println()
			printRecentHistory(history)
		}
		return nil
	},
}

// printQueryResult renders the engine's answer payload.
func printQueryResult(res *queryflow.Result) {
	payload := res.Payload

	header := payload.QueryType
	if header == "" {
		header = "answer"
	}
	if payload.Cached {
		header += " (cached)"
	}
	pterm.Println(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprint(header))

	body, err := json.MarshalIndent(payload.Results, "", "  ")
	if err != nil {
		fmt.Printf("%v\n", payload.Results)
	} else {
		fmt.Println(string(body))
	}

	if len(payload.Sources) > 0 {
		pterm.Println()
		pterm.Println(pterm.NewStyle(pterm.FgLightCyan).Sprint("Sources"))
		items := make([]pterm.BulletListItem, 0, len(payload.Sources))
		for _, s := range payload.Sources {
			items = append(items, pterm.BulletListItem{Level: 0, Text: fmt.Sprint(s)})
		}
		_ = pterm.DefaultBulletList.WithItems(items).Render()
	}

	if ms, ok := payload.Performance["response_time_ms"]; ok {
		pterm.Println()
		pterm.Printf("Response time: %vms\n", ms)
	}
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().BoolVar(&showHistoryAfterQuery, "history", false, "Show recent queries after the answer")
}

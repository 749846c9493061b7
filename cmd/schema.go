// Copyright (c) 2025 nlq
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"nlq/cli/internal/session"
)

var (
	showColumns bool
)

// schemaCmd fetches and displays the discovered schema of the connected
// data source.
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show the discovered database schema",
	Long: `The schema command displays the schema the engine discovered for the connected
database: tables, column counts, and foreign-key relationships.

Requires an established connection; run 'nlq connect' first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, logger, err := newClient()
		if err != nil {
			return err
		}

		cache := session.NewSchemaCache(client, logger)
		snap, err := cache.Load(cmd.Context())
		if err != nil {
			presentServiceError(err, "fetching the schema")
			pterm.Println("   If no connection is configured yet, run: nlq connect")
			return err
		}

		pterm.Printf("%d tables, %d columns, %d relationships\n\n",
			snap.Summary.TotalTables, snap.Summary.TotalColumns, snap.Summary.TotalRelationships)

		if showColumns {
			for _, table := range snap.Tables {
				pterm.Println(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprint(table.Name))
				rows := pterm.TableData{{"Column", "Type"}}
				for _, col := range table.Columns {
					rows = append(rows, []string{col.Name, col.Type})
				}
				_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
				pterm.Println()
			}
		} else {
			rows := pterm.TableData{{"Table", "Columns"}}
			for _, table := range snap.Tables {
				rows = append(rows, []string{table.Name, fmt.Sprint(len(table.Columns))})
			}
			_ = pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
		}

		if len(snap.Relationships) > 0 {
			pterm.Println()
			pterm.Println(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold).Sprint("Relationships"))
			for _, rel := range snap.Relationships {
				pterm.Printf("  %s.%s → %s.%s\n", rel.FromTable, rel.FromColumn, rel.ToTable, rel.ToColumn)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
	schemaCmd.Flags().BoolVar(&showColumns, "columns", false, "List every column of every table")
}

// Copyright (c) 2025 nlq
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"nlq/cli/internal/config"
)

var (
	configServerURL string
	configLogLevel  string
)

// configCmd shows the current configuration and, when flags are given,
// updates the config file. Only non-secret settings live here; the
// connection string stays in the keychain.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update CLI configuration",
	Long: `The config command displays the current settings. With flags it updates the
config file in the XDG config directory:

  nlq config --server http://engine-host:8000
  nlq config --log-level debug

NLQ_SERVER_URL still overrides the configured server address at runtime.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		changed := false
		if cmd.Flags().Changed("server") {
			cfg.ServerURL = configServerURL
			changed = true
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = configLogLevel
			changed = true
		}
		if changed {
			if err := config.Save(cfg); err != nil {
				return err
			}
			pterm.Println("✅ Configuration saved")
			pterm.Println()
		}

		rows := pterm.TableData{
			{"Setting", "Value"},
			{"server", cfg.ServerURL},
			{"log-level", cfg.LogLevel},
		}
		return pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringVar(&configServerURL, "server", "", "Query engine base URL")
	configCmd.Flags().StringVar(&configLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

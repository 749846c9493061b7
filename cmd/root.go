// Copyright (c) 2025 nlq
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the nlq client.
// It implements subcommands for connecting a data source, uploading documents,
// querying, and inspecting schema and history using the Cobra CLI framework.
// The package handles command parsing, execution, and provides a rich terminal
// UI with spinners and progress indicators.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
// It serves as the entry point for the nlq CLI application.
var rootCmd = &cobra.Command{
	Use:           "nlq",
	Short:         "Natural-language query client for database and document search",
	Long:          `nlq is a command-line client for the NLP query engine. Connect a database, upload documents, and ask questions in plain language across both.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			client, _, err := newClient()
			if err != nil {
				return err
			}
			engineVersion, err := client.GetVersion(cmd.Context())
			if err != nil {
				engineVersion = "unknown"
			}
			fmt.Printf("nlq %s\nengine %s\n", Version, engineVersion)
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show client and engine version information")
}

// Copyright (c) 2025 nlq
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"nlq/cli/internal/keychain"

	"github.com/spf13/cobra"
)

// disconnectCmd removes the saved connection string from the OS keychain.
// The engine keeps its own session until restarted; this only forgets the
// locally stored credential.
var disconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Forget the saved database connection string",
	Long: `The disconnect command removes the stored connection string from the OS
keychain. Subsequent connect runs will prompt again (or use NLQ_DATABASE_URL /
DATABASE_URL if set).

The engine's current session is unaffected; only the locally saved credential
is removed.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		km, err := keychain.GetManager()
		if err != nil {
			fmt.Println("⚠️  Secure storage is not available on this system.")
			fmt.Println("   Keychain is only supported on macOS and Windows.")
			return nil
		}
		if err := km.ClearConnectionString(); err != nil {
			return err
		}
		fmt.Println("✅ Saved connection string removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(disconnectCmd)
}

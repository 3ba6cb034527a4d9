// Package cli implements the railtix-cli commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command when railtix-cli is called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "railtix-cli",
	Short: "A command-line client for the railway ticket booking service.",
	Long: `railtix-cli talks to an in-process booking engine: it detects the local
client identity, enforces the booking window, and walks through an interactive
reservation including passenger names and simulated payment.`,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// Package cli provides the cobra command tree for trep.
package cli

import (
	"context"

	"github.com/spf13/cobra"
)

const version = "0.2.0"

// NewRootCmd creates the root cobra command for trep.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "trep",
		Short: "Periodically run commands and record their output to CSV or JSONL",
		Long: `trep - a tiny reporter that periodically runs shell commands and records
their output.

Each run appends one record (timestamp, captured value, exit code) to a
per-day file under ~/.tiny-reporter/<job>/. A per-job lock prevents two
instances of the same job from running concurrently.`,
		Version:       version,
		SilenceErrors: true, // error printing is handled in main
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(
		newRunCmd(),
	)

	return rootCmd
}

// Execute runs the root command under ctx. Cancelling ctx (SIGINT/SIGTERM)
// stops a scheduled loop after the in-flight run's record is written.
func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

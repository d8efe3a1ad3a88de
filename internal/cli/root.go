// Package cli holds the topogen cobra commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/logger"
)

// NewRootCmd builds the topogen command tree.
func NewRootCmd() *cobra.Command {
	var (
		logLevel  string
		logFormat string
	)

	cmd := &cobra.Command{
		Use:   "topogen",
		Short: "Synthetic service topology and session trace generator",
		Long: `Generate a layered asset topology, weighted random-walk sessions across it
and per-asset KPI statuses, written as NDJSON artifacts.

Artifacts can be converted into search-response fixtures, or served on demand
by the fixture daemon over HTTP and gRPC.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetDefault(logger.NewFormat(logFormat, logLevel, cmd.ErrOrStderr()))
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newConvertCmd())
	cmd.AddCommand(newServeCmd())
	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

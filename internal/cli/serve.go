package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/topology-fixtures/internal/fixtured"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/logger"
)

func newServeCmd() *cobra.Command {
	var opts fixtured.Options

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the fixture daemon",
		Long: `Serve datasets over HTTP and gRPC. Each dataset is generated on request
from a config and anchor, kept in memory and exposed as NDJSON artifacts and
search-response fixtures. Prometheus metrics are served on /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return fixtured.Serve(ctx, opts, logger.Default)
		},
	}

	cmd.Flags().StringVar(&opts.HTTPAddr, "http-addr", ":8080", "HTTP listen address (empty disables)")
	cmd.Flags().StringVar(&opts.GRPCAddr, "grpc-addr", ":50051", "gRPC listen address (empty disables)")
	cmd.Flags().IntVar(&opts.CreateRate, "create-rate", 10, "dataset creations per client and second over HTTP (0 disables)")
	cmd.Flags().IntVar(&opts.MaxDatasets, "max-datasets", 100, "datasets kept in memory before finished ones are evicted (0 keeps all)")
	return cmd
}

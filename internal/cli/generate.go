package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/topology-fixtures/internal/generator"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/config"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/logger"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/utils"
)

func newGenerateCmd() *cobra.Command {
	var (
		configPath string
		outDir     string
		anchorStr  string
		compress   bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate topology, sessions and asset statuses",
		Long: `Build the asset topology from the config, walk the configured number of
sessions across it and synthesize one status record per asset.

Writes input.ndjson, asset-db.ndjson and asset-status.ndjson to --out. A
missing or invalid config falls back to the defaults with a warning.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var anchor time.Time
			if anchorStr != "" {
				t, err := time.Parse(time.RFC3339Nano, anchorStr)
				if err != nil {
					return fmt.Errorf("invalid --anchor: %w", err)
				}
				anchor = t
			}

			log := logger.Default
			cfg := config.LoadOrDefault(configPath, log)

			sinks, err := generator.CreateFileSinks(outDir, compress)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			res, err := generator.Run(ctx, cfg, sinks, generator.Options{Anchor: anchor}, log)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					log.Warn("Generation interrupted, partial output flushed", "error", err)
					return nil
				}
				return err
			}

			events, assets, status := generator.FileNames(outDir, compress)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote %d events (%d sessions) to %s\n", res.Stats.Events, res.Stats.Sessions, events)
			fmt.Fprintf(out, "Wrote %d assets to %s\n", res.Stats.Assets, assets)
			fmt.Fprintf(out, "Wrote %d statuses to %s\n", res.Stats.Assets, status)
			fmt.Fprintf(out, "Done in %s\n", utils.FormatDuration(res.Stats.Duration))
			for sink, n := range res.WriteErrors {
				fmt.Fprintf(out, "%d %s records failed to write\n", n, sink)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", config.DefaultFileName, "path to a JSON or YAML config file")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory")
	cmd.Flags().StringVar(&anchorStr, "anchor", "", "end of the session window as RFC3339 (default now)")
	cmd.Flags().BoolVar(&compress, "compress", false, "write snappy-framed .sz artifacts")
	return cmd
}

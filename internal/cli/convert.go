package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/topology-fixtures/internal/convert"
	"github.com/GoSim-25-26J-441/topology-fixtures/internal/generator"
	"github.com/GoSim-25-26J-441/topology-fixtures/pkg/logger"
)

func newConvertCmd() *cobra.Command {
	var (
		inDir  string
		outDir string
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert generated artifacts into search-response fixtures",
		Long: `Read input.ndjson, asset-db.ndjson and asset-status.ndjson from --in (or
their .sz compressed variants) and write asset-db-response.json,
asset-status-response.json and asset-dependencies-responce.json to --out.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := resolveInputs(inDir)
			out := convert.DefaultOutputs(outDir)

			summary, err := convert.Files(in, out)
			if err != nil {
				return err
			}
			logger.Info("Conversion complete",
				"assets", summary.Assets,
				"statuses", summary.Statuses,
				"dependencies", summary.Dependencies)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Wrote %d hits to %s\n", summary.Assets, out.AssetDB)
			fmt.Fprintf(w, "Wrote %d hits to %s\n", summary.Statuses, out.AssetStatus)
			fmt.Fprintf(w, "Wrote %d hits to %s\n", summary.Dependencies, out.Dependencies)
			return nil
		},
	}

	cmd.Flags().StringVar(&inDir, "in", ".", "directory holding the generated artifacts")
	cmd.Flags().StringVar(&outDir, "out", ".", "output directory for the responses")
	return cmd
}

// resolveInputs picks the plain artifact when present and the compressed one
// otherwise.
func resolveInputs(dir string) convert.Inputs {
	events, assets, status := generator.FileNames(dir, false)
	zEvents, zAssets, zStatus := generator.FileNames(dir, true)
	pick := func(plain, compressed string) string {
		if _, err := os.Stat(plain); err != nil {
			if _, zerr := os.Stat(compressed); zerr == nil {
				return compressed
			}
		}
		return plain
	}
	return convert.Inputs{
		Events: pick(events, zEvents),
		Assets: pick(assets, zAssets),
		Status: pick(status, zStatus),
	}
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"collection-generator/internal/pipeline"
)

// GenerateCmd creates the 'generate' command.
func GenerateCmd() *cobra.Command {
	var (
		outDir string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the data-access layer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			if outDir != "" {
				cfg.Output.Dir = outDir
			}

			runner := pipeline.NewRunner(cfg, pipeline.WithLogger(logger))

			if dryRun {
				res, err := runner.Render(cmd.Context())
				if err != nil {
					return reportError(cmd, err)
				}

				for _, f := range res.Files {
					fmt.Fprintf(cmd.OutOrStdout(), "would write %s (%d bytes)\n", f.Filename, len(f.Content))
				}

				return nil
			}

			res, err := runner.Generate(cmd.Context())
			if err != nil {
				return reportError(cmd, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "generated %d files for %d collections in %s\n",
				len(res.Files), res.Graph.Len(), res.OutputDir)

			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (overrides output.dir)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Render files without writing them")

	return cmd
}

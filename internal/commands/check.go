package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"collection-generator/internal/diagnostic"
	"collection-generator/internal/pipeline"
	"collection-generator/internal/schema"
)

// CheckCmd creates the 'check' command. It validates declarations without
// generating code.
func CheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate collection declarations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(cmd)
			if err != nil {
				return err
			}

			graph, err := pipeline.NewRunner(cfg, pipeline.WithLogger(logger)).Compile(cmd.Context())
			if err != nil {
				return reportError(cmd, err)
			}

			for _, w := range warnings(graph).Warnings {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: "+w.String())
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d collections, %d roots\n", graph.Len(), len(graph.Roots()))

			return nil
		},
	}
}

// warnings flags collections that compile but produce a reduced surface.
func warnings(graph *schema.Graph) diagnostic.Diagnostics {
	var diags diagnostic.Diagnostics

	for _, c := range graph.Collections() {
		if len(c.Queryable) == 0 {
			diags.AddWarning("no queryable fields, query builder is not generated", c.Path.String(), "")
		}
	}

	return diags
}

// reportError prints compile diagnostics one per line and returns a
// summary error. Other errors are returned unchanged.
func reportError(cmd *cobra.Command, err error) error {
	if len(diagnostic.Flatten(err)) == 0 {
		return err
	}

	var diags diagnostic.Diagnostics
	diags.Add(err)

	for _, d := range diags.Errors {
		fmt.Fprintln(cmd.ErrOrStderr(), d.String())
	}

	return errors.New(pluralize(len(diags.Errors), "error", "errors") + " found")
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}

	return fmt.Sprintf("%d %s", n, many)
}

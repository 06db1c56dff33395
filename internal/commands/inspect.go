package commands

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"collection-generator/internal/pipeline"
	"collection-generator/internal/schema"
)

// dumper prints resolved descriptors in verbose mode. Type graphs are deep
// and cyclic, so depth is capped.
var dumper = spew.ConfigState{
	Indent:                  "  ",
	MaxDepth:                3,
	DisableMethods:          true,
	DisablePointerAddresses: true,
	SortKeys:                true,
}

// InspectCmd creates the 'inspect' command. It prints the compiled
// collection graph as YAML.
func InspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Print the compiled collection graph as YAML",
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

			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				for _, c := range graph.Collections() {
					dumper.Fdump(cmd.ErrOrStderr(), c.Path.String(), c.Codec, c.Injections, c.Queryable)
				}
			}

			return schema.WriteYAML(cmd.OutOrStdout(), graph)
		},
	}
}

// Package commands implements the collection-generator command line.
package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"collection-generator/internal/config"
	"collection-generator/internal/logging"
)

// Version is the generator version.
const Version = "0.1.0"

// RootCmd creates and returns the root command with all subcommands.
func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collection-generator",
		Short: "Typed Firestore data access generated from annotated Go types",
		Long: `collection-generator reads //docstore:collection directives from Go packages,
validates the collection hierarchy and emits a typed data-access layer.

Example:
  collection-generator check
  collection-generator generate --out ./store
  collection-generator inspect -c collectiongen.yaml`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to config file (default ./collectiongen.yaml)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(GenerateCmd())
	cmd.AddCommand(CheckCmd())
	cmd.AddCommand(InspectCmd())

	return cmd
}

// setup loads the configuration named by the persistent flags and builds
// the logger. Logs go to the command's stderr.
func setup(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	path, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")

	cfg, err := config.Load(path)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("loading configuration: %w", err)
	}

	level := cfg.Log.Level
	if verbose {
		level = zerolog.LevelDebugValue
	}

	return cfg, logging.New(level, cmd.ErrOrStderr(), cfg.Log.Console), nil
}

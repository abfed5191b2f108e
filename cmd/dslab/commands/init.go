package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/dslab/cmd/dslab/handlers"
	"github.com/imamik/dslab/internal/config"
)

// Init returns the command for creating a workspace configuration.
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a workspace configuration interactively",
		Long: `Init walks through a short wizard and writes a dslab.yaml.

The generated file is a complete deployment spec; edit it by hand or rerun
init to start over.

Example:
  dslab init
  dslab deploy`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", config.DefaultConfigFile, "Where to write the configuration")

	return cmd
}

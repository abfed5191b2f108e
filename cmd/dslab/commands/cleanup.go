package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/dslab/cmd/dslab/handlers"
	"github.com/imamik/dslab/internal/config"
)

// Cleanup returns the cleanup command.
//
// Cleanup discovers every resource tagged with the workspace's project and
// environment and deletes it, regardless of which run created it. It is the
// recovery path after a crashed deployment or a failed rollback.
func Cleanup() *cobra.Command {
	var configPath string
	var overrides config.Overrides

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete every resource belonging to the workspace",
		Long: `Cleanup removes all workspace resources from AWS.

Resources are discovered by tags, not by local state, so cleanup works even
after a crashed run. It deletes in dependency order:
  - Notebook instances
  - The workspace bucket (emptied first, including all object versions)
  - The security group
  - The SSH key pair

Examples:
  dslab cleanup -c dslab.yaml

  # Sweep a different environment of the same project
  dslab cleanup --environment staging

WARNING: This operation is irreversible. All workspace data will be lost,
including everything stored in the bucket.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Cleanup(cmd.Context(), configPath, overrides)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: dslab.yaml)")
	cmd.Flags().StringVar(&overrides.ProjectName, "project", "", "Override the project name to sweep")
	cmd.Flags().StringVar(&overrides.Environment, "environment", "", "Override the environment to sweep")

	return cmd
}

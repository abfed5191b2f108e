package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/dslab/cmd/dslab/handlers"
	"github.com/imamik/dslab/internal/config"
)

// Deploy returns the command for provisioning a workspace.
//
// Optional flags:
//
//	--config, -c:    Path to workspace configuration YAML file (default: auto-detect dslab.yaml)
//	--dry-run:       Validate and print the plan without creating anything
//	--project, --environment, --region, --instance-type, --count, --bucket:
//	                 per-field overrides merged over the config file
//
// Credentials come from the default AWS credential chain (environment,
// shared config, instance role).
func Deploy() *cobra.Command {
	var configPath string
	var dryRun bool
	var overrides config.Overrides

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Create the workspace",
		Long: `Deploy provisions a complete data science workspace on AWS.

The workspace consists of:
  - A security group admitting SSH, HTTP(S), and the notebook port
  - An SSH key pair (private key written next to the config file)
  - One or more notebook instances running JupyterLab
  - A shared, versioned S3 bucket with a standard folder layout

Resources are created in dependency order. If any step fails, everything
created so far is rolled back automatically.

If no config file is specified, dslab looks for dslab.yaml in the current
directory. Use 'dslab init' to create one.

Examples:
  # Deploy using dslab.yaml in the current directory
  dslab deploy

  # Deploy using a specific config file
  dslab deploy -c team-prod.yaml

  # Check the plan without touching AWS
  dslab deploy --dry-run

  # Scale the fleet without editing the config file
  dslab deploy --count 3 --instance-type m5.xlarge`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Deploy(cmd.Context(), configPath, overrides, dryRun)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: dslab.yaml)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the configuration and print the plan without creating resources")
	cmd.Flags().StringVar(&overrides.ProjectName, "project", "", "Override the project name")
	cmd.Flags().StringVar(&overrides.Environment, "environment", "", "Override the environment")
	cmd.Flags().StringVar(&overrides.Region, "region", "", "Override the AWS region")
	cmd.Flags().StringVar(&overrides.InstanceType, "instance-type", "", "Override the notebook instance type")
	cmd.Flags().IntVar(&overrides.InstanceCount, "count", 0, "Override the number of notebook instances")
	cmd.Flags().StringVar(&overrides.BucketName, "bucket", "", "Override the workspace bucket name")

	return cmd
}

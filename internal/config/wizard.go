package config

import (
	"context"
	"fmt"
	"net"

	"github.com/charmbracelet/huh"
)

// RunWizard collects a deployment spec interactively. Every answer maps
// directly to a Config field; defaults match ApplyDefaults.
func RunWizard(ctx context.Context) (*Config, error) {
	cfg := &Config{
		Environment:   DefaultEnvironment,
		Region:        DefaultRegion,
		InstanceType:  DefaultInstanceType,
		InstanceCount: DefaultInstanceCount,
		AllowedCIDR:   DefaultAllowedCIDR,
	}

	form := huh.NewForm(
		// Workspace identity
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Description("Names and tags every resource (lowercase, hyphens allowed)").
				Placeholder(DefaultProjectName).
				Value(&cfg.ProjectName).
				Validate(validateIdentifier("project name")),

			huh.NewSelect[string]().
				Title("Environment").
				Description("Separates deployments of the same project").
				Options(
					huh.NewOption("Development (dev)", "dev"),
					huh.NewOption("Staging (staging)", "staging"),
					huh.NewOption("Production (prod)", "prod"),
				).
				Value(&cfg.Environment),
		),

		// Region selection
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Region").
				Description("Where the workspace runs").
				Options(
					huh.NewOption("N. Virginia (us-east-1)", "us-east-1"),
					huh.NewOption("Oregon (us-west-2)", "us-west-2"),
					huh.NewOption("Ireland (eu-west-1)", "eu-west-1"),
					huh.NewOption("Frankfurt (eu-central-1)", "eu-central-1"),
				).
				Value(&cfg.Region),
		),

		// Compute sizing
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Instance type").
				Description("Size of each notebook instance").
				Options(
					huh.NewOption("t3.medium - 2 vCPU, 4GB RAM", "t3.medium"),
					huh.NewOption("t3.large - 2 vCPU, 8GB RAM", "t3.large"),
					huh.NewOption("m5.xlarge - 4 vCPU, 16GB RAM", "m5.xlarge"),
					huh.NewOption("c5.2xlarge - 8 vCPU, 16GB RAM", "c5.2xlarge"),
				).
				Value(&cfg.InstanceType),

			huh.NewSelect[int]().
				Title("Number of notebook instances").
				Options(
					huh.NewOption("1 instance", 1),
					huh.NewOption("2 instances", 2),
					huh.NewOption("3 instances", 3),
					huh.NewOption("5 instances", 5),
				).
				Value(&cfg.InstanceCount),
		),

		// Storage and access
		huh.NewGroup(
			huh.NewInput().
				Title("Bucket name").
				Description("Globally unique workspace bucket (3-63 lowercase chars)").
				Placeholder("my-team-workspace").
				Value(&cfg.BucketName).
				Validate(validateBucketName),

			huh.NewInput().
				Title("Allowed CIDR").
				Description("Network allowed to reach the workspace (0.0.0.0/0 means everyone)").
				Value(&cfg.AllowedCIDR).
				Validate(validateCIDR),

			huh.NewInput().
				Title("Notebook token").
				Description("Access token for the notebook UI (leave empty for the well-known default)").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.NotebookToken),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	return cfg, nil
}

func validateIdentifier(what string) func(string) error {
	return func(s string) error {
		if !identifierRe.MatchString(s) {
			return fmt.Errorf("%s must be lowercase alphanumeric with hyphens, starting with a letter", what)
		}
		return nil
	}
}

func validateBucketName(s string) error {
	if !ValidBucketName(s) {
		return fmt.Errorf("must be 3-63 lowercase alphanumeric/hyphen characters, not starting or ending with a hyphen")
	}
	return nil
}

func validateCIDR(s string) error {
	if _, _, err := net.ParseCIDR(s); err != nil {
		return fmt.Errorf("not a valid CIDR, e.g. 203.0.113.0/24")
	}
	return nil
}

// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command definitions
// in the commands package. Handlers are framework-agnostic and can be tested
// independently of the CLI framework.
package handlers

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/imamik/dslab/internal/config"
	"github.com/imamik/dslab/internal/platform/aws"
	"github.com/imamik/dslab/internal/provisioning"
	"github.com/imamik/dslab/internal/provisioning/compensate"
	"github.com/imamik/dslab/internal/provisioning/compute"
	"github.com/imamik/dslab/internal/provisioning/credential"
	"github.com/imamik/dslab/internal/provisioning/network"
	"github.com/imamik/dslab/internal/provisioning/storage"
	"github.com/imamik/dslab/internal/provisioning/verify"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// newCloudClient creates the AWS-backed cloud client.
	newCloudClient = func(ctx context.Context, cfg *config.Config) (aws.CloudManager, error) {
		return aws.NewRealClient(ctx, aws.ClientConfig{
			Region:  cfg.Region,
			Profile: cfg.Profile,
		})
	}

	// loadConfigFile loads config from file.
	loadConfigFile = config.LoadFile

	// findConfigFile locates the default config file.
	findConfigFile = config.FindConfigFile
)

// Deploy provisions a complete workspace.
//
// The workflow:
//  1. Loads and validates the workspace configuration
//  2. Verifies AWS credentials with a caller-identity preflight
//  3. Runs the provisioning pipeline: network, credential, storage, compute
//  4. Verifies every created resource against the provider
//  5. Prints the access summary
//
// Any phase failure rolls back everything created so far before Deploy
// returns. With dryRun set, the configuration is validated and the plan
// printed without any resource call. Flag overrides are merged over the
// loaded file before validation, so they win field by field.
func Deploy(ctx context.Context, configPath string, overrides config.Overrides, dryRun bool) error {
	cfg, path, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	overrides.Apply(cfg)

	if err := cfg.Validate(); err != nil {
		return err
	}

	if dryRun {
		fmt.Print(renderPlan(cfg))
		return nil
	}

	client, err := newCloudClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize AWS client: %w", err)
	}
	if err := client.ValidateCredentials(ctx); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"project":     cfg.ProjectName,
		"environment": cfg.Environment,
		"region":      cfg.Region,
	}).Info("Deploying workspace")

	pctx := provisioning.NewContext(ctx, cfg, client)
	orchestrator := &provisioning.Orchestrator{
		Phases: []provisioning.Phase{
			network.NewProvisioner(),
			credential.NewProvisioner(filepath.Dir(path)),
			storage.NewProvisioner(),
			compute.NewProvisioner(),
			verify.NewPhase(),
		},
		Compensator: compensate.NewCompensator(),
	}

	result := orchestrator.Deploy(pctx)
	fmt.Print(renderDeploySummary(cfg, result))

	if !result.Succeeded {
		if result.CompensationErr != nil {
			return fmt.Errorf("deployment failed (%w); rollback left %d orphaned resources, run 'dslab cleanup': %v",
				result.FailureReason, len(result.Records), result.CompensationErr)
		}
		return fmt.Errorf("deployment failed, all created resources were rolled back: %w", result.FailureReason)
	}
	return nil
}

// loadConfig resolves the config path and loads the file. It returns the
// resolved path so callers can anchor sibling files next to it.
func loadConfig(configPath string) (*config.Config, string, error) {
	if configPath == "" {
		path, err := findConfigFile()
		if err != nil {
			return nil, "", fmt.Errorf("no config file found: %w\nRun 'dslab init' to create one", err)
		}
		configPath = path
	}

	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return nil, "", err
	}
	return cfg, configPath, nil
}

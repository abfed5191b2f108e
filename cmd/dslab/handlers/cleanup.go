package handlers

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/imamik/dslab/internal/config"
	"github.com/imamik/dslab/internal/provisioning"
	"github.com/imamik/dslab/internal/provisioning/compensate"
)

// runSweep is replaceable in tests.
var runSweep = compensate.Sweep

// Cleanup deletes every resource carrying the workspace tags.
//
// Discovery runs against the provider, not local state, so cleanup recovers
// from crashed runs and failed rollbacks. Deletion is best-effort: every
// resource that can be released is released, and the orphans are reported.
// Only the workspace identity is validated; a partial config that still
// names the project and environment is enough to sweep.
func Cleanup(ctx context.Context, configPath string, overrides config.Overrides) error {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	overrides.Apply(cfg)
	if err := cfg.ValidateIdentity(); err != nil {
		return err
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
	}).Info("Cleaning up workspace")

	pctx := provisioning.NewContext(ctx, cfg, client)
	result, err := runSweep(pctx)
	if result != nil {
		fmt.Print(renderSweepSummary(cfg, result))
	}
	return err
}

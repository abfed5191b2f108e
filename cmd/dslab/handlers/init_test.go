package handlers

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/dslab/internal/config"
)

func swapInitFactories(t *testing.T) {
	t.Helper()
	origExists := fileExists
	origWizard := runWizard
	origWrite := writeConfig
	t.Cleanup(func() {
		fileExists = origExists
		runWizard = origWizard
		writeConfig = origWrite
	})
}

func TestInit_WritesWizardResult(t *testing.T) {
	swapInitFactories(t)

	fileExists = func(string) bool { return false }
	runWizard = func(context.Context) (*config.Config, error) {
		return testConfig(), nil
	}

	var gotPath string
	var gotCfg *config.Config
	writeConfig = func(path string, cfg *config.Config) error {
		gotPath, gotCfg = path, cfg
		return nil
	}

	require.NoError(t, Init(context.Background(), "dslab.yaml"))
	assert.Equal(t, "dslab.yaml", gotPath)
	assert.Equal(t, "demo-workspace", gotCfg.BucketName)
}

func TestInit_WizardCancel(t *testing.T) {
	swapInitFactories(t)

	fileExists = func(string) bool { return false }
	runWizard = func(context.Context) (*config.Config, error) {
		return nil, fmt.Errorf("user aborted")
	}
	writeConfig = func(string, *config.Config) error {
		t.Fatal("nothing may be written after a canceled wizard")
		return nil
	}

	err := Init(context.Background(), "dslab.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wizard canceled")
}

func TestInit_WriteFailure(t *testing.T) {
	swapInitFactories(t)

	fileExists = func(string) bool { return true }
	runWizard = func(context.Context) (*config.Config, error) {
		return testConfig(), nil
	}
	writeConfig = func(string, *config.Config) error {
		return fmt.Errorf("read-only filesystem")
	}

	err := Init(context.Background(), "dslab.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write config")
}

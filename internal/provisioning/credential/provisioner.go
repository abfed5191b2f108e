// Package credential provisions the workspace SSH key pair and writes its
// private key material to disk.
package credential

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/imamik/dslab/internal/platform/aws"
	"github.com/imamik/dslab/internal/provisioning"
	"github.com/imamik/dslab/internal/util/keygen"
	"github.com/imamik/dslab/internal/util/naming"
	"github.com/imamik/dslab/internal/util/retry"
	"github.com/imamik/dslab/internal/util/tags"
)

// Provisioner handles key pair provisioning.
type Provisioner struct {
	// KeyDir is where the private key file is written. Empty means the
	// current working directory.
	KeyDir string
}

// NewProvisioner creates a new credential provisioner.
func NewProvisioner(keyDir string) *Provisioner {
	return &Provisioner{KeyDir: keyDir}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "credential"
}

// Provision implements the provisioning.Phase interface. An existing key
// pair with the workspace name is adopted rather than recreated; its private
// key material is unavailable in that case, which is surfaced as a warning.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config
	name := naming.KeyPair(cfg.ProjectName, cfg.Environment)

	existingID, err := ctx.Cloud.GetKeyPairID(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to look up key pair %s: %w", name, err)
	}
	if existingID != "" {
		ctx.Observer.Printf("[credential] key pair %s already exists; reusing it (its private key is not retrievable)", name)
		provisioning.LogResourceExists(ctx.Observer, p.Name(), provisioning.KindKeyPair, name, existingID)
		ctx.State.KeyPairName = name
		ctx.State.KeyReused = true
		return nil
	}

	provisioning.LogResourceCreating(ctx.Observer, p.Name(), provisioning.KindKeyPair, name)

	keyTags := tags.NewBuilder(cfg.ProjectName, cfg.Environment).WithName(name).Build()
	var material []byte
	err = retry.WithExponentialBackoff(ctx, func() error {
		var createErr error
		_, material, createErr = ctx.Cloud.CreateKeyPair(ctx, name, keyTags)
		return aws.Classify(createErr)
	}, retry.WithMaxRetries(ctx.Timeouts.RetryMaxAttempts), retry.WithInitialDelay(ctx.Timeouts.RetryInitialDelay))
	if err != nil {
		return fmt.Errorf("failed to create key pair %s: %w", name, err)
	}

	// Key pairs are addressed by name in every later call, so the name is
	// what the tracker records.
	ctx.Tracker.Register(provisioning.KindKeyPair, name)
	ctx.State.KeyPairName = name

	fingerprint, err := keygen.ValidateKeyMaterial(material)
	if err != nil {
		return fmt.Errorf("received unusable key material for %s: %w", name, err)
	}

	path := filepath.Join(p.KeyDir, naming.KeyMaterialFile(name))
	if err := os.WriteFile(path, material, 0o600); err != nil {
		return fmt.Errorf("failed to write private key to %s: %w", path, err)
	}
	ctx.State.KeyMaterialPath = path

	provisioning.LogResourceCreated(ctx.Observer, p.Name(), provisioning.KindKeyPair, name, fingerprint)
	ctx.Observer.Printf("[credential] private key written to %s", path)
	return nil
}

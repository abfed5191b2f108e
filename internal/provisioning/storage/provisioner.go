// Package storage provisions the workspace bucket, its access hardening,
// and the standard folder layout.
package storage

import (
	"fmt"

	"github.com/imamik/dslab/internal/platform/aws"
	"github.com/imamik/dslab/internal/provisioning"
	"github.com/imamik/dslab/internal/util/retry"
	"github.com/imamik/dslab/internal/util/tags"
)

// FolderMarkers is the standard workspace folder layout, created as
// zero-byte objects so the prefixes show up in object listings.
var FolderMarkers = []string{
	"notebooks/",
	"data/raw/",
	"data/processed/",
	"models/",
	"outputs/",
}

// Provisioner handles bucket provisioning.
type Provisioner struct{}

// NewProvisioner creates a new storage provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "storage"
}

// Provision implements the provisioning.Phase interface. The bucket create
// is the commit point; versioning, the public access block, tagging, and the
// folder layout are applied afterwards and failures there degrade to
// warnings rather than rolling back the deployment.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config
	name := cfg.BucketName

	provisioning.LogResourceCreating(ctx.Observer, p.Name(), provisioning.KindBucket, name)

	err := retry.WithExponentialBackoff(ctx, func() error {
		return aws.Classify(ctx.Cloud.CreateBucket(ctx, name, cfg.Region))
	}, retry.WithMaxRetries(ctx.Timeouts.RetryMaxAttempts), retry.WithInitialDelay(ctx.Timeouts.RetryInitialDelay))
	if err != nil {
		if aws.IsConflict(err) {
			return fmt.Errorf("bucket name %q is already taken (bucket names are global): %w", name, err)
		}
		return fmt.Errorf("failed to create bucket %s: %w", name, err)
	}

	ctx.Tracker.Register(provisioning.KindBucket, name)
	ctx.State.BucketName = name
	provisioning.LogResourceCreated(ctx.Observer, p.Name(), provisioning.KindBucket, name, name)

	p.harden(ctx, name)
	p.layoutFolders(ctx, name)
	return nil
}

// harden applies versioning, the public access block, and workspace tags.
func (p *Provisioner) harden(ctx *provisioning.Context, name string) {
	cfg := ctx.Config

	if err := ctx.Cloud.EnableBucketVersioning(ctx, name); err != nil {
		ctx.Observer.Printf("[storage] WARNING: could not enable versioning on %s: %v", name, err)
	}
	if err := ctx.Cloud.BlockBucketPublicAccess(ctx, name); err != nil {
		ctx.Observer.Printf("[storage] WARNING: could not block public access on %s: %v", name, err)
	}

	bucketTags := tags.NewBuilder(cfg.ProjectName, cfg.Environment).WithName(name).Build()
	if err := ctx.Cloud.TagBucket(ctx, name, bucketTags); err != nil {
		ctx.Observer.Printf("[storage] WARNING: could not tag %s: %v", name, err)
	}
}

// layoutFolders creates the standard workspace prefixes.
func (p *Provisioner) layoutFolders(ctx *provisioning.Context, name string) {
	for i, key := range FolderMarkers {
		if err := ctx.Cloud.PutFolderMarker(ctx, name, key); err != nil {
			ctx.Observer.Printf("[storage] WARNING: could not create folder %s in %s: %v", key, name, err)
			continue
		}
		ctx.Observer.Progress(p.Name(), i+1, len(FolderMarkers))
	}
}

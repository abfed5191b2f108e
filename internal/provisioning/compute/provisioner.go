// Package compute provisions the notebook instances.
package compute

import (
	"fmt"

	"github.com/imamik/dslab/internal/platform/aws"
	"github.com/imamik/dslab/internal/provisioning"
	"github.com/imamik/dslab/internal/userdata"
	"github.com/imamik/dslab/internal/util/naming"
	"github.com/imamik/dslab/internal/util/retry"
	"github.com/imamik/dslab/internal/util/tags"
)

// Provisioner handles notebook instance provisioning.
type Provisioner struct{}

// NewProvisioner creates a new compute provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "compute"
}

// Provision implements the provisioning.Phase interface. Instances launch
// sequentially; each is tracked the moment its launch call returns an id, so
// a failure mid-fleet rolls back every instance launched so far. Launches
// are never replayed on ambiguous errors.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config

	script, err := userdata.NotebookScript(userdata.Params{
		Bucket: cfg.BucketName,
		Region: cfg.Region,
		Token:  cfg.NotebookToken,
	})
	if err != nil {
		return fmt.Errorf("failed to render notebook boot script: %w", err)
	}

	for i := 0; i < cfg.InstanceCount; i++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled before launching instance %d of %d: %w", i+1, cfg.InstanceCount, err)
		}
		if err := p.launchInstance(ctx, i, script); err != nil {
			return err
		}
		ctx.Observer.Progress(p.Name(), i+1, cfg.InstanceCount)
	}

	return nil
}

func (p *Provisioner) launchInstance(ctx *provisioning.Context, index int, script string) error {
	cfg := ctx.Config
	name := naming.Instance(cfg.ProjectName, cfg.Environment, index)

	provisioning.LogResourceCreating(ctx.Observer, p.Name(), provisioning.KindInstance, name)

	opts := aws.InstanceCreateOpts{
		Name:            name,
		ImageID:         cfg.ImageID,
		InstanceType:    cfg.InstanceType,
		KeyName:         ctx.State.KeyPairName,
		SecurityGroupID: ctx.State.SecurityGroupID,
		UserData:        script,
		Tags:            tags.NewBuilder(cfg.ProjectName, cfg.Environment).WithName(name).Build(),
	}

	var id string
	err := retry.WithExponentialBackoff(ctx, func() error {
		var runErr error
		id, runErr = ctx.Cloud.RunInstance(ctx, opts)
		return aws.Classify(runErr)
	}, retry.WithMaxRetries(ctx.Timeouts.RetryMaxAttempts), retry.WithInitialDelay(ctx.Timeouts.RetryInitialDelay))
	if err != nil {
		return fmt.Errorf("failed to launch instance %s: %w", name, err)
	}

	ctx.Tracker.Register(provisioning.KindInstance, id)

	if err := ctx.Cloud.AwaitInstanceRunning(ctx, id, ctx.Timeouts.InstanceRunning); err != nil {
		return fmt.Errorf("instance %s (%s) did not reach running: %w", name, id, err)
	}

	info, err := ctx.Cloud.DescribeInstance(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to describe instance %s (%s): %w", name, id, err)
	}
	ctx.State.Instances = append(ctx.State.Instances, *info)

	provisioning.LogResourceCreated(ctx.Observer, p.Name(), provisioning.KindInstance, name, id)
	return nil
}

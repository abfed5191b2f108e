// Package network provisions the workspace security group and its ingress
// rules.
package network

import (
	"fmt"

	"github.com/imamik/dslab/internal/platform/aws"
	"github.com/imamik/dslab/internal/provisioning"
	"github.com/imamik/dslab/internal/userdata"
	"github.com/imamik/dslab/internal/util/naming"
	"github.com/imamik/dslab/internal/util/retry"
	"github.com/imamik/dslab/internal/util/tags"
)

// Provisioner handles network provisioning (security group and ingress rules).
type Provisioner struct{}

// NewProvisioner creates a new network provisioner.
func NewProvisioner() *Provisioner {
	return &Provisioner{}
}

// Name implements the provisioning.Phase interface.
func (p *Provisioner) Name() string {
	return "network"
}

// IngressRules returns the fixed ingress surface of a workspace, with every
// rule scoped to the configured CIDR.
func IngressRules(cidr string) []aws.IngressRule {
	return []aws.IngressRule{
		{Protocol: "tcp", Port: 22, CIDR: cidr, Description: "SSH"},
		{Protocol: "tcp", Port: 80, CIDR: cidr, Description: "HTTP"},
		{Protocol: "tcp", Port: 443, CIDR: cidr, Description: "HTTPS"},
		{Protocol: "tcp", Port: userdata.NotebookPort, CIDR: cidr, Description: "Notebook server"},
	}
}

// Provision implements the provisioning.Phase interface. The security group
// is committed to the tracker as soon as the create call returns, before the
// ingress rules are authorized, so a failure between the two still rolls the
// group back.
func (p *Provisioner) Provision(ctx *provisioning.Context) error {
	cfg := ctx.Config
	name := naming.SecurityGroup(cfg.ProjectName, cfg.Environment)
	groupTags := tags.NewBuilder(cfg.ProjectName, cfg.Environment).WithName(name).Build()

	if cfg.UsesDefaultCIDR() {
		ctx.Observer.Printf("[network] security group %s admits 0.0.0.0/0 on all workspace ports", name)
	}

	provisioning.LogResourceCreating(ctx.Observer, p.Name(), provisioning.KindSecurityGroup, name)

	var id string
	err := retry.WithExponentialBackoff(ctx, func() error {
		var createErr error
		id, createErr = ctx.Cloud.CreateSecurityGroup(ctx, name, workspaceDescription(cfg.ProjectName, cfg.Environment), IngressRules(cfg.AllowedCIDR), groupTags)
		if createErr != nil && id != "" {
			// The group exists even though rule authorization failed.
			// Never replay the create; let compensation release the group.
			return retry.Permanent(createErr)
		}
		return aws.Classify(createErr)
	}, retry.WithMaxRetries(ctx.Timeouts.RetryMaxAttempts), retry.WithInitialDelay(ctx.Timeouts.RetryInitialDelay))
	if id != "" {
		ctx.Tracker.Register(provisioning.KindSecurityGroup, id)
		ctx.State.SecurityGroupID = id
	}
	if err != nil {
		return fmt.Errorf("failed to provision security group %s: %w", name, err)
	}

	provisioning.LogResourceCreated(ctx.Observer, p.Name(), provisioning.KindSecurityGroup, name, id)
	return nil
}

func workspaceDescription(project, environment string) string {
	return fmt.Sprintf("Workspace ingress for %s/%s", project, environment)
}

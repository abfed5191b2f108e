package provisioning

import (
	"context"

	"github.com/imamik/dslab/internal/config"
	"github.com/imamik/dslab/internal/platform/aws"
)

// State holds the shared results of provisioning phases.
// It is progressively populated as each phase completes and is passed
// to subsequent phases that need earlier results.
type State struct {
	// Network results (populated by the network provisioner)
	SecurityGroupID string

	// Credential results (populated by the credential provisioner)
	KeyPairName     string
	KeyMaterialPath string // Local path of the written private key, if any
	KeyReused       bool   // True when an existing key pair was adopted

	// Storage results (populated by the storage provisioner)
	BucketName string

	// Compute results (populated by the compute provisioner)
	Instances []aws.InstanceInfo
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{}
}

// Context wraps all dependencies and state needed for a provisioning phase.
type Context struct {
	context.Context
	Config   *config.Config
	State    *State
	Tracker  *Tracker
	Cloud    aws.CloudManager
	Observer Observer
	Timeouts *config.Timeouts
}

// NewContext creates a new provisioning context.
func NewContext(ctx context.Context, cfg *config.Config, cloud aws.CloudManager) *Context {
	return &Context{
		Context:  ctx,
		Config:   cfg,
		State:    NewState(),
		Tracker:  NewTracker(),
		Cloud:    cloud,
		Observer: NewConsoleObserver(),
		Timeouts: config.LoadTimeouts(),
	}
}

// Detached returns a copy of the context whose cancellation is decoupled
// from the parent. Compensation runs on a detached context so that the
// operator interrupt that aborted provisioning does not also abort cleanup.
func (c *Context) Detached() *Context {
	clone := *c
	clone.Context = context.WithoutCancel(c.Context)
	return &clone
}

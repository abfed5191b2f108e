// Package verify re-queries every tracked resource after provisioning and
// fails the deployment when the provider disagrees with the tracker.
package verify

import (
	"fmt"
	"strings"

	"github.com/imamik/dslab/internal/provisioning"
)

// Mismatch is one disagreement between the tracker and the provider.
type Mismatch struct {
	Kind   provisioning.Kind
	ID     string
	Reason string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s %s: %s", m.Kind, m.ID, m.Reason)
}

// MismatchError reports every resource that failed verification.
type MismatchError struct {
	Mismatches []Mismatch
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	parts := make([]string, len(e.Mismatches))
	for i, m := range e.Mismatches {
		parts[i] = m.String()
	}
	return fmt.Sprintf("verification failed for %d resources:\n  %s", len(e.Mismatches), strings.Join(parts, "\n  "))
}

// Phase implements the provisioning.Phase interface for post-provisioning
// verification.
type Phase struct{}

// NewPhase creates a new verification phase.
func NewPhase() *Phase {
	return &Phase{}
}

// Name implements the provisioning.Phase interface.
func (p *Phase) Name() string {
	return "verify"
}

// Provision implements the provisioning.Phase interface. Every tracked
// resource is checked; all mismatches are collected before failing so the
// report is complete.
func (p *Phase) Provision(ctx *provisioning.Context) error {
	records := ctx.Tracker.All()
	ctx.Observer.Printf("[verify] checking %d resources", len(records))

	var mismatches []Mismatch
	for _, record := range records {
		if reason := p.check(ctx, record); reason != "" {
			mismatches = append(mismatches, Mismatch{Kind: record.Kind, ID: record.ID, Reason: reason})
		}
	}

	if len(mismatches) > 0 {
		return &MismatchError{Mismatches: mismatches}
	}

	ctx.Observer.Printf("[verify] all %d resources verified", len(records))
	return nil
}

// check returns an empty string when the resource verifies, else the reason
// it does not.
func (p *Phase) check(ctx *provisioning.Context, record provisioning.ResourceRecord) string {
	switch record.Kind {
	case provisioning.KindSecurityGroup:
		exists, err := ctx.Cloud.SecurityGroupExists(ctx, record.ID)
		if err != nil {
			return fmt.Sprintf("lookup failed: %v", err)
		}
		if !exists {
			return "not found"
		}

	case provisioning.KindKeyPair:
		id, err := ctx.Cloud.GetKeyPairID(ctx, record.ID)
		if err != nil {
			return fmt.Sprintf("lookup failed: %v", err)
		}
		if id == "" {
			return "not found"
		}

	case provisioning.KindBucket:
		exists, err := ctx.Cloud.BucketExists(ctx, record.ID)
		if err != nil {
			return fmt.Sprintf("lookup failed: %v", err)
		}
		if !exists {
			return "not found"
		}

	case provisioning.KindInstance:
		info, err := ctx.Cloud.DescribeInstance(ctx, record.ID)
		if err != nil {
			return fmt.Sprintf("lookup failed: %v", err)
		}
		if info.State != "running" {
			return fmt.Sprintf("state is %q, want running", info.State)
		}

	default:
		return fmt.Sprintf("unknown resource kind %q", record.Kind)
	}
	return ""
}

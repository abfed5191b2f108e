package compensate

import (
	"context"
	"fmt"

	"github.com/imamik/dslab/internal/provisioning"
	"github.com/imamik/dslab/internal/util/tags"
)

// SweepResult describes one sweep cleanup pass.
type SweepResult struct {
	// Found is everything the tag discovery matched, in deletion order.
	Found []provisioning.ResourceRecord
	// Orphans are the matched resources the pass could not release.
	Orphans []provisioning.ResourceRecord
}

// Sweep discovers every resource carrying the workspace tags and tears it
// down. It is the recovery path when no deployment state survives, such as
// after a crashed run or a failed compensation.
func Sweep(ctx *provisioning.Context) (*SweepResult, error) {
	selector := tags.Selector(ctx.Config.ProjectName, ctx.Config.Environment)
	ctx.Observer.Printf("Sweeping resources tagged %s=%s %s=%s",
		tags.KeyProject, ctx.Config.ProjectName, tags.KeyEnvironment, ctx.Config.Environment)

	tracker, err := discover(ctx, selector)
	if err != nil {
		return nil, err
	}

	result := &SweepResult{Found: tracker.All()}
	if tracker.IsEmpty() {
		ctx.Observer.Printf("No tagged resources found, nothing to clean up")
		return result, nil
	}
	ctx.Observer.Printf("Found %d tagged resources", tracker.Len())

	sweepCtx := *ctx
	sweepCtx.Tracker = tracker
	if ctx.Timeouts != nil && ctx.Timeouts.Delete > 0 {
		bounded, cancel := context.WithTimeout(ctx.Context, ctx.Timeouts.Delete)
		defer cancel()
		sweepCtx.Context = bounded
	}

	compErr := NewCompensator().Compensate(&sweepCtx)
	result.Orphans = tracker.All()
	return result, compErr
}

// discover builds a tracker from tag queries. Records are registered in
// creation order so the compensator's reverse-dependency teardown applies
// unchanged.
func discover(ctx *provisioning.Context, selector map[string]string) (*provisioning.Tracker, error) {
	tracker := provisioning.NewTracker()

	groups, err := ctx.Cloud.FindSecurityGroupsByTags(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("failed to discover security groups: %w", err)
	}
	for _, id := range groups {
		tracker.Register(provisioning.KindSecurityGroup, id)
	}

	keys, err := ctx.Cloud.FindKeyPairsByTags(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("failed to discover key pairs: %w", err)
	}
	for _, name := range keys {
		tracker.Register(provisioning.KindKeyPair, name)
	}

	buckets, err := ctx.Cloud.FindBucketsByTags(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("failed to discover buckets: %w", err)
	}
	for _, name := range buckets {
		tracker.Register(provisioning.KindBucket, name)
	}

	instances, err := ctx.Cloud.FindInstancesByTags(ctx, selector)
	if err != nil {
		return nil, fmt.Errorf("failed to discover instances: %w", err)
	}
	for _, id := range instances {
		tracker.Register(provisioning.KindInstance, id)
	}

	return tracker, nil
}

// Package compensate tears down workspace resources, both as rollback after
// a failed deployment and as tag-based sweep cleanup.
package compensate

import (
	"errors"
	"fmt"

	"github.com/imamik/dslab/internal/provisioning"
)

// CompensationError accumulates the individual failures of a cleanup pass.
// Cleanup never stops at the first failure; everything that can be released
// is released and the rest is reported here.
type CompensationError struct {
	Errs []error
}

// Error implements the error interface.
func (e *CompensationError) Error() string {
	return fmt.Sprintf("cleanup finished with %d failures: %v", len(e.Errs), errors.Join(e.Errs...))
}

// Unwrap exposes the individual failures for errors.Is/As.
func (e *CompensationError) Unwrap() []error {
	return e.Errs
}

// Compensator deletes tracked resources in reverse dependency order:
// instances first, then the bucket, the security group, and the key pair.
type Compensator struct{}

// NewCompensator creates a new compensator.
func NewCompensator() *Compensator {
	return &Compensator{}
}

var _ provisioning.Compensator = (*Compensator)(nil)

// Compensate implements the provisioning.Compensator interface. Records are
// removed from the tracker as they are released, so the tracker holds
// exactly the orphans when Compensate returns an error.
func (c *Compensator) Compensate(ctx *provisioning.Context) error {
	var errs []error

	errs = append(errs, c.terminateInstances(ctx)...)
	errs = append(errs, c.deleteBuckets(ctx)...)
	errs = append(errs, c.deleteSecurityGroups(ctx)...)
	errs = append(errs, c.deleteKeyPairs(ctx)...)

	if len(errs) > 0 {
		return &CompensationError{Errs: errs}
	}
	return nil
}

// terminateInstances terminates every tracked instance, then waits once for
// all of them to release their network attachments. The security group
// cannot be deleted while an instance still references it.
func (c *Compensator) terminateInstances(ctx *provisioning.Context) []error {
	var errs []error
	var terminated []string

	for _, id := range ctx.Tracker.ByKind(provisioning.KindInstance) {
		provisioning.LogResourceDeleting(ctx.Observer, "cleanup", provisioning.KindInstance, id)
		if err := ctx.Cloud.TerminateInstance(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("terminate instance %s: %w", id, err))
			provisioning.LogResourceOrphaned(ctx.Observer, provisioning.KindInstance, id, err)
			continue
		}
		terminated = append(terminated, id)
	}

	if len(terminated) > 0 {
		if err := ctx.Cloud.AwaitInstancesTerminated(ctx, terminated, ctx.Timeouts.InstanceTerminated); err != nil {
			errs = append(errs, fmt.Errorf("await instance termination: %w", err))
			return errs
		}
		for _, id := range terminated {
			ctx.Tracker.Remove(provisioning.KindInstance, id)
			provisioning.LogResourceDeleted(ctx.Observer, "cleanup", provisioning.KindInstance, id)
		}
	}
	return errs
}

// deleteBuckets empties and deletes every tracked bucket. A bucket delete
// fails while any object version remains, so emptying always runs first.
func (c *Compensator) deleteBuckets(ctx *provisioning.Context) []error {
	var errs []error
	for _, name := range ctx.Tracker.ByKind(provisioning.KindBucket) {
		provisioning.LogResourceDeleting(ctx.Observer, "cleanup", provisioning.KindBucket, name)

		if err := ctx.Cloud.EmptyBucket(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("empty bucket %s: %w", name, err))
			provisioning.LogResourceOrphaned(ctx.Observer, provisioning.KindBucket, name, err)
			continue
		}
		if err := ctx.Cloud.DeleteBucket(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("delete bucket %s: %w", name, err))
			provisioning.LogResourceOrphaned(ctx.Observer, provisioning.KindBucket, name, err)
			continue
		}

		ctx.Tracker.Remove(provisioning.KindBucket, name)
		provisioning.LogResourceDeleted(ctx.Observer, "cleanup", provisioning.KindBucket, name)
	}
	return errs
}

func (c *Compensator) deleteSecurityGroups(ctx *provisioning.Context) []error {
	var errs []error
	for _, id := range ctx.Tracker.ByKind(provisioning.KindSecurityGroup) {
		provisioning.LogResourceDeleting(ctx.Observer, "cleanup", provisioning.KindSecurityGroup, id)
		if err := ctx.Cloud.DeleteSecurityGroup(ctx, id); err != nil {
			errs = append(errs, fmt.Errorf("delete security group %s: %w", id, err))
			provisioning.LogResourceOrphaned(ctx.Observer, provisioning.KindSecurityGroup, id, err)
			continue
		}
		ctx.Tracker.Remove(provisioning.KindSecurityGroup, id)
		provisioning.LogResourceDeleted(ctx.Observer, "cleanup", provisioning.KindSecurityGroup, id)
	}
	return errs
}

func (c *Compensator) deleteKeyPairs(ctx *provisioning.Context) []error {
	var errs []error
	for _, name := range ctx.Tracker.ByKind(provisioning.KindKeyPair) {
		provisioning.LogResourceDeleting(ctx.Observer, "cleanup", provisioning.KindKeyPair, name)
		if err := ctx.Cloud.DeleteKeyPair(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("delete key pair %s: %w", name, err))
			provisioning.LogResourceOrphaned(ctx.Observer, provisioning.KindKeyPair, name, err)
			continue
		}
		ctx.Tracker.Remove(provisioning.KindKeyPair, name)
		provisioning.LogResourceDeleted(ctx.Observer, "cleanup", provisioning.KindKeyPair, name)
	}
	return errs
}

package compensate

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/dslab/internal/config"
	"github.com/imamik/dslab/internal/platform/aws"
	"github.com/imamik/dslab/internal/provisioning"
)

func newTestContext(t *testing.T, client *aws.MockClient) *provisioning.Context {
	t.Helper()
	cfg := &config.Config{ProjectName: "demo", Environment: "dev", BucketName: "demo-workspace"}
	cfg.ApplyDefaults()
	ctx := provisioning.NewContext(context.Background(), cfg, client)
	log := logrus.New()
	log.SetOutput(io.Discard)
	ctx.Observer = provisioning.NewObserverWithLogger(log)
	return ctx
}

func fullTracker(ctx *provisioning.Context) {
	ctx.Tracker.Register(provisioning.KindSecurityGroup, "sg-1")
	ctx.Tracker.Register(provisioning.KindKeyPair, "demo-dev-key")
	ctx.Tracker.Register(provisioning.KindBucket, "demo-workspace")
	ctx.Tracker.Register(provisioning.KindInstance, "i-1")
	ctx.Tracker.Register(provisioning.KindInstance, "i-2")
}

func TestCompensate_ReleasesEverythingInReverseDependencyOrder(t *testing.T) {
	t.Parallel()
	var calls []string
	client := &aws.MockClient{
		TerminateInstanceFunc: func(_ context.Context, id string) error {
			calls = append(calls, "terminate "+id)
			return nil
		},
		AwaitInstancesTerminatedFunc: func(_ context.Context, ids []string, _ time.Duration) error {
			calls = append(calls, fmt.Sprintf("await %d", len(ids)))
			return nil
		},
		EmptyBucketFunc: func(_ context.Context, name string) error {
			calls = append(calls, "empty "+name)
			return nil
		},
		DeleteBucketFunc: func(_ context.Context, name string) error {
			calls = append(calls, "delete-bucket "+name)
			return nil
		},
		DeleteSecurityGroupFunc: func(_ context.Context, id string) error {
			calls = append(calls, "delete-sg "+id)
			return nil
		},
		DeleteKeyPairFunc: func(_ context.Context, name string) error {
			calls = append(calls, "delete-key "+name)
			return nil
		},
	}
	ctx := newTestContext(t, client)
	fullTracker(ctx)

	require.NoError(t, NewCompensator().Compensate(ctx))

	assert.Equal(t, []string{
		"terminate i-1",
		"terminate i-2",
		"await 2",
		"empty demo-workspace",
		"delete-bucket demo-workspace",
		"delete-sg sg-1",
		"delete-key demo-dev-key",
	}, calls)
	assert.True(t, ctx.Tracker.IsEmpty(), "every released resource leaves the tracker")
}

func TestCompensate_KeepsGoingPastFailures(t *testing.T) {
	t.Parallel()
	var sgDeleted, keyDeleted bool
	client := &aws.MockClient{
		TerminateInstanceFunc: func(_ context.Context, id string) error {
			if id == "i-1" {
				return fmt.Errorf("permission denied")
			}
			return nil
		},
		DeleteSecurityGroupFunc: func(context.Context, string) error { sgDeleted = true; return nil },
		DeleteKeyPairFunc:       func(context.Context, string) error { keyDeleted = true; return nil },
	}
	ctx := newTestContext(t, client)
	fullTracker(ctx)

	err := NewCompensator().Compensate(ctx)
	require.Error(t, err)

	var compErr *CompensationError
	require.ErrorAs(t, err, &compErr)
	require.Len(t, compErr.Errs, 1)
	assert.Contains(t, compErr.Errs[0].Error(), "terminate instance i-1")

	assert.True(t, sgDeleted, "later resources are still released after an instance failure")
	assert.True(t, keyDeleted)
	assert.Equal(t, []string{"i-1"}, ctx.Tracker.ByKind(provisioning.KindInstance),
		"only the orphan stays tracked")
}

func TestCompensate_BucketDeleteSkippedWhenEmptyFails(t *testing.T) {
	t.Parallel()
	deleted := false
	client := &aws.MockClient{
		EmptyBucketFunc:  func(context.Context, string) error { return fmt.Errorf("access denied") },
		DeleteBucketFunc: func(context.Context, string) error { deleted = true; return nil },
	}
	ctx := newTestContext(t, client)
	ctx.Tracker.Register(provisioning.KindBucket, "demo-workspace")

	err := NewCompensator().Compensate(ctx)
	require.Error(t, err)
	assert.False(t, deleted, "a bucket that could not be emptied must not be delete-attempted")
	assert.Equal(t, []string{"demo-workspace"}, ctx.Tracker.ByKind(provisioning.KindBucket))
}

func TestCompensate_AwaitFailureLeavesInstancesTracked(t *testing.T) {
	t.Parallel()
	client := &aws.MockClient{
		AwaitInstancesTerminatedFunc: func(context.Context, []string, time.Duration) error {
			return fmt.Errorf("exceeded wait timeout")
		},
	}
	ctx := newTestContext(t, client)
	ctx.Tracker.Register(provisioning.KindInstance, "i-1")

	err := NewCompensator().Compensate(ctx)
	require.Error(t, err)
	assert.Equal(t, []string{"i-1"}, ctx.Tracker.ByKind(provisioning.KindInstance))
}

func TestCompensate_EmptyTracker(t *testing.T) {
	t.Parallel()
	ctx := newTestContext(t, &aws.MockClient{})
	assert.NoError(t, NewCompensator().Compensate(ctx))
}

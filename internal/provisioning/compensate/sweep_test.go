package compensate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/dslab/internal/platform/aws"
	"github.com/imamik/dslab/internal/provisioning"
)

func TestSweep_DiscoversAndReleasesTaggedResources(t *testing.T) {
	t.Parallel()
	var gotSelector map[string]string
	var terminated, deletedBuckets []string
	client := &aws.MockClient{
		FindInstancesByTagsFunc: func(_ context.Context, selector map[string]string) ([]string, error) {
			gotSelector = selector
			return []string{"i-1", "i-2"}, nil
		},
		FindBucketsByTagsFunc: func(context.Context, map[string]string) ([]string, error) {
			return []string{"stale-workspace"}, nil
		},
		TerminateInstanceFunc: func(_ context.Context, id string) error {
			terminated = append(terminated, id)
			return nil
		},
		DeleteBucketFunc: func(_ context.Context, name string) error {
			deletedBuckets = append(deletedBuckets, name)
			return nil
		},
	}
	ctx := newTestContext(t, client)

	result, err := Sweep(ctx)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"dslab.io/project":     "demo",
		"dslab.io/environment": "dev",
		"dslab.io/managed-by":  "dslab",
	}, gotSelector)

	assert.Len(t, result.Found, 3)
	assert.Empty(t, result.Orphans)
	assert.Equal(t, []string{"i-1", "i-2"}, terminated)
	assert.Equal(t, []string{"stale-workspace"}, deletedBuckets)
}

func TestSweep_NothingFound(t *testing.T) {
	t.Parallel()
	var anyDelete bool
	client := &aws.MockClient{
		TerminateInstanceFunc:   func(context.Context, string) error { anyDelete = true; return nil },
		DeleteBucketFunc:        func(context.Context, string) error { anyDelete = true; return nil },
		DeleteSecurityGroupFunc: func(context.Context, string) error { anyDelete = true; return nil },
		DeleteKeyPairFunc:       func(context.Context, string) error { anyDelete = true; return nil },
	}
	ctx := newTestContext(t, client)

	result, err := Sweep(ctx)
	require.NoError(t, err)
	assert.Empty(t, result.Found)
	assert.False(t, anyDelete)
}

func TestSweep_DiscoveryFailureAborts(t *testing.T) {
	t.Parallel()
	client := &aws.MockClient{
		FindSecurityGroupsByTagsFunc: func(context.Context, map[string]string) ([]string, error) {
			return nil, fmt.Errorf("throttled")
		},
	}
	ctx := newTestContext(t, client)

	_, err := Sweep(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to discover security groups")
}

func TestSweep_ReleaseBoundedByDeleteTimeout(t *testing.T) {
	t.Parallel()
	var hasDeadline bool
	client := &aws.MockClient{
		FindInstancesByTagsFunc: func(context.Context, map[string]string) ([]string, error) {
			return []string{"i-1"}, nil
		},
		TerminateInstanceFunc: func(ctx context.Context, _ string) error {
			_, hasDeadline = ctx.Deadline()
			return nil
		},
	}
	ctx := newTestContext(t, client)
	ctx.Timeouts.Delete = time.Minute

	_, err := Sweep(ctx)
	require.NoError(t, err)
	assert.True(t, hasDeadline, "deletion calls must carry the delete timeout")
}

func TestSweep_ReportsOrphans(t *testing.T) {
	t.Parallel()
	client := &aws.MockClient{
		FindInstancesByTagsFunc: func(context.Context, map[string]string) ([]string, error) {
			return []string{"i-1"}, nil
		},
		TerminateInstanceFunc: func(context.Context, string) error {
			return fmt.Errorf("permission denied")
		},
		AwaitInstancesTerminatedFunc: func(context.Context, []string, time.Duration) error {
			return nil
		},
	}
	ctx := newTestContext(t, client)

	result, err := Sweep(ctx)
	require.Error(t, err)
	require.Len(t, result.Orphans, 1)
	assert.Equal(t, provisioning.KindInstance, result.Orphans[0].Kind)
	assert.Equal(t, "i-1", result.Orphans[0].ID)
}

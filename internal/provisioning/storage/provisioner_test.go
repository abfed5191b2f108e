package storage

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/aws/smithy-go"
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

func TestProvision_CreatesHardensAndLaysOutBucket(t *testing.T) {
	t.Parallel()
	var versioned, blocked bool
	var gotTags map[string]string
	var markers []string
	client := &aws.MockClient{
		CreateBucketFunc: func(_ context.Context, name, region string) error {
			assert.Equal(t, "demo-workspace", name)
			assert.Equal(t, "us-east-1", region)
			return nil
		},
		EnableBucketVersioningFunc: func(context.Context, string) error { versioned = true; return nil },
		BlockBucketPublicAccessFunc: func(context.Context, string) error {
			blocked = true
			return nil
		},
		TagBucketFunc: func(_ context.Context, _ string, tags map[string]string) error {
			gotTags = tags
			return nil
		},
		PutFolderMarkerFunc: func(_ context.Context, _ string, key string) error {
			markers = append(markers, key)
			return nil
		},
	}
	ctx := newTestContext(t, client)

	p := NewProvisioner()
	assert.Equal(t, "storage", p.Name())
	require.NoError(t, p.Provision(ctx))

	assert.Equal(t, "demo-workspace", ctx.State.BucketName)
	assert.Equal(t, []string{"demo-workspace"}, ctx.Tracker.ByKind(provisioning.KindBucket))
	assert.True(t, versioned)
	assert.True(t, blocked)
	assert.Equal(t, "dslab", gotTags["dslab.io/managed-by"])
	assert.Equal(t, []string{"notebooks/", "data/raw/", "data/processed/", "models/", "outputs/"}, markers)
}

func TestProvision_BucketNameTaken(t *testing.T) {
	t.Parallel()
	client := &aws.MockClient{
		CreateBucketFunc: func(context.Context, string, string) error {
			return &smithy.GenericAPIError{Code: "BucketAlreadyExists", Message: "The requested bucket name is not available"}
		},
	}
	ctx := newTestContext(t, client)

	err := NewProvisioner().Provision(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already taken")
	assert.True(t, ctx.Tracker.IsEmpty())
}

func TestProvision_HardeningFailuresAreNonFatal(t *testing.T) {
	t.Parallel()
	client := &aws.MockClient{
		EnableBucketVersioningFunc:  func(context.Context, string) error { return fmt.Errorf("denied") },
		BlockBucketPublicAccessFunc: func(context.Context, string) error { return fmt.Errorf("denied") },
		TagBucketFunc:               func(context.Context, string, map[string]string) error { return fmt.Errorf("denied") },
		PutFolderMarkerFunc:         func(context.Context, string, string) error { return fmt.Errorf("denied") },
	}
	ctx := newTestContext(t, client)

	require.NoError(t, NewProvisioner().Provision(ctx))
	assert.Equal(t, []string{"demo-workspace"}, ctx.Tracker.ByKind(provisioning.KindBucket))
}

package network

import (
	"context"
	"fmt"
	"io"
	"testing"

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

func TestIngressRules(t *testing.T) {
	t.Parallel()
	rules := IngressRules("10.0.0.0/8")

	require.Len(t, rules, 4)
	ports := make([]int32, 0, len(rules))
	for _, r := range rules {
		ports = append(ports, r.Port)
		assert.Equal(t, "tcp", r.Protocol)
		assert.Equal(t, "10.0.0.0/8", r.CIDR)
	}
	assert.Equal(t, []int32{22, 80, 443, 8888}, ports)
}

func TestProvision_CreatesAndTracksSecurityGroup(t *testing.T) {
	t.Parallel()
	var gotName string
	var gotRules []aws.IngressRule
	var gotTags map[string]string
	client := &aws.MockClient{
		CreateSecurityGroupFunc: func(_ context.Context, name, _ string, rules []aws.IngressRule, tags map[string]string) (string, error) {
			gotName, gotRules, gotTags = name, rules, tags
			return "sg-123", nil
		},
	}
	ctx := newTestContext(t, client)

	p := NewProvisioner()
	assert.Equal(t, "network", p.Name())
	require.NoError(t, p.Provision(ctx))

	assert.Equal(t, "demo-dev-sg", gotName)
	assert.Len(t, gotRules, 4)
	assert.Equal(t, "demo", gotTags["dslab.io/project"])
	assert.Equal(t, "demo-dev-sg", gotTags["Name"])

	assert.Equal(t, "sg-123", ctx.State.SecurityGroupID)
	assert.Equal(t, []string{"sg-123"}, ctx.Tracker.ByKind(provisioning.KindSecurityGroup))
}

func TestProvision_TracksGroupWhenRuleAuthorizationFails(t *testing.T) {
	t.Parallel()
	client := &aws.MockClient{
		CreateSecurityGroupFunc: func(context.Context, string, string, []aws.IngressRule, map[string]string) (string, error) {
			return "sg-half", fmt.Errorf("failed to authorize ingress")
		},
	}
	ctx := newTestContext(t, client)

	err := NewProvisioner().Provision(ctx)
	require.Error(t, err)
	assert.Equal(t, []string{"sg-half"}, ctx.Tracker.ByKind(provisioning.KindSecurityGroup),
		"a half-configured group must still be tracked for rollback")
}

func TestProvision_NothingTrackedWhenCreateFails(t *testing.T) {
	t.Parallel()
	client := &aws.MockClient{
		CreateSecurityGroupFunc: func(context.Context, string, string, []aws.IngressRule, map[string]string) (string, error) {
			return "", fmt.Errorf("permission denied")
		},
	}
	ctx := newTestContext(t, client)

	err := NewProvisioner().Provision(ctx)
	require.Error(t, err)
	assert.True(t, ctx.Tracker.IsEmpty())
}

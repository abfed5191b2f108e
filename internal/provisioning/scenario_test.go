package provisioning_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/dslab/internal/config"
	"github.com/imamik/dslab/internal/platform/aws"
	"github.com/imamik/dslab/internal/provisioning"
	"github.com/imamik/dslab/internal/provisioning/compensate"
	"github.com/imamik/dslab/internal/provisioning/compute"
	"github.com/imamik/dslab/internal/provisioning/credential"
	"github.com/imamik/dslab/internal/provisioning/network"
	"github.com/imamik/dslab/internal/provisioning/storage"
)

func scenarioKeyPEM(t *testing.T) []byte {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

// snapshotCompensator records the tracker composition at the moment
// compensation starts, then delegates to the real compensator.
type snapshotCompensator struct {
	inner  provisioning.Compensator
	byKind map[provisioning.Kind]int
}

func (s *snapshotCompensator) Compensate(ctx *provisioning.Context) error {
	s.byKind = map[provisioning.Kind]int{}
	for _, r := range ctx.Tracker.All() {
		s.byKind[r.Kind]++
	}
	return s.inner.Compensate(ctx)
}

// Drives the full pipeline with the real provisioners against the mock
// client and fails the instance launch. Everything committed by the first
// three phases must be released, and nothing belonging to the compute
// phase may ever be touched.
func TestDeploy_InstanceLaunchFailureReleasesEarlierPhases(t *testing.T) {
	material := scenarioKeyPEM(t)

	var terminated, emptied, deletedBuckets, deletedGroups, deletedKeys []string
	client := &aws.MockClient{
		CreateKeyPairFunc: func(context.Context, string, map[string]string) (string, []byte, error) {
			return "key-mock", material, nil
		},
		RunInstanceFunc: func(context.Context, aws.InstanceCreateOpts) (string, error) {
			return "", fmt.Errorf("capacity exhausted in availability zone")
		},
		TerminateInstanceFunc: func(_ context.Context, id string) error {
			terminated = append(terminated, id)
			return nil
		},
		EmptyBucketFunc: func(_ context.Context, name string) error {
			emptied = append(emptied, name)
			return nil
		},
		DeleteBucketFunc: func(_ context.Context, name string) error {
			deletedBuckets = append(deletedBuckets, name)
			return nil
		},
		DeleteSecurityGroupFunc: func(_ context.Context, id string) error {
			deletedGroups = append(deletedGroups, id)
			return nil
		},
		DeleteKeyPairFunc: func(_ context.Context, name string) error {
			deletedKeys = append(deletedKeys, name)
			return nil
		},
	}

	cfg := &config.Config{
		ProjectName: "demo",
		Environment: "dev",
		BucketName:  "demo-workspace",
	}
	cfg.ApplyDefaults()

	log := logrus.New()
	log.SetOutput(io.Discard)
	ctx := provisioning.NewContext(context.Background(), cfg, client)
	ctx.Observer = provisioning.NewObserverWithLogger(log)

	comp := &snapshotCompensator{inner: compensate.NewCompensator()}
	o := &provisioning.Orchestrator{
		Phases: []provisioning.Phase{
			network.NewProvisioner(),
			credential.NewProvisioner(t.TempDir()),
			storage.NewProvisioner(),
			compute.NewProvisioner(),
		},
		Compensator: comp,
	}

	result := o.Deploy(ctx)
	require.False(t, result.Succeeded)
	assert.ErrorContains(t, result.FailureReason, "compute phase failed")

	// The failed launch committed nothing; the three earlier phases each
	// committed exactly one resource.
	assert.Equal(t, map[provisioning.Kind]int{
		provisioning.KindSecurityGroup: 1,
		provisioning.KindKeyPair:       1,
		provisioning.KindBucket:        1,
	}, comp.byKind)

	assert.Empty(t, terminated, "no instance existed to terminate")
	assert.Equal(t, []string{"demo-workspace"}, emptied)
	assert.Equal(t, []string{"demo-workspace"}, deletedBuckets)
	assert.Equal(t, []string{"sg-mock"}, deletedGroups)
	assert.Equal(t, []string{"demo-dev-key"}, deletedKeys)

	assert.NoError(t, result.CompensationErr)
	assert.Empty(t, result.Records, "every released resource leaves the tracker")
}

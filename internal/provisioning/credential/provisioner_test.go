package credential

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"os"
	"path/filepath"
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

func testKeyPEM(t *testing.T) []byte {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
}

func TestProvision_CreatesKeyPairAndWritesMaterial(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	material := testKeyPEM(t)

	var gotName string
	client := &aws.MockClient{
		CreateKeyPairFunc: func(_ context.Context, name string, _ map[string]string) (string, []byte, error) {
			gotName = name
			return "key-0abc", material, nil
		},
	}
	ctx := newTestContext(t, client)

	p := NewProvisioner(dir)
	assert.Equal(t, "credential", p.Name())
	require.NoError(t, p.Provision(ctx))

	assert.Equal(t, "demo-dev-key", gotName)
	assert.Equal(t, "demo-dev-key", ctx.State.KeyPairName)
	assert.False(t, ctx.State.KeyReused)
	assert.Equal(t, []string{"demo-dev-key"}, ctx.Tracker.ByKind(provisioning.KindKeyPair))

	wantPath := filepath.Join(dir, "demo-dev-key.pem")
	assert.Equal(t, wantPath, ctx.State.KeyMaterialPath)

	written, err := os.ReadFile(wantPath)
	require.NoError(t, err)
	assert.Equal(t, material, written)

	info, err := os.Stat(wantPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestProvision_ReusesExistingKeyPair(t *testing.T) {
	t.Parallel()
	created := false
	client := &aws.MockClient{
		GetKeyPairIDFunc: func(_ context.Context, name string) (string, error) {
			assert.Equal(t, "demo-dev-key", name)
			return "key-existing", nil
		},
		CreateKeyPairFunc: func(context.Context, string, map[string]string) (string, []byte, error) {
			created = true
			return "", nil, nil
		},
	}
	ctx := newTestContext(t, client)

	require.NoError(t, NewProvisioner(t.TempDir()).Provision(ctx))

	assert.False(t, created, "an existing key pair must not be recreated")
	assert.Equal(t, "demo-dev-key", ctx.State.KeyPairName)
	assert.True(t, ctx.State.KeyReused)
	assert.Empty(t, ctx.State.KeyMaterialPath)
	assert.True(t, ctx.Tracker.IsEmpty(), "an adopted key pair is not rolled back")
}

func TestProvision_RejectsUnusableKeyMaterial(t *testing.T) {
	t.Parallel()
	client := &aws.MockClient{
		CreateKeyPairFunc: func(context.Context, string, map[string]string) (string, []byte, error) {
			return "key-0abc", []byte("truncated garbage"), nil
		},
	}
	ctx := newTestContext(t, client)

	err := NewProvisioner(t.TempDir()).Provision(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unusable key material")
	assert.Equal(t, []string{"demo-dev-key"}, ctx.Tracker.ByKind(provisioning.KindKeyPair),
		"the created key pair must be tracked so rollback deletes it")
}

func TestProvision_CreateFailureTracksNothing(t *testing.T) {
	t.Parallel()
	client := &aws.MockClient{
		CreateKeyPairFunc: func(context.Context, string, map[string]string) (string, []byte, error) {
			return "", nil, fmt.Errorf("permission denied")
		},
	}
	ctx := newTestContext(t, client)

	require.Error(t, NewProvisioner(t.TempDir()).Provision(ctx))
	assert.True(t, ctx.Tracker.IsEmpty())
}

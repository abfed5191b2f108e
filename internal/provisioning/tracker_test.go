package provisioning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_RegisterPreservesCreationOrder(t *testing.T) {
	t.Parallel()
	tr := NewTracker()
	tr.Register(KindSecurityGroup, "sg-1")
	tr.Register(KindKeyPair, "demo-key")
	tr.Register(KindBucket, "demo-bucket")
	tr.Register(KindInstance, "i-1")
	tr.Register(KindInstance, "i-2")

	records := tr.All()
	require.Len(t, records, 5)
	assert.Equal(t, KindSecurityGroup, records[0].Kind)
	assert.Equal(t, KindInstance, records[4].Kind)
	assert.Equal(t, "i-2", records[4].ID)
	assert.False(t, records[0].CreatedAt.IsZero())
}

func TestTracker_AllReturnsCopy(t *testing.T) {
	t.Parallel()
	tr := NewTracker()
	tr.Register(KindBucket, "b")

	records := tr.All()
	records[0].ID = "mutated"

	assert.Equal(t, "b", tr.All()[0].ID)
}

func TestTracker_ByKind(t *testing.T) {
	t.Parallel()
	tr := NewTracker()
	tr.Register(KindInstance, "i-1")
	tr.Register(KindBucket, "b")
	tr.Register(KindInstance, "i-2")

	assert.Equal(t, []string{"i-1", "i-2"}, tr.ByKind(KindInstance))
	assert.Equal(t, []string{"b"}, tr.ByKind(KindBucket))
	assert.Nil(t, tr.ByKind(KindKeyPair))
}

func TestTracker_Remove(t *testing.T) {
	t.Parallel()
	tr := NewTracker()
	tr.Register(KindInstance, "i-1")
	tr.Register(KindInstance, "i-2")

	tr.Remove(KindInstance, "i-1")
	assert.Equal(t, []string{"i-2"}, tr.ByKind(KindInstance))

	// Removing an unknown record is a no-op.
	tr.Remove(KindBucket, "absent")
	assert.Equal(t, 1, tr.Len())
}

func TestTracker_IsEmpty(t *testing.T) {
	t.Parallel()
	tr := NewTracker()
	assert.True(t, tr.IsEmpty())

	tr.Register(KindSecurityGroup, "sg-1")
	assert.False(t, tr.IsEmpty())

	tr.Remove(KindSecurityGroup, "sg-1")
	assert.True(t, tr.IsEmpty())
}

package provisioning

import (
	"sync"
	"time"
)

// Kind identifies the type of a tracked cloud resource.
type Kind string

const (
	// KindSecurityGroup is the network security group.
	KindSecurityGroup Kind = "security-group"
	// KindKeyPair is the SSH key pair.
	KindKeyPair Kind = "key-pair"
	// KindBucket is the workspace storage bucket.
	KindBucket Kind = "bucket"
	// KindInstance is a notebook compute instance.
	KindInstance Kind = "instance"
)

// ResourceRecord is one successfully committed cloud resource.
type ResourceRecord struct {
	Kind      Kind
	ID        string
	CreatedAt time.Time
}

// Tracker records resources in creation order as phases commit them.
// A resource is registered only after the create call has succeeded, so
// the tracker never holds a record for a resource that does not exist.
type Tracker struct {
	mu      sync.Mutex
	records []ResourceRecord
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Register appends a record for a committed resource.
func (t *Tracker) Register(kind Kind, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records = append(t.records, ResourceRecord{
		Kind:      kind,
		ID:        id,
		CreatedAt: time.Now(),
	})
}

// All returns a copy of the records in creation order.
func (t *Tracker) All() []ResourceRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]ResourceRecord, len(t.records))
	copy(out, t.records)
	return out
}

// ByKind returns the ids of tracked resources of the given kind,
// in creation order.
func (t *Tracker) ByKind(kind Kind) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var ids []string
	for _, r := range t.records {
		if r.Kind == kind {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// IsEmpty reports whether no resources are tracked.
func (t *Tracker) IsEmpty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records) == 0
}

// Len returns the number of tracked resources.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}

// Remove drops the record with the given kind and id, if present.
// Used by compensation to mark a resource as released.
func (t *Tracker) Remove(kind Kind, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, r := range t.records {
		if r.Kind == kind && r.ID == id {
			t.records = append(t.records[:i], t.records[i+1:]...)
			return
		}
	}
}

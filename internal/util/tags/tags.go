// Package tags provides consistent tagging utilities for AWS resources.
//
// Every resource dslab creates carries the same tag set so that resources
// belonging to one workspace can be identified, grouped, and swept without
// any local state. Standard tag keys use the dslab.io prefix for namespacing.
package tags

// Standard tag keys for dslab-managed AWS resources.
const (
	// KeyProject identifies which project a resource belongs to.
	KeyProject = "dslab.io/project"

	// KeyEnvironment identifies the deployment environment (dev, staging, ...).
	KeyEnvironment = "dslab.io/environment"

	// KeyManagedBy identifies the management system.
	KeyManagedBy = "dslab.io/managed-by"

	// KeyName is the conventional AWS display-name tag.
	KeyName = "Name"
)

// ManagedByDslab is the value set for KeyManagedBy on every created resource.
const ManagedByDslab = "dslab"

// Builder provides a fluent interface for building AWS resource tag sets.
type Builder struct {
	tags map[string]string
}

// NewBuilder creates a tag builder with project, environment, and managed-by
// tags pre-set.
func NewBuilder(project, environment string) *Builder {
	return &Builder{
		tags: map[string]string{
			KeyProject:     project,
			KeyEnvironment: environment,
			KeyManagedBy:   ManagedByDslab,
		},
	}
}

// WithName adds the AWS Name tag.
func (b *Builder) WithName(name string) *Builder {
	b.tags[KeyName] = name
	return b
}

// With adds an arbitrary tag.
func (b *Builder) With(key, value string) *Builder {
	b.tags[key] = value
	return b
}

// Build returns the accumulated tag set as a map.
func (b *Builder) Build() map[string]string {
	out := make(map[string]string, len(b.tags))
	for k, v := range b.tags {
		out[k] = v
	}
	return out
}

// Selector returns the tag subset used for sweep discovery: project and
// environment plus the managed-by marker. The Name tag is deliberately
// excluded because it differs per resource.
func Selector(project, environment string) map[string]string {
	return map[string]string{
		KeyProject:     project,
		KeyEnvironment: environment,
		KeyManagedBy:   ManagedByDslab,
	}
}

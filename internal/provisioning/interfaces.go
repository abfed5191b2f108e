package provisioning

// Phase defines the interface for a provisioning phase.
type Phase interface {
	// Name returns the human-readable name of this phase.
	Name() string

	// Provision executes the provisioning logic for this phase.
	Provision(ctx *Context) error
}

// Compensator tears down the resources recorded by a Tracker, newest first.
// Implemented by internal/provisioning/compensate.Compensator.
type Compensator interface {
	// Compensate deletes every tracked resource in reverse creation order.
	// It keeps going on individual failures and returns the accumulated
	// errors, alongside the records it could not release.
	Compensate(ctx *Context) error
}

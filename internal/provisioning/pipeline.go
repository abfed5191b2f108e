package provisioning

import (
	"context"
	"fmt"
	"time"
)

// RunPhases executes all provisioning phases sequentially. It stops at the
// first failure and checks for operator cancellation between phases, so a
// cancelled run never starts a new phase.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Observer.Printf("Starting provisioning with %d phases...", len(phases))

	for i, phase := range phases {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("provisioning cancelled before %s phase: %w", phase.Name(), err)
		}

		phaseStart := time.Now()
		name := fmt.Sprintf("%s (%d/%d)", phase.Name(), i+1, len(phases))
		LogPhaseStart(ctx.Observer, name)

		if err := phase.Provision(ctx); err != nil {
			LogPhaseFailed(ctx.Observer, name, err)
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		LogPhaseComplete(ctx.Observer, name, time.Since(phaseStart))
	}

	ctx.Observer.Printf("Provisioning completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}

// Orchestrator drives one deployment run end to end: validation, the
// provisioning phases in dependency order, and on any failure the
// compensation of everything committed so far.
type Orchestrator struct {
	Phases      []Phase
	Compensator Compensator
}

// Deploy runs the pipeline. It never returns a partially deployed workspace:
// either every phase succeeded, or compensation has been attempted for all
// tracked resources and the result reports what, if anything, is orphaned.
func (o *Orchestrator) Deploy(ctx *Context) *DeploymentResult {
	start := time.Now()

	phases := append([]Phase{NewValidationPhase()}, o.Phases...)
	if err := RunPhases(ctx, phases); err != nil {
		return o.compensate(ctx, err, start)
	}

	return &DeploymentResult{
		Succeeded:       true,
		Records:         ctx.Tracker.All(),
		Instances:       ctx.State.Instances,
		BucketName:      ctx.State.BucketName,
		KeyMaterialPath: ctx.State.KeyMaterialPath,
		Duration:        time.Since(start),
	}
}

// compensate tears down whatever the failed run committed. It runs on a
// detached context so that the cancellation that aborted provisioning does
// not also abort cleanup, bounded by the delete timeout so a wedged provider
// cannot hang the rollback forever.
func (o *Orchestrator) compensate(ctx *Context, cause error, start time.Time) *DeploymentResult {
	result := &DeploymentResult{
		Succeeded:     false,
		FailureReason: cause,
		Duration:      time.Since(start),
	}

	if ctx.Tracker.IsEmpty() {
		ctx.Observer.Printf("Nothing to roll back, no resources were created")
		return result
	}
	if o.Compensator == nil {
		result.Records = ctx.Tracker.All()
		return result
	}

	ctx.Observer.Printf("Rolling back %d resources...", ctx.Tracker.Len())
	dctx := ctx.Detached()
	if ctx.Timeouts != nil && ctx.Timeouts.Delete > 0 {
		bounded, cancel := context.WithTimeout(dctx.Context, ctx.Timeouts.Delete)
		defer cancel()
		dctx.Context = bounded
	}
	if err := o.Compensator.Compensate(dctx); err != nil {
		result.CompensationErr = err
	}

	result.Records = ctx.Tracker.All()
	result.Duration = time.Since(start)
	return result
}

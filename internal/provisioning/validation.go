package provisioning

import "fmt"

// ValidationError represents a configuration validation error or warning.
type ValidationError struct {
	Field    string // Configuration field that failed validation
	Message  string // Human-readable error message
	Severity string // "error" or "warning"
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ve.Severity, ve.Field, ve.Message)
}

// IsError returns true if this is an error (not a warning).
func (ve ValidationError) IsError() bool {
	return ve.Severity == "error"
}

// ValidationPhase implements the Phase interface for pre-flight validation.
// It rejects invalid deployment specs before any resource call is made and
// surfaces warnings for permissive defaults that remain in effect.
type ValidationPhase struct{}

// NewValidationPhase creates a new validation phase.
func NewValidationPhase() *ValidationPhase {
	return &ValidationPhase{}
}

// Name implements the Phase interface.
func (vp *ValidationPhase) Name() string {
	return "validation"
}

// Provision implements the Phase interface.
func (vp *ValidationPhase) Provision(ctx *Context) error {
	ctx.Observer.Printf("[validation] running pre-flight validation")

	for _, w := range Warnings(ctx) {
		LogValidationWarning(ctx.Observer, w.Field, w.Message)
	}

	if err := ctx.Config.Validate(); err != nil {
		return err
	}

	ctx.Observer.Printf("[validation] validation passed")
	return nil
}

// Warnings returns advisory findings that do not block deployment.
func Warnings(ctx *Context) []ValidationError {
	var warnings []ValidationError
	cfg := ctx.Config

	if cfg.UsesDefaultCIDR() {
		warnings = append(warnings, ValidationError{
			Field:    "allowedCidr",
			Message:  "workspace ports are open to 0.0.0.0/0; narrow allowedCidr for anything reachable from untrusted networks",
			Severity: "warning",
		})
	}
	if cfg.UsesDefaultToken() {
		warnings = append(warnings, ValidationError{
			Field:    "notebookToken",
			Message:  "the default notebook token is in effect; set notebookToken to a secret value",
			Severity: "warning",
		})
	}

	return warnings
}

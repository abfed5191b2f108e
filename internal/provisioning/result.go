package provisioning

import (
	"time"

	"github.com/imamik/dslab/internal/platform/aws"
)

// DeploymentResult is the final outcome of one deployment run.
type DeploymentResult struct {
	// Succeeded is true only when every phase and the verification pass
	// completed.
	Succeeded bool

	// FailureReason carries the first phase error when Succeeded is false.
	FailureReason error

	// Records are the resources that exist when the run finished. On
	// success this is the full set; after a failed run whose compensation
	// completed it is empty; after a failed compensation it lists the
	// orphans needing a sweep.
	Records []ResourceRecord

	// CompensationErr accumulates cleanup failures from a failed run.
	CompensationErr error

	// Instances describes the launched notebook instances on success.
	Instances []aws.InstanceInfo

	// BucketName is the workspace bucket on success.
	BucketName string

	// KeyMaterialPath is the local private key file, if one was written.
	KeyMaterialPath string

	// Duration is the wall-clock time of the run.
	Duration time.Duration
}

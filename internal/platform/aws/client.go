package aws

import (
	"context"
	"time"
)

// IngressRule describes one security group ingress rule.
type IngressRule struct {
	Protocol    string
	Port        int32
	CIDR        string
	Description string
}

// InstanceCreateOpts holds all parameters for launching one EC2 instance.
type InstanceCreateOpts struct {
	Name            string
	ImageID         string
	InstanceType    string
	KeyName         string
	SecurityGroupID string
	UserData        string // plain text; the client base64-encodes it
	Tags            map[string]string
}

// InstanceInfo is the describe-time view of an instance.
type InstanceInfo struct {
	ID        string
	Name      string
	PublicIP  string
	PrivateIP string
	State     string
}

// NetworkRuleManager manages security groups.
type NetworkRuleManager interface {
	// CreateSecurityGroup creates a security group with the given ingress
	// rules and returns its provider-assigned id. When the group was created
	// but rule authorization failed, the id is returned alongside the error.
	CreateSecurityGroup(ctx context.Context, name, description string, rules []IngressRule, tags map[string]string) (string, error)

	// SecurityGroupExists reports whether the group with the given id is live.
	SecurityGroupExists(ctx context.Context, id string) (bool, error)

	// DeleteSecurityGroup deletes the group; an already-deleted group is
	// treated as success.
	DeleteSecurityGroup(ctx context.Context, id string) error
}

// CredentialManager manages EC2 key pairs. Key pairs are addressed by name
// because the name is the handle instances launch with and deletes target.
type CredentialManager interface {
	// CreateKeyPair creates a key pair and returns its id and the private key
	// material. The material is only available from this one call.
	CreateKeyPair(ctx context.Context, name string, tags map[string]string) (string, []byte, error)

	// GetKeyPairID returns the id of an existing key pair, or "" when no key
	// pair with that name exists.
	GetKeyPairID(ctx context.Context, name string) (string, error)

	// DeleteKeyPair deletes the key pair; already gone is success.
	DeleteKeyPair(ctx context.Context, name string) error
}

// StorageManager manages S3 buckets. Post-creation configuration calls are
// separate so callers can treat them as best-effort.
type StorageManager interface {
	CreateBucket(ctx context.Context, name, region string) error
	EnableBucketVersioning(ctx context.Context, name string) error
	BlockBucketPublicAccess(ctx context.Context, name string) error
	TagBucket(ctx context.Context, name string, tags map[string]string) error

	// PutFolderMarker creates a zero-byte placeholder object.
	PutFolderMarker(ctx context.Context, bucket, key string) error

	BucketExists(ctx context.Context, name string) (bool, error)

	// EmptyBucket deletes every object version and delete marker.
	EmptyBucket(ctx context.Context, name string) error

	// DeleteBucket deletes the bucket; already gone is success. The bucket
	// must be emptied first.
	DeleteBucket(ctx context.Context, name string) error
}

// ComputeManager manages EC2 instances.
type ComputeManager interface {
	// RunInstance launches exactly one instance and returns its id.
	RunInstance(ctx context.Context, opts InstanceCreateOpts) (string, error)

	// AwaitInstanceRunning blocks until the instance reaches the running
	// state or the timeout elapses.
	AwaitInstanceRunning(ctx context.Context, id string, timeout time.Duration) error

	DescribeInstance(ctx context.Context, id string) (*InstanceInfo, error)

	// TerminateInstance requests termination; already gone is success.
	TerminateInstance(ctx context.Context, id string) error

	// AwaitInstancesTerminated blocks until all given instances have
	// terminated or the timeout elapses.
	AwaitInstancesTerminated(ctx context.Context, ids []string, timeout time.Duration) error
}

// SweepManager discovers dslab-managed resources by tag, independent of any
// in-memory tracking. Terminated instances are excluded.
type SweepManager interface {
	FindInstancesByTags(ctx context.Context, selector map[string]string) ([]string, error)
	FindSecurityGroupsByTags(ctx context.Context, selector map[string]string) ([]string, error)
	FindKeyPairsByTags(ctx context.Context, selector map[string]string) ([]string, error)
	FindBucketsByTags(ctx context.Context, selector map[string]string) ([]string, error)
}

// CloudManager combines all resource management interfaces.
type CloudManager interface {
	NetworkRuleManager
	CredentialManager
	StorageManager
	ComputeManager
	SweepManager

	// ValidateCredentials verifies the configured AWS credentials before any
	// resource operation runs.
	ValidateCredentials(ctx context.Context) error
}

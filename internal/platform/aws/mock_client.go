package aws

import (
	"context"
	"time"
)

// MockClient is a mock implementation of CloudManager. Each method delegates
// to its Func field when set and otherwise returns a benign default, so tests
// only wire the calls they care about.
type MockClient struct {
	// Security groups
	CreateSecurityGroupFunc      func(ctx context.Context, name, description string, rules []IngressRule, tags map[string]string) (string, error)
	SecurityGroupExistsFunc      func(ctx context.Context, id string) (bool, error)
	DeleteSecurityGroupFunc      func(ctx context.Context, id string) error
	FindSecurityGroupsByTagsFunc func(ctx context.Context, selector map[string]string) ([]string, error)

	// Key pairs
	CreateKeyPairFunc      func(ctx context.Context, name string, tags map[string]string) (string, []byte, error)
	GetKeyPairIDFunc       func(ctx context.Context, name string) (string, error)
	DeleteKeyPairFunc      func(ctx context.Context, name string) error
	FindKeyPairsByTagsFunc func(ctx context.Context, selector map[string]string) ([]string, error)

	// Buckets
	CreateBucketFunc            func(ctx context.Context, name, region string) error
	EnableBucketVersioningFunc  func(ctx context.Context, name string) error
	BlockBucketPublicAccessFunc func(ctx context.Context, name string) error
	TagBucketFunc               func(ctx context.Context, name string, tags map[string]string) error
	PutFolderMarkerFunc         func(ctx context.Context, bucket, key string) error
	BucketExistsFunc            func(ctx context.Context, name string) (bool, error)
	EmptyBucketFunc             func(ctx context.Context, name string) error
	DeleteBucketFunc            func(ctx context.Context, name string) error
	FindBucketsByTagsFunc       func(ctx context.Context, selector map[string]string) ([]string, error)

	// Instances
	RunInstanceFunc              func(ctx context.Context, opts InstanceCreateOpts) (string, error)
	AwaitInstanceRunningFunc     func(ctx context.Context, id string, timeout time.Duration) error
	DescribeInstanceFunc         func(ctx context.Context, id string) (*InstanceInfo, error)
	TerminateInstanceFunc        func(ctx context.Context, id string) error
	AwaitInstancesTerminatedFunc func(ctx context.Context, ids []string, timeout time.Duration) error
	FindInstancesByTagsFunc      func(ctx context.Context, selector map[string]string) ([]string, error)

	// Credentials preflight
	ValidateCredentialsFunc func(ctx context.Context) error
}

// Ensure interface compliance.
var _ CloudManager = (*MockClient)(nil)

func (m *MockClient) CreateSecurityGroup(ctx context.Context, name, description string, rules []IngressRule, tags map[string]string) (string, error) {
	if m.CreateSecurityGroupFunc != nil {
		return m.CreateSecurityGroupFunc(ctx, name, description, rules, tags)
	}
	return "sg-mock", nil
}

func (m *MockClient) SecurityGroupExists(ctx context.Context, id string) (bool, error) {
	if m.SecurityGroupExistsFunc != nil {
		return m.SecurityGroupExistsFunc(ctx, id)
	}
	return true, nil
}

func (m *MockClient) DeleteSecurityGroup(ctx context.Context, id string) error {
	if m.DeleteSecurityGroupFunc != nil {
		return m.DeleteSecurityGroupFunc(ctx, id)
	}
	return nil
}

func (m *MockClient) FindSecurityGroupsByTags(ctx context.Context, selector map[string]string) ([]string, error) {
	if m.FindSecurityGroupsByTagsFunc != nil {
		return m.FindSecurityGroupsByTagsFunc(ctx, selector)
	}
	return nil, nil
}

func (m *MockClient) CreateKeyPair(ctx context.Context, name string, tags map[string]string) (string, []byte, error) {
	if m.CreateKeyPairFunc != nil {
		return m.CreateKeyPairFunc(ctx, name, tags)
	}
	return "key-mock", []byte("mock-material"), nil
}

func (m *MockClient) GetKeyPairID(ctx context.Context, name string) (string, error) {
	if m.GetKeyPairIDFunc != nil {
		return m.GetKeyPairIDFunc(ctx, name)
	}
	return "", nil
}

func (m *MockClient) DeleteKeyPair(ctx context.Context, name string) error {
	if m.DeleteKeyPairFunc != nil {
		return m.DeleteKeyPairFunc(ctx, name)
	}
	return nil
}

func (m *MockClient) FindKeyPairsByTags(ctx context.Context, selector map[string]string) ([]string, error) {
	if m.FindKeyPairsByTagsFunc != nil {
		return m.FindKeyPairsByTagsFunc(ctx, selector)
	}
	return nil, nil
}

func (m *MockClient) CreateBucket(ctx context.Context, name, region string) error {
	if m.CreateBucketFunc != nil {
		return m.CreateBucketFunc(ctx, name, region)
	}
	return nil
}

func (m *MockClient) EnableBucketVersioning(ctx context.Context, name string) error {
	if m.EnableBucketVersioningFunc != nil {
		return m.EnableBucketVersioningFunc(ctx, name)
	}
	return nil
}

func (m *MockClient) BlockBucketPublicAccess(ctx context.Context, name string) error {
	if m.BlockBucketPublicAccessFunc != nil {
		return m.BlockBucketPublicAccessFunc(ctx, name)
	}
	return nil
}

func (m *MockClient) TagBucket(ctx context.Context, name string, tags map[string]string) error {
	if m.TagBucketFunc != nil {
		return m.TagBucketFunc(ctx, name, tags)
	}
	return nil
}

func (m *MockClient) PutFolderMarker(ctx context.Context, bucket, key string) error {
	if m.PutFolderMarkerFunc != nil {
		return m.PutFolderMarkerFunc(ctx, bucket, key)
	}
	return nil
}

func (m *MockClient) BucketExists(ctx context.Context, name string) (bool, error) {
	if m.BucketExistsFunc != nil {
		return m.BucketExistsFunc(ctx, name)
	}
	return true, nil
}

func (m *MockClient) EmptyBucket(ctx context.Context, name string) error {
	if m.EmptyBucketFunc != nil {
		return m.EmptyBucketFunc(ctx, name)
	}
	return nil
}

func (m *MockClient) DeleteBucket(ctx context.Context, name string) error {
	if m.DeleteBucketFunc != nil {
		return m.DeleteBucketFunc(ctx, name)
	}
	return nil
}

func (m *MockClient) FindBucketsByTags(ctx context.Context, selector map[string]string) ([]string, error) {
	if m.FindBucketsByTagsFunc != nil {
		return m.FindBucketsByTagsFunc(ctx, selector)
	}
	return nil, nil
}

func (m *MockClient) RunInstance(ctx context.Context, opts InstanceCreateOpts) (string, error) {
	if m.RunInstanceFunc != nil {
		return m.RunInstanceFunc(ctx, opts)
	}
	return "i-mock", nil
}

func (m *MockClient) AwaitInstanceRunning(ctx context.Context, id string, timeout time.Duration) error {
	if m.AwaitInstanceRunningFunc != nil {
		return m.AwaitInstanceRunningFunc(ctx, id, timeout)
	}
	return nil
}

func (m *MockClient) DescribeInstance(ctx context.Context, id string) (*InstanceInfo, error) {
	if m.DescribeInstanceFunc != nil {
		return m.DescribeInstanceFunc(ctx, id)
	}
	return &InstanceInfo{ID: id, State: "running"}, nil
}

func (m *MockClient) TerminateInstance(ctx context.Context, id string) error {
	if m.TerminateInstanceFunc != nil {
		return m.TerminateInstanceFunc(ctx, id)
	}
	return nil
}

func (m *MockClient) AwaitInstancesTerminated(ctx context.Context, ids []string, timeout time.Duration) error {
	if m.AwaitInstancesTerminatedFunc != nil {
		return m.AwaitInstancesTerminatedFunc(ctx, ids, timeout)
	}
	return nil
}

func (m *MockClient) FindInstancesByTags(ctx context.Context, selector map[string]string) ([]string, error) {
	if m.FindInstancesByTagsFunc != nil {
		return m.FindInstancesByTagsFunc(ctx, selector)
	}
	return nil, nil
}

func (m *MockClient) ValidateCredentials(ctx context.Context) error {
	if m.ValidateCredentialsFunc != nil {
		return m.ValidateCredentialsFunc(ctx)
	}
	return nil
}

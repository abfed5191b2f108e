package config

import (
	"fmt"
	"net"
	"regexp"
	"strings"
)

// Defaults applied when a field is not set by config file or flag.
const (
	DefaultProjectName   = "dslab"
	DefaultEnvironment   = "dev"
	DefaultRegion        = "us-east-1"
	DefaultInstanceType  = "t3.medium"
	DefaultInstanceCount = 1

	// DefaultImageID is Amazon Linux 2 in us-east-1, matching the image the
	// notebook boot script is written against.
	DefaultImageID = "ami-0c02fb55956c7d316"

	// DefaultAllowedCIDR opens the workspace ports to the world. This is a
	// deliberate compatibility default; deployments reachable from untrusted
	// networks must narrow it via allowedCidr.
	DefaultAllowedCIDR = "0.0.0.0/0"

	// DefaultNotebookToken is the well-known access token baked into the
	// notebook boot script when no token is configured.
	DefaultNotebookToken = "dslab-dev-token"
)

// Config is the deployment specification for one workspace run. It is
// validated once before any resource is created and never mutated afterwards.
type Config struct {
	ProjectName   string `yaml:"projectName"`
	Environment   string `yaml:"environment"`
	Region        string `yaml:"region"`
	InstanceType  string `yaml:"instanceType"`
	InstanceCount int    `yaml:"instanceCount"`
	BucketName    string `yaml:"bucketName"`
	ImageID       string `yaml:"imageId"`
	AllowedCIDR   string `yaml:"allowedCidr"`
	NotebookToken string `yaml:"notebookToken"`
	Profile       string `yaml:"profile"`
}

// ApplyDefaults fills unset fields with their default values.
func (c *Config) ApplyDefaults() {
	if c.ProjectName == "" {
		c.ProjectName = DefaultProjectName
	}
	if c.Environment == "" {
		c.Environment = DefaultEnvironment
	}
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.InstanceType == "" {
		c.InstanceType = DefaultInstanceType
	}
	if c.InstanceCount == 0 {
		c.InstanceCount = DefaultInstanceCount
	}
	if c.ImageID == "" {
		c.ImageID = DefaultImageID
	}
	if c.AllowedCIDR == "" {
		c.AllowedCIDR = DefaultAllowedCIDR
	}
	if c.NotebookToken == "" {
		c.NotebookToken = DefaultNotebookToken
	}
}

// Overrides carries per-field command line values merged over a loaded
// configuration. Zero fields leave the file's value in place.
type Overrides struct {
	ProjectName   string
	Environment   string
	Region        string
	InstanceType  string
	InstanceCount int
	BucketName    string
}

// Apply merges the set overrides into cfg. Flag values win over the file.
func (o Overrides) Apply(cfg *Config) {
	if o.ProjectName != "" {
		cfg.ProjectName = o.ProjectName
	}
	if o.Environment != "" {
		cfg.Environment = o.Environment
	}
	if o.Region != "" {
		cfg.Region = o.Region
	}
	if o.InstanceType != "" {
		cfg.InstanceType = o.InstanceType
	}
	if o.InstanceCount != 0 {
		cfg.InstanceCount = o.InstanceCount
	}
	if o.BucketName != "" {
		cfg.BucketName = o.BucketName
	}
}

// UsesDefaultCIDR reports whether the broad 0.0.0.0/0 ingress default is in
// effect. Callers warn loudly when it is.
func (c *Config) UsesDefaultCIDR() bool {
	return c.AllowedCIDR == DefaultAllowedCIDR
}

// UsesDefaultToken reports whether the well-known notebook token is in effect.
func (c *Config) UsesDefaultToken() bool {
	return c.NotebookToken == DefaultNotebookToken
}

var (
	// S3 bucket naming rules: 3-63 chars, lowercase alphanumeric and hyphens,
	// no leading or trailing hyphen.
	bucketNameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,61}[a-z0-9]$`)

	// EC2 instance type shape: <family><generation><attributes>.<size>,
	// e.g. t3.medium, m5.large, c6g.4xlarge.
	instanceTypeRe = regexp.MustCompile(`^[a-z]+[0-9]+[a-z]*\.[a-z0-9]+$`)

	// Project and environment names feed resource names and tags.
	identifierRe = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)
)

// ValidBucketName reports whether name satisfies the provider bucket naming
// rules.
func ValidBucketName(name string) bool {
	return bucketNameRe.MatchString(name)
}

// ValidInstanceType reports whether t has the <family><generation>.<size>
// shape.
func ValidInstanceType(t string) bool {
	return instanceTypeRe.MatchString(t)
}

// identityProblems checks the fields that name the workspace and locate it
// in the provider. These are the fields tag discovery depends on.
func (c *Config) identityProblems() []string {
	var problems []string

	if c.Region == "" {
		problems = append(problems, "region is required")
	}
	if !identifierRe.MatchString(c.ProjectName) {
		problems = append(problems, fmt.Sprintf("projectName %q is invalid: lowercase alphanumeric and hyphens, starting with a letter", c.ProjectName))
	}
	if !identifierRe.MatchString(c.Environment) {
		problems = append(problems, fmt.Sprintf("environment %q is invalid: lowercase alphanumeric and hyphens, starting with a letter", c.Environment))
	}
	return problems
}

// Validate checks every deployment invariant. It returns an error describing
// all violations; a nil return means the configuration is safe to deploy.
func (c *Config) Validate() error {
	problems := c.identityProblems()

	if c.BucketName == "" {
		problems = append(problems, "bucketName is required")
	} else if !ValidBucketName(c.BucketName) {
		problems = append(problems, fmt.Sprintf("bucketName %q is invalid: must be 3-63 lowercase alphanumeric/hyphen characters, not starting or ending with a hyphen", c.BucketName))
	}

	if c.InstanceCount < 1 {
		problems = append(problems, fmt.Sprintf("instanceCount must be at least 1, got %d", c.InstanceCount))
	}

	if !ValidInstanceType(c.InstanceType) {
		problems = append(problems, fmt.Sprintf("instanceType %q is invalid: expected <family><generation>.<size>, e.g. t3.medium", c.InstanceType))
	}

	if _, _, err := net.ParseCIDR(c.AllowedCIDR); err != nil {
		problems = append(problems, fmt.Sprintf("allowedCidr %q is not a valid CIDR: %v", c.AllowedCIDR, err))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid deployment spec:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

// ValidateIdentity checks only the workspace identity fields. Cleanup sweeps
// by tags, so it needs a valid identity but not a full deployment spec.
func (c *Config) ValidateIdentity() error {
	if problems := c.identityProblems(); len(problems) > 0 {
		return fmt.Errorf("invalid workspace identity:\n  %s", strings.Join(problems, "\n  "))
	}
	return nil
}

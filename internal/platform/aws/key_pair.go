package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// CreateKeyPair creates a key pair and returns its id plus the PEM-encoded
// private key material. The material cannot be retrieved again.
func (c *RealClient) CreateKeyPair(ctx context.Context, name string, tags map[string]string) (string, []byte, error) {
	out, err := c.ec2.CreateKeyPair(ctx, &ec2.CreateKeyPairInput{
		KeyName:           aws.String(name),
		TagSpecifications: ec2TagSpec(ec2types.ResourceTypeKeyPair, tags),
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to create key pair %s: %w", name, err)
	}
	return aws.ToString(out.KeyPairId), []byte(aws.ToString(out.KeyMaterial)), nil
}

// GetKeyPairID returns the id of an existing key pair, or "" when no key
// pair with that name exists.
func (c *RealClient) GetKeyPairID(ctx context.Context, name string) (string, error) {
	out, err := c.ec2.DescribeKeyPairs(ctx, &ec2.DescribeKeyPairsInput{
		KeyNames: []string{name},
	})
	if err != nil {
		if IsNotFound(err) {
			return "", nil
		}
		return "", fmt.Errorf("failed to describe key pair %s: %w", name, err)
	}
	if len(out.KeyPairs) == 0 {
		return "", nil
	}
	return aws.ToString(out.KeyPairs[0].KeyPairId), nil
}

// DeleteKeyPair deletes the key pair. Already gone is success.
func (c *RealClient) DeleteKeyPair(ctx context.Context, name string) error {
	_, err := c.ec2.DeleteKeyPair(ctx, &ec2.DeleteKeyPairInput{
		KeyName: aws.String(name),
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete key pair %s: %w", name, err)
	}
	return nil
}

// FindKeyPairsByTags returns the names of key pairs matching the tag
// selector. Names, not ids, because deletion is by name.
func (c *RealClient) FindKeyPairsByTags(ctx context.Context, selector map[string]string) ([]string, error) {
	out, err := c.ec2.DescribeKeyPairs(ctx, &ec2.DescribeKeyPairsInput{
		Filters: tagFilters(selector),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find key pairs by tags: %w", err)
	}
	var names []string
	for _, kp := range out.KeyPairs {
		names = append(names, aws.ToString(kp.KeyName))
	}
	return names, nil
}

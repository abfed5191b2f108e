package aws

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// Instance states excluded from sweep discovery: resources on their way out
// need no further terminate call.
var sweepInstanceStates = []string{"pending", "running", "stopping", "stopped"}

// RunInstance launches exactly one instance and returns its id. User data is
// base64-encoded as the API requires.
func (c *RealClient) RunInstance(ctx context.Context, opts InstanceCreateOpts) (string, error) {
	input := &ec2.RunInstancesInput{
		ImageId:           aws.String(opts.ImageID),
		InstanceType:      ec2types.InstanceType(opts.InstanceType),
		MinCount:          aws.Int32(1),
		MaxCount:          aws.Int32(1),
		KeyName:           aws.String(opts.KeyName),
		SecurityGroupIds:  []string{opts.SecurityGroupID},
		TagSpecifications: ec2TagSpec(ec2types.ResourceTypeInstance, opts.Tags),
	}
	if opts.UserData != "" {
		input.UserData = aws.String(base64.StdEncoding.EncodeToString([]byte(opts.UserData)))
	}

	out, err := c.ec2.RunInstances(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to launch instance %s: %w", opts.Name, err)
	}
	if len(out.Instances) == 0 {
		return "", fmt.Errorf("launch of instance %s returned no instances", opts.Name)
	}
	return aws.ToString(out.Instances[0].InstanceId), nil
}

// AwaitInstanceRunning blocks until the instance reaches the running state,
// using the provider's native waiter with a terminal timeout.
func (c *RealClient) AwaitInstanceRunning(ctx context.Context, id string, timeout time.Duration) error {
	waiter := ec2.NewInstanceRunningWaiter(c.ec2)
	err := waiter.Wait(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{id},
	}, timeout)
	if err != nil {
		return fmt.Errorf("instance %s did not reach running within %v: %w", id, timeout, err)
	}
	return nil
}

// DescribeInstance returns the live view of one instance.
func (c *RealClient) DescribeInstance(ctx context.Context, id string) (*InstanceInfo, error) {
	out, err := c.ec2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe instance %s: %w", id, err)
	}
	for _, res := range out.Reservations {
		for _, inst := range res.Instances {
			info := &InstanceInfo{
				ID:        aws.ToString(inst.InstanceId),
				PublicIP:  aws.ToString(inst.PublicIpAddress),
				PrivateIP: aws.ToString(inst.PrivateIpAddress),
			}
			if inst.State != nil {
				info.State = string(inst.State.Name)
			}
			for _, tag := range inst.Tags {
				if aws.ToString(tag.Key) == "Name" {
					info.Name = aws.ToString(tag.Value)
				}
			}
			return info, nil
		}
	}
	return nil, fmt.Errorf("instance %s not found", id)
}

// TerminateInstance requests termination. Already gone is success.
func (c *RealClient) TerminateInstance(ctx context.Context, id string) error {
	_, err := c.ec2.TerminateInstances(ctx, &ec2.TerminateInstancesInput{
		InstanceIds: []string{id},
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to terminate instance %s: %w", id, err)
	}
	return nil
}

// AwaitInstancesTerminated blocks until all given instances have terminated.
// Termination releases security group attachments, so cleanup waits on this
// before deleting the group.
func (c *RealClient) AwaitInstancesTerminated(ctx context.Context, ids []string, timeout time.Duration) error {
	if len(ids) == 0 {
		return nil
	}
	waiter := ec2.NewInstanceTerminatedWaiter(c.ec2)
	err := waiter.Wait(ctx, &ec2.DescribeInstancesInput{
		InstanceIds: ids,
	}, timeout)
	if err != nil {
		return fmt.Errorf("instances %v did not terminate within %v: %w", ids, timeout, err)
	}
	return nil
}

// FindInstancesByTags returns the ids of non-terminated instances matching
// the tag selector.
func (c *RealClient) FindInstancesByTags(ctx context.Context, selector map[string]string) ([]string, error) {
	filters := tagFilters(selector)
	filters = append(filters, ec2types.Filter{
		Name:   aws.String("instance-state-name"),
		Values: sweepInstanceStates,
	})

	var ids []string
	var nextToken *string
	for {
		out, err := c.ec2.DescribeInstances(ctx, &ec2.DescribeInstancesInput{
			Filters:   filters,
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to find instances by tags: %w", err)
		}
		for _, res := range out.Reservations {
			for _, inst := range res.Instances {
				ids = append(ids, aws.ToString(inst.InstanceId))
			}
		}
		nextToken = out.NextToken
		if nextToken == nil {
			return ids, nil
		}
	}
}

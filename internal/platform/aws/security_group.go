package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// CreateSecurityGroup creates a security group, authorizes its ingress rules,
// and returns the group id.
func (c *RealClient) CreateSecurityGroup(ctx context.Context, name, description string, rules []IngressRule, tags map[string]string) (string, error) {
	out, err := c.ec2.CreateSecurityGroup(ctx, &ec2.CreateSecurityGroupInput{
		GroupName:         aws.String(name),
		Description:       aws.String(description),
		TagSpecifications: ec2TagSpec(ec2types.ResourceTypeSecurityGroup, tags),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create security group %s: %w", name, err)
	}
	id := aws.ToString(out.GroupId)

	permissions := make([]ec2types.IpPermission, 0, len(rules))
	for _, r := range rules {
		permissions = append(permissions, ec2types.IpPermission{
			IpProtocol: aws.String(r.Protocol),
			FromPort:   aws.Int32(r.Port),
			ToPort:     aws.Int32(r.Port),
			IpRanges: []ec2types.IpRange{{
				CidrIp:      aws.String(r.CIDR),
				Description: aws.String(r.Description),
			}},
		})
	}

	if len(permissions) > 0 {
		_, err = c.ec2.AuthorizeSecurityGroupIngress(ctx, &ec2.AuthorizeSecurityGroupIngressInput{
			GroupId:       aws.String(id),
			IpPermissions: permissions,
		})
		if err != nil {
			// Return the id alongside the error so the caller can still
			// release the half-configured group.
			return id, fmt.Errorf("failed to authorize ingress on security group %s: %w", id, err)
		}
	}

	return id, nil
}

// SecurityGroupExists reports whether the group with the given id is live.
func (c *RealClient) SecurityGroupExists(ctx context.Context, id string) (bool, error) {
	out, err := c.ec2.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
		GroupIds: []string{id},
	})
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to describe security group %s: %w", id, err)
	}
	return len(out.SecurityGroups) > 0, nil
}

// DeleteSecurityGroup deletes the group. An already-deleted group is success.
func (c *RealClient) DeleteSecurityGroup(ctx context.Context, id string) error {
	_, err := c.ec2.DeleteSecurityGroup(ctx, &ec2.DeleteSecurityGroupInput{
		GroupId: aws.String(id),
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete security group %s: %w", id, err)
	}
	return nil
}

// FindSecurityGroupsByTags returns the ids of security groups matching the
// tag selector.
func (c *RealClient) FindSecurityGroupsByTags(ctx context.Context, selector map[string]string) ([]string, error) {
	var ids []string
	var nextToken *string
	for {
		out, err := c.ec2.DescribeSecurityGroups(ctx, &ec2.DescribeSecurityGroupsInput{
			Filters:   tagFilters(selector),
			NextToken: nextToken,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to find security groups by tags: %w", err)
		}
		for _, sg := range out.SecurityGroups {
			ids = append(ids, aws.ToString(sg.GroupId))
		}
		nextToken = out.NextToken
		if nextToken == nil {
			return ids, nil
		}
	}
}

package aws

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// defaultRegion is the provider default, where CreateBucket takes no location
// constraint and rejects one if given.
const defaultRegion = "us-east-1"

// CreateBucket creates an S3 bucket. The call shape is region-conditional:
// outside the default region a location constraint is required.
func (c *RealClient) CreateBucket(ctx context.Context, name, region string) error {
	input := &s3.CreateBucketInput{
		Bucket: aws.String(name),
	}
	if region != defaultRegion {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(region),
		}
	}

	_, err := c.s3.CreateBucket(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", name, err)
	}
	return nil
}

// EnableBucketVersioning turns on object versioning.
func (c *RealClient) EnableBucketVersioning(ctx context.Context, name string) error {
	_, err := c.s3.PutBucketVersioning(ctx, &s3.PutBucketVersioningInput{
		Bucket: aws.String(name),
		VersioningConfiguration: &s3types.VersioningConfiguration{
			Status: s3types.BucketVersioningStatusEnabled,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to enable versioning on bucket %s: %w", name, err)
	}
	return nil
}

// BlockBucketPublicAccess applies the full public access block.
func (c *RealClient) BlockBucketPublicAccess(ctx context.Context, name string) error {
	_, err := c.s3.PutPublicAccessBlock(ctx, &s3.PutPublicAccessBlockInput{
		Bucket: aws.String(name),
		PublicAccessBlockConfiguration: &s3types.PublicAccessBlockConfiguration{
			BlockPublicAcls:       aws.Bool(true),
			BlockPublicPolicy:     aws.Bool(true),
			IgnorePublicAcls:      aws.Bool(true),
			RestrictPublicBuckets: aws.Bool(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to block public access on bucket %s: %w", name, err)
	}
	return nil
}

// TagBucket applies the standard tag set. S3 has no create-time tagging, so
// this runs as a post-creation step.
func (c *RealClient) TagBucket(ctx context.Context, name string, tags map[string]string) error {
	_, err := c.s3.PutBucketTagging(ctx, &s3.PutBucketTaggingInput{
		Bucket:  aws.String(name),
		Tagging: &s3types.Tagging{TagSet: s3TagSet(tags)},
	})
	if err != nil {
		return fmt.Errorf("failed to tag bucket %s: %w", name, err)
	}
	return nil
}

// PutFolderMarker creates a zero-byte placeholder object. Keys ending in "/"
// render as folders in the console.
func (c *RealClient) PutFolderMarker(ctx context.Context, bucket, key string) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		return fmt.Errorf("failed to create folder marker %s/%s: %w", bucket, key, err)
	}
	return nil
}

// BucketExists checks whether a bucket exists and is accessible.
func (c *RealClient) BucketExists(ctx context.Context, name string) (bool, error) {
	_, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(name),
	})
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check bucket %s: %w", name, err)
	}
	return true, nil
}

// EmptyBucket deletes every object version and delete marker. Versioned
// buckets cannot be deleted while any version remains.
func (c *RealClient) EmptyBucket(ctx context.Context, name string) error {
	var keyMarker, versionMarker *string
	for {
		out, err := c.s3.ListObjectVersions(ctx, &s3.ListObjectVersionsInput{
			Bucket:          aws.String(name),
			KeyMarker:       keyMarker,
			VersionIdMarker: versionMarker,
		})
		if err != nil {
			if IsNotFound(err) {
				return nil
			}
			return fmt.Errorf("failed to list object versions in bucket %s: %w", name, err)
		}

		var objects []s3types.ObjectIdentifier
		for _, v := range out.Versions {
			objects = append(objects, s3types.ObjectIdentifier{Key: v.Key, VersionId: v.VersionId})
		}
		for _, m := range out.DeleteMarkers {
			objects = append(objects, s3types.ObjectIdentifier{Key: m.Key, VersionId: m.VersionId})
		}

		if len(objects) > 0 {
			_, err = c.s3.DeleteObjects(ctx, &s3.DeleteObjectsInput{
				Bucket: aws.String(name),
				Delete: &s3types.Delete{
					Objects: objects,
					Quiet:   aws.Bool(true),
				},
			})
			if err != nil {
				return fmt.Errorf("failed to delete objects in bucket %s: %w", name, err)
			}
		}

		if !aws.ToBool(out.IsTruncated) {
			return nil
		}
		keyMarker = out.NextKeyMarker
		versionMarker = out.NextVersionIdMarker
	}
}

// DeleteBucket deletes the bucket. Already gone is success.
func (c *RealClient) DeleteBucket(ctx context.Context, name string) error {
	_, err := c.s3.DeleteBucket(ctx, &s3.DeleteBucketInput{
		Bucket: aws.String(name),
	})
	if err != nil && !IsNotFound(err) {
		return fmt.Errorf("failed to delete bucket %s: %w", name, err)
	}
	return nil
}

// FindBucketsByTags returns the names of buckets whose tag set contains every
// selector entry. S3 has no server-side tag filtering, so tags are checked
// per bucket; buckets in other regions or without tags are skipped.
func (c *RealClient) FindBucketsByTags(ctx context.Context, selector map[string]string) ([]string, error) {
	out, err := c.s3.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to list buckets: %w", err)
	}

	var names []string
	for _, b := range out.Buckets {
		name := aws.ToString(b.Name)
		tagging, err := c.s3.GetBucketTagging(ctx, &s3.GetBucketTaggingInput{
			Bucket: aws.String(name),
		})
		if err != nil {
			// Untagged or inaccessible buckets are not ours to sweep.
			continue
		}

		bucketTags := make(map[string]string, len(tagging.TagSet))
		for _, t := range tagging.TagSet {
			bucketTags[aws.ToString(t.Key)] = aws.ToString(t.Value)
		}

		matches := true
		for k, v := range selector {
			if bucketTags[k] != v {
				matches = false
				break
			}
		}
		if matches {
			names = append(names, name)
		}
	}
	return names, nil
}

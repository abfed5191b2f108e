package aws

import (
	"errors"

	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/imamik/dslab/internal/util/retry"
)

// isAPIErrorCode checks whether the error is a provider API error with one of
// the given codes.
func isAPIErrorCode(err error, codes ...string) bool {
	if err == nil {
		return false
	}
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	code := apiErr.ErrorCode()
	for _, c := range codes {
		if code == c {
			return true
		}
	}
	return false
}

// IsNotFound checks whether an error indicates the resource does not exist.
func IsNotFound(err error) bool {
	var nsb *s3types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}
	var nf *s3types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	return isAPIErrorCode(err,
		"InvalidGroup.NotFound",
		"InvalidKeyPair.NotFound",
		"InvalidInstanceID.NotFound",
		"NoSuchBucket",
		"NoSuchTagSet",
		"NotFound",
		"404",
	)
}

// IsConflict checks whether an error indicates the resource already exists.
func IsConflict(err error) bool {
	var baoby *s3types.BucketAlreadyOwnedByYou
	if errors.As(err, &baoby) {
		return true
	}
	var bae *s3types.BucketAlreadyExists
	if errors.As(err, &bae) {
		return true
	}
	return isAPIErrorCode(err,
		"InvalidGroup.Duplicate",
		"InvalidKeyPair.Duplicate",
		"BucketAlreadyOwnedByYou",
		"BucketAlreadyExists",
	)
}

// IsThrottling checks whether an error indicates rate limiting. These errors
// are safe to retry because the request was rejected before execution.
func IsThrottling(err error) bool {
	return isAPIErrorCode(err,
		"Throttling",
		"ThrottlingException",
		"RequestThrottled",
		"RequestLimitExceeded",
		"TooManyRequestsException",
		"SlowDown",
	)
}

// IsAuthError checks whether an error indicates missing or invalid
// credentials or permissions.
func IsAuthError(err error) bool {
	return isAPIErrorCode(err,
		"AuthFailure",
		"UnauthorizedOperation",
		"AccessDenied",
		"InvalidClientTokenId",
		"ExpiredToken",
	)
}

// Classify maps a provider error for the retry layer: throttling passes
// through as retryable, everything else is marked permanent. Create calls
// must not be replayed on ambiguous failures, so only errors that prove the
// request was rejected qualify for retry.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if IsThrottling(err) {
		return err
	}
	return retry.Permanent(err)
}

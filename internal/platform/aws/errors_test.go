package aws

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aws/smithy-go"

	"github.com/imamik/dslab/internal/util/retry"
)

func apiError(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: "test"}
}

func TestIsNotFound(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"security group", apiError("InvalidGroup.NotFound"), true},
		{"key pair", apiError("InvalidKeyPair.NotFound"), true},
		{"instance", apiError("InvalidInstanceID.NotFound"), true},
		{"bucket", apiError("NoSuchBucket"), true},
		{"wrapped", fmt.Errorf("outer: %w", apiError("NotFound")), true},
		{"other code", apiError("AuthFailure"), false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsConflict(t *testing.T) {
	t.Parallel()
	if !IsConflict(apiError("InvalidGroup.Duplicate")) {
		t.Error("duplicate group should be a conflict")
	}
	if !IsConflict(apiError("BucketAlreadyOwnedByYou")) {
		t.Error("owned bucket should be a conflict")
	}
	if IsConflict(apiError("Throttling")) {
		t.Error("throttling is not a conflict")
	}
}

func TestIsThrottling(t *testing.T) {
	t.Parallel()
	for _, code := range []string{"Throttling", "RequestLimitExceeded", "SlowDown"} {
		if !IsThrottling(apiError(code)) {
			t.Errorf("%s should be throttling", code)
		}
	}
	if IsThrottling(apiError("AccessDenied")) {
		t.Error("access denied is not throttling")
	}
}

func TestIsAuthError(t *testing.T) {
	t.Parallel()
	if !IsAuthError(apiError("UnauthorizedOperation")) {
		t.Error("expected auth error")
	}
	if IsAuthError(apiError("NotFound")) {
		t.Error("not-found is not an auth error")
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()
	if Classify(nil) != nil {
		t.Error("nil must classify to nil")
	}

	throttled := apiError("RequestLimitExceeded")
	if retry.IsPermanent(Classify(throttled)) {
		t.Error("throttling must stay retryable")
	}

	denied := apiError("AccessDenied")
	if !retry.IsPermanent(Classify(denied)) {
		t.Error("auth errors must be permanent")
	}

	if !retry.IsPermanent(Classify(errors.New("connection reset"))) {
		t.Error("unknown errors must be permanent")
	}
}

// Package aws wraps the AWS control-plane operations dslab needs: security
// groups, key pairs, EC2 instances, and S3 buckets.
//
// The client layer is a dumb pass-through with structured error translation;
// idempotency decisions (reuse vs. create) belong to the provisioners that
// call it. Delete operations treat "already gone" as success so cleanup can
// run repeatedly.
package aws

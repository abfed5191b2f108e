// Package provisioning provides shared types and interfaces for workspace provisioning.
//
// The provisioning domain is organized into focused subpackages:
//   - network: security group and ingress rules
//   - credential: SSH key pair and key material
//   - storage: workspace bucket, versioning, folder layout
//   - compute: notebook instances
//   - verify: post-provisioning resource verification
//   - compensate: rollback and tag-based sweep cleanup
//
// This root package contains the phase pipeline, the resource tracker, and
// the shared context and observer types used across subpackages.
package provisioning

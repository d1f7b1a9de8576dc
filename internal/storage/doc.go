// Package storage implements the S3-compatible object store client used by
// the watch pass: list the bucket, fetch manifest bodies, delete processed
// manifests. Requests are signed with AWS Signature V4 directly rather than
// pulling in an SDK.
package storage

// Package s3store implements bucketctl.ObjectStore on the AWS SDK for Go v2.
//
// It works against AWS S3 and S3-compatible services (MinIO, Ceph, R2) when
// given a custom endpoint. Credentials resolve through the SDK default chain
// unless static keys are supplied in Options.
//
// Error mapping:
//   - NoSuchBucket: bucketctl.ErrBackend and bucketctl.ErrNotFound
//   - any other failure: bucketctl.ErrBackend
//
// Per-key failures of a bulk delete are returned as KeyError values in the
// outcomes instead of as an error.
package s3store

// Package bucketctl lists, uploads and deletes objects in S3-compatible
// buckets.
//
// The package holds the operations shared by every backend. A Service wraps
// an ObjectStore and implements the four commands of the bucketctl CLI:
//
//   - List: keys under a prefix, in store order
//   - ListFiltered: keys under a prefix selected by a regular expression
//   - Upload: a local file written to a key, read fully into memory first
//   - DeleteFiltered: keys under a prefix selected by a regular expression,
//     removed with bulk-delete requests
//
// Filters use RE2 syntax and match anywhere in the key. Arguments and
// patterns are validated before any request is sent.
//
// # Backends
//
//   - s3store: AWS S3 and compatible services through aws-sdk-go-v2
//   - filesystem: a local directory whose subdirectories act as buckets
//
// # Example Usage
//
//	store, err := s3store.New(ctx, s3store.Options{Region: "us-east-1"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	service, err := bucketctl.NewService(store, bucketctl.ServiceConfig{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := service.ListFiltered(ctx, "my-bucket", "logs/", `\.gz$`, bucketctl.ListOptions{All: true})
//
// See the clientcli package for argument parsing and output formatting.
package bucketctl

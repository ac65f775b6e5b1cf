package bucketctl

import (
	"context"
)

// MaxDeleteBatch is the largest number of keys sent in one bulk-delete
// request. It matches the S3 DeleteObjects limit.
const MaxDeleteBatch = 1000

// ObjectStore defines the storage operations bucketctl needs from a backend.
// Implementations exist for S3-compatible services (s3store) and for a local
// directory tree (filesystem).
//
// All methods accept a context for cancellation and timeout control.
// Retries, authentication and the wire protocol are the implementation's
// concern; callers issue each request exactly once.
type ObjectStore interface {
	// ListPage returns a single page of objects in bucket whose key starts
	// with q.Prefix.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - q: Bucket, prefix, continuation token from a previous page and page size
	//
	// Returns:
	//   - Page: Objects in store order and the token for the next page ("" on the last page)
	//   - error: ErrNotFound (wrapped) if the bucket does not exist, or any other store error
	ListPage(ctx context.Context, q PageQuery) (Page, error)

	// Put writes in.Body as the object at in.Key, replacing any existing object.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - in: Bucket, key, content type and the complete body
	//
	// Returns:
	//   - PutOutput: Location of the written object, its ETag and version if any
	//   - error: Any store error
	Put(ctx context.Context, in PutInput) (PutOutput, error)

	// DeleteBatch removes keys from bucket in one request. len(keys) must not
	// exceed MaxDeleteBatch.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - bucket: The bucket holding the keys
	//   - keys: Keys to remove
	//
	// Returns:
	//   - []DeleteOutcome: One outcome per key, in the order of keys
	//   - error: A failure of the request as a whole; per-key failures are
	//     reported in the outcomes instead
	DeleteBatch(ctx context.Context, bucket string, keys []string) ([]DeleteOutcome, error)
}

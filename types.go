package bucketctl

import (
	"time"
)

// ObjectInfo describes a single object returned by a listing.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size_bytes"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"last_modified"`
	StorageClass string    `json:"storage_class,omitempty"`
}

// PageQuery requests one page of a bucket listing.
type PageQuery struct {
	Bucket            string
	Prefix            string
	ContinuationToken string
	MaxKeys           int32 // 0 lets the store pick its default
}

// Page is one page of a bucket listing, in store order.
// NextToken is empty on the last page.
type Page struct {
	Objects   []ObjectInfo
	NextToken string
}

// ListOptions controls how many pages an operation reads.
type ListOptions struct {
	// All walks every page instead of stopping after the first one.
	All bool
	// MaxKeys bounds the page size. Zero uses the service default.
	MaxKeys int32
}

// ListResult holds the keys selected by a list operation.
type ListResult struct {
	Bucket  string       `json:"bucket"`
	Prefix  string       `json:"prefix"`
	Pattern string       `json:"pattern,omitempty"`
	Items   []ObjectInfo `json:"items"`
	// Scanned counts the objects returned by the store before filtering.
	Scanned   int    `json:"scanned"`
	NextToken string `json:"next_token,omitempty"`
}

// Keys returns the keys of the selected objects in listing order.
func (r *ListResult) Keys() []string {
	keys := make([]string, len(r.Items))
	for i := range r.Items {
		keys[i] = r.Items[i].Key
	}
	return keys
}

// TotalSize returns the sum of the sizes of the selected objects.
func (r *ListResult) TotalSize() int64 {
	var total int64
	for i := range r.Items {
		total += r.Items[i].Size
	}
	return total
}

// PutInput is a fully buffered object write.
type PutInput struct {
	Bucket      string
	Key         string
	ContentType string
	Body        []byte
}

// PutOutput is what the store reports about a completed write.
type PutOutput struct {
	Location  string
	ETag      string
	VersionID string
}

// UploadRequest describes a local file to be written to a bucket.
type UploadRequest struct {
	Bucket      string
	FilePath    string
	Key         string
	ContentType string // optional, detected from the file extension if empty
}

// UploadResult is the outcome of an upload.
type UploadResult struct {
	Bucket      string `json:"bucket"`
	Key         string `json:"key"`
	LocalPath   string `json:"local_path"`
	Location    string `json:"location"`
	ContentType string `json:"content_type"`
	ETag        string `json:"etag,omitempty"`
	VersionID   string `json:"version_id,omitempty"`
	Size        int64  `json:"size_bytes"`
}

// DeleteOutcome is the per-key result of a bulk delete.
type DeleteOutcome struct {
	Key     string `json:"key"`
	Deleted bool   `json:"deleted"`
	Err     error  `json:"-"` // nil on success
}

// DeleteOptions configures a filtered delete.
type DeleteOptions struct {
	ListOptions

	// DryRun selects the keys without sending a delete request.
	DryRun bool

	// Confirm, if set, is called with the matched keys before anything is
	// deleted. Returning false cancels the delete.
	Confirm func(bucket string, keys []string) (bool, error)
}

// DeleteResult is the outcome of a filtered delete.
type DeleteResult struct {
	Bucket    string          `json:"bucket"`
	Prefix    string          `json:"prefix"`
	Pattern   string          `json:"pattern"`
	Scanned   int             `json:"scanned"`
	Matched   []string        `json:"matched"`
	Outcomes  []DeleteOutcome `json:"outcomes"`
	DryRun    bool            `json:"dry_run,omitempty"`
	Cancelled bool            `json:"cancelled,omitempty"`
}

// Failed returns the outcomes the store could not delete.
func (r *DeleteResult) Failed() []DeleteOutcome {
	var failed []DeleteOutcome
	for i := range r.Outcomes {
		if r.Outcomes[i].Err != nil {
			failed = append(failed, r.Outcomes[i])
		}
	}
	return failed
}

package bucketctl

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
)

// DefaultPageSize is the page size requested when neither the service
// configuration nor the caller sets one.
const DefaultPageSize int32 = 1000

// Service runs bucket operations against an ObjectStore.
// Every operation validates its arguments before touching the store.
type Service struct {
	store    ObjectStore
	pageSize int32
}

// ServiceConfig holds configuration options for Service.
type ServiceConfig struct {
	PageSize int32 // Page size for listings (default: 1000)
}

// NewService creates a Service backed by store.
func NewService(store ObjectStore, cfg ServiceConfig) (*Service, error) {
	if store == nil {
		return nil, errors.New("new service: object store is required")
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > DefaultPageSize {
		pageSize = DefaultPageSize
	}
	return &Service{
		store:    store,
		pageSize: pageSize,
	}, nil
}

// Objects returns a lazy sequence of the objects in bucket under prefix.
// Pages are fetched as the sequence is consumed; the sequence stops after the
// first page unless opts.All is set. Ranging over the sequence again starts
// a new listing from the first page.
//
// A store error is yielded once, with a zero ObjectInfo, and ends the sequence.
func (s *Service) Objects(ctx context.Context, bucket, prefix string, opts ListOptions) iter.Seq2[ObjectInfo, error] {
	return func(yield func(ObjectInfo, error) bool) {
		if bucket == "" {
			yield(ObjectInfo{}, fmt.Errorf("objects: %w: bucket name is required", ErrArgument))
			return
		}
		_, err := s.walk(ctx, bucket, prefix, opts, func(page Page) bool {
			for _, obj := range page.Objects {
				if !yield(obj, nil) {
					return false
				}
			}
			return true
		})
		if err != nil {
			yield(ObjectInfo{}, backendError("objects", err))
		}
	}
}

// List returns the objects in bucket under prefix, unfiltered and in store
// order. Only the first page is read unless opts.All is set; NextToken in
// the result is non-empty when more objects remain.
func (s *Service) List(ctx context.Context, bucket, prefix string, opts ListOptions) (ListResult, error) {
	if bucket == "" {
		return ListResult{}, fmt.Errorf("list: %w: bucket name is required", ErrArgument)
	}

	result, err := s.collect(ctx, bucket, prefix, opts, nil)
	if err != nil {
		return ListResult{}, backendError("list", err)
	}

	slog.Debug("listed objects", "bucket", bucket, "prefix", prefix, "count", len(result.Items))
	return result, nil
}

// ListFiltered is List restricted to keys matched by pattern.
// The pattern is compiled before the store is contacted, so an invalid
// pattern fails with ErrPattern without any request.
//
// Scanned in the result counts the objects listed before filtering, which
// lets callers tell an empty prefix apart from a filter that matched nothing.
func (s *Service) ListFiltered(ctx context.Context, bucket, prefix, pattern string, opts ListOptions) (ListResult, error) {
	if bucket == "" {
		return ListResult{}, fmt.Errorf("list filtered: %w: bucket name is required", ErrArgument)
	}

	filter, err := CompileFilter(pattern)
	if err != nil {
		return ListResult{}, fmt.Errorf("list filtered: %w", err)
	}

	result, err := s.collect(ctx, bucket, prefix, opts, filter)
	if err != nil {
		return ListResult{}, backendError("list filtered", err)
	}

	slog.Debug("listed filtered objects",
		"bucket", bucket, "prefix", prefix, "pattern", pattern,
		"scanned", result.Scanned, "matched", len(result.Items))
	return result, nil
}

// Upload reads the whole file at req.FilePath into memory and writes it to
// req.Key in req.Bucket.
//
// Error types returned:
//   - ErrArgument: bucket, file path or key is empty
//   - ErrLocalIO: the file cannot be read; nothing is sent to the store
//   - ErrBackend: the store rejected the write
func (s *Service) Upload(ctx context.Context, req UploadRequest) (UploadResult, error) {
	if req.Bucket == "" || req.FilePath == "" || req.Key == "" {
		return UploadResult{}, fmt.Errorf("upload: %w: bucket name, file path, and key are required", ErrArgument)
	}

	body, err := os.ReadFile(filepath.Clean(req.FilePath)) //#nosec G304 -- path is user-provided upload source
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload: %w: %w", ErrLocalIO, err)
	}

	contentType := req.ContentType
	if contentType == "" {
		contentType = detectContentType(req.FilePath)
	}

	out, err := s.store.Put(ctx, PutInput{
		Bucket:      req.Bucket,
		Key:         req.Key,
		ContentType: contentType,
		Body:        body,
	})
	if err != nil {
		return UploadResult{}, backendError(fmt.Sprintf("upload %s", req.Key), err)
	}

	slog.Debug("uploaded object", "bucket", req.Bucket, "key", req.Key, "size", len(body))

	return UploadResult{
		Bucket:      req.Bucket,
		Key:         req.Key,
		LocalPath:   req.FilePath,
		Location:    out.Location,
		ContentType: contentType,
		ETag:        out.ETag,
		VersionID:   out.VersionID,
		Size:        int64(len(body)),
	}, nil
}

// DeleteFiltered removes the keys in bucket under prefix that are matched by
// pattern.
//
// The pattern is compiled first; the listing follows the same paging rules as
// List. When nothing matches, no delete request is sent. Otherwise the matched
// keys are sent in bulk-delete requests of at most MaxDeleteBatch keys, which
// is a single request for a single page.
//
// Per-key failures reported by the store are kept in the result's outcomes
// and make the operation return ErrBackend.
func (s *Service) DeleteFiltered(ctx context.Context, bucket, prefix, pattern string, opts DeleteOptions) (DeleteResult, error) {
	if bucket == "" {
		return DeleteResult{}, fmt.Errorf("delete: %w: bucket name is required", ErrArgument)
	}

	filter, err := CompileFilter(pattern)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("delete: %w", err)
	}

	listing, err := s.collect(ctx, bucket, prefix, opts.ListOptions, filter)
	if err != nil {
		return DeleteResult{}, backendError("delete", err)
	}

	result := DeleteResult{
		Bucket:  bucket,
		Prefix:  prefix,
		Pattern: pattern,
		Scanned: listing.Scanned,
		Matched: listing.Keys(),
		DryRun:  opts.DryRun,
	}

	if len(result.Matched) == 0 || opts.DryRun {
		return result, nil
	}

	if opts.Confirm != nil {
		ok, confirmErr := opts.Confirm(bucket, result.Matched)
		if confirmErr != nil {
			return result, fmt.Errorf("delete: confirm: %w", confirmErr)
		}
		if !ok {
			result.Cancelled = true
			return result, nil
		}
	}

	for start := 0; start < len(result.Matched); start += MaxDeleteBatch {
		end := min(start+MaxDeleteBatch, len(result.Matched))

		outcomes, batchErr := s.store.DeleteBatch(ctx, bucket, result.Matched[start:end])
		result.Outcomes = append(result.Outcomes, outcomes...)
		if batchErr != nil {
			return result, backendError("delete", batchErr)
		}
	}

	if failed := result.Failed(); len(failed) > 0 {
		return result, fmt.Errorf("delete: %w: %d of %d keys could not be deleted",
			ErrBackend, len(failed), len(result.Matched))
	}

	slog.Debug("deleted objects", "bucket", bucket, "prefix", prefix, "pattern", pattern, "count", len(result.Outcomes))
	return result, nil
}

// collect reads the listing into a ListResult, keeping only keys matched by
// filter when it is non-nil.
func (s *Service) collect(ctx context.Context, bucket, prefix string, opts ListOptions, filter *KeyFilter) (ListResult, error) {
	result := ListResult{
		Bucket: bucket,
		Prefix: prefix,
		Items:  []ObjectInfo{},
	}
	if filter != nil {
		result.Pattern = filter.String()
	}

	next, err := s.walk(ctx, bucket, prefix, opts, func(page Page) bool {
		result.Scanned += len(page.Objects)
		if filter != nil {
			result.Items = append(result.Items, filter.Apply(page.Objects)...)
		} else {
			result.Items = append(result.Items, page.Objects...)
		}
		return true
	})
	if err != nil {
		return ListResult{}, err
	}

	result.NextToken = next
	return result, nil
}

// walk fetches pages and hands each to fn until the listing ends, fn returns
// false, or a single page has been read without opts.All. It returns the
// continuation token of the first unread page.
func (s *Service) walk(ctx context.Context, bucket, prefix string, opts ListOptions, fn func(Page) bool) (string, error) {
	pageSize := s.pageSize
	if opts.MaxKeys > 0 && opts.MaxKeys < pageSize {
		pageSize = opts.MaxKeys
	}

	token := ""
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page, err := s.store.ListPage(ctx, PageQuery{
			Bucket:            bucket,
			Prefix:            prefix,
			ContinuationToken: token,
			MaxKeys:           pageSize,
		})
		if err != nil {
			return "", err
		}

		if !fn(page) || page.NextToken == "" || !opts.All {
			return page.NextToken, nil
		}
		token = page.NextToken
	}
}

func detectContentType(path string) string {
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		return "application/octet-stream"
	}
	return contentType
}

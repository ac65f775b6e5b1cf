// Package filesystem provides a local directory backend for bucketctl.
// Each subdirectory of the root is a bucket and each regular file below it
// is an object whose key is its slash-separated path inside the bucket.
// Writes are atomic using temp files and report SHA256-based etags.
package filesystem

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/sagarc03/bucketctl"
)

// DefaultMaxKeys is the page size used when a query does not set one.
const DefaultMaxKeys int32 = 1000

const tmpPrefix = ".t"

// Store provides bucket operations over a directory tree.
type Store struct {
	root *os.Root
}

// NewFileStorage creates a new Store with the given root directory.
// The root provides sandboxed file operations preventing path traversal.
func NewFileStorage(root *os.Root) *Store {
	return &Store{root: root}
}

// Open opens dir as a store root, creating it if needed.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("open filesystem store: root directory is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("open filesystem store: %w", err)
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("open filesystem store: %w", err)
	}
	return NewFileStorage(root), nil
}

// Close releases the root directory.
func (s *Store) Close() error {
	return s.root.Close()
}

// ListPage returns up to q.MaxKeys objects of the bucket in ascending key
// order. The continuation token is the last key of the previous page.
// Returns bucketctl.ErrNotFound if the bucket directory does not exist.
func (s *Store) ListPage(ctx context.Context, q bucketctl.PageQuery) (bucketctl.Page, error) {
	if err := ctx.Err(); err != nil {
		return bucketctl.Page{}, err
	}

	if err := s.checkBucket(q.Bucket); err != nil {
		return bucketctl.Page{}, fmt.Errorf("list page: %w", err)
	}

	maxKeys := q.MaxKeys
	if maxKeys <= 0 {
		maxKeys = DefaultMaxKeys
	}

	objects, err := s.walkBucket(ctx, q.Bucket, q.Prefix)
	if err != nil {
		return bucketctl.Page{}, fmt.Errorf("list page: %w", err)
	}

	start := 0
	if q.ContinuationToken != "" {
		start, _ = slices.BinarySearchFunc(objects, q.ContinuationToken, func(o bucketctl.ObjectInfo, key string) int {
			return strings.Compare(o.Key, key)
		})
		if start < len(objects) && objects[start].Key == q.ContinuationToken {
			start++
		}
	}
	objects = objects[start:]

	page := bucketctl.Page{Objects: objects}
	if len(objects) > int(maxKeys) {
		page.Objects = objects[:maxKeys]
		page.NextToken = page.Objects[len(page.Objects)-1].Key
	}

	return page, nil
}

// Put atomically writes in.Body to the object path using a temp file and
// rename, creating intermediate directories as needed. The location is a
// file:// URL of the written file and the etag is the SHA256 of the body.
func (s *Store) Put(ctx context.Context, in bucketctl.PutInput) (bucketctl.PutOutput, error) {
	if err := ctx.Err(); err != nil {
		return bucketctl.PutOutput{}, err
	}

	if err := s.checkBucket(in.Bucket); err != nil {
		return bucketctl.PutOutput{}, fmt.Errorf("put: %w", err)
	}

	if !bucketctl.IsValidKey(in.Key) {
		return bucketctl.PutOutput{}, fmt.Errorf("put: %w: key %q cannot be stored on a file system", bucketctl.ErrArgument, in.Key)
	}

	dest := objectPath(in.Bucket, in.Key)
	etag, err := s.writeAtomic(ctx, dest, bytes.NewReader(in.Body))
	if err != nil {
		return bucketctl.PutOutput{}, fmt.Errorf("put: %w", err)
	}

	return bucketctl.PutOutput{
		Location: s.location(dest),
		ETag:     etag,
	}, nil
}

// DeleteBatch removes each key and any directories left empty by it.
// Keys that do not exist count as deleted, as they do on S3.
func (s *Store) DeleteBatch(ctx context.Context, bucket string, keys []string) ([]bucketctl.DeleteOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if len(keys) > bucketctl.MaxDeleteBatch {
		return nil, fmt.Errorf("delete batch: %w: %d keys exceeds limit of %d", bucketctl.ErrArgument, len(keys), bucketctl.MaxDeleteBatch)
	}

	if err := s.checkBucket(bucket); err != nil {
		return nil, fmt.Errorf("delete batch: %w", err)
	}

	outcomes := make([]bucketctl.DeleteOutcome, 0, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		outcomes = append(outcomes, s.deleteOne(bucket, key))
	}

	return outcomes, nil
}

func (s *Store) deleteOne(bucket, key string) bucketctl.DeleteOutcome {
	if !bucketctl.IsValidKey(key) {
		return bucketctl.DeleteOutcome{Key: key, Err: fmt.Errorf("%w: invalid key", bucketctl.ErrArgument)}
	}

	p := objectPath(bucket, key)
	if err := s.root.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return bucketctl.DeleteOutcome{Key: key, Err: fmt.Errorf("could not delete file: %w", err)}
	}

	for dir := path.Dir(p); dir != bucket && dir != "."; dir = path.Dir(dir) {
		if err := s.root.Remove(dir); err != nil {
			break
		}
	}

	return bucketctl.DeleteOutcome{Key: key, Deleted: true}
}

func (s *Store) checkBucket(bucket string) error {
	if !bucketctl.IsValidBucketName(bucket) {
		return fmt.Errorf("%w: invalid bucket name %q", bucketctl.ErrArgument, bucket)
	}

	info, err := s.root.Stat(bucket)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: bucket %s", bucketctl.ErrNotFound, bucket)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: bucket %s", bucketctl.ErrNotFound, bucket)
	}

	return nil
}

// walkBucket returns every object in bucket whose key starts with prefix,
// sorted by key.
func (s *Store) walkBucket(ctx context.Context, bucket, prefix string) ([]bucketctl.ObjectInfo, error) {
	var objects []bucketctl.ObjectInfo

	err := fs.WalkDir(s.root.FS(), bucket, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		key := strings.TrimPrefix(p, bucket+"/")
		if !strings.HasPrefix(key, prefix) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("walk dir: %w", err)
		}

		objects = append(objects, bucketctl.ObjectInfo{
			Key:          key,
			Size:         info.Size(),
			LastModified: info.ModTime().UTC(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	// WalkDir orders by path segment, which differs from byte order for keys
	// like "a-b" and "a/b".
	slices.SortFunc(objects, func(a, b bucketctl.ObjectInfo) int {
		return strings.Compare(a.Key, b.Key)
	})

	return objects, nil
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

func (s *Store) writeAtomic(ctx context.Context, dest string, content io.Reader) (string, error) {
	tmpFile := tmpFileName()
	t, createErr := s.root.Create(tmpFile)
	if createErr != nil {
		return "", fmt.Errorf("could not open temp file: %w", createErr)
	}

	success := false
	defer func() {
		if closeErr := t.Close(); closeErr != nil {
			slog.Warn("failed to close tmp file", "err", closeErr)
		}
		if !success {
			if rmErr := s.root.Remove(tmpFile); rmErr != nil {
				slog.Warn("failed to remove tmp file", "err", rmErr)
			}
		}
	}()

	h := sha256.New()
	w := io.MultiWriter(h, t)

	if _, err := io.Copy(w, &ctxReader{ctx: ctx, r: content}); err != nil {
		return "", fmt.Errorf("could not copy file contents: %w", err)
	}

	if err := t.Sync(); err != nil {
		return "", fmt.Errorf("could not sync written file: %w", err)
	}

	if err := s.root.MkdirAll(path.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("could not create intermediate directories: %w", err)
	}

	if err := s.root.Rename(tmpFile, dest); err != nil {
		return "", fmt.Errorf("failed to rename file: %w", err)
	}

	success = true
	return hex.EncodeToString(h.Sum(nil)), nil
}

func (s *Store) location(p string) string {
	abs, err := filepath.Abs(filepath.Join(s.root.Name(), filepath.FromSlash(p)))
	if err != nil {
		abs = filepath.Join(s.root.Name(), filepath.FromSlash(p))
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String()
}

func objectPath(bucket, key string) string {
	return bucket + "/" + key
}

func tmpFileName() string {
	return fmt.Sprintf("%s%s", tmpPrefix, uuid.New().String())
}

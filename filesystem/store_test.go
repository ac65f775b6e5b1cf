package filesystem_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sagarc03/bucketctl"
	"github.com/sagarc03/bucketctl/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, buckets ...string) (*filesystem.Store, string) {
	t.Helper()
	tempDir := t.TempDir()
	for _, b := range buckets {
		require.NoError(t, os.MkdirAll(filepath.Join(tempDir, b), 0o755))
	}

	osDir, err := os.OpenRoot(tempDir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = osDir.Close() })

	return filesystem.NewFileStorage(osDir), tempDir
}

func writeObject(t *testing.T, dir, bucket, key, content string) {
	t.Helper()
	p := filepath.Join(dir, bucket, filepath.FromSlash(key))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func pageKeys(p bucketctl.Page) []string {
	keys := make([]string, len(p.Objects))
	for i := range p.Objects {
		keys[i] = p.Objects[i].Key
	}
	return keys
}

func TestOpen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	store, err := filesystem.Open(dir)
	require.NoError(t, err)
	assert.NoError(t, store.Close())

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = filesystem.Open("")
	assert.Error(t, err)
}

func TestStore_ListPage_Success(t *testing.T) {
	store, dir := newStore(t, "photos")
	writeObject(t, dir, "photos", "b.txt", "bb")
	writeObject(t, dir, "photos", "a/b.txt", "a")
	writeObject(t, dir, "photos", "a-b.txt", "ab")

	page, err := store.ListPage(context.Background(), bucketctl.PageQuery{Bucket: "photos"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a-b.txt", "a/b.txt", "b.txt"}, pageKeys(page))
	assert.Empty(t, page.NextToken)
	assert.Equal(t, int64(2), page.Objects[0].Size)
	assert.False(t, page.Objects[0].LastModified.IsZero())
}

func TestStore_ListPage_Prefix(t *testing.T) {
	store, dir := newStore(t, "photos")
	writeObject(t, dir, "photos", "logs/a.log", "a")
	writeObject(t, dir, "photos", "logs/b.log", "b")
	writeObject(t, dir, "photos", "other.txt", "c")

	page, err := store.ListPage(context.Background(), bucketctl.PageQuery{Bucket: "photos", Prefix: "logs/"})
	require.NoError(t, err)
	assert.Equal(t, []string{"logs/a.log", "logs/b.log"}, pageKeys(page))
}

func TestStore_ListPage_Pagination(t *testing.T) {
	store, dir := newStore(t, "photos")
	for i := range 5 {
		writeObject(t, dir, "photos", fmt.Sprintf("f%d", i), "x")
	}
	ctx := context.Background()

	first, err := store.ListPage(ctx, bucketctl.PageQuery{Bucket: "photos", MaxKeys: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"f0", "f1"}, pageKeys(first))
	assert.Equal(t, "f1", first.NextToken)

	second, err := store.ListPage(ctx, bucketctl.PageQuery{Bucket: "photos", MaxKeys: 2, ContinuationToken: first.NextToken})
	require.NoError(t, err)
	assert.Equal(t, []string{"f2", "f3"}, pageKeys(second))

	last, err := store.ListPage(ctx, bucketctl.PageQuery{Bucket: "photos", MaxKeys: 2, ContinuationToken: second.NextToken})
	require.NoError(t, err)
	assert.Equal(t, []string{"f4"}, pageKeys(last))
	assert.Empty(t, last.NextToken)
}

func TestStore_ListPage_EmptyBucket(t *testing.T) {
	store, _ := newStore(t, "photos")

	page, err := store.ListPage(context.Background(), bucketctl.PageQuery{Bucket: "photos"})
	require.NoError(t, err)
	assert.Empty(t, page.Objects)
}

func TestStore_ListPage_BucketNotFound(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.ListPage(context.Background(), bucketctl.PageQuery{Bucket: "missing"})
	assert.ErrorIs(t, err, bucketctl.ErrNotFound)
}

func TestStore_ListPage_InvalidBucket(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.ListPage(context.Background(), bucketctl.PageQuery{Bucket: "../etc"})
	assert.ErrorIs(t, err, bucketctl.ErrArgument)
}

func TestStore_ListPage_ContextCanceled(t *testing.T) {
	store, _ := newStore(t, "photos")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.ListPage(ctx, bucketctl.PageQuery{Bucket: "photos"})
	assert.Equal(t, context.Canceled, err)
}

func TestStore_Put_Success(t *testing.T) {
	store, dir := newStore(t, "photos")

	out, err := store.Put(context.Background(), bucketctl.PutInput{
		Bucket: "photos",
		Key:    "nested/dir/test.txt",
		Body:   []byte("test content"),
	})
	require.NoError(t, err)

	assert.Len(t, out.ETag, 64) // SHA256 hex length
	assert.True(t, strings.HasPrefix(out.Location, "file://"))
	assert.True(t, strings.HasSuffix(out.Location, "/photos/nested/dir/test.txt"))

	data, err := os.ReadFile(filepath.Join(dir, "photos", "nested", "dir", "test.txt"))
	require.NoError(t, err)
	assert.Equal(t, []byte("test content"), data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should be renamed away")
}

func TestStore_Put_ETagConsistency(t *testing.T) {
	store, _ := newStore(t, "photos")
	ctx := context.Background()

	a, err := store.Put(ctx, bucketctl.PutInput{Bucket: "photos", Key: "a", Body: []byte("same")})
	require.NoError(t, err)
	b, err := store.Put(ctx, bucketctl.PutInput{Bucket: "photos", Key: "b", Body: []byte("same")})
	require.NoError(t, err)
	c, err := store.Put(ctx, bucketctl.PutInput{Bucket: "photos", Key: "c", Body: []byte("different")})
	require.NoError(t, err)

	assert.Equal(t, a.ETag, b.ETag)
	assert.NotEqual(t, a.ETag, c.ETag)
}

func TestStore_Put_Overwrite(t *testing.T) {
	store, dir := newStore(t, "photos")
	ctx := context.Background()

	_, err := store.Put(ctx, bucketctl.PutInput{Bucket: "photos", Key: "a", Body: []byte("first")})
	require.NoError(t, err)
	_, err = store.Put(ctx, bucketctl.PutInput{Bucket: "photos", Key: "a", Body: []byte("second")})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "photos", "a"))
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestStore_Put_InvalidKey(t *testing.T) {
	store, _ := newStore(t, "photos")

	_, err := store.Put(context.Background(), bucketctl.PutInput{Bucket: "photos", Key: "../escape", Body: []byte("x")})
	assert.ErrorIs(t, err, bucketctl.ErrArgument)
}

func TestStore_Put_BucketNotFound(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.Put(context.Background(), bucketctl.PutInput{Bucket: "missing", Key: "a", Body: []byte("x")})
	assert.ErrorIs(t, err, bucketctl.ErrNotFound)
}

func TestStore_Put_ContextCanceled(t *testing.T) {
	store, _ := newStore(t, "photos")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := store.Put(ctx, bucketctl.PutInput{Bucket: "photos", Key: "a", Body: []byte("x")})
	assert.Equal(t, context.Canceled, err)
	assert.Empty(t, out.ETag)
}

func TestStore_DeleteBatch_Success(t *testing.T) {
	store, dir := newStore(t, "photos")
	writeObject(t, dir, "photos", "logs/a.log", "a")
	writeObject(t, dir, "photos", "b.log", "b")
	writeObject(t, dir, "photos", "keep.txt", "k")

	outcomes, err := store.DeleteBatch(context.Background(), "photos", []string{"logs/a.log", "b.log"})
	require.NoError(t, err)

	require.Len(t, outcomes, 2)
	for _, o := range outcomes {
		assert.True(t, o.Deleted, o.Key)
		assert.NoError(t, o.Err)
	}

	_, err = os.Stat(filepath.Join(dir, "photos", "logs"))
	assert.True(t, os.IsNotExist(err), "empty directory should be pruned")

	_, err = os.Stat(filepath.Join(dir, "photos", "keep.txt"))
	assert.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "photos"))
	assert.NoError(t, err, "bucket directory must survive")
}

func TestStore_DeleteBatch_MissingKeyCountsAsDeleted(t *testing.T) {
	store, _ := newStore(t, "photos")

	outcomes, err := store.DeleteBatch(context.Background(), "photos", []string{"ghost"})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].Deleted)
}

func TestStore_DeleteBatch_InvalidKey(t *testing.T) {
	store, _ := newStore(t, "photos")

	outcomes, err := store.DeleteBatch(context.Background(), "photos", []string{"a/../../b"})
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.False(t, outcomes[0].Deleted)
	assert.ErrorIs(t, outcomes[0].Err, bucketctl.ErrArgument)
}

func TestStore_DeleteBatch_TooManyKeys(t *testing.T) {
	store, _ := newStore(t, "photos")

	keys := make([]string, bucketctl.MaxDeleteBatch+1)
	_, err := store.DeleteBatch(context.Background(), "photos", keys)
	assert.ErrorIs(t, err, bucketctl.ErrArgument)
}

func TestStore_DeleteBatch_BucketNotFound(t *testing.T) {
	store, _ := newStore(t)

	_, err := store.DeleteBatch(context.Background(), "missing", []string{"a"})
	assert.ErrorIs(t, err, bucketctl.ErrNotFound)
}

func TestStore_Integration_PutListDelete(t *testing.T) {
	store, _ := newStore(t, "photos")
	ctx := context.Background()

	service, err := bucketctl.NewService(store, bucketctl.ServiceConfig{PageSize: 2})
	require.NoError(t, err)

	for _, key := range []string{"a.txt", "a.log", "b.log"} {
		_, err := store.Put(ctx, bucketctl.PutInput{Bucket: "photos", Key: key, Body: []byte(key)})
		require.NoError(t, err)
	}

	listed, err := service.List(ctx, "photos", "", bucketctl.ListOptions{All: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.log", "a.txt", "b.log"}, listed.Keys())

	deleted, err := service.DeleteFiltered(ctx, "photos", "", `\.log$`, bucketctl.DeleteOptions{
		ListOptions: bucketctl.ListOptions{All: true},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.log", "b.log"}, deleted.Matched)

	listed, err = service.List(ctx, "photos", "", bucketctl.ListOptions{All: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, listed.Keys())
}

func TestStore_ConcurrentPuts(t *testing.T) {
	store, _ := newStore(t, "photos")
	ctx := context.Background()

	done := make(chan bool, 10)
	for i := range 10 {
		go func(n int) {
			content := fmt.Appendf(nil, "content-%d", n)
			key := fmt.Sprintf("file-%d.txt", n)
			_, err := store.Put(ctx, bucketctl.PutInput{Bucket: "photos", Key: key, Body: content})
			assert.NoError(t, err)
			done <- true
		}(i)
	}

	for range 10 {
		<-done
	}

	page, err := store.ListPage(ctx, bucketctl.PageQuery{Bucket: "photos"})
	require.NoError(t, err)
	assert.Len(t, page.Objects, 10)
}

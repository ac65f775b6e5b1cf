package clientcli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sagarc03/bucketctl"
	"github.com/sagarc03/bucketctl/clientcli"
	"github.com/sagarc03/bucketctl/filesystem"
)

type SpyObjectStore struct {
	mock.Mock
}

func (s *SpyObjectStore) ListPage(ctx context.Context, q bucketctl.PageQuery) (bucketctl.Page, error) {
	args := s.Called(ctx, q)
	return args.Get(0).(bucketctl.Page), args.Error(1)
}

func (s *SpyObjectStore) Put(ctx context.Context, in bucketctl.PutInput) (bucketctl.PutOutput, error) {
	args := s.Called(ctx, in)
	return args.Get(0).(bucketctl.PutOutput), args.Error(1)
}

func (s *SpyObjectStore) DeleteBatch(ctx context.Context, bucket string, keys []string) ([]bucketctl.DeleteOutcome, error) {
	args := s.Called(ctx, bucket, keys)
	outcomes, _ := args.Get(0).([]bucketctl.DeleteOutcome)
	return outcomes, args.Error(1)
}

type harness struct {
	dir        string
	dispatcher *clientcli.Dispatcher
	out        *bytes.Buffer
	errOut     *bytes.Buffer
}

// newHarness backs a dispatcher with a filesystem store holding files,
// given as bucket-relative paths.
func newHarness(t *testing.T, jsonOutput bool, files ...string) *harness {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "photos"), 0o755))
	for _, f := range files {
		path := filepath.Join(dir, "photos", filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("data:"+f), 0o644))
	}

	store, err := filesystem.Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return newHarnessWithStore(t, store, dir, jsonOutput)
}

func newHarnessWithStore(t *testing.T, store bucketctl.ObjectStore, dir string, jsonOutput bool) *harness {
	t.Helper()

	svc, err := bucketctl.NewService(store, bucketctl.ServiceConfig{})
	require.NoError(t, err)

	h := &harness{dir: dir, out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	h.dispatcher = &clientcli.Dispatcher{
		Service:   svc,
		Formatter: clientcli.NewFormatter(jsonOutput, false, false),
		Out:       h.out,
		Err:       h.errOut,
	}
	return h
}

func (h *harness) run(t *testing.T, verb string, args ...string) error {
	t.Helper()
	return h.runWith(t, clientcli.InvocationFlags{}, verb, args...)
}

func (h *harness) runWith(t *testing.T, flags clientcli.InvocationFlags, verb string, args ...string) error {
	t.Helper()
	inv, err := clientcli.ParseInvocation(verb, args, flags)
	require.NoError(t, err)
	return h.dispatcher.Run(context.Background(), inv)
}

func TestDispatcher_List(t *testing.T) {
	t.Run("prints keys in order", func(t *testing.T) {
		h := newHarness(t, false, "b.png", "a.jpg", "2024/c.jpg")

		require.NoError(t, h.run(t, "list", "photos"))
		assert.Equal(t, "2024/c.jpg\na.jpg\nb.png\n", h.out.String())
		assert.Empty(t, h.errOut.String())
	})

	t.Run("prefix", func(t *testing.T) {
		h := newHarness(t, false, "a.jpg", "2024/c.jpg", "2024/d.jpg")

		require.NoError(t, h.run(t, "list", "photos", "2024/"))
		assert.Equal(t, "2024/c.jpg\n2024/d.jpg\n", h.out.String())
	})

	t.Run("empty bucket", func(t *testing.T) {
		h := newHarness(t, false)

		require.NoError(t, h.run(t, "list", "photos"))
		assert.Equal(t, "No files found\n", h.out.String())
	})

	t.Run("missing bucket", func(t *testing.T) {
		h := newHarness(t, false)

		err := h.run(t, "list", "videos")
		require.Error(t, err)
		assert.ErrorIs(t, err, bucketctl.ErrNotFound)
		assert.Empty(t, h.out.String())
		assert.True(t, strings.HasPrefix(h.errOut.String(), "Error: "))
	})

	t.Run("json", func(t *testing.T) {
		h := newHarness(t, true, "a.jpg")

		require.NoError(t, h.run(t, "list", "photos"))

		var got bucketctl.ListResult
		require.NoError(t, json.Unmarshal(h.out.Bytes(), &got))
		assert.Equal(t, []string{"a.jpg"}, got.Keys())
		assert.Equal(t, "photos", got.Bucket)
	})
}

func TestDispatcher_ListFilter(t *testing.T) {
	t.Run("matching keys only", func(t *testing.T) {
		h := newHarness(t, false, "a.jpg", "b.png", "c.jpg")

		require.NoError(t, h.run(t, "list-filter", "photos", `\.jpg$`))
		assert.Equal(t, "a.jpg\nc.jpg\n", h.out.String())
	})

	t.Run("no match prints nothing", func(t *testing.T) {
		h := newHarness(t, false, "a.jpg")

		require.NoError(t, h.run(t, "list-filter", "photos", `\.gif$`))
		assert.Empty(t, h.out.String())
	})

	t.Run("invalid pattern", func(t *testing.T) {
		spy := new(SpyObjectStore)
		h := newHarnessWithStore(t, spy, "", false)

		err := h.run(t, "list-filter", "photos", "[unclosed")
		assert.ErrorIs(t, err, bucketctl.ErrPattern)
		assert.Contains(t, h.errOut.String(), "Error: ")
		spy.AssertNotCalled(t, "ListPage", mock.Anything, mock.Anything)
	})
}

func TestDispatcher_Upload(t *testing.T) {
	t.Run("writes file and prints location", func(t *testing.T) {
		h := newHarness(t, false)
		src := filepath.Join(t.TempDir(), "report.csv")
		require.NoError(t, os.WriteFile(src, []byte("a,b\n1,2\n"), 0o644))

		require.NoError(t, h.run(t, "upload", "photos", src, "reports/q1.csv"))

		assert.True(t, strings.HasPrefix(h.out.String(), "File uploaded successfully: "))
		assert.Contains(t, h.out.String(), "reports/q1.csv")

		data, err := os.ReadFile(filepath.Join(h.dir, "photos", "reports", "q1.csv"))
		require.NoError(t, err)
		assert.Equal(t, "a,b\n1,2\n", string(data))
	})

	t.Run("missing local file sends nothing", func(t *testing.T) {
		spy := new(SpyObjectStore)
		h := newHarnessWithStore(t, spy, "", false)

		err := h.run(t, "upload", "photos", filepath.Join(t.TempDir(), "missing.txt"), "k")
		require.Error(t, err)
		assert.Empty(t, h.out.String())
		assert.Contains(t, h.errOut.String(), "Error: ")
		spy.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
	})
}

func TestDispatcher_Delete(t *testing.T) {
	t.Run("deletes matching keys", func(t *testing.T) {
		h := newHarness(t, false, "old-1.log", "old-2.log", "new.log")

		require.NoError(t, h.run(t, "delete", "photos", "^old-"))

		assert.Equal(t, "Deleted: old-1.log\nDeleted: old-2.log\nFiles deleted successfully.\n", h.out.String())
		assert.NoFileExists(t, filepath.Join(h.dir, "photos", "old-1.log"))
		assert.FileExists(t, filepath.Join(h.dir, "photos", "new.log"))
	})

	t.Run("no match", func(t *testing.T) {
		h := newHarness(t, false, "new.log")

		require.NoError(t, h.run(t, "delete", "photos", "^old-"))
		assert.Equal(t, "No files match the filter.\n", h.out.String())
	})

	t.Run("dry run keeps files", func(t *testing.T) {
		h := newHarness(t, false, "old-1.log")

		require.NoError(t, h.runWith(t, clientcli.InvocationFlags{DryRun: true}, "delete", "photos", "^old-"))
		assert.Contains(t, h.out.String(), "Would delete: old-1.log")
		assert.FileExists(t, filepath.Join(h.dir, "photos", "old-1.log"))
	})

	t.Run("interactive declined", func(t *testing.T) {
		h := newHarness(t, false, "old-1.log")
		var asked []string
		h.dispatcher.Confirm = func(bucket string, keys []string) (bool, error) {
			asked = keys
			return false, nil
		}

		require.NoError(t, h.runWith(t, clientcli.InvocationFlags{Interactive: true}, "delete", "photos", "^old-"))
		assert.Equal(t, []string{"old-1.log"}, asked)
		assert.Equal(t, "Delete cancelled.\n", h.out.String())
		assert.FileExists(t, filepath.Join(h.dir, "photos", "old-1.log"))
	})

	t.Run("interactive without confirm", func(t *testing.T) {
		spy := new(SpyObjectStore)
		h := newHarnessWithStore(t, spy, "", false)

		err := h.runWith(t, clientcli.InvocationFlags{Interactive: true}, "delete", "photos", "^old-")
		assert.ErrorIs(t, err, clientcli.ErrConfirmUnavailable)
		spy.AssertNotCalled(t, "ListPage", mock.Anything, mock.Anything)
	})

	t.Run("per-key failures are printed", func(t *testing.T) {
		spy := new(SpyObjectStore)
		spy.On("ListPage", mock.Anything, mock.Anything).Return(bucketctl.Page{
			Objects: []bucketctl.ObjectInfo{{Key: "old-1.log"}, {Key: "old-2.log"}},
		}, nil).Once()
		spy.On("DeleteBatch", mock.Anything, "photos", []string{"old-1.log", "old-2.log"}).Return([]bucketctl.DeleteOutcome{
			{Key: "old-1.log", Deleted: true},
			{Key: "old-2.log", Err: errors.New("AccessDenied: denied")},
		}, nil).Once()
		h := newHarnessWithStore(t, spy, "", false)

		err := h.run(t, "delete", "photos", "^old-")
		assert.ErrorIs(t, err, bucketctl.ErrBackend)
		assert.Equal(t, "Deleted: old-1.log\nError: old-2.log - AccessDenied: denied\n", h.out.String())
		assert.Contains(t, h.errOut.String(), "1 of 2 keys could not be deleted")
		spy.AssertExpectations(t)
	})

	t.Run("json", func(t *testing.T) {
		h := newHarness(t, true, "old-1.log")

		require.NoError(t, h.run(t, "delete", "photos", "^old-"))

		var got struct {
			Matched []string `json:"matched"`
			Results []struct {
				Key     string `json:"key"`
				Deleted bool   `json:"deleted"`
			} `json:"results"`
		}
		require.NoError(t, json.Unmarshal(h.out.Bytes(), &got))
		assert.Equal(t, []string{"old-1.log"}, got.Matched)
		require.Len(t, got.Results, 1)
		assert.True(t, got.Results[0].Deleted)
	})
}

func TestDispatcher_UnknownInvocation(t *testing.T) {
	h := newHarnessWithStore(t, new(SpyObjectStore), "", true)

	err := h.dispatcher.Run(context.Background(), nil)
	assert.ErrorIs(t, err, clientcli.ErrUnknownVerb)
	assert.Contains(t, h.errOut.String(), `"error"`)
}

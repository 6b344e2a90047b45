package storage_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"agent-reconciler/core/storage"
	"agent-reconciler/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newArchive(retain int) (*storage.Archive, *mocks.Client) {
	client := new(mocks.Client)
	cfg := storage.Config{Bucket: "reconciler", Prefix: "comparisons", Retain: retain}
	return storage.NewArchive(client, cfg, nil), client
}

func runObjects(n int) []minio.ObjectInfo {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	objs := make([]minio.ObjectInfo, n)
	for i := range objs {
		objs[i] = minio.ObjectInfo{
			Key:          "comparisons/runs/run-" + string(rune('a'+i)) + ".json",
			Size:         10,
			LastModified: base.Add(time.Duration(i) * time.Hour),
		}
	}
	return objs
}

// TestArchivePut tests that a document is written both as a run and as latest.
func TestArchivePut(t *testing.T) {
	ctx := context.Background()
	a, client := newArchive(0)
	doc := []byte(`{"data_type":"comparison"}`)

	client.On("BucketExists", ctx, "reconciler").Return(false, nil)
	client.On("MakeBucket", ctx, "reconciler", mock.Anything).Return(nil)
	client.On("PutObject", ctx, "reconciler", "comparisons/runs/r1.json", int64(len(doc)), mock.Anything).
		Return(minio.UploadInfo{}, nil)
	client.On("PutObject", ctx, "reconciler", "comparisons/latest.json", int64(len(doc)), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	key, err := a.Put(ctx, "r1", doc)
	require.NoError(t, err)
	assert.Equal(t, "comparisons/runs/r1.json", key)
	client.AssertExpectations(t)
	client.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything, mock.Anything)
}

// TestArchivePut_UploadFails tests that upload errors are returned.
func TestArchivePut_UploadFails(t *testing.T) {
	ctx := context.Background()
	a, client := newArchive(0)

	client.On("BucketExists", ctx, "reconciler").Return(true, nil)
	client.On("PutObject", ctx, "reconciler", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("denied"))

	_, err := a.Put(ctx, "r1", []byte("{}"))
	assert.ErrorContains(t, err, "denied")
	client.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

// TestArchiveList tests newest-first ordering.
func TestArchiveList(t *testing.T) {
	ctx := context.Background()
	a, client := newArchive(0)

	client.On("ListObjects", ctx, "reconciler", minio.ListObjectsOptions{Prefix: "comparisons/runs/", Recursive: true}).
		Return(runObjects(3))

	entries, err := a.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "comparisons/runs/run-c.json", entries[0].Key)
	assert.Equal(t, "comparisons/runs/run-a.json", entries[2].Key)
}

// TestArchivePrune tests that only runs beyond the retention count are removed.
func TestArchivePrune(t *testing.T) {
	ctx := context.Background()
	a, client := newArchive(2)

	client.On("ListObjects", ctx, "reconciler", mock.Anything).Return(runObjects(4))
	client.On("RemoveObjects", ctx, "reconciler", []string{"comparisons/runs/run-b.json", "comparisons/runs/run-a.json"}, mock.Anything).
		Return([]minio.RemoveObjectError(nil))

	removed, err := a.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	client.AssertExpectations(t)
}

// TestArchivePrune_PartialFailure tests that delete failures are reported.
func TestArchivePrune_PartialFailure(t *testing.T) {
	ctx := context.Background()
	a, client := newArchive(1)

	client.On("ListObjects", ctx, "reconciler", mock.Anything).Return(runObjects(3))
	client.On("RemoveObjects", ctx, "reconciler", mock.Anything, mock.Anything).
		Return([]minio.RemoveObjectError{{ObjectName: "comparisons/runs/run-a.json", Err: errors.New("locked")}})

	removed, err := a.Prune(ctx)
	assert.ErrorContains(t, err, "locked")
	assert.Equal(t, 1, removed)
}

// TestArchiveLatest tests downloading the latest document and the not found mapping.
func TestArchiveLatest(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		a, client := newArchive(0)
		client.On("GetObject", ctx, "reconciler", "comparisons/latest.json", mock.Anything).
			Return(io.NopCloser(strings.NewReader(`{"ok":true}`)), nil)

		data, err := a.Latest(ctx)
		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":true}`, string(data))
	})

	t.Run("Missing", func(t *testing.T) {
		a, client := newArchive(0)
		client.On("GetObject", ctx, "reconciler", "comparisons/latest.json", mock.Anything).
			Return(nil, minio.ErrorResponse{Code: "NoSuchKey", Message: "missing"})

		_, err := a.Latest(ctx)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// LatestObject is the key, relative to the prefix, of the newest document.
const LatestObject = "latest.json"

// ErrNotFound is returned when the requested object does not exist.
var ErrNotFound = errors.New("object not found")

// Entry describes one archived run.
type Entry struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Archive stores comparison documents under <prefix>/runs/<id>.json and
// mirrors the newest one to <prefix>/latest.json.
type Archive struct {
	client Client
	bucket string
	prefix string
	retain int
	logger *zap.Logger
}

// NewArchive wraps client with the bucket layout from cfg.
func NewArchive(client Client, cfg Config, logger *zap.Logger) *Archive {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archive{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		retain: cfg.Retain,
		logger: logger,
	}
}

// Bucket returns the target bucket name.
func (a *Archive) Bucket() string { return a.bucket }

// Key returns the full object key for name.
func (a *Archive) Key(name string) string {
	return path.Join(a.prefix, name)
}

// RunKey returns the object key of the run with id.
func (a *Archive) RunKey(id string) string {
	return a.Key(path.Join("runs", id+".json"))
}

// EnsureBucket creates the bucket when it does not exist yet.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	ok, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if ok {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	a.logger.Info("Created storage bucket", zap.String("bucket", a.bucket))
	return nil
}

// Put uploads doc as run id and as the latest document, then prunes old
// runs. It returns the run object key.
func (a *Archive) Put(ctx context.Context, id string, doc []byte) (string, error) {
	if err := a.EnsureBucket(ctx); err != nil {
		return "", err
	}

	key := a.RunKey(id)
	for _, k := range []string{key, a.Key(LatestObject)} {
		if err := a.put(ctx, k, doc); err != nil {
			return "", err
		}
	}

	if removed, err := a.Prune(ctx); err != nil {
		a.logger.Warn("Failed to prune archive", zap.Error(err))
	} else if removed > 0 {
		a.logger.Info("Pruned archived runs", zap.Int("removed", removed))
	}
	return key, nil
}

func (a *Archive) put(ctx context.Context, key string, doc []byte) error {
	_, err := a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(doc), int64(len(doc)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// Get downloads the object at key. A missing key yields ErrNotFound.
func (a *Archive) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, a.notFound(key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, a.notFound(key, err)
	}
	return data, nil
}

// Latest downloads the newest archived document.
func (a *Archive) Latest(ctx context.Context) ([]byte, error) {
	return a.Get(ctx, a.Key(LatestObject))
}

func (a *Archive) notFound(key string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return fmt.Errorf("failed to download %s: %w", key, err)
}

// List returns the archived runs, newest first.
func (a *Archive) List(ctx context.Context) ([]Entry, error) {
	entries := []Entry{}
	opts := minio.ListObjectsOptions{Prefix: a.Key("runs") + "/", Recursive: true}
	for obj := range a.client.ListObjects(ctx, a.bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", opts.Prefix, obj.Err)
		}
		entries = append(entries, Entry{Key: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].LastModified.Equal(entries[j].LastModified) {
			return entries[i].LastModified.After(entries[j].LastModified)
		}
		return entries[i].Key > entries[j].Key
	})
	return entries, nil
}

// Prune removes the oldest runs beyond the retention count and returns how
// many were removed.
func (a *Archive) Prune(ctx context.Context) (int, error) {
	if a.retain <= 0 {
		return 0, nil
	}
	entries, err := a.List(ctx)
	if err != nil {
		return 0, err
	}
	if len(entries) <= a.retain {
		return 0, nil
	}
	stale := entries[a.retain:]

	objects := make(chan minio.ObjectInfo, len(stale))
	for _, e := range stale {
		objects <- minio.ObjectInfo{Key: e.Key}
	}
	close(objects)

	var errs []error
	for rerr := range a.client.RemoveObjects(ctx, a.bucket, objects, minio.RemoveObjectsOptions{}) {
		errs = append(errs, fmt.Errorf("%s: %w", rerr.ObjectName, rerr.Err))
	}
	if len(errs) > 0 {
		return len(stale) - len(errs), errors.Join(errs...)
	}
	return len(stale), nil
}

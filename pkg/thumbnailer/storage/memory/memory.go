package memory

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer"
)

// Backend is an in-memory implementation of the thumbnailer.BlobStore
// interface. Intended for tests and local development.
type Backend struct {
	mu      sync.RWMutex
	objects map[string]object
	now     func() time.Time
}

type object struct {
	data      []byte
	mimeType  string
	updatedAt time.Time
}

// Option configures the in-memory backend
type Option func(*Backend)

// WithClock overrides the clock used to stamp object modification
// times. Useful for retention tests.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) {
		b.now = now
	}
}

// New creates a new in-memory storage backend
func New(options ...Option) thumbnailer.BlobStore {
	b := &Backend{
		objects: make(map[string]object),
		now:     time.Now,
	}
	for _, option := range options {
		option(b)
	}
	return b
}

// Upload uploads content directly
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	return b.UploadWithParams(ctx, reader, thumbnailer.UploadParams{
		ObjectKey: objectKey,
		MimeType:  "application/octet-stream",
	})
}

// UploadWithParams uploads content with parameters
func (b *Backend) UploadWithParams(ctx context.Context, reader io.Reader, params thumbnailer.UploadParams) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[params.ObjectKey] = object{
		data:      data,
		mimeType:  params.MimeType,
		updatedAt: b.now().UTC(),
	}
	return nil
}

// Download downloads content directly
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[objectKey]
	if !exists {
		return nil, thumbnailer.ErrObjectNotFound
	}

	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

// Delete deletes content
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[objectKey]; !exists {
		return thumbnailer.ErrObjectNotFound
	}

	delete(b.objects, objectKey)
	return nil
}

// GetObjectMeta retrieves metadata for an object in memory
func (b *Backend) GetObjectMeta(ctx context.Context, objectKey string) (*thumbnailer.ObjectMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[objectKey]
	if !exists {
		return nil, thumbnailer.ErrObjectNotFound
	}

	return b.metaLocked(objectKey, obj), nil
}

// List returns metadata for every object under prefix in key order
func (b *Backend) List(ctx context.Context, prefix string) ([]*thumbnailer.ObjectMeta, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var metas []*thumbnailer.ObjectMeta
	for key, obj := range b.objects {
		if strings.HasPrefix(key, prefix) {
			metas = append(metas, b.metaLocked(key, obj))
		}
	}

	sort.Slice(metas, func(i, j int) bool { return metas[i].Key < metas[j].Key })
	return metas, nil
}

func (b *Backend) metaLocked(key string, obj object) *thumbnailer.ObjectMeta {
	return &thumbnailer.ObjectMeta{
		Key:         key,
		Size:        int64(len(obj.data)),
		ContentType: obj.mimeType,
		UpdatedAt:   obj.updatedAt,
		Metadata:    map[string]string{"mime_type": obj.mimeType},
	}
}

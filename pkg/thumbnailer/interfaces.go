package thumbnailer

import (
	"context"
	"io"
	"time"
)

// BlobStore defines the interface for storage backends. Put and get
// are expected to be atomic per object: a reader never observes a
// partially written object under its final key.
type BlobStore interface {
	// Upload uploads content directly
	Upload(ctx context.Context, objectKey string, reader io.Reader) error

	// UploadWithParams uploads content with additional parameters
	UploadWithParams(ctx context.Context, reader io.Reader, params UploadParams) error

	// Download downloads content directly. Returns ErrObjectNotFound if
	// no object exists under the key.
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete deletes content. Returns ErrObjectNotFound if no object
	// exists under the key.
	Delete(ctx context.Context, objectKey string) error

	// GetObjectMeta retrieves metadata for an object
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)

	// List returns metadata for every object whose key starts with
	// prefix, in key order
	List(ctx context.Context, prefix string) ([]*ObjectMeta, error)
}

// Notifier defines the interface for the completion notification
// channel. Publishing is fire-and-forget from the processing unit's
// point of view: errors are surfaced as advisory status only.
type Notifier interface {
	Publish(ctx context.Context, event NotificationEvent) error
}

// ObjectMeta contains metadata about an object in storage
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	ETag        string
	Metadata    map[string]string
}

// UploadParams contains parameters for uploading an object
type UploadParams struct {
	ObjectKey string
	MimeType  string
}

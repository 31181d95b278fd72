package thumbnailer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Defaults for implementation parameters not fixed by the invocation
// contract.
const (
	DefaultThumbnailWidth  = 256
	DefaultThumbnailHeight = 256
	DefaultMaxSourceBytes  = 25 << 20 // 25 MiB
	jpegQuality            = 85
)

// service implements the Service interface
type service struct {
	source          BlobStore
	destination     BlobStore
	destinationID   string
	notifier        Notifier
	notificationsOn bool
	keyPrefix       string
	maxWidth        int
	maxHeight       int
	maxSourceBytes  int64
	logger          *slog.Logger
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithSourceStore sets the store processed objects are read from
func WithSourceStore(store BlobStore) Option {
	return func(s *service) {
		s.source = store
	}
}

// WithDestinationStore sets the store derived objects are written to.
// The id is the logical store identifier reported in results.
func WithDestinationStore(id string, store BlobStore) Option {
	return func(s *service) {
		s.destinationID = id
		s.destination = store
	}
}

// WithNotifier sets the notification channel. Publishing additionally
// requires WithNotificationsEnabled; with the default (disabled) no
// publish is ever attempted.
func WithNotifier(notifier Notifier) Option {
	return func(s *service) {
		s.notifier = notifier
	}
}

// WithNotificationsEnabled toggles completion notifications. The flag
// is read once at construction, not per invocation.
func WithNotificationsEnabled(enabled bool) Option {
	return func(s *service) {
		s.notificationsOn = enabled
	}
}

// WithKeyPrefix sets the destination key prefix for derived objects
func WithKeyPrefix(prefix string) Option {
	return func(s *service) {
		s.keyPrefix = normalizePrefix(prefix)
	}
}

// WithThumbnailSize sets the bounding box thumbnails are fit into,
// preserving aspect ratio
func WithThumbnailSize(width, height int) Option {
	return func(s *service) {
		s.maxWidth = width
		s.maxHeight = height
	}
}

// WithMaxSourceBytes sets the largest source object the service will
// process. Larger objects fail with ErrResourceLimitExceeded.
func WithMaxSourceBytes(n int64) Option {
	return func(s *service) {
		s.maxSourceBytes = n
	}
}

// WithLogger sets the structured logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// New creates a new processing service with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		keyPrefix:      DefaultKeyPrefix,
		maxWidth:       DefaultThumbnailWidth,
		maxHeight:      DefaultThumbnailHeight,
		maxSourceBytes: DefaultMaxSourceBytes,
		logger:         slog.Default(),
	}

	for _, option := range options {
		option(s)
	}

	if s.source == nil {
		return nil, errors.New("source store is required")
	}
	if s.destination == nil {
		return nil, errors.New("destination store is required")
	}
	if s.maxWidth <= 0 || s.maxHeight <= 0 {
		return nil, ErrInvalidDimensions
	}
	if s.maxSourceBytes <= 0 {
		return nil, errors.New("max source bytes must be positive")
	}
	if s.notificationsOn && s.notifier == nil {
		return nil, errors.New("notifier is required when notifications are enabled")
	}

	return s, nil
}

// Process transforms one source object into a thumbnail. It is a pure
// function of the source content: identical bytes always produce
// identical derived bytes under the same destination key.
func (s *service) Process(ctx context.Context, req ProcessingRequest) (*ProcessingResult, error) {
	start := time.Now()
	result := &ProcessingResult{
		RunID:  uuid.New().String(),
		Source: req.Source,
		Status: StatusFailure,
	}

	s.logger.Info("processing source object",
		"run_id", result.RunID,
		"source_key", req.Source.Key,
		"attempt", req.Attempt)

	meta, err := s.source.GetObjectMeta(ctx, req.Source.Key)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			err = ErrSourceNotFound
		}
		return s.fail(ctx, result, start, "head", err)
	}
	if meta.Size > s.maxSourceBytes {
		return s.fail(ctx, result, start, "head", ErrResourceLimitExceeded)
	}

	reader, err := s.source.Download(ctx, req.Source.Key)
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			err = ErrSourceNotFound
		}
		return s.fail(ctx, result, start, "download", err)
	}
	defer reader.Close()

	// Reported size can lag the object; enforce the budget on the
	// actual bytes as well.
	data, err := io.ReadAll(io.LimitReader(reader, s.maxSourceBytes+1))
	if err != nil {
		return s.fail(ctx, result, start, "download", err)
	}
	if int64(len(data)) > s.maxSourceBytes {
		return s.fail(ctx, result, start, "download", ErrResourceLimitExceeded)
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return s.fail(ctx, result, start, "decode", ErrInvalidImage)
	}

	thumbnail := imaging.Fit(img, s.maxWidth, s.maxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumbnail, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		return s.fail(ctx, result, start, "encode", ErrInvalidImage)
	}

	destKey := DestinationKey(s.keyPrefix, req.Source.Key)
	params := UploadParams{ObjectKey: destKey, MimeType: "image/jpeg"}
	if err := s.destination.UploadWithParams(ctx, &buf, params); err != nil {
		return s.fail(ctx, result, start, "upload", errors.Join(ErrDestinationWrite, err))
	}

	result.DerivedObjects = []ObjectReference{{StoreID: s.destinationID, Key: destKey}}
	result.Status = StatusSuccess
	result.Duration = time.Since(start)

	s.logger.Info("processed source object",
		"run_id", result.RunID,
		"source_key", req.Source.Key,
		"destination_key", destKey,
		"duration", result.Duration)

	s.notify(ctx, result)
	return result, nil
}

// fail finalizes a failed invocation. The classified reason is
// recorded on the result and mirrored in the returned error.
func (s *service) fail(ctx context.Context, result *ProcessingResult, start time.Time, op string, err error) (*ProcessingResult, error) {
	perr := &ProcessError{Key: result.Source.Key, Op: op, Err: err}
	result.FailureReason = ReasonForError(err)
	result.Error = perr.Error()
	result.Duration = time.Since(start)

	s.logger.Error("processing failed",
		"run_id", result.RunID,
		"source_key", result.Source.Key,
		"op", op,
		"failure_reason", result.FailureReason,
		"error", err)

	s.notify(ctx, result)
	return result, perr
}

// notify publishes the completion event when notifications are
// enabled. Publish failures are advisory and never alter the result's
// primary status.
func (s *service) notify(ctx context.Context, result *ProcessingResult) {
	if !s.notificationsOn || s.notifier == nil {
		return
	}

	event := NotificationEvent{Result: *result, Enabled: true}
	if err := s.notifier.Publish(ctx, event); err != nil {
		result.NotificationError = err.Error()
		s.logger.Warn("notification publish failed",
			"run_id", result.RunID,
			"source_key", result.Source.Key,
			"error", err)
		return
	}
	result.NotificationSent = true
}

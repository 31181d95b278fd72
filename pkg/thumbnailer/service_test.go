package thumbnailer_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer"
	memorystorage "github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer/storage/memory"
)

// captureNotifier records every published event
type captureNotifier struct {
	mu     sync.Mutex
	events []thumbnailer.NotificationEvent
}

func (n *captureNotifier) Publish(ctx context.Context, event thumbnailer.NotificationEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *captureNotifier) published() []thumbnailer.NotificationEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]thumbnailer.NotificationEvent(nil), n.events...)
}

// failingNotifier simulates an unreachable notification channel
type failingNotifier struct{}

func (n *failingNotifier) Publish(ctx context.Context, event thumbnailer.NotificationEvent) error {
	return errors.New("channel unavailable")
}

// pngFixture encodes a deterministic gradient image
func pngFixture(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadFixture(t *testing.T, store thumbnailer.BlobStore, key string, data []byte) {
	t.Helper()
	err := store.UploadWithParams(context.Background(), bytes.NewReader(data), thumbnailer.UploadParams{
		ObjectKey: key,
		MimeType:  "image/png",
	})
	require.NoError(t, err)
}

func downloadAll(t *testing.T, store thumbnailer.BlobStore, key string) []byte {
	t.Helper()
	reader, err := store.Download(context.Background(), key)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	return data
}

func request(key string) thumbnailer.ProcessingRequest {
	return thumbnailer.ProcessingRequest{
		Source:     thumbnailer.ObjectReference{StoreID: "source", Key: key},
		ReceivedAt: time.Now().UTC(),
		Attempt:    1,
	}
}

func TestServiceCreation(t *testing.T) {
	source := memorystorage.New()
	destination := memorystorage.New()

	tests := []struct {
		name        string
		options     []thumbnailer.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []thumbnailer.Option{},
			expectError: true,
		},
		{
			name: "missing destination should fail",
			options: []thumbnailer.Option{
				thumbnailer.WithSourceStore(source),
			},
			expectError: true,
		},
		{
			name: "source and destination should succeed",
			options: []thumbnailer.Option{
				thumbnailer.WithSourceStore(source),
				thumbnailer.WithDestinationStore("dest", destination),
			},
			expectError: false,
		},
		{
			name: "zero thumbnail dimensions should fail",
			options: []thumbnailer.Option{
				thumbnailer.WithSourceStore(source),
				thumbnailer.WithDestinationStore("dest", destination),
				thumbnailer.WithThumbnailSize(0, 128),
			},
			expectError: true,
		},
		{
			name: "notifications enabled without notifier should fail",
			options: []thumbnailer.Option{
				thumbnailer.WithSourceStore(source),
				thumbnailer.WithDestinationStore("dest", destination),
				thumbnailer.WithNotificationsEnabled(true),
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := thumbnailer.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func TestProcessSuccess(t *testing.T) {
	ctx := context.Background()
	source := memorystorage.New()
	destination := memorystorage.New()

	uploadFixture(t, source, "photos/cat.png", pngFixture(t, 200, 100))

	svc, err := thumbnailer.New(
		thumbnailer.WithSourceStore(source),
		thumbnailer.WithDestinationStore("dest", destination),
		thumbnailer.WithThumbnailSize(64, 64),
	)
	require.NoError(t, err)

	result, err := svc.Process(ctx, request("photos/cat.png"))
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, thumbnailer.StatusSuccess, result.Status)
	assert.Empty(t, result.FailureReason)
	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.DerivedObjects, 1)
	assert.Equal(t, "dest", result.DerivedObjects[0].StoreID)
	assert.Equal(t, "thumbnails/photos/cat.jpg", result.DerivedObjects[0].Key)

	meta, err := destination.GetObjectMeta(ctx, "thumbnails/photos/cat.jpg")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", meta.ContentType)

	// The thumbnail fits the bounding box and preserves aspect ratio
	thumb, err := imaging.Decode(bytes.NewReader(downloadAll(t, destination, "thumbnails/photos/cat.jpg")))
	require.NoError(t, err)
	assert.Equal(t, 64, thumb.Bounds().Dx())
	assert.Equal(t, 32, thumb.Bounds().Dy())
}

func TestProcessIdempotent(t *testing.T) {
	ctx := context.Background()
	source := memorystorage.New()
	destination := memorystorage.New()

	uploadFixture(t, source, "cat.png", pngFixture(t, 120, 120))

	svc, err := thumbnailer.New(
		thumbnailer.WithSourceStore(source),
		thumbnailer.WithDestinationStore("dest", destination),
	)
	require.NoError(t, err)

	// Simulate at-least-once redelivery of the same trigger
	first, err := svc.Process(ctx, request("cat.png"))
	require.NoError(t, err)
	firstBytes := downloadAll(t, destination, first.DerivedObjects[0].Key)

	second, err := svc.Process(ctx, thumbnailer.ProcessingRequest{
		Source:     thumbnailer.ObjectReference{StoreID: "source", Key: "cat.png"},
		ReceivedAt: time.Now().UTC(),
		Attempt:    2,
	})
	require.NoError(t, err)
	secondBytes := downloadAll(t, destination, second.DerivedObjects[0].Key)

	assert.Equal(t, first.DerivedObjects, second.DerivedObjects)
	assert.Equal(t, firstBytes, secondBytes)

	// Reprocessing overwrote, it did not duplicate
	metas, err := destination.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, metas, 1)
}

func TestProcessDeterministic(t *testing.T) {
	ctx := context.Background()
	fixture := pngFixture(t, 150, 90)

	var outputs [][]byte
	for i := 0; i < 2; i++ {
		source := memorystorage.New()
		destination := memorystorage.New()
		uploadFixture(t, source, "same.png", fixture)

		svc, err := thumbnailer.New(
			thumbnailer.WithSourceStore(source),
			thumbnailer.WithDestinationStore("dest", destination),
		)
		require.NoError(t, err)

		result, err := svc.Process(ctx, request("same.png"))
		require.NoError(t, err)
		outputs = append(outputs, downloadAll(t, destination, result.DerivedObjects[0].Key))
	}

	assert.Equal(t, outputs[0], outputs[1])
}

func TestProcessMissingSource(t *testing.T) {
	ctx := context.Background()
	source := memorystorage.New()
	destination := memorystorage.New()

	svc, err := thumbnailer.New(
		thumbnailer.WithSourceStore(source),
		thumbnailer.WithDestinationStore("dest", destination),
	)
	require.NoError(t, err)

	result, err := svc.Process(ctx, request("missing.png"))
	require.Error(t, err)
	assert.ErrorIs(t, err, thumbnailer.ErrSourceNotFound)

	require.NotNil(t, result)
	assert.Equal(t, thumbnailer.StatusFailure, result.Status)
	assert.Equal(t, thumbnailer.ReasonSourceNotFound, result.FailureReason)
	assert.Empty(t, result.DerivedObjects)

	// Nothing was written
	metas, err := destination.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, metas)
}

func TestProcessOversizedSource(t *testing.T) {
	ctx := context.Background()
	source := memorystorage.New()
	destination := memorystorage.New()

	fixture := pngFixture(t, 100, 100)
	uploadFixture(t, source, "big.png", fixture)

	svc, err := thumbnailer.New(
		thumbnailer.WithSourceStore(source),
		thumbnailer.WithDestinationStore("dest", destination),
		thumbnailer.WithMaxSourceBytes(int64(len(fixture)-1)),
	)
	require.NoError(t, err)

	result, err := svc.Process(ctx, request("big.png"))
	require.Error(t, err)
	assert.ErrorIs(t, err, thumbnailer.ErrResourceLimitExceeded)
	assert.Equal(t, thumbnailer.ReasonResourceLimitExceeded, result.FailureReason)

	metas, err := destination.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, metas)
}

func TestProcessCorruptImage(t *testing.T) {
	ctx := context.Background()
	source := memorystorage.New()
	destination := memorystorage.New()

	uploadFixture(t, source, "broken.png", []byte("this is not a png"))

	svc, err := thumbnailer.New(
		thumbnailer.WithSourceStore(source),
		thumbnailer.WithDestinationStore("dest", destination),
	)
	require.NoError(t, err)

	result, err := svc.Process(ctx, request("broken.png"))
	require.Error(t, err)
	assert.ErrorIs(t, err, thumbnailer.ErrInvalidImage)
	assert.Equal(t, thumbnailer.ReasonInvalidImage, result.FailureReason)
	assert.Empty(t, result.DerivedObjects)
}

func TestNotificationFailureIsAdvisory(t *testing.T) {
	ctx := context.Background()
	source := memorystorage.New()
	destination := memorystorage.New()

	uploadFixture(t, source, "cat.png", pngFixture(t, 80, 80))

	svc, err := thumbnailer.New(
		thumbnailer.WithSourceStore(source),
		thumbnailer.WithDestinationStore("dest", destination),
		thumbnailer.WithNotifier(&failingNotifier{}),
		thumbnailer.WithNotificationsEnabled(true),
	)
	require.NoError(t, err)

	result, err := svc.Process(ctx, request("cat.png"))
	require.NoError(t, err)

	// The derived object write is authoritative; the publish failure
	// only surfaces as advisory status.
	assert.Equal(t, thumbnailer.StatusSuccess, result.Status)
	assert.False(t, result.NotificationSent)
	assert.Contains(t, result.NotificationError, "channel unavailable")

	_, err = destination.GetObjectMeta(ctx, "thumbnails/cat.jpg")
	assert.NoError(t, err)
}

func TestNotificationsDisabled(t *testing.T) {
	ctx := context.Background()
	source := memorystorage.New()
	destination := memorystorage.New()
	notifier := &captureNotifier{}

	uploadFixture(t, source, "cat.png", pngFixture(t, 80, 80))

	// Channel configured but sending disabled (the default)
	svc, err := thumbnailer.New(
		thumbnailer.WithSourceStore(source),
		thumbnailer.WithDestinationStore("dest", destination),
		thumbnailer.WithNotifier(notifier),
	)
	require.NoError(t, err)

	success, err := svc.Process(ctx, request("cat.png"))
	require.NoError(t, err)
	assert.False(t, success.NotificationSent)

	failure, err := svc.Process(ctx, request("missing.png"))
	require.Error(t, err)
	assert.False(t, failure.NotificationSent)

	assert.Empty(t, notifier.published())
}

func TestNotificationsPublished(t *testing.T) {
	ctx := context.Background()
	source := memorystorage.New()
	destination := memorystorage.New()
	notifier := &captureNotifier{}

	uploadFixture(t, source, "cat.png", pngFixture(t, 80, 80))

	svc, err := thumbnailer.New(
		thumbnailer.WithSourceStore(source),
		thumbnailer.WithDestinationStore("dest", destination),
		thumbnailer.WithNotifier(notifier),
		thumbnailer.WithNotificationsEnabled(true),
	)
	require.NoError(t, err)

	success, err := svc.Process(ctx, request("cat.png"))
	require.NoError(t, err)
	assert.True(t, success.NotificationSent)

	_, err = svc.Process(ctx, request("missing.png"))
	require.Error(t, err)

	events := notifier.published()
	require.Len(t, events, 2)
	assert.True(t, events[0].Enabled)
	assert.Equal(t, thumbnailer.StatusSuccess, events[0].Result.Status)
	assert.Equal(t, thumbnailer.StatusFailure, events[1].Result.Status)
	assert.Equal(t, thumbnailer.ReasonSourceNotFound, events[1].Result.FailureReason)
}

func TestProcessKeyPrefix(t *testing.T) {
	ctx := context.Background()
	source := memorystorage.New()
	destination := memorystorage.New()

	uploadFixture(t, source, "cat.png", pngFixture(t, 80, 80))

	svc, err := thumbnailer.New(
		thumbnailer.WithSourceStore(source),
		thumbnailer.WithDestinationStore("dest", destination),
		thumbnailer.WithKeyPrefix("derived/small"),
	)
	require.NoError(t, err)

	result, err := svc.Process(ctx, request("cat.png"))
	require.NoError(t, err)
	require.Len(t, result.DerivedObjects, 1)
	assert.True(t, strings.HasPrefix(result.DerivedObjects[0].Key, "derived/small/"))
}

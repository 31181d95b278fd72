package memory_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer"
	memorystorage "github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer/storage/memory"
)

func TestMemoryBackend(t *testing.T) {
	backend := memorystorage.New()
	ctx := context.Background()
	testKey := "test/object/key.jpg"
	testData := "Hello, World! This is test data."

	t.Run("Upload", func(t *testing.T) {
		err := backend.Upload(ctx, testKey, strings.NewReader(testData))
		assert.NoError(t, err)
	})

	t.Run("GetObjectMeta", func(t *testing.T) {
		meta, err := backend.GetObjectMeta(ctx, testKey)
		assert.NoError(t, err)
		require.NotNil(t, meta)
		assert.Equal(t, testKey, meta.Key)
		assert.Equal(t, int64(len(testData)), meta.Size)
		assert.Equal(t, "application/octet-stream", meta.ContentType) // Default content type
		assert.False(t, meta.UpdatedAt.IsZero())
	})

	t.Run("Download", func(t *testing.T) {
		reader, err := backend.Download(ctx, testKey)
		assert.NoError(t, err)
		require.NotNil(t, reader)
		defer reader.Close()

		downloadedData, err := io.ReadAll(reader)
		assert.NoError(t, err)
		assert.Equal(t, testData, string(downloadedData))
	})

	t.Run("UploadWithParams", func(t *testing.T) {
		params := thumbnailer.UploadParams{
			ObjectKey: "test/object/key2.jpg",
			MimeType:  "image/jpeg",
		}

		err := backend.UploadWithParams(ctx, strings.NewReader(testData), params)
		assert.NoError(t, err)

		meta, err := backend.GetObjectMeta(ctx, params.ObjectKey)
		assert.NoError(t, err)
		assert.Equal(t, "image/jpeg", meta.ContentType)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, backend.Upload(ctx, "other/key.jpg", strings.NewReader(testData)))

		metas, err := backend.List(ctx, "test/")
		assert.NoError(t, err)
		require.Len(t, metas, 2)
		// Key order
		assert.Equal(t, "test/object/key.jpg", metas[0].Key)
		assert.Equal(t, "test/object/key2.jpg", metas[1].Key)

		all, err := backend.List(ctx, "")
		assert.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("Overwrite", func(t *testing.T) {
		err := backend.Upload(ctx, testKey, strings.NewReader("replaced"))
		assert.NoError(t, err)

		meta, err := backend.GetObjectMeta(ctx, testKey)
		assert.NoError(t, err)
		assert.Equal(t, int64(len("replaced")), meta.Size)
	})

	t.Run("Delete", func(t *testing.T) {
		err := backend.Delete(ctx, testKey)
		assert.NoError(t, err)

		_, err = backend.GetObjectMeta(ctx, testKey)
		assert.ErrorIs(t, err, thumbnailer.ErrObjectNotFound)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := backend.Download(ctx, "does/not/exist.jpg")
		assert.ErrorIs(t, err, thumbnailer.ErrObjectNotFound)

		err = backend.Delete(ctx, "does/not/exist.jpg")
		assert.ErrorIs(t, err, thumbnailer.ErrObjectNotFound)
	})
}

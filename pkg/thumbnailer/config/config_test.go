package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DESTINATION_STORE_ID", "processed-images")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory://", cfg.SourceStoreURL)
	assert.Equal(t, "memory://", cfg.DestinationStoreURL)
	assert.Equal(t, "processed-images", cfg.DestinationStoreID)
	assert.False(t, cfg.SendNotifications)
	assert.Equal(t, "thumbnails/", cfg.KeyPrefix)
	assert.Equal(t, 256, cfg.ThumbnailMaxWidth)
	assert.Equal(t, 256, cfg.ThumbnailMaxHeight)
	assert.Equal(t, int64(26214400), cfg.MaxSourceBytes)
	assert.Equal(t, []string{".png", ".jpg", ".jpeg", ".gif", ".bmp"}, cfg.KeySuffixes)
	assert.False(t, cfg.RetentionEnabled())
}

func TestLoadRequiresDestinationStoreID(t *testing.T) {
	t.Setenv("DESTINATION_STORE_ID", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoadNotificationChannelRequiredWhenEnabled(t *testing.T) {
	t.Setenv("DESTINATION_STORE_ID", "processed-images")
	t.Setenv("SEND_NOTIFICATIONS", "true")
	t.Setenv("NOTIFICATION_CHANNEL_ID", "")

	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("NOTIFICATION_CHANNEL_ID", "arn:aws:sns:us-east-1:123456789012:image-events")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.SendNotifications)
}

func TestLoadRetentionRule(t *testing.T) {
	t.Setenv("DESTINATION_STORE_ID", "processed-images")
	t.Setenv("RETENTION_MAX_AGE_DAYS", "7")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.True(t, cfg.RetentionEnabled())

	rule := cfg.RetentionRule()
	assert.Equal(t, "thumbnails/", rule.Prefix)
	assert.Equal(t, 7, rule.MaxAgeDays)
}

func TestLoadRejectsInvalidDimensions(t *testing.T) {
	t.Setenv("DESTINATION_STORE_ID", "processed-images")
	t.Setenv("THUMBNAIL_MAX_WIDTH", "0")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestBuildStores(t *testing.T) {
	t.Setenv("DESTINATION_STORE_ID", "processed-images")

	t.Run("memory", func(t *testing.T) {
		t.Setenv("DESTINATION_STORE_URL", "memory://")

		cfg, err := config.Load()
		require.NoError(t, err)

		store, err := cfg.BuildDestinationStore()
		assert.NoError(t, err)
		assert.NotNil(t, store)
	})

	t.Run("filesystem", func(t *testing.T) {
		t.Setenv("DESTINATION_STORE_URL", "file://"+t.TempDir())

		cfg, err := config.Load()
		require.NoError(t, err)

		store, err := cfg.BuildDestinationStore()
		assert.NoError(t, err)
		assert.NotNil(t, store)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		t.Setenv("DESTINATION_STORE_URL", "ftp://somewhere")

		cfg, err := config.Load()
		require.NoError(t, err)

		_, err = cfg.BuildDestinationStore()
		assert.Error(t, err)
	})

	t.Run("s3 requires bucket", func(t *testing.T) {
		t.Setenv("DESTINATION_STORE_URL", "s3://")

		cfg, err := config.Load()
		require.NoError(t, err)

		_, err = cfg.BuildDestinationStore()
		assert.Error(t, err)
	})
}

func TestBuildNotifierDisabled(t *testing.T) {
	t.Setenv("DESTINATION_STORE_ID", "processed-images")

	cfg, err := config.Load()
	require.NoError(t, err)

	notifier, err := cfg.BuildNotifier()
	assert.NoError(t, err)
	assert.Nil(t, notifier)
}

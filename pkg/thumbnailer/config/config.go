// Package config loads the pipeline configuration from the
// environment into an explicit struct, so the processing unit never
// reads globals at invocation time.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer"
	"github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer/notify/sns"
	"github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer/retention"
	fsstorage "github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer/storage/fs"
	memorystorage "github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer/storage/memory"
	s3storage "github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer/storage/s3"
)

// Config is the full configuration surface of the pipeline.
//
// Store URLs use one of:
//
//	memory://                     - in-memory storage
//	file:///path/to/data          - filesystem storage
//	s3://bucket?region=us-east-1  - S3 storage (endpoint= and
//	                                path_style=true for MinIO)
type Config struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`

	SourceStoreURL      string `env:"SOURCE_STORE_URL" env-default:"memory://"`
	DestinationStoreURL string `env:"DESTINATION_STORE_URL" env-default:"memory://"`
	DestinationStoreID  string `env:"DESTINATION_STORE_ID"`

	SendNotifications     bool   `env:"SEND_NOTIFICATIONS" env-default:"false"`
	NotificationChannelID string `env:"NOTIFICATION_CHANNEL_ID"`

	KeyPrefix          string `env:"KEY_PREFIX" env-default:"thumbnails/"`
	ThumbnailMaxWidth  int    `env:"THUMBNAIL_MAX_WIDTH" env-default:"256"`
	ThumbnailMaxHeight int    `env:"THUMBNAIL_MAX_HEIGHT" env-default:"256"`
	MaxSourceBytes     int64  `env:"MAX_SOURCE_BYTES" env-default:"26214400"`

	KeySuffixes []string `env:"KEY_SUFFIXES" env-default:".png,.jpg,.jpeg,.gif,.bmp"`

	RetentionPrefix     string `env:"RETENTION_PREFIX" env-default:"thumbnails/"`
	RetentionMaxAgeDays int    `env:"RETENTION_MAX_AGE_DAYS" env-default:"0"`
	RetentionSchedule   string `env:"RETENTION_SCHEDULE" env-default:"@hourly"`
}

// Load reads configuration from the environment and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and cross-field constraints
func (c *Config) Validate() error {
	if c.DestinationStoreID == "" {
		return errors.New("DESTINATION_STORE_ID is required")
	}
	if c.SendNotifications && c.NotificationChannelID == "" {
		return errors.New("NOTIFICATION_CHANNEL_ID is required when SEND_NOTIFICATIONS is enabled")
	}
	if c.ThumbnailMaxWidth <= 0 || c.ThumbnailMaxHeight <= 0 {
		return fmt.Errorf("thumbnail dimensions must be positive, got %dx%d",
			c.ThumbnailMaxWidth, c.ThumbnailMaxHeight)
	}
	if c.MaxSourceBytes <= 0 {
		return errors.New("MAX_SOURCE_BYTES must be positive")
	}
	if c.RetentionEnabled() && c.RetentionPrefix == "" {
		return errors.New("RETENTION_PREFIX is required when retention is enabled")
	}
	return nil
}

// RetentionEnabled reports whether an expiration rule is configured
func (c *Config) RetentionEnabled() bool {
	return c.RetentionMaxAgeDays > 0
}

// RetentionRule returns the configured expiration rule
func (c *Config) RetentionRule() retention.Rule {
	return retention.Rule{
		Prefix:     c.RetentionPrefix,
		MaxAgeDays: c.RetentionMaxAgeDays,
	}
}

// BuildSourceStore constructs the source blob store from its URL
func (c *Config) BuildSourceStore() (thumbnailer.BlobStore, error) {
	return storeFromURL(c.SourceStoreURL)
}

// BuildDestinationStore constructs the destination blob store from its URL
func (c *Config) BuildDestinationStore() (thumbnailer.BlobStore, error) {
	return storeFromURL(c.DestinationStoreURL)
}

// BuildNotifier constructs the notification channel. It returns nil
// when notifications are disabled so the service never attempts a
// publish.
func (c *Config) BuildNotifier() (thumbnailer.Notifier, error) {
	if !c.SendNotifications {
		return nil, nil
	}
	notifier, err := sns.New(sns.Config{
		TopicARN:        c.NotificationChannelID,
		Region:          os.Getenv("AWS_REGION"),
		AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
	})
	if err != nil {
		return nil, err
	}
	return notifier, nil
}

// storeFromURL builds a blob store from a storage URL
func storeFromURL(raw string) (thumbnailer.BlobStore, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid store URL %q: %w", raw, err)
	}

	switch u.Scheme {
	case "memory", "":
		return memorystorage.New(), nil

	case "file":
		if u.Path == "" {
			return nil, fmt.Errorf("filesystem path cannot be empty in %q", raw)
		}
		return fsstorage.New(fsstorage.Config{BaseDir: u.Path})

	case "s3":
		if u.Host == "" {
			return nil, fmt.Errorf("S3 bucket name cannot be empty in %q", raw)
		}
		query := u.Query()
		cfg := s3storage.Config{
			Bucket:          u.Host,
			Region:          firstNonEmpty(query.Get("region"), os.Getenv("AWS_REGION")),
			Endpoint:        query.Get("endpoint"),
			AccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		}
		if v := query.Get("path_style"); v != "" {
			pathStyle, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("invalid path_style in %q: %w", raw, err)
			}
			cfg.UsePathStyle = pathStyle
		}
		if v := query.Get("create_bucket"); v != "" {
			create, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("invalid create_bucket in %q: %w", raw, err)
			}
			cfg.CreateBucketIfNotExist = create
		}
		return s3storage.New(cfg)

	default:
		return nil, fmt.Errorf("unsupported store URL scheme %q (use memory://, file:// or s3://)", u.Scheme)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

package retention

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer"
)

// Rule describes an age-based expiration policy for derived objects.
// It is declarative and immutable after construction.
type Rule struct {
	Prefix     string
	MaxAgeDays int
}

// Sweeper enforces a retention rule against a destination store. It
// runs independently of the processing path and only ever inspects
// object metadata already committed to the store.
type Sweeper struct {
	store  thumbnailer.BlobStore
	rule   Rule
	logger *slog.Logger
	now    func() time.Time
}

// Option represents a functional option for configuring the sweeper
type Option func(*Sweeper)

// WithLogger sets the structured logger for the sweeper
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

// WithClock overrides the clock used to evaluate object ages
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) {
		s.now = now
	}
}

// NewSweeper creates a sweeper for the given store and rule
func NewSweeper(store thumbnailer.BlobStore, rule Rule, options ...Option) (*Sweeper, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if rule.Prefix == "" {
		return nil, errors.New("rule prefix is required")
	}
	if rule.MaxAgeDays <= 0 {
		return nil, fmt.Errorf("rule max age must be positive, got %d", rule.MaxAgeDays)
	}

	s := &Sweeper{
		store:  store,
		rule:   rule,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, option := range options {
		option(s)
	}
	return s, nil
}

// SweepOnce deletes every object under the rule prefix older than the
// configured age and returns the number removed. Re-running against an
// already-clean prefix is a no-op. Individual delete failures do not
// stop the sweep; they are joined into the returned error.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	metas, err := s.store.List(ctx, s.rule.Prefix)
	if err != nil {
		return 0, fmt.Errorf("failed to list objects under %s: %w", s.rule.Prefix, err)
	}

	cutoff := s.now().Add(-time.Duration(s.rule.MaxAgeDays) * 24 * time.Hour)

	deleted := 0
	var errs []error
	for _, meta := range metas {
		if !meta.UpdatedAt.Before(cutoff) {
			continue
		}

		if err := s.store.Delete(ctx, meta.Key); err != nil {
			// Already gone, e.g. removed by a concurrent sweep.
			if errors.Is(err, thumbnailer.ErrObjectNotFound) {
				continue
			}
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", meta.Key, err))
			continue
		}

		s.logger.Info("expired object removed",
			"key", meta.Key,
			"modified_at", meta.UpdatedAt,
			"max_age_days", s.rule.MaxAgeDays)
		deleted++
	}

	return deleted, errors.Join(errs...)
}

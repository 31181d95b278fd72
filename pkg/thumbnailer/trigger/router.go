package trigger

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/RutikGawali1/Serverless-Image-Processing-Pipeline/pkg/thumbnailer"
)

// DefaultSuffixes is the input-format allow-list applied when no
// other suffixes are configured.
var DefaultSuffixes = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp"}

// createdEventPrefix matches every object-creation variant
// (Put, Post, Copy, CompleteMultipartUpload).
const createdEventPrefix = "ObjectCreated"

// Router converts store-change events into processing invocations.
// Each matching record becomes exactly one ProcessingRequest; records
// that are not object creations or whose key suffix is not on the
// allow-list are dropped silently as an expected no-op.
type Router struct {
	service  thumbnailer.Service
	suffixes []string
	logger   *slog.Logger
	now      func() time.Time
}

// RouterOption represents a functional option for configuring the router
type RouterOption func(*Router)

// WithSuffixes sets the key suffix allow-list (matched case-insensitively)
func WithSuffixes(suffixes []string) RouterOption {
	return func(r *Router) {
		if len(suffixes) > 0 {
			r.suffixes = suffixes
		}
	}
}

// WithLogger sets the structured logger for the router
func WithLogger(logger *slog.Logger) RouterOption {
	return func(r *Router) {
		r.logger = logger
	}
}

// WithClock overrides the clock stamped onto processing requests
func WithClock(now func() time.Time) RouterOption {
	return func(r *Router) {
		r.now = now
	}
}

// NewRouter creates a new trigger router dispatching to the given service
func NewRouter(service thumbnailer.Service, options ...RouterOption) *Router {
	r := &Router{
		service:  service,
		suffixes: DefaultSuffixes,
		logger:   slog.Default(),
		now:      time.Now,
	}
	for _, option := range options {
		option(r)
	}
	return r
}

// Route dispatches every matching record of event to the processing
// unit and collects the results. Records are processed concurrently
// with no ordering guarantee across keys.
//
// A non-nil error means the event could not be dispatched at all and
// must not be acknowledged, so the delivery infrastructure can retry
// the whole event. Per-record processing failures are classified in
// their results, not returned as errors: the record was consumed and
// redelivery is a policy decision for the caller.
func (r *Router) Route(ctx context.Context, event *StoreEvent) ([]*thumbnailer.ProcessingResult, error) {
	requests := make([]thumbnailer.ProcessingRequest, 0, len(event.Records))
	for _, record := range event.Records {
		if !strings.HasPrefix(record.EventName, createdEventPrefix) {
			r.logger.Debug("skipping non-creation event", "event_name", record.EventName)
			continue
		}

		key, err := record.DecodedKey()
		if err != nil {
			return nil, err
		}

		if !r.matches(key) {
			r.logger.Debug("skipping non-image object", "key", key)
			continue
		}

		requests = append(requests, thumbnailer.ProcessingRequest{
			Source: thumbnailer.ObjectReference{
				StoreID: record.S3.Bucket.Name,
				Key:     key,
			},
			ReceivedAt: r.now().UTC(),
			Attempt:    1,
		})
	}

	if len(requests) == 0 {
		return nil, nil
	}

	results := make([]*thumbnailer.ProcessingResult, len(requests))
	var wg sync.WaitGroup
	for i, req := range requests {
		wg.Add(1)
		go func(i int, req thumbnailer.ProcessingRequest) {
			defer wg.Done()
			// Process always returns a result; the error mirrors the
			// classified failure already recorded on it.
			results[i], _ = r.service.Process(ctx, req)
		}(i, req)
	}
	wg.Wait()

	return results, nil
}

// matches reports whether key ends with one of the configured suffixes
func (r *Router) matches(key string) bool {
	lower := strings.ToLower(key)
	for _, suffix := range r.suffixes {
		if strings.HasSuffix(lower, strings.ToLower(suffix)) {
			return true
		}
	}
	return false
}

package thumbnailer

import "time"

// ObjectReference identifies an object within a single store. It is
// immutable once created; the trigger router produces one per matching
// store event.
type ObjectReference struct {
	StoreID string `json:"store_id"`
	Key     string `json:"key"`
	Version string `json:"version,omitempty"`
}

// ProcessingRequest describes one processing invocation. Attempt is
// incremented by the invoking infrastructure on redelivery, never by
// the processing unit itself.
type ProcessingRequest struct {
	Source     ObjectReference `json:"source"`
	ReceivedAt time.Time       `json:"received_at"`
	Attempt    int             `json:"attempt"`
}

// Status is the terminal outcome of a processing invocation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
)

// FailureReason classifies why an invocation failed. Reasons are
// stable strings so observability records stay comparable across
// releases.
type FailureReason string

const (
	ReasonNone                  FailureReason = ""
	ReasonSourceNotFound        FailureReason = "source_not_found"
	ReasonInvalidImage          FailureReason = "invalid_image"
	ReasonResourceLimitExceeded FailureReason = "resource_limit_exceeded"
	ReasonWriteFailure          FailureReason = "destination_write_failed"
	ReasonInternal              FailureReason = "internal_error"
)

// ProcessingResult is the outcome of a single invocation. At most one
// result is emitted per attempt.
//
// NotificationError is advisory: a failed best-effort publish is
// recorded here and never changes Status once the derived object has
// been written.
type ProcessingResult struct {
	RunID             string            `json:"run_id"`
	Source            ObjectReference   `json:"source"`
	DerivedObjects    []ObjectReference `json:"derived_objects,omitempty"`
	Status            Status            `json:"status"`
	FailureReason     FailureReason     `json:"failure_reason,omitempty"`
	Error             string            `json:"error,omitempty"`
	Duration          time.Duration     `json:"duration"`
	NotificationSent  bool              `json:"notification_sent"`
	NotificationError string            `json:"notification_error,omitempty"`
}

// NotificationEvent is the payload handed to a Notifier after an
// invocation completes. Enabled reflects the configuration read once
// per invocation; a disabled event is never published.
type NotificationEvent struct {
	Result  ProcessingResult `json:"result"`
	Enabled bool             `json:"enabled"`
}

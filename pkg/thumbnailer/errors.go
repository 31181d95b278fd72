package thumbnailer

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrObjectNotFound indicates a storage backend has no object under
	// the requested key
	ErrObjectNotFound = errors.New("object not found")

	// ErrSourceNotFound indicates the source object referenced by a
	// processing request does not exist
	ErrSourceNotFound = errors.New("source object not found")

	// ErrInvalidImage indicates the source object could not be decoded
	// as a supported image
	ErrInvalidImage = errors.New("invalid or unsupported image")

	// ErrInvalidDimensions indicates the configured thumbnail bounds are
	// not positive
	ErrInvalidDimensions = errors.New("invalid thumbnail dimensions")

	// ErrResourceLimitExceeded indicates the source object exceeds the
	// processing size budget
	ErrResourceLimitExceeded = errors.New("resource limit exceeded")

	// ErrDestinationWrite indicates the destination store rejected the
	// derived object write
	ErrDestinationWrite = errors.New("destination write failed")
)

// ProcessError represents an error raised while processing a source
// object. It carries the failed operation and the source key for
// observability records.
type ProcessError struct {
	Key string
	Op  string
	Err error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("processing operation %s failed for key %s: %v", e.Op, e.Key, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// ReasonForError maps a processing error to its stable failure reason.
func ReasonForError(err error) FailureReason {
	switch {
	case err == nil:
		return ReasonNone
	case errors.Is(err, ErrSourceNotFound):
		return ReasonSourceNotFound
	case errors.Is(err, ErrInvalidImage), errors.Is(err, ErrInvalidDimensions):
		return ReasonInvalidImage
	case errors.Is(err, ErrResourceLimitExceeded):
		return ReasonResourceLimitExceeded
	case errors.Is(err, ErrDestinationWrite):
		return ReasonWriteFailure
	default:
		return ReasonInternal
	}
}

package thumbnailer

import "context"

// Service is the externally callable processing unit: one request in,
// at most one result out. Implementations perform no internal retries;
// redelivery is the invoking infrastructure's responsibility.
type Service interface {
	// Process transforms the source object referenced by req into a
	// thumbnail in the destination store. The returned result is always
	// non-nil; on failure the error carries the classified cause and
	// the result mirrors it.
	Process(ctx context.Context, req ProcessingRequest) (*ProcessingResult, error)
}

// Package thumbnailer provides the processing core of the image
// pipeline: given a reference to a source object it produces a bounded
// thumbnail, writes it to a destination store under a deterministic
// key, and optionally publishes a completion notification.
//
// It exposes a single Service interface so the processing unit can be
// invoked from any trigger surface (HTTP, store subscription, tests)
// without a live store binding. Blob store implementations (memory,
// filesystem, S3) live under the storage subpackages; notification
// channel implementations under notify.
//
// Processing is a pure function of the source object's content: the
// same bytes always produce the same derived bytes under the same
// destination key. Redelivered or duplicated trigger events therefore
// overwrite rather than duplicate destination state, which is what
// makes blind at-least-once retries by the delivery infrastructure
// safe. No retry logic lives in this package.
package thumbnailer

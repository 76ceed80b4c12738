package array

import "errors"

// These are the array package's originating points for the root error
// taxonomy of spec.md §7. The root package re-exports them directly
// rather than minting new sentinel values, so errors.Is works all the
// way from a Store failure or a malformed chunk up through Array's
// callers.
var (
	errInvalidRegion = errors.New("zarr: invalid region")
	errChunkCorrupt  = errors.New("zarr: chunk corrupt")
	errStoreFailureS = errors.New("zarr: store failure")
	errCancelled     = errors.New("zarr: cancelled")
)

// ErrInvalidRegion is returned when a requested region is out of bounds
// or malformed.
var ErrInvalidRegion = errInvalidRegion

// ErrChunkCorrupt is returned when a chunk decodes to an unexpected size
// or a codec rejects its bytes.
var ErrChunkCorrupt = errChunkCorrupt

// ErrStoreFailure is returned when the underlying Store reports an
// error distinct from "not found".
var ErrStoreFailure = errStoreFailureS

// ErrCancelled is returned when ctx is cancelled mid-region-read or
// mid-region-write.
var ErrCancelled = errCancelled

// errStoreFailure wraps a Store-reported error under errStoreFailureS so
// callers can errors.Is against either the specific cause or the
// taxonomy sentinel.
func errStoreFailure(cause error) error {
	return errWrap(errStoreFailureS, cause)
}

type wrappedErr struct {
	sentinel error
	cause    error
}

func (w *wrappedErr) Error() string { return w.sentinel.Error() + ": " + w.cause.Error() }
func (w *wrappedErr) Unwrap() []error { return []error{w.sentinel, w.cause} }

func errWrap(sentinel, cause error) error {
	return &wrappedErr{sentinel: sentinel, cause: cause}
}

package zarr

import (
	"errors"

	"github.com/BiologyTools/go-zarr/array"
)

// Error kinds, per spec.md §7. Consumers classify errors with errors.Is
// against these sentinels; wrapped context is preserved by %w throughout
// the package tree.
var (
	// ErrInvalidRegion signals a rank or range violation at the API surface.
	ErrInvalidRegion = array.ErrInvalidRegion

	// ErrUnsupported signals a codec, dtype, transform, or layout feature
	// this implementation does not cover (sharding, bit-shuffle, snappy,
	// blosclz, non-"C" array order, ...). The codec, metadata, coordinate
	// and overlay packages return their own ErrUnsupported values, which
	// errors.Is does not match against this one.
	ErrUnsupported = errors.New("zarr: unsupported")

	// ErrChunkCorrupt signals a chunk failed to decode, or decoded to a
	// size that is neither the full nor the truncated-edge chunk size.
	ErrChunkCorrupt = array.ErrChunkCorrupt

	// ErrMetadataInvalid signals a metadata document missing a required
	// field, with an inconsistent shape/rank, or an unknown enumerator.
	// The metadata package's parse errors are not wrapped with it, so
	// errors.Is does not match them against it.
	ErrMetadataInvalid = errors.New("zarr: invalid metadata")

	// ErrStoreFailure wraps an opaque transport/backend error from a Store.
	ErrStoreFailure = array.ErrStoreFailure

	// ErrNotFound signals an array or group absent at the requested path.
	ErrNotFound = errors.New("zarr: not found")

	// ErrCancelled signals cooperative cancellation fired mid-operation.
	ErrCancelled = array.ErrCancelled
)

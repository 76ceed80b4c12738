package metadata

import "errors"

// errUnsupportedDoc marks a recognized-but-unsupported metadata feature
// (sharding, bit-shuffle, blosclz/snappy inner compressors, non-"C" order,
// unknown codec names). It is a separate value from the root package's
// ErrUnsupported, so errors.Is does not match one against the other.
var errUnsupportedDoc = errors.New("metadata: unsupported")

// ErrUnsupported is returned for recognized-but-unsupported metadata
// features, per spec.md §7.
var ErrUnsupported = errUnsupportedDoc

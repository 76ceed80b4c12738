package codec

import "errors"

// errUnsupported and errCorrupt are the codec package's local sentinels.
// They are separate values from the root package's ErrUnsupported and
// ErrChunkCorrupt, so errors.Is does not match one against the other; the
// array package reports a chunk that fails to decode under its own
// ErrChunkCorrupt, which the root package re-exports.
var (
	errUnsupported = errors.New("codec: unsupported")
	errCorrupt     = errors.New("codec: corrupt frame")
)

// ErrUnsupported is returned for codec features spec.md places out of
// scope: bit-shuffle, the blosclz and snappy inner compressors, and
// unrecognized codec/flag combinations.
var ErrUnsupported = errUnsupported

// ErrCorrupt is returned when a frame fails to parse or decompress.
var ErrCorrupt = errCorrupt

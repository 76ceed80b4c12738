package codec

import "fmt"

// hostEndian mirrors the only two byte orders spec.md's dtype table
// allows: we treat the host as little-endian, which is true of every
// platform this module targets (amd64, arm64), per dtype.ParseNumpy's
// '=' (native) handling.
const hostEndian = LittleEndian

// decodeBoundary returns a copy of data with each elemSize-byte group
// reversed when declared differs from host order, and data itself
// otherwise. elemSize must be one of {1,2,4,8}; 1 is a no-op since there
// is nothing to reverse.
func decodeBoundary(data []byte, elemSize int, declared Endian) ([]byte, error) {
	return swapBoundary(data, elemSize, declared)
}

// encodeBoundary is symmetric: swapping twice restores the original
// order, so encode and decode share one implementation.
func encodeBoundary(data []byte, elemSize int, declared Endian) ([]byte, error) {
	return swapBoundary(data, elemSize, declared)
}

func swapBoundary(data []byte, elemSize int, declared Endian) ([]byte, error) {
	switch elemSize {
	case 1, 2, 4, 8:
	default:
		return nil, fmt.Errorf("codec: %w: invalid element size %d", errUnsupported, elemSize)
	}
	if elemSize == 1 || declared == hostEndian {
		return data, nil
	}
	if len(data)%elemSize != 0 {
		return nil, fmt.Errorf("codec: %w: length %d not a multiple of element size %d", errCorrupt, len(data), elemSize)
	}

	out := make([]byte, len(data))
	copy(out, data)
	for off := 0; off+elemSize <= len(out); off += elemSize {
		reverseInPlace(out[off : off+elemSize])
	}
	return out, nil
}

func reverseInPlace(b []byte) {
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
}

package array

// expandTruncatedChunk pads a chunk stored at its actual valid extent
// (truncatedShape) into a full chunk buffer of shape fullShape, per
// spec.md §4.4.2. A flat memcpy only works when the clip is confined to
// the last axis; in general the truncated buffer's innermost row is
// narrower than a full chunk row, so this reuses the strided copyND
// primitive rather than a single copy().
func expandTruncatedChunk(data []byte, truncatedShape, fullShape []int64, elemSize int) []byte {
	full := make([]byte, product(fullShape)*int64(elemSize))
	zero := make([]int64, len(fullShape))
	copyND(full, fullShape, zero, data, truncatedShape, zero, truncatedShape, elemSize)
	return full
}

func product(shape []int64) int64 {
	p := int64(1)
	for _, s := range shape {
		p *= s
	}
	return p
}

func shapesEqual(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

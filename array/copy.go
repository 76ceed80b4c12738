package array

// strides computes C-order strides for shape: stride[N-1]=1,
// stride[d]=stride[d+1]*shape[d+1], per spec.md §3's invariant.
func strides(shape []int64) []int64 {
	s := make([]int64, len(shape))
	stride := int64(1)
	for d := len(shape) - 1; d >= 0; d-- {
		s[d] = stride
		stride *= shape[d]
	}
	return s
}

// copyND copies the box [0,copyShape) from a C-order src buffer (logical
// shape srcShape, offset by srcOffset within it) to a C-order dst buffer
// (logical shape dstShape, offset by dstOffset), elemSize bytes per
// element. It is the single primitive both ReadRegion (chunk -> output)
// and WriteRegion (source -> chunk) use, per spec.md §4.4.3: the
// innermost axis is copied with one bulk memory copy per row, and a
// reused coordinate array avoids per-row allocation on outer axes.
func copyND(dst []byte, dstShape, dstOffset []int64, src []byte, srcShape, srcOffset []int64, copyShape []int64, elemSize int) {
	rank := len(copyShape)
	if rank == 0 {
		copy(dst[:elemSize], src[:elemSize])
		return
	}

	dstStrides := strides(dstShape)
	srcStrides := strides(srcShape)

	coord := make([]int64, rank)
	innermost := rank - 1
	rowLen := copyShape[innermost]

	var walk func(axis int)
	walk = func(axis int) {
		if axis == innermost {
			srcIdx := int64(0)
			dstIdx := int64(0)
			for d := 0; d < rank; d++ {
				c := coord[d]
				if d == innermost {
					c = 0
				}
				srcIdx += (srcOffset[d] + c) * srcStrides[d]
				dstIdx += (dstOffset[d] + c) * dstStrides[d]
			}
			srcByte := srcIdx * int64(elemSize)
			dstByte := dstIdx * int64(elemSize)
			n := rowLen * int64(elemSize)
			copy(dst[dstByte:dstByte+n], src[srcByte:srcByte+n])
			return
		}
		for i := int64(0); i < copyShape[axis]; i++ {
			coord[axis] = i
			walk(axis + 1)
		}
	}
	walk(0)
}

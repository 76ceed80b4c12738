package codec

// shuffle groups bytes of a block by their intra-element position: for a
// block of M = len(block)/typesize elements, the shuffled form places all
// position-0 bytes first, then all position-1 bytes, and so on.
// Any trailing bytes that don't form a complete element (len(block) not a
// multiple of typesize) are left in place at the end, per blosc's own
// handling of a frame's final, possibly short, block.
func shuffle(block []byte, typesize int) []byte {
	if typesize <= 1 || len(block) < typesize {
		return append([]byte(nil), block...)
	}

	m := len(block) / typesize
	tail := block[m*typesize:]
	out := make([]byte, len(block))

	for pos := 0; pos < typesize; pos++ {
		dst := out[pos*m : pos*m+m]
		for elem := 0; elem < m; elem++ {
			dst[elem] = block[elem*typesize+pos]
		}
	}
	copy(out[m*typesize:], tail)
	return out
}

// unshuffle is shuffle's inverse.
func unshuffle(block []byte, typesize int) []byte {
	if typesize <= 1 || len(block) < typesize {
		return append([]byte(nil), block...)
	}

	m := len(block) / typesize
	tail := block[m*typesize:]
	out := make([]byte, len(block))

	for pos := 0; pos < typesize; pos++ {
		src := block[pos*m : pos*m+m]
		for elem := 0; elem < m; elem++ {
			out[elem*typesize+pos] = src[elem]
		}
	}
	copy(out[m*typesize:], tail)
	return out
}

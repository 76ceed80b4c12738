package codec

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"fmt"
	"io"

	klzstd "github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Blosc frame layout, per spec.md §4.2.1. The header is 16 bytes,
// little-endian throughout:
//
//	offset 0  (1B) version major, always 0x01
//	offset 1  (1B) version minor, always 0x01
//	offset 2  (1B) flags
//	offset 3  (1B) typesize, saturates at 255
//	offset 4  (4B) nbytes     — uncompressed total
//	offset 8  (4B) blocksize  — uncompressed block size
//	offset 12 (4B) cbytes     — total frame size
const bloscHeaderSize = 16

const (
	flagByteShuffle = 0x01
	flagMemcpy      = 0x02
	flagBitShuffle  = 0x04
	flagDoSplit     = 0x10
)

func innerCodecFromFlags(flags byte) InnerCodec {
	return InnerCodec((flags >> 5) & 0x7)
}

func flagsWithInnerCodec(base byte, c InnerCodec) byte {
	return base | byte(c&0x7)<<5
}

type bloscHeader struct {
	flags     byte
	typesize  int
	nbytes    int
	blocksize int
	cbytes    int
	shuffle   ShuffleMode
	inner     InnerCodec
}

func parseBloscHeader(data []byte) (bloscHeader, error) {
	if len(data) < bloscHeaderSize {
		return bloscHeader{}, fmt.Errorf("%w: blosc frame shorter than header (%d bytes)", errCorrupt, len(data))
	}
	if data[0] != 0x01 || data[1] != 0x01 {
		return bloscHeader{}, fmt.Errorf("%w: blosc frame version %d.%d unsupported", errUnsupported, data[0], data[1])
	}

	flags := data[2]
	if flags&flagBitShuffle != 0 {
		return bloscHeader{}, fmt.Errorf("%w: blosc bit-shuffle not supported", errUnsupported)
	}

	shuffle := NoShuffle
	if flags&flagByteShuffle != 0 {
		shuffle = ByteShuffle
	}

	inner := innerCodecFromFlags(flags)
	switch inner {
	case InnerLZ4, InnerZlib, InnerZstd:
	default:
		return bloscHeader{}, fmt.Errorf("%w: blosc inner codec id %d not supported", errUnsupported, inner)
	}

	h := bloscHeader{
		flags:     flags,
		typesize:  int(data[3]),
		nbytes:    int(binary.LittleEndian.Uint32(data[4:8])),
		blocksize: int(binary.LittleEndian.Uint32(data[8:12])),
		cbytes:    int(binary.LittleEndian.Uint32(data[12:16])),
		shuffle:   shuffle,
		inner:     inner,
	}
	return h, nil
}

// doSplit reports whether blocks are split into typesize streams. DOSPLIT
// is a hint only: splitting is inferred from shuffle+typesize, per
// spec.md §4.2.1's "Split rule" and the Open Question on DOSPLIT polarity
// (a DOSPLIT-set frame with shuffle==none is, correctly, not split by this
// same inference — so the flag bit itself never needs to be consulted).
func (h bloscHeader) doSplit() bool {
	return h.shuffle == ByteShuffle && h.typesize > 1
}

func numBlocks(nbytes, blocksize int) int {
	if blocksize <= 0 {
		return 0
	}
	return (nbytes + blocksize - 1) / blocksize
}

func blockLength(nbytes, blocksize, blockIdx, nBlocks int) int {
	if blockIdx < nBlocks-1 {
		return blocksize
	}
	return nbytes - blocksize*(nBlocks-1)
}

// streamLengths splits a block of blockLen bytes into streamCount streams
// by integer division, remainder to the last stream.
func streamLengths(blockLen, streamCount int) []int {
	lens := make([]int, streamCount)
	base := blockLen / streamCount
	rem := blockLen % streamCount
	for i := range lens {
		lens[i] = base
	}
	lens[streamCount-1] += rem
	return lens
}

func decodeBlosc(data []byte) ([]byte, error) {
	h, err := parseBloscHeader(data)
	if err != nil {
		return nil, err
	}
	if len(data) < h.cbytes {
		return nil, fmt.Errorf("%w: blosc frame declares cbytes=%d but only %d bytes present", errCorrupt, h.cbytes, len(data))
	}

	out := make([]byte, h.nbytes)
	pos := bloscHeaderSize

	if h.flags&flagMemcpy != 0 {
		if len(data[pos:]) < h.nbytes {
			return nil, fmt.Errorf("%w: blosc memcpy frame truncated", errCorrupt)
		}
		copy(out, data[pos:pos+h.nbytes])
		return out, nil
	}

	nBlocks := numBlocks(h.nbytes, h.blocksize)
	pos += nBlocks * 4 // bstarts table; sequential decode doesn't need the offsets themselves.

	streamCount := 1
	if h.doSplit() {
		streamCount = h.typesize
	}

	for b := 0; b < nBlocks; b++ {
		blockLen := blockLength(h.nbytes, h.blocksize, b, nBlocks)
		lens := streamLengths(blockLen, streamCount)

		shuffled := make([]byte, 0, blockLen)
		for _, streamLen := range lens {
			if pos+4 > len(data) {
				return nil, fmt.Errorf("%w: blosc frame truncated reading stream header", errCorrupt)
			}
			csize := int(int32(binary.LittleEndian.Uint32(data[pos : pos+4])))
			pos += 4

			switch {
			case csize == 0:
				shuffled = append(shuffled, make([]byte, streamLen)...)
			case csize >= streamLen:
				if pos+csize > len(data) {
					return nil, fmt.Errorf("%w: blosc frame truncated reading raw stream", errCorrupt)
				}
				shuffled = append(shuffled, data[pos:pos+csize]...)
				pos += csize
			default:
				if pos+csize > len(data) {
					return nil, fmt.Errorf("%w: blosc frame truncated reading compressed stream", errCorrupt)
				}
				plain, err := innerDecompress(h.inner, data[pos:pos+csize], streamLen)
				if err != nil {
					return nil, err
				}
				if len(plain) != streamLen {
					return nil, fmt.Errorf("%w: blosc stream decompressed to %d bytes, want %d", errCorrupt, len(plain), streamLen)
				}
				shuffled = append(shuffled, plain...)
				pos += csize
			}
		}

		var block []byte
		if h.shuffle == ByteShuffle {
			block = unshuffle(shuffled, h.typesize)
		} else {
			block = shuffled
		}

		start := b * h.blocksize
		copy(out[start:start+blockLen], block[:blockLen])
	}

	return out, nil
}

// encodeBlosc builds a blosc frame from scratch. It never emits a
// frame-level memcpy frame (that path exists in decodeBlosc purely to
// accept frames produced by other encoders); every block is shuffled (if
// requested), split, and stream-compressed with per-stream raw/zero
// fallbacks, per spec.md §4.2.1's "Encoding" subsection.
func encodeBlosc(data []byte, inner InnerCodec, clevel int, shuffle ShuffleMode, typesize, blocksize int) ([]byte, error) {
	if shuffle == BitShuffle {
		return nil, fmt.Errorf("%w: blosc bit-shuffle not supported", errUnsupported)
	}
	if typesize <= 0 {
		typesize = 1
	}
	if typesize > 255 {
		typesize = 255
	}
	if blocksize <= 0 {
		blocksize = defaultBlocksize(len(data), typesize)
	}

	nbytes := len(data)
	nBlocks := numBlocks(nbytes, blocksize)

	flags := byte(0)
	if shuffle == ByteShuffle {
		flags |= flagByteShuffle
	}
	flags = flagsWithInnerCodec(flags, inner)
	if shuffle == ByteShuffle {
		flags |= flagDoSplit
	}

	doSplit := shuffle == ByteShuffle && typesize > 1
	streamCount := 1
	if doSplit {
		streamCount = typesize
	}

	var body bytes.Buffer
	bstarts := make([]uint32, nBlocks)
	bodyBase := bloscHeaderSize + nBlocks*4

	for b := 0; b < nBlocks; b++ {
		bstarts[b] = uint32(bodyBase + body.Len())

		blockLen := blockLength(nbytes, blocksize, b, nBlocks)
		start := b * blocksize
		block := data[start : start+blockLen]

		var shuffled []byte
		if shuffle == ByteShuffle {
			shuffled = shuffle_(block, typesize)
		} else {
			shuffled = block
		}

		lens := streamLengths(blockLen, streamCount)
		off := 0
		for _, streamLen := range lens {
			stream := shuffled[off : off+streamLen]
			off += streamLen

			if isAllZero(stream) {
				writeUint32(&body, 0)
				continue
			}

			compressed, err := innerCompress(inner, stream, clevel)
			if err != nil {
				return nil, err
			}
			if len(compressed) >= streamLen {
				writeUint32(&body, uint32(streamLen))
				body.Write(stream)
				continue
			}
			writeUint32(&body, uint32(len(compressed)))
			body.Write(compressed)
		}
	}

	frame := make([]byte, 0, bodyBase+body.Len())
	frame = append(frame, 0x01, 0x01, flags, byte(typesize))
	frame = appendUint32(frame, uint32(nbytes))
	frame = appendUint32(frame, uint32(blocksize))
	cbytes := bodyBase + body.Len()
	frame = appendUint32(frame, uint32(cbytes))
	for _, off := range bstarts {
		frame = appendUint32(frame, off)
	}
	frame = append(frame, body.Bytes()...)

	return frame, nil
}

// shuffle_ avoids shadowing the package-level shuffle function name inside
// encodeBlosc, where a local "shuffle" variable holds the ShuffleMode.
func shuffle_(block []byte, typesize int) []byte { return shuffle(block, typesize) }

func isAllZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}

func writeUint32(w *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.Write(b[:])
}

func appendUint32(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

// defaultBlocksize picks a block size when the caller (or metadata
// document) doesn't declare one. 64KiB is blosc's own long-standing
// default target; typesize-aligning it keeps shuffle streams even.
func defaultBlocksize(nbytes, typesize int) int {
	const target = 64 * 1024
	if nbytes <= target {
		if nbytes == 0 {
			return typesize
		}
		return nbytes
	}
	if typesize <= 1 {
		return target
	}
	return (target / typesize) * typesize
}

func innerDecompress(c InnerCodec, compressed []byte, wantLen int) ([]byte, error) {
	switch c {
	case InnerLZ4:
		out := make([]byte, wantLen)
		n, err := lz4.UncompressBlock(compressed, out)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %v", errCorrupt, err)
		}
		return out[:n], nil
	case InnerZlib:
		r := flate.NewReader(bytes.NewReader(compressed))
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("%w: deflate: %v", errCorrupt, err)
		}
		return out, nil
	case InnerZstd:
		dec, err := klzstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("codec: zstd: %w", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(compressed, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %v", errCorrupt, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: blosc inner codec id %d not supported", errUnsupported, c)
	}
}

func innerCompress(c InnerCodec, plain []byte, level int) ([]byte, error) {
	switch c {
	case InnerLZ4:
		out := make([]byte, lz4.CompressBlockBound(len(plain)))
		var compressor lz4.Compressor
		n, err := compressor.CompressBlock(plain, out)
		if err != nil {
			return nil, fmt.Errorf("codec: lz4: %w", err)
		}
		if n == 0 {
			// Incompressible per pierrec/lz4 (it reports 0 rather than
			// expanding); the caller's raw-stream fallback handles this.
			return plain, nil
		}
		return out[:n], nil
	case InnerZlib:
		var buf bytes.Buffer
		w, err := flate.NewWriter(&buf, flateLevel(level))
		if err != nil {
			return nil, fmt.Errorf("codec: deflate: %w", err)
		}
		if _, err := w.Write(plain); err != nil {
			return nil, fmt.Errorf("codec: deflate: %w", err)
		}
		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("codec: deflate: %w", err)
		}
		return buf.Bytes(), nil
	case InnerZstd:
		enc, err := klzstd.NewWriter(nil, klzstd.WithEncoderLevel(zstdLevel(level)))
		if err != nil {
			return nil, fmt.Errorf("codec: zstd: %w", err)
		}
		defer enc.Close()
		return enc.EncodeAll(plain, nil), nil
	default:
		return nil, fmt.Errorf("%w: blosc inner codec id %d not supported", errUnsupported, c)
	}
}

func flateLevel(clevel int) int {
	switch {
	case clevel <= 0:
		return flate.DefaultCompression
	case clevel >= 9:
		return flate.BestCompression
	default:
		return clevel
	}
}

// Package codec implements the byte<->byte transforms of spec.md §4.2/§4.3:
// the endian-aware boundary codec, gzip and zstd, and the self-describing
// block-shuffled meta-codec ("blosc"), plus the ordered Chain that threads
// element size through them.
//
// Per spec.md §9's design note, the codec set is small and closed, so a
// tagged-union struct with a Kind-switch Encode/Decode is used instead of
// an interface with one implementation type per codec.
package codec

import "fmt"

// Kind is the closed set of codecs spec.md §3 names.
type Kind int

const (
	// Boundary is the array-to-bytes boundary codec; it carries
	// endianness and is always adjacent to raw array bytes in the chain.
	Boundary Kind = iota
	Gzip
	Zstd
	Blosc
)

func (k Kind) String() string {
	switch k {
	case Boundary:
		return "bytes"
	case Gzip:
		return "gzip"
	case Zstd:
		return "zstd"
	case Blosc:
		return "blosc"
	default:
		return "unknown"
	}
}

// Endian is the byte order the Boundary codec swaps to/from host order.
type Endian int

const (
	LittleEndian Endian = iota
	BigEndian
)

// ShuffleMode is the blosc shuffle selector.
type ShuffleMode int

const (
	NoShuffle ShuffleMode = iota
	ByteShuffle
	BitShuffle // rejected by metadata parsing and by Encode/Decode: spec.md Non-goals excludes it.
)

// InnerCodec identifies the compressor a Blosc frame used internally.
type InnerCodec int

const (
	InnerBloscLZ InnerCodec = iota // id 0, unsupported
	InnerLZ4                       // id 1
	InnerSnappy                    // id 2, unsupported
	InnerZlib                      // id 3
	InnerZstd                      // id 4
)

// Codec is a single step of a Chain. Only the fields relevant to Kind are
// read; the zero value of the others is ignored.
type Codec struct {
	Kind Kind

	// Boundary
	Endian Endian

	// Gzip / Zstd level. Gzip: 0 none, 1 fastest, >=7 smallest, else
	// default, per spec.md §4.2. Zstd: clamped to [1,22].
	Level int

	// Blosc
	Cname     InnerCodec
	Clevel    int
	Shuffle   ShuffleMode
	Typesize  int
	Blocksize int
}

// NewBoundary returns the boundary codec for the given endianness.
func NewBoundary(e Endian) Codec { return Codec{Kind: Boundary, Endian: e} }

// NewGzip returns the gzip codec at the given nominal level.
func NewGzip(level int) Codec { return Codec{Kind: Gzip, Level: level} }

// NewZstd returns the zstd codec at the given level (clamped to [1,22]).
func NewZstd(level int) Codec { return Codec{Kind: Zstd, Level: level} }

// Decode reverses one codec step. elemSize is the array's element width in
// bytes and is only consulted by the Boundary codec.
func (c Codec) Decode(data []byte, elemSize int) ([]byte, error) {
	switch c.Kind {
	case Boundary:
		return decodeBoundary(data, elemSize, c.Endian)
	case Gzip:
		return decodeGzip(data)
	case Zstd:
		return decodeZstd(data)
	case Blosc:
		return decodeBlosc(data)
	default:
		return nil, fmt.Errorf("codec: %w: unknown codec kind %d", errUnsupported, c.Kind)
	}
}

// Encode applies one codec step going forward.
func (c Codec) Encode(data []byte, elemSize int) ([]byte, error) {
	switch c.Kind {
	case Boundary:
		return encodeBoundary(data, elemSize, c.Endian)
	case Gzip:
		return encodeGzip(data, c.Level)
	case Zstd:
		return encodeZstd(data, c.Level)
	case Blosc:
		typesize := c.Typesize
		if typesize == 0 {
			typesize = elemSize
		}
		blocksize := c.Blocksize
		if blocksize == 0 {
			blocksize = defaultBlocksize(len(data), typesize)
		}
		return encodeBlosc(data, c.Cname, c.Clevel, c.Shuffle, typesize, blocksize)
	default:
		return nil, fmt.Errorf("codec: %w: unknown codec kind %d", errUnsupported, c.Kind)
	}
}

// Package dtype classifies array element types and parses the two dtype
// spellings spec.md §4.5 must unify: v2's numpy-style dtype strings and
// v3's explicit type name + boundary-codec endianness.
package dtype

import (
	"fmt"
	"strconv"
)

// Kind is the closed set of element classifications spec.md §3 names.
type Kind int

const (
	Bool Kind = iota
	Int8
	Int16
	Int32
	Int64
	Uint8
	Uint16
	Uint32
	Uint64
	Float32
	Float64
)

func (k Kind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int8:
		return "int8"
	case Int16:
		return "int16"
	case Int32:
		return "int32"
	case Int64:
		return "int64"
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// Size returns the element width in bytes, one of {1,2,4,8}.
func (k Kind) Size() int {
	switch k {
	case Bool, Int8, Uint8:
		return 1
	case Int16, Uint16:
		return 2
	case Int32, Uint32, Float32:
		return 4
	case Int64, Uint64, Float64:
		return 8
	default:
		return 0
	}
}

// Endian is the declared byte order of a dtype, carried separately from
// Kind because the same Kind can appear little- or big-endian in either
// layout version.
type Endian int

const (
	LittleEndian Endian = iota
	BigEndian
)

// DType fully describes an array's element type: classification, byte
// width, and declared endianness. This is the unified representation both
// metadata.v2 and metadata.v3 parsers produce.
type DType struct {
	Kind   Kind
	Endian Endian
}

// Size returns the element width in bytes.
func (d DType) Size() int { return d.Kind.Size() }

// ParseNumpy parses a v2 numpy-style dtype string of the form
// `[<>|=]` + `{b,u,i,f}` + digits, e.g. "<f4", "|b1", ">i8", "=u2".
// Byte-order markers: '<' little, '>' big, '|' not-applicable (defaults to
// little), '=' native (defaults to little, since this implementation's
// host byte order is irrelevant to the wire format it produces).
func ParseNumpy(s string) (DType, error) {
	if len(s) < 3 {
		return DType{}, fmt.Errorf("dtype: invalid numpy dtype %q", s)
	}

	var endian Endian
	switch s[0] {
	case '<', '|', '=':
		endian = LittleEndian
	case '>':
		endian = BigEndian
	default:
		return DType{}, fmt.Errorf("dtype: invalid byte-order marker %q in %q", s[0:1], s)
	}

	kindChar := s[1]
	size, err := strconv.Atoi(s[2:])
	if err != nil {
		return DType{}, fmt.Errorf("dtype: invalid size in %q: %w", s, err)
	}

	kind, err := kindFromCharAndSize(kindChar, size)
	if err != nil {
		return DType{}, fmt.Errorf("dtype: %w (%q)", err, s)
	}
	return DType{Kind: kind, Endian: endian}, nil
}

func kindFromCharAndSize(kindChar byte, size int) (Kind, error) {
	switch kindChar {
	case 'b':
		if size != 1 {
			return 0, fmt.Errorf("unsupported bool size %d", size)
		}
		return Bool, nil
	case 'i':
		switch size {
		case 1:
			return Int8, nil
		case 2:
			return Int16, nil
		case 4:
			return Int32, nil
		case 8:
			return Int64, nil
		}
		return 0, fmt.Errorf("unsupported int size %d", size)
	case 'u':
		switch size {
		case 1:
			return Uint8, nil
		case 2:
			return Uint16, nil
		case 4:
			return Uint32, nil
		case 8:
			return Uint64, nil
		}
		return 0, fmt.Errorf("unsupported uint size %d", size)
	case 'f':
		switch size {
		case 4:
			return Float32, nil
		case 8:
			return Float64, nil
		}
		return 0, fmt.Errorf("unsupported float size %d", size)
	default:
		return 0, fmt.Errorf("unsupported dtype kind %q", string(kindChar))
	}
}

// ParseV3 parses a v3 explicit data_type string (e.g. "uint16", "float32",
// "bool", "int8"). Endianness for v3 arrays comes from the "bytes" codec's
// configuration, not from this string, so it is supplied separately and
// combined here.
func ParseV3(s string, endian Endian) (DType, error) {
	var k Kind
	switch s {
	case "bool":
		k = Bool
	case "int8":
		k = Int8
	case "int16":
		k = Int16
	case "int32":
		k = Int32
	case "int64":
		k = Int64
	case "uint8":
		k = Uint8
	case "uint16":
		k = Uint16
	case "uint32":
		k = Uint32
	case "uint64":
		k = Uint64
	case "float32":
		k = Float32
	case "float64":
		k = Float64
	default:
		return DType{}, fmt.Errorf("dtype: unsupported v3 data_type %q", s)
	}
	return DType{Kind: k, Endian: endian}, nil
}

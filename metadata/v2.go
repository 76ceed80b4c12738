package metadata

import (
	"encoding/json"
	"fmt"

	"github.com/BiologyTools/go-zarr/codec"
	"github.com/BiologyTools/go-zarr/dtype"
)

// v2CompressorDoc mirrors numcodecs' JSON spelling of the "compressor"
// field in .zarray, e.g. {"id":"blosc","cname":"lz4","clevel":5,
// "shuffle":1,"blocksize":0}. A null compressor means uncompressed.
type v2CompressorDoc struct {
	ID        string `json:"id"`
	Cname     string `json:"cname,omitempty"`
	Clevel    int    `json:"clevel,omitempty"`
	Shuffle   int    `json:"shuffle,omitempty"`
	Blocksize int    `json:"blocksize,omitempty"`
	Level     int    `json:"level,omitempty"`
}

// v2ArrayDoc mirrors .zarray, per spec.md §6.2.
type v2ArrayDoc struct {
	ZarrFormat         int              `json:"zarr_format"`
	Shape              []int64          `json:"shape"`
	Chunks             []uint32         `json:"chunks"`
	DType              string           `json:"dtype"`
	Compressor         *v2CompressorDoc `json:"compressor"`
	FillValue          json.RawMessage  `json:"fill_value"`
	Order              string           `json:"order"`
	DimensionSeparator *string          `json:"dimension_separator,omitempty"`
}

type v2GroupDoc struct {
	ZarrFormat int `json:"zarr_format"`
}

// ParseV2Array parses a .zarray document. attrs is the sibling .zattrs
// document's raw bytes, or nil if absent. probeSlashSeparator, if non-nil, is
// consulted only when the document omits dimension_separator, per spec.md
// §4.4.1's chunk-key-separator probe.
func ParseV2Array(zarrayDoc, attrs []byte, probeSlashSeparator func() (bool, error)) (*ArrayMetadata, error) {
	var doc v2ArrayDoc
	if err := json.Unmarshal(zarrayDoc, &doc); err != nil {
		return nil, fmt.Errorf("metadata: invalid .zarray: %w", err)
	}
	if doc.ZarrFormat != 2 {
		return nil, fmt.Errorf("metadata: .zarray zarr_format=%d, want 2", doc.ZarrFormat)
	}
	if doc.Order != "" && doc.Order != "C" {
		return nil, fmt.Errorf("metadata: %w: .zarray order %q, only \"C\" is supported", errUnsupportedDoc, doc.Order)
	}
	if len(doc.Shape) == 0 {
		return nil, fmt.Errorf("metadata: .zarray has empty shape")
	}
	if len(doc.Shape) != len(doc.Chunks) {
		return nil, fmt.Errorf("metadata: .zarray shape rank %d != chunks rank %d", len(doc.Shape), len(doc.Chunks))
	}
	for d, c := range doc.Chunks {
		if c == 0 {
			return nil, fmt.Errorf("metadata: .zarray chunk size 0 at axis %d", d)
		}
	}

	dt, err := dtype.ParseNumpy(doc.DType)
	if err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}

	endian := codec.LittleEndian
	if dt.Endian == dtype.BigEndian {
		endian = codec.BigEndian
	}

	codecs := []codec.Codec{codec.NewBoundary(endian)}
	if doc.Compressor != nil {
		c, err := v2CompressorCodec(doc.Compressor)
		if err != nil {
			return nil, err
		}
		codecs = append(codecs, c)
	}

	sep, err := resolveV2Separator(doc.DimensionSeparator, probeSlashSeparator)
	if err != nil {
		return nil, err
	}

	return &ArrayMetadata{
		Shape:             doc.Shape,
		ChunkSize:         doc.Chunks,
		DType:             dt,
		Codecs:            codec.NewChain(dt.Size(), codecs...),
		ChunkKeySeparator: sep,
		Layout:            V2,
		FillValue:         doc.FillValue,
		RawAttributes:     attrs,
	}, nil
}

func resolveV2Separator(declared *string, probeSlashSeparator func() (bool, error)) (ChunkKeySeparator, error) {
	if declared != nil {
		switch *declared {
		case "/":
			return SeparatorSlash, nil
		case ".":
			return SeparatorDot, nil
		default:
			return 0, fmt.Errorf("metadata: invalid dimension_separator %q", *declared)
		}
	}
	if probeSlashSeparator == nil {
		return SeparatorDot, nil
	}
	useSlash, err := probeSlashSeparator()
	if err != nil {
		return 0, err
	}
	if useSlash {
		return SeparatorSlash, nil
	}
	return SeparatorDot, nil
}

func v2CompressorCodec(c *v2CompressorDoc) (codec.Codec, error) {
	switch c.ID {
	case "gzip":
		return codec.NewGzip(c.Level), nil
	case "zstd":
		return codec.NewZstd(c.Level), nil
	case "blosc":
		inner, err := v2BloscInnerCodec(c.Cname)
		if err != nil {
			return codec.Codec{}, err
		}
		shuffle, err := v2ShuffleMode(c.Shuffle)
		if err != nil {
			return codec.Codec{}, err
		}
		return codec.Codec{
			Kind:      codec.Blosc,
			Cname:     inner,
			Clevel:    c.Clevel,
			Shuffle:   shuffle,
			Blocksize: c.Blocksize,
		}, nil
	default:
		return codec.Codec{}, fmt.Errorf("metadata: %w: v2 compressor id %q", errUnsupportedDoc, c.ID)
	}
}

func v2BloscInnerCodec(cname string) (codec.InnerCodec, error) {
	switch cname {
	case "lz4", "lz4hc":
		return codec.InnerLZ4, nil
	case "zstd":
		return codec.InnerZstd, nil
	case "zlib":
		return codec.InnerZlib, nil
	case "blosclz":
		return 0, fmt.Errorf("metadata: %w: blosclz inner compressor", errUnsupportedDoc)
	case "snappy":
		return 0, fmt.Errorf("metadata: %w: snappy inner compressor", errUnsupportedDoc)
	default:
		return 0, fmt.Errorf("metadata: %w: blosc cname %q", errUnsupportedDoc, cname)
	}
}

// v2ShuffleMode accepts the numcodecs integer shuffle spelling (0, 1) —
// the JSON shuffle field here is always decoded as an int, so only the
// integer form is handled; parseV3ShuffleMode handles the string form
// for v3. Bit-shuffle (2) is rejected: spec.md's Non-goals explicitly
// exclude it.
func v2ShuffleMode(shuffle int) (codec.ShuffleMode, error) {
	switch shuffle {
	case 0:
		return codec.NoShuffle, nil
	case 1:
		return codec.ByteShuffle, nil
	case 2:
		return 0, fmt.Errorf("metadata: %w: bit-shuffle", errUnsupportedDoc)
	default:
		return 0, fmt.Errorf("metadata: %w: shuffle mode %d", errUnsupportedDoc, shuffle)
	}
}

// ParseV2Group parses a .zgroup document.
func ParseV2Group(zgroupDoc, attrs []byte) (*GroupMetadata, error) {
	var doc v2GroupDoc
	if err := json.Unmarshal(zgroupDoc, &doc); err != nil {
		return nil, fmt.Errorf("metadata: invalid .zgroup: %w", err)
	}
	if doc.ZarrFormat != 2 {
		return nil, fmt.Errorf("metadata: .zgroup zarr_format=%d, want 2", doc.ZarrFormat)
	}
	return &GroupMetadata{Layout: V2, RawAttributes: attrs}, nil
}

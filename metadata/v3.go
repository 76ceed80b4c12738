package metadata

import (
	"encoding/json"
	"fmt"

	"github.com/BiologyTools/go-zarr/codec"
	"github.com/BiologyTools/go-zarr/dtype"
)

type v3ChunkGridDoc struct {
	Name          string `json:"name"`
	Configuration struct {
		ChunkShape []uint32 `json:"chunk_shape"`
	} `json:"configuration"`
}

type v3ChunkKeyEncodingDoc struct {
	Name          string `json:"name"`
	Configuration struct {
		Separator string `json:"separator"`
	} `json:"configuration"`
}

type v3CodecDoc struct {
	Name          string          `json:"name"`
	Configuration json.RawMessage `json:"configuration"`
}

type v3ArrayDoc struct {
	ZarrFormat        int                   `json:"zarr_format"`
	NodeType          string                `json:"node_type"`
	Shape             []int64               `json:"shape"`
	DataType          string                `json:"data_type"`
	ChunkGrid         v3ChunkGridDoc        `json:"chunk_grid"`
	ChunkKeyEncoding  v3ChunkKeyEncodingDoc `json:"chunk_key_encoding"`
	Codecs            []v3CodecDoc          `json:"codecs"`
	FillValue         json.RawMessage       `json:"fill_value"`
	DimensionNames    []string              `json:"dimension_names,omitempty"`
	Attributes        json.RawMessage       `json:"attributes,omitempty"`
}

type v3GroupDoc struct {
	ZarrFormat int             `json:"zarr_format"`
	NodeType   string          `json:"node_type"`
	Attributes json.RawMessage `json:"attributes,omitempty"`
}

// ParseV3Array parses a zarr.json document for an array node.
func ParseV3Array(doc []byte) (*ArrayMetadata, error) {
	var d v3ArrayDoc
	if err := json.Unmarshal(doc, &d); err != nil {
		return nil, fmt.Errorf("metadata: invalid zarr.json: %w", err)
	}
	if d.ZarrFormat != 3 {
		return nil, fmt.Errorf("metadata: zarr.json zarr_format=%d, want 3", d.ZarrFormat)
	}
	if d.NodeType != "array" {
		return nil, fmt.Errorf("metadata: zarr.json node_type=%q, want \"array\"", d.NodeType)
	}
	if len(d.Shape) == 0 {
		return nil, fmt.Errorf("metadata: zarr.json has empty shape")
	}
	if d.ChunkGrid.Name != "regular" {
		return nil, fmt.Errorf("metadata: %w: chunk_grid %q", errUnsupportedDoc, d.ChunkGrid.Name)
	}
	if len(d.ChunkGrid.Configuration.ChunkShape) != len(d.Shape) {
		return nil, fmt.Errorf("metadata: chunk_shape rank %d != shape rank %d",
			len(d.ChunkGrid.Configuration.ChunkShape), len(d.Shape))
	}
	for axis, c := range d.ChunkGrid.Configuration.ChunkShape {
		if c == 0 {
			return nil, fmt.Errorf("metadata: chunk_shape has 0 at axis %d", axis)
		}
	}
	if d.ChunkKeyEncoding.Name != "" && d.ChunkKeyEncoding.Name != "default" {
		return nil, fmt.Errorf("metadata: %w: chunk_key_encoding %q", errUnsupportedDoc, d.ChunkKeyEncoding.Name)
	}
	if len(d.Codecs) == 0 {
		return nil, fmt.Errorf("metadata: zarr.json has no codecs")
	}

	sep := SeparatorSlash
	switch d.ChunkKeyEncoding.Configuration.Separator {
	case "", "/":
		sep = SeparatorSlash
	case ".":
		sep = SeparatorDot
	default:
		return nil, fmt.Errorf("metadata: invalid chunk_key_encoding separator %q", d.ChunkKeyEncoding.Configuration.Separator)
	}

	codecs, endian, err := parseV3Codecs(d.Codecs)
	if err != nil {
		return nil, err
	}

	dt, err := dtype.ParseV3(d.DataType, endian)
	if err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}

	return &ArrayMetadata{
		Shape:             d.Shape,
		ChunkSize:         d.ChunkGrid.Configuration.ChunkShape,
		DType:             dt,
		Codecs:            codec.NewChain(dt.Size(), codecs...),
		ChunkKeySeparator: sep,
		Layout:            V3,
		DimensionNames:    d.DimensionNames,
		FillValue:         d.FillValue,
		RawAttributes:     d.Attributes,
	}, nil
}

func parseV3Codecs(docs []v3CodecDoc) ([]codec.Codec, dtype.Endian, error) {
	codecs := make([]codec.Codec, 0, len(docs))
	endian := dtype.LittleEndian

	for i, cd := range docs {
		switch cd.Name {
		case "bytes":
			var cfg struct {
				Endian string `json:"endian"`
			}
			if len(cd.Configuration) > 0 {
				if err := json.Unmarshal(cd.Configuration, &cfg); err != nil {
					return nil, 0, fmt.Errorf("metadata: invalid bytes codec configuration: %w", err)
				}
			}
			e := codec.LittleEndian
			switch cfg.Endian {
			case "", "little":
				e = codec.LittleEndian
				endian = dtype.LittleEndian
			case "big":
				e = codec.BigEndian
				endian = dtype.BigEndian
			default:
				return nil, 0, fmt.Errorf("metadata: invalid bytes codec endian %q", cfg.Endian)
			}
			if i != 0 {
				return nil, 0, fmt.Errorf("metadata: %w: bytes codec must be first in chain", errUnsupportedDoc)
			}
			codecs = append(codecs, codec.NewBoundary(e))

		case "gzip":
			var cfg struct {
				Level int `json:"level"`
			}
			if len(cd.Configuration) > 0 {
				if err := json.Unmarshal(cd.Configuration, &cfg); err != nil {
					return nil, 0, fmt.Errorf("metadata: invalid gzip codec configuration: %w", err)
				}
			}
			codecs = append(codecs, codec.NewGzip(cfg.Level))

		case "zstd":
			var cfg struct {
				Level int `json:"level"`
			}
			if len(cd.Configuration) > 0 {
				if err := json.Unmarshal(cd.Configuration, &cfg); err != nil {
					return nil, 0, fmt.Errorf("metadata: invalid zstd codec configuration: %w", err)
				}
			}
			codecs = append(codecs, codec.NewZstd(cfg.Level))

		case "blosc":
			c, err := parseV3BloscCodec(cd.Configuration)
			if err != nil {
				return nil, 0, err
			}
			codecs = append(codecs, c)

		default:
			return nil, 0, fmt.Errorf("metadata: %w: codec %q", errUnsupportedDoc, cd.Name)
		}
	}

	if len(codecs) == 0 || codecs[0].Kind != codec.Boundary {
		return nil, 0, fmt.Errorf("metadata: %w: codec chain must start with the bytes codec", errUnsupportedDoc)
	}
	return codecs, endian, nil
}

func parseV3BloscCodec(raw json.RawMessage) (codec.Codec, error) {
	var cfg struct {
		Cname     string      `json:"cname"`
		Clevel    int         `json:"clevel"`
		Shuffle   interface{} `json:"shuffle"`
		Typesize  int         `json:"typesize"`
		Blocksize int         `json:"blocksize"`
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return codec.Codec{}, fmt.Errorf("metadata: invalid blosc codec configuration: %w", err)
	}

	inner, err := v2BloscInnerCodec(cfg.Cname)
	if err != nil {
		return codec.Codec{}, err
	}

	shuffle, err := parseV3ShuffleMode(cfg.Shuffle)
	if err != nil {
		return codec.Codec{}, err
	}

	return codec.Codec{
		Kind:      codec.Blosc,
		Cname:     inner,
		Clevel:    cfg.Clevel,
		Shuffle:   shuffle,
		Typesize:  cfg.Typesize,
		Blocksize: cfg.Blocksize,
	}, nil
}

// parseV3ShuffleMode accepts both the documented "noshuffle"/"byteshuffle"
// strings and the integer 0|1 spelling §6.2 says to also accept.
// Bit-shuffle (string or integer 2) is rejected: spec.md's Non-goals
// explicitly exclude it.
func parseV3ShuffleMode(v interface{}) (codec.ShuffleMode, error) {
	switch val := v.(type) {
	case string:
		switch val {
		case "noshuffle":
			return codec.NoShuffle, nil
		case "byteshuffle":
			return codec.ByteShuffle, nil
		case "bitshuffle":
			return 0, fmt.Errorf("metadata: %w: bit-shuffle", errUnsupportedDoc)
		default:
			return 0, fmt.Errorf("metadata: invalid blosc shuffle %q", val)
		}
	case float64:
		return v2ShuffleMode(int(val))
	case nil:
		return codec.NoShuffle, nil
	default:
		return 0, fmt.Errorf("metadata: invalid blosc shuffle value %v", v)
	}
}

// ParseV3Group parses a zarr.json document for a group node.
func ParseV3Group(doc []byte) (*GroupMetadata, error) {
	var d v3GroupDoc
	if err := json.Unmarshal(doc, &d); err != nil {
		return nil, fmt.Errorf("metadata: invalid zarr.json: %w", err)
	}
	if d.ZarrFormat != 3 {
		return nil, fmt.Errorf("metadata: zarr.json zarr_format=%d, want 3", d.ZarrFormat)
	}
	if d.NodeType != "group" {
		return nil, fmt.Errorf("metadata: zarr.json node_type=%q, want \"group\"", d.NodeType)
	}
	return &GroupMetadata{Layout: V3, RawAttributes: d.Attributes}, nil
}

// IsArrayDoc sniffs a zarr.json document's node_type without fully
// parsing it, for the group navigator's dispatch step.
func IsArrayDoc(doc []byte) (isArray bool, err error) {
	var d struct {
		NodeType string `json:"node_type"`
	}
	if err := json.Unmarshal(doc, &d); err != nil {
		return false, fmt.Errorf("metadata: invalid zarr.json: %w", err)
	}
	switch d.NodeType {
	case "array":
		return true, nil
	case "group":
		return false, nil
	default:
		return false, fmt.Errorf("metadata: %w: node_type %q", errUnsupportedDoc, d.NodeType)
	}
}

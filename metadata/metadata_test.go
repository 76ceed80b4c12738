package metadata_test

import (
	"testing"

	"github.com/BiologyTools/go-zarr/codec"
	"github.com/BiologyTools/go-zarr/dtype"
	"github.com/BiologyTools/go-zarr/metadata"
	"github.com/stretchr/testify/require"
)

func TestParseV2ArrayUncompressed(t *testing.T) {
	doc := []byte(`{
		"zarr_format": 2,
		"shape": [4, 4],
		"chunks": [2, 2],
		"dtype": "<u1",
		"compressor": null,
		"fill_value": 0,
		"order": "C"
	}`)

	m, err := metadata.ParseV2Array(doc, nil, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{4, 4}, m.Shape)
	require.Equal(t, dtype.Uint8, m.DType.Kind)
	require.Equal(t, metadata.SeparatorDot, m.ChunkKeySeparator)
	require.Len(t, m.Codecs.Codecs, 1)
	require.Equal(t, codec.Boundary, m.Codecs.Codecs[0].Kind)
}

func TestParseV2ArraySeparatorProbe(t *testing.T) {
	doc := []byte(`{
		"zarr_format": 2,
		"shape": [4],
		"chunks": [2],
		"dtype": "<i4",
		"compressor": null,
		"fill_value": 0,
		"order": "C"
	}`)

	m, err := metadata.ParseV2Array(doc, nil, func() (bool, error) { return true, nil })
	require.NoError(t, err)
	require.Equal(t, metadata.SeparatorSlash, m.ChunkKeySeparator)

	m, err = metadata.ParseV2Array(doc, nil, func() (bool, error) { return false, nil })
	require.NoError(t, err)
	require.Equal(t, metadata.SeparatorDot, m.ChunkKeySeparator)
}

func TestParseV2ArrayRejectsNonCOrder(t *testing.T) {
	doc := []byte(`{"zarr_format":2,"shape":[2],"chunks":[2],"dtype":"<u1","compressor":null,"fill_value":0,"order":"F"}`)
	_, err := metadata.ParseV2Array(doc, nil, nil)
	require.Error(t, err)
}

func TestParseV2ArrayBloscCompressor(t *testing.T) {
	doc := []byte(`{
		"zarr_format": 2,
		"shape": [8],
		"chunks": [4],
		"dtype": "<f4",
		"compressor": {"id":"blosc","cname":"zstd","clevel":5,"shuffle":1,"blocksize":0},
		"fill_value": 0,
		"order": "C"
	}`)
	m, err := metadata.ParseV2Array(doc, nil, nil)
	require.NoError(t, err)
	require.Len(t, m.Codecs.Codecs, 2)
	require.Equal(t, codec.Blosc, m.Codecs.Codecs[1].Kind)
	require.Equal(t, codec.InnerZstd, m.Codecs.Codecs[1].Cname)
	require.Equal(t, codec.ByteShuffle, m.Codecs.Codecs[1].Shuffle)
}

func TestParseV2ArrayRejectsBlosclz(t *testing.T) {
	doc := []byte(`{
		"zarr_format": 2,"shape":[4],"chunks":[2],"dtype":"<u1",
		"compressor": {"id":"blosc","cname":"blosclz","clevel":5,"shuffle":0},
		"fill_value":0,"order":"C"
	}`)
	_, err := metadata.ParseV2Array(doc, nil, nil)
	require.ErrorIs(t, err, metadata.ErrUnsupported)
}

func TestParseV2ArrayRejectsBitShuffle(t *testing.T) {
	doc := []byte(`{
		"zarr_format": 2,"shape":[4],"chunks":[2],"dtype":"<u1",
		"compressor": {"id":"blosc","cname":"lz4","clevel":5,"shuffle":2},
		"fill_value":0,"order":"C"
	}`)
	_, err := metadata.ParseV2Array(doc, nil, nil)
	require.ErrorIs(t, err, metadata.ErrUnsupported)
}

func TestParseV3Array(t *testing.T) {
	doc := []byte(`{
		"zarr_format": 3,
		"node_type": "array",
		"shape": [4, 4],
		"data_type": "uint16",
		"chunk_grid": {"name":"regular","configuration":{"chunk_shape":[2,2]}},
		"chunk_key_encoding": {"name":"default","configuration":{"separator":"/"}},
		"codecs": [{"name":"bytes","configuration":{"endian":"big"}}],
		"fill_value": 0
	}`)

	m, err := metadata.ParseV3Array(doc)
	require.NoError(t, err)
	require.Equal(t, dtype.Uint16, m.DType.Kind)
	require.Equal(t, dtype.BigEndian, m.DType.Endian)
	require.Equal(t, metadata.SeparatorSlash, m.ChunkKeySeparator)
}

func TestParseV3ArrayWithBlosc(t *testing.T) {
	doc := []byte(`{
		"zarr_format": 3,
		"node_type": "array",
		"shape": [8],
		"data_type": "float32",
		"chunk_grid": {"name":"regular","configuration":{"chunk_shape":[4]}},
		"chunk_key_encoding": {"name":"default","configuration":{"separator":"/"}},
		"codecs": [
			{"name":"bytes","configuration":{"endian":"little"}},
			{"name":"blosc","configuration":{"cname":"lz4","clevel":5,"shuffle":"byteshuffle","typesize":4,"blocksize":0}}
		],
		"fill_value": 0
	}`)
	m, err := metadata.ParseV3Array(doc)
	require.NoError(t, err)
	require.Len(t, m.Codecs.Codecs, 2)
	require.Equal(t, codec.InnerLZ4, m.Codecs.Codecs[1].Cname)
}

func TestParseV3ArrayRejectsBitShuffle(t *testing.T) {
	doc := []byte(`{
		"zarr_format": 3,
		"node_type": "array",
		"shape": [8],
		"data_type": "float32",
		"chunk_grid": {"name":"regular","configuration":{"chunk_shape":[4]}},
		"chunk_key_encoding": {"name":"default","configuration":{"separator":"/"}},
		"codecs": [
			{"name":"bytes","configuration":{"endian":"little"}},
			{"name":"blosc","configuration":{"cname":"lz4","clevel":5,"shuffle":"bitshuffle","typesize":4,"blocksize":0}}
		],
		"fill_value": 0
	}`)
	_, err := metadata.ParseV3Array(doc)
	require.ErrorIs(t, err, metadata.ErrUnsupported)
}

func TestParseV3ArrayRejectsSharding(t *testing.T) {
	doc := []byte(`{
		"zarr_format": 3, "node_type":"array","shape":[4],"data_type":"uint8",
		"chunk_grid":{"name":"sharding_indexed","configuration":{"chunk_shape":[2]}},
		"chunk_key_encoding":{"name":"default","configuration":{"separator":"/"}},
		"codecs":[{"name":"bytes","configuration":{"endian":"little"}}],
		"fill_value":0
	}`)
	_, err := metadata.ParseV3Array(doc)
	require.ErrorIs(t, err, metadata.ErrUnsupported)
}

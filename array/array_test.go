package array_test

import (
	"context"
	"strconv"
	"strings"
	"testing"

	"github.com/BiologyTools/go-zarr/array"
	"github.com/BiologyTools/go-zarr/codec"
	"github.com/BiologyTools/go-zarr/dtype"
	"github.com/BiologyTools/go-zarr/metadata"
	"github.com/BiologyTools/go-zarr/store"
	"github.com/stretchr/testify/require"
)

func u8Meta(shape, chunks []int64) *metadata.ArrayMetadata {
	chunkSize := make([]uint32, len(chunks))
	for i, c := range chunks {
		chunkSize[i] = uint32(c)
	}
	return &metadata.ArrayMetadata{
		Shape:             shape,
		ChunkSize:         chunkSize,
		DType:             dtype.DType{Kind: dtype.Uint8, Endian: dtype.LittleEndian},
		Codecs:            codec.NewChain(1, codec.NewBoundary(codec.LittleEndian)),
		ChunkKeySeparator: metadata.SeparatorSlash,
		Layout:            metadata.V3,
	}
}

// writeChunk encodes one chunk's bytes through m's codec chain and stores
// them at key, mimicking what a real writer would have produced, for
// read-path tests.
func writeChunk(t *testing.T, st store.Store, key string, data []byte, m *metadata.ArrayMetadata) {
	t.Helper()
	encoded, err := m.Codecs.Encode(data)
	require.NoError(t, err)
	require.NoError(t, st.Write(context.Background(), key, encoded))
}

// TestReadRegionFullArrayNoCompression covers spec.md §8 scenario 1: a
// zero-compression v3 array read back whole.
func TestReadRegionFullArrayNoCompression(t *testing.T) {
	m := u8Meta([]int64{4, 4}, []int64{2, 2})
	st := store.NewMemStore()
	a := array.New(st, "arr", m)

	// 4x4 array split into four 2x2 chunks, each filled with its chunk
	// index (0..3) repeated.
	for cy := int64(0); cy < 2; cy++ {
		for cx := int64(0); cx < 2; cx++ {
			val := byte(cy*2 + cx)
			chunkData := []byte{val, val, val, val}
			key := chunkKeyFor(t, "arr", []int64{cy, cx}, m)
			writeChunk(t, st, key, chunkData, m)
		}
	}

	got, err := a.ReadRegion(context.Background(), []int64{0, 0}, []int64{4, 4}, 0)
	require.NoError(t, err)
	require.Len(t, got, 16)

	want := []byte{
		0, 0, 1, 1,
		0, 0, 1, 1,
		2, 2, 3, 3,
		2, 2, 3, 3,
	}
	require.Equal(t, want, got)
}

// TestReadRegionMissingChunkZeroFills covers spec.md §4.4.5: an absent
// chunk reads back as zero bytes rather than erroring.
func TestReadRegionMissingChunkZeroFills(t *testing.T) {
	m := u8Meta([]int64{2, 2}, []int64{2, 2})
	st := store.NewMemStore()
	a := array.New(st, "arr", m)

	got, err := a.ReadRegion(context.Background(), []int64{0, 0}, []int64{2, 2}, 0)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 0, 0}, got)
}

// TestReadRegionTruncatedEdgeChunk covers spec.md §8 scenario 3: a
// 5-wide array with chunk size 2 has a trailing chunk truncated to width
// 1, which must expand to the full 2-wide chunk shape before scattering
// into the output region.
func TestReadRegionTruncatedEdgeChunk(t *testing.T) {
	m := u8Meta([]int64{5}, []int64{2})
	st := store.NewMemStore()
	a := array.New(st, "arr", m)

	writeChunk(t, st, chunkKeyFor(t, "arr", []int64{0}, m), []byte{10, 11}, m)
	writeChunk(t, st, chunkKeyFor(t, "arr", []int64{1}, m), []byte{12, 13}, m)
	// Trailing chunk only covers index 4 (truncated shape [1]).
	writeChunk(t, st, chunkKeyFor(t, "arr", []int64{2}, m), []byte{14}, m)

	got, err := a.ReadRegion(context.Background(), []int64{0}, []int64{5}, 0)
	require.NoError(t, err)
	require.Equal(t, []byte{10, 11, 12, 13, 14}, got)
}

// TestReadRegionPartialSubregion reads a sub-box smaller than the full
// array, exercising the chunk-intersection logic on both interior
// chunks and chunks only partially overlapped by the region.
func TestReadRegionPartialSubregion(t *testing.T) {
	m := u8Meta([]int64{4, 4}, []int64{2, 2})
	st := store.NewMemStore()
	a := array.New(st, "arr", m)

	for cy := int64(0); cy < 2; cy++ {
		for cx := int64(0); cx < 2; cx++ {
			val := byte(cy*2 + cx + 1)
			writeChunk(t, st, chunkKeyFor(t, "arr", []int64{cy, cx}, m), []byte{val, val, val, val}, m)
		}
	}

	got, err := a.ReadRegion(context.Background(), []int64{1, 1}, []int64{3, 3}, 0)
	require.NoError(t, err)
	want := []byte{
		1, 2,
		3, 4,
	}
	require.Equal(t, want, got)
}

func TestReadRegionRejectsOutOfBounds(t *testing.T) {
	m := u8Meta([]int64{4}, []int64{2})
	a := array.New(store.NewMemStore(), "arr", m)

	_, err := a.ReadRegion(context.Background(), []int64{0}, []int64{5}, 0)
	require.ErrorIs(t, err, array.ErrInvalidRegion)
}

func TestWriteRegionThenReadBackRoundTrips(t *testing.T) {
	m := u8Meta([]int64{4, 4}, []int64{2, 2})
	st := store.NewMemStore()
	a := array.New(st, "arr", m)

	data := []byte{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}
	require.NoError(t, a.WriteRegion(context.Background(), []int64{0, 0}, []int64{4, 4}, data))

	got, err := a.ReadRegion(context.Background(), []int64{0, 0}, []int64{4, 4}, 0)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestWriteRegionPartialChunkReadsModifyWrites(t *testing.T) {
	m := u8Meta([]int64{4}, []int64{4})
	st := store.NewMemStore()
	a := array.New(st, "arr", m)

	require.NoError(t, a.WriteRegion(context.Background(), []int64{0}, []int64{4}, []byte{1, 2, 3, 4}))
	require.NoError(t, a.WriteRegion(context.Background(), []int64{1}, []int64{3}, []byte{20, 30}))

	got, err := a.ReadRegion(context.Background(), []int64{0}, []int64{4}, 0)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 20, 30, 4}, got)
}

// chunkKeyFor mirrors the package-private chunkKey construction (v3
// layout) so tests can place pre-encoded chunks at the exact keys Array
// will look up.
func chunkKeyFor(t *testing.T, arrayPath string, coord []int64, m *metadata.ArrayMetadata) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(arrayPath)
	b.WriteByte('/')
	b.WriteByte('c')
	if len(coord) > 0 {
		b.WriteByte(byte(m.ChunkKeySeparator))
	}
	for i, c := range coord {
		if i > 0 {
			b.WriteByte(byte(m.ChunkKeySeparator))
		}
		b.WriteString(strconv.FormatInt(c, 10))
	}
	return b.String()
}

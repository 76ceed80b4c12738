package group_test

import (
	"context"
	"testing"

	"github.com/BiologyTools/go-zarr/group"
	"github.com/BiologyTools/go-zarr/store"
	"github.com/stretchr/testify/require"
)

func TestOpenV3Array(t *testing.T) {
	st := store.NewMemStore()
	ctx := context.Background()
	doc := []byte(`{
		"zarr_format": 3, "node_type": "array",
		"shape": [4], "data_type": "uint8",
		"chunk_grid": {"name":"regular","configuration":{"chunk_shape":[2]}},
		"chunk_key_encoding": {"name":"default","configuration":{"separator":"/"}},
		"codecs": [{"name":"bytes","configuration":{"endian":"little"}}],
		"fill_value": 0
	}`)
	require.NoError(t, st.Write(ctx, "arr/zarr.json", doc))

	nav := group.New(st)
	node, err := nav.Open(ctx, "arr")
	require.NoError(t, err)
	require.NotNil(t, node.Array)
	require.Nil(t, node.Group)
	require.Equal(t, []int64{4}, node.Array.Metadata().Shape)
}

func TestOpenV3Group(t *testing.T) {
	st := store.NewMemStore()
	ctx := context.Background()
	require.NoError(t, st.Write(ctx, "zarr.json", []byte(`{"zarr_format":3,"node_type":"group"}`)))

	nav := group.New(st)
	node, err := nav.Open(ctx, "")
	require.NoError(t, err)
	require.Nil(t, node.Array)
	require.NotNil(t, node.Group)
}

func TestOpenV2ArraySeparatorProbeSlash(t *testing.T) {
	st := store.NewMemStore()
	ctx := context.Background()
	doc := []byte(`{"zarr_format":2,"shape":[2,2],"chunks":[2,2],"dtype":"<u1","compressor":null,"fill_value":0,"order":"C"}`)
	require.NoError(t, st.Write(ctx, "arr/.zarray", doc))
	require.NoError(t, st.Write(ctx, "arr/0/0", []byte{1, 2, 3, 4}))

	nav := group.New(st)
	node, err := nav.Open(ctx, "arr")
	require.NoError(t, err)
	require.NotNil(t, node.Array)
	got, err := node.Array.ReadRegion(ctx, []int64{0, 0}, []int64{2, 2}, 0)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3, 4}, got)
}

// TestOpenV2ArraySeparatorProbeDot covers spec.md §8 scenario 6's other
// branch: only the dot-separated key present selects '.'.
func TestOpenV2ArraySeparatorProbeDot(t *testing.T) {
	st := store.NewMemStore()
	ctx := context.Background()
	doc := []byte(`{"zarr_format":2,"shape":[2,2],"chunks":[2,2],"dtype":"<u1","compressor":null,"fill_value":0,"order":"C"}`)
	require.NoError(t, st.Write(ctx, "arr/.zarray", doc))
	require.NoError(t, st.Write(ctx, "arr/0.0", []byte{9, 8, 7, 6}))

	nav := group.New(st)
	node, err := nav.Open(ctx, "arr")
	require.NoError(t, err)
	got, err := node.Array.ReadRegion(ctx, []int64{0, 0}, []int64{2, 2}, 0)
	require.NoError(t, err)
	require.Equal(t, []byte{9, 8, 7, 6}, got)
}

func TestOpenV2GroupWithAttrs(t *testing.T) {
	st := store.NewMemStore()
	ctx := context.Background()
	require.NoError(t, st.Write(ctx, "g/.zgroup", []byte(`{"zarr_format":2}`)))
	require.NoError(t, st.Write(ctx, "g/.zattrs", []byte(`{"foo":"bar"}`)))

	nav := group.New(st)
	node, err := nav.Open(ctx, "g")
	require.NoError(t, err)
	require.NotNil(t, node.Group)
	require.JSONEq(t, `{"foo":"bar"}`, string(node.Group.RawAttributes))
}

func TestOpenMissingNodeReturnsNotFound(t *testing.T) {
	st := store.NewMemStore()
	nav := group.New(st)
	_, err := nav.Open(context.Background(), "nope")
	require.ErrorIs(t, err, group.ErrNotFound)
}

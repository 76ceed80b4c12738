// Package metadata parses the two array/group metadata document layouts
// (zarr.json for v3, .zarray/.zgroup/.zattrs for v2) into the single
// unified ArrayMetadata/GroupMetadata representation the rest of the
// module operates on, per spec.md §3/§4.5/§6.2.
package metadata

import (
	"encoding/json"

	"github.com/BiologyTools/go-zarr/codec"
	"github.com/BiologyTools/go-zarr/dtype"
)

// LayoutVersion distinguishes the two on-disk/on-wire layouts.
type LayoutVersion int

const (
	V2 LayoutVersion = 2
	V3 LayoutVersion = 3
)

// ChunkKeySeparator is the separator used when assembling chunk keys.
type ChunkKeySeparator byte

const (
	SeparatorDot   ChunkKeySeparator = '.'
	SeparatorSlash ChunkKeySeparator = '/'
)

// ArrayMetadata is the immutable, unified description of an array node,
// per spec.md §3's "Array descriptor". It is safe to share across
// concurrent region reads.
type ArrayMetadata struct {
	Shape     []int64
	ChunkSize []uint32
	DType     dtype.DType
	Codecs    codec.Chain // first entry is always the boundary codec

	ChunkKeySeparator ChunkKeySeparator
	Layout            LayoutVersion

	// DimensionNames is only populated for v3 arrays; v2 has no
	// equivalent field and relies entirely on overlay metadata.
	DimensionNames []string

	// FillValue is forwarded opaquely; per spec.md §4.4.5 this
	// implementation only ever materializes zero bytes for absent
	// chunks, but callers/future extensions may inspect the raw value.
	FillValue json.RawMessage

	// RawAttributes is the array's attributes document (v3 "attributes"
	// field, or v2's .zattrs sibling), forwarded to the overlay layer
	// unparsed.
	RawAttributes json.RawMessage
}

// Rank returns the array's dimensionality.
func (m *ArrayMetadata) Rank() int { return len(m.Shape) }

// ElemSize returns the element width in bytes.
func (m *ArrayMetadata) ElemSize() int { return m.DType.Size() }

// ChunkGridShape returns, for each axis, ceil(shape[d]/chunkSize[d]) — the
// number of chunks along that axis.
func (m *ArrayMetadata) ChunkGridShape() []int64 {
	grid := make([]int64, m.Rank())
	for d := range grid {
		cs := int64(m.ChunkSize[d])
		grid[d] = (m.Shape[d] + cs - 1) / cs
	}
	return grid
}

// TruncatedChunkShape returns the valid element extent of the chunk at
// chunkCoord, per spec.md §4.4.2: min(shape[d]-coord[d]*chunkSize[d],
// chunkSize[d]) on each axis. For a fully interior chunk this equals
// ChunkSize.
func (m *ArrayMetadata) TruncatedChunkShape(chunkCoord []int64) []int64 {
	shape := make([]int64, m.Rank())
	for d := range shape {
		cs := int64(m.ChunkSize[d])
		remaining := m.Shape[d] - chunkCoord[d]*cs
		if remaining > cs {
			remaining = cs
		}
		shape[d] = remaining
	}
	return shape
}

// GroupMetadata is an opaque attribute blob: no shape, no data.
type GroupMetadata struct {
	Layout        LayoutVersion
	RawAttributes json.RawMessage
}

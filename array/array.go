// Package array implements the chunked array engine of spec.md §4.4:
// region<->chunk mapping, bounded concurrent fetch, truncated-edge-chunk
// expansion, and the row-contiguous N-D gather/scatter that serves both
// reads and writes.
package array

import (
	"context"
	"fmt"
	"sync"

	"github.com/BiologyTools/go-zarr/metadata"
	"github.com/BiologyTools/go-zarr/store"
)

// DefaultMaxParallel is the bounded-parallelism default spec.md §4.4
// names.
const DefaultMaxParallel = 16

// Array is a ready-to-read/write chunked array: a Store plus the unified
// metadata describing its shape, chunking, dtype, and codec chain. It is
// safe for concurrent region reads; Array shares no mutable state with the
// Store and holds none of its own.
type Array struct {
	st   store.Store
	path string
	meta *metadata.ArrayMetadata
}

// New constructs an Array over an already-resolved ArrayMetadata. path is
// the array's key prefix within st (empty for a store rooted at the array
// itself).
func New(st store.Store, path string, meta *metadata.ArrayMetadata) *Array {
	return &Array{st: st, path: path, meta: meta}
}

// Metadata returns the array's descriptor.
func (a *Array) Metadata() *metadata.ArrayMetadata { return a.meta }

func clampMaxParallel(maxParallel int) int {
	if maxParallel <= 0 {
		return DefaultMaxParallel
	}
	return maxParallel
}

// validateRegion checks spec.md §4.4 step 1: same rank, 0 <= start[d] <
// end[d] <= shape[d] for every axis.
func (a *Array) validateRegion(start, end []int64) error {
	rank := a.meta.Rank()
	if len(start) != rank || len(end) != rank {
		return fmt.Errorf("array: region rank %d/%d does not match array rank %d: %w",
			len(start), len(end), rank, errInvalidRegion)
	}
	for d := 0; d < rank; d++ {
		if start[d] < 0 || start[d] >= end[d] || end[d] > a.meta.Shape[d] {
			return fmt.Errorf("array: region [%d,%d) out of bounds on axis %d (shape %d): %w",
				start[d], end[d], d, a.meta.Shape[d], errInvalidRegion)
		}
	}
	return nil
}

// chunkCoordRange returns, per axis, the half-open range of chunk
// coordinates intersecting [start,end), per spec.md §4.4 step 3.
func (a *Array) chunkCoordRange(start, end []int64) (first, lastExclusive []int64) {
	rank := a.meta.Rank()
	first = make([]int64, rank)
	lastExclusive = make([]int64, rank)
	for d := 0; d < rank; d++ {
		cs := int64(a.meta.ChunkSize[d])
		first[d] = start[d] / cs
		lastExclusive[d] = ((end[d] - 1) / cs) + 1
	}
	return first, lastExclusive
}

// enumerateChunkCoords calls fn once per chunk coordinate in [first,
// lastExclusive), in row-major order, reusing one coordinate slice.
func enumerateChunkCoords(first, lastExclusive []int64, fn func(coord []int64) error) error {
	rank := len(first)
	if rank == 0 {
		return fn(nil)
	}
	coord := make([]int64, rank)
	copy(coord, first)

	var walk func(axis int) error
	walk = func(axis int) error {
		if axis == rank {
			return fn(coord)
		}
		for coord[axis] = first[axis]; coord[axis] < lastExclusive[axis]; coord[axis]++ {
			if err := walk(axis + 1); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(0)
}

// ReadRegion reads the half-open box [start,end) and returns it as a
// contiguous C-order buffer, per spec.md §4.4. maxParallel bounds
// concurrent chunk fetches; 0 selects DefaultMaxParallel.
func (a *Array) ReadRegion(ctx context.Context, start, end []int64, maxParallel int) ([]byte, error) {
	if err := a.validateRegion(start, end); err != nil {
		return nil, err
	}

	rank := a.meta.Rank()
	regionShape := make([]int64, rank)
	for d := 0; d < rank; d++ {
		regionShape[d] = end[d] - start[d]
	}
	elemSize := a.meta.ElemSize()
	out := make([]byte, product(regionShape)*int64(elemSize))

	first, lastExclusive := a.chunkCoordRange(start, end)

	sem := make(chan struct{}, clampMaxParallel(maxParallel))
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	err := enumerateChunkCoords(first, lastExclusive, func(coord []int64) error {
		coord = append([]int64(nil), coord...) // detach from the reused slice

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if ctx.Err() != nil {
				setErr(ctx.Err())
				return
			}

			chunkData, err := a.fetchChunk(ctx, coord)
			if err != nil {
				setErr(err)
				return
			}

			a.scatterChunkIntoRegion(out, regionShape, start, coord, chunkData)
		}()
		return nil
	})
	if err != nil {
		wg.Wait()
		return nil, fmt.Errorf("array: region read cancelled: %w: %w", errCancelled, err)
	}

	wg.Wait()

	mu.Lock()
	err = firstErr
	mu.Unlock()
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("array: region read cancelled: %w", errCancelled)
		}
		return nil, err
	}
	return out, nil
}

// fetchChunk reads, decodes, and (if needed) expands one chunk to its
// full chunk shape. A missing chunk synthesizes a zeroed fill chunk, per
// spec.md §4.4.5.
func (a *Array) fetchChunk(ctx context.Context, chunkCoord []int64) ([]byte, error) {
	key := chunkKey(a.path, chunkCoord, a.meta.Layout, a.meta.ChunkKeySeparator)
	elemSize := a.meta.ElemSize()

	raw, found, err := a.st.Read(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("array: reading chunk %q: %w", key, errStoreFailure(err))
	}

	fullShape := chunkShapeInt64(a.meta.ChunkSize)
	fullBytes := product(fullShape) * int64(elemSize)

	if !found {
		return make([]byte, fullBytes), nil
	}

	decoded, err := a.meta.Codecs.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("array: decoding chunk %q: %w: %v", key, errChunkCorrupt, err)
	}

	if int64(len(decoded)) == fullBytes {
		return decoded, nil
	}

	truncatedShape := a.meta.TruncatedChunkShape(chunkCoord)
	truncatedBytes := product(truncatedShape) * int64(elemSize)
	if int64(len(decoded)) == truncatedBytes {
		return expandTruncatedChunk(decoded, truncatedShape, fullShape, elemSize), nil
	}

	return nil, fmt.Errorf("array: chunk %q decoded to %d bytes, want %d (full) or %d (truncated): %w",
		key, len(decoded), fullBytes, truncatedBytes, errChunkCorrupt)
}

func chunkShapeInt64(chunkSize []uint32) []int64 {
	shape := make([]int64, len(chunkSize))
	for i, c := range chunkSize {
		shape[i] = int64(c)
	}
	return shape
}

// scatterChunkIntoRegion copies the intersection of chunkCoord's chunk
// footprint with [regionStart, regionStart+regionShape) from chunkData
// into out, at the corresponding offset, per spec.md §4.4 step 4d.
func (a *Array) scatterChunkIntoRegion(out []byte, regionShape, regionStart, chunkCoord []int64, chunkData []byte) {
	rank := a.meta.Rank()
	elemSize := a.meta.ElemSize()
	fullShape := chunkShapeInt64(a.meta.ChunkSize)

	intersectStart := make([]int64, rank)
	intersectShape := make([]int64, rank)
	chunkOffset := make([]int64, rank)
	regionOffset := make([]int64, rank)

	for d := 0; d < rank; d++ {
		cs := int64(a.meta.ChunkSize[d])
		chunkOrigin := chunkCoord[d] * cs
		chunkEnd := chunkOrigin + cs
		if chunkEnd > a.meta.Shape[d] {
			chunkEnd = a.meta.Shape[d]
		}

		regionEnd := regionStart[d] + regionShape[d]

		start := chunkOrigin
		if regionStart[d] > start {
			start = regionStart[d]
		}
		end := chunkEnd
		if regionEnd < end {
			end = regionEnd
		}
		if start >= end {
			return // no overlap on this axis (shouldn't happen given enumeration, but safe)
		}

		intersectStart[d] = start
		intersectShape[d] = end - start
		chunkOffset[d] = start - chunkOrigin
		regionOffset[d] = start - regionStart[d]
	}

	copyND(out, regionShape, regionOffset, chunkData, fullShape, chunkOffset, intersectShape, elemSize)
}

// WriteRegion writes bytes (C-order, matching [start,end)) into the
// array, performing read-modify-write on any chunk only partially
// covered by the region, per spec.md §4.4. Per spec.md §5, writes to a
// single chunk are serialized; distinct chunks are written sequentially
// here too (the spec does not require concurrent writes).
func (a *Array) WriteRegion(ctx context.Context, start, end []int64, data []byte) error {
	if err := a.validateRegion(start, end); err != nil {
		return err
	}

	rank := a.meta.Rank()
	regionShape := make([]int64, rank)
	for d := 0; d < rank; d++ {
		regionShape[d] = end[d] - start[d]
	}
	elemSize := a.meta.ElemSize()
	want := product(regionShape) * int64(elemSize)
	if int64(len(data)) != want {
		return fmt.Errorf("array: write data is %d bytes, region needs %d: %w", len(data), want, errInvalidRegion)
	}

	first, lastExclusive := a.chunkCoordRange(start, end)

	return enumerateChunkCoords(first, lastExclusive, func(coord []int64) error {
		if ctx.Err() != nil {
			return fmt.Errorf("array: region write cancelled: %w", errCancelled)
		}
		return a.writeChunkIntersection(ctx, coord, regionShape, start, data)
	})
}

func (a *Array) writeChunkIntersection(ctx context.Context, chunkCoord, regionShape, regionStart []int64, data []byte) error {
	rank := a.meta.Rank()
	elemSize := a.meta.ElemSize()
	fullShape := chunkShapeInt64(a.meta.ChunkSize)

	truncatedShape := a.meta.TruncatedChunkShape(chunkCoord)
	fullChunk := shapesEqual(truncatedShape, fullShape)

	var chunkBuf []byte
	if fullChunk {
		// Whole chunk is covered iff the write region fully contains it;
		// otherwise this is a read-modify-write even on an interior chunk.
		covered := true
		for d := 0; d < rank; d++ {
			cs := int64(a.meta.ChunkSize[d])
			origin := chunkCoord[d] * cs
			if regionStart[d] > origin || regionStart[d]+regionShape[d] < origin+cs {
				covered = false
				break
			}
		}
		if covered {
			chunkBuf = make([]byte, product(fullShape)*int64(elemSize))
		}
	}
	if chunkBuf == nil {
		existing, err := a.fetchChunk(ctx, chunkCoord)
		if err != nil {
			return err
		}
		chunkBuf = existing
	}

	intersectStart := make([]int64, rank)
	intersectShape := make([]int64, rank)
	chunkOffset := make([]int64, rank)
	regionOffset := make([]int64, rank)

	for d := 0; d < rank; d++ {
		cs := int64(a.meta.ChunkSize[d])
		chunkOrigin := chunkCoord[d] * cs
		chunkEnd := chunkOrigin + truncatedShape[d]

		regionEnd := regionStart[d] + regionShape[d]

		start := chunkOrigin
		if regionStart[d] > start {
			start = regionStart[d]
		}
		end := chunkEnd
		if regionEnd < end {
			end = regionEnd
		}

		intersectStart[d] = start
		intersectShape[d] = end - start
		chunkOffset[d] = start - chunkOrigin
		regionOffset[d] = start - regionStart[d]
	}

	copyND(chunkBuf, fullShape, chunkOffset, data, regionShape, regionOffset, intersectShape, elemSize)

	encoded, err := a.meta.Codecs.Encode(chunkBuf)
	if err != nil {
		return fmt.Errorf("array: encoding chunk: %w", err)
	}

	key := chunkKey(a.path, chunkCoord, a.meta.Layout, a.meta.ChunkKeySeparator)
	if err := a.st.Write(ctx, key, encoded); err != nil {
		return fmt.Errorf("array: writing chunk %q: %w", key, errStoreFailure(err))
	}
	return nil
}

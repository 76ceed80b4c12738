// Package zarr is the reader entry point of spec.md §4.8: it scheme-
// dispatches a locator to a Store, opens the root node, classifies the
// overlay (multiscale image, plate, well, label group, or a bioformats2raw-
// style numbered-series collection), and hands the caller a typed Node.
package zarr

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/BiologyTools/go-zarr/array"
	"github.com/BiologyTools/go-zarr/group"
	"github.com/BiologyTools/go-zarr/overlay"
	"github.com/BiologyTools/go-zarr/store"
)

// Reader is an open zarr hierarchy: a Store plus the navigator built over
// it. Per spec.md §3's lifecycle note, the Reader owns the store's
// connection pool/file handles and must be Closed when done.
type Reader struct {
	st  store.Store
	nav *group.Navigator
}

// Open scheme-dispatches locator (bare path, file://, http(s)://) to a
// Store and returns a Reader over it, per spec.md §6.5.
func Open(ctx context.Context, locator string) (*Reader, error) {
	st, err := openStore(ctx, locator)
	if err != nil {
		return nil, err
	}
	return NewReader(st), nil
}

// NewReader wraps an already-constructed Store. Open is the usual entry
// point; NewReader exists for callers (and tests) that already have a
// Store, e.g. a custom backend or an in-memory fixture.
func NewReader(st store.Store) *Reader {
	return &Reader{st: st, nav: group.New(st)}
}

// Close releases the underlying store's resources, if it holds any.
func (r *Reader) Close() error {
	if closer, ok := r.st.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// RootKind classifies what Root returns.
type RootKind int

const (
	RootUnknown RootKind = iota
	RootArray
	RootMultiscaleImage
	RootPlate
	RootWell
	RootLabelGroup
	RootSeriesCollection
)

// RootNode is the typed result of resolving the hierarchy's root, per
// spec.md §4.8. Exactly one field matching Kind is populated.
type RootNode struct {
	Kind RootKind

	Array           *array.Array
	MultiscaleImage *overlay.MultiscaleImage
	Plate           *overlay.Plate
	Well            *overlay.Well
	LabelGroup      *overlay.LabelGroup

	// SeriesPaths holds the relative paths of a bioformats2raw-style
	// numbered-series collection ("0", "1", "2", …), for RootSeriesCollection.
	SeriesPaths []string
}

// Root resolves and classifies the store's root node.
func (r *Reader) Root(ctx context.Context) (RootNode, error) {
	return r.open(ctx, "")
}

func (r *Reader) open(ctx context.Context, nodePath string) (RootNode, error) {
	node, err := r.nav.Open(ctx, nodePath)
	if err != nil {
		if errors.Is(err, group.ErrNotFound) {
			return RootNode{}, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return RootNode{}, err
	}

	if node.Array != nil {
		return RootNode{Kind: RootArray, Array: node.Array}, nil
	}

	kind, err := overlay.Classify(node.Group.RawAttributes)
	if err != nil {
		if series, seriesErr := r.discoverSeriesCollection(ctx, nodePath); seriesErr == nil && len(series) > 0 {
			return RootNode{Kind: RootSeriesCollection, SeriesPaths: series}, nil
		}
		return RootNode{Kind: RootUnknown}, nil
	}

	switch kind {
	case overlay.KindMultiscaleImage:
		img, err := overlay.ParseMultiscaleImage(r.nav, nodePath, node.Group.RawAttributes)
		if err != nil {
			return RootNode{}, err
		}
		return RootNode{Kind: RootMultiscaleImage, MultiscaleImage: img}, nil

	case overlay.KindPlate:
		plate, err := overlay.ParsePlate(r.nav, nodePath, node.Group.RawAttributes)
		if err != nil {
			return RootNode{}, err
		}
		return RootNode{Kind: RootPlate, Plate: plate}, nil

	case overlay.KindWell:
		well, err := overlay.ParseWell(r.nav, nodePath, node.Group.RawAttributes)
		if err != nil {
			return RootNode{}, err
		}
		return RootNode{Kind: RootWell, Well: well}, nil

	case overlay.KindLabelGroup:
		lg, err := overlay.ParseLabelGroup(r.nav, nodePath, node.Group.RawAttributes)
		if err != nil {
			return RootNode{}, err
		}
		return RootNode{Kind: RootLabelGroup, LabelGroup: lg}, nil

	default:
		return RootNode{Kind: RootUnknown}, nil
	}
}

// discoverSeriesCollection probes numbered child groups "0", "1", "2", …
// (the bioformats2raw convention for a root with no overlay metadata of
// its own), stopping at the first path with no node, per spec.md §4.8's
// "collection wrapper that discovers numbered sub-series".
func (r *Reader) discoverSeriesCollection(ctx context.Context, basePath string) ([]string, error) {
	var series []string
	for i := 0; ; i++ {
		childPath := fmt.Sprintf("%d", i)
		if basePath != "" {
			childPath = basePath + "/" + childPath
		}
		if _, err := r.nav.Open(ctx, childPath); err != nil {
			if errors.Is(err, group.ErrNotFound) {
				break
			}
			return nil, err
		}
		series = append(series, childPath)
	}
	return series, nil
}

// Package group implements the node navigator of spec.md §4.5: given a
// store and a path prefix, decide whether the node at that path is a v2
// or v3 array or group, resolve its metadata, and (for v2 arrays that
// omit dimension_separator) probe the store for the actual chunk-key
// separator in use.
package group

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/BiologyTools/go-zarr/array"
	"github.com/BiologyTools/go-zarr/metadata"
	"github.com/BiologyTools/go-zarr/store"
)

const (
	keyV3     = "zarr.json"
	keyV2Arr  = ".zarray"
	keyV2Grp  = ".zgroup"
	keyV2Attr = ".zattrs"
)

// Node is either an Array or a Group; exactly one of the two fields is
// non-nil.
type Node struct {
	Array *array.Array
	Group *metadata.GroupMetadata
}

// Navigator opens nodes under a single Store root.
type Navigator struct {
	st store.Store
}

// New returns a Navigator over st.
func New(st store.Store) *Navigator {
	return &Navigator{st: st}
}

func joinKey(nodePath, name string) string {
	if nodePath == "" {
		return name
	}
	return path.Join(nodePath, name)
}

// Open resolves the node at nodePath (empty for the store root), per
// spec.md §4.5: probe zarr.json first, then .zgroup/.zarray.
func (n *Navigator) Open(ctx context.Context, nodePath string) (Node, error) {
	if doc, found, err := n.st.Read(ctx, joinKey(nodePath, keyV3)); err != nil {
		return Node{}, fmt.Errorf("group: reading %q: %w", joinKey(nodePath, keyV3), err)
	} else if found {
		return n.openV3(ctx, nodePath, doc)
	}

	if doc, found, err := n.st.Read(ctx, joinKey(nodePath, keyV2Arr)); err != nil {
		return Node{}, fmt.Errorf("group: reading %q: %w", joinKey(nodePath, keyV2Arr), err)
	} else if found {
		return n.openV2Array(ctx, nodePath, doc)
	}

	if doc, found, err := n.st.Read(ctx, joinKey(nodePath, keyV2Grp)); err != nil {
		return Node{}, fmt.Errorf("group: reading %q: %w", joinKey(nodePath, keyV2Grp), err)
	} else if found {
		return n.openV2Group(ctx, nodePath, doc)
	}

	return Node{}, fmt.Errorf("group: no zarr.json, .zarray, or .zgroup at %q: %w", nodePath, errNotFound)
}

func (n *Navigator) openV3(ctx context.Context, nodePath string, doc []byte) (Node, error) {
	isArray, err := metadata.IsArrayDoc(doc)
	if err != nil {
		return Node{}, fmt.Errorf("group: %q: %w", nodePath, err)
	}
	if isArray {
		m, err := metadata.ResolveArray(metadata.V3, doc, nil, nil)
		if err != nil {
			return Node{}, fmt.Errorf("group: %q: %w", nodePath, err)
		}
		return Node{Array: array.New(n.st, nodePath, m)}, nil
	}
	m, err := metadata.ResolveGroup(metadata.V3, doc, nil)
	if err != nil {
		return Node{}, fmt.Errorf("group: %q: %w", nodePath, err)
	}
	return Node{Group: m}, nil
}

func (n *Navigator) openV2Array(ctx context.Context, nodePath string, doc []byte) (Node, error) {
	attrs, _, err := n.st.Read(ctx, joinKey(nodePath, keyV2Attr))
	if err != nil {
		return Node{}, fmt.Errorf("group: reading %q: %w", joinKey(nodePath, keyV2Attr), err)
	}

	rank, err := peekV2Rank(doc)
	if err != nil {
		return Node{}, fmt.Errorf("group: %q: %w", nodePath, err)
	}

	probe := func() (bool, error) { return n.probeV2Separator(ctx, nodePath, rank) }

	m, err := metadata.ResolveArray(metadata.V2, doc, attrs, probe)
	if err != nil {
		return Node{}, fmt.Errorf("group: %q: %w", nodePath, err)
	}
	return Node{Array: array.New(n.st, nodePath, m)}, nil
}

func (n *Navigator) openV2Group(ctx context.Context, nodePath string, doc []byte) (Node, error) {
	attrs, _, err := n.st.Read(ctx, joinKey(nodePath, keyV2Attr))
	if err != nil {
		return Node{}, fmt.Errorf("group: reading %q: %w", joinKey(nodePath, keyV2Attr), err)
	}
	m, err := metadata.ResolveGroup(metadata.V2, doc, attrs)
	if err != nil {
		return Node{}, fmt.Errorf("group: %q: %w", nodePath, err)
	}
	return Node{Group: m}, nil
}

func peekV2Rank(doc []byte) (int, error) {
	var d struct {
		Shape []int64 `json:"shape"`
	}
	if err := json.Unmarshal(doc, &d); err != nil {
		return 0, fmt.Errorf("invalid .zarray: %w", err)
	}
	return len(d.Shape), nil
}

// probeV2Separator implements spec.md §4.4.1 / §8 scenario 6: probe for
// the rank-N all-zero chunk under both separator spellings, preferring
// '/' when present.
func (n *Navigator) probeV2Separator(ctx context.Context, nodePath string, rank int) (bool, error) {
	slashKey, dotKey := array.V2ProbeKeys(nodePath, rank)

	slashFound, err := n.st.Exists(ctx, slashKey)
	if err != nil {
		return false, fmt.Errorf("group: probing %q: %w", slashKey, err)
	}
	if slashFound {
		return true, nil
	}

	// Neither or only the dot-separated key is present: spec.md §8
	// scenario 6 falls back to '.' either way.
	if _, err := n.st.Exists(ctx, dotKey); err != nil {
		return false, fmt.Errorf("group: probing %q: %w", dotKey, err)
	}
	return false, nil
}

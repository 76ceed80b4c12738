// Package coordinate implements the physical<->index coordinate service
// of spec.md §4.6: composing dataset- and multiscale-level coordinate
// transforms into a single per-axis (scale, translation) pair, and
// converting physical regions of interest into clamped pixel regions.
package coordinate

import "fmt"

// Kind is the closed set of transform variants spec.md §3/§6.4 allows.
type Kind int

const (
	Identity Kind = iota
	Scale
	Translation
)

// Transform is one entry of an ordered transform list. Only Vector is
// read, and only for Scale/Translation.
type Transform struct {
	Kind   Kind
	Vector []float64
}

// NewIdentity returns the no-op transform.
func NewIdentity() Transform { return Transform{Kind: Identity} }

// NewScale returns a per-axis multiplicative transform.
func NewScale(v []float64) Transform { return Transform{Kind: Scale, Vector: v} }

// NewTranslation returns a per-axis additive transform.
func NewTranslation(v []float64) Transform { return Transform{Kind: Translation, Vector: v} }

// Mapping is the composed per-axis affine map phys = scale*idx + translation.
type Mapping struct {
	Scale       []float64
	Translation []float64
}

// Compose folds an ordered transform list into a single Mapping, per
// spec.md §4.6. Initial state is scale=1, translation=0 on every axis.
// Dataset-level transforms must be passed before multiscale-level ones;
// Compose applies transforms in slice order and does not tell the two
// levels apart, so callers enforce that ordering by concatenation order.
func Compose(rank int, transforms ...Transform) (Mapping, error) {
	scale := make([]float64, rank)
	translation := make([]float64, rank)
	for d := range scale {
		scale[d] = 1
	}

	for _, t := range transforms {
		switch t.Kind {
		case Identity:
			continue
		case Scale:
			if len(t.Vector) != rank {
				return Mapping{}, fmt.Errorf("coordinate: %w: scale vector length %d != rank %d", errUnsupported, len(t.Vector), rank)
			}
			for d := 0; d < rank; d++ {
				scale[d] *= t.Vector[d]
				translation[d] *= t.Vector[d]
			}
		case Translation:
			if len(t.Vector) != rank {
				return Mapping{}, fmt.Errorf("coordinate: %w: translation vector length %d != rank %d", errUnsupported, len(t.Vector), rank)
			}
			for d := 0; d < rank; d++ {
				translation[d] += t.Vector[d]
			}
		default:
			return Mapping{}, fmt.Errorf("coordinate: %w: transform kind %d", errUnsupported, t.Kind)
		}
	}

	return Mapping{Scale: scale, Translation: translation}, nil
}

// IndexToPhysical maps an index-space point to physical space.
func (m Mapping) IndexToPhysical(idx []float64) []float64 {
	out := make([]float64, len(idx))
	for d := range idx {
		out[d] = m.Scale[d]*idx[d] + m.Translation[d]
	}
	return out
}

// PhysicalToIndex maps a physical-space point to index space. Scale
// components must be non-zero.
func (m Mapping) PhysicalToIndex(p []float64) []float64 {
	out := make([]float64, len(p))
	for d := range p {
		out[d] = (p[d] - m.Translation[d]) / m.Scale[d]
	}
	return out
}

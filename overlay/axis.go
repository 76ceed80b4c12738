package overlay

import "encoding/json"

// Axis describes one dimension of a multiscale image, per spec.md §6.4.
type Axis struct {
	Name string
	Type string
	Unit string
}

// unmarshalAxes accepts both the current `{name,type,unit}` object form
// and the old plain-string form ("very old overlays" per spec.md §6.4).
func unmarshalAxes(raw json.RawMessage) ([]Axis, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var objects []struct {
		Name string `json:"name"`
		Type string `json:"type,omitempty"`
		Unit string `json:"unit,omitempty"`
	}
	if err := json.Unmarshal(raw, &objects); err == nil {
		axes := make([]Axis, len(objects))
		for i, o := range objects {
			axes[i] = Axis{Name: o.Name, Type: o.Type, Unit: o.Unit}
		}
		return axes, nil
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, err
	}
	axes := make([]Axis, len(names))
	for i, n := range names {
		axes[i] = Axis{Name: n}
	}
	return axes, nil
}

// inferredAxisNames is the full (t, c, z, y, x) axis name sequence,
// per spec.md §4.7/§9: for overlays predating the axes field, axes are
// inferred as the suffix of this sequence matching the array rank. Never
// guess beyond rank 5.
var inferredAxisNames = []string{"t", "c", "z", "y", "x"}

// InferAxes returns the suffix of (t,c,z,y,x) matching rank, for
// overlays that omit an axes list. rank must be <= 5.
func InferAxes(rank int) ([]Axis, error) {
	if rank < 0 || rank > len(inferredAxisNames) {
		return nil, errAxisInferenceUnsupported
	}
	names := inferredAxisNames[len(inferredAxisNames)-rank:]
	axes := make([]Axis, len(names))
	for i, n := range names {
		axes[i] = Axis{Name: n}
	}
	return axes, nil
}

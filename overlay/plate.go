package overlay

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/BiologyTools/go-zarr/group"
)

type acquisitionDoc struct {
	ID int `json:"id"`
}

type wellRefDoc struct {
	Path     string `json:"path"`
	RowIndex int    `json:"rowIndex"`
	ColIndex int    `json:"columnIndex"`
}

type plateRowColDoc struct {
	Name string `json:"name"`
}

type plateDoc struct {
	Name          string           `json:"name,omitempty"`
	Rows          []plateRowColDoc `json:"rows"`
	Columns       []plateRowColDoc `json:"columns"`
	Wells         []wellRefDoc     `json:"wells"`
	Acquisitions  []acquisitionDoc `json:"acquisitions,omitempty"`
	FieldCount    int              `json:"field_count,omitempty"`
}

type plateAttrsDoc struct {
	Plate plateDoc `json:"plate"`
}

// WellRef is one plate-relative pointer to a well group, per spec.md
// §4.7's "HCS plate/well/field navigation proceeds by relative group
// paths."
type WellRef struct {
	Path     string
	RowIndex int
	ColIndex int
}

// Plate is the HCS plate overlay of spec.md §6.4/SPEC_FULL.md §4.11.
type Plate struct {
	nav      *group.Navigator
	basePath string

	Name         string
	RowNames     []string
	ColumnNames  []string
	Wells        []WellRef
	Acquisitions []int
}

// ParsePlate parses the "plate" attribute of a group node, per spec.md
// §6.4.
func ParsePlate(nav *group.Navigator, basePath string, rawAttributes json.RawMessage) (*Plate, error) {
	var doc plateAttrsDoc
	if err := json.Unmarshal(rawAttributes, &doc); err != nil {
		return nil, fmt.Errorf("overlay: invalid plate attribute: %w", err)
	}

	rows := make([]string, len(doc.Plate.Rows))
	for i, r := range doc.Plate.Rows {
		rows[i] = r.Name
	}
	cols := make([]string, len(doc.Plate.Columns))
	for i, c := range doc.Plate.Columns {
		cols[i] = c.Name
	}
	wells := make([]WellRef, len(doc.Plate.Wells))
	for i, w := range doc.Plate.Wells {
		wells[i] = WellRef{Path: w.Path, RowIndex: w.RowIndex, ColIndex: w.ColIndex}
	}
	acq := make([]int, len(doc.Plate.Acquisitions))
	for i, a := range doc.Plate.Acquisitions {
		acq[i] = a.ID
	}

	return &Plate{
		nav:          nav,
		basePath:     basePath,
		Name:         doc.Plate.Name,
		RowNames:     rows,
		ColumnNames:  cols,
		Wells:        wells,
		Acquisitions: acq,
	}, nil
}

// OpenWell navigates to the group at ref's relative path and parses its
// "well" attribute.
func (p *Plate) OpenWell(ctx context.Context, ref WellRef) (*Well, error) {
	wellPath := path.Join(p.basePath, ref.Path)
	node, err := p.nav.Open(ctx, wellPath)
	if err != nil {
		return nil, err
	}
	if node.Group == nil {
		return nil, fmt.Errorf("overlay: well path %q is not a group", ref.Path)
	}
	return ParseWell(p.nav, wellPath, node.Group.RawAttributes)
}

type fieldRefDoc struct {
	Path string `json:"path"`
}

type wellDoc struct {
	Images []fieldRefDoc `json:"images"`
}

type wellAttrsDoc struct {
	Well wellDoc `json:"well"`
}

// Field is one acquisition's image within a well, a relative path to a
// MultiscaleImage group, per spec.md §4.7.
type Field struct {
	Path string
}

// Well is the HCS well overlay: an ordered list of field images.
type Well struct {
	nav      *group.Navigator
	basePath string

	Fields []Field
}

// ParseWell parses the "well" attribute of a group node.
func ParseWell(nav *group.Navigator, basePath string, rawAttributes json.RawMessage) (*Well, error) {
	var doc wellAttrsDoc
	if err := json.Unmarshal(rawAttributes, &doc); err != nil {
		return nil, fmt.Errorf("overlay: invalid well attribute: %w", err)
	}
	fields := make([]Field, len(doc.Well.Images))
	for i, img := range doc.Well.Images {
		fields[i] = Field{Path: img.Path}
	}
	return &Well{nav: nav, basePath: basePath, Fields: fields}, nil
}

// OpenField navigates to the field's group and parses it as a
// MultiscaleImage.
func (w *Well) OpenField(ctx context.Context, f Field) (*MultiscaleImage, error) {
	fieldPath := path.Join(w.basePath, f.Path)
	node, err := w.nav.Open(ctx, fieldPath)
	if err != nil {
		return nil, err
	}
	if node.Group == nil {
		return nil, fmt.Errorf("overlay: field path %q is not a group", f.Path)
	}
	return ParseMultiscaleImage(w.nav, fieldPath, node.Group.RawAttributes)
}

package overlay

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/BiologyTools/go-zarr/group"
)

type imageLabelDoc struct {
	Colors []struct {
		LabelValue int       `json:"label-value"`
		RGBA       []float64 `json:"rgba,omitempty"`
	} `json:"colors,omitempty"`
	Source struct {
		Image string `json:"image,omitempty"`
	} `json:"source,omitempty"`
}

type labelAttrsDoc struct {
	ImageLabel imageLabelDoc `json:"image-label"`
}

// LabelColor maps one label value to a display color, per spec.md §6.4's
// label sub-objects.
type LabelColor struct {
	LabelValue int
	RGBA       []float64
}

// LabelGroup is a segmentation-mask overlay: a MultiscaleImage (the label
// array pyramid) plus the "image-label" metadata describing display
// colors and the source intensity image it annotates.
type LabelGroup struct {
	*MultiscaleImage

	Colors      []LabelColor
	SourceImage string
}

// ParseLabelGroup parses a group node that carries both "multiscales"
// (the label array pyramid) and "image-label" (display metadata).
func ParseLabelGroup(nav *group.Navigator, basePath string, rawAttributes json.RawMessage) (*LabelGroup, error) {
	ms, err := ParseMultiscaleImage(nav, basePath, rawAttributes)
	if err != nil {
		return nil, fmt.Errorf("overlay: label group: %w", err)
	}

	var doc labelAttrsDoc
	if err := json.Unmarshal(rawAttributes, &doc); err != nil {
		return nil, fmt.Errorf("overlay: invalid image-label attribute: %w", err)
	}

	colors := make([]LabelColor, len(doc.ImageLabel.Colors))
	for i, c := range doc.ImageLabel.Colors {
		colors[i] = LabelColor{LabelValue: c.LabelValue, RGBA: c.RGBA}
	}

	return &LabelGroup{
		MultiscaleImage: ms,
		Colors:          colors,
		SourceImage:     doc.ImageLabel.Source.Image,
	}, nil
}

// OpenLabelGroups reads "labels"/.zattrs's "labels" list of relative
// paths (the OME-NGFF convention for enumerating a dataset's label
// groups) and opens each as a LabelGroup.
func OpenLabelGroups(ctx context.Context, nav *group.Navigator, basePath string) ([]*LabelGroup, error) {
	node, err := nav.Open(ctx, basePath)
	if err != nil {
		return nil, err
	}
	if node.Group == nil {
		return nil, fmt.Errorf("overlay: labels path %q is not a group", basePath)
	}

	var doc struct {
		Labels []string `json:"labels"`
	}
	if err := json.Unmarshal(node.Group.RawAttributes, &doc); err != nil {
		return nil, fmt.Errorf("overlay: invalid labels attribute: %w", err)
	}

	groups := make([]*LabelGroup, 0, len(doc.Labels))
	for _, rel := range doc.Labels {
		childPath := path.Join(basePath, rel)
		childNode, err := nav.Open(ctx, childPath)
		if err != nil {
			return nil, err
		}
		if childNode.Group == nil {
			return nil, fmt.Errorf("overlay: label path %q is not a group", rel)
		}
		lg, err := ParseLabelGroup(nav, childPath, childNode.Group.RawAttributes)
		if err != nil {
			return nil, err
		}
		groups = append(groups, lg)
	}
	return groups, nil
}

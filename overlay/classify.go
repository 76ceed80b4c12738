package overlay

import "encoding/json"

// Kind is the closed set of overlay classifications spec.md §6.4 names.
type Kind int

const (
	KindUnknown Kind = iota
	KindMultiscaleImage
	KindPlate
	KindWell
	KindLabelGroup
)

func (k Kind) String() string {
	switch k {
	case KindMultiscaleImage:
		return "multiscale-image"
	case KindPlate:
		return "plate"
	case KindWell:
		return "well"
	case KindLabelGroup:
		return "label-group"
	default:
		return "unknown"
	}
}

type classifyProbe struct {
	Multiscales json.RawMessage `json:"multiscales"`
	Plate       json.RawMessage `json:"plate"`
	Well        json.RawMessage `json:"well"`
	ImageLabel  json.RawMessage `json:"image-label"`
}

// Classify inspects a node's raw attributes and reports which overlay
// kind, if any, they describe. A label group also carries "multiscales",
// so image-label is checked first.
func Classify(rawAttributes json.RawMessage) (Kind, error) {
	if len(rawAttributes) == 0 {
		return KindUnknown, errUnknownKind
	}

	var p classifyProbe
	if err := json.Unmarshal(rawAttributes, &p); err != nil {
		return KindUnknown, err
	}

	switch {
	case len(p.ImageLabel) > 0:
		return KindLabelGroup, nil
	case len(p.Multiscales) > 0:
		return KindMultiscaleImage, nil
	case len(p.Plate) > 0:
		return KindPlate, nil
	case len(p.Well) > 0:
		return KindWell, nil
	default:
		return KindUnknown, errUnknownKind
	}
}

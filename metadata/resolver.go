package metadata

import "fmt"

// ResolveArray dispatches to the v2 or v3 array-metadata parser, per
// spec.md §4.5's unification table. probeSlashSeparator is only consulted
// by the v2 path, and only when the document omits dimension_separator.
func ResolveArray(layout LayoutVersion, doc, attrs []byte, probeSlashSeparator func() (bool, error)) (*ArrayMetadata, error) {
	switch layout {
	case V2:
		return ParseV2Array(doc, attrs, probeSlashSeparator)
	case V3:
		return ParseV3Array(doc)
	default:
		return nil, fmt.Errorf("metadata: unknown layout version %d", layout)
	}
}

// ResolveGroup dispatches to the v2 or v3 group-metadata parser.
func ResolveGroup(layout LayoutVersion, doc, attrs []byte) (*GroupMetadata, error) {
	switch layout {
	case V2:
		return ParseV2Group(doc, attrs)
	case V3:
		return ParseV3Group(doc)
	default:
		return nil, fmt.Errorf("metadata: unknown layout version %d", layout)
	}
}

package overlay

import "errors"

var (
	errUnsupported               = errors.New("overlay: unsupported")
	errAxisInferenceUnsupported  = errors.New("overlay: axis inference not supported beyond rank 5")
	errUnknownKind               = errors.New("overlay: unrecognized overlay kind")
)

// ErrUnsupported is returned for a transform type outside
// {identity,scale,translation} or another unrecognized enumerator.
var ErrUnsupported = errUnsupported

// ErrUnknownKind is returned by Classify when a node's attributes match
// none of the recognized overlay kinds, per spec.md §6.4.
var ErrUnknownKind = errUnknownKind

package coordinate

import "errors"

var errUnsupported = errors.New("coordinate: unsupported")

// ErrUnsupported is returned for an unrecognized transform kind or a
// vector whose length does not match the target rank.
var ErrUnsupported = errUnsupported

package group

import "errors"

var errNotFound = errors.New("group: no node at path")

// ErrNotFound is returned by Open when neither zarr.json, .zarray, nor
// .zgroup exists at the requested path.
var ErrNotFound = errNotFound

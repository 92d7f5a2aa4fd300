package models

import "errors"

// ErrUnknownName is returned by the registry parse functions when a name,
// short name or value does not resolve to a known entry.
var ErrUnknownName = errors.New("unknown name")

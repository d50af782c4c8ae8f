package store

import "errors"

// Sentinel errors for write validation. Both are returned before any
// state change.
var (
	ErrInvalidKey   = errors.New("key must not be empty")
	ErrInvalidValue = errors.New("value must not be empty")
)

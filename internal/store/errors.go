package store

import "errors"

// Errors returned by the content store and manifest index.
var (
	ErrNotFound     = errors.New("store: not found")
	ErrHashMismatch = errors.New("store: hash mismatch")
)

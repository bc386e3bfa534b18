package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrVersionConflict is returned when a write was based on a stale version.
	ErrVersionConflict = errors.New("persistence: version conflict")
)

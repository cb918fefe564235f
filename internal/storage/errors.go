package storage

import "errors"

// Sentinel errors shared by every store backend. Swaps, sandwiches, and
// profit records are immutable once written, so there is no update path
// and a key collision is always an error.
var (
	// ErrNotFound is returned when a lookup matches no record.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when an insert collides with an
	// existing signature.
	ErrDuplicateKey = errors.New("duplicate key: append-only store does not allow updates")

	// ErrInvalidInput is returned when a record fails validation before
	// it reaches the backend.
	ErrInvalidInput = errors.New("invalid input")
)

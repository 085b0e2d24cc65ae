package usecase

import "errors"

var (
	// ErrNotFound means the requested id or ISBN has no corresponding record.
	ErrNotFound = errors.New("not found")
	// ErrIDMismatch means the path identifier conflicts with the payload
	// identifier on an update.
	ErrIDMismatch = errors.New("id mismatch")
)

package storage

import "errors"

var (
	// ErrNotFound indicates no blob exists for the given identifier.
	ErrNotFound = errors.New("storage: blob not found")

	// ErrInvalidID indicates an identifier that is empty, too long, or
	// could escape the store directory.
	ErrInvalidID = errors.New("storage: invalid stored identifier")

	// ErrIOFailure indicates a file or database read/write error.
	ErrIOFailure = errors.New("storage: I/O failure")

	// ErrInvalidBaseDir indicates the base directory path is invalid.
	ErrInvalidBaseDir = errors.New("storage: invalid base directory")

	// ErrUnknownBackend indicates an unrecognized backend name.
	ErrUnknownBackend = errors.New("storage: unknown backend")
)

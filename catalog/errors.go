package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrParse indicates the catalog document exists but is not a valid
	// identifier -> record object.
	ErrParse = errors.New("catalog: cannot parse document")

	// ErrIOFailure indicates the catalog document could not be read or written.
	ErrIOFailure = errors.New("catalog: I/O failure")

	// ErrInvalidPath indicates an empty catalog path.
	ErrInvalidPath = errors.New("catalog: invalid document path")

	// ErrEmptyID indicates an upsert with an empty stored identifier.
	ErrEmptyID = errors.New("catalog: stored identifier is empty")
)

// ParseError reports an unparseable catalog document. Load returns it
// alongside an empty mapping so the caller can choose between resetting
// and failing.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s %s: %v", ErrParse, e.Path, e.Err)
}

func (e *ParseError) Unwrap() []error { return []error{ErrParse, e.Err} }

package storage

import (
	"errors"

	"github.com/bitfsorg/encstore-go/codec"
)

// Problem describes one identifier whose blob is missing or malformed.
type Problem struct {
	ID  string
	Err error
}

// Verify checks that each id has a blob whose framing is well-formed.
// It does not decrypt. Lookup errors other than ErrNotFound are reported
// as problems too, so one bad entry does not hide the rest.
func Verify(s Store, ids []string) []Problem {
	var problems []Problem
	for _, id := range ids {
		blob, err := s.Get(id)
		if err != nil {
			problems = append(problems, Problem{ID: id, Err: err})
			continue
		}
		if err := codec.ValidateFrame(blob); err != nil {
			problems = append(problems, Problem{ID: id, Err: err})
		}
	}
	return problems
}

// Missing reports whether p is a missing-blob problem.
func (p Problem) Missing() bool { return errors.Is(p.Err, ErrNotFound) }

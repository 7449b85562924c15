package table

import (
	"errors"
	"strings"
)

// ErrShape is the sentinel kind carried by every DecodeError.
var ErrShape = errors.New("payload does not match schema")

// Violation describes one field that failed the schema.
type Violation struct {
	Path   string // e.g. "name", "[2].id", "holeCards[0][1]"; empty for the root
	Reason string
}

func (v Violation) String() string {
	if v.Path == "" {
		return v.Reason
	}
	return v.Path + ": " + v.Reason
}

// DecodeError is returned when a JSON document parses but does not conform to
// the expected record shape. No partial record accompanies it.
type DecodeError struct {
	Violations []Violation
}

func (e *DecodeError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}
	return ErrShape.Error() + ": " + strings.Join(parts, "; ")
}

func (e *DecodeError) Unwrap() error { return ErrShape }

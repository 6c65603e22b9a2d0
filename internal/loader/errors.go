package loader

import (
	"errors"
	"fmt"
)

// Error kinds reported by the loader. Match them with errors.Is.
var (
	// The file could not be opened or a read failed mid-stream.
	ErrIO = errors.New("io error")
	// A line has too few fields, too many header fields, or a non-integer token.
	ErrFormat = errors.New("format error")
	// The input ended before the counts declared in the header were satisfied.
	ErrEndOfInput = errors.New("unexpected end of input")
)

// ParseError describes where loading failed.
// Line is 1-based and 0 when the failure is not tied to a line (e.g. open).
type ParseError struct {
	Kind    error
	Section string
	Line    int
	Err     error
}

func (e *ParseError) Error() string {
	msg := e.Kind.Error()
	if e.Section != "" {
		msg += ": " + e.Section
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" line %d", e.Line)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

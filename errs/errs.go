// Package errs defines the closed set of error kinds the engine can surface
// at its boundary. Errors raised by the parser, the evaluator's own checks,
// the value model and the reference builtins wrap exactly one of the
// sentinels below, so callers classify them with errors.Is. Errors from
// pkg/sync (pool construction and submission) and recovered handler panics
// (pkg/safe.PanicError) do not wrap a sentinel.
package errs

import (
	"errors"
	"fmt"
)

var (
	ParseError          = errors.New("parse error")
	UnknownFunction     = errors.New("unknown function")
	ArgumentError       = errors.New("argument error")
	TypeMismatch        = errors.New("type mismatch")
	KeyMissing          = errors.New("key missing")
	IndexOutOfRange     = errors.New("index out of range")
	UnsupportedJsonType = errors.New("unsupported json type")
	Cancelled           = errors.New("cancelled")
)

// Wrap attaches detail to a sentinel kind while keeping it errors.Is-comparable.
func Wrap(kind error, format string, a ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, a...))
}

// ParsePosition decorates a ParseError with the offending offset and a
// human-readable expectation, matching the position+description reporting
// the surface grammar requires.
type ParsePosition struct {
	Offset int
	Line   int
	Column int
}

func (p ParsePosition) String() string {
	return fmt.Sprintf("line %d, column %d (offset %d)", p.Line, p.Column, p.Offset)
}

func NewParseError(pos ParsePosition, description string) error {
	return fmt.Errorf("%w at %s: %s", ParseError, pos, description)
}

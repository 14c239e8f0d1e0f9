package core

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is the sentinel for request validation failures. Match
// with errors.Is; the concrete InvalidInputError carries the details.
var ErrInvalidInput = errors.New("invalid input")

type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

// ParseError reports that raw model output could not be decoded by either
// the strict or the fallback path. Snippet holds the head of the offending
// input for diagnostics.
type ParseError struct {
	Snippet string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse model response: %q", e.Snippet)
}

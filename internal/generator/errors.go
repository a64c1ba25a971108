package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOutput indicates the model response could not be parsed
	// into the expected shape.
	ErrInvalidOutput = errors.New("invalid generator output")

	// ErrUpstream indicates the completion call itself failed.
	ErrUpstream = errors.New("generator call failed")

	// ErrNotConfigured is returned when no API key is configured.
	ErrNotConfigured = errors.New("generator not configured")
)

// ParseError describes why a response was rejected. It unwraps to
// ErrInvalidOutput.
type ParseError struct {
	Shape  string // expected shape, e.g. "question map"
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidOutput, e.Shape, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrInvalidOutput }

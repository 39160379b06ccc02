package node

import (
	"errors"
	"fmt"
)

var (
	// ErrBlockNotFound is returned when the node has no block at the requested number.
	ErrBlockNotFound = errors.New("block not found")
	// ErrMalformedResponse is returned when a result cannot be decoded into the expected shape.
	ErrMalformedResponse = errors.New("malformed response")
)

// Error is the typed failure of a single node request.
type Error struct {
	Op     string
	Target string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedResponse, fmt.Sprintf(format, args...))
}

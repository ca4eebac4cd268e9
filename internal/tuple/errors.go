package tuple

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncatedStream means the source ended, or failed, in the middle of a tuple.
	ErrTruncatedStream = errors.New("truncated stream")
	// ErrOversizedTuple means the declared length does not fit the reader window.
	ErrOversizedTuple = errors.New("oversized tuple")
	// ErrTruncatedField means a sub-field runs past the end of the payload.
	ErrTruncatedField = errors.New("truncated field")
	// ErrMalformedString means a string has no NUL terminator inside the payload.
	ErrMalformedString = errors.New("malformed string")
	// ErrInvalidValue means an encoded value cannot be represented.
	ErrInvalidValue = errors.New("invalid value")
)

// DecodeError reports a fatal fault together with the tuple it was found in.
// Offset is the stream offset of the tuple's type byte. HasCode is false
// when the source failed before a type byte could be read.
type DecodeError struct {
	Code    Code
	HasCode bool
	Offset  int64
	Err     error
}

func (e *DecodeError) Error() string {
	if !e.HasCode {
		return fmt.Sprintf("offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("tuple %s at offset %d: %v", e.Code, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

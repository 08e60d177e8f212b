package bgv

import (
	"errors"
)

var (
	// ErrMalformedBuffer is returned when decoding a truncated or corrupted byte stream.
	ErrMalformedBuffer = errors.New("malformed buffer")

	// ErrPreconditionViolation is returned when operands do not share the same parameters
	// or key tag, when an index is out of range, or when two batches have different lengths.
	ErrPreconditionViolation = errors.New("precondition violation")
)

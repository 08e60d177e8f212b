package zkpopk

import (
	"errors"

	"github.com/tuneinsight/bgvzk/bgv"
)

var (
	// ErrEmptyBatch is returned when a proof is requested for zero plaintexts.
	ErrEmptyBatch = errors.New("empty batch")

	// ErrWidthMismatch is returned when the batch width U derived from the security
	// parameter is smaller than the number of plaintexts.
	ErrWidthMismatch = errors.New("batch width smaller than the number of items")

	// ErrInvalidParameters is returned for a non-positive security parameter or
	// when the norm bounds of the proof do not fit the integer types used.
	ErrInvalidParameters = errors.New("invalid proof parameters")

	// ErrParameterMismatch is returned when the prover and the verifier do not use
	// the same proof parameters.
	ErrParameterMismatch = errors.New("proof parameter mismatch")

	// ErrVerificationFailed is returned when a proof does not verify. The whole batch must be discarded.
	ErrVerificationFailed = errors.New("verification failed")

	// ErrMalformedBuffer is returned when decoding a truncated or corrupted byte stream.
	ErrMalformedBuffer = bgv.ErrMalformedBuffer
)

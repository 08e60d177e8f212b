package zkpopk

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tuneinsight/bgvzk/bgv"
	"github.com/tuneinsight/bgvzk/utils/buffer"
)

// ProvenCiphertextBatch is the output of a Prover: the two proof transcripts and,
// on the prover side, the U ciphertexts they certify.
//
// The commitment transcript is header ‖ C_0 ‖ ... ‖ C_{U-1} ‖ A_0 ‖ ... ‖ A_{V-1}, where the
// header holds sec, n, U, V (uint64), the diagonal flag (uint8) and the key tag (uint64).
// The response transcript is z_0 ‖ ... ‖ z_{V-1} ‖ t_0 ‖ ... ‖ t_{V-1}, where each coefficient
// of z_k is written on ProofParameters.ResponseWidth bytes in big-endian two's complement.
//
// Only the two transcripts are serialized: the verifier recovers the ciphertexts from the commitment.
type ProvenCiphertextBatch struct {
	CommitmentTranscript []byte
	ResponseTranscript   []byte
	Ciphertexts          *bgv.CiphertextVector
}

// NumReal returns the number n of plaintexts provided by the prover, read from the commitment header.
// The ciphertexts of index n to U-1 encrypt zero.
func (b ProvenCiphertextBatch) NumReal() (n int, err error) {
	var h header
	if err = h.readFrom(buffer.NewBuffer(b.CommitmentTranscript)); err != nil {
		return 0, fmt.Errorf("cannot NumReal: %w", err)
	}
	return int(h.NumReal), nil
}

// BinarySize returns the serialized size of the object in bytes.
func (b ProvenCiphertextBatch) BinarySize() int {
	return 8 + len(b.CommitmentTranscript) + len(b.ResponseTranscript)
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (b ProvenCiphertextBatch) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64

		if inc, err = buffer.WriteAsUint64[int](w, len(b.CommitmentTranscript)); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteAsUint64[int]: %w", err)
		}
		n += inc

		if inc, err = buffer.Write(w, b.CommitmentTranscript); err != nil {
			return n + inc, fmt.Errorf("buffer.Write: %w", err)
		}
		n += inc

		if inc, err = buffer.Write(w, b.ResponseTranscript); err != nil {
			return n + inc, fmt.Errorf("buffer.Write: %w", err)
		}
		n += inc

		return n, w.Flush()

	default:
		return b.WriteTo(bufio.NewWriter(w))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (b ProvenCiphertextBatch) MarshalBinary() (p []byte, err error) {
	buf := buffer.NewBufferSize(b.BinarySize())
	_, err = b.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by MarshalBinary.
// The response transcript spans the remaining bytes. Ciphertexts is left nil:
// they are returned by Verifier.Verify.
func (b *ProvenCiphertextBatch) UnmarshalBinary(p []byte) (err error) {

	if len(p) < 8 {
		return fmt.Errorf("cannot UnmarshalBinary: %w: missing commitment size", ErrMalformedBuffer)
	}

	var size uint64
	if _, err = buffer.ReadUint64(buffer.NewBuffer(p[:8]), &size); err != nil {
		return fmt.Errorf("cannot UnmarshalBinary: %w: buffer.ReadUint64: %w", ErrMalformedBuffer, err)
	}

	if size > uint64(len(p)-8) {
		return fmt.Errorf("cannot UnmarshalBinary: %w: commitment size %d exceeds the %d available bytes", ErrMalformedBuffer, size, len(p)-8)
	}

	b.CommitmentTranscript = append([]byte{}, p[8:8+size]...)
	b.ResponseTranscript = append([]byte{}, p[8+size:]...)
	b.Ciphertexts = nil

	return
}

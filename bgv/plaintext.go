package bgv

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tuneinsight/bgvzk/ring"
	"github.com/tuneinsight/bgvzk/utils/buffer"
	"github.com/tuneinsight/bgvzk/utils/sampling"
)

// Plaintext is a polynomial of Z_t[X]/(X^N+1) in the coefficient domain.
// Value[i] is the i-th coefficient in [0, t-1].
type Plaintext struct {
	params Parameters
	Value  []uint64
}

// NewPlaintext allocates a new zero Plaintext.
func NewPlaintext(params Parameters) *Plaintext {
	return &Plaintext{params: params, Value: make([]uint64, params.N())}
}

// Parameters returns the parameters the plaintext is bound to.
func (pt Plaintext) Parameters() Parameters {
	return pt.params
}

// Randomize samples every coefficient uniformly in [0, t-1].
func (pt *Plaintext) Randomize(prng sampling.PRNG) {
	t := pt.params.T()
	for i := range pt.Value {
		pt.Value[i] = sampling.ReadUint64Below(prng, t)
	}
}

// RandomizeDiagonal samples a plaintext whose slots all hold the same
// uniform value in [0, t-1], that is, a constant polynomial.
func (pt *Plaintext) RandomizeDiagonal(prng sampling.PRNG) {
	clear(pt.Value)
	pt.Value[0] = sampling.ReadUint64Below(prng, pt.params.T())
}

// IsDiagonal returns true if all the slots of the plaintext hold the same value.
func (pt Plaintext) IsDiagonal() bool {
	for _, c := range pt.Value[1:] {
		if c != 0 {
			return false
		}
	}
	return true
}

// Centered returns the coefficients of the plaintext lifted in (-t/2, t/2].
func (pt Plaintext) Centered() (coeffs []int64) {
	t := pt.params.T()
	coeffs = make([]int64, len(pt.Value))
	for i, c := range pt.Value {
		coeffs[i] = ring.CenterMod(c, t)
	}
	return
}

// Add sets the receiver to the sum of itself and op modulo t.
func (pt *Plaintext) Add(op *Plaintext) (err error) {

	if !pt.params.compatible(op.params) {
		return fmt.Errorf("cannot Add: %w: parameters do not match", ErrPreconditionViolation)
	}

	t := pt.params.T()
	for i := range pt.Value {
		pt.Value[i] = ring.AddMod(pt.Value[i], op.Value[i], t)
	}

	return
}

// Equal performs a deep equal.
func (pt Plaintext) Equal(other *Plaintext) bool {
	if other == nil || len(pt.Value) != len(other.Value) {
		return false
	}
	for i := range pt.Value {
		if pt.Value[i] != other.Value[i] {
			return false
		}
	}
	return pt.params.T() == other.params.T()
}

// CopyNew returns a deep copy of the plaintext.
func (pt Plaintext) CopyNew() *Plaintext {
	return &Plaintext{params: pt.params, Value: append([]uint64{}, pt.Value...)}
}

// BinarySize returns the serialized size of the object in bytes.
func (pt Plaintext) BinarySize() int {
	return 8 + len(pt.Value)<<3
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (pt Plaintext) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64
		if inc, err = buffer.WriteAsUint64(w, len(pt.Value)); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteAsUint64: %w", err)
		}
		n += inc

		if inc, err = buffer.WriteUint64Slice(w, pt.Value); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteUint64Slice: %w", err)
		}
		n += inc

		return n, w.Flush()

	default:
		return pt.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface. The receiver must have been created with
// NewPlaintext, as the parameters are not part of the byte stream.
func (pt *Plaintext) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		if pt.params.ringQ == nil {
			return 0, fmt.Errorf("cannot ReadFrom: plaintext has no parameters")
		}

		var inc int64
		var size uint64
		if inc, err = buffer.ReadUint64(r, &size); err != nil {
			return n + inc, fmt.Errorf("%w: buffer.ReadUint64: %w", ErrMalformedBuffer, err)
		}
		n += inc

		if size != uint64(pt.params.N()) {
			return n, fmt.Errorf("%w: invalid plaintext size %d != %d", ErrMalformedBuffer, size, pt.params.N())
		}

		if len(pt.Value) != int(size) {
			pt.Value = make([]uint64, size)
		}

		if inc, err = buffer.ReadUint64Slice(r, pt.Value); err != nil {
			return n + inc, fmt.Errorf("%w: buffer.ReadUint64Slice: %w", ErrMalformedBuffer, err)
		}
		n += inc

		t := pt.params.T()
		for _, c := range pt.Value {
			if c >= t {
				return n, fmt.Errorf("%w: plaintext coefficient %d >= %d", ErrMalformedBuffer, c, t)
			}
		}

		return

	default:
		return pt.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (pt Plaintext) MarshalBinary() (p []byte, err error) {
	buf := buffer.NewBufferSize(pt.BinarySize())
	_, err = pt.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (pt *Plaintext) UnmarshalBinary(p []byte) (err error) {
	_, err = pt.ReadFrom(buffer.NewBuffer(p))
	return
}

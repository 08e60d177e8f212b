package ring

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tuneinsight/bgvzk/utils/buffer"
)

// Poly is the structure that contains the coefficients of an RNS polynomial.
// Coeffs[i] stores the residues modulo the i-th modulus of the chain.
type Poly struct {
	Coeffs [][]uint64
}

// NewPoly creates a new polynomial with N coefficients set to zero and level+1 moduli.
func NewPoly(N, level int) (pol Poly) {
	pol.Coeffs = make([][]uint64, level+1)
	buff := make([]uint64, N*(level+1))
	for i := range pol.Coeffs {
		pol.Coeffs[i] = buff[i*N : (i+1)*N]
	}
	return
}

// N returns the number of coefficients of the polynomial, which equals the degree of the Ring cyclotomic polynomial.
func (pol Poly) N() int {
	if len(pol.Coeffs) == 0 {
		return 0
	}
	return len(pol.Coeffs[0])
}

// Level returns the current number of moduli minus 1.
func (pol Poly) Level() int {
	return len(pol.Coeffs) - 1
}

// Resize resizes the level of the target polynomial to the provided level.
// If the provided level is larger than the current level, then allocates zero
// coefficients, otherwise dereferences the coefficients above the provided level.
func (pol *Poly) Resize(level int) {
	N := pol.N()
	if pol.Level() > level {
		pol.Coeffs = pol.Coeffs[:level+1]
	} else if level > pol.Level() {
		for i := pol.Level() + 1; i < level+1; i++ {
			pol.Coeffs = append(pol.Coeffs, make([]uint64, N))
		}
	}
}

// Zero sets all coefficients of the target polynomial to 0.
func (pol Poly) Zero() {
	for i := range pol.Coeffs {
		clear(pol.Coeffs[i])
	}
}

// CopyNew creates an exact copy of the target polynomial.
func (pol Poly) CopyNew() *Poly {
	p1 := NewPoly(pol.N(), pol.Level())
	p1.Copy(pol)
	return &p1
}

// Copy copies the coefficients of p1 on the target polynomial,
// up to the smallest level of the two.
func (pol *Poly) Copy(p1 Poly) {
	for i := 0; i < len(pol.Coeffs) && i < len(p1.Coeffs); i++ {
		copy(pol.Coeffs[i], p1.Coeffs[i])
	}
}

// Equal returns true if the receiver Poly is equal to the provided other Poly.
// This function checks for strict equality between the polynomial coefficients
// (i.e., it does not consider congruence as equality within the ring like
// `Ring.Equal` does).
func (pol Poly) Equal(other *Poly) bool {

	if other == nil || len(pol.Coeffs) != len(other.Coeffs) {
		return false
	}

	for i := range pol.Coeffs {
		if len(pol.Coeffs[i]) != len(other.Coeffs[i]) {
			return false
		}
		for j := range pol.Coeffs[i] {
			if pol.Coeffs[i][j] != other.Coeffs[i][j] {
				return false
			}
		}
	}

	return true
}

// BinarySize returns the serialized size of the object in bytes.
func (pol Poly) BinarySize() (size int) {
	return 8 + 1 + pol.N()*(pol.Level()+1)<<3
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
//
// Unless w implements the buffer.Writer interface (see lattigo/utils/buffer/writer.go),
// it will be wrapped into a bufio.Writer. Since this requires allocations, it
// is preferable to pass a buffer.Writer directly:
//
//   - When writing multiple times to a io.Writer, it is preferable to first wrap the
//     io.Writer in a pre-allocated bufio.Writer.
//   - When writing to a pre-allocated var b []byte, it is preferable to pass
//     buffer.NewBuffer(b) as w (see lattigo/utils/buffer/buffer.go).
func (pol Poly) WriteTo(w io.Writer) (n int64, err error) {

	switch w := w.(type) {
	case buffer.Writer:

		var inc int64

		if inc, err = buffer.WriteAsUint64(w, pol.N()); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteAsUint64: %w", err)
		}

		n += inc

		if inc, err = buffer.WriteUint8(w, uint8(pol.Level())); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteUint8: %w", err)
		}

		n += inc

		for i := range pol.Coeffs {
			if inc, err = buffer.WriteUint64Slice(w, pol.Coeffs[i]); err != nil {
				return n + inc, fmt.Errorf("buffer.WriteUint64Slice: %w", err)
			}
			n += inc
		}

		return n, w.Flush()

	default:
		return pol.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
//
// Unless r implements the buffer.Reader interface (see lattigo/utils/buffer/reader.go),
// it will be wrapped into a bufio.Reader. Since this requires allocation, it
// is preferable to pass a buffer.Reader directly:
//
//   - When reading multiple values from a io.Reader, it is preferable to first
//     first wrap io.Reader in a pre-allocated bufio.Reader.
//   - When reading from a var b []byte, it is preferable to pass a buffer.NewBuffer(b)
//     as w (see lattigo/utils/buffer/buffer.go).
func (pol *Poly) ReadFrom(r io.Reader) (n int64, err error) {

	switch r := r.(type) {
	case buffer.Reader:

		var inc int64

		var N uint64
		if inc, err = buffer.ReadUint64(r, &N); err != nil {
			return n + inc, fmt.Errorf("buffer.ReadUint64: %w", err)
		}

		n += inc

		if N > MaximumRingDegree || !isPowerOfTwoOrZero(N) {
			return n, fmt.Errorf("invalid ring degree: %d", N)
		}

		var level uint8
		if inc, err = buffer.ReadUint8(r, &level); err != nil {
			return n + inc, fmt.Errorf("buffer.ReadUint8: %w", err)
		}

		n += inc

		if int(level) > MaximumLevel {
			return n, fmt.Errorf("invalid level: %d > %d", level, MaximumLevel)
		}

		if pol.N() != int(N) || pol.Level() != int(level) {
			*pol = NewPoly(int(N), int(level))
		}

		for i := range pol.Coeffs {
			if inc, err = buffer.ReadUint64Slice(r, pol.Coeffs[i]); err != nil {
				return n + inc, fmt.Errorf("buffer.ReadUint64Slice: %w", err)
			}
			n += inc
		}

		return

	default:
		return pol.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (pol Poly) MarshalBinary() (p []byte, err error) {
	buf := buffer.NewBufferSize(pol.BinarySize())
	_, err = pol.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (pol *Poly) UnmarshalBinary(p []byte) (err error) {
	_, err = pol.ReadFrom(buffer.NewBuffer(p))
	return
}

func isPowerOfTwoOrZero(x uint64) bool {
	return x&(x-1) == 0
}

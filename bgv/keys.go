package bgv

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tuneinsight/bgvzk/ring"
	"github.com/tuneinsight/bgvzk/utils/buffer"
)

// SecretKey is a type for generic RLWE secret keys.
// The Value field stores the polynomial in the NTT domain.
type SecretKey struct {
	Value ring.Poly
}

// NewSecretKey generates a new SecretKey with zero values.
func NewSecretKey(params Parameters) *SecretKey {
	return &SecretKey{Value: params.RingQ().NewPoly()}
}

// PublicKey is a type for generic RLWE public keys, extended with the relinearization
// material required by ciphertext-ciphertext multiplication.
// All polynomials are in the NTT domain.
//
// Value = (a*s + t*e, a), such that Value[0] - s*Value[1] = t*e.
// Rlk[i] = (a_i*s + t*e_i + g_i*s^2, a_i) where g_i is the i-th CRT basis element of Q.
// KeyTag identifies the key; ciphertexts produced under it carry the same tag.
type PublicKey struct {
	Value  [2]ring.Poly
	Rlk    [][2]ring.Poly
	KeyTag uint64
}

// NewPublicKey returns a new PublicKey with zero values.
func NewPublicKey(params Parameters) (pk *PublicKey) {
	rQ := params.RingQ()
	pk = &PublicKey{Value: [2]ring.Poly{rQ.NewPoly(), rQ.NewPoly()}}
	pk.Rlk = make([][2]ring.Poly, params.MaxLevel()+1)
	for i := range pk.Rlk {
		pk.Rlk[i] = [2]ring.Poly{rQ.NewPoly(), rQ.NewPoly()}
	}
	return
}

// Level returns the level of the public key.
func (pk PublicKey) Level() int {
	return pk.Value[0].Level()
}

// Equal performs a deep equal.
func (pk PublicKey) Equal(other *PublicKey) bool {

	if other == nil || pk.KeyTag != other.KeyTag || len(pk.Rlk) != len(other.Rlk) {
		return false
	}

	if !pk.Value[0].Equal(&other.Value[0]) || !pk.Value[1].Equal(&other.Value[1]) {
		return false
	}

	for i := range pk.Rlk {
		if !pk.Rlk[i][0].Equal(&other.Rlk[i][0]) || !pk.Rlk[i][1].Equal(&other.Rlk[i][1]) {
			return false
		}
	}

	return true
}

// checkParameters returns an error if the public key cannot be used with params.
func (pk PublicKey) checkParameters(params Parameters) error {
	if pk.Value[0].N() != params.N() || pk.Value[1].N() != params.N() {
		return fmt.Errorf("%w: public key ring degree %d != %d", ErrPreconditionViolation, pk.Value[0].N(), params.N())
	}
	if pk.Level() != params.MaxLevel() || pk.Value[1].Level() != params.MaxLevel() {
		return fmt.Errorf("%w: public key level %d != %d", ErrPreconditionViolation, pk.Level(), params.MaxLevel())
	}
	return nil
}

// BinarySize returns the serialized size of the object in bytes.
func (pk PublicKey) BinarySize() (size int) {
	size = 8 + pk.Value[0].BinarySize() + pk.Value[1].BinarySize() + 1
	for i := range pk.Rlk {
		size += pk.Rlk[i][0].BinarySize() + pk.Rlk[i][1].BinarySize()
	}
	return
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (pk PublicKey) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64

		if inc, err = buffer.WriteUint64(w, pk.KeyTag); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteUint64: %w", err)
		}
		n += inc

		for i := range pk.Value {
			if inc, err = pk.Value[i].WriteTo(w); err != nil {
				return n + inc, fmt.Errorf("ring.Poly.WriteTo: %w", err)
			}
			n += inc
		}

		if inc, err = buffer.WriteUint8(w, uint8(len(pk.Rlk))); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteUint8: %w", err)
		}
		n += inc

		for i := range pk.Rlk {
			for j := range pk.Rlk[i] {
				if inc, err = pk.Rlk[i][j].WriteTo(w); err != nil {
					return n + inc, fmt.Errorf("ring.Poly.WriteTo: %w", err)
				}
				n += inc
			}
		}

		return n, w.Flush()

	default:
		return pk.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
func (pk *PublicKey) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var inc int64

		if inc, err = buffer.ReadUint64(r, &pk.KeyTag); err != nil {
			return n + inc, fmt.Errorf("%w: buffer.ReadUint64: %w", ErrMalformedBuffer, err)
		}
		n += inc

		for i := range pk.Value {
			if inc, err = pk.Value[i].ReadFrom(r); err != nil {
				return n + inc, fmt.Errorf("%w: ring.Poly.ReadFrom: %w", ErrMalformedBuffer, err)
			}
			n += inc
		}

		var size uint8
		if inc, err = buffer.ReadUint8(r, &size); err != nil {
			return n + inc, fmt.Errorf("%w: buffer.ReadUint8: %w", ErrMalformedBuffer, err)
		}
		n += inc

		if int(size) > ring.MaximumLevel+1 {
			return n, fmt.Errorf("%w: invalid relinearization key size %d", ErrMalformedBuffer, size)
		}

		if len(pk.Rlk) != int(size) {
			pk.Rlk = make([][2]ring.Poly, size)
		}

		for i := range pk.Rlk {
			for j := range pk.Rlk[i] {
				if inc, err = pk.Rlk[i][j].ReadFrom(r); err != nil {
					return n + inc, fmt.Errorf("%w: ring.Poly.ReadFrom: %w", ErrMalformedBuffer, err)
				}
				n += inc
			}
		}

		return

	default:
		return pk.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (pk PublicKey) MarshalBinary() (p []byte, err error) {
	buf := buffer.NewBufferSize(pk.BinarySize())
	_, err = pk.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (pk *PublicKey) UnmarshalBinary(p []byte) (err error) {
	_, err = pk.ReadFrom(buffer.NewBuffer(p))
	return
}

package bgv

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tuneinsight/bgvzk/ring"
	"github.com/tuneinsight/bgvzk/utils/buffer"
	"github.com/tuneinsight/bgvzk/utils/sampling"
)

// Ciphertext is a BGV ciphertext (C0, C1) in the NTT domain, such that
// C0 - s*C1 = m + t*e for the secret key s of the public key identified by KeyTag.
type Ciphertext struct {
	params Parameters
	C0, C1 ring.Poly
	KeyTag uint64
}

// NewCiphertext returns a new zero Ciphertext at the given level, bound to params.
// A zero ciphertext carries the zero key tag until it is assigned by an encryption.
func NewCiphertext(params Parameters, level int) *Ciphertext {
	rQ := params.RingQ().AtLevel(level)
	return &Ciphertext{params: params, C0: rQ.NewPoly(), C1: rQ.NewPoly()}
}

// Parameters returns the parameters the ciphertext is bound to.
func (ct Ciphertext) Parameters() Parameters {
	return ct.params
}

// Level returns the level of the ciphertext.
func (ct Ciphertext) Level() int {
	return ct.C0.Level()
}

// Resize resizes both components of the ciphertext to the given level.
func (ct *Ciphertext) Resize(level int) {
	ct.C0.Resize(level)
	ct.C1.Resize(level)
}

// Equal returns true if both ciphertexts have the same key tag and the same components.
func (ct Ciphertext) Equal(other *Ciphertext) bool {
	return other != nil && ct.KeyTag == other.KeyTag && ct.C0.Equal(&other.C0) && ct.C1.Equal(&other.C1)
}

// CopyNew returns a deep copy of the ciphertext.
func (ct Ciphertext) CopyNew() *Ciphertext {
	return &Ciphertext{params: ct.params, C0: *ct.C0.CopyNew(), C1: *ct.C1.CopyNew(), KeyTag: ct.KeyTag}
}

// Copy copies op on the receiver, which is resized to the level of op.
func (ct *Ciphertext) Copy(op *Ciphertext) {
	ct.Resize(op.Level())
	ct.C0.Copy(op.C0)
	ct.C1.Copy(op.C1)
	ct.params = op.params
	ct.KeyTag = op.KeyTag
}

// Scale switches the ciphertext from level l to level l-1 by dividing it by the last
// modulus q_l, so that the decrypted plaintext is multiplied by q_l^-1 mod t.
// The method is a no-op if the ciphertext is already at level 0.
func (ct *Ciphertext) Scale(t uint64) (err error) {

	level := ct.Level()

	if level == 0 {
		return
	}

	rQ := ct.params.RingQ().AtLevel(level)

	if t < 2 || rQ.SubRings[level].Modulus%t == 0 {
		return fmt.Errorf("cannot Scale: %w: invalid plaintext modulus %d", ErrPreconditionViolation, t)
	}

	rQ.DivRoundByLastModulusBGVNTT(ct.C0, t, ct.C0)
	rQ.DivRoundByLastModulusBGVNTT(ct.C1, t, ct.C1)

	ct.Resize(level - 1)

	return
}

// ScaleDefault is [Ciphertext.Scale] with the plaintext modulus of the parameters.
func (ct *Ciphertext) ScaleDefault() error {
	return ct.Scale(ct.params.T())
}

// MulByXi multiplies both components of the ciphertext by X^i.
// i can be negative or larger than N, as X^N = -1.
func (ct *Ciphertext) MulByXi(i int) {
	rQ := ct.params.RingQ().AtLevel(ct.Level())
	for _, c := range []ring.Poly{ct.C0, ct.C1} {
		rQ.INTT(c, c)
		rQ.MultByMonomial(c, i, c)
		rQ.NTT(c, c)
	}
}

// Rerandomize adds to the ciphertext a fresh encryption of zero under pk.
// The decrypted value is unchanged.
func (ct *Ciphertext) Rerandomize(pk *PublicKey) (err error) {

	if ct.KeyTag != pk.KeyTag {
		return fmt.Errorf("cannot Rerandomize: %w: key tag %d != %d", ErrPreconditionViolation, ct.KeyTag, pk.KeyTag)
	}

	var enc *Encryptor
	if enc, err = NewEncryptor(ct.params, pk); err != nil {
		return fmt.Errorf("cannot Rerandomize: %w", err)
	}

	zero := NewCiphertext(ct.params, ct.Level())
	if err = enc.EncryptZero(zero); err != nil {
		return fmt.Errorf("cannot Rerandomize: %w", err)
	}

	return Add(ct, zero, ct)
}

// Add sets the receiver to the sum of itself and op.
func (ct *Ciphertext) Add(op *Ciphertext) error {
	return Add(ct, op, ct)
}

// AddPlaintext adds the plaintext pt to the ciphertext.
func (ct *Ciphertext) AddPlaintext(pt *Plaintext) (err error) {

	if !ct.params.compatible(pt.params) {
		return fmt.Errorf("cannot AddPlaintext: %w: parameters do not match", ErrPreconditionViolation)
	}

	rQ := ct.params.RingQ().AtLevel(ct.Level())
	m := rQ.NewPoly()
	liftNTT(rQ, pt.Centered(), m)
	rQ.Add(ct.C0, m, ct.C0)

	return
}

// Randomize samples both components uniformly. The result is not an encryption
// under any key and only serves testing and benchmarking.
func (ct *Ciphertext) Randomize(prng sampling.PRNG) {
	us := ring.NewUniformSampler(prng, ct.params.RingQ().AtLevel(ct.Level()))
	us.Read(ct.C0)
	us.Read(ct.C1)
}

// BinarySize returns the serialized size of the object in bytes.
func (ct Ciphertext) BinarySize() int {
	return ct.C0.BinarySize() + ct.C1.BinarySize() + 8
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
//
// The parameters are not written: they must be known to the reader.
func (ct Ciphertext) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64

		if inc, err = ct.C0.WriteTo(w); err != nil {
			return n + inc, fmt.Errorf("ring.Poly.WriteTo: %w", err)
		}
		n += inc

		if inc, err = ct.C1.WriteTo(w); err != nil {
			return n + inc, fmt.Errorf("ring.Poly.WriteTo: %w", err)
		}
		n += inc

		if inc, err = buffer.WriteUint64(w, ct.KeyTag); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteUint64: %w", err)
		}
		n += inc

		return n, w.Flush()

	default:
		return ct.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface. The receiver must have been created with
// NewCiphertext, as the parameters are not part of the byte stream.
//
// Any decoding failure, including a ring degree or a level incompatible
// with the parameters and non-reduced coefficients, wraps ErrMalformedBuffer.
func (ct *Ciphertext) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		if ct.params.ringQ == nil {
			return 0, fmt.Errorf("cannot ReadFrom: ciphertext has no parameters")
		}

		var inc int64

		if inc, err = ct.C0.ReadFrom(r); err != nil {
			return n + inc, fmt.Errorf("%w: ring.Poly.ReadFrom: %w", ErrMalformedBuffer, err)
		}
		n += inc

		if inc, err = ct.C1.ReadFrom(r); err != nil {
			return n + inc, fmt.Errorf("%w: ring.Poly.ReadFrom: %w", ErrMalformedBuffer, err)
		}
		n += inc

		if inc, err = buffer.ReadUint64(r, &ct.KeyTag); err != nil {
			return n + inc, fmt.Errorf("%w: buffer.ReadUint64: %w", ErrMalformedBuffer, err)
		}
		n += inc

		return n, ct.validate()

	default:
		return ct.ReadFrom(bufio.NewReader(r))
	}
}

// validate checks that the components are well formed elements of the ring of the parameters.
func (ct Ciphertext) validate() error {

	params := ct.params

	if ct.C0.N() != params.N() || ct.C1.N() != params.N() {
		return fmt.Errorf("%w: invalid ring degree", ErrMalformedBuffer)
	}

	level := ct.C0.Level()
	if level > params.MaxLevel() || ct.C1.Level() != level {
		return fmt.Errorf("%w: invalid level", ErrMalformedBuffer)
	}

	rQ := params.RingQ().AtLevel(level)
	if !rQ.IsReduced(ct.C0) || !rQ.IsReduced(ct.C1) {
		return fmt.Errorf("%w: coefficients are not reduced", ErrMalformedBuffer)
	}

	return nil
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (ct Ciphertext) MarshalBinary() (p []byte, err error) {
	buf := buffer.NewBufferSize(ct.BinarySize())
	_, err = ct.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (ct *Ciphertext) UnmarshalBinary(p []byte) (err error) {
	buf := buffer.NewBuffer(p)
	if _, err = ct.ReadFrom(buf); err != nil {
		return
	}
	if buf.Size() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrMalformedBuffer, buf.Size())
	}
	return
}

package bgv

import (
	"fmt"

	"github.com/tuneinsight/bgvzk/ring"
)

// Encoder packs vectors of integers modulo t in the N slots of a plaintext.
// The slots are the evaluations of the plaintext polynomial at the primitive
// 2N-th roots of unity modulo t, so that additions and multiplications of
// plaintexts act slot-wise. A plaintext whose slots are all equal is a constant
// polynomial.
type Encoder struct {
	params Parameters
	ringT  *ring.Ring
	buff   []uint64
}

// NewEncoder creates a new Encoder. It returns an error if the plaintext
// modulus of params does not support slot packing.
func NewEncoder(params Parameters) (*Encoder, error) {

	if params.RingT() == nil {
		return nil, fmt.Errorf("cannot NewEncoder: plaintext modulus %d is not a prime congruent to 1 modulo 2N", params.T())
	}

	return &Encoder{
		params: params,
		ringT:  params.RingT(),
		buff:   make([]uint64, params.N()),
	}, nil
}

// Encode encodes values on pt. len(values) must be at most N, missing slots are set to zero.
func (ecd Encoder) Encode(values []uint64, pt *Plaintext) (err error) {

	if len(values) > ecd.params.N() {
		return fmt.Errorf("cannot Encode: %w: %d values > N=%d", ErrPreconditionViolation, len(values), ecd.params.N())
	}

	if !ecd.params.compatible(pt.params) {
		return fmt.Errorf("cannot Encode: %w: parameters do not match", ErrPreconditionViolation)
	}

	t := ecd.params.T()
	clear(ecd.buff)
	for i, v := range values {
		ecd.buff[i] = v % t
	}

	ecd.ringT.SubRings[0].INTT(ecd.buff, pt.Value)

	return
}

// Decode decodes pt on values. len(values) must be at most N.
func (ecd Encoder) Decode(pt *Plaintext, values []uint64) (err error) {

	if len(values) > ecd.params.N() {
		return fmt.Errorf("cannot Decode: %w: %d values > N=%d", ErrPreconditionViolation, len(values), ecd.params.N())
	}

	ecd.ringT.SubRings[0].NTT(pt.Value, ecd.buff)
	copy(values, ecd.buff)

	return
}

// EncodeDiagonal encodes the value in all the slots of pt.
func (ecd Encoder) EncodeDiagonal(value uint64, pt *Plaintext) {
	clear(pt.Value)
	pt.Value[0] = value % ecd.params.T()
}

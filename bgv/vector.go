package bgv

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tuneinsight/bgvzk/utils/buffer"
	"github.com/tuneinsight/bgvzk/utils/sampling"
)

// Element is the set of methods a value must implement to be stored in a [Vector].
type Element[T any] interface {
	Parameters() Parameters
	Add(op T) error
	Equal(other T) bool
	CopyNew() T
	BinarySize() int
	io.WriterTo
	io.ReaderFrom
}

// Vector is an ordered and resizable batch of elements that all share the same parameters.
// New slots are zero elements bound to these parameters.
type Vector[T Element[T]] struct {
	params  Parameters
	newZero func(params Parameters) T
	Value   []T
}

// PlaintextVector is a batch of plaintexts.
type PlaintextVector = Vector[*Plaintext]

// CiphertextVector is a batch of ciphertexts at the maximum level.
type CiphertextVector = Vector[*Ciphertext]

func newZeroPlaintext(params Parameters) *Plaintext {
	return NewPlaintext(params)
}

func newZeroCiphertext(params Parameters) *Ciphertext {
	return NewCiphertext(params, params.MaxLevel())
}

// NewPlaintextVector returns a new batch of size zero plaintexts.
func NewPlaintextVector(params Parameters, size int) *PlaintextVector {
	return newVector(params, size, newZeroPlaintext)
}

// NewPlaintextVectorSingle returns a new batch holding only pt.
func NewPlaintextVectorSingle(pt *Plaintext) *PlaintextVector {
	return &PlaintextVector{params: pt.params, newZero: newZeroPlaintext, Value: []*Plaintext{pt}}
}

// NewCiphertextVector returns a new batch of size zero ciphertexts.
func NewCiphertextVector(params Parameters, size int) *CiphertextVector {
	return newVector(params, size, newZeroCiphertext)
}

func newVector[T Element[T]](params Parameters, size int, newZero func(params Parameters) T) *Vector[T] {
	v := &Vector[T]{params: params, newZero: newZero, Value: make([]T, size)}
	for i := range v.Value {
		v.Value[i] = newZero(params)
	}
	return v
}

// Parameters returns the parameters shared by the elements of the batch.
func (v Vector[T]) Parameters() Parameters {
	return v.params
}

// Size returns the number of elements of the batch.
func (v Vector[T]) Size() int {
	return len(v.Value)
}

// Resize grows or shrinks the batch to size elements. New elements are zero elements
// bound to params. An error wrapping ErrPreconditionViolation is returned if the batch
// is not empty and params differs from its parameters, and the batch is left unchanged.
func (v *Vector[T]) Resize(size int, params Parameters) (err error) {

	if size < 0 {
		return fmt.Errorf("cannot Resize: %w: negative size %d", ErrPreconditionViolation, size)
	}

	if len(v.Value) != 0 && !v.params.compatible(params) {
		return fmt.Errorf("cannot Resize: %w: parameters do not match", ErrPreconditionViolation)
	}

	v.params = params

	if size <= len(v.Value) {
		clear(v.Value[size:])
		v.Value = v.Value[:size]
		return
	}

	for len(v.Value) < size {
		v.Value = append(v.Value, v.newZero(params))
	}

	return
}

// Randomize samples every element of the batch independently, with a freshly seeded PRNG.
// It returns an error wrapping ErrPreconditionViolation if the elements cannot be randomized.
func (v *Vector[T]) Randomize() (err error) {
	return v.randomize(func(prng sampling.PRNG, el any) bool {
		r, ok := el.(interface{ Randomize(prng sampling.PRNG) })
		if ok {
			r.Randomize(prng)
		}
		return ok
	})
}

// RandomizeDiagonal samples every element of the batch as an independent diagonal
// plaintext, with a freshly seeded PRNG.
func (v *Vector[T]) RandomizeDiagonal() (err error) {
	return v.randomize(func(prng sampling.PRNG, el any) bool {
		r, ok := el.(interface{ RandomizeDiagonal(prng sampling.PRNG) })
		if ok {
			r.RandomizeDiagonal(prng)
		}
		return ok
	})
}

func (v *Vector[T]) randomize(sample func(prng sampling.PRNG, el any) bool) (err error) {

	var prng sampling.PRNG
	if prng, err = sampling.NewPRNG(); err != nil {
		return fmt.Errorf("cannot Randomize: %w", err)
	}

	for i := range v.Value {
		if !sample(prng, v.Value[i]) {
			return fmt.Errorf("cannot Randomize: %w: %T cannot be randomized", ErrPreconditionViolation, v.Value[i])
		}
	}

	return
}

// PushBack appends el to the batch.
func (v *Vector[T]) PushBack(el T) (err error) {
	if !v.params.compatible(el.Parameters()) {
		return fmt.Errorf("cannot PushBack: %w: parameters do not match", ErrPreconditionViolation)
	}
	v.Value = append(v.Value, el)
	return
}

// PopBack removes and returns the last element of the batch.
func (v *Vector[T]) PopBack() (el T, err error) {
	if len(v.Value) == 0 {
		return el, fmt.Errorf("cannot PopBack: %w: empty batch", ErrPreconditionViolation)
	}
	el = v.Value[len(v.Value)-1]
	var zero T
	v.Value[len(v.Value)-1] = zero
	v.Value = v.Value[:len(v.Value)-1]
	return
}

// Get returns the i-th element of the batch.
func (v Vector[T]) Get(i int) (el T, err error) {
	if i < 0 || i >= len(v.Value) {
		return el, fmt.Errorf("cannot Get: %w: index %d out of range [0, %d)", ErrPreconditionViolation, i, len(v.Value))
	}
	return v.Value[i], nil
}

// Set replaces the i-th element of the batch by el.
func (v *Vector[T]) Set(i int, el T) (err error) {
	if i < 0 || i >= len(v.Value) {
		return fmt.Errorf("cannot Set: %w: index %d out of range [0, %d)", ErrPreconditionViolation, i, len(v.Value))
	}
	if !v.params.compatible(el.Parameters()) {
		return fmt.Errorf("cannot Set: %w: parameters do not match", ErrPreconditionViolation)
	}
	v.Value[i] = el
	return
}

// Add adds other to the receiver element-wise. Both batches must have the same
// size and parameters.
func (v *Vector[T]) Add(other *Vector[T]) (err error) {

	if len(v.Value) != len(other.Value) {
		return fmt.Errorf("cannot Add: %w: size %d != %d", ErrPreconditionViolation, len(v.Value), len(other.Value))
	}

	if !v.params.compatible(other.params) {
		return fmt.Errorf("cannot Add: %w: parameters do not match", ErrPreconditionViolation)
	}

	for i := range v.Value {
		if err = v.Value[i].Add(other.Value[i]); err != nil {
			return fmt.Errorf("cannot Add: element %d: %w", i, err)
		}
	}

	return
}

// CopyNew returns a deep copy of the batch.
func (v Vector[T]) CopyNew() *Vector[T] {
	cpy := &Vector[T]{params: v.params, newZero: v.newZero, Value: make([]T, len(v.Value))}
	for i := range v.Value {
		cpy.Value[i] = v.Value[i].CopyNew()
	}
	return cpy
}

// Equal performs a deep equal.
func (v Vector[T]) Equal(other *Vector[T]) bool {

	if other == nil || len(v.Value) != len(other.Value) {
		return false
	}

	for i := range v.Value {
		if !v.Value[i].Equal(other.Value[i]) {
			return false
		}
	}

	return true
}

// BinarySize returns the serialized size of the object in bytes.
func (v Vector[T]) BinarySize() (size int) {
	size = 8
	for i := range v.Value {
		size += v.Value[i].BinarySize()
	}
	return
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
//
// The parameters are not written: they must be known to the reader.
func (v Vector[T]) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64
		if inc, err = buffer.WriteAsUint64(w, len(v.Value)); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteAsUint64: %w", err)
		}
		n += inc

		for i := range v.Value {
			if inc, err = v.Value[i].WriteTo(w); err != nil {
				return n + inc, fmt.Errorf("%T.WriteTo: %w", v.Value[i], err)
			}
			n += inc
		}

		return n, w.Flush()

	default:
		return v.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface. The receiver must have been created with one
// of the constructors, as the parameters are not part of the byte stream.
func (v *Vector[T]) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		if v.newZero == nil {
			return 0, fmt.Errorf("cannot ReadFrom: uninitialized vector")
		}

		var inc int64
		var size uint64
		if inc, err = buffer.ReadUint64(r, &size); err != nil {
			return n + inc, fmt.Errorf("%w: buffer.ReadUint64: %w", ErrMalformedBuffer, err)
		}
		n += inc

		// Elements are allocated as they are read, so a forged size cannot
		// trigger a large allocation.
		value := make([]T, 0, min(size, 1024))
		for i := uint64(0); i < size; i++ {
			el := v.newZero(v.params)
			if inc, err = el.ReadFrom(r); err != nil {
				return n + inc, fmt.Errorf("%w: element %d: %w", ErrMalformedBuffer, i, err)
			}
			n += inc
			value = append(value, el)
		}

		v.Value = value

		return

	default:
		return v.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (v Vector[T]) MarshalBinary() (p []byte, err error) {
	buf := buffer.NewBufferSize(v.BinarySize())
	_, err = v.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by MarshalBinary or WriteTo
// on the object. The whole slice must be consumed.
func (v *Vector[T]) UnmarshalBinary(p []byte) (err error) {
	buf := buffer.NewBuffer(p)
	if _, err = v.ReadFrom(buf); err != nil {
		return
	}
	if buf.Size() != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrMalformedBuffer, buf.Size())
	}
	return
}

// UnmarshalCiphertextVector decodes a batch of ciphertexts bound to params from data.
func UnmarshalCiphertextVector(params Parameters, data []byte) (v *CiphertextVector, err error) {
	v = NewCiphertextVector(params, 0)
	if err = v.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("cannot UnmarshalCiphertextVector: %w", err)
	}
	return
}

// UnmarshalPlaintextVector decodes a batch of plaintexts bound to params from data.
func UnmarshalPlaintextVector(params Parameters, data []byte) (v *PlaintextVector, err error) {
	v = NewPlaintextVector(params, 0)
	if err = v.UnmarshalBinary(data); err != nil {
		return nil, fmt.Errorf("cannot UnmarshalPlaintextVector: %w", err)
	}
	return
}

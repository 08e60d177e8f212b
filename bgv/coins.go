package bgv

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/tuneinsight/bgvzk/ring"
	"github.com/tuneinsight/bgvzk/utils"
	"github.com/tuneinsight/bgvzk/utils/buffer"
	"github.com/tuneinsight/bgvzk/utils/sampling"
)

// Coins is the randomness of one encryption, as signed integer polynomials:
// U is the ephemeral secret, E0 and E1 are the errors added to each component.
//
// Coins are the witness of a proof of plaintext knowledge and are never sent to a verifier.
type Coins struct {
	U, E0, E1 []int64
}

// NewCoins allocates zero coins for the ring degree of params.
func NewCoins(params Parameters) *Coins {
	N := params.N()
	return &Coins{U: make([]int64, N), E0: make([]int64, N), E1: make([]int64, N)}
}

// N returns the number of coefficients of each coin polynomial.
func (c Coins) N() int {
	return len(c.U)
}

// Sample draws U from the secret distribution and E0, E1 from the error distribution of params.
func (c *Coins) Sample(prng sampling.PRNG, params Parameters) (err error) {

	var xs, xe ring.Sampler
	if xs, err = ring.NewSampler(prng, params.Xs()); err != nil {
		return fmt.Errorf("cannot Sample: %w", err)
	}

	if xe, err = ring.NewSampler(prng, params.Xe()); err != nil {
		return fmt.Errorf("cannot Sample: %w", err)
	}

	xs.ReadInt64(c.U)
	xe.ReadInt64(c.E0)
	xe.ReadInt64(c.E1)

	return
}

// Add sets the receiver to the coefficient-wise sum of itself and op.
func (c *Coins) Add(op *Coins) {
	for i := range c.U {
		c.U[i] += op.U[i]
		c.E0[i] += op.E0[i]
		c.E1[i] += op.E1[i]
	}
}

// MulByMonomial multiplies the coins by X^k in Z[X]/(X^N+1).
func (c *Coins) MulByMonomial(k int) {
	for _, v := range [][]int64{c.U, c.E0, c.E1} {
		ring.MultByMonomialInt64(v, k)
	}
}

// Norms returns the infinity norms of U and of (E0, E1).
func (c Coins) Norms() (normU, normE int64) {
	for i := range c.U {
		normU = utils.Max(normU, absInt64(c.U[i]))
		normE = utils.Max(normE, utils.Max(absInt64(c.E0[i]), absInt64(c.E1[i])))
	}
	return
}

// absInt64 returns |x|, saturating at math.MaxInt64.
func absInt64(x int64) int64 {
	if x == math.MinInt64 {
		return math.MaxInt64
	}
	return utils.Abs(x)
}

// CopyNew returns a deep copy of the coins.
func (c Coins) CopyNew() *Coins {
	return &Coins{
		U:  append([]int64{}, c.U...),
		E0: append([]int64{}, c.E0...),
		E1: append([]int64{}, c.E1...),
	}
}

// Copy copies op on the receiver. Both must have the same size.
func (c *Coins) Copy(op *Coins) {
	copy(c.U, op.U)
	copy(c.E0, op.E0)
	copy(c.E1, op.E1)
}

// Equal performs a deep equal.
func (c Coins) Equal(other *Coins) bool {
	return other != nil && utils.EqualSlice(c.U, other.U) && utils.EqualSlice(c.E0, other.E0) && utils.EqualSlice(c.E1, other.E1)
}

// BinarySize returns the serialized size of the object in bytes.
func (c Coins) BinarySize() int {
	return 8 + 3*len(c.U)<<3
}

// WriteTo writes the object on an io.Writer. It implements the io.WriterTo
// interface, and will write exactly object.BinarySize() bytes on w.
func (c Coins) WriteTo(w io.Writer) (n int64, err error) {
	switch w := w.(type) {
	case buffer.Writer:

		var inc int64
		if inc, err = buffer.WriteAsUint64(w, len(c.U)); err != nil {
			return n + inc, fmt.Errorf("buffer.WriteAsUint64: %w", err)
		}
		n += inc

		for _, v := range [][]int64{c.U, c.E0, c.E1} {
			if inc, err = buffer.WriteInt64Slice(w, v); err != nil {
				return n + inc, fmt.Errorf("buffer.WriteInt64Slice: %w", err)
			}
			n += inc
		}

		return n, w.Flush()

	default:
		return c.WriteTo(bufio.NewWriter(w))
	}
}

// ReadFrom reads on the object from an io.Writer. It implements the
// io.ReaderFrom interface.
func (c *Coins) ReadFrom(r io.Reader) (n int64, err error) {
	switch r := r.(type) {
	case buffer.Reader:

		var inc int64
		var N uint64
		if inc, err = buffer.ReadUint64(r, &N); err != nil {
			return n + inc, fmt.Errorf("%w: buffer.ReadUint64: %w", ErrMalformedBuffer, err)
		}
		n += inc

		if N > ring.MaximumRingDegree || N&(N-1) != 0 {
			return n, fmt.Errorf("%w: invalid coins size %d", ErrMalformedBuffer, N)
		}

		if len(c.U) != int(N) {
			c.U, c.E0, c.E1 = make([]int64, N), make([]int64, N), make([]int64, N)
		}

		for _, v := range [][]int64{c.U, c.E0, c.E1} {
			if inc, err = buffer.ReadInt64Slice(r, v); err != nil {
				return n + inc, fmt.Errorf("%w: buffer.ReadInt64Slice: %w", ErrMalformedBuffer, err)
			}
			n += inc
		}

		return

	default:
		return c.ReadFrom(bufio.NewReader(r))
	}
}

// MarshalBinary encodes the object into a binary form on a newly allocated slice of bytes.
func (c Coins) MarshalBinary() (p []byte, err error) {
	buf := buffer.NewBufferSize(c.BinarySize())
	_, err = c.WriteTo(buf)
	return buf.Bytes(), err
}

// UnmarshalBinary decodes a slice of bytes generated by
// MarshalBinary or WriteTo on the object.
func (c *Coins) UnmarshalBinary(p []byte) (err error) {
	_, err = c.ReadFrom(buffer.NewBuffer(p))
	return
}

// Package bgv implements the ciphertext algebra of a leveled BGV-style homomorphic encryption scheme
// over the ring Z_Q[X]/(X^N+1): parameters, plaintexts, ciphertexts, keys, encryption with explicit
// coins and batch vectors of plaintexts and ciphertexts.
package bgv

import (
	"encoding/json"
	"fmt"
	"math"
	"math/bits"
	"sort"

	"github.com/google/go-cmp/cmp"

	"github.com/tuneinsight/bgvzk/ring"
	"github.com/tuneinsight/bgvzk/utils/bignum"
)

const (
	// DefaultSigma is the default standard deviation of the error distribution.
	DefaultSigma = 3.2

	// DefaultBound is the default truncation bound of the error distribution.
	DefaultBound = 6 * DefaultSigma

	// DefaultXsDensity is the default probability of a secret coefficient being non-zero.
	DefaultXsDensity = 0.5
)

// ParametersLiteral is a literal representation of BGV parameters. It has public
// fields and is used to express unchecked user-defined parameters literally into
// Go programs. The NewParametersFromLiteral function is used to generate the actual
// checked parameters from the literal representation.
//
// Users must set the polynomial degree (LogN) and the coefficient modulus, by either setting
// the Q field to the desired moduli chain, or by setting the LogQ field to the desired moduli
// sizes. Users must also specify the plaintext modulus (PlaintextModulus).
//
// Optionally, users may specify the error distribution (Xe) and the secret distribution (Xs).
// If left unset, DefaultSigma, DefaultBound and DefaultXsDensity are used.
type ParametersLiteral struct {
	LogN             int
	Q                []uint64 `json:",omitempty"`
	LogQ             []int    `json:",omitempty"`
	PlaintextModulus uint64
	Xe               ring.DiscreteGaussian
	Xs               ring.Ternary
}

// Parameters represents a parameter set for the BGV cryptosystem. Its fields are private and
// immutable. See ParametersLiteral for user-specified parameters.
//
// Values built from a Parameters share its rings, which are never mutated.
type Parameters struct {
	logN  int
	qi    []uint64
	t     uint64
	xe    ring.DiscreteGaussian
	xs    ring.Ternary
	ringQ *ring.Ring
	ringT *ring.Ring
}

// NewParametersFromLiteral instantiate a set of BGV parameters from a ParametersLiteral specification.
// It returns the empty parameters Parameters{} and a non-nil error if the specified parameters are invalid.
func NewParametersFromLiteral(pl ParametersLiteral) (params Parameters, err error) {

	if pl.LogN < 3 || pl.LogN > 17 {
		return Parameters{}, fmt.Errorf("invalid LogN: must be between 3 and 17 but is %d", pl.LogN)
	}

	N := 1 << pl.LogN

	var qi []uint64
	switch {
	case len(pl.Q) != 0 && len(pl.LogQ) != 0:
		return Parameters{}, fmt.Errorf("invalid parameters: Q and LogQ cannot both be set")
	case len(pl.Q) != 0:
		qi = append([]uint64{}, pl.Q...)
	case len(pl.LogQ) != 0:
		if qi, err = generateModuli(pl.LogQ, 2*N); err != nil {
			return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: %w", err)
		}
	default:
		return Parameters{}, fmt.Errorf("invalid parameters: Q or LogQ must be set")
	}

	var ringQ *ring.Ring
	if ringQ, err = ring.NewRing(N, qi); err != nil {
		return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: ring.NewRing: %w", err)
	}

	t := pl.PlaintextModulus

	if t < 2 {
		return Parameters{}, fmt.Errorf("invalid parameters: PlaintextModulus = %d", t)
	}

	for _, q := range qi {
		if t >= q {
			return Parameters{}, fmt.Errorf("invalid parameters: PlaintextModulus=%d is larger than Q[i]=%d", t, q)
		}
	}

	xe := pl.Xe
	if xe == (ring.DiscreteGaussian{}) {
		xe = ring.DiscreteGaussian{Sigma: DefaultSigma, Bound: DefaultBound}
	}

	if xe.Sigma <= 0 || xe.Bound < xe.Sigma {
		return Parameters{}, fmt.Errorf("invalid parameters: Xe=%+v", xe)
	}

	xs := pl.Xs
	if xs == (ring.Ternary{}) {
		xs = ring.Ternary{P: DefaultXsDensity}
	}

	if xs.P <= 0 || xs.P > 1 {
		return Parameters{}, fmt.Errorf("invalid parameters: Xs=%+v", xs)
	}

	// The plaintext ring enables slot packing only if t is an NTT-friendly prime.
	var ringT *ring.Ring
	if ring.IsPrime(t) && t&uint64(2*N-1) == 1 {
		if ringT, err = ring.NewRing(N, []uint64{t}); err != nil {
			return Parameters{}, fmt.Errorf("cannot NewParametersFromLiteral: plaintext ring: %w", err)
		}
	}

	return Parameters{
		logN:  pl.LogN,
		qi:    qi,
		t:     t,
		xe:    xe,
		xs:    xs,
		ringQ: ringQ,
		ringT: ringT,
	}, nil
}

// generateModuli returns distinct NTT friendly primes of the given sizes, in the given order.
func generateModuli(logQ []int, NthRoot int) (qi []uint64, err error) {

	count := map[int]int{}
	for _, logqi := range logQ {
		count[logqi]++
	}

	sizes := make([]int, 0, len(count))
	for logqi := range count {
		sizes = append(sizes, logqi)
	}
	sort.Ints(sizes)

	primes := map[int][]uint64{}
	for _, logqi := range sizes {
		if primes[logqi], err = ring.GenerateNTTPrimes(logqi, NthRoot, count[logqi]); err != nil {
			return nil, fmt.Errorf("ring.GenerateNTTPrimes: %w", err)
		}
	}

	qi = make([]uint64, len(logQ))
	for i, logqi := range logQ {
		qi[i] = primes[logqi][0]
		primes[logqi] = primes[logqi][1:]
	}

	return
}

// ParametersLiteral returns the ParametersLiteral of the target Parameters.
func (p Parameters) ParametersLiteral() ParametersLiteral {
	return ParametersLiteral{
		LogN:             p.logN,
		Q:                p.Q(),
		PlaintextModulus: p.t,
		Xe:               p.xe,
		Xs:               p.xs,
	}
}

// N returns the ring degree.
func (p Parameters) N() int {
	return 1 << p.logN
}

// LogN returns the log2 of the ring degree.
func (p Parameters) LogN() int {
	return p.logN
}

// MaxLevel returns the maximum level of a ciphertext.
func (p Parameters) MaxLevel() int {
	return len(p.qi) - 1
}

// Q returns a new slice with the factors of the ciphertext modulus Q.
func (p Parameters) Q() []uint64 {
	return append([]uint64{}, p.qi...)
}

// LogQ returns the size of the ciphertext modulus Q in bits.
func (p Parameters) LogQ() float64 {
	return bignum.Log2(p.ringQ.Modulus())
}

// T returns the plaintext modulus t.
func (p Parameters) T() uint64 {
	return p.t
}

// LogT returns log2(plaintext modulus).
func (p Parameters) LogT() float64 {
	return math.Log2(float64(p.t))
}

// HalfT returns floor(t/2), the largest absolute value of a centered plaintext coefficient.
func (p Parameters) HalfT() uint64 {
	return p.t >> 1
}

// RingQ returns a pointer to the ciphertext ring.
func (p Parameters) RingQ() *ring.Ring {
	return p.ringQ
}

// RingT returns a pointer to the plaintext ring, or nil if t
// is not a prime congruent to 1 modulo 2N.
func (p Parameters) RingT() *ring.Ring {
	return p.ringT
}

// Xe returns the error distribution.
func (p Parameters) Xe() ring.DiscreteGaussian {
	return p.xe
}

// Xs returns the secret distribution.
func (p Parameters) Xs() ring.Ternary {
	return p.xs
}

// MaxLogSlots returns log2 of the number of plaintext slots, or -1 if
// the plaintext modulus does not support slot packing.
func (p Parameters) MaxLogSlots() int {
	if p.ringT == nil {
		return -1
	}
	return bits.Len64(uint64(p.N())) - 1
}

// Equal compares two sets of parameters for equality.
func (p Parameters) Equal(other Parameters) bool {
	res := p.logN == other.logN
	res = res && cmp.Equal(p.qi, other.qi)
	res = res && p.t == other.t
	res = res && cmp.Equal(p.xe, other.xe)
	res = res && cmp.Equal(p.xs, other.xs)
	return res
}

// compatible returns true if both parameters are the same instance or are equal.
func (p Parameters) compatible(other Parameters) bool {
	return (p.ringQ != nil && p.ringQ == other.ringQ) || p.Equal(other)
}

// MarshalBinary returns a []byte representation of the parameter set.
func (p Parameters) MarshalBinary() ([]byte, error) {
	return p.MarshalJSON()
}

// UnmarshalBinary decodes a []byte into a parameter set struct.
func (p *Parameters) UnmarshalBinary(data []byte) (err error) {
	return p.UnmarshalJSON(data)
}

// MarshalJSON returns a JSON representation of this parameter set. See `Marshal` from the `encoding/json` package.
func (p Parameters) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ParametersLiteral())
}

// UnmarshalJSON reads a JSON representation of a parameter set into the receiver Parameter. See `Unmarshal` from the `encoding/json` package.
func (p *Parameters) UnmarshalJSON(data []byte) (err error) {
	var params ParametersLiteral
	if err = json.Unmarshal(data, &params); err != nil {
		return
	}
	*p, err = NewParametersFromLiteral(params)
	return
}

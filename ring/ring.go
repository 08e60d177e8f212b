// Package ring implements RNS-accelerated modular arithmetic operations for polynomials, including:
// RNS basis extension; RNS rescaling; number theoretic transform (NTT); uniform, Gaussian and ternary sampling.
package ring

import (
	"fmt"
	"math/big"
	"math/bits"
)

const (
	// MaximumRingDegree is the largest supported ring degree.
	MaximumRingDegree = 1 << 17

	// MaximumLevel is the largest supported level (number of moduli minus one).
	MaximumLevel = 31
)

// Ring is a structure that keeps all the variables required to operate on a polynomial represented in this ring.
// Operations are carried out on the moduli SubRings[:Level()+1].
type Ring struct {
	SubRings []*SubRing

	// Product of the Moduli for each level
	modulusAtLevel []*big.Int

	level int
}

// NewRing creates a new RNS Ring with degree N and coefficient moduli Moduli.
// N must be a power of two larger than 8 and each modulus a prime equal to 1 modulo 2N.
// An error is returned with a nil *Ring in the case of non NTT-enabling parameters.
func NewRing(N int, Moduli []uint64) (r *Ring, err error) {

	if len(Moduli) == 0 {
		return nil, fmt.Errorf("invalid Moduli: empty chain")
	}

	if len(Moduli) > MaximumLevel+1 {
		return nil, fmt.Errorf("invalid Moduli: chain of %d moduli exceeds %d", len(Moduli), MaximumLevel+1)
	}

	if N > MaximumRingDegree {
		return nil, fmt.Errorf("invalid ring degree: %d > %d", N, MaximumRingDegree)
	}

	r = &Ring{}
	r.SubRings = make([]*SubRing, len(Moduli))

	for i := range r.SubRings {

		for j := 0; j < i; j++ {
			if Moduli[j] == Moduli[i] {
				return nil, fmt.Errorf("invalid Moduli: duplicate modulus %d", Moduli[i])
			}
		}

		if r.SubRings[i], err = NewSubRing(N, Moduli[i]); err != nil {
			return nil, fmt.Errorf("NewSubRing: %w", err)
		}
	}

	r.modulusAtLevel = make([]*big.Int, len(Moduli))
	r.modulusAtLevel[0] = new(big.Int).SetUint64(Moduli[0])
	for i := 1; i < len(Moduli); i++ {
		r.modulusAtLevel[i] = new(big.Int).Mul(r.modulusAtLevel[i-1], new(big.Int).SetUint64(Moduli[i]))
	}

	r.level = len(Moduli) - 1

	return
}

// AtLevel returns an instance of the target ring that operates at the target level.
// This instance is thread safe and can be use concurrently with the base ring.
func (r Ring) AtLevel(level int) *Ring {

	if level < 0 || level > r.MaxLevel() {
		// Sanity check
		panic(fmt.Errorf("level must be between 0 and %d but is %d", r.MaxLevel(), level))
	}

	return &Ring{
		SubRings:       r.SubRings,
		modulusAtLevel: r.modulusAtLevel,
		level:          level,
	}
}

// N returns the ring degree.
func (r Ring) N() int {
	return r.SubRings[0].N
}

// LogN returns log2(ring degree).
func (r Ring) LogN() int {
	return bits.Len64(uint64(r.N()) - 1)
}

// NthRoot returns the multiplicative order of the primitive root.
func (r Ring) NthRoot() uint64 {
	return r.SubRings[0].NthRoot
}

// Level returns the level of the current ring.
func (r Ring) Level() int {
	return r.level
}

// MaxLevel returns the maximum level allowed by the ring (#NbModuli -1).
func (r Ring) MaxLevel() int {
	return len(r.SubRings) - 1
}

// ModuliChain returns the list of primes in the modulus chain.
func (r Ring) ModuliChain() (moduli []uint64) {
	moduli = make([]uint64, len(r.SubRings))
	for i := range r.SubRings {
		moduli[i] = r.SubRings[i].Modulus
	}
	return
}

// Modulus returns the modulus of the target ring at the currently
// set level in *big.Int.
func (r Ring) Modulus() *big.Int {
	return r.modulusAtLevel[r.level]
}

// NewPoly creates a new polynomial with all coefficients set to 0.
func (r Ring) NewPoly() Poly {
	return NewPoly(r.N(), r.level)
}

// NTT evaluates p2 = NTT(p1).
func (r Ring) NTT(p1, p2 Poly) {
	for i, s := range r.SubRings[:r.level+1] {
		s.NTT(p1.Coeffs[i], p2.Coeffs[i])
	}
}

// INTT evaluates p2 = INTT(p1).
func (r Ring) INTT(p1, p2 Poly) {
	for i, s := range r.SubRings[:r.level+1] {
		s.INTT(p1.Coeffs[i], p2.Coeffs[i])
	}
}

// Equal checks if p1 = p2 in the given Ring, up to the level of the ring.
func (r Ring) Equal(p1, p2 Poly) bool {
	for i := 0; i < r.level+1; i++ {
		for j := range p1.Coeffs[i] {
			if p1.Coeffs[i][j] != p2.Coeffs[i][j] {
				return false
			}
		}
	}
	return true
}

// IsReduced returns true if all the coefficients of p1 are
// smaller than their respective modulus, up to the level of the ring.
func (r Ring) IsReduced(p1 Poly) bool {
	for i, s := range r.SubRings[:r.level+1] {
		q := s.Modulus
		for _, c := range p1.Coeffs[i] {
			if c >= q {
				return false
			}
		}
	}
	return true
}

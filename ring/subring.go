package ring

import (
	"fmt"
	"math/bits"

	"github.com/tuneinsight/bgvzk/utils"
)

// MinimumRingDegree is the smallest supported ring degree.
const MinimumRingDegree = 8

// SubRing is a struct storing precomputation
// for modular arithmetic and the negacyclic NTT
// for a given modulus.
type SubRing struct {

	// Polynomial nb.Coefficients
	N int

	// Modulus
	Modulus uint64

	// 2N
	NthRoot uint64

	// Primitive 2N-th root of unity
	Psi uint64

	// N^-1 mod Modulus
	NInv uint64

	// Bit-reversed powers of Psi and Psi^-1
	RootsForward  []uint64
	RootsBackward []uint64
}

// NewSubRing creates a new SubRing of degree N and modulus Modulus.
// Modulus must be a prime equal to 1 modulo 2N and N a power of two
// greater or equal to [MinimumRingDegree].
func NewSubRing(N int, Modulus uint64) (s *SubRing, err error) {

	if N < MinimumRingDegree || !utils.IsPowerOfTwo(N) {
		return nil, fmt.Errorf("invalid ring degree: must be a power of 2 greater than %d", MinimumRingDegree)
	}

	if bits.Len64(Modulus) > 61 {
		return nil, fmt.Errorf("invalid modulus: %d exceeds 61 bits", Modulus)
	}

	if !IsPrime(Modulus) {
		return nil, fmt.Errorf("invalid modulus: %d is not prime", Modulus)
	}

	NthRoot := uint64(N) << 1

	if Modulus&(NthRoot-1) != 1 {
		return nil, fmt.Errorf("invalid modulus: %d != 1 mod %d", Modulus, NthRoot)
	}

	s = &SubRing{
		N:       N,
		Modulus: Modulus,
		NthRoot: NthRoot,
	}

	s.generateNTTConstants()

	return
}

// generateNTTConstants finds a primitive 2N-th root of unity and
// populates the twiddle factors tables.
func (s *SubRing) generateNTTConstants() {

	q := s.Modulus
	N := uint64(s.N)

	// x^((q-1)/2N) has order dividing 2N, and exactly 2N iff its N-th power is -1.
	for g := uint64(2); ; g++ {
		if psi := ModExp(g, (q-1)/s.NthRoot, q); ModExp(psi, N, q) == q-1 {
			s.Psi = psi
			break
		}
	}

	PsiInv := ModInv(s.Psi, q)

	logN := bits.Len64(N) - 1

	s.RootsForward = make([]uint64, N)
	s.RootsBackward = make([]uint64, N)

	powF, powB := uint64(1), uint64(1)
	for j := uint64(0); j < N; j++ {
		idx := utils.BitReverse64(j, logN)
		s.RootsForward[idx] = powF
		s.RootsBackward[idx] = powB
		powF = MulMod(powF, s.Psi, q)
		powB = MulMod(powB, PsiInv, q)
	}

	s.NInv = ModInv(N, q)
}

// NTT evaluates p2 = NTT(p1) in Z_q[X]/(X^N+1).
// The output is in bit-reversed order.
func (s *SubRing) NTT(p1, p2 []uint64) {

	if &p1[0] != &p2[0] {
		copy(p2, p1)
	}

	q := s.Modulus
	N := s.N
	roots := s.RootsForward

	t := N
	for m := 1; m < N; m <<= 1 {
		t >>= 1
		for i := 0; i < m; i++ {
			j1 := 2 * i * t
			S := roots[m+i]
			for j := j1; j < j1+t; j++ {
				U := p2[j]
				V := MulMod(p2[j+t], S, q)
				p2[j] = AddMod(U, V, q)
				p2[j+t] = SubMod(U, V, q)
			}
		}
	}
}

// INTT evaluates p2 = INTT(p1) in Z_q[X]/(X^N+1).
// The input is expected in bit-reversed order.
func (s *SubRing) INTT(p1, p2 []uint64) {

	if &p1[0] != &p2[0] {
		copy(p2, p1)
	}

	q := s.Modulus
	N := s.N
	roots := s.RootsBackward

	t := 1
	for m := N; m > 1; m >>= 1 {
		j1 := 0
		h := m >> 1
		for i := 0; i < h; i++ {
			S := roots[h+i]
			for j := j1; j < j1+t; j++ {
				U := p2[j]
				V := p2[j+t]
				p2[j] = AddMod(U, V, q)
				p2[j+t] = MulMod(SubMod(U, V, q), S, q)
			}
			j1 += 2 * t
		}
		t <<= 1
	}

	for j := range p2[:N] {
		p2[j] = MulMod(p2[j], s.NInv, q)
	}
}

package ring

import (
	"fmt"
)

// DivRoundByLastModulusBGV divides p1 by the last modulus q_L of the ring
// while preserving its residue modulo t up to the factor q_L^-1 mod t, i.e.
// p2 = (p1 - d) / q_L where d = p1 mod q_L and d = 0 mod t.
// Inputs and outputs must be outside of the NTT domain, p2 is written
// at level r.Level()-1. p1 and p2 can be the same polynomial.
func (r Ring) DivRoundByLastModulusBGV(p1 Poly, t uint64, p2 Poly) {

	level := r.level

	if level == 0 {
		// Sanity check
		panic(fmt.Errorf("cannot DivRoundByLastModulusBGV: ring is at level 0"))
	}

	qL := r.SubRings[level].Modulus
	qLInvModT := modInvExtendedGCD(qL%t, t)

	last := p1.Coeffs[level]

	// k = -d * q_L^-1 mod t, centered; the correction is d + q_L * k
	corrLow := make([]int64, len(last))
	corrHigh := make([]int64, len(last))
	for j, c := range last {
		d := CenterMod(c, qL)
		k := MulMod(ReduceInt64(-d, t), qLInvModT, t)
		corrLow[j] = d
		corrHigh[j] = CenterMod(k, t)
	}

	for i, s := range r.SubRings[:level] {
		q := s.Modulus
		qLModQi := qL % q
		qLInv := ModInv(qLModQi, q)
		a, c := p1.Coeffs[i], p2.Coeffs[i]
		for j := range c {
			delta := AddMod(ReduceInt64(corrLow[j], q), MulMod(qLModQi, ReduceInt64(corrHigh[j], q), q), q)
			c[j] = MulMod(SubMod(a[j], delta, q), qLInv, q)
		}
	}
}

// DivRoundByLastModulusBGVNTT is the same as [Ring.DivRoundByLastModulusBGV]
// but takes and returns polynomials in the NTT domain.
func (r Ring) DivRoundByLastModulusBGVNTT(p1 Poly, t uint64, p2 Poly) {

	level := r.level
	tmp := NewPoly(r.N(), level)
	r.INTT(p1, tmp)
	r.DivRoundByLastModulusBGV(tmp, t, tmp)

	rLow := r.AtLevel(level - 1)
	rLow.NTT(tmp, p2)
}

// modInvExtendedGCD returns x^-1 mod m for gcd(x, m) = 1.
func modInvExtendedGCD(x, m uint64) uint64 {
	a, b := int64(x), int64(m)
	x0, x1 := int64(1), int64(0)
	for b != 0 {
		q := a / b
		a, b = b, a-q*b
		x0, x1 = x1, x0-q*x1
	}
	return ReduceInt64(x0, m)
}

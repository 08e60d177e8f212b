package ring

import (
	"math/big"
)

// Add evaluates p3 = p1 + p2 coefficient-wise in the ring.
func (r Ring) Add(p1, p2, p3 Poly) {
	for i, s := range r.SubRings[:r.level+1] {
		q := s.Modulus
		a, b, c := p1.Coeffs[i], p2.Coeffs[i], p3.Coeffs[i]
		for j := range c {
			c[j] = AddMod(a[j], b[j], q)
		}
	}
}

// Sub evaluates p3 = p1 - p2 coefficient-wise in the ring.
func (r Ring) Sub(p1, p2, p3 Poly) {
	for i, s := range r.SubRings[:r.level+1] {
		q := s.Modulus
		a, b, c := p1.Coeffs[i], p2.Coeffs[i], p3.Coeffs[i]
		for j := range c {
			c[j] = SubMod(a[j], b[j], q)
		}
	}
}

// Neg evaluates p2 = -p1 coefficient-wise in the ring.
func (r Ring) Neg(p1, p2 Poly) {
	for i, s := range r.SubRings[:r.level+1] {
		q := s.Modulus
		a, c := p1.Coeffs[i], p2.Coeffs[i]
		for j := range c {
			c[j] = SubMod(0, a[j], q)
		}
	}
}

// MulCoeffs evaluates p3 = p1 * p2 coefficient-wise in the ring.
// In the NTT domain, this is the product of the two polynomials.
func (r Ring) MulCoeffs(p1, p2, p3 Poly) {
	for i, s := range r.SubRings[:r.level+1] {
		q := s.Modulus
		a, b, c := p1.Coeffs[i], p2.Coeffs[i], p3.Coeffs[i]
		for j := range c {
			c[j] = MulMod(a[j], b[j], q)
		}
	}
}

// MulCoeffsThenAdd evaluates p3 = p3 + p1 * p2 coefficient-wise in the ring.
func (r Ring) MulCoeffsThenAdd(p1, p2, p3 Poly) {
	for i, s := range r.SubRings[:r.level+1] {
		q := s.Modulus
		a, b, c := p1.Coeffs[i], p2.Coeffs[i], p3.Coeffs[i]
		for j := range c {
			c[j] = AddMod(c[j], MulMod(a[j], b[j], q), q)
		}
	}
}

// MulScalar evaluates p2 = p1 * scalar coefficient-wise in the ring.
func (r Ring) MulScalar(p1 Poly, scalar uint64, p2 Poly) {
	for i, s := range r.SubRings[:r.level+1] {
		q := s.Modulus
		sc := scalar % q
		a, c := p1.Coeffs[i], p2.Coeffs[i]
		for j := range c {
			c[j] = MulMod(a[j], sc, q)
		}
	}
}

// MulScalarThenAdd evaluates p2 = p2 + p1 * scalar coefficient-wise in the ring.
func (r Ring) MulScalarThenAdd(p1 Poly, scalar uint64, p2 Poly) {
	for i, s := range r.SubRings[:r.level+1] {
		q := s.Modulus
		sc := scalar % q
		a, c := p1.Coeffs[i], p2.Coeffs[i]
		for j := range c {
			c[j] = AddMod(c[j], MulMod(a[j], sc, q), q)
		}
	}
}

// MultByMonomial evaluates p2 = p1 * X^k in Z_Q[X]/(X^N+1).
// The input must be outside of the NTT domain. k can be any integer
// and is reduced modulo 2N. p1 and p2 can be the same polynomial.
func (r Ring) MultByMonomial(p1 Poly, k int, p2 Poly) {

	N := r.N()
	twoN := N << 1

	k %= twoN
	if k < 0 {
		k += twoN
	}

	tmp := make([]uint64, N)

	for i, s := range r.SubRings[:r.level+1] {
		q := s.Modulus
		a := p1.Coeffs[i]
		for j := 0; j < N; j++ {
			idx := j + k
			neg := false
			if idx >= twoN {
				idx -= twoN
			}
			if idx >= N {
				idx -= N
				neg = true
			}
			if neg {
				tmp[idx] = SubMod(0, a[j], q)
			} else {
				tmp[idx] = a[j]
			}
		}
		copy(p2.Coeffs[i], tmp)
	}
}

// MultByMonomialInt64 evaluates v = v * X^k in Z[X]/(X^N+1), where N = len(v).
// k can be any integer and is reduced modulo 2N.
func MultByMonomialInt64(v []int64, k int) {

	N := len(v)
	if N == 0 {
		return
	}

	twoN := N << 1

	k %= twoN
	if k < 0 {
		k += twoN
	}

	if k == 0 {
		return
	}

	tmp := make([]int64, N)
	for j, x := range v {
		idx := j + k
		if idx >= twoN {
			idx -= twoN
		}
		if idx >= N {
			tmp[idx-N] = -x
		} else {
			tmp[idx] = x
		}
	}
	copy(v, tmp)
}

// SetCoefficientsInt64 sets the coefficients of p1 from an int64 array.
func (r Ring) SetCoefficientsInt64(coeffs []int64, p1 Poly) {
	for i, s := range r.SubRings[:r.level+1] {
		q := s.Modulus
		c := p1.Coeffs[i]
		for j, v := range coeffs {
			c[j] = ReduceInt64(v, q)
		}
	}
}

// SetCoefficientsBigint sets the coefficients of p1 from an array of Int variables.
func (r Ring) SetCoefficientsBigint(coeffs []*big.Int, p1 Poly) {
	tmp := new(big.Int)
	for i, s := range r.SubRings[:r.level+1] {
		qi := new(big.Int).SetUint64(s.Modulus)
		c := p1.Coeffs[i]
		for j, v := range coeffs {
			c[j] = tmp.Mod(v, qi).Uint64()
		}
	}
}

// ExtendRNSDigit takes the i-th RNS residue of p1 (NTT domain), maps it back
// to the coefficient domain and writes on p2 (NTT domain) its lift in every
// modulus of the ring. The lifted digit is the integer representative in [0, q_i-1].
func (r Ring) ExtendRNSDigit(i int, p1, p2 Poly) {

	N := r.N()
	digit := make([]uint64, N)
	r.SubRings[i].INTT(p1.Coeffs[i], digit)

	for j, s := range r.SubRings[:r.level+1] {
		q := s.Modulus
		c := p2.Coeffs[j]
		if j == i {
			copy(c, p1.Coeffs[i])
			continue
		}
		for k := range c {
			c[k] = digit[k] % q
		}
		s.NTT(c, c)
	}
}

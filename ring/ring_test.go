package ring

import (
	"fmt"
	"math/big"
	"testing"

	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/require"

	"github.com/tuneinsight/bgvzk/utils/sampling"
)

func testString(opname string, r *Ring) string {
	return fmt.Sprintf("%s/N=%d/limbs=%d", opname, r.N(), r.Level()+1)
}

type testParams struct {
	ringQ          *Ring
	prng           sampling.PRNG
	uniformSampler *UniformSampler
}

func genTestParams(logN, logQ, limbs int) (tc *testParams, err error) {

	tc = new(testParams)

	N := 1 << logN

	var moduli []uint64
	if moduli, err = GenerateNTTPrimes(logQ, 2*N, limbs); err != nil {
		return nil, err
	}

	if tc.ringQ, err = NewRing(N, moduli); err != nil {
		return nil, err
	}

	if tc.prng, err = sampling.NewKeyedPRNG([]byte{'t', 'e', 's', 't'}); err != nil {
		return nil, err
	}

	tc.uniformSampler = NewUniformSampler(tc.prng, tc.ringQ)

	return
}

func TestRing(t *testing.T) {

	for _, p := range []struct{ logN, logQ, limbs int }{{4, 30, 2}, {10, 55, 3}} {

		tc, err := genTestParams(p.logN, p.logQ, p.limbs)
		require.NoError(t, err)

		testGenerateNTTPrimes(tc, t)
		testNTT(tc, t)
		testMultByMonomial(tc, t)
		testSetCoefficients(tc, t)
		testDivRoundByLastModulusBGV(tc, t)
		testExtendRNSDigit(tc, t)
		testMarshalBinary(tc, t)
	}

	testSamplers(t)
}

func testGenerateNTTPrimes(tc *testParams, t *testing.T) {
	t.Run(testString("GenerateNTTPrimes", tc.ringQ), func(t *testing.T) {
		NthRoot := tc.ringQ.NthRoot()
		moduli := tc.ringQ.ModuliChain()
		for i, q := range moduli {
			require.True(t, IsPrime(q))
			require.Equal(t, uint64(1), q%NthRoot)
			for _, qj := range moduli[:i] {
				require.NotEqual(t, q, qj)
			}
		}

		_, err := NewSubRing(tc.ringQ.N(), moduli[0]+2)
		require.Error(t, err)
	})
}

// negacyclic schoolbook product modulo q
func mulNegacyclic(a, b []uint64, q uint64) (c []uint64) {
	N := len(a)
	c = make([]uint64, N)
	for i := 0; i < N; i++ {
		for j := 0; j < N; j++ {
			prod := MulMod(a[i], b[j], q)
			if k := i + j; k < N {
				c[k] = AddMod(c[k], prod, q)
			} else {
				c[k-N] = SubMod(c[k-N], prod, q)
			}
		}
	}
	return
}

func testNTT(tc *testParams, t *testing.T) {

	r := tc.ringQ

	t.Run(testString("NTT/INTT", r), func(t *testing.T) {
		p0 := tc.uniformSampler.ReadNew()
		p1 := r.NewPoly()
		r.NTT(p0, p1)
		require.False(t, p0.Equal(&p1))
		r.INTT(p1, p1)
		require.True(t, p0.Equal(&p1))
	})

	if r.N() > 64 {
		return
	}

	t.Run(testString("NTT/Convolution", r), func(t *testing.T) {
		a := tc.uniformSampler.ReadNew()
		b := tc.uniformSampler.ReadNew()

		aNTT, bNTT, c := r.NewPoly(), r.NewPoly(), r.NewPoly()
		r.NTT(a, aNTT)
		r.NTT(b, bNTT)
		r.MulCoeffs(aNTT, bNTT, c)
		r.INTT(c, c)

		for i, s := range r.SubRings {
			require.Equal(t, mulNegacyclic(a.Coeffs[i], b.Coeffs[i], s.Modulus), c.Coeffs[i])
		}
	})
}

func testMultByMonomial(tc *testParams, t *testing.T) {

	r := tc.ringQ
	N := r.N()

	t.Run(testString("MultByMonomial", r), func(t *testing.T) {

		p0 := tc.uniformSampler.ReadNew()

		// X^N = -1
		p1 := r.NewPoly()
		r.MultByMonomial(p0, N, p1)
		r.Neg(p1, p1)
		require.True(t, p0.Equal(&p1))

		// X^i * X^j = X^(i+j), in place
		p2 := *p0.CopyNew()
		r.MultByMonomial(p2, 3, p2)
		r.MultByMonomial(p2, 2*N-1, p2)
		r.MultByMonomial(p0, 2, p1)
		require.True(t, p1.Equal(&p2))

		// X^-i
		r.MultByMonomial(p2, -2, p2)
		require.True(t, p0.Equal(&p2))

		// Agrees with the integer version on small coefficients
		coeffs := make([]int64, N)
		for j := range coeffs {
			coeffs[j] = int64(j) - int64(N/2)
		}
		r.SetCoefficientsInt64(coeffs, p1)
		r.MultByMonomial(p1, N+3, p1)
		MultByMonomialInt64(coeffs, N+3)
		r.SetCoefficientsInt64(coeffs, p2)
		require.True(t, p1.Equal(&p2))

		// Agrees with the product by the monomial
		if N <= 64 {
			mono := r.NewPoly()
			for i, s := range r.SubRings {
				mono.Coeffs[i][N-1] = s.Modulus - 1 // -X^(N-1)
			}
			for i, s := range r.SubRings {
				require.Equal(t, mulNegacyclic(p0.Coeffs[i], mono.Coeffs[i], s.Modulus), func() []uint64 {
					out := r.NewPoly()
					r.MultByMonomial(p0, 2*N-1, out)
					return out.Coeffs[i]
				}())
			}
		}
	})
}

func testSetCoefficients(tc *testParams, t *testing.T) {

	r := tc.ringQ
	N := r.N()

	t.Run(testString("SetCoefficients", r), func(t *testing.T) {

		coeffs := make([]int64, N)
		bigCoeffs := make([]*big.Int, N)
		for i := range coeffs {
			coeffs[i] = int64(i*i*1234567) - int64(N*N*617283)
			bigCoeffs[i] = big.NewInt(coeffs[i])
		}

		p0, p1 := r.NewPoly(), r.NewPoly()
		r.SetCoefficientsInt64(coeffs, p0)
		r.SetCoefficientsBigint(bigCoeffs, p1)
		require.True(t, p0.Equal(&p1))
		require.True(t, r.IsReduced(p0))

		for i, s := range r.SubRings {
			for j := range coeffs {
				require.Equal(t, coeffs[j], CenterMod(p0.Coeffs[i][j], s.Modulus))
			}
		}
	})
}

func testDivRoundByLastModulusBGV(tc *testParams, t *testing.T) {

	r := tc.ringQ
	N := r.N()
	level := r.Level()

	for _, T := range []uint64{65537, 256} {

		t.Run(testString(fmt.Sprintf("DivRoundByLastModulusBGV/T=%d", T), r), func(t *testing.T) {

			// Integer coefficients about q_L * 2^20 in absolute value.
			qL := new(big.Int).SetUint64(r.SubRings[level].Modulus)
			coeffs := make([]*big.Int, N)
			for i := range coeffs {
				coeffs[i] = new(big.Int).Mul(qL, big.NewInt(int64(i)<<14-int64(N)<<13))
				coeffs[i].Add(coeffs[i], big.NewInt(int64(i*7919)))
			}

			p0 := r.NewPoly()
			r.SetCoefficientsBigint(coeffs, p0)

			p1 := r.NewPoly()
			r.DivRoundByLastModulusBGV(p0, T, p1)

			q0 := r.SubRings[0].Modulus
			bigT := new(big.Int).SetUint64(T)

			for j := range coeffs {

				c := big.NewInt(CenterMod(p1.Coeffs[0][j], q0))

				// c * q_L = a mod T
				lhs := new(big.Int).Mul(c, qL)
				lhs.Mod(lhs, bigT)
				rhs := new(big.Int).Mod(coeffs[j], bigT)
				require.Zero(t, lhs.Cmp(rhs))

				// |c - a/q_L| <= T
				diff := new(big.Int).Mul(c, qL)
				diff.Sub(coeffs[j], diff)
				diff.Abs(diff)
				require.True(t, diff.Cmp(new(big.Int).Mul(qL, bigT)) <= 0)
			}

			// NTT variant agrees
			p0NTT, p1NTT := r.NewPoly(), r.NewPoly()
			r.NTT(p0, p0NTT)
			r.DivRoundByLastModulusBGVNTT(p0NTT, T, p1NTT)
			rLow := r.AtLevel(level - 1)
			rLow.INTT(p1NTT, p1NTT)
			require.True(t, rLow.Equal(p1, p1NTT))
		})
	}
}

func testExtendRNSDigit(tc *testParams, t *testing.T) {

	r := tc.ringQ

	t.Run(testString("ExtendRNSDigit", r), func(t *testing.T) {

		p0 := tc.uniformSampler.ReadNew()
		p0NTT := r.NewPoly()
		r.NTT(p0, p0NTT)

		for i := range r.SubRings {
			digit := r.NewPoly()
			r.ExtendRNSDigit(i, p0NTT, digit)
			r.INTT(digit, digit)
			for j, s := range r.SubRings {
				for k := range digit.Coeffs[j] {
					require.Equal(t, p0.Coeffs[i][k]%s.Modulus, digit.Coeffs[j][k])
				}
			}
		}
	})
}

func testMarshalBinary(tc *testParams, t *testing.T) {

	r := tc.ringQ

	t.Run(testString("MarshalBinary/Poly", r), func(t *testing.T) {
		p0 := tc.uniformSampler.ReadNew()

		data, err := p0.MarshalBinary()
		require.NoError(t, err)
		require.Len(t, data, p0.BinarySize())

		var p1 Poly
		require.NoError(t, p1.UnmarshalBinary(data))
		require.True(t, p0.Equal(&p1))

		require.Error(t, p1.UnmarshalBinary(data[:len(data)-1]))
	})
}

func testSamplers(t *testing.T) {

	prng, err := sampling.NewKeyedPRNG([]byte{'s'})
	require.NoError(t, err)

	samples := make([]int64, 1<<14)

	toFloat := func(v []int64) stats.Float64Data {
		f := make(stats.Float64Data, len(v))
		for i := range v {
			f[i] = float64(v[i])
		}
		return f
	}

	t.Run("Sampler/DiscreteGaussian", func(t *testing.T) {
		X := DiscreteGaussian{Sigma: 3.2, Bound: 19.2}
		s, err := NewSampler(prng, X)
		require.NoError(t, err)
		s.ReadInt64(samples)

		data := toFloat(samples)
		mean, err := data.Mean()
		require.NoError(t, err)
		std, err := data.StandardDeviation()
		require.NoError(t, err)
		hi, err := data.Max()
		require.NoError(t, err)
		lo, err := data.Min()
		require.NoError(t, err)

		require.InDelta(t, 0, mean, 0.2)
		require.InDelta(t, X.Sigma, std, 0.3)
		require.LessOrEqual(t, hi, 19.0)
		require.GreaterOrEqual(t, lo, -19.0)
	})

	t.Run("Sampler/Ternary", func(t *testing.T) {
		X := Ternary{P: 0.5}
		s, err := NewSampler(prng, X)
		require.NoError(t, err)
		s.ReadInt64(samples)

		var nonZero int
		for _, v := range samples {
			require.True(t, v >= -1 && v <= 1)
			if v != 0 {
				nonZero++
			}
		}

		mean, err := toFloat(samples).Mean()
		require.NoError(t, err)
		require.InDelta(t, 0, mean, 0.05)
		require.InDelta(t, X.P, float64(nonZero)/float64(len(samples)), 0.05)
	})

	t.Run("Sampler/Invalid", func(t *testing.T) {
		_, err := NewSampler(prng, Ternary{P: 2})
		require.Error(t, err)
		_, err = NewSampler(prng, DiscreteGaussian{Sigma: 3.2, Bound: 1})
		require.Error(t, err)
	})

	t.Run("Sampler/Int64Uniform", func(t *testing.T) {
		SampleInt64Uniform(prng, 5, samples)
		var seenMin, seenMax bool
		for _, v := range samples {
			require.True(t, v >= -5 && v <= 5)
			seenMin = seenMin || v == -5
			seenMax = seenMax || v == 5
		}
		require.True(t, seenMin && seenMax)
	})

	t.Run("Sampler/BigintUniform", func(t *testing.T) {
		bound := new(big.Int).Lsh(big.NewInt(1), 70)
		coeffs := make([]*big.Int, 256)
		SampleBigintUniform(prng, bound, coeffs)
		neg := new(big.Int).Neg(bound)
		for _, v := range coeffs {
			require.True(t, v.Cmp(neg) >= 0 && v.Cmp(bound) <= 0)
		}
	})
}

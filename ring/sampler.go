package ring

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"math/bits"

	"github.com/tuneinsight/bgvzk/utils/sampling"
)

// DistributionParameters is an interface for distribution
// parameters in the ring.
// There are two implementations of this interface:
//   - DiscreteGaussian for sampling polynomials with discretized
//     gaussian coefficient of given standard deviation and bound.
//   - Ternary for sampling polynomials with coefficients in [-1, 1].
type DistributionParameters interface {
	// Type returns a string representation of the distribution name.
	Type() string
	// Norm returns the largest absolute value a coefficient can take.
	Norm() int64
	mustBeDist()
}

// DiscreteGaussian represents the parameters of a
// discrete Gaussian distribution with standard
// deviation Sigma and bounds [-Bound, Bound].
type DiscreteGaussian struct {
	Sigma float64
	Bound float64
}

// Ternary represent the parameters of a distribution with coefficients
// in [-1, 0, 1], sampled with probabilities [0.5*P, 1-P, 0.5*P].
type Ternary struct {
	P float64
}

func (d DiscreteGaussian) Type() string {
	return "DiscreteGaussian"
}

func (d DiscreteGaussian) Norm() int64 {
	return int64(math.Floor(d.Bound))
}

func (d DiscreteGaussian) mustBeDist() {}

func (d Ternary) Type() string {
	return "Ternary"
}

func (d Ternary) Norm() int64 {
	return 1
}

func (d Ternary) mustBeDist() {}

// Sampler is an interface for random small-norm polynomial samplers.
// Samples are signed integers, to be lifted in a ring with
// [Ring.SetCoefficientsInt64] when needed.
type Sampler interface {
	ReadInt64(coeffs []int64)
}

// NewSampler instantiates a new Sampler for the given distribution parameters.
func NewSampler(prng sampling.PRNG, X DistributionParameters) (Sampler, error) {
	switch X := X.(type) {
	case DiscreteGaussian:
		if X.Sigma <= 0 || X.Bound < X.Sigma {
			return nil, fmt.Errorf("invalid DiscreteGaussian: Sigma=%f, Bound=%f", X.Sigma, X.Bound)
		}
		return &GaussianSampler{prng: prng, xe: X}, nil
	case Ternary:
		if X.P <= 0 || X.P > 1 {
			return nil, fmt.Errorf("invalid Ternary: P=%f must be in (0, 1]", X.P)
		}
		return &TernarySampler{prng: prng, p: X.P}, nil
	default:
		return nil, fmt.Errorf("invalid distribution: want ring.DiscreteGaussian or ring.Ternary but have %T", X)
	}
}

// readFloat64 returns a uniform float64 in [0, 1).
func readFloat64(prng sampling.PRNG) float64 {
	return float64(sampling.ReadUint64(prng)>>11) / (1 << 53)
}

// TernarySampler keeps the state of a polynomial sampler in the ternary distribution.
type TernarySampler struct {
	prng sampling.PRNG
	p    float64
}

// ReadInt64 populates coeffs with values in {-1, 0, 1}.
func (ts *TernarySampler) ReadInt64(coeffs []int64) {
	for i := range coeffs {
		switch u := readFloat64(ts.prng); {
		case u < ts.p/2:
			coeffs[i] = -1
		case u < ts.p:
			coeffs[i] = 1
		default:
			coeffs[i] = 0
		}
	}
}

// GaussianSampler keeps the state of a truncated Gaussian polynomial sampler.
type GaussianSampler struct {
	prng sampling.PRNG
	xe   DiscreteGaussian
}

// ReadInt64 populates coeffs with values sampled from the rounded
// Gaussian of standard deviation Sigma, truncated to [-Bound, Bound].
func (gs *GaussianSampler) ReadInt64(coeffs []int64) {

	bound := gs.xe.Norm()

	for i := 0; i < len(coeffs); {

		// Box-Muller: two independent normal samples per draw.
		u1 := 1 - readFloat64(gs.prng) // (0, 1]
		u2 := readFloat64(gs.prng)

		r := math.Sqrt(-2*math.Log(u1)) * gs.xe.Sigma
		for _, z := range [2]float64{r * math.Cos(2*math.Pi*u2), r * math.Sin(2*math.Pi*u2)} {
			if v := int64(math.Round(z)); v >= -bound && v <= bound && i < len(coeffs) {
				coeffs[i] = v
				i++
			}
		}
	}
}

// UniformSampler wraps a util.PRNG and represents the state of a sampler of uniform polynomials.
type UniformSampler struct {
	prng     sampling.PRNG
	baseRing *Ring
	buff     []byte
}

// NewUniformSampler creates a new instance of UniformSampler from a PRNG and ring definition.
func NewUniformSampler(prng sampling.PRNG, baseRing *Ring) *UniformSampler {
	return &UniformSampler{
		prng:     prng,
		baseRing: baseRing,
		buff:     make([]byte, baseRing.N()<<3),
	}
}

// Read generates a new polynomial with coefficients following a uniform distribution over [0, Qi-1].
// Polynomial is created at the max level.
func (u *UniformSampler) Read(pol Poly) {

	for i, s := range u.baseRing.SubRings[:u.baseRing.level+1] {

		q := s.Modulus
		mask := uint64(1)<<bits.Len64(q-1) - 1
		c := pol.Coeffs[i]

		if _, err := u.prng.Read(u.buff); err != nil {
			// Sanity check, this error should not happen.
			panic(err)
		}

		for j := range c {
			for v := binary.LittleEndian.Uint64(u.buff[j<<3:]) & mask; ; v = sampling.ReadUint64(u.prng) & mask {
				if v < q {
					c[j] = v
					break
				}
			}
		}
	}
}

// ReadNew generates a new polynomial with coefficients following a uniform distribution over [0, Qi-1].
func (u *UniformSampler) ReadNew() (pol Poly) {
	pol = u.baseRing.NewPoly()
	u.Read(pol)
	return
}

// SampleInt64Uniform populates coeffs with values uniformly distributed in [-bound, bound].
// bound must be in [0, 2^62).
func SampleInt64Uniform(prng sampling.PRNG, bound int64, coeffs []int64) {
	width := uint64(2*bound + 1)
	for i := range coeffs {
		coeffs[i] = int64(sampling.ReadUint64Below(prng, width)) - bound
	}
}

// SampleBigintUniform populates coeffs with values uniformly distributed in [-bound, bound].
func SampleBigintUniform(prng sampling.PRNG, bound *big.Int, coeffs []*big.Int) {
	width := new(big.Int).Lsh(bound, 1)
	width.Add(width, big.NewInt(1))
	for i := range coeffs {
		coeffs[i] = sampling.ReadInt(prng, width)
		coeffs[i].Sub(coeffs[i], bound)
	}
}

package bgv

import (
	"fmt"

	"github.com/tuneinsight/bgvzk/ring"
	"github.com/tuneinsight/bgvzk/utils/sampling"
)

// KeyGenerator is a structure that stores the elements required to create new keys.
// Each KeyGenerator draws from its own freshly seeded PRNG.
type KeyGenerator struct {
	params         Parameters
	prng           sampling.PRNG
	uniformSampler *ring.UniformSampler
	xsSampler      ring.Sampler
	xeSampler      ring.Sampler
	buff           []int64
}

// NewKeyGenerator creates a new KeyGenerator, from which the secret and public keys can be generated.
func NewKeyGenerator(params Parameters) (kgen *KeyGenerator, err error) {

	var prng *sampling.KeyedPRNG
	if prng, err = sampling.NewPRNG(); err != nil {
		return nil, fmt.Errorf("cannot NewKeyGenerator: %w", err)
	}

	kgen = &KeyGenerator{
		params:         params,
		prng:           prng,
		uniformSampler: ring.NewUniformSampler(prng, params.RingQ()),
		buff:           make([]int64, params.N()),
	}

	if kgen.xsSampler, err = ring.NewSampler(prng, params.Xs()); err != nil {
		return nil, fmt.Errorf("cannot NewKeyGenerator: %w", err)
	}

	if kgen.xeSampler, err = ring.NewSampler(prng, params.Xe()); err != nil {
		return nil, fmt.Errorf("cannot NewKeyGenerator: %w", err)
	}

	return
}

// GenSecretKeyNew generates a new SecretKey with a ternary distribution.
func (kgen KeyGenerator) GenSecretKeyNew() (sk *SecretKey) {
	sk = NewSecretKey(kgen.params)
	kgen.xsSampler.ReadInt64(kgen.buff)
	liftNTT(kgen.params.RingQ(), kgen.buff, sk.Value)
	return
}

// GenPublicKeyNew generates a new public key, with its relinearization material, from the provided SecretKey.
func (kgen KeyGenerator) GenPublicKeyNew(sk *SecretKey) (pk *PublicKey) {

	params := kgen.params
	rQ := params.RingQ()

	pk = NewPublicKey(params)

	kgen.genEncryptionOfZero(sk.Value, pk.Value[0], pk.Value[1])

	s2 := rQ.NewPoly()
	rQ.MulCoeffs(sk.Value, sk.Value, s2)

	for i, s := range rQ.SubRings {

		kgen.genEncryptionOfZero(sk.Value, pk.Rlk[i][0], pk.Rlk[i][1])

		// + g_i * s^2, g_i = 1 mod q_i and 0 mod q_j
		q := s.Modulus
		c, s2i := pk.Rlk[i][0].Coeffs[i], s2.Coeffs[i]
		for j := range c {
			c[j] = ring.AddMod(c[j], s2i[j], q)
		}
	}

	pk.KeyTag = sampling.ReadUint64(kgen.prng)

	return
}

// GenKeyPairNew generates a new SecretKey and a corresponding public key.
func (kgen KeyGenerator) GenKeyPairNew() (sk *SecretKey, pk *PublicKey) {
	sk = kgen.GenSecretKeyNew()
	return sk, kgen.GenPublicKeyNew(sk)
}

// genEncryptionOfZero sets (b, a) = (a*s + t*e, a) with a uniform and e sampled from Xe.
func (kgen KeyGenerator) genEncryptionOfZero(s, b, a ring.Poly) {

	rQ := kgen.params.RingQ()

	kgen.uniformSampler.Read(a)

	kgen.xeSampler.ReadInt64(kgen.buff)
	liftNTT(rQ, kgen.buff, b)
	rQ.MulScalar(b, kgen.params.T(), b)

	rQ.MulCoeffsThenAdd(a, s, b)
}

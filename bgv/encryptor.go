package bgv

import (
	"fmt"
	"math/big"

	"github.com/tuneinsight/bgvzk/ring"
	"github.com/tuneinsight/bgvzk/utils/sampling"
)

// Encryptor encrypts plaintexts under a public key with explicit encryption coins:
//
//	Enc(m; u, e0, e1) = (b*u + t*e0 + m, a*u + t*e1) with pk = (b, a).
//
// The encryption is linear in (m, u, e0, e1), which proofs of plaintext knowledge rely on.
type Encryptor struct {
	params Parameters
	pk     *PublicKey
}

// NewEncryptor creates a new Encryptor from the provided parameters and public key.
func NewEncryptor(params Parameters, pk *PublicKey) (*Encryptor, error) {
	if err := pk.checkParameters(params); err != nil {
		return nil, fmt.Errorf("cannot NewEncryptor: %w", err)
	}
	return &Encryptor{params: params, pk: pk}, nil
}

// Parameters returns the parameters of the encryptor.
func (enc Encryptor) Parameters() Parameters {
	return enc.params
}

// PublicKey returns the public key of the encryptor.
func (enc Encryptor) PublicKey() *PublicKey {
	return enc.pk
}

// EncryptWithCoins encrypts pt on ct with the provided coins, at the level of ct.
func (enc Encryptor) EncryptWithCoins(pt *Plaintext, coins *Coins, ct *Ciphertext) (err error) {

	if !enc.params.compatible(pt.params) {
		return fmt.Errorf("cannot EncryptWithCoins: %w: parameters do not match", ErrPreconditionViolation)
	}

	rQ := enc.params.RingQ().AtLevel(ct.Level())
	m := rQ.NewPoly()
	rQ.SetCoefficientsInt64(pt.Centered(), m)

	return enc.encrypt(m, coins, ct)
}

// EncryptIntegerWithCoins encrypts the integer polynomial m on ct with the provided coins,
// at the level of ct. len(m) must be at most N, missing coefficients are zero.
func (enc Encryptor) EncryptIntegerWithCoins(m []*big.Int, coins *Coins, ct *Ciphertext) (err error) {

	if len(m) > enc.params.N() {
		return fmt.Errorf("cannot EncryptIntegerWithCoins: %w: %d coefficients > N=%d", ErrPreconditionViolation, len(m), enc.params.N())
	}

	rQ := enc.params.RingQ().AtLevel(ct.Level())
	mQ := rQ.NewPoly()
	rQ.SetCoefficientsBigint(m, mQ)

	return enc.encrypt(mQ, coins, ct)
}

// EncryptZero encrypts zero on ct with coins drawn from a freshly seeded PRNG.
func (enc Encryptor) EncryptZero(ct *Ciphertext) (err error) {

	var prng sampling.PRNG
	if prng, err = sampling.NewPRNG(); err != nil {
		return fmt.Errorf("cannot EncryptZero: %w", err)
	}

	coins := NewCoins(enc.params)
	if err = coins.Sample(prng, enc.params); err != nil {
		return fmt.Errorf("cannot EncryptZero: %w", err)
	}

	rQ := enc.params.RingQ().AtLevel(ct.Level())

	return enc.encrypt(rQ.NewPoly(), coins, ct)
}

// EncryptNew encrypts pt on a newly allocated ciphertext at the maximum level,
// with coins drawn from a freshly seeded PRNG.
func (enc Encryptor) EncryptNew(pt *Plaintext) (ct *Ciphertext, err error) {

	var prng sampling.PRNG
	if prng, err = sampling.NewPRNG(); err != nil {
		return nil, fmt.Errorf("cannot EncryptNew: %w", err)
	}

	coins := NewCoins(enc.params)
	if err = coins.Sample(prng, enc.params); err != nil {
		return nil, fmt.Errorf("cannot EncryptNew: %w", err)
	}

	ct = NewCiphertext(enc.params, enc.params.MaxLevel())

	return ct, enc.EncryptWithCoins(pt, coins, ct)
}

// encrypt sets ct = Enc(m; coins), with m in the coefficient domain at the level of ct.
func (enc Encryptor) encrypt(m ring.Poly, coins *Coins, ct *Ciphertext) (err error) {

	if coins.N() != enc.params.N() {
		return fmt.Errorf("%w: coins size %d != N=%d", ErrPreconditionViolation, coins.N(), enc.params.N())
	}

	level := ct.Level()
	rQ := enc.params.RingQ().AtLevel(level)
	t := enc.params.T()

	u, e := rQ.NewPoly(), rQ.NewPoly()
	liftNTT(rQ, coins.U, u)

	// c0 = b*u + NTT(t*e0 + m)
	rQ.SetCoefficientsInt64(coins.E0, e)
	rQ.MulScalar(e, t, e)
	rQ.Add(e, m, e)
	rQ.NTT(e, e)
	rQ.MulCoeffs(enc.pk.Value[0], u, ct.C0)
	rQ.Add(ct.C0, e, ct.C0)

	// c1 = a*u + NTT(t*e1)
	liftNTT(rQ, coins.E1, e)
	rQ.MulScalar(e, t, e)
	rQ.MulCoeffs(enc.pk.Value[1], u, ct.C1)
	rQ.Add(ct.C1, e, ct.C1)

	ct.params = enc.params
	ct.KeyTag = enc.pk.KeyTag

	return
}

package zkpopk

import (
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/tuneinsight/bgvzk/bgv"
	"github.com/tuneinsight/bgvzk/ring"
	"github.com/tuneinsight/bgvzk/utils/buffer"
	"github.com/tuneinsight/bgvzk/utils/sampling"
)

// Prover encrypts batches of plaintexts and proves knowledge of their plaintexts and coins.
// A Prover holds no mutable state and can be used concurrently.
type Prover struct {
	params bgv.Parameters
	logger *zap.Logger
}

// NewProver creates a new Prover for the given parameters.
func NewProver(params bgv.Parameters, opts ...Option) *Prover {
	o := newOptions(opts)
	return &Prover{params: params, logger: o.logger}
}

// EncryptAndProve pads the batch of plaintexts with zero plaintexts up to the batch width U
// derived from sec, encrypts the U plaintexts under pk and proves knowledge of their plaintexts
// and coins. In diagonal mode all the plaintexts must be diagonal.
//
// It returns ErrEmptyBatch if the batch is empty and ErrWidthMismatch if it holds more than U
// plaintexts, before any encryption.
func (p Prover) EncryptAndProve(pk *bgv.PublicKey, plaintexts *bgv.PlaintextVector, sec int, diagonal bool) (batch *ProvenCiphertextBatch, err error) {

	params := p.params
	n := plaintexts.Size()

	var pp ProofParameters
	if pp, err = NewProofParameters(params, sec, n, diagonal); err != nil {
		return nil, fmt.Errorf("cannot EncryptAndProve: %w", err)
	}

	if !params.Equal(plaintexts.Parameters()) {
		return nil, fmt.Errorf("cannot EncryptAndProve: %w: parameters do not match", bgv.ErrPreconditionViolation)
	}

	if diagonal {
		for i, pt := range plaintexts.Value {
			if !pt.IsDiagonal() {
				return nil, fmt.Errorf("cannot EncryptAndProve: %w: plaintext %d is not diagonal", bgv.ErrPreconditionViolation, i)
			}
		}
	}

	padded := plaintexts.CopyNew()
	if err = padded.Resize(pp.U, params); err != nil {
		return nil, fmt.Errorf("cannot EncryptAndProve: %w", err)
	}

	var cts *bgv.CiphertextVector
	var coins []*bgv.Coins
	if cts, coins, err = EncryptWithRandomness(pk, padded); err != nil {
		return nil, fmt.Errorf("cannot EncryptAndProve: %w", err)
	}

	var y [][]*big.Int
	var s []*bgv.Coins
	var A *bgv.CiphertextVector
	if y, s, A, err = p.commit(pk, pp); err != nil {
		return nil, fmt.Errorf("cannot EncryptAndProve: %w", err)
	}

	var commitment []byte
	if commitment, err = writeCommitment(pp, pk.KeyTag, cts, A); err != nil {
		return nil, fmt.Errorf("cannot EncryptAndProve: %w", err)
	}

	var M challenge
	if M, err = deriveChallenge(params, pk, pp, commitment); err != nil {
		return nil, fmt.Errorf("cannot EncryptAndProve: %w", err)
	}

	var response []byte
	if response, err = p.respond(pp, M, padded, coins, y, s); err != nil {
		return nil, fmt.Errorf("cannot EncryptAndProve: %w", err)
	}

	p.logger.Debug("proved ciphertext batch",
		zap.Int("sec", sec),
		zap.Bool("diagonal", diagonal),
		zap.Int("n", n),
		zap.Int("U", pp.U),
		zap.Int("V", pp.V),
		zap.Int("commitment_bytes", len(commitment)),
		zap.Int("response_bytes", len(response)))

	return &ProvenCiphertextBatch{
		CommitmentTranscript: commitment,
		ResponseTranscript:   response,
		Ciphertexts:          cts,
	}, nil
}

// commit samples the V masks (y_k, s_k) and encrypts them as A_k = Enc(y_k; s_k).
func (p Prover) commit(pk *bgv.PublicKey, pp ProofParameters) (y [][]*big.Int, s []*bgv.Coins, A *bgv.CiphertextVector, err error) {

	params := p.params

	var enc *bgv.Encryptor
	if enc, err = bgv.NewEncryptor(params, pk); err != nil {
		return
	}

	var prng sampling.PRNG
	if prng, err = sampling.NewPRNG(); err != nil {
		return
	}

	y = make([][]*big.Int, pp.V)
	s = make([]*bgv.Coins, pp.V)
	A = bgv.NewCiphertextVector(params, pp.V)

	for k := 0; k < pp.V; k++ {

		y[k] = make([]*big.Int, pp.PlaintextCoefficients(params))
		ring.SampleBigintUniform(prng, pp.BPlain, y[k])

		s[k] = bgv.NewCoins(params)
		ring.SampleInt64Uniform(prng, pp.BU, s[k].U)
		ring.SampleInt64Uniform(prng, pp.BE, s[k].E0)
		ring.SampleInt64Uniform(prng, pp.BE, s[k].E1)

		if err = enc.EncryptIntegerWithCoins(y[k], s[k], A.Value[k]); err != nil {
			return
		}
	}

	return
}

// writeCommitment returns header ‖ C_0 ‖ ... ‖ C_{U-1} ‖ A_0 ‖ ... ‖ A_{V-1}.
func writeCommitment(pp ProofParameters, keyTag uint64, cts, A *bgv.CiphertextVector) (commitment []byte, err error) {

	size := headerSize
	for _, ct := range append(append([]*bgv.Ciphertext{}, cts.Value...), A.Value...) {
		size += ct.BinarySize()
	}

	buf := buffer.NewBufferSize(size)

	if err = newHeader(pp, keyTag).writeTo(buf); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	for _, v := range []*bgv.CiphertextVector{cts, A} {
		for _, ct := range v.Value {
			if _, err = ct.WriteTo(buf); err != nil {
				return nil, fmt.Errorf("bgv.Ciphertext.WriteTo: %w", err)
			}
		}
	}

	return buf.Bytes(), nil
}

// respond returns z_0 ‖ ... ‖ z_{V-1} ‖ t_0 ‖ ... ‖ t_{V-1}, with
// z_k = y_k + sum_j M_kj*m_j and t_k = s_k + sum_j M_kj*r_j over the integers.
// The masks y and s are overwritten.
func (p Prover) respond(pp ProofParameters, M challenge, plaintexts *bgv.PlaintextVector, coins []*bgv.Coins, y [][]*big.Int, s []*bgv.Coins) (response []byte, err error) {

	params := p.params
	nCoeffs := pp.PlaintextCoefficients(params)
	width := pp.ResponseWidth()

	m := make([][]int64, pp.U)
	for j, pt := range plaintexts.Value {
		m[j] = pt.Centered()
	}

	buf := buffer.NewBufferSize(pp.V * (nCoeffs*width + bgv.NewCoins(params).BinarySize()))

	shifted := make([]int64, params.N())
	scratch := bgv.NewCoins(params)
	zBytes := make([]byte, width)
	tmp := new(big.Int)

	for k := 0; k < pp.V; k++ {

		z, t := y[k], s[k]

		for j := 0; j < pp.U; j++ {

			if M[k][j] < 0 {
				continue
			}

			copy(shifted, m[j])
			ring.MultByMonomialInt64(shifted, M[k][j])
			for i := range z {
				z[i].Add(z[i], tmp.SetInt64(shifted[i]))
			}

			scratch.Copy(coins[j])
			scratch.MulByMonomial(M[k][j])
			t.Add(scratch)
		}

		for i := range z {
			putTwosComplement(z[i], zBytes)
			if _, err = buffer.Write(buf, zBytes); err != nil {
				return nil, fmt.Errorf("buffer.Write: %w", err)
			}
		}
	}

	for k := 0; k < pp.V; k++ {
		if _, err = s[k].WriteTo(buf); err != nil {
			return nil, fmt.Errorf("bgv.Coins.WriteTo: %w", err)
		}
	}

	return buf.Bytes(), nil
}

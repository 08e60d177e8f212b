package zkpopk

import (
	"fmt"
	"math/big"

	"go.uber.org/zap"

	"github.com/tuneinsight/bgvzk/bgv"
	"github.com/tuneinsight/bgvzk/utils/buffer"
)

// Verifier checks proofs of plaintext knowledge produced by a Prover.
// A Verifier holds no mutable state and can be used concurrently.
type Verifier struct {
	params bgv.Parameters
	logger *zap.Logger
}

// NewVerifier creates a new Verifier for the given parameters.
func NewVerifier(params bgv.Parameters, opts ...Option) *Verifier {
	o := newOptions(opts)
	return &Verifier{params: params, logger: o.logger}
}

// Verify checks the proof of batch against pk, for the security parameter sec and the mode diagonal,
// and returns the U certified ciphertexts decoded from the commitment transcript. The first
// NumReal of them carry the prover's plaintexts, the others encrypt zero.
//
// Any failure, including a malformed transcript, returns an error wrapping ErrVerificationFailed
// and no ciphertext. A prover that used other proof parameters is reported with ErrParameterMismatch.
func (v Verifier) Verify(batch *ProvenCiphertextBatch, pk *bgv.PublicKey, sec int, diagonal bool) (cts *bgv.CiphertextVector, err error) {

	if cts, err = v.verify(batch, pk, sec, diagonal); err != nil {
		err = fmt.Errorf("cannot Verify: %w: %w", ErrVerificationFailed, err)
		v.logger.Warn("rejected ciphertext batch",
			zap.Int("sec", sec),
			zap.Bool("diagonal", diagonal),
			zap.Error(err))
		return nil, err
	}

	v.logger.Debug("accepted ciphertext batch",
		zap.Int("sec", sec),
		zap.Bool("diagonal", diagonal),
		zap.Int("U", cts.Size()))

	return
}

func (v Verifier) verify(batch *ProvenCiphertextBatch, pk *bgv.PublicKey, sec int, diagonal bool) (cts *bgv.CiphertextVector, err error) {

	params := v.params

	if batch == nil {
		return nil, fmt.Errorf("nil batch")
	}

	var enc *bgv.Encryptor
	if enc, err = bgv.NewEncryptor(params, pk); err != nil {
		return nil, err
	}

	r := buffer.NewBuffer(batch.CommitmentTranscript)

	var h header
	if err = h.readFrom(r); err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	if h.Sec != uint64(sec) || h.Diagonal != diagonal {
		return nil, fmt.Errorf("%w: proof for sec=%d diagonal=%t, expected sec=%d diagonal=%t", ErrParameterMismatch, h.Sec, h.Diagonal, sec, diagonal)
	}

	if h.KeyTag != pk.KeyTag {
		return nil, fmt.Errorf("%w: proof for key tag %d, expected %d", ErrParameterMismatch, h.KeyTag, pk.KeyTag)
	}

	if h.NumReal > h.U {
		return nil, fmt.Errorf("%w: n=%d > U=%d", ErrParameterMismatch, h.NumReal, h.U)
	}

	var pp ProofParameters
	if pp, err = NewProofParameters(params, sec, int(h.NumReal), diagonal); err != nil {
		return nil, err
	}

	if h.U != uint64(pp.U) || h.V != uint64(pp.V) {
		return nil, fmt.Errorf("%w: proof for U=%d V=%d, expected U=%d V=%d", ErrParameterMismatch, h.U, h.V, pp.U, pp.V)
	}

	if cts, err = readCiphertexts(params, pk.KeyTag, r, pp.U); err != nil {
		return nil, fmt.Errorf("ciphertexts: %w", err)
	}

	var A *bgv.CiphertextVector
	if A, err = readCiphertexts(params, pk.KeyTag, r, pp.V); err != nil {
		return nil, fmt.Errorf("commitments: %w", err)
	}

	if r.Size() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes in commitment transcript", ErrMalformedBuffer, r.Size())
	}

	var M challenge
	if M, err = deriveChallenge(params, pk, pp, batch.CommitmentTranscript); err != nil {
		return nil, err
	}

	var z [][]*big.Int
	var t []*bgv.Coins
	if z, t, err = readResponse(params, pp, batch.ResponseTranscript); err != nil {
		return nil, fmt.Errorf("response: %w", err)
	}

	// Enc(z_k; t_k) = A_k + sum_j M_kj * C_j
	lhs := bgv.NewCiphertext(params, params.MaxLevel())
	for k := 0; k < pp.V; k++ {

		if err = enc.EncryptIntegerWithCoins(z[k], t[k], lhs); err != nil {
			return nil, err
		}

		rhs := A.Value[k]
		for j := 0; j < pp.U; j++ {
			if M[k][j] >= 0 {
				if err = bgv.MulByXiThenAdd(cts.Value[j], M[k][j], rhs); err != nil {
					return nil, err
				}
			}
		}

		if !lhs.Equal(rhs) {
			return nil, fmt.Errorf("commitment %d does not match its opening", k)
		}
	}

	return
}

// readCiphertexts reads count ciphertexts at the maximum level encrypted under the key keyTag.
func readCiphertexts(params bgv.Parameters, keyTag uint64, r buffer.Reader, count int) (cts *bgv.CiphertextVector, err error) {

	cts = bgv.NewCiphertextVector(params, count)

	for i, ct := range cts.Value {

		if _, err = ct.ReadFrom(r); err != nil {
			return nil, fmt.Errorf("ciphertext %d: %w", i, err)
		}

		if ct.Level() != params.MaxLevel() {
			return nil, fmt.Errorf("ciphertext %d: invalid level %d", i, ct.Level())
		}

		if ct.KeyTag != keyTag {
			return nil, fmt.Errorf("ciphertext %d: invalid key tag %d", i, ct.KeyTag)
		}
	}

	return
}

// readResponse reads the V plaintext openings and V coin openings and checks their norms.
func readResponse(params bgv.Parameters, pp ProofParameters, response []byte) (z [][]*big.Int, t []*bgv.Coins, err error) {

	r := buffer.NewBuffer(response)

	width := pp.ResponseWidth()
	zBytes := make([]byte, width)
	boundPlain := new(big.Int).Lsh(pp.BPlain, 1)

	z = make([][]*big.Int, pp.V)
	for k := range z {
		z[k] = make([]*big.Int, pp.PlaintextCoefficients(params))
		for i := range z[k] {

			if _, err = buffer.Read(r, zBytes); err != nil {
				return nil, nil, fmt.Errorf("%w: buffer.Read: %w", ErrMalformedBuffer, err)
			}

			z[k][i] = getTwosComplement(zBytes)

			if new(big.Int).Abs(z[k][i]).Cmp(boundPlain) > 0 {
				return nil, nil, fmt.Errorf("plaintext opening %d exceeds the norm bound", k)
			}
		}
	}

	t = make([]*bgv.Coins, pp.V)
	for k := range t {

		t[k] = new(bgv.Coins)
		if _, err = t[k].ReadFrom(r); err != nil {
			return nil, nil, fmt.Errorf("coins opening %d: %w", k, err)
		}

		if t[k].N() != params.N() {
			return nil, nil, fmt.Errorf("%w: coins opening %d has size %d", ErrMalformedBuffer, k, t[k].N())
		}

		if normU, normE := t[k].Norms(); normU > 2*pp.BU || normE > 2*pp.BE {
			return nil, nil, fmt.Errorf("coins opening %d exceeds the norm bound", k)
		}
	}

	if r.Size() != 0 {
		return nil, nil, fmt.Errorf("%w: %d trailing bytes in response transcript", ErrMalformedBuffer, r.Size())
	}

	return
}

package zkpopk

import (
	"fmt"
	"math/big"

	"github.com/zeebo/blake3"

	"github.com/tuneinsight/bgvzk/bgv"
	"github.com/tuneinsight/bgvzk/utils/buffer"
	"github.com/tuneinsight/bgvzk/utils/sampling"
)

// challengeDomain separates the proof challenges from any other use of the hash.
const challengeDomain = "bgvzk/zkpopk/challenge/v1"

// seedSize is the size in bytes of the key of the challenge PRNG.
const seedSize = 32

// headerSize is the size in bytes of the header of a commitment transcript.
const headerSize = 5*8 + 1

// header opens the commitment transcript and binds the proof sizing and the key.
type header struct {
	Sec      uint64
	NumReal  uint64
	U        uint64
	V        uint64
	Diagonal bool
	KeyTag   uint64
}

func newHeader(pp ProofParameters, keyTag uint64) header {
	return header{
		Sec:      uint64(pp.Sec),
		NumReal:  uint64(pp.NumReal),
		U:        uint64(pp.U),
		V:        uint64(pp.V),
		Diagonal: pp.Diagonal,
		KeyTag:   keyTag,
	}
}

func (h header) writeTo(w buffer.Writer) (err error) {

	for _, v := range []uint64{h.Sec, h.NumReal, h.U, h.V} {
		if _, err = buffer.WriteUint64(w, v); err != nil {
			return fmt.Errorf("buffer.WriteUint64: %w", err)
		}
	}

	var diagonal uint8
	if h.Diagonal {
		diagonal = 1
	}

	if _, err = buffer.WriteUint8(w, diagonal); err != nil {
		return fmt.Errorf("buffer.WriteUint8: %w", err)
	}

	if _, err = buffer.WriteUint64(w, h.KeyTag); err != nil {
		return fmt.Errorf("buffer.WriteUint64: %w", err)
	}

	return
}

func (h *header) readFrom(r buffer.Reader) (err error) {

	for _, v := range []*uint64{&h.Sec, &h.NumReal, &h.U, &h.V} {
		if _, err = buffer.ReadUint64(r, v); err != nil {
			return fmt.Errorf("%w: buffer.ReadUint64: %w", ErrMalformedBuffer, err)
		}
	}

	var diagonal uint8
	if _, err = buffer.ReadUint8(r, &diagonal); err != nil {
		return fmt.Errorf("%w: buffer.ReadUint8: %w", ErrMalformedBuffer, err)
	}

	switch diagonal {
	case 0, 1:
		h.Diagonal = diagonal == 1
	default:
		return fmt.Errorf("%w: invalid diagonal flag %d", ErrMalformedBuffer, diagonal)
	}

	if _, err = buffer.ReadUint64(r, &h.KeyTag); err != nil {
		return fmt.Errorf("%w: buffer.ReadUint64: %w", ErrMalformedBuffer, err)
	}

	return
}

// challenge is the V×U challenge matrix. An entry is -1 for the zero challenge
// and otherwise the exponent k in [0, 2N) of the challenge X^k, with X^(N+i) = -X^i.
type challenge [][]int

// deriveChallenge hashes the parameters, the public key and the commitment transcript
// with blake3, and expands the digest into the challenge matrix with a keyed PRNG.
func deriveChallenge(params bgv.Parameters, pk *bgv.PublicKey, pp ProofParameters, commitment []byte) (M challenge, err error) {

	hasher := blake3.New()

	if _, err = hasher.Write([]byte(challengeDomain)); err != nil {
		return nil, fmt.Errorf("blake3.Hasher.Write: %w", err)
	}

	var data []byte
	if data, err = params.MarshalBinary(); err != nil {
		return nil, fmt.Errorf("bgv.Parameters.MarshalBinary: %w", err)
	}

	if _, err = hasher.Write(data); err != nil {
		return nil, fmt.Errorf("blake3.Hasher.Write: %w", err)
	}

	if _, err = pk.WriteTo(hasher); err != nil {
		return nil, fmt.Errorf("bgv.PublicKey.WriteTo: %w", err)
	}

	if _, err = hasher.Write(commitment); err != nil {
		return nil, fmt.Errorf("blake3.Hasher.Write: %w", err)
	}

	var prng *sampling.KeyedPRNG
	if prng, err = sampling.NewKeyedPRNG(hasher.Sum(nil)[:seedSize]); err != nil {
		return nil, fmt.Errorf("sampling.NewKeyedPRNG: %w", err)
	}

	twoN := uint64(2 * params.N())

	M = make(challenge, pp.V)
	for k := range M {
		M[k] = make([]int, pp.U)
		for j := range M[k] {
			if pp.Diagonal {
				// {0, 1}
				M[k][j] = int(sampling.ReadUint64Below(prng, 2)) - 1
			} else {
				// {0, X^0, ..., X^(2N-1)}
				M[k][j] = int(sampling.ReadUint64Below(prng, twoN+1)) - 1
			}
		}
	}

	return
}

// putTwosComplement writes x on buf as a big-endian two's complement integer of len(buf) bytes.
// x must fit.
func putTwosComplement(x *big.Int, buf []byte) {
	if x.Sign() >= 0 {
		x.FillBytes(buf)
		return
	}
	v := new(big.Int).Lsh(big.NewInt(1), uint(len(buf))<<3)
	v.Add(v, x)
	v.FillBytes(buf)
}

// getTwosComplement reads a big-endian two's complement integer from buf.
func getTwosComplement(buf []byte) (x *big.Int) {
	x = new(big.Int).SetBytes(buf)
	if len(buf) != 0 && buf[0]&0x80 != 0 {
		x.Sub(x, new(big.Int).Lsh(big.NewInt(1), uint(len(buf))<<3))
	}
	return
}

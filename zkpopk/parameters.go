// Package zkpopk implements a batched, non-interactive zero-knowledge proof of plaintext
// knowledge for BGV ciphertexts. The prover shows that it knows, for each ciphertext of a
// batch, a plaintext of bounded norm and encryption coins of bounded norm that produce it.
//
// The protocol is a Fiat-Shamir transformed sigma protocol, amortized over U ciphertexts
// with V commitments:
//
//	commit:   A_k = Enc(y_k; s_k) for k < V, with y_k and s_k uniform masks
//	challenge: M in {0, ±X^i}^{V×U} (or {0, 1}^{V×U} in diagonal mode) from the hash of the commitment
//	respond:  z_k = y_k + sum_j M_kj*m_j, t_k = s_k + sum_j M_kj*r_j
//	verify:   Enc(z_k; t_k) = A_k + sum_j M_kj*C_j, with z_k and t_k of bounded norm
package zkpopk

import (
	"fmt"
	"math"
	"math/big"
	"math/bits"

	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"

	"github.com/tuneinsight/bgvzk/bgv"
)

// Slack is the statistical zero-knowledge parameter: the masks are 2^Slack
// times larger than the values they hide.
const Slack = 40

// maxBoundBits is the largest size of an int64 bound, such that twice the bound
// plus the largest challenge-weighted sum still fits in an int64.
const maxBoundBits = 61

// ProofParameters is the sizing of one proof instance.
// Two parties must agree on it for a proof to verify.
type ProofParameters struct {
	// Sec is the soundness security parameter, in bits.
	Sec int
	// NumReal is the number of plaintexts provided by the caller.
	NumReal int
	// U is the number of proven ciphertexts, the NumReal first ones carry the caller's plaintexts.
	U int
	// V is the number of commitments.
	V int
	// Diagonal is true if the plaintexts are constant polynomials and challenges are binary.
	Diagonal bool
	// Slack is the statistical zero-knowledge parameter.
	Slack int
	// BPlain bounds the plaintext masks; responses are accepted up to 2*BPlain.
	BPlain *big.Int
	// BU and BE bound the masks of the ephemeral secret and of the errors;
	// responses are accepted up to 2*BU and 2*BE.
	BU, BE int64
}

// NewProofParameters derives the proof sizing for n plaintexts encrypted under params, with
// a soundness error of 2^-sec.
//
// In the default mode challenges are drawn from the 2N+1 values {0, ±X^i}, and
// V = ceil((sec+2)/log2(2N+1)). In diagonal mode challenges are binary and V = sec+2.
// In both modes U = 2V.
//
// It returns ErrEmptyBatch if n = 0, ErrWidthMismatch if U < n and ErrInvalidParameters
// if sec is not positive or if the bounds do not fit in an int64.
func NewProofParameters(params bgv.Parameters, sec, n int, diagonal bool) (pp ProofParameters, err error) {

	if n <= 0 {
		return ProofParameters{}, fmt.Errorf("cannot NewProofParameters: %w", ErrEmptyBatch)
	}

	if sec <= 0 {
		return ProofParameters{}, fmt.Errorf("cannot NewProofParameters: %w: sec=%d", ErrInvalidParameters, sec)
	}

	var V int
	if diagonal {
		V = sec + 2
	} else {
		V = int(math.Ceil(float64(sec+2) / math.Log2(float64(2*params.N()+1))))
	}

	U := 2 * V

	if U < n {
		return ProofParameters{}, fmt.Errorf("cannot NewProofParameters: %w: U=%d < n=%d", ErrWidthMismatch, U, n)
	}

	pp = ProofParameters{
		Sec:      sec,
		NumReal:  n,
		U:        U,
		V:        V,
		Diagonal: diagonal,
		Slack:    Slack,
	}

	pp.BPlain = new(big.Int).SetUint64(params.HalfT())
	pp.BPlain.Mul(pp.BPlain, big.NewInt(int64(U)))
	pp.BPlain.Lsh(pp.BPlain, Slack)

	if pp.BU, err = int64Bound(U, 1); err != nil {
		return ProofParameters{}, fmt.Errorf("cannot NewProofParameters: %w", err)
	}

	if pp.BE, err = int64Bound(U, params.Xe().Norm()); err != nil {
		return ProofParameters{}, fmt.Errorf("cannot NewProofParameters: %w", err)
	}

	return
}

// int64Bound returns 2^Slack * U * norm.
func int64Bound(U int, norm int64) (int64, error) {
	if bits.Len64(uint64(U))+bits.Len64(uint64(norm))+Slack > maxBoundBits {
		return 0, fmt.Errorf("%w: bound 2^%d * %d * %d overflows", ErrInvalidParameters, Slack, U, norm)
	}
	return int64(U) * norm << Slack, nil
}

// PlaintextCoefficients returns the number of coefficients of a plaintext response.
func (pp ProofParameters) PlaintextCoefficients(params bgv.Parameters) int {
	if pp.Diagonal {
		return 1
	}
	return params.N()
}

// ResponseWidth returns the size in bytes of the two's complement encoding of a
// plaintext response coefficient, large enough for any value of absolute value at most 2*BPlain.
func (pp ProofParameters) ResponseWidth() int {
	return (pp.BPlain.BitLen() + 1 + 1 + 7) >> 3
}

// Equal returns true if both proof parameters are identical.
func (pp ProofParameters) Equal(other ProofParameters) bool {
	return pp.Sec == other.Sec &&
		pp.NumReal == other.NumReal &&
		pp.U == other.U &&
		pp.V == other.V &&
		pp.Diagonal == other.Diagonal &&
		pp.Slack == other.Slack &&
		pp.BU == other.BU &&
		pp.BE == other.BE &&
		(pp.BPlain == other.BPlain || (pp.BPlain != nil && other.BPlain != nil && pp.BPlain.Cmp(other.BPlain) == 0))
}

// MarshalJSON supports json.Marshaler interface.
func (pp ProofParameters) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	pp.MarshalEasyJSON(&w)
	return w.Buffer.BuildBytes(), w.Error
}

// MarshalEasyJSON supports easyjson.Marshaler interface.
func (pp ProofParameters) MarshalEasyJSON(out *jwriter.Writer) {
	out.RawByte('{')
	out.RawString(`"sec":`)
	out.Int(pp.Sec)
	out.RawString(`,"n":`)
	out.Int(pp.NumReal)
	out.RawString(`,"U":`)
	out.Int(pp.U)
	out.RawString(`,"V":`)
	out.Int(pp.V)
	out.RawString(`,"diagonal":`)
	out.Bool(pp.Diagonal)
	out.RawString(`,"slack":`)
	out.Int(pp.Slack)
	out.RawString(`,"b_plain":`)
	if pp.BPlain == nil {
		out.RawString("null")
	} else {
		out.String(pp.BPlain.String())
	}
	out.RawString(`,"b_u":`)
	out.Int64(pp.BU)
	out.RawString(`,"b_e":`)
	out.Int64(pp.BE)
	out.RawByte('}')
}

// UnmarshalJSON supports json.Unmarshaler interface.
func (pp *ProofParameters) UnmarshalJSON(data []byte) error {
	r := jlexer.Lexer{Data: data}
	pp.UnmarshalEasyJSON(&r)
	return r.Error()
}

// UnmarshalEasyJSON supports easyjson.Unmarshaler interface.
func (pp *ProofParameters) UnmarshalEasyJSON(in *jlexer.Lexer) {
	isTopLevel := in.IsStart()
	if in.IsNull() {
		if isTopLevel {
			in.Consumed()
		}
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "sec":
			pp.Sec = in.Int()
		case "n":
			pp.NumReal = in.Int()
		case "U":
			pp.U = in.Int()
		case "V":
			pp.V = in.Int()
		case "diagonal":
			pp.Diagonal = in.Bool()
		case "slack":
			pp.Slack = in.Int()
		case "b_plain":
			s := in.String()
			if b, ok := new(big.Int).SetString(s, 10); ok {
				pp.BPlain = b
			} else {
				in.AddError(fmt.Errorf("invalid b_plain: %q", s))
			}
		case "b_u":
			pp.BU = in.Int64()
		case "b_e":
			pp.BE = in.Int64()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}
}

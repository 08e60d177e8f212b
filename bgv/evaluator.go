package bgv

import (
	"fmt"

	"github.com/tuneinsight/bgvzk/ring"
	"github.com/tuneinsight/bgvzk/utils"
)

// checkBinaryOperands returns ErrPreconditionViolation if op0 and op1 do not share
// the same parameters and key tag, and otherwise the level of the operation.
func checkBinaryOperands(op0, op1 *Ciphertext) (level int, err error) {

	if !op0.params.compatible(op1.params) {
		return 0, fmt.Errorf("%w: parameters do not match", ErrPreconditionViolation)
	}

	if op0.KeyTag != op1.KeyTag {
		return 0, fmt.Errorf("%w: key tag %d != %d", ErrPreconditionViolation, op0.KeyTag, op1.KeyTag)
	}

	return utils.Min(op0.Level(), op1.Level()), nil
}

// Add evaluates opOut = op0 + op1. The operands must share the same parameters
// and key tag. opOut is resized to the minimum level of the operands.
func Add(op0, op1, opOut *Ciphertext) (err error) {

	var level int
	if level, err = checkBinaryOperands(op0, op1); err != nil {
		return fmt.Errorf("cannot Add: %w", err)
	}

	rQ := op0.params.RingQ().AtLevel(level)

	opOut.Resize(level)
	rQ.Add(op0.C0, op1.C0, opOut.C0)
	rQ.Add(op0.C1, op1.C1, opOut.C1)
	opOut.params = op0.params
	opOut.KeyTag = op0.KeyTag

	return
}

// AddNew evaluates op0 + op1 on a newly allocated ciphertext.
func AddNew(op0, op1 *Ciphertext) (opOut *Ciphertext, err error) {
	opOut = NewCiphertext(op0.params, utils.Min(op0.Level(), op1.Level()))
	return opOut, Add(op0, op1, opOut)
}

// Sub evaluates opOut = op0 - op1. The operands must share the same parameters
// and key tag. opOut is resized to the minimum level of the operands.
func Sub(op0, op1, opOut *Ciphertext) (err error) {

	var level int
	if level, err = checkBinaryOperands(op0, op1); err != nil {
		return fmt.Errorf("cannot Sub: %w", err)
	}

	rQ := op0.params.RingQ().AtLevel(level)

	opOut.Resize(level)
	rQ.Sub(op0.C0, op1.C0, opOut.C0)
	rQ.Sub(op0.C1, op1.C1, opOut.C1)
	opOut.params = op0.params
	opOut.KeyTag = op0.KeyTag

	return
}

// MulPlaintext evaluates opOut = op0 * pt, where pt is lifted with centered coefficients.
// Both components are multiplied, which multiplies the decrypted plaintext by pt.
func MulPlaintext(op0 *Ciphertext, pt *Plaintext, opOut *Ciphertext) (err error) {

	if !op0.params.compatible(pt.params) {
		return fmt.Errorf("cannot MulPlaintext: %w: parameters do not match", ErrPreconditionViolation)
	}

	level := op0.Level()
	rQ := op0.params.RingQ().AtLevel(level)

	m := rQ.NewPoly()
	liftNTT(rQ, pt.Centered(), m)

	opOut.Resize(level)
	rQ.MulCoeffs(op0.C0, m, opOut.C0)
	rQ.MulCoeffs(op0.C1, m, opOut.C1)
	opOut.params = op0.params
	opOut.KeyTag = op0.KeyTag

	return
}

// Mul evaluates opOut = op0 * op1 and relinearizes the degree two result with the
// relinearization material of pk. The operands and pk must share the same key tag.
// opOut is resized to the minimum level of the operands.
func Mul(op0, op1 *Ciphertext, pk *PublicKey, opOut *Ciphertext) (err error) {

	var level int
	if level, err = checkBinaryOperands(op0, op1); err != nil {
		return fmt.Errorf("cannot Mul: %w", err)
	}

	if pk.KeyTag != op0.KeyTag {
		return fmt.Errorf("cannot Mul: %w: key tag %d != %d", ErrPreconditionViolation, pk.KeyTag, op0.KeyTag)
	}

	if len(pk.Rlk) <= level {
		return fmt.Errorf("cannot Mul: %w: missing relinearization key", ErrPreconditionViolation)
	}

	rQ := op0.params.RingQ().AtLevel(level)

	// (d0, d1, d2) = (a0*b0, a0*b1 + a1*b0, a1*b1)
	d0, d1, d2 := rQ.NewPoly(), rQ.NewPoly(), rQ.NewPoly()
	rQ.MulCoeffs(op0.C0, op1.C0, d0)
	rQ.MulCoeffs(op0.C0, op1.C1, d1)
	rQ.MulCoeffsThenAdd(op0.C1, op1.C0, d1)
	rQ.MulCoeffs(op0.C1, op1.C1, d2)

	// (d0, d1) += sum_i [d2]_{q_i} * Rlk[i]
	digit := rQ.NewPoly()
	for i := 0; i <= level; i++ {
		rQ.ExtendRNSDigit(i, d2, digit)
		rQ.MulCoeffsThenAdd(digit, pk.Rlk[i][0], d0)
		rQ.MulCoeffsThenAdd(digit, pk.Rlk[i][1], d1)
	}

	opOut.Resize(level)
	opOut.C0.Copy(d0)
	opOut.C1.Copy(d1)
	opOut.params = op0.params
	opOut.KeyTag = op0.KeyTag

	return
}

// MulNew evaluates op0 * op1 on a newly allocated ciphertext, see [Mul].
func MulNew(op0, op1 *Ciphertext, pk *PublicKey) (opOut *Ciphertext, err error) {
	opOut = NewCiphertext(op0.params, utils.Min(op0.Level(), op1.Level()))
	return opOut, Mul(op0, op1, pk, opOut)
}

// MulByXiThenAdd evaluates opOut = opOut + op0 * X^i. The operands must share the same
// parameters and key tag. opOut is resized to the minimum level of the operands.
func MulByXiThenAdd(op0 *Ciphertext, i int, opOut *Ciphertext) (err error) {

	var level int
	if level, err = checkBinaryOperands(op0, opOut); err != nil {
		return fmt.Errorf("cannot MulByXiThenAdd: %w", err)
	}

	opOut.Resize(level)

	rQ := opOut.params.RingQ().AtLevel(level)

	if i%(2*rQ.N()) == 0 {
		rQ.Add(opOut.C0, op0.C0, opOut.C0)
		rQ.Add(opOut.C1, op0.C1, opOut.C1)
		return
	}

	tmp := rQ.NewPoly()
	for _, c := range [][2]ring.Poly{{op0.C0, opOut.C0}, {op0.C1, opOut.C1}} {
		rQ.INTT(c[0], tmp)
		rQ.MultByMonomial(tmp, i, tmp)
		rQ.NTT(tmp, tmp)
		rQ.Add(c[1], tmp, c[1])
	}

	return
}

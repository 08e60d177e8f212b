// Package bignum implements arbitrary precision arithmetic helpers.
package bignum

import (
	"fmt"
	"math"
	"math/big"

	"github.com/ALTree/bigfloat"
)

// Precision is the default number of bits of precision used by the helpers of this package.
const Precision = 128

const ln2 = "0.6931471805599453094172321214581765680755001343602552541206800094933936219696947156058633269964186875"

// Ln2 returns ln(2) with prec bits of precision.
func Ln2(prec uint) *big.Float {
	v, _ := new(big.Float).SetPrec(prec).SetString(ln2)
	return v
}

// NewFloat creates a new big.Float element with "prec" bits of precision.
// Valide types for x are: int, int64, uint, uint64, float64, *big.Int or *big.Float.
func NewFloat(x interface{}, prec uint) (y *big.Float) {

	y = new(big.Float)
	y.SetPrec(prec)

	if x == nil {
		return
	}

	switch x := x.(type) {
	case int:
		y.SetInt64(int64(x))
	case int64:
		y.SetInt64(x)
	case uint:
		y.SetUint64(uint64(x))
	case uint64:
		y.SetUint64(x)
	case float64:
		y.SetFloat64(x)
	case *big.Int:
		y.SetInt(x)
	case *big.Float:
		y.Set(x)
	default:
		panic(fmt.Errorf("invalid x.(type): valide types are int, int64, uint, uint64, float64, *big.Int or *big.Float but is %T", x))
	}

	return
}

// Log returns the natural logarithm of x.
// x must be strictly positive.
func Log(x *big.Float) *big.Float {
	return bigfloat.Log(x)
}

// Log2 returns log2(x) rounded to a float64.
// Returns -Inf if x <= 0.
func Log2(x *big.Int) float64 {

	if x.Sign() <= 0 {
		return math.Inf(-1)
	}

	// Exact for powers of two and avoids the series evaluation.
	if bl := x.BitLen(); new(big.Int).Lsh(big.NewInt(1), uint(bl-1)).Cmp(x) == 0 {
		return float64(bl - 1)
	}

	y := Log(NewFloat(x, Precision))
	y.Quo(y, Ln2(Precision))
	f, _ := y.Float64()
	return f
}

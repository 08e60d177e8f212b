package ring

import (
	"math/bits"
)

// MulMod returns a*b mod q.
func MulMod(a, b, q uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	return bits.Rem64(hi, lo, q)
}

// AddMod returns a+b mod q for a, b in [0, q-1].
func AddMod(a, b, q uint64) uint64 {
	c := a + b
	if c >= q {
		c -= q
	}
	return c
}

// SubMod returns a-b mod q for a, b in [0, q-1].
func SubMod(a, b, q uint64) uint64 {
	if a >= b {
		return a - b
	}
	return a + q - b
}

// ModExp performs the modular exponentiation x^e mod p,
// x and p are required to be at most 64 bits to avoid an overflow.
func ModExp(x, e, p uint64) (result uint64) {
	result = 1
	x %= p
	for i := e; i > 0; i >>= 1 {
		if i&1 == 1 {
			result = MulMod(result, x, p)
		}
		x = MulMod(x, x, p)
	}
	return result
}

// ModInv returns x^-1 mod p for p prime.
func ModInv(x, p uint64) uint64 {
	return ModExp(x, p-2, p)
}

// ReduceInt64 returns x mod q in [0, q-1].
func ReduceInt64(x int64, q uint64) uint64 {
	if x >= 0 {
		return uint64(x) % q
	}
	// -(x+1) avoids overflowing on math.MinInt64
	r := (uint64(-(x + 1)) % q) + 1
	if r == q {
		return 0
	}
	return q - r
}

// CenterMod returns the representative of x mod q in (-q/2, q/2].
func CenterMod(x, q uint64) int64 {
	if x > q>>1 {
		return -int64(q - x)
	}
	return int64(x)
}

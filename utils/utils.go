// Package utils implements various helper functions.
package utils

import (
	"math/bits"

	"golang.org/x/exp/constraints"
)

// Min returns the minimum value of the two inputs.
func Min[V constraints.Ordered](a, b V) (r V) {
	if a <= b {
		return a
	}
	return b
}

// Max returns the maximum value of the two inputs.
func Max[V constraints.Ordered](a, b V) (r V) {
	if a >= b {
		return a
	}
	return b
}

// Abs returns |x|.
func Abs[V constraints.Signed](x V) V {
	if x < 0 {
		return -x
	}
	return x
}

// IsPowerOfTwo returns true if x is a power of two.
func IsPowerOfTwo[V constraints.Integer](x V) bool {
	return x > 0 && x&(x-1) == 0
}

// BitReverse64 returns the bit-reverse value of the input value, within a context of 2^bitLen.
func BitReverse64[V constraints.Integer](index V, bitLen int) uint64 {
	return bits.Reverse64(uint64(index)) >> (64 - bitLen)
}

// EqualSlice checks the equality between two slices of comparables.
func EqualSlice[V comparable](a, b []V) (v bool) {
	if len(a) != len(b) {
		return false
	}
	v = true
	for i := range a {
		v = v && (a[i] == b[i])
	}
	return
}

// Package sampling implements secure sampling of bytes and integers.
package sampling

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
)

// RandUint64 return a random value between 0 and 0xFFFFFFFFFFFFFFFF.
func RandUint64() uint64 {
	b := []byte{0, 0, 0, 0, 0, 0, 0, 0}
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return binary.LittleEndian.Uint64(b)
}

// ReadUint64 reads an uint64 from prng.
func ReadUint64(prng PRNG) uint64 {
	var b [8]byte
	if _, err := prng.Read(b[:]); err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}
	return binary.LittleEndian.Uint64(b[:])
}

// ReadUint64Below returns a uniform value in [0, max) read from prng, using rejection sampling.
// max must be non-zero.
func ReadUint64Below(prng PRNG, max uint64) uint64 {

	if max&(max-1) == 0 {
		return ReadUint64(prng) & (max - 1)
	}

	// largest multiple of max that fits on 64 bits
	bound := -max / max * max
	if bound == 0 {
		bound = max
	}

	for {
		if v := ReadUint64(prng); v < bound {
			return v % max
		}
	}
}

// ReadInt generates a uniform Int in [0, max-1] from prng.
func ReadInt(prng PRNG, max *big.Int) (n *big.Int) {
	var err error
	if n, err = rand.Int(prng, max); err != nil {
		// Sanity check, this error should not happen.
		panic(err)
	}
	return
}

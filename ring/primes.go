package ring

import (
	"fmt"
	"math/big"
	"math/bits"
)

// IsPrime applies the Baillie-PSW, which is 100% accurate for numbers bellow 2^64.
func IsPrime(x uint64) bool {
	return new(big.Int).SetUint64(x).ProbablyPrime(0)
}

// GenerateNTTPrimes generates n NthRoot NTT friendly primes of logQ bits,
// searching first downward then upward from 2^logQ.
func GenerateNTTPrimes(logQ, NthRoot, n int) (primes []uint64, err error) {

	if logQ > 61 || logQ < 2 {
		return nil, fmt.Errorf("invalid logQ: must be between 2 and 61 but is %d", logQ)
	}

	if NthRoot <= 0 || NthRoot&(NthRoot-1) != 0 {
		return nil, fmt.Errorf("invalid NthRoot: must be a power of two but is %d", NthRoot)
	}

	Qpow2 := uint64(1) << logQ
	step := uint64(NthRoot)

	primes = make([]uint64, 0, n)

	// downward: 2^logQ - k*NthRoot + 1, stays above 2^(logQ-1)
	for k := uint64(1); k*step < Qpow2>>1 && len(primes) < n; k++ {
		if q := Qpow2 + 1 - k*step; IsPrime(q) {
			primes = append(primes, q)
		}
	}

	// upward: 2^logQ + k*NthRoot + 1, stays below 2^(logQ+1)
	for q := Qpow2 + 1; len(primes) < n; q += step {

		if bits.Len64(q) > logQ+1 || bits.Len64(q) > 61 {
			return nil, fmt.Errorf("cannot GenerateNTTPrimes: not enough primes of %d bits congruent to 1 mod %d", logQ, NthRoot)
		}

		if IsPrime(q) {
			primes = append(primes, q)
		}
	}

	return
}

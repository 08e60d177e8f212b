package bignum

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLog2(t *testing.T) {

	t.Run("PowerOfTwo", func(t *testing.T) {
		require.Equal(t, 0.0, Log2(big.NewInt(1)))
		require.Equal(t, 100.0, Log2(new(big.Int).Lsh(big.NewInt(1), 100)))
	})

	t.Run("Generic", func(t *testing.T) {
		for _, v := range []int64{3, 65537, 1<<40 + 12345} {
			require.InDelta(t, math.Log2(float64(v)), Log2(big.NewInt(v)), 1e-9)
		}

		x, _ := new(big.Int).SetString("1267650600228229401496703205653", 10) // 2^100 + 277
		require.InDelta(t, 100.0, Log2(x), 1e-9)
	})

	t.Run("NonPositive", func(t *testing.T) {
		require.True(t, math.IsInf(Log2(big.NewInt(0)), -1))
	})
}

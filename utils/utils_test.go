package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUtils(t *testing.T) {

	t.Run("Min/Max", func(t *testing.T) {
		require.Equal(t, 3, Min(3, 7))
		require.Equal(t, uint64(7), Max(uint64(3), uint64(7)))
		require.Equal(t, int64(5), Abs(int64(-5)))
	})

	t.Run("IsPowerOfTwo", func(t *testing.T) {
		require.True(t, IsPowerOfTwo(1024))
		require.False(t, IsPowerOfTwo(0))
		require.False(t, IsPowerOfTwo(1023))
	})

	t.Run("BitReverse64", func(t *testing.T) {
		require.Equal(t, uint64(4), BitReverse64(1, 3))
		require.Equal(t, uint64(6), BitReverse64(3, 3))
		require.Equal(t, uint64(0), BitReverse64(0, 10))
	})

	t.Run("EqualSlice", func(t *testing.T) {
		require.True(t, EqualSlice([]uint64{1, 2, 3}, []uint64{1, 2, 3}))
		require.False(t, EqualSlice([]uint64{1, 2, 3}, []uint64{1, 2}))
		require.False(t, EqualSlice([]int64{1, 2, 3}, []int64{1, 2, 4}))
	})
}

package math

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddInt32_Saturates(t *testing.T) {
	t.Parallel()

	require.Equal(t, int32(math.MaxInt32), AddInt32(math.MaxInt32-1, 10))
	require.Equal(t, int32(30), AddInt32(10, 20))
}

func TestAddUint64_Saturates(t *testing.T) {
	t.Parallel()

	require.Equal(t, uint64(math.MaxUint64), AddUint64(math.MaxUint64-1, 10))
}

func TestSubUint64_SaturatesAtZero(t *testing.T) {
	t.Parallel()

	require.Equal(t, uint64(0), SubUint64(5, 10))
	require.Equal(t, uint64(3), SubUint64(8, 5))
}

func TestMulUint64_Saturates(t *testing.T) {
	t.Parallel()

	require.Equal(t, uint64(math.MaxUint64), MulUint64(math.MaxUint64, 2))
	require.Equal(t, uint64(0), MulUint64(0, 100))
	require.Equal(t, uint64(50), MulUint64(5, 10))
}

func TestAddUint64Checked(t *testing.T) {
	t.Parallel()

	sum, ok := AddUint64Checked(10, 20)
	require.True(t, ok)
	require.Equal(t, uint64(30), sum)

	_, ok = AddUint64Checked(math.MaxUint64, 1)
	require.False(t, ok)
}

func TestMulUint64Checked(t *testing.T) {
	t.Parallel()

	product, ok := MulUint64Checked(3, 7)
	require.True(t, ok)
	require.Equal(t, uint64(21), product)

	_, ok = MulUint64Checked(math.MaxUint64, 2)
	require.False(t, ok)
}

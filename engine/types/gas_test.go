package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGas_Add_Saturates(t *testing.T) {
	t.Parallel()

	g := Gas(math.MaxUint64 - 1)
	require.Equal(t, Gas(math.MaxUint64), g.Add(Gas(10)))
}

func TestGas_Sub_SaturatesAtZero(t *testing.T) {
	t.Parallel()

	g := Gas(5)
	require.Equal(t, Zero, g.Sub(Gas(10)))
	require.Equal(t, Gas(3), Gas(8).Sub(Gas(5)))
}

func TestGas_Value(t *testing.T) {
	t.Parallel()

	require.Equal(t, uint64(42), Gas(42).Value())
}

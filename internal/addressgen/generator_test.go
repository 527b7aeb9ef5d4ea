package addressgen

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerator_Deterministic(t *testing.T) {
	t.Parallel()

	txnHash := [32]byte{1, 2, 3}
	a := New(txnHash, 2)
	b := New(txnHash, 2)

	require.Equal(t, a.NewAddress(), b.NewAddress())
	require.Equal(t, a.NewAddress(), b.NewAddress())
}

func TestGenerator_DistinctPerCall(t *testing.T) {
	t.Parallel()

	g := New([32]byte{9}, 0)
	first := g.NewAddress()
	second := g.NewAddress()
	require.NotEqual(t, first, second)
	require.Equal(t, uint64(2), g.Counter())
}

func TestGenerator_PhaseChangesSeed(t *testing.T) {
	t.Parallel()

	txnHash := [32]byte{5, 5, 5}
	session := New(txnHash, 1)
	payment := New(txnHash, 2)

	require.NotEqual(t, session.NewAddress(), payment.NewAddress())
}

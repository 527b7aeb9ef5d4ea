package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEffects_AppendAndAppendAll_PreservesOrder(t *testing.T) {
	t.Parallel()

	parent := NewEffects()
	k1 := HashKey([32]byte{1})
	k2 := HashKey([32]byte{2})
	k3 := HashKey([32]byte{3})

	parent.Append(k1, Transform{Tag: TransformWrite})

	nested := NewEffects()
	nested.Append(k2, Transform{Tag: TransformAddInt, AddAmount: 5})

	parent.AppendAll(nested)
	parent.Append(k3, Transform{Tag: TransformPrune})

	entries := parent.Entries()
	require.Len(t, entries, 3)
	require.True(t, entries[0].Key.Equal(k1))
	require.True(t, entries[1].Key.Equal(k2))
	require.True(t, entries[2].Key.Equal(k3))
	require.Equal(t, TransformAddInt, entries[1].Transform.Tag)
}

func TestEffects_IsEmpty(t *testing.T) {
	t.Parallel()

	e := NewEffects()
	require.True(t, e.IsEmpty())
	e.Append(HashKey([32]byte{9}), Transform{Tag: TransformIdentity})
	require.False(t, e.IsEmpty())
	require.Equal(t, 1, e.Len())
}

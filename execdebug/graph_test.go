package execdebug

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casper-network/casper-execution-engine-go/engine/types"
)

func TestEffectsGraph_RendersTransfersAndEffects(t *testing.T) {
	t.Parallel()

	effects := types.NewEffects()
	effects.Append(types.HashKey([32]byte{1}), types.Transform{
		Tag:        types.TransformWrite,
		WriteValue: types.StoredValue{Tag: types.StoredCLValue, CLValue: &types.CLValue{Type: types.CLTypeU64, Bytes: []byte{1}}},
	})

	result := types.WasmV1Result{
		Effects: effects,
		Transfers: []types.Transfer{
			{From: [32]byte{2}, To: [32]byte{3}, Amount: 42},
		},
	}

	g, err := EffectsGraph(result)
	require.NoError(t, err)

	dot := g.String()
	require.Contains(t, dot, "addr_")
	require.Contains(t, dot, `"42"`)
	require.Contains(t, dot, "key_")
}

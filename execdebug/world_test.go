package execdebug

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casper-network/casper-execution-engine-go/engine/config"
	"github.com/casper-network/casper-execution-engine-go/engine/types"
)

func mustConfig(t *testing.T) *config.EngineConfig {
	t.Helper()
	cfg, err := config.New(config.DefaultGasScheduleMap(), true, config.RefundFull, config.FeePayToProposer, 10, "test")
	require.NoError(t, err)
	return cfg
}

func TestWorld_CreateAccount_IsReadable(t *testing.T) {
	t.Parallel()

	w := NewWorld(mustConfig(t))
	accountHash := [20]byte{1, 2, 3}
	w.CreateAccount(accountHash, 500)

	var accountAddr [32]byte
	copy(accountAddr[:], accountHash[:])

	sv, found, err := w.Read(types.AccountKey(accountAddr))
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, types.StoredAccount, sv.Tag)
	require.EqualValues(t, 1, sv.Account.ActionThresholds.Deployment)
}

func TestWorld_TrackingCopyAt_AlwaysFound(t *testing.T) {
	t.Parallel()

	w := NewWorld(mustConfig(t))
	reader, found, err := w.TrackingCopyAt(w.StateHash())
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, w, reader)
}

func TestWorld_Apply_WriteAndPrune(t *testing.T) {
	t.Parallel()

	w := NewWorld(mustConfig(t))
	key := types.HashKey([32]byte{9})

	effects := types.NewEffects()
	effects.Append(key, types.Transform{Tag: types.TransformWrite, WriteValue: types.StoredValue{Tag: types.StoredCLValue, CLValue: &types.CLValue{Type: types.CLTypeString, Bytes: []byte("hi")}}})
	w.Apply(effects)

	_, found, err := w.Read(key)
	require.NoError(t, err)
	require.True(t, found)

	pruned := types.NewEffects()
	pruned.Append(key, types.Transform{Tag: types.TransformPrune})
	w.Apply(pruned)

	_, found, err = w.Read(key)
	require.NoError(t, err)
	require.False(t, found)
}

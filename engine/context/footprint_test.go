package context

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casper-network/casper-execution-engine-go/engine/trackingcopy"
	"github.com/casper-network/casper-execution-engine-go/engine/types"
)

type mapReader struct {
	values map[types.Key]types.StoredValue
}

func (m mapReader) Read(key types.Key) (types.StoredValue, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func TestAuthorizedRuntimeFootprint_SufficientWeight(t *testing.T) {
	t.Parallel()

	accountHash := [20]byte{1}
	signer := [20]byte{2}

	acc := &types.Account{
		AssociatedKeys:   map[[20]byte]types.Weight{signer: 5},
		ActionThresholds: types.ActionThresholds{Deployment: 3},
		NamedKeys:        map[string]types.Key{},
	}

	key := types.AccountKey(accountHashToKey(accountHash))
	tc, err := trackingcopy.New(mapReader{values: map[types.Key]types.StoredValue{
		key: {Tag: types.StoredAccount, Account: acc},
	}})
	require.NoError(t, err)

	authKeys := map[[20]byte]struct{}{signer: {}}
	result, err := AuthorizedRuntimeFootprint(tc, accountHash, authKeys, nil)
	require.NoError(t, err)
	require.Equal(t, accountHashToKey(accountHash), result.EntityAddr)
}

func TestAuthorizedRuntimeFootprint_InsufficientWeight(t *testing.T) {
	t.Parallel()

	accountHash := [20]byte{3}
	signer := [20]byte{4}

	acc := &types.Account{
		AssociatedKeys:   map[[20]byte]types.Weight{signer: 1},
		ActionThresholds: types.ActionThresholds{Deployment: 5},
		NamedKeys:        map[string]types.Key{},
	}

	key := types.AccountKey(accountHashToKey(accountHash))
	tc, err := trackingcopy.New(mapReader{values: map[types.Key]types.StoredValue{
		key: {Tag: types.StoredAccount, Account: acc},
	}})
	require.NoError(t, err)

	authKeys := map[[20]byte]struct{}{signer: {}}
	_, err = AuthorizedRuntimeFootprint(tc, accountHash, authKeys, nil)
	require.Error(t, err)
}

func TestAuthorizedRuntimeFootprint_AdminBypassesWeightCheck(t *testing.T) {
	t.Parallel()

	accountHash := [20]byte{5}

	acc := &types.Account{
		AssociatedKeys:   map[[20]byte]types.Weight{},
		ActionThresholds: types.ActionThresholds{Deployment: 10},
		NamedKeys:        map[string]types.Key{},
	}

	key := types.AccountKey(accountHashToKey(accountHash))
	tc, err := trackingcopy.New(mapReader{values: map[types.Key]types.StoredValue{
		key: {Tag: types.StoredAccount, Account: acc},
	}})
	require.NoError(t, err)

	admins := map[[20]byte]struct{}{accountHash: {}}
	_, err = AuthorizedRuntimeFootprint(tc, accountHash, nil, admins)
	require.NoError(t, err)
}

func TestAuthorizedRuntimeFootprint_AccountNotFound(t *testing.T) {
	t.Parallel()

	tc, err := trackingcopy.New(mapReader{values: map[types.Key]types.StoredValue{}})
	require.NoError(t, err)

	_, err = AuthorizedRuntimeFootprint(tc, [20]byte{9}, nil, nil)
	require.Error(t, err)
}

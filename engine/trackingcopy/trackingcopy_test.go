package trackingcopy

import (
	"testing"

	"github.com/stretchr/testify/require"

	engerrors "github.com/casper-network/casper-execution-engine-go/engine/errors"
	"github.com/casper-network/casper-execution-engine-go/engine/types"
)

type stubReader struct {
	values map[types.Key]types.StoredValue
	reads  int
}

func (s *stubReader) Read(key types.Key) (types.StoredValue, bool, error) {
	s.reads++
	v, ok := s.values[key]
	return v, ok, nil
}

func strCL(s string) types.StoredValue {
	return types.StoredValue{Tag: types.StoredCLValue, CLValue: &types.CLValue{Type: types.CLTypeString, Bytes: []byte(s)}}
}

func TestTrackingCopy_ReadCachesAfterFirstMiss(t *testing.T) {
	t.Parallel()

	key := types.HashKey([32]byte{1})
	reader := &stubReader{values: map[types.Key]types.StoredValue{key: strCL("hello")}}
	tc, err := New(reader)
	require.NoError(t, err)

	_, found, err := tc.Read(key)
	require.NoError(t, err)
	require.True(t, found)

	_, found, err = tc.Read(key)
	require.NoError(t, err)
	require.True(t, found)

	require.Equal(t, 1, reader.reads)
}

func TestTrackingCopy_WriteShadowsReader(t *testing.T) {
	t.Parallel()

	key := types.HashKey([32]byte{2})
	reader := &stubReader{values: map[types.Key]types.StoredValue{key: strCL("old")}}
	tc, err := New(reader)
	require.NoError(t, err)

	tc.Write(key, strCL("new"))
	v, found, err := tc.Read(key)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "new", string(v.CLValue.Bytes))
	require.Equal(t, 1, tc.Effects().Len())
}

func TestTrackingCopy_PruneHidesValue(t *testing.T) {
	t.Parallel()

	key := types.HashKey([32]byte{3})
	reader := &stubReader{values: map[types.Key]types.StoredValue{key: strCL("x")}}
	tc, err := New(reader)
	require.NoError(t, err)

	tc.Prune(key)
	_, found, err := tc.Read(key)
	require.NoError(t, err)
	require.False(t, found)
}

func TestTrackingCopy_ForkAndMerge(t *testing.T) {
	t.Parallel()

	reader := &stubReader{values: map[types.Key]types.StoredValue{}}
	parent, err := New(reader)
	require.NoError(t, err)

	child := parent.Fork()
	key := types.HashKey([32]byte{4})
	child.Write(key, strCL("child-write"))

	_, found, _ := parent.Read(key)
	require.False(t, found, "parent must not see child writes before merge")

	parent.Merge(child)
	v, found, err := parent.Read(key)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "child-write", string(v.CLValue.Bytes))
	require.Equal(t, 1, parent.Effects().Len())
}

func TestTrackingCopy_GetEntityTypeMismatch(t *testing.T) {
	t.Parallel()

	key := types.AddressableEntityKey(types.EntityKindSmartContract, [32]byte{5})
	reader := &stubReader{values: map[types.Key]types.StoredValue{key: strCL("not-an-entity")}}
	tc, err := New(reader)
	require.NoError(t, err)

	_, err = tc.GetEntity(key)
	require.Error(t, err)
}

func TestTrackingCopy_Query_WalksNamedKeys(t *testing.T) {
	t.Parallel()

	accountKey := types.AccountKey([32]byte{6})
	purseKey := types.HashKey([32]byte{7})
	reader := &stubReader{values: map[types.Key]types.StoredValue{
		accountKey: {Tag: types.StoredAccount, Account: &types.Account{
			NamedKeys: map[string]types.Key{"my_purse": purseKey},
		}},
		purseKey: strCL("purse-contents"),
	}}
	tc, err := New(reader)
	require.NoError(t, err)

	v, err := tc.Query(accountKey, []string{"my_purse"})
	require.NoError(t, err)
	require.Equal(t, "purse-contents", string(v.CLValue.Bytes))
}

func TestTrackingCopy_Query_EmptyPathReadsBase(t *testing.T) {
	t.Parallel()

	key := types.HashKey([32]byte{8})
	reader := &stubReader{values: map[types.Key]types.StoredValue{key: strCL("direct")}}
	tc, err := New(reader)
	require.NoError(t, err)

	v, err := tc.Query(key, nil)
	require.NoError(t, err)
	require.Equal(t, "direct", string(v.CLValue.Bytes))
}

func TestTrackingCopy_Query_MissingSegmentIsValueNotFound(t *testing.T) {
	t.Parallel()

	accountKey := types.AccountKey([32]byte{9})
	reader := &stubReader{values: map[types.Key]types.StoredValue{
		accountKey: {Tag: types.StoredAccount, Account: &types.Account{NamedKeys: map[string]types.Key{}}},
	}}
	tc, err := New(reader)
	require.NoError(t, err)

	_, err = tc.Query(accountKey, []string{"nope"})
	require.Error(t, err)
	require.ErrorIs(t, err, engerrors.ErrValueNotFound)
}

func TestTrackingCopy_Query_BaseNotFound(t *testing.T) {
	t.Parallel()

	reader := &stubReader{values: map[types.Key]types.StoredValue{}}
	tc, err := New(reader)
	require.NoError(t, err)

	_, err = tc.Query(types.HashKey([32]byte{10}), []string{"x"})
	require.Error(t, err)
	require.ErrorIs(t, err, engerrors.ErrValueNotFound)
}

func TestTrackingCopy_Query_IntermediateHasNoNamedKeys(t *testing.T) {
	t.Parallel()

	key := types.HashKey([32]byte{11})
	reader := &stubReader{values: map[types.Key]types.StoredValue{key: strCL("leaf")}}
	tc, err := New(reader)
	require.NoError(t, err)

	_, err = tc.Query(key, []string{"deeper"})
	require.Error(t, err)
	require.ErrorIs(t, err, engerrors.ErrValueNotFound)
}

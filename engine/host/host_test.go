package host

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casper-network/casper-execution-engine-go/engine/config"
	"github.com/casper-network/casper-execution-engine-go/engine/trackingcopy"
	"github.com/casper-network/casper-execution-engine-go/engine/types"
	"github.com/casper-network/casper-execution-engine-go/engine/wasmengine"
)

type stubReader struct {
	values map[types.Key]types.StoredValue
}

func (s *stubReader) Read(key types.Key) (types.StoredValue, bool, error) {
	v, ok := s.values[key]
	return v, ok, nil
}

type stubStateProvider struct {
	reader trackingcopy.StateReader
	found  bool
	err    error
}

func (p *stubStateProvider) TrackingCopyAt([32]byte) (trackingcopy.StateReader, bool, error) {
	return p.reader, p.found, p.err
}

func mustEngineConfig(t *testing.T) *config.EngineConfig {
	t.Helper()
	cfg, err := config.New(config.DefaultGasScheduleMap(), true, config.RefundFull, config.FeePayToProposer, 10, "test")
	require.NoError(t, err)
	return cfg
}

func newEngine(t *testing.T) *Engine {
	t.Helper()
	return New(mustEngineConfig(t), wasmengine.NewEngine())
}

func baseRequest() types.WasmV1Request {
	return types.WasmV1Request{
		GasLimit:      types.Gas(1_000_000),
		InitiatorAddr: types.InitiatorAddr{AccountHash: [20]byte{1}},
		AuthorizationKeys: map[[20]byte]struct{}{
			{1}: {},
		},
	}
}

func TestEngine_Execute_RootNotFound(t *testing.T) {
	t.Parallel()

	e := newEngine(t)
	state := &stubStateProvider{found: false}

	result := e.Execute(state, baseRequest())

	require.True(t, result.RootNotFound)
	require.False(t, result.HasError)
}

func TestEngine_Execute_PreconditionFailureOnProviderError(t *testing.T) {
	t.Parallel()

	e := newEngine(t)
	state := &stubStateProvider{err: errors.New("storage unavailable")}

	result := e.Execute(state, baseRequest())

	require.True(t, result.HasError)
	require.Contains(t, result.ErrorMessage, "storage unavailable")
}

func TestEngine_Execute_PreconditionFailureWhenInitiatorAccountMissing(t *testing.T) {
	t.Parallel()

	e := newEngine(t)
	state := &stubStateProvider{reader: &stubReader{values: map[types.Key]types.StoredValue{}}, found: true}

	result := e.Execute(state, baseRequest())

	require.True(t, result.HasError)
	require.False(t, result.RootNotFound)
}

func accountReader(accountHash [20]byte) *stubReader {
	var addr [32]byte
	copy(addr[:], accountHash[:])
	return &stubReader{values: map[types.Key]types.StoredValue{
		types.AccountKey(addr): {
			Tag: types.StoredAccount,
			Account: &types.Account{
				MainPurse:      types.NewURef([32]byte{0xaa}, types.RightReadAddWrite),
				AssociatedKeys: map[[20]byte]types.Weight{accountHash: 1},
				NamedKeys:      map[string]types.Key{},
			},
		},
	}}
}

func TestEngine_Execute_PreconditionFailureWhenAmountMissing(t *testing.T) {
	t.Parallel()

	e := newEngine(t)
	state := &stubStateProvider{reader: accountReader([20]byte{1}), found: true}

	req := baseRequest()
	req.ExecutableItem = types.ExecutableItem{Tag: types.ExecutablePaymentBytes, ModuleBytes: []byte{0x00}}

	result := e.Execute(state, req)

	require.True(t, result.HasError)
	require.Contains(t, result.ErrorMessage, "missing spending_limit")
}

func TestLoadContractCode_NotFound(t *testing.T) {
	t.Parallel()

	reader := &stubReader{values: map[types.Key]types.StoredValue{}}
	tc, err := trackingcopy.New(reader)
	require.NoError(t, err)

	_, err = loadContractCode(tc, [32]byte{9})
	require.Error(t, err)
}

func TestLoadContractCode_WrongStoredValueTag(t *testing.T) {
	t.Parallel()

	entityHash := [32]byte{7}
	reader := &stubReader{values: map[types.Key]types.StoredValue{
		types.HashKey(entityHash): {Tag: types.StoredCLValue, CLValue: &types.CLValue{Type: types.CLTypeBytes, Bytes: []byte("not code")}},
	}}
	tc, err := trackingcopy.New(reader)
	require.NoError(t, err)

	_, err = loadContractCode(tc, entityHash)
	require.Error(t, err)
}

func TestLoadContractCode_Found(t *testing.T) {
	t.Parallel()

	entityHash := [32]byte{7}
	code := []byte{0x00, 0x61, 0x73, 0x6d}
	reader := &stubReader{values: map[types.Key]types.StoredValue{
		types.HashKey(entityHash): {Tag: types.StoredByteCode, ByteCode: code},
	}}
	tc, err := trackingcopy.New(reader)
	require.NoError(t, err)

	got, err := loadContractCode(tc, entityHash)
	require.NoError(t, err)
	require.Equal(t, code, got)
}

func TestLoadCalleeFootprint_MissingEntity(t *testing.T) {
	t.Parallel()

	reader := &stubReader{values: map[types.Key]types.StoredValue{}}
	tc, err := trackingcopy.New(reader)
	require.NoError(t, err)

	_, err = loadCalleeFootprint(tc, [32]byte{3})
	require.Error(t, err)
}

func TestEntityAddr20_TruncatesTo20Bytes(t *testing.T) {
	t.Parallel()

	var full [32]byte
	for i := range full {
		full[i] = byte(i)
	}

	got := entityAddr20(full)
	for i := 0; i < 20; i++ {
		require.Equal(t, byte(i), got[i])
	}
}

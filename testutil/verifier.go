package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casper-network/casper-execution-engine-go/engine/types"
)

// ResultVerifier is a fluent assertion helper over a WasmV1Result, the
// generalization of the teacher's VMOutputVerifier (testcommon/
// vmOutputVerifier.go) to this engine's result envelope: the teacher
// chains ReturnCode()/ReturnMessage()/GasUsed() assertions off one
// vmcommon.VMOutput, this chains Ok()/Err()/GasUsed()/ReturnValue() off
// one types.WasmV1Result.
type ResultVerifier struct {
	T      testing.TB
	Result types.WasmV1Result
}

// Verify wraps result for fluent assertions.
func Verify(t testing.TB, result types.WasmV1Result) *ResultVerifier {
	return &ResultVerifier{T: t, Result: result}
}

// Ok asserts the result carries neither an error nor a root-not-found
// signal.
func (v *ResultVerifier) Ok() *ResultVerifier {
	v.T.Helper()
	require.False(v.T, v.Result.RootNotFound, "expected root found, got RootNotFound")
	require.False(v.T, v.Result.HasError, "expected no error, got %q", v.Result.ErrorMessage)
	return v
}

// Err asserts the result carries an error whose message contains substr.
func (v *ResultVerifier) Err(substr string) *ResultVerifier {
	v.T.Helper()
	require.True(v.T, v.Result.HasError, "expected an error, got none")
	require.Contains(v.T, v.Result.ErrorMessage, substr)
	return v
}

// RootNotFound asserts the result is a RootNotFound precondition signal.
func (v *ResultVerifier) RootNotFound() *ResultVerifier {
	v.T.Helper()
	require.True(v.T, v.Result.RootNotFound)
	return v
}

// ReturnValue asserts the result's return payload equals expected.
func (v *ResultVerifier) ReturnValue(expected []byte) *ResultVerifier {
	v.T.Helper()
	require.Equal(v.T, expected, v.Result.ReturnValue)
	return v
}

// GasConsumed asserts the exact amount of gas the result reports spent.
func (v *ResultVerifier) GasConsumed(expected types.Gas) *ResultVerifier {
	v.T.Helper()
	require.Equal(v.T, expected, v.Result.Consumed)
	return v
}

// GasConsumedAtMost asserts the result spent no more than max gas.
func (v *ResultVerifier) GasConsumedAtMost(max types.Gas) *ResultVerifier {
	v.T.Helper()
	require.LessOrEqual(v.T, v.Result.Consumed.Value(), max.Value())
	return v
}

// TransferCount asserts the number of recorded transfers.
func (v *ResultVerifier) TransferCount(n int) *ResultVerifier {
	v.T.Helper()
	require.Len(v.T, v.Result.Transfers, n)
	return v
}

// MessageCount asserts the number of recorded messages.
func (v *ResultVerifier) MessageCount(n int) *ResultVerifier {
	v.T.Helper()
	require.Len(v.T, v.Result.Messages, n)
	return v
}

// Package hostfn implements the Host-Function Surface: the contract-visible
// ABI (spec.md §4.5). Every operation charges a fixed per-op gas cost
// (looked up from the engine's gas schedule by name) plus a byte-linear
// cost where applicable, validates its arguments, goes through the Runtime
// Context (never the snapshot directly), and maps any error to the
// engine's error taxonomy.
package hostfn

import (
	"unicode/utf8"

	"github.com/casper-network/casper-execution-engine-go/engine/config"
	engcontext "github.com/casper-network/casper-execution-engine-go/engine/context"
	engerrors "github.com/casper-network/casper-execution-engine-go/engine/errors"
	"github.com/casper-network/casper-execution-engine-go/engine/provider"
	"github.com/casper-network/casper-execution-engine-go/engine/types"
)

// host function names, keys into config.HostFunctionCosts.
const (
	opRead       = "read"
	opWrite      = "write"
	opRemove     = "remove"
	opPrint      = "print"
	opReturn     = "return"
	opCopyInput  = "copy_input"
	opEnvBalance = "env_balance"
	opEnvInfo    = "env_info"
	opTransfer   = "transfer"
	opEmit       = "emit"
	opCall       = "call"
	opCreate     = "create"
	opUpgrade    = "upgrade"
)

// CallResult is the outcome of a nested `call` host function.
type CallResult struct {
	Output []byte
	Code   uint32
}

// Invoker is the narrow capability `call`/`create`/`upgrade` need to
// dispatch into another contract or run a fresh/upgraded module; the
// concrete implementation lives in engine/host (the Executor), kept out
// of this package's import graph to avoid a cycle.
type Invoker interface {
	InvokeContract(rc *engcontext.RuntimeContext, entityAddr [32]byte, entryPoint string, value uint64, input []byte) (CallResult, error)
	InstallContract(rc *engcontext.RuntimeContext, code []byte, value uint64, ctorEntryPoint string, input []byte, seed []byte) ([32]byte, error)
	UpgradeContract(rc *engcontext.RuntimeContext, code []byte, entryPoint string, input []byte) error
}

// Surface is the bound set of host functions available to one executing
// call frame: a Runtime Context, the engine's priced gas schedule, the
// HandlePayment-capable provider for transfer/balance, and an Invoker for
// nested calls.
type Surface struct {
	RC      *engcontext.RuntimeContext
	Gas     config.GasCost
	Payment provider.HandlePayment
	Invoke  Invoker

	messageTopicCounts map[string]uint32
	messagesThisBlock  uint32
	returned           bool
	returnValue        []byte
}

// New builds a Surface bound to one call frame.
func New(rc *engcontext.RuntimeContext, gasCost config.GasCost, payment provider.HandlePayment, invoke Invoker) *Surface {
	return &Surface{RC: rc, Gas: gasCost, Payment: payment, Invoke: invoke, messageTopicCounts: map[string]uint32{}}
}

// chargeFixed debits the priced cost of a host function with no
// byte-linear component.
func (s *Surface) chargeFixed(op string) error {
	cost, _ := s.Gas.HostFunctionGas(op)
	return s.RC.ConsumeGas(cost)
}

// chargeLinear debits the priced cost of op plus one gas unit per byte in
// n, the size of whatever buffer the operation moves.
func (s *Surface) chargeLinear(op string, n int) error {
	cost, _ := s.Gas.HostFunctionGas(op)
	return s.RC.ConsumeGas(cost.Add(types.Gas(n)))
}

// Read implements the `read` host function: keyspace, key -> value bytes,
// NotFound mapped to ErrKeyNotFound.
func (s *Surface) Read(key types.Key) ([]byte, error) {
	if err := s.chargeFixed(opRead); err != nil {
		return nil, err
	}
	sv, found, err := s.RC.TrackingCopy.Read(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, engerrors.New(engerrors.KindStorage, engerrors.ErrKeyNotFound, "read %s", key.String())
	}
	if sv.Tag != types.StoredCLValue || sv.CLValue == nil {
		return nil, engerrors.New(engerrors.KindStorage, engerrors.ErrTypeMismatch, "read %s", key.String())
	}
	return sv.CLValue.Bytes, nil
}

// Write implements the `write` host function, metered by the byte length
// of value.
func (s *Surface) Write(key types.Key, value []byte) error {
	if err := s.checkWriteAccess(key); err != nil {
		return err
	}
	if err := s.chargeLinear(opWrite, len(value)); err != nil {
		return err
	}
	s.RC.TrackingCopy.Write(key, types.StoredValue{Tag: types.StoredCLValue, CLValue: &types.CLValue{Type: types.CLTypeBytes, Bytes: value}})
	return nil
}

// Remove implements the `remove` host function.
func (s *Surface) Remove(key types.Key) error {
	if err := s.checkWriteAccess(key); err != nil {
		return err
	}
	if err := s.chargeFixed(opRemove); err != nil {
		return err
	}
	s.RC.TrackingCopy.Prune(key)
	return nil
}

func (s *Surface) checkWriteAccess(key types.Key) error {
	if key.Tag != types.KeyTagURef && key.Tag != types.KeyTagBalance {
		return nil
	}
	if !s.RC.HasAccess(key.Addr, types.RightWrite) {
		return engerrors.New(engerrors.KindExecution, engerrors.ErrAccessRightsDenied, "write %s", key.String())
	}
	return nil
}

// Print implements the dev-only `print` host function.
func (s *Surface) Print(msg []byte) error {
	return s.chargeLinear(opPrint, len(msg))
}

// Return implements the `return` host function: it records the final
// return payload for the current call frame. Subsequent host calls in the
// same frame are a programming error the caller is expected to avoid by
// unwinding immediately, matching the spec's "unwinds stack with return
// payload" note.
func (s *Surface) Return(value []byte) error {
	if err := s.chargeFixed(opReturn); err != nil {
		return err
	}
	s.returned = true
	s.returnValue = value
	return nil
}

// Returned reports whether Return has been called in this frame, and the
// payload it recorded.
func (s *Surface) Returned() (bool, []byte) {
	return s.returned, s.returnValue
}

// CopyInput implements `copy_input`: returns the raw argument bytes
// supplied for the current invocation. Called once per invocation per the
// spec note; repeat calls simply return the same bytes again, since the
// underlying Args map is immutable for the lifetime of the frame.
func (s *Surface) CopyInput(argName string) ([]byte, error) {
	if err := s.chargeFixed(opCopyInput); err != nil {
		return nil, err
	}
	v, ok := s.RC.Args[argName]
	if !ok {
		return nil, engerrors.New(engerrors.KindExecution, engerrors.ErrArgIndexOutOfRange, "arg %q not supplied", argName)
	}
	return v.Bytes, nil
}

// EnvBalance implements `env_balance`: purse -> available balance.
func (s *Surface) EnvBalance(purse types.URef) (uint64, error) {
	if err := s.chargeFixed(opEnvBalance); err != nil {
		return 0, err
	}
	amount, found, err := s.Payment.AvailableBalance(purse)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, engerrors.New(engerrors.KindStorage, engerrors.ErrKeyNotFound, "purse %x", purse.Addr)
	}
	return amount, nil
}

// EnvInfo is the fixed-layout record `env_info` returns.
type EnvInfo struct {
	BlockTime        uint64
	TransferredValue uint64
	Caller           [20]byte
	Callee           [32]byte
}

// EnvInfo implements the `env_info` host function.
func (s *Surface) EnvInfo(transferredValue uint64) (EnvInfo, error) {
	if err := s.chargeFixed(opEnvInfo); err != nil {
		return EnvInfo{}, err
	}
	return EnvInfo{
		BlockTime:        s.RC.BlockInfo.BlockTime,
		TransferredValue: transferredValue,
		Caller:           s.RC.AccountHash,
		Callee:           s.RC.EntityAddr,
	}, nil
}

// Transfer implements the `transfer` host function, delegating to the
// mint provider, which captures the Transfer record. amount is capped by
// the Runtime Context's spending_limit (spec.md §8 "Transfer-limit": a
// transfer exceeding spending_limit is reverted as
// Mint::UnapprovedSpendingAmount rather than attempted).
func (s *Surface) Transfer(source types.URef, target [20]byte, amount uint64) error {
	if err := s.chargeFixed(opTransfer); err != nil {
		return err
	}
	if amount > s.RC.SpendingLimit {
		return engerrors.New(engerrors.KindExecution, engerrors.ErrMintUnapprovedSpendingAmount, "amount %d exceeds spending_limit %d", amount, s.RC.SpendingLimit)
	}
	return s.Payment.TransferPurseToAccount(source, target, amount)
}

// Emit implements the `emit` host function: topic, payload -> ok/err,
// enforcing the message limits from spec §5.4 (topic length, payload
// length, per-topic and per-block message caps).
func (s *Surface) Emit(topic string, payload []byte) error {
	if err := s.chargeLinear(opEmit, len(payload)); err != nil {
		return err
	}
	limits := s.Gas.Messages
	if !utf8.ValidString(topic) {
		return engerrors.New(engerrors.KindExecution, engerrors.ErrArgOutOfRange, "topic is not valid UTF-8")
	}
	if uint32(len(topic)) > limits.MaxTopicNameLength {
		return engerrors.New(engerrors.KindExecution, engerrors.ErrArgOutOfRange, "topic exceeds max length %d", limits.MaxTopicNameLength)
	}
	if uint32(len(payload)) > limits.MaxMessagePayloadSize {
		return engerrors.New(engerrors.KindExecution, engerrors.ErrArgOutOfRange, "payload exceeds max size %d", limits.MaxMessagePayloadSize)
	}
	if s.messagesThisBlock >= limits.MaxMessagesPerBlock {
		return engerrors.New(engerrors.KindExecution, engerrors.ErrArgOutOfRange, "max messages per block %d exceeded", limits.MaxMessagesPerBlock)
	}
	topicCount := s.messageTopicCounts[topic]
	if topicCount >= limits.MaxTopicsPerEntity {
		return engerrors.New(engerrors.KindExecution, engerrors.ErrArgOutOfRange, "max topics per entity %d exceeded", limits.MaxTopicsPerEntity)
	}

	index := topicCount
	s.messageTopicCounts[topic] = topicCount + 1
	s.messagesThisBlock++
	s.RC.Messages = append(s.RC.Messages, types.Message{Topic: topic, Index: index, Payload: payload})
	return nil
}

// Call implements the `call` host function: nested invocation, enforcing
// stack depth via the Runtime Context's bounded call stack (checked inside
// the Invoker implementation when it forks a child RuntimeContext).
func (s *Surface) Call(entityAddr [32]byte, entryPoint string, value uint64, input []byte) (CallResult, error) {
	if err := s.chargeFixed(opCall); err != nil {
		return CallResult{}, err
	}
	return s.Invoke.InvokeContract(s.RC, entityAddr, entryPoint, value, input)
}

// Create implements the `create` host function: stores code under a new
// address and runs an optional constructor. value is passed to the Invoker,
// whose InstallContract does not transfer it; no purse is created.
func (s *Surface) Create(code []byte, value uint64, ctorEntryPoint string, input []byte, seed []byte) ([32]byte, error) {
	if err := s.chargeFixed(opCreate); err != nil {
		return [32]byte{}, err
	}
	return s.Invoke.InstallContract(s.RC, code, value, ctorEntryPoint, input, seed)
}

// Upgrade implements the `upgrade` host function: only valid when the
// current execution kind allows install/upgrade.
func (s *Surface) Upgrade(code []byte, entryPoint string, input []byte) error {
	if s.RC.AllowInstallUpgrade != engcontext.InstallUpgradeAllowed {
		return engerrors.New(engerrors.KindExecution, engerrors.ErrUpgradeNotAllowed, "entity %x", s.RC.EntityAddr)
	}
	if err := s.chargeFixed(opUpgrade); err != nil {
		return err
	}
	return s.Invoke.UpgradeContract(s.RC, code, entryPoint, input)
}

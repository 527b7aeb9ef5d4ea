// Package context implements the Runtime Context: the per-call mutable
// state an executing contract sees — its Tracking Copy, its footprint
// (named keys, main purse, associated keys), its capability set, its gas
// counter, and the call stack it is one frame of (spec.md §4.3 "Runtime
// Context").
package context

import (
	"github.com/casper-network/casper-execution-engine-go/internal/addressgen"

	engerrors "github.com/casper-network/casper-execution-engine-go/engine/errors"
	"github.com/casper-network/casper-execution-engine-go/engine/trackingcopy"
	"github.com/casper-network/casper-execution-engine-go/engine/types"
)

// AllowInstallUpgrade records whether the current execution kind is
// permitted to install or upgrade a stored entity, generalized from
// original_source's AllowInstallUpgrade enum threaded through
// create_runtime_context.
type AllowInstallUpgrade byte

const (
	InstallUpgradeForbidden AllowInstallUpgrade = iota
	InstallUpgradeAllowed
)

// RuntimeContext is the mutable state one call frame executes against.
// Nested calls get their own RuntimeContext built from a forked
// TrackingCopy and a cloned RuntimeFootprint, per spec §4.3's copy-on-enter
// rule.
type RuntimeContext struct {
	NamedKeys  types.NamedKeys
	Footprint  *types.RuntimeFootprint
	EntityAddr [32]byte

	AuthorizationKeys map[[20]byte]struct{}
	AccessRights      map[[32]byte]types.AccessRights
	AccountHash       [20]byte

	AddressGenerator *addressgen.Generator
	TrackingCopy     *trackingcopy.TrackingCopy

	BlockInfo       types.BlockInfo
	TransactionHash types.TransactionHash
	Phase           types.Phase

	Args map[string]types.CLValue

	// SpendingLimit caps the amount any single `transfer` host-function call
	// in this call tree may move, seeded from args["amount"] at the top of
	// Execute (spec.md §4.2 step 1) and inherited unchanged by every nested
	// call's forked context.
	SpendingLimit uint64

	GasLimit   types.Gas
	GasCounter types.Gas

	Transfers []types.Transfer
	Messages  []types.Message

	AllowInstallUpgrade AllowInstallUpgrade

	stack *CallStack
}

// New builds the top-level RuntimeContext for one execution (the caller's
// own frame, before any nested calls), mirroring
// executor.rs::create_runtime_context's parameter list.
func New(
	namedKeys types.NamedKeys,
	footprint *types.RuntimeFootprint,
	entityAddr [32]byte,
	authorizationKeys map[[20]byte]struct{},
	accessRights map[[32]byte]types.AccessRights,
	accountHash [20]byte,
	addrGen *addressgen.Generator,
	tc *trackingcopy.TrackingCopy,
	blockInfo types.BlockInfo,
	txnHash types.TransactionHash,
	phase types.Phase,
	args map[string]types.CLValue,
	gasLimit types.Gas,
	allowInstallUpgrade AllowInstallUpgrade,
	maxCallStackDepth uint32,
	spendingLimit uint64,
) *RuntimeContext {
	return &RuntimeContext{
		NamedKeys:           namedKeys,
		Footprint:           footprint,
		EntityAddr:          entityAddr,
		AuthorizationKeys:   authorizationKeys,
		AccessRights:        accessRights,
		AccountHash:         accountHash,
		AddressGenerator:    addrGen,
		TrackingCopy:        tc,
		BlockInfo:           blockInfo,
		TransactionHash:     txnHash,
		Phase:               phase,
		Args:                args,
		SpendingLimit:       spendingLimit,
		GasLimit:            gasLimit,
		AllowInstallUpgrade: allowInstallUpgrade,
		stack:               NewCallStack(maxCallStackDepth),
	}
}

// ConsumeGas debits amount from the remaining gas, returning
// ErrGasDepleted if the limit would be exceeded. Saturating arithmetic in
// types.Gas means the counter itself never overflows; this check is what
// actually halts execution.
func (rc *RuntimeContext) ConsumeGas(amount types.Gas) error {
	next := rc.GasCounter.Add(amount)
	if next.Value() > rc.GasLimit.Value() {
		rc.GasCounter = rc.GasLimit
		return engerrors.New(engerrors.KindExecution, engerrors.ErrGasDepleted, "limit %d exceeded by %d", rc.GasLimit.Value(), next.Value()-rc.GasLimit.Value())
	}
	rc.GasCounter = next
	return nil
}

// GasRemaining reports the unspent portion of the gas limit.
func (rc *RuntimeContext) GasRemaining() types.Gas {
	return rc.GasLimit.Sub(rc.GasCounter)
}

// HasAccess reports whether the current capability set grants required
// rights over urefAddr.
func (rc *RuntimeContext) HasAccess(urefAddr [32]byte, required types.AccessRights) bool {
	return rc.AccessRights[urefAddr].Has(required)
}

// GrantAccess widens the capability set to include rights over urefAddr,
// used when a nested call returns a freshly minted URef to its caller.
func (rc *RuntimeContext) GrantAccess(urefAddr [32]byte, rights types.AccessRights) {
	rc.AccessRights[urefAddr] |= rights
}

// PushFrame enters a nested call, checking the bounded call stack depth.
func (rc *RuntimeContext) PushFrame(frame Frame) error {
	return rc.stack.Push(frame)
}

// PopFrame leaves the current nested call.
func (rc *RuntimeContext) PopFrame() Frame {
	return rc.stack.Pop()
}

// StackDepth reports the current call stack depth.
func (rc *RuntimeContext) StackDepth() int {
	return rc.stack.Depth()
}

// ForkForCall builds the RuntimeContext for a nested call into
// calleeEntityAddr, copy-on-enter: a forked Tracking Copy, a cloned
// footprint, and access rights extracted from that footprint (spec §4.3
// "a nested call receives its own Runtime Context, seeded from the
// callee's own footprint, not the caller's").
func (rc *RuntimeContext) ForkForCall(calleeEntityAddr [32]byte, calleeFootprint *types.RuntimeFootprint, entryPoint string, gasLimit types.Gas) (*RuntimeContext, error) {
	if err := rc.PushFrame(Frame{EntityAddr: calleeEntityAddr, EntryPoint: entryPoint}); err != nil {
		return nil, err
	}

	child := &RuntimeContext{
		NamedKeys:           calleeFootprint.NamedKeys(),
		Footprint:           calleeFootprint,
		EntityAddr:          calleeEntityAddr,
		AuthorizationKeys:   rc.AuthorizationKeys,
		AccessRights:        calleeFootprint.ExtractAccessRights(calleeEntityAddr),
		AccountHash:         rc.AccountHash,
		AddressGenerator:    rc.AddressGenerator,
		TrackingCopy:        rc.TrackingCopy.Fork(),
		BlockInfo:           rc.BlockInfo,
		TransactionHash:     rc.TransactionHash,
		Phase:               rc.Phase,
		SpendingLimit:       rc.SpendingLimit,
		GasLimit:            gasLimit,
		AllowInstallUpgrade: InstallUpgradeForbidden,
		stack:               rc.stack,
	}
	return child, nil
}

// MergeChild folds a completed nested call's Tracking Copy, gas spend,
// transfers and messages back into rc, then pops the call stack frame the
// child pushed. Gas folds in on top of rc's own counter, saturating at
// rc.GasLimit, per spec invariant 3 ("caller's gas_counter after the call
// = caller's before + callee's consumed, saturating at limit").
func (rc *RuntimeContext) MergeChild(child *RuntimeContext) {
	rc.TrackingCopy.Merge(child.TrackingCopy)
	rc.Transfers = append(rc.Transfers, child.Transfers...)
	rc.Messages = append(rc.Messages, child.Messages...)
	rc.GasCounter = rc.GasCounter.Add(child.GasCounter)
	if rc.GasCounter.Value() > rc.GasLimit.Value() {
		rc.GasCounter = rc.GasLimit
	}
	rc.PopFrame()
}

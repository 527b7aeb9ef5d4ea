package host

import (
	engcontext "github.com/casper-network/casper-execution-engine-go/engine/context"
	"github.com/casper-network/casper-execution-engine-go/engine/hostfn"
	"github.com/casper-network/casper-execution-engine-go/engine/provider"
	"github.com/casper-network/casper-execution-engine-go/engine/types"
)

var _ hostfn.Invoker = (*Engine)(nil)

// InvokeContract implements hostfn.Invoker's `call`: it forks a child
// Runtime Context seeded from the callee's own footprint (copy-on-enter),
// transfers value into the callee's main purse, runs the callee's stored
// byte code, and merges the child's Tracking Copy, transfers and messages
// back into rc on success. A failed nested call discards the child's
// buffered writes entirely, matching the teacher's StateStack
// PopDiscard-on-error semantics generalized in
// RuntimeContext.ForkForCall/MergeChild.
func (e *Engine) InvokeContract(rc *engcontext.RuntimeContext, entityAddr [32]byte, entryPoint string, value uint64, input []byte) (hostfn.CallResult, error) {
	calleeFootprint, err := loadCalleeFootprint(rc.TrackingCopy, entityAddr)
	if err != nil {
		return hostfn.CallResult{}, err
	}

	child, err := rc.ForkForCall(entityAddr, calleeFootprint, entryPoint, rc.GasRemaining())
	if err != nil {
		return hostfn.CallResult{}, err
	}
	child.Args = map[string]types.CLValue{
		"input": {Type: types.CLTypeBytes, Bytes: input},
	}

	if value > 0 && rc.Footprint.MainPurse != nil {
		payment := &provider.RuntimeHandlePayment{RC: rc, Cfg: e.Config}
		if err := payment.TransferPurseToAccount(*rc.Footprint.MainPurse, entityAddr20(entityAddr), value); err != nil {
			rc.PopFrame()
			return hostfn.CallResult{Code: 1}, err
		}
	}

	output, err := e.callStoredContract(child, entityAddr, entryPoint)
	if err != nil {
		rc.PopFrame()
		return hostfn.CallResult{Code: 1}, err
	}
	rc.MergeChild(child)
	return hostfn.CallResult{Output: output, Code: 0}, nil
}

func entityAddr20(addr [32]byte) [20]byte {
	var out [20]byte
	copy(out[:], addr[:20])
	return out
}

// InstallContract implements hostfn.Invoker's `create`: mints a fresh
// entity address from the address generator, stores code under it, and runs
// an optional constructor entry point in a forked context before folding its
// effects back in. value and seed are accepted but not used: no purse is
// created for the new contract and no value is transferred.
func (e *Engine) InstallContract(rc *engcontext.RuntimeContext, code []byte, value uint64, ctorEntryPoint string, input []byte, seed []byte) ([32]byte, error) {
	newAddr := rc.AddressGenerator.NewAddress()
	rc.TrackingCopy.Write(types.HashKey(newAddr), types.StoredValue{Tag: types.StoredByteCode, ByteCode: code})

	if ctorEntryPoint == "" {
		return newAddr, nil
	}

	footprint := &types.RuntimeFootprint{NamedKeysMap: types.NamedKeys{}, AssociatedKeys: map[[20]byte]types.Weight{}}
	child, err := rc.ForkForCall(newAddr, footprint, ctorEntryPoint, rc.GasRemaining())
	if err != nil {
		return [32]byte{}, err
	}
	child.Args = map[string]types.CLValue{"input": {Type: types.CLTypeBytes, Bytes: input}}

	if _, err := e.executeModuleBytes(child, code, ctorEntryPoint); err != nil {
		rc.PopFrame()
		return [32]byte{}, err
	}
	rc.MergeChild(child)
	return newAddr, nil
}

// UpgradeContract implements hostfn.Invoker's `upgrade`: overwrites the
// current entity's byte code in place. Guarded by the caller (Surface.
// Upgrade checks AllowInstallUpgrade before dispatching here).
func (e *Engine) UpgradeContract(rc *engcontext.RuntimeContext, code []byte, entryPoint string, input []byte) error {
	rc.TrackingCopy.Write(types.HashKey(rc.EntityAddr), types.StoredValue{Tag: types.StoredByteCode, ByteCode: code})
	if entryPoint == "" {
		return nil
	}
	_, err := e.executeModuleBytes(rc, code, entryPoint)
	return err
}

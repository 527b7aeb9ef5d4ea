package host

import (
	engcontext "github.com/casper-network/casper-execution-engine-go/engine/context"
	engerrors "github.com/casper-network/casper-execution-engine-go/engine/errors"
	"github.com/casper-network/casper-execution-engine-go/engine/hostfn"
	"github.com/casper-network/casper-execution-engine-go/engine/provider"
	"github.com/casper-network/casper-execution-engine-go/engine/trackingcopy"
	"github.com/casper-network/casper-execution-engine-go/engine/types"
	"github.com/casper-network/casper-execution-engine-go/engine/wasmengine"
)

// executeModuleBytes prepares and instantiates moduleBytes, links the
// Host-Function Surface under the "env" namespace, invokes entryPoint,
// and returns whatever the contract passed to the `return` host function.
func (e *Engine) executeModuleBytes(rc *engcontext.RuntimeContext, moduleBytes []byte, entryPoint string) ([]byte, error) {
	gasCost := e.Config.GasCost()
	mod, err := wasmengine.Prepare(e.WasmEngine, moduleBytes, gasCost.Wasm)
	if err != nil {
		return nil, err
	}
	if !mod.HasExport(entryPoint) {
		return nil, engerrors.Wrap(engerrors.KindPreparation, engerrors.ErrMissingEntryPoint, nil, "entry point %q", entryPoint)
	}
	if err := mod.CheckStackHeight(entryPoint, gasCost.Wasm.MaxStackHeight); err != nil {
		return nil, err
	}
	opcodeCost, err := mod.StaticOpcodeCost(entryPoint)
	if err != nil {
		return nil, err
	}
	if err := rc.ConsumeGas(opcodeCost); err != nil {
		return nil, err
	}

	payment := &provider.RuntimeHandlePayment{RC: rc, Cfg: e.Config}
	surface := hostfn.New(rc, gasCost, payment, e)

	imports, setMemory := buildImports(mod.Store(), surface)
	instance, err := wasmengine.Instantiate(mod, imports)
	if err != nil {
		return nil, err
	}

	mem, err := instance.Memory()
	if err != nil {
		return nil, err
	}
	setMemory(mem)

	if _, err := instance.Call(entryPoint); err != nil {
		return nil, err
	}

	if ok, value := surface.Returned(); ok {
		return value, nil
	}
	return nil, nil
}

// callStoredContract loads the byte code stored under entityHash and runs
// it, the Stored ExecutionKind's dispatch path.
func (e *Engine) callStoredContract(rc *engcontext.RuntimeContext, entityHash [32]byte, entryPoint string) ([]byte, error) {
	code, err := loadContractCode(rc.TrackingCopy, entityHash)
	if err != nil {
		return nil, err
	}
	return e.executeModuleBytes(rc, code, entryPoint)
}

// loadContractCode reads the byte code stored at entityHash's Hash key.
// This engine addresses a stored contract's code directly by its entity
// hash rather than through a separate byte-code-address indirection layer
// (the full addressing scheme is storage/trie plumbing out of scope per
// this engine's narrow StateReader, same limitation documented on
// readEntityNamedKeys in engine/context).
func loadContractCode(tc *trackingcopy.TrackingCopy, entityHash [32]byte) ([]byte, error) {
	sv, found, err := tc.Read(types.HashKey(entityHash))
	if err != nil {
		return nil, err
	}
	if !found || sv.Tag != types.StoredByteCode {
		return nil, engerrors.New(engerrors.KindExecution, engerrors.ErrNotCallable, "no byte code at entity %x", entityHash)
	}
	return sv.ByteCode, nil
}

// loadCalleeFootprint resolves entityAddr's AddressableEntity into a fresh
// RuntimeFootprint for a nested call, the Stored-kind analogue of
// engine/context's AuthorizedRuntimeFootprint (no authorization check: a
// nested call's authority derives from the caller already having been
// authorized, per spec §4.3's "nested call receives its own Runtime
// Context, seeded from the callee's own footprint").
func loadCalleeFootprint(tc *trackingcopy.TrackingCopy, entityAddr [32]byte) (*types.RuntimeFootprint, error) {
	entity, err := tc.GetEntity(types.AddressableEntityKey(types.EntityKindSmartContract, entityAddr))
	if err != nil {
		return nil, err
	}
	return types.FromAddressableEntity(entity, types.NamedKeys{}), nil
}

// Package host implements the Executor: the top-level entry point that
// turns a WasmV1Request into a WasmV1Result, resolving pre-state, the
// initiator's authorized footprint and the execution kind, then running
// either Wasm module bytes or a stored contract, and folding the
// resulting Tracking Copy effects, transfers and messages into the result
// envelope (spec.md §4.1-§4.2, grounded on
// original_source/execution_engine/src/engine_state/mod.rs's `execute`/
// `execute_with_tracking_copy` and execution/executor.rs's `exec`).
package host

import (
	"github.com/casper-network/casper-execution-engine-go/engine/config"
	engcontext "github.com/casper-network/casper-execution-engine-go/engine/context"
	engerrors "github.com/casper-network/casper-execution-engine-go/engine/errors"
	"github.com/casper-network/casper-execution-engine-go/engine/hostfn"
	"github.com/casper-network/casper-execution-engine-go/engine/kind"
	"github.com/casper-network/casper-execution-engine-go/engine/provider"
	"github.com/casper-network/casper-execution-engine-go/engine/trackingcopy"
	"github.com/casper-network/casper-execution-engine-go/engine/types"
	"github.com/casper-network/casper-execution-engine-go/engine/wasmengine"
	"github.com/casper-network/casper-execution-engine-go/internal/addressgen"

	logger "github.com/ElrondNetwork/elrond-go-logger"
)

var logHost = logger.GetOrCreate("engine/host")

// GlobalStateProvider resolves a pre-state root hash to a StateReader, the
// engine-side analogue of casper-storage's `StateProvider::tracking_copy`.
// A missing root is reported via found=false, distinct from err, mirroring
// the Rust `Ok(None)` vs `Err(gse)` split that drives RootNotFound vs
// PreconditionFailure in execute().
type GlobalStateProvider interface {
	TrackingCopyAt(stateHash [32]byte) (reader trackingcopy.StateReader, found bool, err error)
}

// Engine is the top-level ExecutionEngineV1 equivalent: immutable
// EngineConfig plus the shared Wasm compiler engine used across every
// invocation.
type Engine struct {
	Config     *config.EngineConfig
	WasmEngine *wasmengine.Engine
}

// New builds an Engine.
func New(cfg *config.EngineConfig, wasmEngine *wasmengine.Engine) *Engine {
	return &Engine{Config: cfg, WasmEngine: wasmEngine}
}

// Execute runs req against state, resolving pre-state, authorization and
// execution kind before dispatching to Wasm or a stored contract. It never
// commits anything or performs payment processing, matching the Rust
// Executor's documented single responsibility.
func (e *Engine) Execute(state GlobalStateProvider, req types.WasmV1Request) types.WasmV1Result {
	reader, found, err := state.TrackingCopyAt(req.BlockInfo.StateHash)
	if err != nil {
		return types.PreconditionFailureResult(req.GasLimit, err)
	}
	if !found {
		return types.RootNotFoundResult(req.GasLimit, req.BlockInfo.StateHash)
	}

	tc, err := trackingcopy.New(reader)
	if err != nil {
		return types.PreconditionFailureResult(req.GasLimit, err)
	}

	authorized, err := engcontext.AuthorizedRuntimeFootprint(tc, req.InitiatorAddr.AccountHash, req.AuthorizationKeys, e.Config.AdministrativeAccounts)
	if err != nil {
		return types.PreconditionFailureResult(req.GasLimit, err)
	}

	namedKeys := authorized.Footprint.NamedKeys().Clone()
	execKind, err := kind.Resolve(tc, namedKeys, req.ExecutableItem, req.EntryPoint)
	if err != nil {
		return types.PreconditionFailureResult(req.GasLimit, err)
	}

	amountArg, ok := req.Args["amount"]
	if !ok {
		return types.PreconditionFailureResult(req.GasLimit, engerrors.New(engerrors.KindPrecondition, engerrors.ErrMissingSpendingLimit, "args[\"amount\"] not supplied"))
	}
	spendingLimit := amountArg.AsU64()

	accessRights := authorized.Footprint.ExtractAccessRights(authorized.EntityAddr)
	addrGen := addressgen.New([32]byte(req.TransactionHash), byte(req.Phase))

	allowInstallUpgrade := engcontext.InstallUpgradeForbidden
	if execKind.AllowsInstallUpgrade() {
		allowInstallUpgrade = engcontext.InstallUpgradeAllowed
	}

	rc := engcontext.New(
		namedKeys,
		authorized.Footprint,
		authorized.EntityAddr,
		req.AuthorizationKeys,
		accessRights,
		req.InitiatorAddr.AccountHash,
		addrGen,
		tc,
		req.BlockInfo,
		req.TransactionHash,
		req.Phase,
		req.Args,
		req.GasLimit,
		allowInstallUpgrade,
		e.Config.MaxCallStackDepth,
		spendingLimit,
	)

	logHost.Trace("execute", "entity", authorized.EntityAddr, "kind", execKind.Tag, "gasLimit", req.GasLimit.Value())

	var returnValue []byte
	switch execKind.Tag {
	case types.KindStandard, types.KindInstallerUpgrader, types.KindDeploy:
		returnValue, err = e.executeModuleBytes(rc, execKind.ModuleBytes, req.EntryPoint)
	case types.KindStored:
		returnValue, err = e.callStoredContract(rc, execKind.EntityHash, execKind.EntryPoint)
	default:
		err = engerrors.New(engerrors.KindPrecondition, engerrors.ErrInvalidExecutableItem, "unresolved execution kind %d", execKind.Tag)
	}

	if err != nil {
		return types.WasmV1Result{
			Limit:        req.GasLimit,
			Consumed:     rc.GasCounter,
			HasError:     true,
			ErrorMessage: err.Error(),
		}
	}

	return types.WasmV1Result{
		Limit:       req.GasLimit,
		Consumed:    rc.GasCounter,
		Effects:     rc.TrackingCopy.Effects(),
		Transfers:   rc.Transfers,
		Messages:    rc.Messages,
		ReturnValue: returnValue,
	}
}

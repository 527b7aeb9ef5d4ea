package host

import (
	engcontext "github.com/casper-network/casper-execution-engine-go/engine/context"
	engerrors "github.com/casper-network/casper-execution-engine-go/engine/errors"
	"github.com/casper-network/casper-execution-engine-go/engine/provider"
	"github.com/casper-network/casper-execution-engine-go/engine/trackingcopy"
	"github.com/casper-network/casper-execution-engine-go/engine/types"
	"github.com/casper-network/casper-execution-engine-go/internal/addressgen"
)

// wasmlessTransferGasKey is the Host-Function Surface name the native
// transfer path is priced against, the same entry `transfer` the `transfer`
// host function charges (engine/hostfn.opTransfer), so a wasmless transfer
// and a contract-initiated one move value at the same price.
const wasmlessTransferGasKey = "transfer"

// ExecuteWasmlessTransfer runs a Deploy-less native transfer directly
// through the mint provider, without resolving an ExecutionKind or
// instantiating a Wasm engine (spec.md §5.1). It implements the
// Transfer(MissingArgument) and Transfer(InvalidPurse) outcomes from
// spec.md §8's wasmless-transfer scenarios.
func (e *Engine) ExecuteWasmlessTransfer(state GlobalStateProvider, req types.WasmlessTransferRequest) types.WasmV1Result {
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
	if authorized.Footprint.MainPurse == nil {
		return types.PreconditionFailureResult(req.GasLimit, engerrors.New(engerrors.KindPrecondition, engerrors.ErrInvalidExecutableItem, "initiator has no main purse"))
	}
	sourcePurse := *authorized.Footprint.MainPurse

	accessRights := authorized.Footprint.ExtractAccessRights(authorized.EntityAddr)
	addrGen := addressgen.New([32]byte(req.TransactionHash), byte(req.Phase))

	rc := engcontext.New(
		authorized.Footprint.NamedKeys().Clone(),
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
		engcontext.InstallUpgradeForbidden,
		e.Config.MaxCallStackDepth,
		0,
	)

	gasCost, _ := e.Config.GasCost().HostFunctionGas(wasmlessTransferGasKey)
	if err := rc.ConsumeGas(gasCost); err != nil {
		return wasmlessTransferErrorResult(rc, err)
	}

	amountArg, ok := req.Args["amount"]
	if !ok {
		return wasmlessTransferErrorResult(rc, engerrors.New(engerrors.KindExecution, engerrors.ErrMissingArgument, "amount"))
	}
	targetArg, ok := req.Args["target"]
	if !ok {
		return wasmlessTransferErrorResult(rc, engerrors.New(engerrors.KindExecution, engerrors.ErrMissingArgument, "target"))
	}

	var targetAddr [32]byte
	copy(targetAddr[:], targetArg.Bytes)
	targetPurse := types.NewURef(targetAddr, types.RightReadAddWrite)

	if targetPurse.Addr == sourcePurse.Addr {
		return wasmlessTransferErrorResult(rc, engerrors.New(engerrors.KindExecution, engerrors.ErrInvalidPurse, "source and target purse are identical"))
	}

	payment := &provider.RuntimeHandlePayment{RC: rc, Cfg: e.Config}
	if err := payment.TransferPurseToPurse(sourcePurse, targetPurse, amountArg.AsU64()); err != nil {
		return wasmlessTransferErrorResult(rc, err)
	}

	return types.WasmV1Result{
		Limit:     req.GasLimit,
		Consumed:  rc.GasCounter,
		Effects:   rc.TrackingCopy.Effects(),
		Transfers: rc.Transfers,
	}
}

func wasmlessTransferErrorResult(rc *engcontext.RuntimeContext, err error) types.WasmV1Result {
	return types.WasmV1Result{
		Limit:        rc.GasLimit,
		Consumed:     rc.GasCounter,
		HasError:     true,
		ErrorMessage: err.Error(),
	}
}

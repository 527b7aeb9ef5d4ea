package provider

import (
	engerrors "github.com/casper-network/casper-execution-engine-go/engine/errors"
	engcontext "github.com/casper-network/casper-execution-engine-go/engine/context"
	"github.com/casper-network/casper-execution-engine-go/engine/config"
	"github.com/casper-network/casper-execution-engine-go/engine/types"
)

// RuntimeHandlePayment is the concrete HandlePayment implementation used
// by the mint/handle-payment system contract providers at execution time:
// it composes a *context.RuntimeContext with the engine's immutable
// EngineConfig, the same pairing original_source's `Runtime<'_, R>` uses
// (context for state, engine_config() for refund/fee/admin policy).
type RuntimeHandlePayment struct {
	RC  *engcontext.RuntimeContext
	Cfg *config.EngineConfig
}

var _ HandlePayment = (*RuntimeHandlePayment)(nil)

// TransferPurseToAccount moves amount from source to the main purse of
// target, recording a Transfer and debiting source's balance.
func (p *RuntimeHandlePayment) TransferPurseToAccount(source types.URef, target [20]byte, amount uint64) error {
	if !p.RC.HasAccess(source.Addr, types.RightWrite) {
		return engerrors.New(engerrors.KindSystemContract, engerrors.ErrAccessRightsDenied, "no write access to source purse")
	}
	balance, found, err := p.AvailableBalance(source)
	if err != nil {
		return err
	}
	if !found || balance < amount {
		return engerrors.New(engerrors.KindSystemContract, engerrors.ErrTransferInsufficientFunds, "purse %x", source.Addr)
	}
	if err := p.WriteBalance(source, balance-amount); err != nil {
		return err
	}
	var targetAddr [32]byte
	copy(targetAddr[:], target[:])
	p.RC.Transfers = append(p.RC.Transfers, types.Transfer{From: source.Addr, To: targetAddr, Amount: amount})
	return nil
}

// TransferPurseToPurse moves amount from source to target directly.
func (p *RuntimeHandlePayment) TransferPurseToPurse(source, target types.URef, amount uint64) error {
	if !p.RC.HasAccess(source.Addr, types.RightWrite) {
		return engerrors.New(engerrors.KindSystemContract, engerrors.ErrAccessRightsDenied, "no write access to source purse")
	}
	sourceBalance, found, err := p.AvailableBalance(source)
	if err != nil {
		return err
	}
	if !found || sourceBalance < amount {
		return engerrors.New(engerrors.KindSystemContract, engerrors.ErrTransferInsufficientFunds, "purse %x", source.Addr)
	}
	targetBalance, _, err := p.AvailableBalance(target)
	if err != nil {
		return err
	}
	if err := p.WriteBalance(source, sourceBalance-amount); err != nil {
		return err
	}
	if err := p.WriteBalance(target, targetBalance+amount); err != nil {
		return err
	}
	p.RC.Transfers = append(p.RC.Transfers, types.Transfer{From: source.Addr, To: target.Addr, Amount: amount})
	return nil
}

// AvailableBalance reads the balance stored under purse's Balance key.
func (p *RuntimeHandlePayment) AvailableBalance(purse types.URef) (uint64, bool, error) {
	sv, found, err := p.RC.TrackingCopy.Read(types.BalanceKey(purse.Addr))
	if err != nil {
		return 0, false, err
	}
	if !found || sv.Tag != types.StoredCLValue || sv.CLValue == nil {
		return 0, false, nil
	}
	return sv.CLValue.AsU64(), true, nil
}

// ReduceTotalSupply is a no-op placeholder: total-supply bookkeeping for
// the native token lives in the mint system contract's own storage, which
// is out of scope for the execution core (spec.md §6 non-goals: system
// contract business logic).
func (p *RuntimeHandlePayment) ReduceTotalSupply(uint64) error {
	return nil
}

// GetKey looks up name in the current runtime context's named keys.
func (p *RuntimeHandlePayment) GetKey(name string) (types.Key, bool) {
	k, ok := p.RC.NamedKeys[name]
	return k, ok
}

// PutKey registers key under name in the current named-key table. It writes
// no NamedKeyValue cell to the Tracking Copy, so the change is not recorded
// in Effects.
func (p *RuntimeHandlePayment) PutKey(name string, key types.Key) error {
	p.RC.NamedKeys[name] = key
	return nil
}

// RemoveKey deletes name from the current named-key table.
func (p *RuntimeHandlePayment) RemoveKey(name string) error {
	delete(p.RC.NamedKeys, name)
	return nil
}

// Phase returns the execution phase of the current runtime context.
func (p *RuntimeHandlePayment) Phase() types.Phase { return p.RC.Phase }

// Caller returns the account hash of the transaction initiator.
func (p *RuntimeHandlePayment) Caller() [20]byte { return p.RC.AccountHash }

// RefundHandling returns the engine's configured refund policy.
func (p *RuntimeHandlePayment) RefundHandling() config.RefundHandling { return p.Cfg.RefundHandling }

// FeeHandling returns the engine's configured fee policy.
func (p *RuntimeHandlePayment) FeeHandling() config.FeeHandling { return p.Cfg.FeeHandling }

// AdministrativeAccounts returns the engine-wide administrative account
// set, the same set AuthorizedRuntimeFootprint consults to bypass the
// deployment-weight check.
func (p *RuntimeHandlePayment) AdministrativeAccounts() map[[20]byte]struct{} {
	return p.Cfg.AdministrativeAccounts
}

// WriteBalance overwrites purse's Balance cell with amount.
func (p *RuntimeHandlePayment) WriteBalance(purse types.URef, amount uint64) error {
	balanceValue := types.U64CLValue(amount)
	balanceValue.Type = types.CLTypeU512
	p.RC.TrackingCopy.Write(types.BalanceKey(purse.Addr), types.StoredValue{
		Tag:     types.StoredCLValue,
		CLValue: &balanceValue,
	})
	return nil
}

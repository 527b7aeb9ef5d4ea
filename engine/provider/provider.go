// Package provider defines the narrow system-contract capability
// interfaces a host-function handler depends on instead of the full
// Runtime Context: MintProvider (native transfers/balances),
// RuntimeProvider (named keys, phase, caller, refund/fee policy,
// administrative accounts), and StorageProvider (balance persistence).
// Composition over inheritance, per spec.md §9: the mint/handle-payment
// system contracts consume exactly these interfaces, never the full
// *context.RuntimeContext.
package provider

import (
	"github.com/casper-network/casper-execution-engine-go/engine/config"
	"github.com/casper-network/casper-execution-engine-go/engine/types"
)

// MintProvider is the capability surface the native mint/transfer path
// needs. Grounded on original_source's
// `casper_storage::system::transfer::mint_provider::MintProvider` trait
// (handle_payment_internal.rs's impl block for Runtime).
type MintProvider interface {
	TransferPurseToAccount(source types.URef, target [20]byte, amount uint64) error
	TransferPurseToPurse(source, target types.URef, amount uint64) error
	AvailableBalance(purse types.URef) (uint64, bool, error)
	ReduceTotalSupply(amount uint64) error
}

// RuntimeProvider exposes the slice of Runtime Context a system contract
// needs without being handed the whole thing: named-key read/write/remove,
// phase, caller, refund/fee policy, administrative accounts. Grounded on
// the same file's RuntimeProvider impl (get_key/put_key/remove_key/
// get_phase/get_caller/refund_handling/fee_handling/
// administrative_accounts).
type RuntimeProvider interface {
	GetKey(name string) (types.Key, bool)
	PutKey(name string, key types.Key) error
	RemoveKey(name string) error
	Phase() types.Phase
	Caller() [20]byte
	RefundHandling() config.RefundHandling
	FeeHandling() config.FeeHandling
	AdministrativeAccounts() map[[20]byte]struct{}
}

// StorageProvider persists a purse balance. Grounded on the same file's
// StorageProvider impl, which does nothing but write a CLValue under the
// purse's Balance key via the metered write path.
type StorageProvider interface {
	WriteBalance(purse types.URef, amount uint64) error
}

// HandlePayment composes the three narrow capability interfaces into the
// single surface the handle-payment system contract is implemented
// against, mirroring original_source's empty `impl HandlePayment for
// Runtime<'_, R> {}` marker composing the same three traits.
type HandlePayment interface {
	MintProvider
	RuntimeProvider
	StorageProvider
}

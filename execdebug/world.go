// Package execdebug is a small in-memory harness for exercising Engine.
// Execute outside of a real node: a World holds accounts and stored
// entities in a plain map, feeds them to the Executor through the
// GlobalStateProvider interface, and applies the returned Effects back
// onto itself, so successive Deploy/Call invocations see each other's
// writes. It plays the same role arwendebug's world.go plays for the
// teacher's arwen/host VM, generalized to this engine's request/response
// shape (spec.md §4.1 Executor, §5 Tracking Copy commit semantics).
package execdebug

import (
	"github.com/casper-network/casper-execution-engine-go/engine/config"
	"github.com/casper-network/casper-execution-engine-go/engine/host"
	"github.com/casper-network/casper-execution-engine-go/engine/trackingcopy"
	"github.com/casper-network/casper-execution-engine-go/engine/types"
	"github.com/casper-network/casper-execution-engine-go/engine/wasmengine"
)

// worldStateHash is the fixed pre-state root this single-world harness
// always presents; a debug world has no block history to version.
var worldStateHash = [32]byte{0xde, 0xb6}

// World is a single mutable key-value store plus the Engine that runs
// against it.
type World struct {
	store  map[types.Key]types.StoredValue
	engine *host.Engine
}

// NewWorld builds an empty World wired to an Engine built from cfg.
func NewWorld(cfg *config.EngineConfig) *World {
	return &World{
		store:  map[types.Key]types.StoredValue{},
		engine: host.New(cfg, wasmengine.NewEngine()),
	}
}

var _ trackingcopy.StateReader = (*World)(nil)
var _ host.GlobalStateProvider = (*World)(nil)

// Read implements trackingcopy.StateReader directly against the world's
// backing map.
func (w *World) Read(key types.Key) (types.StoredValue, bool, error) {
	v, ok := w.store[key]
	return v, ok, nil
}

// TrackingCopyAt implements host.GlobalStateProvider: this harness has
// exactly one state root, itself, always found.
func (w *World) TrackingCopyAt(stateHash [32]byte) (trackingcopy.StateReader, bool, error) {
	return w, true, nil
}

// StateHash returns the fixed pre-state root requests should target.
func (w *World) StateHash() [32]byte {
	return worldStateHash
}

// Put writes value at key directly, bypassing gas metering and access
// checks — used to seed accounts and genesis state before execution
// begins.
func (w *World) Put(key types.Key, value types.StoredValue) {
	w.store[key] = value
}

// CreateAccount seeds an account entity at accountHash with balance
// credited to a freshly minted main purse, and full deployment/key-
// management authorization weight for itself.
func (w *World) CreateAccount(accountHash [20]byte, balance uint64) {
	var purseAddr [32]byte
	copy(purseAddr[:], accountHash[:])
	purseAddr[31] ^= 0xff // keep the purse's key distinct from the account's

	purse := types.NewURef(purseAddr, types.RightReadAddWrite)
	balanceValue := types.U64CLValue(balance)
	balanceValue.Type = types.CLTypeU512
	w.Put(types.BalanceKey(purse.Addr), types.StoredValue{
		Tag:     types.StoredCLValue,
		CLValue: &balanceValue,
	})

	var accountAddr [32]byte
	copy(accountAddr[:], accountHash[:])
	w.Put(types.AccountKey(accountAddr), types.StoredValue{
		Tag: types.StoredAccount,
		Account: &types.Account{
			MainPurse:      purse,
			AssociatedKeys: map[[20]byte]types.Weight{accountHash: 255},
			ActionThresholds: types.ActionThresholds{
				KeyManagement: 1,
				Deployment:    1,
			},
			NamedKeys: map[string]types.Key{},
		},
	})
}

// Execute runs req against the world and applies its Effects back onto
// the store, so that the next request sees this one's writes.
func (w *World) Execute(req types.WasmV1Request) types.WasmV1Result {
	result := w.engine.Execute(w, req)
	w.Apply(result.Effects)
	return result
}

// Apply replays an Effects log onto the store in order, the debug
// harness's stand-in for a real node's global-state commit step.
func (w *World) Apply(effects types.Effects) {
	for _, entry := range effects.Entries() {
		switch entry.Transform.Tag {
		case types.TransformWrite:
			w.store[entry.Key] = entry.Transform.WriteValue
		case types.TransformPrune:
			delete(w.store, entry.Key)
		}
	}
}

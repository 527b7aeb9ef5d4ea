package types

// Phase identifies the stage of transaction processing a request executes
// in; it influences address generation and capability checks.
type Phase byte

const (
	PhaseSystem Phase = iota
	PhasePayment
	PhaseSession
	PhaseFinalizePayment
)

func (p Phase) String() string {
	switch p {
	case PhaseSystem:
		return "system"
	case PhasePayment:
		return "payment"
	case PhaseSession:
		return "session"
	case PhaseFinalizePayment:
		return "finalize-payment"
	default:
		return "unknown"
	}
}

// BlockInfo carries the pre-state root and environment facts needed to seed
// a request's execution context.
type BlockInfo struct {
	StateHash       [32]byte
	BlockHeight     uint64
	BlockTime       uint64
	ProtocolVersion uint32
}

// TransactionHash identifies the transaction being executed; it seeds the
// deterministic address generator together with Phase.
type TransactionHash [32]byte

// InitiatorAddr names the account that initiated the transaction.
type InitiatorAddr struct {
	AccountHash [20]byte
}

// WasmV1Request is the input envelope consumed by the Executor.
type WasmV1Request struct {
	BlockInfo          BlockInfo
	TransactionHash    TransactionHash
	GasLimit           Gas
	InitiatorAddr      InitiatorAddr
	ExecutableItem     ExecutableItem
	EntryPoint         string
	Args               map[string]CLValue
	AuthorizationKeys  map[[20]byte]struct{}
	Phase              Phase
}

// WasmlessTransferRequest is the input to a native, Wasm-free transfer: no
// ExecutableItem is resolved or instantiated, the native mint path moves
// value directly between purses (spec.md §5.1 "Wasmless transfer"). Args
// carries "amount" (CLTypeU64, the amount to move) and "target" (CLTypeURef,
// the destination purse); both are required.
type WasmlessTransferRequest struct {
	BlockInfo         BlockInfo
	TransactionHash   TransactionHash
	GasLimit          Gas
	InitiatorAddr     InitiatorAddr
	Args              map[string]CLValue
	AuthorizationKeys map[[20]byte]struct{}
	Phase             Phase
}

// Transfer records one native value movement captured during execution.
type Transfer struct {
	From   [32]byte
	To     [32]byte
	Amount uint64
	ID     *uint64
}

// WasmV1Result is the output envelope produced by the Executor. Exactly one
// of ErrorMessage or ReturnValue should be meaningfully populated on a
// well-formed result; RootNotFound is a distinct precondition signal.
type WasmV1Result struct {
	Limit    Gas
	Consumed Gas

	Effects     Effects
	Transfers   []Transfer
	Messages    []Message
	ReturnValue []byte

	ErrorMessage string
	HasError     bool

	RootNotFound    bool
	StateHashQueried [32]byte
}

// RootNotFoundResult builds the precondition-failure result for an unknown
// pre-state root.
func RootNotFoundResult(limit Gas, stateHash [32]byte) WasmV1Result {
	return WasmV1Result{Limit: limit, Consumed: Zero, RootNotFound: true, StateHashQueried: stateHash}
}

// PreconditionFailureResult builds a well-formed result for any error
// detected before metered execution begins (spec §7 "Precondition").
func PreconditionFailureResult(limit Gas, err error) WasmV1Result {
	return WasmV1Result{Limit: limit, Consumed: Zero, HasError: true, ErrorMessage: err.Error()}
}

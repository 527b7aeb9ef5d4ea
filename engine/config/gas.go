package config

import "github.com/casper-network/casper-execution-engine-go/engine/types"

// GasScheduleMap is the raw, version-keyed gas schedule as loaded from TOML:
// outer key is a cost category ("WASMOpcodeCost", "HostFunctionCost",
// "StorageCost", ...), inner map is cost-name to value, mirroring the
// teacher's config.GasScheduleMap shape consumed by CreateGasConfig.
type GasScheduleMap map[string]map[string]uint64

// OpcodeCosts prices Wasm bytecode execution. The module is not
// instrumented: wasmengine sums these weights over an entry point's body
// once at preparation time and the total is charged before instantiation.
type OpcodeCosts struct {
	Bit             uint32
	Add             uint32
	Mul             uint32
	Div             uint32
	Load            uint32
	Store           uint32
	Const           uint32
	Local           uint32
	Global          uint32
	ControlFlow     uint32
	IntegerComparison uint32
	Conversion      uint32
	Unreachable     uint32
	Nop             uint32
	CurrentMemory   uint32
	GrowMemory      uint32
	RegularCost     uint32
}

// StorageCosts prices Tracking Copy reads, writes and adds.
type StorageCosts struct {
	Read  uint32
	Write uint32
	Add   uint32
}

// HostFunctionCosts prices each entry in the Host-Function Surface by name,
// generalizing the teacher's per-EEI-function gas cost table
// (config.GasCost.BaseOpsAPICost / BuiltInCost groupings).
type HostFunctionCosts map[string]uint64

// WasmConfig bounds what a Wasm module is allowed to declare, enforced at
// preparation time before any metering or instantiation happens.
type WasmConfig struct {
	MaxMemoryPages    uint32
	MaxStackHeight     uint32
	MaxParameterCount  uint32
	MaxModuleSizeBytes uint64
	OpcodeCosts        OpcodeCosts
	StorageCosts       StorageCosts
	HostFunctionCosts  HostFunctionCosts
}

// MessageLimits bounds message-emission accounting (spec §5.4).
type MessageLimits struct {
	MaxTopicNameLength    uint32
	MaxTopicsPerEntity    uint32
	MaxMessagePayloadSize uint32
	MaxMessagesPerBlock   uint32
}

// GasCost is the fully decoded, ready-to-use cost table derived from a
// GasScheduleMap, mirroring the teacher's config.GasCost produced by
// CreateGasConfig.
type GasCost struct {
	Wasm          WasmConfig
	Messages      MessageLimits
	SchemaVersion uint32
}

// HostFunctionGas returns the priced cost of host function name, or ok=false if the
// schedule carries no entry for it (a preparation-time configuration bug,
// not a runtime condition).
func (c GasCost) HostFunctionGas(name string) (types.Gas, bool) {
	v, ok := c.Wasm.HostFunctionCosts[name]
	return types.Gas(v), ok
}

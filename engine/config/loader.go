package config

import (
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml"

	engerrors "github.com/casper-network/casper-execution-engine-go/engine/errors"
)

// rawSchema is the intermediate TOML shape a gas-schedule file decodes
// into before mapstructure projects it onto the typed cost tables; this
// mirrors the teacher's pattern of reading an on-disk TOML gas schedule
// into a generic map and then decoding category-by-category with
// CreateGasConfig.
type rawSchema struct {
	SchemaVersion uint32                 `toml:"SchemaVersion"`
	WasmOpcode    map[string]uint64      `toml:"WASMOpcodeCost"`
	Storage       map[string]uint64      `toml:"StorageCost"`
	HostFunctions map[string]uint64      `toml:"HostFunctionCost"`
	Limits        map[string]uint64      `toml:"Limits"`
}

// LoadGasScheduleTOML reads a gas-schedule file from disk and decodes it
// into a GasScheduleMap, the same raw shape CreateGasConfig consumes.
func LoadGasScheduleTOML(path string) (GasScheduleMap, error) {
	tree, err := toml.LoadFile(path)
	if err != nil {
		return nil, engerrors.Wrap(engerrors.KindPreparation, engerrors.ErrWasmPreprocessing, err, "loading gas schedule %s", path)
	}
	var raw rawSchema
	if err := tree.Unmarshal(&raw); err != nil {
		return nil, engerrors.Wrap(engerrors.KindPreparation, engerrors.ErrWasmPreprocessing, err, "decoding gas schedule %s", path)
	}
	return GasScheduleMap{
		"WASMOpcodeCost":   raw.WasmOpcode,
		"StorageCost":      raw.Storage,
		"HostFunctionCost": raw.HostFunctions,
		"Limits":           raw.Limits,
	}, nil
}

// CreateGasConfig decodes a raw GasScheduleMap into a fully-typed GasCost,
// the Go equivalent of the teacher's config.CreateGasConfig used by
// GasScheduleChange to hot-swap the metering schedule without restarting
// the host.
func CreateGasConfig(schedule GasScheduleMap) (GasCost, error) {
	var opcodes OpcodeCosts
	if err := decodeSection(schedule["WASMOpcodeCost"], &opcodes); err != nil {
		return GasCost{}, err
	}
	var storage StorageCosts
	if err := decodeSection(schedule["StorageCost"], &storage); err != nil {
		return GasCost{}, err
	}

	limits := schedule["Limits"]
	msgLimits := MessageLimits{
		MaxTopicNameLength:    uint32(limits["MaxTopicNameLength"]),
		MaxTopicsPerEntity:    uint32(limits["MaxTopicsPerEntity"]),
		MaxMessagePayloadSize: uint32(limits["MaxMessagePayloadSize"]),
		MaxMessagesPerBlock:   uint32(limits["MaxMessagesPerBlock"]),
	}

	hostFnCosts := make(HostFunctionCosts, len(schedule["HostFunctionCost"]))
	for name, cost := range schedule["HostFunctionCost"] {
		hostFnCosts[name] = cost
	}

	return GasCost{
		Wasm: WasmConfig{
			MaxMemoryPages:     uint32(limits["MaxMemoryPages"]),
			MaxStackHeight:     uint32(limits["MaxStackHeight"]),
			MaxParameterCount:  uint32(limits["MaxParameterCount"]),
			MaxModuleSizeBytes: limits["MaxModuleSizeBytes"],
			OpcodeCosts:        opcodes,
			StorageCosts:       storage,
			HostFunctionCosts:  hostFnCosts,
		},
		Messages:      msgLimits,
		SchemaVersion: 1,
	}, nil
}

func decodeSection(section map[string]uint64, out interface{}) error {
	if section == nil {
		return nil
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return engerrors.Wrap(engerrors.KindPreparation, engerrors.ErrWasmPreprocessing, err, "building gas schedule decoder")
	}
	if err := decoder.Decode(section); err != nil {
		return engerrors.Wrap(engerrors.KindPreparation, engerrors.ErrWasmPreprocessing, err, "decoding gas schedule section")
	}
	return nil
}

// DefaultGasScheduleMap is the built-in schedule used when no on-disk
// override is supplied, analogous to the teacher shipping a baked-in
// default gas map for tests and for a host started without an explicit
// schedule file.
func DefaultGasScheduleMap() GasScheduleMap {
	return GasScheduleMap{
		"WASMOpcodeCost": map[string]uint64{
			"Bit": 1, "Add": 1, "Mul": 2, "Div": 4, "Load": 2, "Store": 2,
			"Const": 1, "Local": 1, "Global": 1, "ControlFlow": 1,
			"IntegerComparison": 1, "Conversion": 1, "Unreachable": 1,
			"Nop": 0, "CurrentMemory": 1, "GrowMemory": 8192, "RegularCost": 1,
		},
		"StorageCost": map[string]uint64{
			"Read": 1000, "Write": 10000, "Add": 5000,
		},
		"HostFunctionCost": map[string]uint64{
			"read": 500, "write": 1500, "remove": 1500, "print": 200,
			"return": 100, "copy_input": 100, "create": 2_500_000,
			"call": 10_000, "upgrade": 2_500_000, "env_balance": 300,
			"env_info": 300, "transfer": 2_500_000_000, "emit": 1200,
		},
		"Limits": map[string]uint64{
			"MaxMemoryPages": 64, "MaxStackHeight": 65536,
			"MaxParameterCount": 32, "MaxModuleSizeBytes": 4 * 1024 * 1024,
			"MaxTopicNameLength": 256, "MaxTopicsPerEntity": 128,
			"MaxMessagePayloadSize": 1024, "MaxMessagesPerBlock": 1000,
		},
	}
}

// Package wasmengine adapts wasmer-go into the engine's Wasm Engine
// surface: module preparation (reject a start section, require a memory
// section or an import section, reject excess parameter arity), instantiation against a set of
// host imports, and trap-to-error mapping, grounded on the public
// wasmer-go API the retrieval corpus exercises (spec.md §4.6 "Wasm Engine
// Adapter").
package wasmengine

import (
	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/casper-network/casper-execution-engine-go/engine/config"
	engerrors "github.com/casper-network/casper-execution-engine-go/engine/errors"
)

// Engine wraps a wasmer.Engine plus the store it compiles modules
// against; one Engine is shared across every invocation within a single
// execution (matching the teacher's vmHost holding one compiler engine
// for the life of the host instance).
type Engine struct {
	engine *wasmer.Engine
}

// NewEngine builds a fresh wasmer compiler engine.
func NewEngine() *Engine {
	return &Engine{engine: wasmer.NewEngine()}
}

// Module is a parsed, validated Wasm module ready for instantiation.
type Module struct {
	store *wasmer.Store
	inner *wasmer.Module

	sections sectionSet
	analysis *moduleAnalysis
}

// Prepare parses code, rejects a start section, requires a memory section
// unless the module has an import section (its entries are not checked for
// an imported memory), and rejects any function type whose parameter count
// exceeds wasmCfg.MaxParameterCount, mirroring the teacher's
// module-preparation gate run before metering injection
// (arwen/host/arwen.go's RunSmartContractCreate/RunSmartContractCall call
// into wasmer.Compile after these same category of checks).
func Prepare(e *Engine, code []byte, wasmCfg config.WasmConfig) (*Module, error) {
	if uint64(len(code)) > wasmCfg.MaxModuleSizeBytes {
		return nil, engerrors.New(engerrors.KindPreparation, engerrors.ErrWasmPreprocessing, "module size %d exceeds max %d", len(code), wasmCfg.MaxModuleSizeBytes)
	}

	sections, err := parseSections(code)
	if err != nil {
		return nil, err
	}
	if _, hasStart := sections[sectionStart]; hasStart {
		return nil, engerrors.Wrap(engerrors.KindPreparation, engerrors.ErrStartSectionForbidden, nil, "module declares a start section")
	}
	if _, hasMemory := sections[sectionMemory]; !hasMemory {
		if _, hasImport := sections[sectionImport]; !hasImport {
			return nil, engerrors.Wrap(engerrors.KindPreparation, engerrors.ErrMissingMemorySection, nil, "module declares no memory")
		}
	}
	maxParams, err := maxParameterCount(sections)
	if err != nil {
		return nil, err
	}
	if maxParams > wasmCfg.MaxParameterCount {
		return nil, engerrors.Wrap(engerrors.KindPreparation, engerrors.ErrTooManyParameters, nil, "declares %d parameters, max is %d", maxParams, wasmCfg.MaxParameterCount)
	}

	analysis, err := analyzeModule(sections, wasmCfg.OpcodeCosts)
	if err != nil {
		return nil, err
	}

	store := wasmer.NewStore(e.engine)
	mod, err := wasmer.NewModule(store, code)
	if err != nil {
		return nil, engerrors.Wrap(engerrors.KindPreparation, engerrors.ErrWasmPreprocessing, err, "compiling module")
	}
	return &Module{store: store, inner: mod, sections: sections, analysis: analysis}, nil
}

// HasExport reports whether the module exports entryPoint, used by the
// resolver to enforce that a requested entry point actually exists before
// the engine pays for instantiation.
func (m *Module) HasExport(entryPoint string) bool {
	for _, exp := range m.inner.Exports() {
		if exp.Name() == entryPoint {
			return true
		}
	}
	return false
}

// Imports builds an empty import object ready for host functions to be
// registered into under the "env" namespace, mirroring the pack's
// wasmer-go usage (registerHost's `imports.Register("env", ...)`).
func (m *Module) Imports() *wasmer.ImportObject {
	return wasmer.NewImportObject()
}

// Store exposes the module's compilation store, needed by callers that
// register host functions via wasmer.NewFunction(store, ...) before
// instantiating.
func (m *Module) Store() *wasmer.Store {
	return m.store
}

// Instance is an instantiated module ready to invoke an exported entry
// point.
type Instance struct {
	inner *wasmer.Instance
}

// Instantiate links imports into the module and instantiates it, mapping
// any linking/start-invocation error into an engine error.
func Instantiate(m *Module, imports *wasmer.ImportObject) (*Instance, error) {
	inst, err := wasmer.NewInstance(m.inner, imports)
	if err != nil {
		return nil, engerrors.Wrap(engerrors.KindExecution, engerrors.ErrTrapped, err, "instantiating module")
	}
	return &Instance{inner: inst}, nil
}

// Memory returns the instance's exported linear memory.
func (i *Instance) Memory() (*wasmer.Memory, error) {
	mem, err := i.inner.Exports.GetMemory("memory")
	if err != nil {
		return nil, engerrors.Wrap(engerrors.KindExecution, engerrors.ErrNotCallable, err, "memory export missing")
	}
	return mem, nil
}

// Call invokes the named export with args, mapping a wasmer trap into the
// engine's ErrTrapped sentinel.
func (i *Instance) Call(entryPoint string, args ...interface{}) (interface{}, error) {
	fn, err := i.inner.Exports.GetFunction(entryPoint)
	if err != nil {
		return nil, engerrors.Wrap(engerrors.KindExecution, engerrors.ErrNotCallable, err, "entry point %q not exported", entryPoint)
	}
	result, err := fn(args...)
	if err != nil {
		return nil, engerrors.Wrap(engerrors.KindExecution, engerrors.ErrTrapped, err, "calling %q", entryPoint)
	}
	return result, nil
}

// ReadBytes copies length bytes out of the instance's linear memory
// starting at ptr, bounds-checked against the memory's current size.
func ReadBytes(mem *wasmer.Memory, ptr, length int32) ([]byte, error) {
	data := mem.Data()
	if ptr < 0 || length < 0 || int(ptr)+int(length) > len(data) {
		return nil, engerrors.New(engerrors.KindExecution, engerrors.ErrTrapped, "memory access out of bounds: ptr=%d len=%d size=%d", ptr, length, len(data))
	}
	out := make([]byte, length)
	copy(out, data[ptr:ptr+length])
	return out, nil
}

// WriteBytes copies value into the instance's linear memory starting at
// ptr, bounds-checked against the memory's current size.
func WriteBytes(mem *wasmer.Memory, ptr int32, value []byte) error {
	data := mem.Data()
	if ptr < 0 || int(ptr)+len(value) > len(data) {
		return engerrors.New(engerrors.KindExecution, engerrors.ErrTrapped, "memory write out of bounds: ptr=%d len=%d size=%d", ptr, len(value), len(data))
	}
	copy(data[ptr:], value)
	return nil
}

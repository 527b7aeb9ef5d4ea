package wasmengine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casper-network/casper-execution-engine-go/engine/config"
)

// chainModule builds a module of depth functions, each calling the next by
// index, the last one returning immediately: function 0's static call chain
// is exactly depth frames deep. Every function shares one type (no params,
// no results) and function 0 is exported as "call_entry".
func chainModule(depth int) []byte {
	typeSection := appendULEB128([]byte{}, 1)
	typeSection = append(typeSection, 0x60, 0x00, 0x00)

	funcSection := appendULEB128([]byte{}, uint64(depth))
	for i := 0; i < depth; i++ {
		funcSection = append(funcSection, 0x00)
	}

	exportName := "call_entry"
	exportSection := appendULEB128([]byte{}, 1)
	exportSection = appendULEB128(exportSection, uint64(len(exportName)))
	exportSection = append(exportSection, exportName...)
	exportSection = append(exportSection, 0x00) // kind: func
	exportSection = appendULEB128(exportSection, 0)

	codeSection := appendULEB128([]byte{}, uint64(depth))
	for i := 0; i < depth; i++ {
		var expr []byte
		if i < depth-1 {
			expr = append(expr, 0x10) // call
			expr = appendULEB128(expr, uint64(i+1))
		}
		expr = append(expr, 0x0b) // end
		body := append([]byte{0x00}, expr...) // 0 local decls
		codeSection = appendULEB128(codeSection, uint64(len(body)))
		codeSection = append(codeSection, body...)
	}

	return minimalModule(
		section(sectionType, typeSection),
		section(sectionFunction, funcSection),
		section(sectionExport, exportSection),
		section(sectionCode, codeSection),
	)
}

func TestAnalyzeModule_DepthMatchesCallChainLength(t *testing.T) {
	t.Parallel()

	sections, err := parseSections(chainModule(15))
	require.NoError(t, err)
	analysis, err := analyzeModule(sections, config.OpcodeCosts{ControlFlow: 1})
	require.NoError(t, err)

	require.EqualValues(t, 15, analysis.depth(0))
}

func TestModule_CheckStackHeight_TrapsAtConfiguredDepth(t *testing.T) {
	t.Parallel()

	sections, err := parseSections(chainModule(16))
	require.NoError(t, err)
	analysis, err := analyzeModule(sections, config.OpcodeCosts{ControlFlow: 1})
	require.NoError(t, err)
	mod := &Module{sections: sections, analysis: analysis}

	err = mod.CheckStackHeight("call_entry", 16)
	require.Error(t, err)
}

func TestModule_CheckStackHeight_SucceedsBelowConfiguredDepth(t *testing.T) {
	t.Parallel()

	sections, err := parseSections(chainModule(15))
	require.NoError(t, err)
	analysis, err := analyzeModule(sections, config.OpcodeCosts{ControlFlow: 1})
	require.NoError(t, err)
	mod := &Module{sections: sections, analysis: analysis}

	require.NoError(t, mod.CheckStackHeight("call_entry", 16))
}

func TestModule_StaticOpcodeCost_SumsControlFlowCost(t *testing.T) {
	t.Parallel()

	sections, err := parseSections(chainModule(3))
	require.NoError(t, err)
	analysis, err := analyzeModule(sections, config.OpcodeCosts{ControlFlow: 5})
	require.NoError(t, err)
	mod := &Module{sections: sections, analysis: analysis}

	cost, err := mod.StaticOpcodeCost("call_entry")
	require.NoError(t, err)
	// function 0's body is `call 1; end`: two control-flow opcodes.
	require.EqualValues(t, 10, cost)
}

func TestAnalyzeModule_CyclicCallChainIsUnbounded(t *testing.T) {
	t.Parallel()

	// Two functions calling each other: 0 -> 1 -> 0.
	typeSection := appendULEB128([]byte{}, 1)
	typeSection = append(typeSection, 0x60, 0x00, 0x00)

	funcSection := appendULEB128([]byte{}, 2)
	funcSection = append(funcSection, 0x00, 0x00)

	codeSection := appendULEB128([]byte{}, 2)
	body0 := []byte{0x00, 0x10, 0x01, 0x0b} // 0 locals, call 1, end
	body1 := []byte{0x00, 0x10, 0x00, 0x0b} // 0 locals, call 0, end
	codeSection = appendULEB128(codeSection, uint64(len(body0)))
	codeSection = append(codeSection, body0...)
	codeSection = appendULEB128(codeSection, uint64(len(body1)))
	codeSection = append(codeSection, body1...)

	code := minimalModule(
		section(sectionType, typeSection),
		section(sectionFunction, funcSection),
		section(sectionCode, codeSection),
	)
	sections, err := parseSections(code)
	require.NoError(t, err)
	analysis, err := analyzeModule(sections, config.OpcodeCosts{ControlFlow: 1})
	require.NoError(t, err)

	require.EqualValues(t, unboundedDepth, analysis.depth(0))
}

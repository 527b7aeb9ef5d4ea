package wasmengine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func section(id byte, payload []byte) []byte {
	out := []byte{id}
	out = appendULEB128(out, uint64(len(payload)))
	return append(out, payload...)
}

func appendULEB128(buf []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf = append(buf, b)
		if v == 0 {
			return buf
		}
	}
}

func minimalModule(extra ...[]byte) []byte {
	out := append([]byte{}, wasmMagic[:]...)
	out = append(out, 0x01, 0x00, 0x00, 0x00)
	for _, s := range extra {
		out = append(out, s...)
	}
	return out
}

func TestParseSections_DetectsStartAndMemory(t *testing.T) {
	t.Parallel()

	code := minimalModule(
		section(sectionMemory, []byte{0x01, 0x00, 0x01}),
		section(sectionStart, []byte{0x00}),
	)
	sections, err := parseSections(code)
	require.NoError(t, err)
	_, hasStart := sections[sectionStart]
	require.True(t, hasStart)
	_, hasMemory := sections[sectionMemory]
	require.True(t, hasMemory)
}

func TestParseSections_RejectsNonWasm(t *testing.T) {
	t.Parallel()
	_, err := parseSections([]byte("not wasm"))
	require.Error(t, err)
}

func TestMaxParameterCount(t *testing.T) {
	t.Parallel()

	typeSection := []byte{0x02}
	typeSection = append(typeSection, 0x60, 0x03, 0x7f, 0x7f, 0x7f, 0x00)
	typeSection = append(typeSection, 0x60, 0x01, 0x7f, 0x01, 0x7f)

	sections := sectionSet{sectionType: typeSection}
	max, err := maxParameterCount(sections)
	require.NoError(t, err)
	require.EqualValues(t, 3, max)
}

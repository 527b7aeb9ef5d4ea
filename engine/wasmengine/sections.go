package wasmengine

import (
	engerrors "github.com/casper-network/casper-execution-engine-go/engine/errors"
)

// Wasm binary format section ids (https://webassembly.github.io/spec/core/binary/modules.html).
const (
	sectionType     byte = 1
	sectionImport   byte = 2
	sectionFunction byte = 3
	sectionMemory   byte = 5
	sectionStart    byte = 8
	sectionExport   byte = 7
	sectionCode     byte = 10
)

var wasmMagic = [4]byte{0x00, 0x61, 0x73, 0x6d}

// sectionSet is the raw payload of every top-level section in a module,
// keyed by section id. Preparation walks this instead of re-parsing the
// module for every individual check.
type sectionSet map[byte][]byte

// parseSections walks a Wasm module's top-level section headers. No
// section-walking library appears anywhere in the retrieval corpus, so
// this is a direct reading of the binary format spec rather than an
// adaptation of any example; it only reads section ids and byte ranges,
// never decodes instructions.
func parseSections(code []byte) (sectionSet, error) {
	if len(code) < 8 || [4]byte(code[:4]) != wasmMagic {
		return nil, engerrors.New(engerrors.KindPreparation, engerrors.ErrWasmPreprocessing, "not a wasm binary")
	}
	sections := sectionSet{}
	offset := 8
	for offset < len(code) {
		id := code[offset]
		offset++
		size, n, err := readULEB128(code[offset:])
		if err != nil {
			return nil, engerrors.Wrap(engerrors.KindPreparation, engerrors.ErrWasmPreprocessing, err, "reading section header")
		}
		offset += n
		end := offset + int(size)
		if end > len(code) {
			return nil, engerrors.New(engerrors.KindPreparation, engerrors.ErrWasmPreprocessing, "truncated section %d", id)
		}
		sections[id] = code[offset:end]
		offset = end
	}
	return sections, nil
}

func readULEB128(buf []byte) (uint64, int, error) {
	var result uint64
	var shift uint
	for i, b := range buf {
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, i + 1, nil
		}
		shift += 7
		if shift > 63 {
			return 0, 0, engerrors.New(engerrors.KindPreparation, engerrors.ErrWasmPreprocessing, "malformed varuint")
		}
	}
	return 0, 0, engerrors.New(engerrors.KindPreparation, engerrors.ErrWasmPreprocessing, "truncated varuint")
}

// readSLEB128 decodes a signed LEB128 varint, used for blocktype immediates
// and const instructions' numeric payloads.
func readSLEB128(buf []byte) (int64, int, error) {
	var result int64
	var shift uint
	for i, b := range buf {
		result |= int64(b&0x7f) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 64 && b&0x40 != 0 {
				result |= -1 << shift
			}
			return result, i + 1, nil
		}
		if shift > 63 {
			return 0, 0, engerrors.New(engerrors.KindPreparation, engerrors.ErrWasmPreprocessing, "malformed varint")
		}
	}
	return 0, 0, engerrors.New(engerrors.KindPreparation, engerrors.ErrWasmPreprocessing, "truncated varint")
}

// maxParameterCount scans the type section and returns the widest
// parameter list declared by any function type, used to reject modules
// whose entry points exceed max_parameter_count before instantiation.
func maxParameterCount(sections sectionSet) (uint32, error) {
	payload, ok := sections[sectionType]
	if !ok {
		return 0, nil
	}
	count, n, err := readULEB128(payload)
	if err != nil {
		return 0, err
	}
	offset := n
	var max uint32
	for i := uint64(0); i < count; i++ {
		if offset >= len(payload) || payload[offset] != 0x60 {
			return 0, engerrors.New(engerrors.KindPreparation, engerrors.ErrWasmPreprocessing, "unsupported type form")
		}
		offset++
		paramCount, n, err := readULEB128(payload[offset:])
		if err != nil {
			return 0, err
		}
		offset += n + int(paramCount)
		if uint32(paramCount) > max {
			max = uint32(paramCount)
		}
		resultCount, n, err := readULEB128(payload[offset:])
		if err != nil {
			return 0, err
		}
		offset += n + int(resultCount)
	}
	return max, nil
}

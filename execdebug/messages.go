package execdebug

import (
	"encoding/hex"
	"os"

	"github.com/casper-network/casper-execution-engine-go/engine/types"
)

// LoadCode resolves contract bytecode from either an inline hex string or
// a file path, preferring the inline form when both are supplied,
// grounded on arwendebug/messages.go's DeployRequest.getCode.
func LoadCode(codeHex, codePath string) ([]byte, error) {
	if codeHex != "" {
		return hex.DecodeString(codeHex)
	}
	return os.ReadFile(codePath)
}

// DecodeAddress32 hex-decodes a 32-byte entity address, zero-padding or
// truncating to fit.
func DecodeAddress32(addrHex string) ([32]byte, error) {
	var out [32]byte
	raw, err := hex.DecodeString(addrHex)
	if err != nil {
		return out, err
	}
	copy(out[:], raw)
	return out, nil
}

// DecodeAddress20 hex-decodes a 20-byte account hash, zero-padding or
// truncating to fit.
func DecodeAddress20(addrHex string) ([20]byte, error) {
	var out [20]byte
	raw, err := hex.DecodeString(addrHex)
	if err != nil {
		return out, err
	}
	copy(out[:], raw)
	return out, nil
}

// ArgsAsInput hex-decodes a flat list of CLI-supplied argument strings,
// concatenates them, and packs the result under the "input" named
// argument every contract entry point reads via `copy_input`, grounded on
// arwendebug/common.go's decodeArguments.
func ArgsAsInput(arguments []string) (map[string]types.CLValue, error) {
	joined := make([]byte, 0)
	for _, arg := range arguments {
		decoded, err := hex.DecodeString(arg)
		if err != nil {
			return nil, err
		}
		joined = append(joined, decoded...)
	}
	return map[string]types.CLValue{
		"input": {Type: types.CLTypeBytes, Bytes: joined},
	}, nil
}

package host

import (
	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/casper-network/casper-execution-engine-go/engine/hostfn"
	"github.com/casper-network/casper-execution-engine-go/engine/types"
	"github.com/casper-network/casper-execution-engine-go/engine/wasmengine"
)

// buildImports registers the Host-Function Surface under the "env"
// namespace, one wasmer function per op, each taking/returning i32
// pointer-length pairs into the instance's linear memory, the same
// calling convention the pack's wasmer-go usage (other_examples'
// Synnergy virtual_machine.go registerHost) follows for host_read/
// host_write/host_log.
func buildImports(store *wasmer.Store, surface *hostfn.Surface) (*wasmer.ImportObject, func(*wasmer.Memory)) {
	imports := wasmer.NewImportObject()

	// instanceMem is nil while the import table is being assembled and
	// linked; wasmer resolves imports before an Instance (and therefore its
	// exported memory) exists. setMemory lets the caller plug the real
	// memory in once Instantiate returns, the same late-bind the Synnergy
	// registerHost closures use via hostCtx.mem.
	var instanceMem *wasmer.Memory
	setMemory := func(m *wasmer.Memory) { instanceMem = m }

	i32i32 := wasmer.NewValueTypes(wasmer.I32, wasmer.I32)
	i32x3 := wasmer.NewValueTypes(wasmer.I32, wasmer.I32, wasmer.I32)
	i32x4 := wasmer.NewValueTypes(wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32)
	noResult := wasmer.NewValueTypes()
	oneResult := wasmer.NewValueTypes(wasmer.I32)

	readBytes := func(ptr, length int32) ([]byte, error) {
		return wasmengine.ReadBytes(instanceMem, ptr, length)
	}
	writeBytes := func(ptr int32, value []byte) error {
		return wasmengine.WriteBytes(instanceMem, ptr, value)
	}

	hostRead := wasmer.NewFunction(store, wasmer.NewFunctionType(i32x3, oneResult),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			keyPtr, keyLen, outPtr := args[0].I32(), args[1].I32(), args[2].I32()
			keyBytes, err := readBytes(keyPtr, keyLen)
			if err != nil {
				return nil, err
			}
			value, err := surface.Read(types.UnforgeableKey(addr32(keyBytes)))
			if err != nil {
				return []wasmer.Value{wasmer.NewI32(-1)}, nil
			}
			if err := writeBytes(outPtr, value); err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(int32(len(value)))}, nil
		})

	hostWrite := wasmer.NewFunction(store, wasmer.NewFunctionType(i32x4, oneResult),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			keyPtr, keyLen, valPtr, valLen := args[0].I32(), args[1].I32(), args[2].I32(), args[3].I32()
			keyBytes, err := readBytes(keyPtr, keyLen)
			if err != nil {
				return nil, err
			}
			value, err := readBytes(valPtr, valLen)
			if err != nil {
				return nil, err
			}
			if err := surface.Write(types.UnforgeableKey(addr32(keyBytes)), value); err != nil {
				return []wasmer.Value{wasmer.NewI32(-1)}, nil
			}
			return []wasmer.Value{wasmer.NewI32(0)}, nil
		})

	hostRemove := wasmer.NewFunction(store, wasmer.NewFunctionType(i32i32, oneResult),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			keyPtr, keyLen := args[0].I32(), args[1].I32()
			keyBytes, err := readBytes(keyPtr, keyLen)
			if err != nil {
				return nil, err
			}
			if err := surface.Remove(types.UnforgeableKey(addr32(keyBytes))); err != nil {
				return []wasmer.Value{wasmer.NewI32(-1)}, nil
			}
			return []wasmer.Value{wasmer.NewI32(0)}, nil
		})

	hostPrint := wasmer.NewFunction(store, wasmer.NewFunctionType(i32i32, noResult),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			ptr, length := args[0].I32(), args[1].I32()
			msg, err := readBytes(ptr, length)
			if err != nil {
				return nil, err
			}
			if err := surface.Print(msg); err != nil {
				return nil, err
			}
			return []wasmer.Value{}, nil
		})

	hostReturn := wasmer.NewFunction(store, wasmer.NewFunctionType(i32i32, noResult),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			ptr, length := args[0].I32(), args[1].I32()
			value, err := readBytes(ptr, length)
			if err != nil {
				return nil, err
			}
			if err := surface.Return(value); err != nil {
				return nil, err
			}
			return []wasmer.Value{}, nil
		})

	hostCopyInput := wasmer.NewFunction(store, wasmer.NewFunctionType(i32x3, oneResult),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			namePtr, nameLen, outPtr := args[0].I32(), args[1].I32(), args[2].I32()
			name, err := readBytes(namePtr, nameLen)
			if err != nil {
				return nil, err
			}
			value, err := surface.CopyInput(string(name))
			if err != nil {
				return []wasmer.Value{wasmer.NewI32(-1)}, nil
			}
			if err := writeBytes(outPtr, value); err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(int32(len(value)))}, nil
		})

	hostEmit := wasmer.NewFunction(store, wasmer.NewFunctionType(i32x4, oneResult),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			topicPtr, topicLen, payloadPtr, payloadLen := args[0].I32(), args[1].I32(), args[2].I32(), args[3].I32()
			topic, err := readBytes(topicPtr, topicLen)
			if err != nil {
				return nil, err
			}
			payload, err := readBytes(payloadPtr, payloadLen)
			if err != nil {
				return nil, err
			}
			if err := surface.Emit(string(topic), payload); err != nil {
				return []wasmer.Value{wasmer.NewI32(-1)}, nil
			}
			return []wasmer.Value{wasmer.NewI32(0)}, nil
		})

	hostCall := wasmer.NewFunction(store, wasmer.NewFunctionType(wasmer.NewValueTypes(
		wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32), oneResult),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			addrPtr, addrLen := args[0].I32(), args[1].I32()
			epPtr, epLen := args[2].I32(), args[3].I32()
			value := args[4].I32()
			inPtr, inLen := args[5].I32(), args[6].I32()

			addrBytes, err := readBytes(addrPtr, addrLen)
			if err != nil {
				return nil, err
			}
			entryPoint, err := readBytes(epPtr, epLen)
			if err != nil {
				return nil, err
			}
			input, err := readBytes(inPtr, inLen)
			if err != nil {
				return nil, err
			}
			result, err := surface.Call(addr32(addrBytes), string(entryPoint), uint64(value), input)
			if err != nil {
				return []wasmer.Value{wasmer.NewI32(-1)}, nil
			}
			return []wasmer.Value{wasmer.NewI32(int32(result.Code))}, nil
		})

	hostEnvBalance := wasmer.NewFunction(store, wasmer.NewFunctionType(i32i32, wasmer.NewValueTypes(wasmer.I64)),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			addrPtr, addrLen := args[0].I32(), args[1].I32()
			addrBytes, err := readBytes(addrPtr, addrLen)
			if err != nil {
				return nil, err
			}
			amount, err := surface.EnvBalance(types.NewURef(addr32(addrBytes), types.RightRead))
			if err != nil {
				return []wasmer.Value{wasmer.NewI64(-1)}, nil
			}
			return []wasmer.Value{wasmer.NewI64(int64(amount))}, nil
		})

	hostEnvInfo := wasmer.NewFunction(store, wasmer.NewFunctionType(wasmer.NewValueTypes(wasmer.I64, wasmer.I32), noResult),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			transferredValue, outPtr := args[0].I64(), args[1].I32()
			info, err := surface.EnvInfo(uint64(transferredValue))
			if err != nil {
				return nil, err
			}
			encoded := encodeEnvInfo(info)
			if err := writeBytes(outPtr, encoded); err != nil {
				return nil, err
			}
			return []wasmer.Value{}, nil
		})

	hostTransfer := wasmer.NewFunction(store, wasmer.NewFunctionType(wasmer.NewValueTypes(
		wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I64), oneResult),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			srcPtr, srcLen := args[0].I32(), args[1].I32()
			dstPtr, dstLen := args[2].I32(), args[3].I32()
			amount := args[4].I64()

			srcBytes, err := readBytes(srcPtr, srcLen)
			if err != nil {
				return nil, err
			}
			dstBytes, err := readBytes(dstPtr, dstLen)
			if err != nil {
				return nil, err
			}
			source := types.NewURef(addr32(srcBytes), types.RightWrite)
			if err := surface.Transfer(source, entityAddr20(addr32(dstBytes)), uint64(amount)); err != nil {
				return []wasmer.Value{wasmer.NewI32(-1)}, nil
			}
			return []wasmer.Value{wasmer.NewI32(0)}, nil
		})

	hostCreate := wasmer.NewFunction(store, wasmer.NewFunctionType(wasmer.NewValueTypes(
		wasmer.I32, wasmer.I32, wasmer.I64, wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32), oneResult),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			codePtr, codeLen := args[0].I32(), args[1].I32()
			value := args[2].I64()
			ctorPtr, ctorLen := args[3].I32(), args[4].I32()
			inPtr, inLen := args[5].I32(), args[6].I32()
			seedPtr, seedLen := args[7].I32(), args[8].I32()
			outAddrPtr := args[9].I32()

			code, err := readBytes(codePtr, codeLen)
			if err != nil {
				return nil, err
			}
			ctorEntryPoint, err := readBytes(ctorPtr, ctorLen)
			if err != nil {
				return nil, err
			}
			input, err := readBytes(inPtr, inLen)
			if err != nil {
				return nil, err
			}
			seed, err := readBytes(seedPtr, seedLen)
			if err != nil {
				return nil, err
			}
			newAddr, err := surface.Create(code, uint64(value), string(ctorEntryPoint), input, seed)
			if err != nil {
				return []wasmer.Value{wasmer.NewI32(-1)}, nil
			}
			if err := writeBytes(outAddrPtr, newAddr[:]); err != nil {
				return nil, err
			}
			return []wasmer.Value{wasmer.NewI32(0)}, nil
		})

	hostUpgrade := wasmer.NewFunction(store, wasmer.NewFunctionType(i32x4, oneResult),
		func(args []wasmer.Value) ([]wasmer.Value, error) {
			codePtr, codeLen, epPtr, epLen := args[0].I32(), args[1].I32(), args[2].I32(), args[3].I32()
			code, err := readBytes(codePtr, codeLen)
			if err != nil {
				return nil, err
			}
			entryPoint, err := readBytes(epPtr, epLen)
			if err != nil {
				return nil, err
			}
			if err := surface.Upgrade(code, string(entryPoint), nil); err != nil {
				return []wasmer.Value{wasmer.NewI32(-1)}, nil
			}
			return []wasmer.Value{wasmer.NewI32(0)}, nil
		})

	imports.Register("env", map[string]wasmer.IntoExtern{
		"casper_read":        hostRead,
		"casper_write":       hostWrite,
		"casper_remove":      hostRemove,
		"casper_print":       hostPrint,
		"casper_return":      hostReturn,
		"casper_copy_input":  hostCopyInput,
		"casper_env_balance": hostEnvBalance,
		"casper_env_info":    hostEnvInfo,
		"casper_transfer":    hostTransfer,
		"casper_emit":        hostEmit,
		"casper_call":        hostCall,
		"casper_create":      hostCreate,
		"casper_upgrade":     hostUpgrade,
	})

	return imports, setMemory
}

func addr32(b []byte) [32]byte {
	var out [32]byte
	copy(out[:], b)
	return out
}

// encodeEnvInfo packs an EnvInfo into the fixed 68-byte layout contracts
// decode on their side: block_time(8) || transferred_value(8) || caller(20)
// || callee(32).
func encodeEnvInfo(info hostfn.EnvInfo) []byte {
	out := make([]byte, 0, 68)
	out = appendU64(out, info.BlockTime)
	out = appendU64(out, info.TransferredValue)
	out = append(out, info.Caller[:]...)
	out = append(out, info.Callee[:]...)
	return out
}

func appendU64(b []byte, v uint64) []byte {
	for i := 0; i < 8; i++ {
		b = append(b, byte(v>>(8*i)))
	}
	return b
}

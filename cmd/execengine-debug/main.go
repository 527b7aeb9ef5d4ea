// Command execengine-debug is a CLI harness for exercising the execution
// engine against an in-memory world: create an account, deploy a module,
// then call it. It plays the role the teacher's arwendebug facade plays
// for the arwen VM, restructured as a urfave/cli/v2 command tree instead
// of a CLI/REST dual-mode facade (this engine has no REST surface to
// share the request structs with).
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/casper-network/casper-execution-engine-go/engine/config"
	"github.com/casper-network/casper-execution-engine-go/engine/types"
	"github.com/casper-network/casper-execution-engine-go/execdebug"
)

func main() {
	cfg, err := config.New(config.DefaultGasScheduleMap(), true, config.RefundFull, config.FeePayToProposer, 64, "execengine-debug")
	if err != nil {
		fmt.Fprintln(os.Stderr, "building engine config:", err)
		os.Exit(1)
	}
	world := execdebug.NewWorld(cfg)

	app := &cli.App{
		Name:  "execengine-debug",
		Usage: "exercise the execution engine against an in-memory world",
		Commands: []*cli.Command{
			createAccountCommand(world),
			deployCommand(world),
			callCommand(world),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func createAccountCommand(world *execdebug.World) *cli.Command {
	return &cli.Command{
		Name:  "create-account",
		Usage: "seed an account with a balance",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "address", Required: true, Usage: "20-byte account hash, hex"},
			&cli.Uint64Flag{Name: "balance", Value: 0},
		},
		Action: func(c *cli.Context) error {
			accountHash, err := execdebug.DecodeAddress20(c.String("address"))
			if err != nil {
				return fmt.Errorf("invalid address: %w", err)
			}
			world.CreateAccount(accountHash, c.Uint64("balance"))
			fmt.Printf("account %x created, balance %d\n", accountHash, c.Uint64("balance"))
			return nil
		},
	}
}

func deployCommand(world *execdebug.World) *cli.Command {
	return &cli.Command{
		Name:  "deploy",
		Usage: "install a module as an install/upgrade session",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "initiator", Required: true, Usage: "20-byte initiator account hash, hex"},
			&cli.StringFlag{Name: "code", Usage: "module bytes, hex"},
			&cli.StringFlag{Name: "code-path", Usage: "path to a .wasm file"},
			&cli.StringFlag{Name: "entry-point", Value: "call"},
			&cli.Uint64Flag{Name: "gas-limit", Value: 1_000_000},
			&cli.Uint64Flag{Name: "amount", Usage: "spending_limit for any transfer this session performs"},
			&cli.StringSliceFlag{Name: "arg", Usage: "hex-encoded argument, repeatable"},
			&cli.StringFlag{Name: "graph-out", Usage: "write a Graphviz DOT rendering of the result's effects/transfers to this path"},
		},
		Action: func(c *cli.Context) error {
			code, err := execdebug.LoadCode(c.String("code"), c.String("code-path"))
			if err != nil {
				return fmt.Errorf("loading module code: %w", err)
			}

			req, err := baseRequest(world, c)
			if err != nil {
				return err
			}
			req.EntryPoint = c.String("entry-point")
			req.ExecutableItem = types.ExecutableItem{
				Tag:         types.ExecutableSessionBytes,
				ModuleBytes: code,
				SessionKind: types.SessionKindInstallUpgradeBytecode,
			}

			result := world.Execute(req)
			printResult(result)
			return writeGraph(result, c.String("graph-out"))
		},
	}
}

func callCommand(world *execdebug.World) *cli.Command {
	return &cli.Command{
		Name:  "call",
		Usage: "run a stored entity's entry point",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "initiator", Required: true, Usage: "20-byte initiator account hash, hex"},
			&cli.StringFlag{Name: "entity", Required: true, Usage: "32-byte entity address, hex"},
			&cli.StringFlag{Name: "entry-point", Required: true},
			&cli.Uint64Flag{Name: "gas-limit", Value: 1_000_000},
			&cli.Uint64Flag{Name: "amount", Usage: "spending_limit for any transfer this session performs"},
			&cli.StringSliceFlag{Name: "arg", Usage: "hex-encoded argument, repeatable"},
			&cli.StringFlag{Name: "graph-out", Usage: "write a Graphviz DOT rendering of the result's effects/transfers to this path"},
		},
		Action: func(c *cli.Context) error {
			entityAddr, err := execdebug.DecodeAddress32(c.String("entity"))
			if err != nil {
				return fmt.Errorf("invalid entity address: %w", err)
			}

			req, err := baseRequest(world, c)
			if err != nil {
				return err
			}
			req.EntryPoint = c.String("entry-point")
			req.ExecutableItem = types.ExecutableItem{
				Tag: types.ExecutableInvocation,
				Invocation: types.TransactionInvocationTarget{
					Tag:        types.TargetByHash,
					ByHashAddr: entityAddr,
				},
			}

			result := world.Execute(req)
			printResult(result)
			return writeGraph(result, c.String("graph-out"))
		},
	}
}

func baseRequest(world *execdebug.World, c *cli.Context) (types.WasmV1Request, error) {
	initiator, err := execdebug.DecodeAddress20(c.String("initiator"))
	if err != nil {
		return types.WasmV1Request{}, fmt.Errorf("invalid initiator: %w", err)
	}

	args, err := execdebug.ArgsAsInput(c.StringSlice("arg"))
	if err != nil {
		return types.WasmV1Request{}, fmt.Errorf("invalid argument: %w", err)
	}
	args["amount"] = types.U64CLValue(c.Uint64("amount"))

	return types.WasmV1Request{
		BlockInfo:         types.BlockInfo{StateHash: world.StateHash()},
		GasLimit:          types.Gas(c.Uint64("gas-limit")),
		InitiatorAddr:     types.InitiatorAddr{AccountHash: initiator},
		AuthorizationKeys: map[[20]byte]struct{}{initiator: {}},
		Args:              args,
	}, nil
}

// writeGraph renders result's effects/transfers as Graphviz DOT to path, or
// does nothing if path is empty.
func writeGraph(result types.WasmV1Result, path string) error {
	if path == "" {
		return nil
	}
	g, err := execdebug.EffectsGraph(result)
	if err != nil {
		return fmt.Errorf("building effects graph: %w", err)
	}
	if err := os.WriteFile(path, []byte(g.String()), 0o644); err != nil {
		return fmt.Errorf("writing graph: %w", err)
	}
	return nil
}

func printResult(result types.WasmV1Result) {
	if result.RootNotFound {
		fmt.Println("root not found:", hex.EncodeToString(result.StateHashQueried[:]))
		return
	}
	if result.HasError {
		fmt.Println("error:", result.ErrorMessage)
		return
	}
	fmt.Printf("ok, gas consumed %d/%d, return value %x\n", result.Consumed, result.Limit, result.ReturnValue)
	for _, transfer := range result.Transfers {
		fmt.Printf("  transfer %x -> %x: %d\n", transfer.From, transfer.To, transfer.Amount)
	}
	for _, msg := range result.Messages {
		fmt.Printf("  message %q[%d]: %x\n", msg.Topic, msg.Index, msg.Payload)
	}
}

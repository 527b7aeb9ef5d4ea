package testutil

import (
	"testing"

	"github.com/casper-network/casper-execution-engine-go/engine/types"
)

// ScenarioWorld is the subset of execdebug.World a scenario drives. It is
// spelled out as an interface, rather than importing execdebug directly, so
// that testutil stays a leaf package any other package can import without
// pulling in the debug harness.
type ScenarioWorld interface {
	CreateAccount(accountHash [20]byte, balance uint64)
	StateHash() [32]byte
	Execute(req types.WasmV1Request) types.WasmV1Result
}

// Step is one action in a scenario: seed state, run a request and check its
// result, or run an arbitrary assertion against the world. It is the
// Go-native stand-in for one step of a mandos scenario file, playing the
// role the teacher's testSmartContract/TestConfig combination plays in
// shaping a single test's fixture (testcommon/mockTestSmartContract.go).
type Step func(t *testing.T, w ScenarioWorld)

// RunScenario runs steps in order against w, failing fast (via t.Fatal
// through require, inside the steps themselves) the first time one doesn't
// hold. Scenarios are written as ordered Go-native steps instead of
// MultiversX's mandos JSON format; this package's tests use it for a
// missing-entity call and an account-seeding scenario.
func RunScenario(t *testing.T, w ScenarioWorld, steps ...Step) {
	t.Helper()
	for i, step := range steps {
		t.Logf("scenario step %d", i)
		step(t, w)
	}
}

// CreateAccount is a Step that seeds an account with a balance.
func CreateAccount(accountHash [20]byte, balance uint64) Step {
	return func(t *testing.T, w ScenarioWorld) {
		t.Helper()
		w.CreateAccount(accountHash, balance)
	}
}

// Run is a Step that executes req and passes the result to check, the
// scenario's equivalent of the teacher's VMOutputVerifier-driven assertion
// block at the end of a test.
func Run(req types.WasmV1Request, check func(t *testing.T, v *ResultVerifier)) Step {
	return func(t *testing.T, w ScenarioWorld) {
		t.Helper()
		result := w.Execute(req)
		check(t, Verify(t, result))
	}
}

// Assert is a Step for a bare assertion against the world that doesn't fit
// the Run shape, e.g. checking a balance directly.
func Assert(fn func(t *testing.T, w ScenarioWorld)) Step {
	return fn
}

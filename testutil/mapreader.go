// Package testutil is the shared test harness: a reusable in-memory
// StateReader, a fluent WasmV1Result verifier in the teacher's
// VMOutputVerifier idiom, and a small Go-native scenario runner standing
// in for the mandos JSON format the teacher ports from a different host
// language (spec.md §5.6 "Scenario-style golden tests").
package testutil

import "github.com/casper-network/casper-execution-engine-go/engine/types"

// MapReader is a StateReader backed by a plain map, the consolidated form
// of the ad hoc stubReader/blankReader/emptyReader types duplicated across
// this module's package test files. It is the reusable shape; leaf
// packages (engine/trackingcopy, engine/hostfn, engine/host) keep small
// package-local equivalents in their own _test.go files where pulling in
// this package would be one import for a three-line type.
type MapReader struct {
	Values map[types.Key]types.StoredValue
}

// NewMapReader builds an empty MapReader.
func NewMapReader() *MapReader {
	return &MapReader{Values: map[types.Key]types.StoredValue{}}
}

// Read implements trackingcopy.StateReader.
func (r *MapReader) Read(key types.Key) (types.StoredValue, bool, error) {
	v, ok := r.Values[key]
	return v, ok, nil
}

// Put seeds key with value, for use before a test runs.
func (r *MapReader) Put(key types.Key, value types.StoredValue) {
	r.Values[key] = value
}

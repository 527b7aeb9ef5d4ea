package trackingcopy

import "github.com/casper-network/casper-execution-engine-go/engine/types"

// StateReader is the narrow capability a Tracking Copy needs from whatever
// holds the authoritative, immutable global state at a given root hash.
// Non-goals exclude the storage/trie engine itself (spec.md §6); this
// interface is the entire surface the execution core requires of it.
type StateReader interface {
	// Read returns the StoredValue at key as of the reader's root hash, or
	// found=false if no value is stored there.
	Read(key types.Key) (value types.StoredValue, found bool, err error)
}

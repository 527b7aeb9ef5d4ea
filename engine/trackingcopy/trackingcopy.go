// Package trackingcopy implements the buffered mutable view over the
// immutable global state that every execution reads and writes through:
// reads fall back to the underlying StateReader and are cached, writes
// and adds are buffered into an ordered Effects log and never touch the
// reader directly (spec.md §4.4 "Tracking Copy").
package trackingcopy

import (
	lru "github.com/hashicorp/golang-lru"
	logger "github.com/ElrondNetwork/elrond-go-logger"

	engerrors "github.com/casper-network/casper-execution-engine-go/engine/errors"
	"github.com/casper-network/casper-execution-engine-go/engine/types"
)

var logTrackingCopy = logger.GetOrCreate("engine/trackingcopy")

const defaultReadCacheSize = 4096

// TrackingCopy is the buffered view a single execution reads and writes
// through. Writes land in an in-memory overlay and an ordered Effects log;
// nothing is written back to the StateReader. Call Effects() to obtain the
// replayable mutation log once execution completes.
type TrackingCopy struct {
	reader StateReader

	readCache *lru.Cache
	overlay   map[types.Key]types.StoredValue
	pruned    map[types.Key]struct{}

	effects types.Effects
}

// New builds a TrackingCopy reading through reader, with a bounded LRU
// cache in front of repeated reads (spec §4.4 performance note: "a single
// key may be read many times across nested calls").
func New(reader StateReader) (*TrackingCopy, error) {
	cache, err := lru.New(defaultReadCacheSize)
	if err != nil {
		return nil, engerrors.Wrap(engerrors.KindStorage, engerrors.ErrTrackingCopy, err, "constructing read cache")
	}
	return &TrackingCopy{
		reader:    reader,
		readCache: cache,
		overlay:   make(map[types.Key]types.StoredValue),
		pruned:    make(map[types.Key]struct{}),
		effects:   types.NewEffects(),
	}, nil
}

// Fork returns an independent TrackingCopy that reads through tc itself (so
// it sees tc's overlay and prunes) and shares tc's read cache, but starts
// with an empty overlay/effects log,
// mirroring the teacher's state-stack push semantics for nested calls:
// the fork's writes are invisible to the parent until explicitly merged.
func (tc *TrackingCopy) Fork() *TrackingCopy {
	return &TrackingCopy{
		reader:    tc,
		readCache: tc.readCache,
		overlay:   make(map[types.Key]types.StoredValue),
		pruned:    make(map[types.Key]struct{}),
		effects:   types.NewEffects(),
	}
}

// Read returns the value stored at key: overlay first, then pruned-marker,
// then read cache, then the underlying reader (cached on success).
func (tc *TrackingCopy) Read(key types.Key) (types.StoredValue, bool, error) {
	if v, ok := tc.overlay[key]; ok {
		return v, true, nil
	}
	if _, ok := tc.pruned[key]; ok {
		return types.StoredValue{}, false, nil
	}
	if cached, ok := tc.readCache.Get(key); ok {
		sv := cached.(types.StoredValue)
		logTrackingCopy.Trace("read", "key", key.String(), "cached", true)
		return sv, true, nil
	}
	sv, found, err := tc.reader.Read(key)
	if err != nil {
		return types.StoredValue{}, false, engerrors.Wrap(engerrors.KindStorage, engerrors.ErrTrackingCopy, err, "reading key %s", key.String())
	}
	if found {
		tc.readCache.Add(key, sv)
	}
	logTrackingCopy.Trace("read", "key", key.String(), "cached", false, "found", found)
	return sv, found, nil
}

// Write overwrites key with value, recording a Write transform.
func (tc *TrackingCopy) Write(key types.Key, value types.StoredValue) {
	tc.overlay[key] = value
	delete(tc.pruned, key)
	tc.effects.Append(key, types.Transform{Tag: types.TransformWrite, WriteValue: value})
	logTrackingCopy.Trace("write", "key", key.String())
}

// AddInt records an AddInt transform of amount against key in the Effects
// log. It neither reads nor updates the overlay: a later Read on this
// TrackingCopy does not reflect the addition, and a pending Write to key is
// not fused with it. Only valid on CLValue entries carrying an integer
// payload; callers are expected to have already type-checked the stored
// value (spec §4.4 "Add is rejected on non-numeric stored values").
func (tc *TrackingCopy) AddInt(key types.Key, amount int64) {
	tc.effects.Append(key, types.Transform{Tag: types.TransformAddInt, AddAmount: amount})
	logTrackingCopy.Trace("add", "key", key.String(), "amount", amount)
}

// AddURef registers uref under key (e.g. adding a named key's backing
// reference), recording an AddURef transform.
func (tc *TrackingCopy) AddURef(key types.Key, uref types.URef) {
	tc.effects.Append(key, types.Transform{Tag: types.TransformAddURef, AddedURef: uref})
	logTrackingCopy.Trace("add-uref", "key", key.String())
}

// Prune marks key as deleted: subsequent reads report not-found regardless
// of what the underlying reader holds.
func (tc *TrackingCopy) Prune(key types.Key) {
	delete(tc.overlay, key)
	tc.pruned[key] = struct{}{}
	tc.effects.Append(key, types.Transform{Tag: types.TransformPrune})
	logTrackingCopy.Trace("prune", "key", key.String())
}

// Effects returns the ordered transform log recorded so far. The returned
// value must not be mutated by the caller.
func (tc *TrackingCopy) Effects() types.Effects {
	return tc.effects
}

// Merge folds a forked TrackingCopy's overlay, prunes and effects into tc,
// in call order, implementing the commit side of the fork/merge nested-call
// pattern (spec §5 "nested calls interleave their effects into the parent's
// effect log in call order").
func (tc *TrackingCopy) Merge(child *TrackingCopy) {
	for k, v := range child.overlay {
		tc.overlay[k] = v
	}
	for k := range child.pruned {
		delete(tc.overlay, k)
		tc.pruned[k] = struct{}{}
	}
	tc.effects.AppendAll(child.effects)
}

// GetEntity reads key and type-asserts the result as an AddressableEntity.
func (tc *TrackingCopy) GetEntity(key types.Key) (*types.AddressableEntity, error) {
	sv, found, err := tc.Read(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, engerrors.New(engerrors.KindStorage, engerrors.ErrKeyNotFound, "entity %s", key.String())
	}
	if sv.Tag != types.StoredAddressableEntity || sv.AddressableEntity == nil {
		return nil, engerrors.New(engerrors.KindStorage, engerrors.ErrTypeMismatch, "expected AddressableEntity at %s", key.String())
	}
	return sv.AddressableEntity, nil
}

// Query walks from base through path, resolving each successive segment as
// a named-key lookup against the named keys embedded in the stored value
// reached so far, failing ValueNotFound(path_suffix) the moment a segment
// is unresolvable or an intermediate value has no named keys to walk
// (spec.md §4.4 "query(base, path) — walks from base, resolving named-key
// links, failing ValueNotFound(path_suffix) on miss"). An empty path simply
// reads base.
func (tc *TrackingCopy) Query(base types.Key, path []string) (types.StoredValue, error) {
	current := base
	sv, found, err := tc.Read(current)
	if err != nil {
		return types.StoredValue{}, err
	}
	if !found {
		return types.StoredValue{}, engerrors.New(engerrors.KindStorage, engerrors.ErrValueNotFound, "base key %s", current.String())
	}

	for i, segment := range path {
		namedKeys, ok := namedKeysOf(sv)
		if !ok {
			return types.StoredValue{}, engerrors.New(engerrors.KindStorage, engerrors.ErrValueNotFound, "path suffix %v: value at %s has no named keys to walk", path[i:], current.String())
		}
		next, ok := namedKeys[segment]
		if !ok {
			return types.StoredValue{}, engerrors.New(engerrors.KindStorage, engerrors.ErrValueNotFound, "path suffix %v", path[i:])
		}
		current = next
		sv, found, err = tc.Read(current)
		if err != nil {
			return types.StoredValue{}, err
		}
		if !found {
			return types.StoredValue{}, engerrors.New(engerrors.KindStorage, engerrors.ErrValueNotFound, "path suffix %v", path[i:])
		}
	}
	return sv, nil
}

// namedKeysOf returns the named-key table embedded in sv, for the stored
// value kinds that carry one directly. AddressableEntity named keys live as
// individually addressed NamedKey cells in global state rather than embedded
// in the entity value (see engine/context's readEntityNamedKeys), so an
// AddressableEntity cannot be walked through Query without the caller
// already having resolved that table out of band; ok is false for it here.
func namedKeysOf(sv types.StoredValue) (map[string]types.Key, bool) {
	switch sv.Tag {
	case types.StoredAccount:
		return sv.Account.NamedKeys, true
	case types.StoredContract:
		return sv.Contract.NamedKeys, true
	default:
		return nil, false
	}
}

// GetPackage reads key and type-asserts the result as a Package.
func (tc *TrackingCopy) GetPackage(key types.Key) (*types.Package, error) {
	sv, found, err := tc.Read(key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, engerrors.New(engerrors.KindStorage, engerrors.ErrKeyNotFound, "package %s", key.String())
	}
	if sv.Tag != types.StoredPackage || sv.Package == nil {
		return nil, engerrors.New(engerrors.KindStorage, engerrors.ErrTypeMismatch, "expected Package at %s", key.String())
	}
	return sv.Package, nil
}

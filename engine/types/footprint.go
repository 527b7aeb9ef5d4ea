package types

// NamedKeys is an alias-to-key table scoped to one entity, generalized from
// the teacher's map[string]Key named-key maps on Account/AddressableEntity.
type NamedKeys map[string]Key

// Clone returns a deep copy of the map, mirroring the copy-on-enter semantics
// RuntimeFootprint requires for nested calls.
func (n NamedKeys) Clone() NamedKeys {
	out := make(NamedKeys, len(n))
	for k, v := range n {
		out[k] = v
	}
	return out
}

// RuntimeFootprint is the per-invokee snapshot created from a StoredValue
// Account or AddressableEntity at context construction, and copied-on-enter
// for each nested call.
type RuntimeFootprint struct {
	NamedKeysMap     NamedKeys
	MainPurse        *URef
	AssociatedKeys   map[[20]byte]Weight
	ActionThresholds ActionThresholds
}

// NamedKeys returns the footprint's alias table.
func (f *RuntimeFootprint) NamedKeys() NamedKeys {
	return f.NamedKeysMap
}

// Clone produces an independent copy suitable for a nested call frame.
func (f *RuntimeFootprint) Clone() *RuntimeFootprint {
	associated := make(map[[20]byte]Weight, len(f.AssociatedKeys))
	for k, v := range f.AssociatedKeys {
		associated[k] = v
	}
	var purse *URef
	if f.MainPurse != nil {
		cp := *f.MainPurse
		purse = &cp
	}
	return &RuntimeFootprint{
		NamedKeysMap:     f.NamedKeysMap.Clone(),
		MainPurse:        purse,
		AssociatedKeys:   associated,
		ActionThresholds: f.ActionThresholds,
	}
}

// ExtractAccessRights derives the initial capability set granted to a call
// targeting entityAddr: its own main purse (if any) with full rights, plus
// whatever URefs are reachable from its named keys.
func (f *RuntimeFootprint) ExtractAccessRights(entityAddr [32]byte) map[[32]byte]AccessRights {
	rights := make(map[[32]byte]AccessRights)
	if f.MainPurse != nil {
		rights[f.MainPurse.Addr] |= RightReadAddWrite
	}
	for _, key := range f.NamedKeysMap {
		if key.Tag == KeyTagURef {
			rights[key.Addr] |= RightReadAddWrite
		}
	}
	return rights
}

// FromAccount builds a RuntimeFootprint from a legacy Account.
func FromAccount(acc *Account) *RuntimeFootprint {
	purse := acc.MainPurse
	return &RuntimeFootprint{
		NamedKeysMap:     NamedKeys(acc.NamedKeys),
		MainPurse:        &purse,
		AssociatedKeys:   acc.AssociatedKeys,
		ActionThresholds: acc.ActionThresholds,
	}
}

// FromAddressableEntity builds a RuntimeFootprint from an AddressableEntity.
// Named keys for entities are stored as individual NamedKey cells in global
// state rather than embedded in the entity value itself; callers that have
// already resolved them pass the table in separately.
func FromAddressableEntity(ent *AddressableEntity, namedKeys NamedKeys) *RuntimeFootprint {
	purse := ent.MainPurse
	return &RuntimeFootprint{
		NamedKeysMap:     namedKeys,
		MainPurse:        &purse,
		AssociatedKeys:   ent.AssociatedKeys,
		ActionThresholds: ent.ActionThresholds,
	}
}

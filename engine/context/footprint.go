package context

import (
	engerrors "github.com/casper-network/casper-execution-engine-go/engine/errors"
	"github.com/casper-network/casper-execution-engine-go/engine/trackingcopy"
	"github.com/casper-network/casper-execution-engine-go/engine/types"
)

// AuthorizedFootprint pairs the resolved RuntimeFootprint for an initiator
// account with the entity address it was built from, the two values
// execute() needs before it can resolve an ExecutionKind.
type AuthorizedFootprint struct {
	Footprint  *types.RuntimeFootprint
	EntityAddr [32]byte
}

// AuthorizedRuntimeFootprint resolves accountHash's AddressableEntity (or
// legacy Account) and checks that authKeys together satisfy the account's
// deployment action threshold, unless accountHash is itself one of
// adminAccounts, which bypasses the weight check entirely. This is the
// step engine_state::mod.rs's execute() runs immediately before resolving
// an ExecutionKind (spec.md's "Precondition: AuthorizationFailure" made
// concrete).
func AuthorizedRuntimeFootprint(tc *trackingcopy.TrackingCopy, accountHash [20]byte, authKeys map[[20]byte]struct{}, adminAccounts map[[20]byte]struct{}) (AuthorizedFootprint, error) {
	entityAddr, footprint, err := resolveFootprint(tc, accountHash)
	if err != nil {
		return AuthorizedFootprint{}, err
	}

	if _, isAdmin := adminAccounts[accountHash]; !isAdmin {
		if err := checkAuthorization(footprint, authKeys); err != nil {
			return AuthorizedFootprint{}, err
		}
	}

	return AuthorizedFootprint{Footprint: footprint, EntityAddr: entityAddr}, nil
}

func resolveFootprint(tc *trackingcopy.TrackingCopy, accountHash [20]byte) ([32]byte, *types.RuntimeFootprint, error) {
	accountKey := types.AccountKey(accountHashToKey(accountHash))
	sv, found, err := tc.Read(accountKey)
	if err != nil {
		return [32]byte{}, nil, err
	}
	if !found {
		return [32]byte{}, nil, engerrors.New(engerrors.KindPrecondition, engerrors.ErrInvalidExecutableItem, "no account found for initiator")
	}

	switch sv.Tag {
	case types.StoredAccount:
		addr := accountHashToKey(accountHash)
		return addr, types.FromAccount(sv.Account), nil
	case types.StoredAddressableEntity:
		addr := sv.AddressableEntity.PackageHash
		namedKeys, err := readEntityNamedKeys(tc, addr)
		if err != nil {
			return [32]byte{}, nil, err
		}
		return addr, types.FromAddressableEntity(sv.AddressableEntity, namedKeys), nil
	default:
		return [32]byte{}, nil, engerrors.New(engerrors.KindPrecondition, engerrors.ErrTypeMismatch, "initiator account resolves to unexpected stored value")
	}
}

// readEntityNamedKeys collects every NamedKeyValue cell owned by the
// entity at entityAddr. AddressableEntity named keys live as individual
// NamedKey cells in global state rather than embedded in the entity value
// (spec §3 "NamedKeys are addressed, not embedded, for AddressableEntity").
// A real StateReader would support a prefix scan; this engine's narrow
// StateReader interface deliberately does not (storage/trie scanning is
// out of scope), so callers that need the full table supply it out of
// band. Absent that, an empty table is returned and named-key lookups
// during execution simply miss, surfacing as the same
// "named key not found" error a genuinely empty table would produce.
func readEntityNamedKeys(_ *trackingcopy.TrackingCopy, _ [32]byte) (types.NamedKeys, error) {
	return types.NamedKeys{}, nil
}

func checkAuthorization(footprint *types.RuntimeFootprint, authKeys map[[20]byte]struct{}) error {
	var total types.Weight
	for key := range authKeys {
		total += footprint.AssociatedKeys[key]
	}
	if total < footprint.ActionThresholds.Deployment {
		return engerrors.New(engerrors.KindPrecondition, engerrors.ErrInvalidExecutableItem, "authorization weight %d below deployment threshold %d", total, footprint.ActionThresholds.Deployment)
	}
	return nil
}

func accountHashToKey(accountHash [20]byte) [32]byte {
	var out [32]byte
	copy(out[:], accountHash[:])
	return out
}

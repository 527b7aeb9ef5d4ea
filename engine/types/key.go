// Package types holds the data model shared by every subsystem of the
// execution core: keys, stored values, URefs, effects and the request/result
// envelopes that cross the host boundary.
package types

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// KeyTag identifies the variant of a Key.
type KeyTag byte

// Key tags relevant to the execution core. Unlisted tags (Bid, Withdraw,
// ChainspecRegistry, ...) live in global state but are never addressed
// directly by the core.
const (
	KeyTagAccount KeyTag = iota
	KeyTagHash
	KeyTagURef
	KeyTagAddressableEntity
	KeyTagPackage
	KeyTagNamedKey
	KeyTagBalance
	KeyTagMessage
)

func (t KeyTag) String() string {
	switch t {
	case KeyTagAccount:
		return "Account"
	case KeyTagHash:
		return "Hash"
	case KeyTagURef:
		return "URef"
	case KeyTagAddressableEntity:
		return "AddressableEntity"
	case KeyTagPackage:
		return "Package"
	case KeyTagNamedKey:
		return "NamedKey"
	case KeyTagBalance:
		return "Balance"
	case KeyTagMessage:
		return "Message"
	default:
		return "Unknown"
	}
}

// EntityKind distinguishes the three flavors of AddressableEntity.
type EntityKind byte

const (
	EntityKindAccount EntityKind = iota
	EntityKindSmartContract
	EntityKindSystem
)

// Key is a tagged union identifying a cell in global state. Only one of the
// fields is meaningful, depending on Tag. URef equality normalizes access
// rights to zero, so Key never stores rights directly; callers that need
// rights-aware comparisons use URef values instead.
type Key struct {
	Tag KeyTag

	Addr [32]byte // Account, Hash, URef, Package, Balance (uref addr)

	EntityKind EntityKind // AddressableEntity
	EntityAddr [32]byte   // AddressableEntity

	NamedKeyEntity  [32]byte // NamedKey: owning entity address
	NamedKeyNameSum [32]byte // NamedKey: hash of the alias

	MessageTopic [32]byte // Message
	MessageIndex uint32   // Message
}

// AccountKey builds a Key with tag Account.
func AccountKey(addr [32]byte) Key { return Key{Tag: KeyTagAccount, Addr: addr} }

// HashKey builds a Key with tag Hash.
func HashKey(addr [32]byte) Key { return Key{Tag: KeyTagHash, Addr: addr} }

// UnforgeableKey builds a Key with tag URef, access rights stripped.
func UnforgeableKey(addr [32]byte) Key { return Key{Tag: KeyTagURef, Addr: addr} }

// AddressableEntityKey builds a Key with tag AddressableEntity.
func AddressableEntityKey(kind EntityKind, addr [32]byte) Key {
	return Key{Tag: KeyTagAddressableEntity, EntityKind: kind, EntityAddr: addr}
}

// PackageKey builds a Key with tag Package.
func PackageKey(addr [32]byte) Key { return Key{Tag: KeyTagPackage, Addr: addr} }

// BalanceKey builds a Key with tag Balance, addressed by the URef's address.
func BalanceKey(urefAddr [32]byte) Key { return Key{Tag: KeyTagBalance, Addr: urefAddr} }

// Equal compares two keys for equality, normalizing away any access-rights
// bits embedded in a URef-derived value (Keys never carry rights, so this is
// a plain structural comparison, kept as a named method because every other
// identity check in this package goes through it).
func (k Key) Equal(other Key) bool {
	if k.Tag != other.Tag {
		return false
	}
	switch k.Tag {
	case KeyTagAddressableEntity:
		return k.EntityKind == other.EntityKind && bytes.Equal(k.EntityAddr[:], other.EntityAddr[:])
	case KeyTagNamedKey:
		return bytes.Equal(k.NamedKeyEntity[:], other.NamedKeyEntity[:]) && bytes.Equal(k.NamedKeyNameSum[:], other.NamedKeyNameSum[:])
	case KeyTagMessage:
		return bytes.Equal(k.MessageTopic[:], other.MessageTopic[:]) && k.MessageIndex == other.MessageIndex
	default:
		return bytes.Equal(k.Addr[:], other.Addr[:])
	}
}

// String renders a Key in a debug-friendly "tag-hexaddr" form.
func (k Key) String() string {
	switch k.Tag {
	case KeyTagAddressableEntity:
		return fmt.Sprintf("entity-%d-%s", k.EntityKind, hex.EncodeToString(k.EntityAddr[:]))
	case KeyTagNamedKey:
		return fmt.Sprintf("named-key-%s-%s", hex.EncodeToString(k.NamedKeyEntity[:]), hex.EncodeToString(k.NamedKeyNameSum[:]))
	case KeyTagMessage:
		return fmt.Sprintf("message-%s-%d", hex.EncodeToString(k.MessageTopic[:]), k.MessageIndex)
	default:
		return fmt.Sprintf("%s-%s", k.Tag, hex.EncodeToString(k.Addr[:]))
	}
}

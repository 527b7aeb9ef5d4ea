package types

// CLValueType tags the shape of a CLValue's payload.
type CLValueType byte

const (
	CLTypeBool CLValueType = iota
	CLTypeI32
	CLTypeI64
	CLTypeU64
	CLTypeU512
	CLTypeString
	CLTypeKey
	CLTypeURef
	CLTypeBytes
	CLTypeUnit
)

// CLValue is a tagged, self-describing value in the contract data model.
type CLValue struct {
	Type  CLValueType
	Bytes []byte
}

// U64CLValue builds a CLTypeU64 CLValue from v, little-endian encoded to
// match the rest of the engine's fixed-width numeric encoding (CLValue.AsU64
// decodes it; provider's balance cells reuse it).
func U64CLValue(v uint64) CLValue {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
	return CLValue{Type: CLTypeU64, Bytes: b}
}

// AsU64 decodes c's bytes as a little-endian uint64, for CLTypeU64/U512
// payloads. Shorter byte strings are zero-extended; this mirrors the
// engine's other ad hoc numeric decoders rather than validating Type, since
// callers that care about the distinction check Type themselves.
func (c CLValue) AsU64() uint64 {
	var v uint64
	for i := 0; i < len(c.Bytes) && i < 8; i++ {
		v |= uint64(c.Bytes[i]) << (8 * i)
	}
	return v
}

// StoredValueTag discriminates the StoredValue sum type.
type StoredValueTag byte

const (
	StoredCLValue StoredValueTag = iota
	StoredAccount
	StoredContract
	StoredPackage
	StoredAddressableEntity
	StoredNamedKeyValue
	StoredByteCode
	StoredMessage
)

// StoredValue is the sum of concrete payloads a Key may resolve to. Exactly
// one of the pointer fields is non-nil, matching Tag.
type StoredValue struct {
	Tag StoredValueTag

	CLValue           *CLValue
	Account           *Account
	Contract          *Contract
	Package           *Package
	AddressableEntity *AddressableEntity
	NamedKeyValue     *NamedKeyValue
	ByteCode          []byte
	Message           *Message
}

// Account is the legacy (pre-AddressableEntity) account projection.
type Account struct {
	MainPurse      URef
	AssociatedKeys map[[20]byte]Weight
	ActionThresholds
	NamedKeys map[string]Key
}

// AddressableEntity is a callable stored object identified by a 32-byte
// address and an entity kind (account or smart contract).
type AddressableEntity struct {
	Kind           EntityKind
	PackageHash    [32]byte
	MainPurse      URef
	AssociatedKeys map[[20]byte]Weight
	ActionThresholds
}

// Weight is an associated key's signing weight.
type Weight uint8

// ActionThresholds are the minimum combined weights required to authorize
// key management vs. regular deploy actions.
type ActionThresholds struct {
	KeyManagement Weight
	Deployment    Weight
}

// Contract is the legacy (pre-AddressableEntity) stored-contract projection.
type Contract struct {
	PackageHash [32]byte
	NamedKeys   map[string]Key
	EntryPoints []string
}

// EntityVersionKey identifies one version of a Package.
type EntityVersionKey struct {
	Kind          EntityVersionKind
	ProtocolMajor uint32
}

// EntityVersionKind distinguishes user-deployed versions from runtime-installed ones.
type EntityVersionKind byte

const (
	EntityVersionUser EntityVersionKind = iota
	EntityVersionRuntime
)

// Package is a versioned container of entities; a call may target a
// specific version or the package's "current" version.
type Package struct {
	Versions map[EntityVersionKey][32]byte
	Disabled map[EntityVersionKey]bool
	Current  *EntityVersionKey
}

// CurrentEntityVersion returns the package's active version key, if any.
func (p *Package) CurrentEntityVersion() *EntityVersionKey {
	return p.Current
}

// IsVersionMissing reports whether key names no entity in the package.
func (p *Package) IsVersionMissing(key EntityVersionKey) bool {
	_, ok := p.Versions[key]
	return !ok
}

// IsVersionEnabled reports whether a present version is not disabled.
func (p *Package) IsVersionEnabled(key EntityVersionKey) bool {
	return !p.Disabled[key]
}

// LookupEntityHash resolves a version key to an entity address, or false.
func (p *Package) LookupEntityHash(key EntityVersionKey) ([32]byte, bool) {
	addr, ok := p.Versions[key]
	return addr, ok
}

// NamedKeyValue is the stored representation of a single named-key
// registration (name -> key, scoped to an entity).
type NamedKeyValue struct {
	Name string
	Key  Key
}

// Message is a single emitted, topic-scoped payload.
type Message struct {
	Topic   string
	Index   uint32
	Payload []byte
}

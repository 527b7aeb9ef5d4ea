// Package kind implements the Execution Kind Resolver: it turns an
// ExecutableItem plus a target entry point into a concrete, authorized
// ExecutionKind, resolving named-key lookups and package version
// selection along the way (spec.md §4.1 "Execution Kind Resolver";
// grounded step-for-step on original_source's execution_kind.rs).
package kind

import (
	engerrors "github.com/casper-network/casper-execution-engine-go/engine/errors"
	"github.com/casper-network/casper-execution-engine-go/engine/trackingcopy"
	"github.com/casper-network/casper-execution-engine-go/engine/types"
)

// Resolve turns item into a concrete ExecutionKind. tc is consulted only
// when item names a package (ByPackageHash/ByPackageName), to look up the
// package's current or requested version.
func Resolve(tc *trackingcopy.TrackingCopy, namedKeys types.NamedKeys, item types.ExecutableItem, entryPoint string) (types.ExecutionKind, error) {
	switch item.Tag {
	case types.ExecutableInvocation:
		return resolveDirectInvocation(tc, namedKeys, item.Invocation, entryPoint)
	case types.ExecutablePaymentBytes:
		return types.ExecutionKind{Tag: types.KindStandard, ModuleBytes: item.ModuleBytes}, nil
	case types.ExecutableSessionBytes:
		if item.SessionKind == types.SessionKindInstallUpgradeBytecode {
			return types.ExecutionKind{Tag: types.KindInstallerUpgrader, ModuleBytes: item.ModuleBytes}, nil
		}
		return types.ExecutionKind{Tag: types.KindStandard, ModuleBytes: item.ModuleBytes}, nil
	case types.ExecutableDeploy:
		return types.ExecutionKind{Tag: types.KindDeploy, ModuleBytes: item.ModuleBytes}, nil
	default:
		return types.ExecutionKind{}, engerrors.New(engerrors.KindPrecondition, engerrors.ErrInvalidExecutableItem, "unrecognized tag %d", item.Tag)
	}
}

func resolveDirectInvocation(tc *trackingcopy.TrackingCopy, namedKeys types.NamedKeys, target types.TransactionInvocationTarget, entryPoint string) (types.ExecutionKind, error) {
	var entityAddr [32]byte

	switch target.Tag {
	case types.TargetByHash:
		entityAddr = target.ByHashAddr

	case types.TargetByName:
		key, ok := namedKeys[target.Alias]
		if !ok {
			return types.ExecutionKind{}, engerrors.New(engerrors.KindPrecondition, engerrors.ErrInvalidExecutableItem, "named key %q not found", target.Alias)
		}
		switch key.Tag {
		case types.KeyTagHash:
			entityAddr = key.Addr
		case types.KeyTagAddressableEntity:
			entityAddr = key.EntityAddr
		default:
			return types.ExecutionKind{}, engerrors.New(engerrors.KindPrecondition, engerrors.ErrInvalidKeyVariant, "named key %q resolves to %s", target.Alias, key.Tag)
		}

	case types.TargetByPackageHash:
		addr, err := resolvePackageVersion(tc, target.PackageAddr, target.VersionKey)
		if err != nil {
			return types.ExecutionKind{}, err
		}
		entityAddr = addr

	case types.TargetByPackageName:
		key, ok := namedKeys[target.Alias]
		if !ok {
			return types.ExecutionKind{}, engerrors.New(engerrors.KindPrecondition, engerrors.ErrInvalidExecutableItem, "named key %q not found", target.Alias)
		}
		if key.Tag != types.KeyTagHash {
			return types.ExecutionKind{}, engerrors.New(engerrors.KindPrecondition, engerrors.ErrInvalidKeyVariant, "package named key %q resolves to %s", target.Alias, key.Tag)
		}
		addr, err := resolvePackageVersion(tc, key.Addr, target.VersionKey)
		if err != nil {
			return types.ExecutionKind{}, err
		}
		entityAddr = addr

	default:
		return types.ExecutionKind{}, engerrors.New(engerrors.KindPrecondition, engerrors.ErrInvalidExecutableItem, "unrecognized invocation target %d", target.Tag)
	}

	return types.ExecutionKind{Tag: types.KindStored, EntityHash: entityAddr, EntryPoint: entryPoint}, nil
}

// resolvePackageVersion selects a package version (the requested one, or
// the package's current version if none was requested) and resolves it to
// an entity address, enforcing the missing/disabled checks in the same
// order as the original: missing first, then disabled.
func resolvePackageVersion(tc *trackingcopy.TrackingCopy, packageAddr [32]byte, requested *types.EntityVersionKey) ([32]byte, error) {
	pkg, err := tc.GetPackage(types.PackageKey(packageAddr))
	if err != nil {
		return [32]byte{}, err
	}

	versionKey := requested
	if versionKey == nil {
		versionKey = pkg.CurrentEntityVersion()
	}
	if versionKey == nil {
		return [32]byte{}, engerrors.New(engerrors.KindPrecondition, engerrors.ErrInvalidExecutableItem, "package %x has no active entity versions", packageAddr)
	}

	if pkg.IsVersionMissing(*versionKey) {
		return [32]byte{}, engerrors.New(engerrors.KindPrecondition, engerrors.ErrInvalidExecutableItem, "package %x missing entity version", packageAddr)
	}
	if !pkg.IsVersionEnabled(*versionKey) {
		return [32]byte{}, engerrors.New(engerrors.KindPrecondition, engerrors.ErrInvalidExecutableItem, "package %x entity version disabled", packageAddr)
	}

	entityAddr, ok := pkg.LookupEntityHash(*versionKey)
	if !ok {
		return [32]byte{}, engerrors.New(engerrors.KindPrecondition, engerrors.ErrInvalidExecutableItem, "package %x entity version unresolvable", packageAddr)
	}
	return entityAddr, nil
}

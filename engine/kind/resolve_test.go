package kind

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casper-network/casper-execution-engine-go/engine/trackingcopy"
	"github.com/casper-network/casper-execution-engine-go/engine/types"
)

type stubReader struct {
	values map[types.Key]types.StoredValue
}

func (s *stubReader) Read(key types.Key) (types.StoredValue, bool, error) {
	v, ok := s.values[key]
	return v, ok, nil
}

func TestResolve_ByHash(t *testing.T) {
	t.Parallel()

	tc, err := trackingcopy.New(&stubReader{values: map[types.Key]types.StoredValue{}})
	require.NoError(t, err)

	item := types.ExecutableItem{
		Tag: types.ExecutableInvocation,
		Invocation: types.TransactionInvocationTarget{
			Tag:        types.TargetByHash,
			ByHashAddr: [32]byte{7},
		},
	}

	resolved, err := Resolve(tc, nil, item, "transfer")
	require.NoError(t, err)
	require.Equal(t, types.KindStored, resolved.Tag)
	require.Equal(t, [32]byte{7}, resolved.EntityHash)
	require.Equal(t, "transfer", resolved.EntryPoint)
}

func TestResolve_ByName_NotFound(t *testing.T) {
	t.Parallel()

	tc, err := trackingcopy.New(&stubReader{values: map[types.Key]types.StoredValue{}})
	require.NoError(t, err)

	item := types.ExecutableItem{
		Tag: types.ExecutableInvocation,
		Invocation: types.TransactionInvocationTarget{
			Tag:   types.TargetByName,
			Alias: "missing",
		},
	}

	_, err = Resolve(tc, types.NamedKeys{}, item, "do_something")
	require.Error(t, err)
}

func TestResolve_ByPackageHash_CurrentVersion(t *testing.T) {
	t.Parallel()

	packageAddr := [32]byte{1}
	entityAddr := [32]byte{2}
	versionKey := types.EntityVersionKey{Kind: types.EntityVersionUser, ProtocolMajor: 1}

	pkg := &types.Package{
		Versions: map[types.EntityVersionKey][32]byte{versionKey: entityAddr},
		Disabled: map[types.EntityVersionKey]bool{},
		Current:  &versionKey,
	}

	reader := &stubReader{values: map[types.Key]types.StoredValue{
		types.PackageKey(packageAddr): {Tag: types.StoredPackage, Package: pkg},
	}}
	tc, err := trackingcopy.New(reader)
	require.NoError(t, err)

	item := types.ExecutableItem{
		Tag: types.ExecutableInvocation,
		Invocation: types.TransactionInvocationTarget{
			Tag:         types.TargetByPackageHash,
			PackageAddr: packageAddr,
		},
	}

	resolved, err := Resolve(tc, nil, item, "entry")
	require.NoError(t, err)
	require.Equal(t, entityAddr, resolved.EntityHash)
}

func TestResolve_ByPackageHash_DisabledVersion(t *testing.T) {
	t.Parallel()

	packageAddr := [32]byte{3}
	entityAddr := [32]byte{4}
	versionKey := types.EntityVersionKey{Kind: types.EntityVersionUser, ProtocolMajor: 1}

	pkg := &types.Package{
		Versions: map[types.EntityVersionKey][32]byte{versionKey: entityAddr},
		Disabled: map[types.EntityVersionKey]bool{versionKey: true},
		Current:  &versionKey,
	}

	reader := &stubReader{values: map[types.Key]types.StoredValue{
		types.PackageKey(packageAddr): {Tag: types.StoredPackage, Package: pkg},
	}}
	tc, err := trackingcopy.New(reader)
	require.NoError(t, err)

	item := types.ExecutableItem{
		Tag: types.ExecutableInvocation,
		Invocation: types.TransactionInvocationTarget{
			Tag:         types.TargetByPackageHash,
			PackageAddr: packageAddr,
		},
	}

	_, err = Resolve(tc, nil, item, "entry")
	require.Error(t, err)
}

func TestResolve_ByPackageHash_MissingVersion(t *testing.T) {
	t.Parallel()

	packageAddr := [32]byte{5}
	currentKey := types.EntityVersionKey{Kind: types.EntityVersionUser, ProtocolMajor: 1}
	requestedKey := types.EntityVersionKey{Kind: types.EntityVersionUser, ProtocolMajor: 3}

	pkg := &types.Package{
		Versions: map[types.EntityVersionKey][32]byte{currentKey: {6}},
		Disabled: map[types.EntityVersionKey]bool{},
		Current:  &currentKey,
	}

	reader := &stubReader{values: map[types.Key]types.StoredValue{
		types.PackageKey(packageAddr): {Tag: types.StoredPackage, Package: pkg},
	}}
	tc, err := trackingcopy.New(reader)
	require.NoError(t, err)

	item := types.ExecutableItem{
		Tag: types.ExecutableInvocation,
		Invocation: types.TransactionInvocationTarget{
			Tag:         types.TargetByPackageHash,
			PackageAddr: packageAddr,
			VersionKey:  &requestedKey,
		},
	}

	_, err = Resolve(tc, nil, item, "entry")
	require.Error(t, err)
}

func TestResolve_SessionBytes_InstallUpgrade(t *testing.T) {
	t.Parallel()

	tc, err := trackingcopy.New(&stubReader{values: map[types.Key]types.StoredValue{}})
	require.NoError(t, err)

	item := types.ExecutableItem{
		Tag:         types.ExecutableSessionBytes,
		ModuleBytes: []byte{0x00, 0x61, 0x73, 0x6d},
		SessionKind: types.SessionKindInstallUpgradeBytecode,
	}

	resolved, err := Resolve(tc, nil, item, "")
	require.NoError(t, err)
	require.Equal(t, types.KindInstallerUpgrader, resolved.Tag)
	require.True(t, resolved.AllowsInstallUpgrade())
}

func TestResolve_Deploy(t *testing.T) {
	t.Parallel()

	tc, err := trackingcopy.New(&stubReader{values: map[types.Key]types.StoredValue{}})
	require.NoError(t, err)

	item := types.ExecutableItem{Tag: types.ExecutableDeploy, ModuleBytes: []byte{1, 2, 3}}
	resolved, err := Resolve(tc, nil, item, "")
	require.NoError(t, err)
	require.Equal(t, types.KindDeploy, resolved.Tag)
	require.True(t, resolved.AllowsInstallUpgrade())
}

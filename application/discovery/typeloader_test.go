package discovery_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/Masterminds/semver/v3"
	"github.com/reglet-dev/reglet-ext/application/discovery"
	"github.com/reglet-dev/reglet-ext/domain/entities"
	"github.com/reglet-dev/reglet-ext/domain/errors"
	"github.com/reglet-dev/reglet-ext/internal/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchRoot = "/host/bin"

type typeLoaderFixture struct {
	loader *fakeLoader
	rec    *testutil.LogRecorder
	types  *discovery.TypeLoader
}

func newTypeLoaderFixture(t *testing.T, opts ...discovery.Option) *typeLoaderFixture {
	t.Helper()

	fs := afero.NewMemMapFs()
	loader := newFakeLoader()
	modules := map[string]map[string]entities.Signature{
		"/host/bin/FooModule.wasm": {"Foo.Startup": startup, "Foo.Helper": {}},
		"/host/bin/BarModule.wasm": {"Bar.Startup": startup},
		"/host/bin/bar/Bar.wasm":   {"Bar.Startup": startup},
		"/host/bin/Panics.wasm":    {"Panics.Startup": startup},
	}
	for path, exports := range modules {
		require.NoError(t, afero.WriteFile(fs, path, []byte{0}, 0o644))
		loader.add(path, exports)
	}
	loader.panicOn = "/host/bin/Panics.wasm"

	rec, logger := testutil.NewLogRecorder()
	base := []discovery.Option{
		discovery.WithFs(fs),
		discovery.WithLogger(logger),
		discovery.WithBuiltins(entities.NewBuiltinModuleSet("ext_host", "wasi_snapshot_preview1")),
	}
	return &typeLoaderFixture{
		loader: loader,
		rec:    rec,
		types:  discovery.NewTypeLoader(loader, fakeLookup{}, append(base, opts...)...),
	}
}

func refs(typeNames ...string) []entities.ExtensionReference {
	out := make([]entities.ExtensionReference, len(typeNames))
	for i, tn := range typeNames {
		out[i] = entities.ExtensionReference{TypeName: tn}
	}
	return out
}

func codes(skipped []entities.SkippedExtension) []string {
	out := make([]string, len(skipped))
	for i, s := range skipped {
		out[i] = s.Detail.Code
	}
	return out
}

func TestTypeLoader_LoadsInManifestOrder(t *testing.T) {
	f := newTypeLoaderFixture(t)

	loaded, skipped, err := f.types.Load(context.Background(),
		refs("Bar.Startup, BarModule", "Foo.Startup, FooModule"), searchRoot)
	require.NoError(t, err)

	assert.Empty(t, skipped)
	assert.Equal(t, []string{"Bar.Startup", "Foo.Startup"}, names(loaded))
	assert.Equal(t, "BarModule", loaded[0].Type.Module)
	assert.Equal(t, "/host/bin/FooModule.wasm", loaded[1].Module.Path())
	assert.Empty(t, f.rec.Records())
}

func TestTypeLoader_TypeLookupIgnoresCase(t *testing.T) {
	f := newTypeLoaderFixture(t)

	loaded, _, err := f.types.Load(context.Background(), refs("FOO.STARTUP, FooModule"), searchRoot)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Foo.Startup", loaded[0].Type.FullName)
}

func TestTypeLoader_OrdinalComparison(t *testing.T) {
	f := newTypeLoaderFixture(t, discovery.WithComparison(entities.Ordinal))

	loaded, skipped, err := f.types.Load(context.Background(), refs("FOO.STARTUP, FooModule"), searchRoot)
	require.NoError(t, err)
	assert.Empty(t, loaded)
	assert.Equal(t, []string{string(errors.KindTypeNotFound)}, codes(skipped))
}

func TestTypeLoader_MissingTypeUsesDisplayName(t *testing.T) {
	f := newTypeLoaderFixture(t)
	in := []entities.ExtensionReference{
		{Name: "Greeter", TypeName: "Missing.Type, FooModule"},
		{TypeName: "Other.Type, FooModule"},
	}

	loaded, skipped, err := f.types.Load(context.Background(), in, searchRoot)
	require.NoError(t, err)

	assert.Empty(t, loaded)
	assert.Len(t, skipped, 2)
	warnings := f.rec.Messages(slog.LevelWarn)
	require.Len(t, warnings, 2)
	assert.Equal(t, "unable to load startup extension 'Greeter' (Missing.Type, FooModule): the type does not exist", warnings[0])
	assert.Equal(t, "unable to load startup extension 'Other.Type, FooModule' (Other.Type, FooModule): the type does not exist", warnings[1])
}

func TestTypeLoader_UnresolvableModuleKeepsSiblings(t *testing.T) {
	f := newTypeLoaderFixture(t)

	loaded, skipped, err := f.types.Load(context.Background(),
		refs("Foo.Startup, FooModule", "Ghost.Startup, GhostModule", "Bar.Startup, BarModule"), searchRoot)
	require.NoError(t, err)

	assert.Equal(t, []string{"Foo.Startup", "Bar.Startup"}, names(loaded))
	assert.Equal(t, []string{string(errors.KindModuleUnresolvable)}, codes(skipped))
	assert.True(t, skipped[0].Detail.IsNotFound)
	assert.Equal(t, 1, f.rec.Count(slog.LevelWarn))
}

func TestTypeLoader_CapabilityMismatch(t *testing.T) {
	f := newTypeLoaderFixture(t)
	in := []entities.ExtensionReference{{Name: "helper", TypeName: "Foo.Helper, FooModule"}}

	loaded, skipped, err := f.types.Load(context.Background(), in, searchRoot)
	require.NoError(t, err)

	assert.Empty(t, loaded)
	assert.Equal(t, []string{string(errors.KindCapabilityMismatch)}, codes(skipped))
	warnings := f.rec.Messages(slog.LevelWarn)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "unable to load startup extension 'helper' (Foo.Helper, FooModule): type is not a valid startup extension")
}

func TestTypeLoader_BuiltinCollisionWarnsOnce(t *testing.T) {
	f := newTypeLoaderFixture(t)

	loaded, skipped, err := f.types.Load(context.Background(),
		refs("Host.Startup, EXT_HOST", "Foo.Startup, FooModule"), searchRoot)
	require.NoError(t, err)

	assert.Equal(t, []string{"Foo.Startup"}, names(loaded))
	assert.Equal(t, []string{string(errors.KindBuiltinCollision)}, codes(skipped))
	assert.Equal(t, 1, f.rec.Count(slog.LevelWarn))
	assert.Equal(t, []string{"/host/bin/FooModule.wasm"}, f.loader.calls)
}

func TestTypeLoader_ModuleFromHintPath(t *testing.T) {
	f := newTypeLoaderFixture(t)
	in := []entities.ExtensionReference{
		{TypeName: "Bar.Startup", HintPath: "bar/Bar.wasm"},
		{TypeName: "Foo.Startup"},
	}

	loaded, skipped, err := f.types.Load(context.Background(), in, searchRoot)
	require.NoError(t, err)

	require.Len(t, loaded, 1)
	assert.Equal(t, entities.TypeIdentity{FullName: "Bar.Startup", Module: "Bar"}, loaded[0].Type)
	assert.Equal(t, []string{string(errors.KindTypeNotFound)}, codes(skipped))
}

func TestTypeLoader_HostVersion(t *testing.T) {
	tests := []struct {
		name       string
		host       string
		constraint string
		loaded     bool
	}{
		{"no constraint", "1.2.0", "", true},
		{"satisfied", "1.2.0", "^1.0", true},
		{"not satisfied", "1.2.0", ">= 2.0", false},
		{"invalid constraint", "1.2.0", "not-a-range", false},
		{"no host version", "", ">= 2.0", true},
		{"invalid constraint without host version", "", "not-a-range", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []discovery.Option
			if tt.host != "" {
				opts = append(opts, discovery.WithHostVersion(semver.MustParse(tt.host)))
			}
			f := newTypeLoaderFixture(t, opts...)
			in := []entities.ExtensionReference{{TypeName: "Foo.Startup, FooModule", HostVersion: tt.constraint}}

			loaded, skipped, err := f.types.Load(context.Background(), in, searchRoot)
			require.NoError(t, err)

			if tt.loaded {
				assert.Len(t, loaded, 1)
				assert.Empty(t, skipped)
				return
			}
			assert.Empty(t, loaded)
			assert.Equal(t, []string{string(errors.KindVersionMismatch)}, codes(skipped))
			assert.Empty(t, f.loader.calls)
		})
	}
}

func TestTypeLoader_PanicIsContainedToEntry(t *testing.T) {
	f := newTypeLoaderFixture(t)

	loaded, skipped, err := f.types.Load(context.Background(),
		refs("Panics.Startup, Panics", "Foo.Startup, FooModule"), searchRoot)
	require.NoError(t, err)

	assert.Equal(t, []string{"Foo.Startup"}, names(loaded))
	assert.Equal(t, []string{string(errors.KindInternal)}, codes(skipped))
	assert.Contains(t, skipped[0].Detail.Message, "corrupt module table")
}

func TestTypeLoader_Cancelled(t *testing.T) {
	f := newTypeLoaderFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	loaded, skipped, err := f.types.Load(ctx, refs("Foo.Startup, FooModule"), searchRoot)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, loaded)
	assert.Nil(t, skipped)
	assert.Empty(t, f.loader.calls)
}

func TestTypeLoader_CustomContract(t *testing.T) {
	void := discovery.NewSignatureContract("void", entities.Signature{})
	f := newTypeLoaderFixture(t, discovery.WithContract(void))

	loaded, skipped, err := f.types.Load(context.Background(),
		refs("Foo.Startup, FooModule", "Foo.Helper, FooModule"), searchRoot)
	require.NoError(t, err)

	assert.Equal(t, []string{"Foo.Helper"}, names(loaded))
	assert.Equal(t, []string{string(errors.KindCapabilityMismatch)}, codes(skipped))
}

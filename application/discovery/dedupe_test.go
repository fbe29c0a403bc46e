package discovery_test

import (
	"testing"

	"github.com/reglet-dev/reglet-ext/application/discovery"
	"github.com/reglet-dev/reglet-ext/domain/entities"
	"github.com/stretchr/testify/assert"
)

func ext(fullName, module string) discovery.LoadedExtension {
	return discovery.LoadedExtension{Type: entities.TypeIdentity{FullName: fullName, Module: module}}
}

func names(exts []discovery.LoadedExtension) []string {
	out := make([]string, len(exts))
	for i, e := range exts {
		out[i] = e.Type.FullName
	}
	return out
}

func TestDedupe(t *testing.T) {
	tests := []struct {
		name string
		in   []discovery.LoadedExtension
		want []string
	}{
		{"empty", nil, []string{}},
		{"unique keeps order", []discovery.LoadedExtension{ext("B", "m"), ext("A", "m"), ext("C", "m")}, []string{"B", "A", "C"}},
		{"first occurrence wins", []discovery.LoadedExtension{ext("A", "m1"), ext("B", "m"), ext("A", "m2")}, []string{"A", "B"}},
		{"same name through different modules", []discovery.LoadedExtension{ext("Foo.Startup", "FooA"), ext("Foo.Startup", "FooB")}, []string{"Foo.Startup"}},
		{"comparison is byte exact", []discovery.LoadedExtension{ext("Foo.Startup", "m"), ext("foo.startup", "m")}, []string{"Foo.Startup", "foo.startup"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(discovery.Dedupe(tt.in)))
		})
	}

	t.Run("keeps first module", func(t *testing.T) {
		out := discovery.Dedupe([]discovery.LoadedExtension{ext("A", "first"), ext("A", "second")})
		assert.Equal(t, "first", out[0].Type.Module)
	})
}

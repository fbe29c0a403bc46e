package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTypeName(t *testing.T) {
	tests := []struct {
		in   string
		want TypeName
	}{
		{"Foo.Startup, FooModule", TypeName{Type: "Foo.Startup", Module: "FooModule"}},
		{"  Foo.Startup ,FooModule  ", TypeName{Type: "Foo.Startup", Module: "FooModule"}},
		{"Foo.Startup", TypeName{Type: "Foo.Startup"}},
		{"Foo.Startup,", TypeName{Type: "Foo.Startup"}},
		{", FooModule", TypeName{Module: "FooModule"}},
		{"Foo.Startup, FooModule, Version=1.0.0, Culture=neutral", TypeName{
			Type:       "Foo.Startup",
			Module:     "FooModule",
			Qualifiers: []string{"Version=1.0.0", "Culture=neutral"},
		}},
		{"", TypeName{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTypeName(tt.in))
		})
	}
}

func TestTypeName_String(t *testing.T) {
	assert.Equal(t, "Foo.Startup, FooModule", ParseTypeName("Foo.Startup,FooModule, Version=1").String())
	assert.Equal(t, "Foo.Startup", ParseTypeName("Foo.Startup").String())
	assert.False(t, ParseTypeName("Foo.Startup").HasModule())
}

func TestExtensionReference_DisplayName(t *testing.T) {
	assert.Equal(t, "greeter", ExtensionReference{Name: "greeter", TypeName: "Foo, Bar"}.DisplayName())
	assert.Equal(t, "Foo, Bar", ExtensionReference{Name: "  ", TypeName: "Foo, Bar"}.DisplayName())
}

func TestExtensionReference_Normalized(t *testing.T) {
	ref := ExtensionReference{Name: " a ", TypeName: "\tFoo, Bar\n", HintPath: " x.wasm", HostVersion: ">= 1 "}
	assert.Equal(t, ExtensionReference{Name: "a", TypeName: "Foo, Bar", HintPath: "x.wasm", HostVersion: ">= 1"}, ref.Normalized())
}

func TestNameComparison(t *testing.T) {
	assert.True(t, OrdinalIgnoreCase.Equal("ext_host", "EXT_HOST"))
	assert.False(t, OrdinalIgnoreCase.Equal("ext_host", "ext-host"))
	assert.False(t, Ordinal.Equal("ext_host", "EXT_HOST"))
	assert.True(t, Ordinal.Equal("ext_host", "ext_host"))

	assert.Equal(t, OrdinalIgnoreCase.Key("Foo"), OrdinalIgnoreCase.Key("fOO"))
	assert.True(t, OrdinalIgnoreCase.Equal("Modul.Überblick", "MODUL.üBERBLICK"))
	assert.False(t, OrdinalIgnoreCase.Equal("Straße", "STRASSE"))
	assert.Equal(t, "Foo", Ordinal.Key("Foo"))
	assert.Equal(t, "ordinal-ignore-case", OrdinalIgnoreCase.String())
	assert.Equal(t, "ordinal", Ordinal.String())
}

func TestParseNameComparison(t *testing.T) {
	for in, want := range map[string]NameComparison{"": OrdinalIgnoreCase, "Ordinal": Ordinal, "ordinal-ignore-case": OrdinalIgnoreCase, "ignore-case": OrdinalIgnoreCase} {
		got, err := ParseNameComparison(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseNameComparison("culture")
	assert.Error(t, err)
}

func TestBuiltinModuleSet(t *testing.T) {
	set := NewBuiltinModuleSet("wasi_snapshot_preview1", "", "ext_host")

	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []string{"ext_host", "wasi_snapshot_preview1"}, set.Names())

	name, ok := set.Match("Ext_Host", OrdinalIgnoreCase)
	assert.True(t, ok)
	assert.Equal(t, "ext_host", name)

	_, ok = set.Match("Ext_Host", Ordinal)
	assert.False(t, ok)

	_, ok = set.Match("FooModule", OrdinalIgnoreCase)
	assert.False(t, ok)

	var empty BuiltinModuleSet
	_, ok = empty.Match("ext_host", OrdinalIgnoreCase)
	assert.False(t, ok)
}

func TestBuiltinModuleSet_NamesIsACopy(t *testing.T) {
	set := NewBuiltinModuleSet("ext_host")
	names := set.Names()
	names[0] = "changed"
	assert.Equal(t, []string{"ext_host"}, set.Names())
}

func TestSignature(t *testing.T) {
	startup := Signature{Results: []ValueType{ValueTypeI32}}

	assert.True(t, startup.Equal(Signature{Results: []ValueType{ValueTypeI32}}))
	assert.False(t, startup.Equal(Signature{Results: []ValueType{ValueTypeI64}}))
	assert.False(t, startup.Equal(Signature{Params: []ValueType{ValueTypeI32}, Results: []ValueType{ValueTypeI32}}))
	assert.True(t, Signature{}.Equal(Signature{Params: []ValueType{}}))

	assert.Equal(t, "() -> (i32)", startup.String())
	assert.Equal(t, "(i64, f32) -> ()", Signature{Params: []ValueType{ValueTypeI64, ValueTypeF32}}.String())
}

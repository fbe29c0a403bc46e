package entities

import "strings"

// ValueType names a WebAssembly value type ("i32", "i64", "f32", "f64", ...).
type ValueType string

// Value types used by startup contracts.
const (
	ValueTypeI32 ValueType = "i32"
	ValueTypeI64 ValueType = "i64"
	ValueTypeF32 ValueType = "f32"
	ValueTypeF64 ValueType = "f64"
)

// Signature is the parameter and result shape of an exported function.
type Signature struct {
	Params  []ValueType
	Results []ValueType
}

// Equal reports whether both signatures have identical params and results.
func (s Signature) Equal(o Signature) bool {
	return equalTypes(s.Params, o.Params) && equalTypes(s.Results, o.Results)
}

func (s Signature) String() string {
	return "(" + joinTypes(s.Params) + ") -> (" + joinTypes(s.Results) + ")"
}

func equalTypes(a, b []ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func joinTypes(ts []ValueType) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

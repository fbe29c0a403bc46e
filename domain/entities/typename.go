package entities

import "strings"

// TypeName is a parsed "<type-identifier>, <module-identifier>" string.
type TypeName struct {
	// Type is everything before the first comma.
	Type string
	// Module is the first segment after the first comma. Empty when absent.
	Module string
	// Qualifiers holds any remaining segments (e.g. "Version=1.0.0").
	Qualifiers []string
}

// ParseTypeName splits a qualified type name. It never fails; callers check
// Type and Module for emptiness.
func ParseTypeName(s string) TypeName {
	parts := strings.Split(s, ",")
	tn := TypeName{Type: strings.TrimSpace(parts[0])}
	if len(parts) > 1 {
		tn.Module = strings.TrimSpace(parts[1])
	}
	for _, q := range parts[min(len(parts), 2):] {
		if q = strings.TrimSpace(q); q != "" {
			tn.Qualifiers = append(tn.Qualifiers, q)
		}
	}
	return tn
}

// HasModule reports whether a module identifier was given.
func (t TypeName) HasModule() bool {
	return t.Module != ""
}

func (t TypeName) String() string {
	if t.Module == "" {
		return t.Type
	}
	return t.Type + ", " + t.Module
}

package entities

import (
	"fmt"
	"strings"
	"unicode"
)

// NameComparison is the policy used to compare module and type names.
// It is always passed explicitly so results do not depend on platform defaults.
type NameComparison int

const (
	// OrdinalIgnoreCase compares names after simple per-rune upper-casing,
	// with no locale-specific rules. Mappings that change the rune count are
	// not applied, so "Straße" and "STRASSE" differ.
	OrdinalIgnoreCase NameComparison = iota
	// Ordinal compares names byte for byte.
	Ordinal
)

// Key returns the canonical form of s under this policy. Equal(a, b) holds
// exactly when Key(a) == Key(b).
func (c NameComparison) Key(s string) string {
	if c == Ordinal {
		return s
	}
	return strings.Map(unicode.ToUpper, s)
}

// Equal reports whether a and b name the same thing under this policy.
func (c NameComparison) Equal(a, b string) bool {
	if c == Ordinal {
		return a == b
	}
	return c.Key(a) == c.Key(b)
}

func (c NameComparison) String() string {
	switch c {
	case Ordinal:
		return "ordinal"
	case OrdinalIgnoreCase:
		return "ordinal-ignore-case"
	default:
		return "unknown"
	}
}

// ParseNameComparison parses the String form of a policy. Empty means
// OrdinalIgnoreCase.
func ParseNameComparison(s string) (NameComparison, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ordinal-ignore-case", "ignore-case":
		return OrdinalIgnoreCase, nil
	case "ordinal":
		return Ordinal, nil
	default:
		return OrdinalIgnoreCase, fmt.Errorf("unknown name comparison %q", s)
	}
}

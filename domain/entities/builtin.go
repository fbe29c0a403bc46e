package entities

import "sort"

// BuiltinModuleSet is the immutable set of module names that belong to the
// host core. It is built once at process start and handed to the resolver.
type BuiltinModuleSet struct {
	names []string
}

// NewBuiltinModuleSet copies names into a new set. Empty names are dropped.
func NewBuiltinModuleSet(names ...string) BuiltinModuleSet {
	set := BuiltinModuleSet{names: make([]string, 0, len(names))}
	for _, n := range names {
		if n != "" {
			set.names = append(set.names, n)
		}
	}
	sort.Strings(set.names)
	return set
}

// Match returns the built-in name equal to name under cmp.
func (s BuiltinModuleSet) Match(name string, cmp NameComparison) (string, bool) {
	key := cmp.Key(name)
	for _, n := range s.names {
		if cmp.Key(n) == key {
			return n, true
		}
	}
	return "", false
}

// Names returns a sorted copy of the set.
func (s BuiltinModuleSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of names in the set.
func (s BuiltinModuleSet) Len() int {
	return len(s.names)
}

package ports

import (
	"context"

	"github.com/reglet-dev/reglet-ext/domain/entities"
)

// ModuleHandle is a module loaded into a loader scope. Handles are shared and
// read-only; they live until the owning scope is closed.
type ModuleHandle interface {
	// Name is the module name used to resolve it.
	Name() string
	// Path is the resolved artifact path.
	Path() string
	// Digest is a content hash of the artifact.
	Digest() string
}

// ModuleLoader loads module artifacts into the scope it owns.
type ModuleLoader interface {
	// Load loads the artifact at path. Loads are memoized by path: a second
	// call with the same path returns the first handle.
	Load(ctx context.Context, name, path string) (ModuleHandle, error)
}

// Symbol is a named export of a loaded module.
type Symbol interface {
	Name() string
	Module() ModuleHandle
	Signature() entities.Signature
}

// SymbolLookup finds a named symbol inside a loaded module.
type SymbolLookup interface {
	Lookup(module ModuleHandle, name string, cmp entities.NameComparison) (Symbol, bool)
}

// CapabilityContract decides whether a symbol is an acceptable startup participant.
type CapabilityContract interface {
	Name() string
	Satisfied(sym Symbol) bool
}

package wazero

import (
	"github.com/reglet-dev/reglet-ext/domain/entities"
	"github.com/reglet-dev/reglet-ext/domain/ports"
	"github.com/tetratelabs/wazero/api"
)

// ExportLookup resolves symbols to exported functions of a loaded Module.
type ExportLookup struct{}

// NewExportLookup creates a new ExportLookup.
func NewExportLookup() ports.SymbolLookup {
	return ExportLookup{}
}

// Lookup finds the export called name. An exact match wins; otherwise the
// first export (in sorted order) equal to name under cmp is returned.
func (ExportLookup) Lookup(handle ports.ModuleHandle, name string, cmp entities.NameComparison) (ports.Symbol, bool) {
	mod, ok := handle.(*Module)
	if !ok || mod == nil {
		return nil, false
	}

	defs := mod.compiled.ExportedFunctions()
	if def, ok := defs[name]; ok {
		return &Export{name: name, module: mod, def: def}, true
	}
	if cmp == entities.Ordinal {
		return nil, false
	}

	for _, export := range mod.Exports() {
		if cmp.Equal(export, name) {
			return &Export{name: export, module: mod, def: defs[export]}, true
		}
	}
	return nil, false
}

// Export is an exported function of a loaded module.
type Export struct {
	def    api.FunctionDefinition
	module *Module
	name   string
}

// Name returns the export name as declared by the module.
func (e *Export) Name() string { return e.name }

// Module returns the owning module.
func (e *Export) Module() ports.ModuleHandle { return e.module }

// Signature returns the function's parameter and result types.
func (e *Export) Signature() entities.Signature {
	return entities.Signature{
		Params:  valueTypes(e.def.ParamTypes()),
		Results: valueTypes(e.def.ResultTypes()),
	}
}

func valueTypes(ts []api.ValueType) []entities.ValueType {
	if len(ts) == 0 {
		return nil
	}
	out := make([]entities.ValueType, len(ts))
	for i, t := range ts {
		out[i] = entities.ValueType(api.ValueTypeName(t))
	}
	return out
}

package host

import (
	"context"
	"fmt"

	loader "github.com/reglet-dev/reglet-ext/infrastructure/wazero"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// instantiate creates an instance of mod named after the module. The caller
// closes it before the next instantiation of the same name.
func (e *Executor) instantiate(ctx context.Context, mod *loader.Module) (api.Module, error) {
	cfg := wazero.NewModuleConfig().WithName(mod.Name()).WithStartFunctions()
	inst, err := e.scope.Runtime().InstantiateModule(ctx, mod.Compiled(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate module %s: %w", mod.Name(), err)
	}

	// Reactor modules expose _initialize instead of a start function.
	if init := inst.ExportedFunction("_initialize"); init != nil {
		if _, err := init.Call(ctx); err != nil {
			_ = inst.Close(ctx)
			return nil, fmt.Errorf("failed to call _initialize: %w", err)
		}
	}
	return inst, nil
}

func callStartup(ctx context.Context, inst api.Module, name string) (int32, error) {
	f := inst.ExportedFunction(name)
	if f == nil {
		return 0, fmt.Errorf("export %q not found", name)
	}
	results, err := f.Call(ctx)
	if err != nil {
		return 0, fmt.Errorf("startup call failed: %w", err)
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("startup export %q returned no status", name)
	}
	return api.DecodeI32(results[0]), nil
}

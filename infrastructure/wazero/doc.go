// Package wazero provides the WebAssembly side of extension loading.
//
// It implements the discovery ports on top of the wazero runtime:
//
//   - LoaderScope owns one wazero.Runtime and every module compiled into it.
//     Loads are memoized by resolved path, so two references to the same
//     artifact share one handle. Closing the scope is the only way to release
//     the modules it loaded.
//   - ExportLookup resolves a type name to an exported function of a loaded
//     module, optionally ignoring case.
//   - RegisterHostModules instantiates the host's built-in modules (WASI and
//     "ext_host") on the runtime. Their names form the default built-in set;
//     extensions may never be loaded under those names.
//
// # Basic Usage
//
//	scope, err := wazero.NewLoaderScope(ctx, wazero.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	defer scope.Close(ctx)
//
//	mod, err := scope.Load(ctx, "FooModule", "/srv/host/bin/FooModule.wasm")
//	if err != nil {
//	    return err
//	}
//	sym, ok := wazero.NewExportLookup().Lookup(mod, "Foo.Startup", entities.OrdinalIgnoreCase)
package wazero

package discovery

import (
	"context"
	stdErrors "errors"
	"fmt"
	"path/filepath"

	"github.com/reglet-dev/reglet-ext/domain/entities"
	"github.com/reglet-dev/reglet-ext/domain/ports"
)

var (
	// ErrModuleNotFound means no loadable artifact exists for a module.
	ErrModuleNotFound = stdErrors.New("module not found")
	// ErrBuiltinModule means the module name is reserved for the host.
	ErrBuiltinModule = stdErrors.New("module name is reserved for a built-in module")
)

// Resolver locates and loads the module backing an extension reference.
type Resolver struct {
	loader ports.ModuleLoader
	config config
}

// NewResolver creates a Resolver that loads through loader.
func NewResolver(loader ports.ModuleLoader, opts ...Option) *Resolver {
	return newResolver(loader, newConfig(opts))
}

func newResolver(loader ports.ModuleLoader, cfg config) *Resolver {
	return &Resolver{loader: loader, config: cfg}
}

// Resolve returns the module for name. hintPath, when set, overrides the
// default "<name><suffix>" artifact path; relative paths are resolved against
// searchRoot. A name in excluded is never loaded.
func (r *Resolver) Resolve(ctx context.Context, name, hintPath, searchRoot string, excluded entities.BuiltinModuleSet) (ports.ModuleHandle, error) {
	if builtin, ok := excluded.Match(name, r.config.comparison); ok {
		r.config.logger.WarnContext(ctx, "Extension module name collides with a built-in module; it will not be loaded",
			"module", name, "builtin", builtin)
		return nil, fmt.Errorf("%w: %s", ErrBuiltinModule, builtin)
	}

	path := r.ArtifactPath(name, hintPath, searchRoot)

	info, err := r.config.fs.Stat(path)
	if err != nil || info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, path)
	}

	mod, err := r.loader.Load(ctx, name, path)
	if err != nil {
		r.config.logger.WarnContext(ctx, "Unable to load extension module", "module", name, "path", path, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrModuleNotFound, err)
	}
	return mod, nil
}

// ArtifactPath computes the cleaned artifact path for name.
func (r *Resolver) ArtifactPath(name, hintPath, searchRoot string) string {
	path := hintPath
	if path == "" {
		path = name + r.config.moduleSuffix
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(searchRoot, path)
	}
	return filepath.Clean(path)
}

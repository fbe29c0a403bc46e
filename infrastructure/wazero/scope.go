package wazero

import (
	"context"
	"encoding/hex"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"

	"github.com/reglet-dev/reglet-ext/domain/ports"
	"github.com/spf13/afero"
	"github.com/tetratelabs/wazero"
	"github.com/zeebo/blake3"
)

// ErrScopeClosed is returned by Load after Close.
var ErrScopeClosed = stdErrors.New("loader scope is closed")

// scopeConfig holds configuration for the LoaderScope.
type scopeConfig struct {
	fs            afero.Fs
	logger        *slog.Logger
	runtimeConfig wazero.RuntimeConfig
	hostModules   bool
}

func defaultScopeConfig() scopeConfig {
	return scopeConfig{
		fs:            afero.NewOsFs(),
		runtimeConfig: wazero.NewRuntimeConfig(),
		hostModules:   true,
	}
}

// ScopeOption configures a LoaderScope.
type ScopeOption func(*scopeConfig)

// WithFs sets the filesystem artifacts are read from.
func WithFs(fsys afero.Fs) ScopeOption {
	return func(c *scopeConfig) {
		c.fs = fsys
	}
}

// WithLogger sets the logger for load diagnostics.
func WithLogger(l *slog.Logger) ScopeOption {
	return func(c *scopeConfig) {
		c.logger = l
	}
}

// WithRuntimeConfig sets the wazero runtime configuration.
func WithRuntimeConfig(rc wazero.RuntimeConfig) ScopeOption {
	return func(c *scopeConfig) {
		c.runtimeConfig = rc
	}
}

// WithHostModules enables or disables instantiating the built-in host modules.
// Default is true.
func WithHostModules(enabled bool) ScopeOption {
	return func(c *scopeConfig) {
		c.hostModules = enabled
	}
}

// LoaderScope exclusively owns the modules loaded for one discovery run.
// It is separate from the host's own code: built-in host modules live in the
// same runtime but are never loaded through the scope.
type LoaderScope struct {
	runtime wazero.Runtime
	config  scopeConfig
	modules map[string]*Module
	mu      sync.Mutex
	closed  bool
}

// NewLoaderScope creates a scope backed by a fresh wazero runtime.
func NewLoaderScope(ctx context.Context, opts ...ScopeOption) (*LoaderScope, error) {
	cfg := defaultScopeConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	rt := wazero.NewRuntimeWithConfig(ctx, cfg.runtimeConfig)
	if cfg.hostModules {
		if err := RegisterHostModules(ctx, rt, cfg.logger); err != nil {
			_ = rt.Close(ctx)
			return nil, fmt.Errorf("failed to register host modules: %w", err)
		}
	}

	return &LoaderScope{
		runtime: rt,
		config:  cfg,
		modules: make(map[string]*Module),
	}, nil
}

// Runtime returns the runtime the scope compiles into.
func (s *LoaderScope) Runtime() wazero.Runtime {
	return s.runtime
}

// Load compiles the artifact at path. A path already loaded in this scope
// returns the first handle, whatever name it is requested under.
func (s *LoaderScope) Load(ctx context.Context, name, path string) (ports.ModuleHandle, error) {
	mod, err := s.load(ctx, name, path)
	if err != nil {
		return nil, err
	}
	return mod, nil
}

func (s *LoaderScope) load(ctx context.Context, name, path string) (*Module, error) {
	key := filepath.Clean(path)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrScopeClosed
	}
	if mod, ok := s.modules[key]; ok {
		return mod, nil
	}

	data, err := afero.ReadFile(s.config.fs, key)
	if err != nil {
		return nil, fmt.Errorf("failed to read module %s: %w", key, err)
	}
	sum := blake3.Sum256(data)

	compiled, err := s.runtime.CompileModule(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("failed to compile module %s: %w", key, err)
	}

	mod := &Module{
		name:     name,
		path:     key,
		digest:   hex.EncodeToString(sum[:]),
		compiled: compiled,
	}
	s.modules[key] = mod

	s.config.logger.DebugContext(ctx, "Loaded extension module",
		"module", name, "path", key, "digest", mod.digest, "exports", len(compiled.ExportedFunctions()))
	return mod, nil
}

// Modules returns the loaded modules sorted by path.
func (s *LoaderScope) Modules() []*Module {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Module, 0, len(s.modules))
	for _, m := range s.modules {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].path < out[j].path })
	return out
}

// Close releases the runtime and every module loaded into the scope.
func (s *LoaderScope) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.modules = nil
	return s.runtime.Close(ctx)
}

// Module is a compiled module owned by a LoaderScope.
type Module struct {
	compiled wazero.CompiledModule
	name     string
	path     string
	digest   string
}

func (m *Module) Name() string   { return m.name }
func (m *Module) Path() string   { return m.path }
func (m *Module) Digest() string { return m.digest }

// Compiled returns the underlying compiled module.
func (m *Module) Compiled() wazero.CompiledModule {
	return m.compiled
}

// Exports returns the exported function names, sorted.
func (m *Module) Exports() []string {
	defs := m.compiled.ExportedFunctions()
	names := make([]string, 0, len(defs))
	for n := range defs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

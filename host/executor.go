package host

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reglet-dev/reglet-ext/application/discovery"
	"github.com/reglet-dev/reglet-ext/domain/entities"
	loader "github.com/reglet-dev/reglet-ext/infrastructure/wazero"
)

// Executor discovers startup extensions and runs their startup exports.
type Executor struct {
	scope  *loader.LoaderScope
	disc   *discovery.Discoverer
	config executorConfig
}

// NewExecutor creates a new executor with the given options. The returned
// executor owns a runtime; release it with Close.
func NewExecutor(ctx context.Context, opts ...Option) (*Executor, error) {
	cfg := defaultExecutorConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	scope, err := loader.NewLoaderScope(ctx,
		loader.WithFs(cfg.fs),
		loader.WithLogger(cfg.logger),
		loader.WithRuntimeConfig(cfg.runtimeConfig),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create loader scope: %w", err)
	}

	dopts := append([]discovery.Option{
		discovery.WithFs(cfg.fs),
		discovery.WithLogger(cfg.logger),
		discovery.WithBuiltins(entities.NewBuiltinModuleSet(loader.BuiltinModuleNames()...)),
	}, cfg.discovery...)

	return &Executor{
		scope:  scope,
		disc:   discovery.NewDiscoverer(scope, loader.NewExportLookup(), dopts...),
		config: cfg,
	}, nil
}

// Close releases the runtime and every module discovered through it.
func (e *Executor) Close(ctx context.Context) error {
	return e.scope.Close(ctx)
}

// Discover runs discovery for hostRoot. The returned extensions stay valid
// until Close.
func (e *Executor) Discover(ctx context.Context, hostRoot string) (*discovery.Result, error) {
	return e.disc.Discover(ctx, hostRoot)
}

// Start runs the startup export of every extension in res, in order. It stops
// at the first participant that fails or returns a non-zero status.
func (e *Executor) Start(ctx context.Context, res *discovery.Result) error {
	if res == nil {
		return nil
	}
	for _, ext := range res.Extensions {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.startOne(ctx, ext); err != nil {
			return err
		}
	}
	return nil
}

// Run discovers the extensions under hostRoot and starts them.
func (e *Executor) Run(ctx context.Context, hostRoot string) (*discovery.Result, error) {
	res, err := e.Discover(ctx, hostRoot)
	if err != nil {
		return nil, err
	}
	if err := e.Start(ctx, res); err != nil {
		return res, err
	}
	return res, nil
}

func (e *Executor) startOne(ctx context.Context, ext discovery.LoadedExtension) error {
	mod, ok := ext.Module.(*loader.Module)
	if !ok {
		return fmt.Errorf("extension %s: module %s was not loaded by this executor", ext.Type, ext.Module.Name())
	}

	inst, err := e.instantiate(ctx, mod)
	if err != nil {
		return fmt.Errorf("extension %s: %w", ext.Type, err)
	}
	defer func() {
		_ = inst.Close(ctx)
	}()

	status, err := callStartup(ctx, inst, ext.Symbol.Name())
	if err != nil {
		return fmt.Errorf("extension %s: %w", ext.Type, err)
	}
	if status != 0 {
		return &StartupError{Type: ext.Type, Status: status}
	}

	e.config.logger.InfoContext(ctx, "Started extension", "extension", ext.Reference.DisplayName(), "type", ext.Type.FullName, "module", ext.Type.Module)
	return nil
}

// StartupError reports a participant that returned a non-zero status.
type StartupError struct {
	Type   entities.TypeIdentity
	Status int32
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("extension %s (%s) failed to start: status %d", e.Type.FullName, e.Type.Module, e.Status)
}

package host

import (
	"log/slog"

	"github.com/reglet-dev/reglet-ext/application/discovery"
	"github.com/spf13/afero"
	"github.com/tetratelabs/wazero"
)

// executorConfig holds configuration for the Executor.
type executorConfig struct {
	fs            afero.Fs
	logger        *slog.Logger
	runtimeConfig wazero.RuntimeConfig
	discovery     []discovery.Option
}

func defaultExecutorConfig() executorConfig {
	return executorConfig{
		fs:            afero.NewOsFs(),
		runtimeConfig: wazero.NewRuntimeConfig(),
	}
}

// Option defines a functional option for configuring the Executor.
type Option func(*executorConfig)

// WithFs sets the filesystem the manifest and modules are read from.
func WithFs(fsys afero.Fs) Option {
	return func(c *executorConfig) {
		c.fs = fsys
	}
}

// WithLogger sets the logger for the executor, discovery and guest log output.
func WithLogger(l *slog.Logger) Option {
	return func(c *executorConfig) {
		c.logger = l
	}
}

// WithRuntimeConfig sets the wazero runtime configuration.
func WithRuntimeConfig(rc wazero.RuntimeConfig) Option {
	return func(c *executorConfig) {
		c.runtimeConfig = rc
	}
}

// WithDiscoveryOptions passes options through to the discoverer. They are
// applied after the executor's own filesystem, logger and built-in set.
func WithDiscoveryOptions(opts ...discovery.Option) Option {
	return func(c *executorConfig) {
		c.discovery = append(c.discovery, opts...)
	}
}

package discovery

import (
	"log/slog"

	"github.com/Masterminds/semver/v3"
	"github.com/reglet-dev/reglet-ext/domain/entities"
	"github.com/reglet-dev/reglet-ext/domain/ports"
	"github.com/spf13/afero"
)

const (
	// DefaultManifestFile is the manifest file name inside the bin directory.
	DefaultManifestFile = "extensions.json"
	// DefaultModuleSuffix is appended to a module name when no hint path is given.
	DefaultModuleSuffix = ".wasm"
	// BinDir is the directory under the host root holding the manifest and modules.
	BinDir = "bin"
)

// config holds configuration shared by the discovery components.
type config struct {
	fs           afero.Fs
	logger       *slog.Logger
	contract     ports.CapabilityContract
	hostVersion  *semver.Version
	builtins     entities.BuiltinModuleSet
	manifestFile string
	moduleSuffix string
	comparison   entities.NameComparison
}

func defaultConfig() config {
	return config{
		fs:           afero.NewOsFs(),
		contract:     StartupContract(),
		manifestFile: DefaultManifestFile,
		moduleSuffix: DefaultModuleSuffix,
		comparison:   entities.OrdinalIgnoreCase,
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	return cfg
}

// Option configures discovery components.
type Option func(*config)

// WithFs sets the filesystem used to probe for module artifacts and read the manifest.
func WithFs(fsys afero.Fs) Option {
	return func(c *config) {
		c.fs = fsys
	}
}

// WithLogger sets the logger for diagnostics. Results never depend on logging.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithBuiltins sets the module names reserved for the host.
func WithBuiltins(set entities.BuiltinModuleSet) Option {
	return func(c *config) {
		c.builtins = set
	}
}

// WithComparison sets the name comparison policy for module and type names.
// Default is OrdinalIgnoreCase.
func WithComparison(cmp entities.NameComparison) Option {
	return func(c *config) {
		c.comparison = cmp
	}
}

// WithContract sets the capability contract types must satisfy.
func WithContract(contract ports.CapabilityContract) Option {
	return func(c *config) {
		c.contract = contract
	}
}

// WithHostVersion enables hostVersion constraints on references. Without a
// host version, constraints are not checked.
func WithHostVersion(v *semver.Version) Option {
	return func(c *config) {
		c.hostVersion = v
	}
}

// WithManifestFile sets the manifest file name inside the bin directory.
func WithManifestFile(name string) Option {
	return func(c *config) {
		c.manifestFile = name
	}
}

// WithModuleSuffix sets the artifact suffix used when no hint path is given.
func WithModuleSuffix(suffix string) Option {
	return func(c *config) {
		c.moduleSuffix = suffix
	}
}

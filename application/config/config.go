// Package config loads extctl configuration from a file, the environment
// and command-line flags.
package config

import (
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/reglet-dev/reglet-ext/application/discovery"
	"github.com/reglet-dev/reglet-ext/domain/entities"
	extlog "github.com/reglet-dev/reglet-ext/log"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

const (
	// FileName is the config file name searched for without an explicit path.
	FileName = "extctl"
	// FileType is the config file format.
	FileType = "yaml"
	// EnvPrefix prefixes environment overrides, e.g. EXTCTL_LOG_LEVEL.
	EnvPrefix = "EXTCTL"
)

// Keys.
const (
	KeyRoot        = "root"
	KeyManifest    = "manifest"
	KeyBuiltins    = "builtins"
	KeyHostVersion = "host_version"
	KeyComparison  = "comparison"
	KeyLogLevel    = "log.level"
	KeyLogFormat   = "log.format"
)

// Config is the resolved extctl configuration.
type Config struct {
	Root        string    `mapstructure:"root"`
	Manifest    string    `mapstructure:"manifest"`
	HostVersion string    `mapstructure:"host_version"`
	Comparison  string    `mapstructure:"comparison"`
	Builtins    []string  `mapstructure:"builtins"`
	Log         LogConfig `mapstructure:"log"`
}

// LogConfig configures the host log handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// New returns a viper instance with defaults and environment overrides.
// Config files are read from fsys.
func New(fsys afero.Fs) *viper.Viper {
	v := viper.New()
	v.SetFs(fsys)

	v.SetDefault(KeyRoot, ".")
	v.SetDefault(KeyManifest, discovery.DefaultManifestFile)
	v.SetDefault(KeyBuiltins, []string{})
	v.SetDefault(KeyHostVersion, "")
	v.SetDefault(KeyComparison, entities.OrdinalIgnoreCase.String())
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, string(extlog.FormatText))

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file into v and returns the merged configuration.
// An explicit file must exist; without one, ./extctl.yaml is optional.
func Load(v *viper.Viper, file string) (*Config, error) {
	v.SetConfigType(FileType)
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !stdErrors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field that has a constrained format.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Root) == "" {
		errs = append(errs, fmt.Errorf("%s must not be empty", KeyRoot))
	}
	if strings.TrimSpace(c.Manifest) == "" {
		errs = append(errs, fmt.Errorf("%s must not be empty", KeyManifest))
	}
	if _, err := c.hostVersion(); err != nil {
		errs = append(errs, err)
	}
	if _, err := entities.ParseNameComparison(c.Comparison); err != nil {
		errs = append(errs, err)
	}
	if _, err := extlog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if _, err := extlog.ParseFormat(c.Log.Format); err != nil {
		errs = append(errs, err)
	}
	return stdErrors.Join(errs...)
}

func (c *Config) hostVersion() (*semver.Version, error) {
	if c.HostVersion == "" {
		return nil, nil
	}
	v, err := semver.NewVersion(c.HostVersion)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q: %w", KeyHostVersion, c.HostVersion, err)
	}
	return v, nil
}

// DiscoveryOptions converts the configuration to discovery options. builtins
// are the host's own modules; configured builtins are added to them.
func (c *Config) DiscoveryOptions(builtins ...string) ([]discovery.Option, error) {
	cmp, err := entities.ParseNameComparison(c.Comparison)
	if err != nil {
		return nil, err
	}
	opts := []discovery.Option{
		discovery.WithManifestFile(c.Manifest),
		discovery.WithComparison(cmp),
		discovery.WithBuiltins(entities.NewBuiltinModuleSet(append(append([]string{}, builtins...), c.Builtins...)...)),
	}

	hv, err := c.hostVersion()
	if err != nil {
		return nil, err
	}
	if hv != nil {
		opts = append(opts, discovery.WithHostVersion(hv))
	}
	return opts, nil
}

// Logger builds the host logger writing to w.
func (c *Config) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := extlog.ParseLevel(c.Log.Level)
	if err != nil {
		return nil, err
	}
	format, err := extlog.ParseFormat(c.Log.Format)
	if err != nil {
		return nil, err
	}
	return slog.New(extlog.NewHandler(w, extlog.WithLevel(level), extlog.WithFormat(format))), nil
}

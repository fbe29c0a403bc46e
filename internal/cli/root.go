// Package cli implements the extctl command tree.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/reglet-dev/reglet-ext/application/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// BuildInfo is injected via ldflags.
type BuildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Option configures the command tree.
type Option func(*app)

// WithFs sets the filesystem for config, manifest and module reads.
func WithFs(fsys afero.Fs) Option {
	return func(a *app) {
		a.fs = fsys
	}
}

// WithBuildInfo sets the version reported by the version command.
func WithBuildInfo(info BuildInfo) Option {
	return func(a *app) {
		a.build = info
	}
}

// app is the state shared by the commands of one invocation.
type app struct {
	fs         afero.Fs
	viper      *viper.Viper
	config     *config.Config
	logger     *slog.Logger
	build      BuildInfo
	configFile string
}

// NewRootCommand builds the extctl command tree.
func NewRootCommand(opts ...Option) *cobra.Command {
	a := &app{fs: afero.NewOsFs(), build: BuildInfo{Version: "dev", Commit: "none", Date: "unknown"}}
	for _, opt := range opts {
		opt(a)
	}
	a.viper = config.New(a.fs)

	root := &cobra.Command{
		Use:   "extctl",
		Short: "Discover and start host startup extensions",
		Long: `extctl reads the extensions manifest under <root>/bin, resolves each
declared startup extension to its WebAssembly module and reports or starts
the ones that load.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default ./extctl.yaml)")
	pf.String("root", ".", "host root directory")
	pf.String("manifest", "", "manifest file name inside <root>/bin")
	pf.StringSlice("builtins", nil, "additional module names reserved for the host")
	pf.String("host-version", "", "host version checked against hostVersion constraints")
	pf.String("comparison", "", "module and type name comparison: ordinal-ignore-case or ordinal")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text or json")

	bind := map[string]string{
		config.KeyRoot:        "root",
		config.KeyManifest:    "manifest",
		config.KeyBuiltins:    "builtins",
		config.KeyHostVersion: "host-version",
		config.KeyComparison:  "comparison",
		config.KeyLogLevel:    "log-level",
		config.KeyLogFormat:   "log-format",
	}
	for key, flag := range bind {
		_ = a.viper.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		newDiscoverCommand(a),
		newSchemaCommand(),
		newVersionCommand(a),
	)
	return root
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	return NewRootCommand(WithBuildInfo(BuildInfo{Version: version, Commit: commit, Date: date})).Execute()
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.viper, a.configFile)
	if err != nil {
		return err
	}
	logger, err := cfg.Logger(cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("configuring logger: %w", err)
	}
	a.config = cfg
	a.logger = logger
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"

	"github.com/reviewfirst/skillc/internal/build"
	"github.com/reviewfirst/skillc/internal/config"
	"github.com/reviewfirst/skillc/internal/issue"
	"github.com/reviewfirst/skillc/internal/toolchain"
)

type (
	// App wires CLI services and per-invocation state. Every command handler
	// receives the App and reads configuration, output writers and the
	// logger through it.
	App struct {
		Config   ConfigProvider
		Compiler toolchain.Compiler
		stdout   io.Writer
		stderr   io.Writer

		verbose    bool
		configPath string
		cfg        *config.Config
		logger     *log.Logger
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		// Compiler replaces the native C toolchain when set.
		Compiler toolchain.Compiler
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}
)

// NewApp creates the CLI composition root.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}

	app := &App{
		Config:   deps.Config,
		Compiler: deps.Compiler,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
	}
	app.logger = newLogger(app.stderr, false)
	return app
}

// newLogger creates the CLI logger: prefixed, on stderr, debug when verbose.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "skillc",
		Level:  level,
	})
}

// settings loads configuration once per invocation, honoring --config, and
// switches the logger to debug level when ui.verbose is set.
func (a *App) settings(ctx context.Context) (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}

	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.configPath})
	if err != nil {
		return nil, newServiceError(err, issue.ConfigLoadFailedId)
	}
	a.cfg = cfg

	if cfg.UI.Verbose && !a.verbose {
		a.verbose = true
		a.installLogger()
	}
	a.logger.Debug("configuration loaded", "compiler", cfg.Compiler.Path, "opt_level", cfg.Compiler.OptLevel, "default_mode", cfg.Build.DefaultMode)
	return cfg, nil
}

// installLogger rebuilds the logger for the current verbosity and makes it
// the slog default so library packages share it.
func (a *App) installLogger() {
	a.logger = newLogger(a.stderr, a.verbose)
	slog.SetDefault(slog.New(a.logger))
}

// builder creates a build.Builder for the loaded configuration.
func (a *App) builder(cfg *config.Config) *build.Builder {
	opts := []build.Option{build.WithLogger(a.logger)}
	if a.Compiler != nil {
		opts = append(opts, build.WithCompiler(a.Compiler))
	}
	return build.NewBuilder(cfg.Compiler, opts...)
}

// glamourStyle maps the configured color scheme to a glamour style name.
func (a *App) glamourStyle() string {
	if a.cfg == nil {
		return string(config.ColorSchemeAuto)
	}
	return string(a.cfg.UI.ColorScheme)
}

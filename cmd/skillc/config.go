// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/reviewfirst/skillc/internal/config"
)

// newConfigCommand creates the `skillc config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize skillc configuration",
		Long: `Inspect and initialize skillc configuration.

Configuration is read from config.cue in the skillc config directory, then
./config.cue, unless --config names a file. SKILLC_* environment variables
override file values, e.g. SKILLC_COMPILER_PATH or SKILLC_BUILD_DEFAULT_MODE.`,
	}

	configCmd.AddCommand(newConfigShowCommand(app))
	configCmd.AddCommand(newConfigPathCommand(app))
	configCmd.AddCommand(newConfigInitCommand(app))
	configCmd.AddCommand(newConfigDumpCommand(app))

	return configCmd
}

func newConfigShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.settings(cmd.Context())
			if err != nil {
				return err
			}
			source, err := config.Locate(config.LoadOptions{ConfigFilePath: app.configPath})
			if err != nil {
				return err
			}
			if source == "" {
				source = "(built-in defaults)"
			}

			keyStyle := KeyStyle.Width(22)
			row := func(key, value string) {
				fmt.Fprintln(app.stdout, lipgloss.JoinHorizontal(lipgloss.Top, keyStyle.Render(key), value))
			}

			fmt.Fprintln(app.stdout, TitleStyle.Render("skillc configuration"))
			row("source", source)
			fmt.Fprintln(app.stdout)
			fmt.Fprintln(app.stdout, SubtitleStyle.Render("compiler"))
			row("  path", valueOr(cfg.Compiler.Path, "(auto: gcc, cc)"))
			row("  opt_level", cfg.Compiler.OptLevel)
			row("  flags", valueOr(strings.Join(cfg.Compiler.Flags, " "), "(none)"))
			fmt.Fprintln(app.stdout, SubtitleStyle.Render("build"))
			row("  default_mode", cfg.Build.DefaultMode.String())
			fmt.Fprintln(app.stdout, SubtitleStyle.Render("ui"))
			row("  verbose", fmt.Sprintf("%v", cfg.UI.Verbose))
			row("  color_scheme", cfg.UI.ColorScheme.String())
			return nil
		},
	}
}

func newConfigPathCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the default config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.ConfigDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(app.stdout, filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt))
			return nil
		},
	}
}

func newConfigInitCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default config file if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, created, err := config.CreateDefaultConfig("")
			if err != nil {
				return err
			}
			if !created {
				fmt.Fprintf(app.stdout, "Config file already exists: %s\n", path)
				return nil
			}
			fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	}
}

func newConfigDumpCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.settings(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	}
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/reviewfirst/skillc/internal/build"
	"github.com/reviewfirst/skillc/internal/config"
	"github.com/reviewfirst/skillc/internal/watch"
)

type buildFlagValues struct {
	output string
	mode   string
	watch  bool
	also   []string
}

// newBuildCommand creates the `skillc build` command.
func newBuildCommand(app *App) *cobra.Command {
	flags := &buildFlagValues{}

	buildCmd := &cobra.Command{
		Use:   "build <entry>",
		Short: "Build a skill document to a native executable",
		Long: `Build a skill document to a native executable.

Writes <output>, the generated C source next to it, and
<output>.manifest.json with SHA-256 digests of the entry and the artifact.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.watch {
				return runWatchMode(cmd.Context(), app, flags, args[0])
			}
			return runBuild(cmd.Context(), app, flags, args[0])
		},
	}

	buildCmd.Flags().StringVarP(&flags.output, "output", "o", "", "output executable path (required)")
	buildCmd.Flags().StringVar(&flags.mode, "mode", "", "build mode recorded in the manifest: debug or release (default from config)")
	buildCmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "rebuild whenever the entry changes")
	buildCmd.Flags().StringSliceVar(&flags.also, "watch-also", nil, "extra glob patterns (relative to the entry's directory) that trigger a rebuild")
	_ = buildCmd.MarkFlagRequired("output")

	return buildCmd
}

// resolveMode picks the --mode flag, else build.default_mode.
func resolveMode(flag string, cfg *config.Config) (config.BuildMode, error) {
	mode := config.BuildMode(flag)
	if flag == "" {
		mode = cfg.Build.DefaultMode
	}
	if valid, _ := mode.IsValid(); !valid {
		return "", fmt.Errorf("invalid --mode %q (valid: debug, release)", flag)
	}
	return mode, nil
}

func runBuild(ctx context.Context, app *App, flags *buildFlagValues, entry string) error {
	cfg, err := app.settings(ctx)
	if err != nil {
		return err
	}
	mode, err := resolveMode(flags.mode, cfg)
	if err != nil {
		return err
	}

	res, err := app.builder(cfg).Build(ctx, build.Options{Entry: entry, Output: flags.output, Mode: mode})
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Built %s -> %s\n", res.SkillName, res.Output)
	fmt.Fprintf(app.stdout, "Manifest: %s\n", res.ManifestPath)
	return nil
}

// runWatchMode builds once, then rebuilds on every change to the entry
// until the context is cancelled (Ctrl+C). Failed builds are reported and
// the watcher keeps running.
func runWatchMode(ctx context.Context, app *App, flags *buildFlagValues, entry string) error {
	cfg, err := app.settings(ctx)
	if err != nil {
		return err
	}
	if _, err := resolveMode(flags.mode, cfg); err != nil {
		return err
	}

	rebuild := func(ctx context.Context, changed []string) error {
		if len(changed) > 0 {
			fmt.Fprintf(app.stderr, "%s %s\n", SubtitleStyle.Render("Changed:"), strings.Join(changed, ", "))
		}
		if err := runBuild(ctx, app, flags, entry); err != nil {
			app.renderError(app.stderr, err)
		}
		return nil
	}

	_ = rebuild(ctx, nil)

	w, err := watch.New(watch.Config{
		Entry:    entry,
		Extra:    flags.also,
		OnChange: rebuild,
		Stderr:   app.stderr,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stderr, "%s %s %s\n", SubtitleStyle.Render("Watching"), entry, SubtitleStyle.Render("for changes (Ctrl+C to stop)"))
	return w.Run(ctx)
}

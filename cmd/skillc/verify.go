// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reviewfirst/skillc/internal/manifest"
)

// newVerifyCommand creates the `skillc verify` command.
func newVerifyCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <manifest>",
		Short: "Check that a build's source and artifact still match its manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := manifest.Read(args[0])
			if err != nil {
				return err
			}
			app.logger.Debug("verifying manifest", "path", args[0], "compiler", m.Compiler, "build_mode", m.BuildMode)

			if err := manifest.Verify(m); err != nil {
				return err
			}

			fmt.Fprintf(app.stdout, "%s %s matches %s (%s build)\n", SuccessStyle.Render("✓"), m.Artifact.Path, m.Source.Path, m.BuildMode)
			return nil
		},
	}
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newEmitCommand creates the `skillc emit` command.
func newEmitCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "emit <entry>",
		Short: "Print the C source generated for a skill document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.settings(cmd.Context())
			if err != nil {
				return err
			}
			code, err := app.builder(cfg).Emit(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, code)
			return nil
		},
	}
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/reviewfirst/skillc/pkg/skillfile"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// checkReport is the machine-readable summary printed by `skillc check`.
type checkReport struct {
	Skill  string            `json:"skill" yaml:"skill"`
	Source string            `json:"source" yaml:"source"`
	Docs   map[string]string `json:"docs" yaml:"docs"`
	Steps  []string          `json:"steps" yaml:"steps"`
}

// newCheckCommand creates the `skillc check` command.
func newCheckCommand(app *App) *cobra.Command {
	var format string

	checkCmd := &cobra.Command{
		Use:   "check <entry>",
		Short: "Validate a skill document without building it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case formatText, formatJSON, formatYAML:
			default:
				return fmt.Errorf("unsupported --format %q (valid: text, json, yaml)", format)
			}

			cfg, err := app.settings(cmd.Context())
			if err != nil {
				return err
			}
			prog, err := app.builder(cfg).Check(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeReport(app.stdout, newCheckReport(prog), format)
		},
	}

	checkCmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json or yaml")

	return checkCmd
}

func newCheckReport(prog *skillfile.Program) checkReport {
	steps := make([]string, 0, len(prog.Steps))
	for _, s := range prog.Steps {
		steps = append(steps, s.String())
	}
	return checkReport{
		Skill:  prog.Name(),
		Source: prog.SourcePath,
		Docs:   prog.Docs.Map(),
		Steps:  steps,
	}
}

func writeReport(w io.Writer, report checkReport, format string) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	}

	fmt.Fprintf(w, "%s %s is valid (%s)\n", SuccessStyle.Render("✓"), TitleStyle.Render(report.Skill), report.Source)
	fmt.Fprintln(w, KeyStyle.Render("Doc headers:"))
	keys := make([]string, 0, len(report.Docs))
	for k := range report.Docs {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, report.Docs[k])
	}
	fmt.Fprintln(w, KeyStyle.Render("Steps:"))
	for i, s := range report.Steps {
		fmt.Fprintf(w, "  %d. %s\n", i+1, s)
	}
	return nil
}

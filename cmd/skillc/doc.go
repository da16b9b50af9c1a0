// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands for skillc.
//
// It wires the Cobra command tree (build, check, emit, verify, config) to the
// compiler pipeline in internal/build, runs it through fang for styled help
// and signal handling, and renders failures as "skillc error: <message>".
package cmd

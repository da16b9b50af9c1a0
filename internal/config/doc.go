// SPDX-License-Identifier: MPL-2.0

// Package config handles skillc configuration using Viper with CUE as the file format.
//
// Configuration is loaded from ~/.config/skillc/config.cue (or the XDG equivalent on Linux,
// ~/Library/Application Support/skillc/config.cue on macOS, %APPDATA%\skillc\config.cue
// on Windows), then ./config.cue, unless an explicit file is given. SKILLC_* environment
// variables override file values (SKILLC_COMPILER_PATH sets compiler.path).
//
// Files are validated against the embedded CUE schema (config_schema.cue) before they
// reach Viper.
package config

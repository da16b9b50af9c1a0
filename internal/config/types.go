// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// ModeDebug is the default build mode.
	ModeDebug BuildMode = "debug"
	// ModeRelease marks release builds in the manifest.
	ModeRelease BuildMode = "release"

	// DefaultOptLevel is the optimization flag used when none is configured.
	DefaultOptLevel = "-O2"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidBuildMode is returned when a BuildMode value is not recognized.
	ErrInvalidBuildMode = errors.New("invalid build mode")
	// ErrInvalidOptLevel is returned when an optimization flag is malformed.
	ErrInvalidOptLevel = errors.New("invalid optimization level")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// BuildMode is recorded verbatim in every build manifest.
	BuildMode string

	// InvalidValueError reports a config field holding an unrecognized value.
	// It wraps the field's sentinel for errors.Is() compatibility.
	InvalidValueError struct {
		Field    string
		Value    string
		Allowed  []string
		sentinel error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig and collects the field-level errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the skillc configuration.
	Config struct {
		// Compiler configures the native C toolchain.
		Compiler CompilerConfig `json:"compiler" mapstructure:"compiler"`
		// Build configures build defaults.
		Build BuildConfig `json:"build" mapstructure:"build"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// CompilerConfig configures the native C toolchain.
	CompilerConfig struct {
		// Path is the compiler executable; empty searches PATH for gcc, then cc.
		Path string `json:"path" mapstructure:"path"`
		// OptLevel is the optimization flag passed to the compiler.
		OptLevel string `json:"opt_level" mapstructure:"opt_level"`
		// Flags are extra compiler arguments.
		Flags []string `json:"flags" mapstructure:"flags"`
	}

	// BuildConfig configures build defaults.
	BuildConfig struct {
		// DefaultMode is used when `build --mode` is not given.
		DefaultMode BuildMode `json:"default_mode" mapstructure:"default_mode"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// Verbose enables debug logging and issue guidance.
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// ColorScheme selects the glamour style for issue guidance.
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}
)

// Error implements the error interface for InvalidValueError.
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: invalid value %q (valid: %s)", e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

// Unwrap returns the field's sentinel error.
func (e *InvalidValueError) Unwrap() error { return e.sentinel }

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, fe := range e.FieldErrors {
		msgs = append(msgs, fe.Error())
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidValueError{
			Field: "ui.color_scheme", Value: string(cs),
			Allowed: []string{"auto", "dark", "light"}, sentinel: ErrInvalidColorScheme,
		}}
	}
}

// String returns the string representation of the BuildMode.
func (m BuildMode) String() string { return string(m) }

// IsValid returns whether the BuildMode is debug or release.
func (m BuildMode) IsValid() (bool, []error) {
	switch m {
	case ModeDebug, ModeRelease:
		return true, nil
	default:
		return false, []error{&InvalidValueError{
			Field: "build.default_mode", Value: string(m),
			Allowed: []string{"debug", "release"}, sentinel: ErrInvalidBuildMode,
		}}
	}
}

// IsValid returns whether the CompilerConfig has a well-formed optimization flag.
func (c CompilerConfig) IsValid() (bool, []error) {
	if !strings.HasPrefix(c.OptLevel, "-O") {
		return false, []error{&InvalidValueError{
			Field: "compiler.opt_level", Value: c.OptLevel,
			Allowed: []string{"-O0", "-O1", "-O2", "-O3", "-Os", "-Og"}, sentinel: ErrInvalidOptLevel,
		}}
	}
	return true, nil
}

// IsValid validates every field, including values set through the
// environment that never passed the CUE schema.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Compiler.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Build.DefaultMode.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Compiler: CompilerConfig{
			Path:     "",
			OptLevel: DefaultOptLevel,
			Flags:    []string{},
		},
		Build: BuildConfig{
			DefaultMode: ModeDebug,
		},
		UI: UIConfig{
			Verbose:     false,
			ColorScheme: ColorSchemeAuto,
		},
	}
}

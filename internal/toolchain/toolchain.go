// SPDX-License-Identifier: MPL-2.0

package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// DefaultOptLevel is passed to the compiler when no level is configured.
const DefaultOptLevel = "-O2"

// searchOrder lists compiler executables tried on PATH, in order.
var searchOrder = []string{"gcc", "cc"}

// ErrCompilerNotFound is returned when no C compiler can be located.
var ErrCompilerNotFound = errors.New("gcc/cc compiler not found on PATH")

type (
	// Request describes one compilation.
	Request struct {
		// Source is the C file to compile.
		Source string
		// Output is the executable to produce.
		Output string
		// OptLevel is the optimization flag, e.g. "-O2". Empty means DefaultOptLevel.
		OptLevel string
		// Flags are extra arguments placed after the optimization flag.
		Flags []string
	}

	// Compiler turns a C source file into an executable.
	Compiler interface {
		Compile(ctx context.Context, req Request) error
	}

	// CompileError reports a compiler that ran and exited non-zero.
	CompileError struct {
		Compiler string
		ExitCode int
		Stderr   string
	}

	// NativeCompiler runs a host C compiler as a child process.
	NativeCompiler struct {
		// Path overrides compiler discovery when set.
		Path string
		// lookPath is exec.LookPath; replaced in tests.
		lookPath func(string) (string, error)
	}
)

// Error implements the error interface.
func (e *CompileError) Error() string {
	return "native compile failed: " + strings.TrimSpace(e.Stderr)
}

// NewNativeCompiler creates a compiler that uses path when non-empty and
// otherwise searches PATH for gcc, then cc.
func NewNativeCompiler(path string) *NativeCompiler {
	return &NativeCompiler{Path: path, lookPath: exec.LookPath}
}

// Resolve returns the compiler executable that Compile will run.
func (c *NativeCompiler) Resolve() (string, error) {
	lookPath := c.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	if c.Path != "" {
		resolved, err := lookPath(c.Path)
		if err != nil {
			return "", fmt.Errorf("configured compiler %q: %w", c.Path, ErrCompilerNotFound)
		}
		return resolved, nil
	}

	for _, name := range searchOrder {
		if resolved, err := lookPath(name); err == nil {
			return resolved, nil
		}
	}
	return "", ErrCompilerNotFound
}

// Args returns the compiler arguments for req, without the executable.
func Args(req Request) []string {
	opt := req.OptLevel
	if opt == "" {
		opt = DefaultOptLevel
	}
	args := make([]string, 0, 4+len(req.Flags))
	args = append(args, req.Source, opt)
	args = append(args, req.Flags...)
	args = append(args, "-o", req.Output)
	return args
}

// Compile runs the compiler and waits for it. A non-zero exit yields a
// *CompileError carrying the compiler's stderr verbatim.
func (c *NativeCompiler) Compile(ctx context.Context, req Request) error {
	compiler, err := c.Resolve()
	if err != nil {
		return err
	}

	args := Args(req)
	slog.Debug("invoking native compiler", "command", CommandLine(compiler, args))

	cmd := exec.CommandContext(ctx, compiler, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &CompileError{Compiler: compiler, ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
		}
		return fmt.Errorf("failed to run %s: %w", compiler, err)
	}
	return nil
}

// CommandLine renders an invocation as a copy-pasteable shell command.
func CommandLine(name string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	for _, word := range append([]string{name}, args...) {
		quoted, err := syntax.Quote(word, syntax.LangBash)
		if err != nil {
			// Only words that cannot be quoted at all (NUL bytes) land here.
			quoted = fmt.Sprintf("%q", word)
		}
		parts = append(parts, quoted)
	}
	return strings.Join(parts, " ")
}

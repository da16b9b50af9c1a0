// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/reviewfirst/skillc/internal/codegen"
	"github.com/reviewfirst/skillc/internal/config"
	"github.com/reviewfirst/skillc/internal/issue"
	"github.com/reviewfirst/skillc/internal/manifest"
	"github.com/reviewfirst/skillc/internal/toolchain"
	"github.com/reviewfirst/skillc/pkg/skillfile"
)

// ErrEntryNotFound is the sentinel error wrapped by EntryNotFoundError.
var ErrEntryNotFound = errors.New("entry file does not exist")

type (
	// EntryNotFoundError is returned when the entry skill document is missing.
	EntryNotFoundError struct {
		Entry string
	}

	// Options describes one build.
	Options struct {
		// Entry is the skill document to compile.
		Entry string
		// Output is the executable to produce.
		Output string
		// Mode is recorded in the manifest; it does not change code generation.
		Mode config.BuildMode
	}

	// Result lists everything a successful build wrote.
	Result struct {
		SkillName    string
		Output       string
		SourcePath   string
		ManifestPath string
		Manifest     *manifest.Manifest
	}

	// Builder runs the pipeline with a fixed compiler and logger.
	Builder struct {
		compiler toolchain.Compiler
		optLevel string
		flags    []string
		logger   *log.Logger
	}

	// Option customizes a Builder.
	Option func(*Builder)
)

// Error implements the error interface.
func (e *EntryNotFoundError) Error() string {
	return "entry file does not exist: " + e.Entry
}

// Unwrap returns ErrEntryNotFound for errors.Is() compatibility.
func (e *EntryNotFoundError) Unwrap() error { return ErrEntryNotFound }

// WithCompiler replaces the native compiler.
func WithCompiler(c toolchain.Compiler) Option {
	return func(b *Builder) { b.compiler = c }
}

// WithLogger sets the logger used for stage-by-stage debug output.
func WithLogger(l *log.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a Builder from the compiler section of cfg.
func NewBuilder(cfg config.CompilerConfig, opts ...Option) *Builder {
	b := &Builder{
		compiler: toolchain.NewNativeCompiler(cfg.Path),
		optLevel: cfg.OptLevel,
		flags:    cfg.Flags,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build compiles opts.Entry into opts.Output and writes the C source and the
// manifest beside it. Only the output directory is created when parsing
// fails; files written before a later failure are left in place.
func (b *Builder) Build(ctx context.Context, opts Options) (*Result, error) {
	if valid, _ := opts.Mode.IsValid(); !valid {
		return nil, fmt.Errorf("%w %q (valid: debug, release)", config.ErrInvalidBuildMode, opts.Mode)
	}
	if opts.Output == "" {
		return nil, errors.New("output path must not be empty")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := requireEntry(opts.Entry); err != nil {
		return nil, err
	}

	if dir := filepath.Dir(opts.Output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("create output directory").
				WithResource(dir).
				WithSuggestion("Check that the parent directory is writable").
				Wrap(err).
				BuildError()
		}
	}

	prog, err := b.parse(opts.Entry)
	if err != nil {
		return nil, err
	}

	code, err := codegen.Emit(prog)
	if err != nil {
		return nil, err
	}

	srcPath := codegen.SourcePath(opts.Output)
	if err := os.WriteFile(srcPath, []byte(code), 0o644); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("write generated source").
			WithResource(srcPath).
			Wrap(err).
			BuildError()
	}
	b.logger.Debug("wrote generated source", "path", srcPath, "bytes", len(code))

	req := toolchain.Request{
		Source:   srcPath,
		Output:   opts.Output,
		OptLevel: b.optLevel,
		Flags:    b.flags,
	}
	if err := b.compiler.Compile(ctx, req); err != nil {
		return nil, err
	}
	b.logger.Debug("compiled artifact", "output", opts.Output)

	m, err := manifest.Build(opts.Entry, opts.Output, string(opts.Mode))
	if err != nil {
		return nil, err
	}
	manifestPath := manifest.PathFor(opts.Output)
	if err := manifest.Write(manifestPath, m); err != nil {
		return nil, err
	}
	b.logger.Debug("wrote manifest", "path", manifestPath, "artifact_sha256", m.Artifact.SHA256)

	return &Result{
		SkillName:    prog.Name(),
		Output:       opts.Output,
		SourcePath:   srcPath,
		ManifestPath: manifestPath,
		Manifest:     m,
	}, nil
}

// Check parses and validates entry without writing anything.
func (b *Builder) Check(ctx context.Context, entry string) (*skillfile.Program, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := requireEntry(entry); err != nil {
		return nil, err
	}
	return b.parse(entry)
}

func (b *Builder) parse(entry string) (*skillfile.Program, error) {
	prog, err := skillfile.Parse(entry)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("parsed skill", "entry", entry, "skill", prog.Name(), "steps", len(prog.Steps))
	return prog, nil
}

func requireEntry(entry string) error {
	if _, err := os.Stat(entry); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &EntryNotFoundError{Entry: entry}
		}
		return fmt.Errorf("failed to stat entry %s: %w", entry, err)
	}
	return nil
}

// Emit returns the C source for entry without writing or compiling it.
func (b *Builder) Emit(ctx context.Context, entry string) (string, error) {
	prog, err := b.Check(ctx, entry)
	if err != nil {
		return "", err
	}
	return codegen.Emit(prog)
}

// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reviewfirst/skillc/internal/config"
	"github.com/reviewfirst/skillc/internal/manifest"
	"github.com/reviewfirst/skillc/internal/testutil"
	"github.com/reviewfirst/skillc/internal/toolchain"
	"github.com/reviewfirst/skillc/pkg/skillfile"
)

// fakeCompiler records requests and writes the C source as the "artifact".
type fakeCompiler struct {
	requests []toolchain.Request
	err      error
}

func (f *fakeCompiler) Compile(_ context.Context, req toolchain.Request) error {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return f.err
	}
	data, err := os.ReadFile(req.Source)
	if err != nil {
		return err
	}
	return os.WriteFile(req.Output, append([]byte("BIN:"), data...), 0o755)
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func writeEntry(t *testing.T, dir, content string) string {
	t.Helper()
	return testutil.WriteSkill(t, dir, "greet.skill", content)
}

func newTestBuilder(fc *fakeCompiler) *Builder {
	cfg := config.DefaultConfig().Compiler
	cfg.Flags = []string{"-g"}
	return NewBuilder(cfg, WithCompiler(fc), WithLogger(quietLogger()))
}

func TestBuild(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := writeEntry(t, dir, testutil.GreetSkill)
	output := filepath.Join(dir, "out", "nested", "greet")

	fc := &fakeCompiler{}
	res, err := newTestBuilder(fc).Build(context.Background(), Options{Entry: entry, Output: output, Mode: config.ModeRelease})
	require.NoError(t, err)

	assert.Equal(t, "Greet", res.SkillName)
	assert.Equal(t, output, res.Output)
	assert.Equal(t, output+".c", res.SourcePath)
	assert.Equal(t, output+".manifest.json", res.ManifestPath)

	require.Len(t, fc.requests, 1)
	assert.Equal(t, toolchain.Request{Source: res.SourcePath, Output: output, OptLevel: "-O2", Flags: []string{"-g"}}, fc.requests[0])

	src, err := os.ReadFile(res.SourcePath)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(src), "puts("), "return must truncate the steps")
	assert.NotContains(t, string(src), "never")

	m, err := manifest.Read(res.ManifestPath)
	require.NoError(t, err)
	assert.Equal(t, res.Manifest, m)
	assert.Equal(t, manifest.CompilerID, m.Compiler)
	assert.Equal(t, "release", m.BuildMode)
	assert.Equal(t, entry, m.Source.Path)
	assert.Equal(t, output, m.Artifact.Path)
	require.NoError(t, manifest.Verify(m))
}

// Not parallel: changes the working directory.
func TestBuild_RelativePathsRecordedClean(t *testing.T) {
	dir := t.TempDir()
	writeEntry(t, dir, testutil.GreetSkill)
	testutil.MustChdir(t, dir)

	res, err := newTestBuilder(&fakeCompiler{}).Build(context.Background(), Options{
		Entry:  "./greet.skill",
		Output: "./out/greet",
		Mode:   config.ModeDebug,
	})
	require.NoError(t, err)

	assert.Equal(t, "greet.skill", res.Manifest.Source.Path)
	assert.Equal(t, filepath.Join("out", "greet"), res.Manifest.Artifact.Path)

	data, err := os.ReadFile(res.ManifestPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"path": "greet.skill"`)
	require.NoError(t, manifest.Verify(res.Manifest))
}

func TestBuild_SourceDigestStable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := writeEntry(t, dir, testutil.GreetSkill)
	b := newTestBuilder(&fakeCompiler{})

	first, err := b.Build(context.Background(), Options{Entry: entry, Output: filepath.Join(dir, "a"), Mode: config.ModeDebug})
	require.NoError(t, err)
	second, err := b.Build(context.Background(), Options{Entry: entry, Output: filepath.Join(dir, "b"), Mode: config.ModeDebug})
	require.NoError(t, err)

	assert.Equal(t, first.Manifest.Source.SHA256, second.Manifest.Source.SHA256)
}

func TestBuild_EntryMissing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := filepath.Join(dir, "missing.skill")
	output := filepath.Join(dir, "out", "app")

	fc := &fakeCompiler{}
	_, err := newTestBuilder(fc).Build(context.Background(), Options{Entry: entry, Output: output, Mode: config.ModeDebug})
	require.ErrorIs(t, err, ErrEntryNotFound)
	assert.Equal(t, "entry file does not exist: "+entry, err.Error())
	assert.Empty(t, fc.requests)
	assert.NoDirExists(t, filepath.Join(dir, "out"))
}

func TestBuild_InvalidMode(t *testing.T) {
	t.Parallel()

	_, err := newTestBuilder(&fakeCompiler{}).Build(context.Background(), Options{Entry: "x.skill", Output: "x", Mode: "fast"})
	require.ErrorIs(t, err, config.ErrInvalidBuildMode)
	assert.Contains(t, err.Error(), `"fast"`)
}

func TestBuild_ParseErrorWritesNothing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := writeEntry(t, dir, testutil.WithoutLine(testutil.GreetSkill, "/// requires:"))
	output := filepath.Join(dir, "out", "greet")

	fc := &fakeCompiler{}
	_, err := newTestBuilder(fc).Build(context.Background(), Options{Entry: entry, Output: output, Mode: config.ModeDebug})
	require.ErrorIs(t, err, skillfile.ErrValidation)

	var perr *skillfile.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, []string{"requires"}, perr.Missing)

	assert.Empty(t, fc.requests)
	assert.NoFileExists(t, output+".c")
	assert.NoFileExists(t, output+".manifest.json")
}

func TestBuild_CompileError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := writeEntry(t, dir, testutil.GreetSkill)
	output := filepath.Join(dir, "greet")

	fc := &fakeCompiler{err: &toolchain.CompileError{Compiler: "cc", ExitCode: 1, Stderr: "boom\n"}}
	_, err := newTestBuilder(fc).Build(context.Background(), Options{Entry: entry, Output: output, Mode: config.ModeDebug})
	require.Error(t, err)
	assert.Equal(t, "native compile failed: boom", err.Error())

	assert.FileExists(t, output+".c", "generated source is kept for inspection")
	assert.NoFileExists(t, output+".manifest.json")
}

func TestBuild_CompilerNotFound(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := writeEntry(t, dir, testutil.GreetSkill)

	fc := &fakeCompiler{err: toolchain.ErrCompilerNotFound}
	_, err := newTestBuilder(fc).Build(context.Background(), Options{Entry: entry, Output: filepath.Join(dir, "greet"), Mode: config.ModeDebug})
	require.ErrorIs(t, err, toolchain.ErrCompilerNotFound)
	assert.Equal(t, "gcc/cc compiler not found on PATH", err.Error())
}

func TestBuild_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	entry := writeEntry(t, dir, testutil.GreetSkill)
	_, err := newTestBuilder(&fakeCompiler{}).Build(ctx, Options{Entry: entry, Output: filepath.Join(dir, "greet"), Mode: config.ModeDebug})
	require.ErrorIs(t, err, context.Canceled)
}

func TestCheck(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := writeEntry(t, dir, testutil.GreetSkill)

	prog, err := newTestBuilder(&fakeCompiler{}).Check(context.Background(), entry)
	require.NoError(t, err)
	assert.Equal(t, "Greet", prog.Name())
	assert.Equal(t, []string{"hello", "world"}, prog.Messages())

	_, err = newTestBuilder(&fakeCompiler{}).Check(context.Background(), filepath.Join(dir, "nope.skill"))
	var notFound *EntryNotFoundError
	require.True(t, errors.As(err, &notFound))
}

func TestEmit(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := writeEntry(t, dir, testutil.GreetSkill)

	code, err := newTestBuilder(&fakeCompiler{}).Emit(context.Background(), entry)
	require.NoError(t, err)
	assert.Contains(t, code, `puts("hello");`)
	assert.Contains(t, code, `puts("world");`)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "emit must not write files")
}

func TestBuild_NativeToolchain(t *testing.T) {
	t.Parallel()

	testutil.RequireCompiler(t)

	dir := t.TempDir()
	entry := writeEntry(t, dir, testutil.GreetSkill)
	output := filepath.Join(dir, "bin", "greet")

	b := NewBuilder(config.DefaultConfig().Compiler, WithLogger(quietLogger()))
	res, err := b.Build(context.Background(), Options{Entry: entry, Output: output, Mode: config.ModeDebug})
	require.NoError(t, err)

	out, err := exec.Command(res.Output).Output()
	require.NoError(t, err)
	assert.Equal(t, "hello\nworld\n", string(out))
	require.NoError(t, manifest.Verify(res.Manifest))
}

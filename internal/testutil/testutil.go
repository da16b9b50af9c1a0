// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reviewfirst/skillc/internal/toolchain"
)

// GreetSkill is the reference document: a Greet skill that prints "hello"
// then "world". The print after return is never compiled.
const GreetSkill = `public:
  /// intent: greet the world
  /// inputs: none
  /// requires: a terminal
  /// ensures: two lines are printed
  /// effects: writes to stdout
  /// errors: none
  pub skill Greet
    steps:
      do console.println("hello")
      do console.println("world")
      return
      do console.println("never")

private:
  helper notes

tests:
  placeholder
`

// WithoutLine returns doc with every line containing needle removed.
func WithoutLine(doc, needle string) string {
	lines := strings.Split(doc, "\n")
	out := lines[:0]
	for _, l := range lines {
		if !strings.Contains(l, needle) {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

// WriteSkill writes content to dir/name and returns the path.
// The test fails immediately if the write fails.
func WriteSkill(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// RequireCompiler skips the test when no host C compiler can be found.
func RequireCompiler(t testing.TB) {
	t.Helper()
	if _, err := toolchain.NewNativeCompiler("").Resolve(); err != nil {
		t.Skip("no C compiler available:", err)
	}
}

// MustChdir changes the current working directory to dir and restores it
// when the test finishes. Tests using it must not run in parallel.
func MustChdir(t testing.TB, dir string) {
	t.Helper()
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get current directory: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to change directory to %s: %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Errorf("failed to restore directory to %s: %v", originalWd, err)
		}
	})
}

// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// syncBuffer is a bytes.Buffer safe for the watcher goroutine and the test.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// startWatcher runs w in the background and returns a stop function that
// cancels it and reports Run's error.
func startWatcher(t *testing.T, w *Watcher) func() error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	return func() error {
		cancel()
		select {
		case err := <-errCh:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for Run to return")
			return nil
		}
	}
}

func TestWatcherDebounce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := filepath.Join(dir, "greet.skill")
	writeFile(t, entry, "v0")

	calls := make(chan []string, 10)
	w, err := New(Config{
		Entry:    entry,
		Debounce: 100 * time.Millisecond,
		Stderr:   &syncBuffer{},
		OnChange: func(_ context.Context, changed []string) error {
			calls <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)

	for i := range 3 {
		writeFile(t, entry, strings.Repeat("x", i+1))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case changed := <-calls:
		if !slices.Equal(changed, []string{"greet.skill"}) {
			t.Errorf("changed = %v, want [greet.skill]", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}

	time.Sleep(300 * time.Millisecond)
	if n := len(calls); n != 0 {
		t.Errorf("expected a single debounced callback, got %d extra", n)
	}

	if err := stop(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := filepath.Join(dir, "greet.skill")
	writeFile(t, entry, "v0")

	calls := make(chan []string, 10)
	w, err := New(Config{
		Entry:    entry,
		Debounce: 50 * time.Millisecond,
		Stderr:   &syncBuffer{},
		OnChange: func(_ context.Context, changed []string) error {
			calls <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)

	// Build outputs and editor scratch files next to the entry.
	writeFile(t, filepath.Join(dir, "greet.c"), "int main(void){}")
	writeFile(t, filepath.Join(dir, "greet.manifest.json"), "{}")
	writeFile(t, filepath.Join(dir, "greet.skill.swp"), "swap")

	select {
	case changed := <-calls:
		t.Errorf("unexpected callback for %v", changed)
	case <-time.After(400 * time.Millisecond):
	}

	writeFile(t, entry, "v1")
	select {
	case <-calls:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for entry change")
	}

	if err := stop(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

func TestWatcherExtraPatterns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := filepath.Join(dir, "main.skill")
	writeFile(t, entry, "v0")
	if err := os.Mkdir(filepath.Join(dir, "lib"), 0o755); err != nil {
		t.Fatal(err)
	}

	calls := make(chan []string, 10)
	w, err := New(Config{
		Entry:    entry,
		Extra:    []string{"**/*.skill"},
		Debounce: 50 * time.Millisecond,
		Stderr:   &syncBuffer{},
		OnChange: func(_ context.Context, changed []string) error {
			calls <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)

	writeFile(t, filepath.Join(dir, "lib", "shared.skill"), "x")

	select {
	case changed := <-calls:
		if !slices.Contains(changed, "lib/shared.skill") {
			t.Errorf("changed = %v, want lib/shared.skill", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}

	if err := stop(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

func TestWatcherCallbackErrorIsReported(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := filepath.Join(dir, "greet.skill")
	writeFile(t, entry, "v0")

	stderr := &syncBuffer{}
	calls := make(chan struct{}, 10)
	w, err := New(Config{
		Entry:    entry,
		Debounce: 50 * time.Millisecond,
		Stderr:   stderr,
		OnChange: func(context.Context, []string) error {
			calls <- struct{}{}
			return errors.New("pub skill must include a steps: block")
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)

	for i := range 2 {
		writeFile(t, entry, strings.Repeat("y", i+1))
		select {
		case <-calls:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for callback %d", i+1)
		}
	}

	if err := stop(); err != nil {
		t.Fatalf("Run() should survive callback errors, got %v", err)
	}
	if !strings.Contains(stderr.String(), "watch: rebuild failed: pub skill must include a steps: block") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestWatcherCallbacksDoNotOverlap(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := filepath.Join(dir, "greet.skill")
	writeFile(t, entry, "v0")

	var (
		mu         sync.Mutex
		active     int
		maxActive  int
		totalCalls int
	)
	first := make(chan struct{})
	var once sync.Once

	w, err := New(Config{
		Entry:    entry,
		Debounce: 20 * time.Millisecond,
		Stderr:   &syncBuffer{},
		OnChange: func(context.Context, []string) error {
			mu.Lock()
			active++
			totalCalls++
			maxActive = max(maxActive, active)
			mu.Unlock()

			once.Do(func() { close(first) })
			time.Sleep(150 * time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)

	writeFile(t, entry, "v1")
	<-first
	writeFile(t, entry, "v2")
	time.Sleep(400 * time.Millisecond)

	if err := stop(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if maxActive != 1 {
		t.Errorf("max concurrent callbacks = %d, want 1", maxActive)
	}
	if totalCalls < 2 {
		t.Errorf("change during a rebuild should trigger another rebuild, got %d calls", totalCalls)
	}
}

func TestWatcherDoubleRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	entry := filepath.Join(dir, "greet.skill")
	writeFile(t, entry, "v0")

	w, err := New(Config{Entry: entry, Stderr: &syncBuffer{}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)

	deadline := time.Now().Add(5 * time.Second)
	for !w.started.Load() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if err := w.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() = %v, want ErrAlreadyRunning", err)
	}

	if err := stop(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

func TestNewErrors(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{}); err == nil {
		t.Error("New() with empty entry should fail")
	}

	dir := t.TempDir()
	_, err := New(Config{Entry: filepath.Join(dir, "a.skill"), Extra: []string{"[unclosed"}})
	if err == nil || !strings.Contains(err.Error(), "invalid pattern") {
		t.Errorf("New() error = %v, want invalid pattern", err)
	}
}

func TestWatcherRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(Config{Entry: filepath.Join(dir, "x.skill"), Stderr: &syncBuffer{}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_ = w.Run(ctx)
	}()

	want, _ := filepath.Abs(dir)
	if w.Root() != want {
		t.Errorf("Root() = %q, want %q", w.Root(), want)
	}
}

func TestEscapePattern(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"greet.skill", "greet.skill"},
		{"a*b.skill", `a\*b.skill`},
		{"[draft] {v2}?.skill", `\[draft\] \{v2\}\?.skill`},
	}

	for _, tt := range tests {
		got := EscapePattern(tt.name)
		if got != tt.want {
			t.Errorf("EscapePattern(%q) = %q, want %q", tt.name, got, tt.want)
		}
		if !matchAny([]string{got}, tt.name) {
			t.Errorf("escaped pattern %q does not match %q", got, tt.name)
		}
	}
}

func TestDefaultIgnores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rel  string
		want bool
	}{
		{".git/HEAD", true},
		{"greet.skill.swp", true},
		{"greet.skill~", true},
		{".#greet.skill", true},
		{"sub/.DS_Store", true},
		{"greet.skill", false},
		{"lib/shared.skill", false},
	}

	for _, tt := range tests {
		if got := matchAny(defaultIgnores, tt.rel); got != tt.want {
			t.Errorf("ignored(%q) = %v, want %v", tt.rel, got, tt.want)
		}
	}
}

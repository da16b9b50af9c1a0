// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/reviewfirst/skillc/internal/config"
	"github.com/reviewfirst/skillc/internal/toolchain"
)

type (
	// fakeCompiler writes the generated C source, prefixed, as the artifact.
	fakeCompiler struct {
		err error
	}

	// staticConfig returns a fixed configuration or error.
	staticConfig struct {
		cfg *config.Config
		err error
	}

	testEnv struct {
		app    *App
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	}
)

func (f *fakeCompiler) Compile(_ context.Context, req toolchain.Request) error {
	if f.err != nil {
		return f.err
	}
	data, err := os.ReadFile(req.Source)
	if err != nil {
		return err
	}
	return os.WriteFile(req.Output, append([]byte("BIN:"), data...), 0o755)
}

func (s staticConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.cfg, nil
}

func newTestEnv(t *testing.T, cfg *config.Config, compiler toolchain.Compiler) *testEnv {
	t.Helper()
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	env := &testEnv{stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	env.app = NewApp(Dependencies{
		Config:   staticConfig{cfg: cfg},
		Compiler: compiler,
		Stdout:   env.stdout,
		Stderr:   env.stderr,
	})
	return env
}

// run executes the command tree with args the way fang would, minus the
// styled error handler: errors are returned to the caller.
func (e *testEnv) run(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCommand(e.app)
	root.SetOut(e.stdout)
	root.SetErr(e.stderr)
	root.SetArgs(args)
	return root.ExecuteContext(t.Context())
}

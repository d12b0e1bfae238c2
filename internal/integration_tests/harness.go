// Package integration_tests runs the application end to end from a config
// struct or command line and exposes what it printed.
package integration_tests

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/burstcut/internal/app"
	"github.com/vk/burstcut/internal/cli"
	"github.com/vk/burstcut/internal/hcl_adapter"
	"github.com/vk/burstcut/internal/testutil"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output string
	Err    error
	App    *app.App
}

// WriteFiles creates files under a fresh temporary directory and returns
// the directory.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}
	return tmpDir
}

// RunApp runs a freshly constructed App with text logs at debug level.
// cfg.AigerPath is resolved against the temporary directory when it names
// one of files.
func RunApp(t *testing.T, cfg app.Config, files map[string]string) *HarnessResult {
	t.Helper()
	return RunAppWithContext(context.Background(), t, cfg, files)
}

// RunAppWithContext is RunApp with a caller-provided context.
func RunAppWithContext(ctx context.Context, t *testing.T, cfg app.Config, files map[string]string) *HarnessResult {
	t.Helper()

	dir := WriteFiles(t, files)
	if _, ok := files[cfg.AigerPath]; ok {
		cfg.AigerPath = filepath.Join(dir, cfg.AigerPath)
	}
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"

	out := &testutil.SafeBuffer{}
	testApp := app.NewApp(out, &cfg)
	err := testApp.Run(ctx)
	logOutput(t, out)

	return &HarnessResult{Output: out.String(), Err: err, App: testApp}
}

// RunCLI parses args the way the binary does, with "{dir}" in any argument
// replaced by the temporary directory holding files, and runs the app when
// parsing does not ask to exit.
func RunCLI(t *testing.T, args []string, files map[string]string) *HarnessResult {
	t.Helper()

	dir := WriteFiles(t, files)
	resolved := make([]string, len(args))
	for i, a := range args {
		resolved[i] = strings.ReplaceAll(a, "{dir}", dir)
	}

	out := &testutil.SafeBuffer{}
	cfg, shouldExit, err := cli.Parse(resolved, out, hcl_adapter.NewLoader())
	if err != nil || shouldExit {
		return &HarnessResult{Output: out.String(), Err: err}
	}

	testApp := app.NewApp(out, cfg)
	err = testApp.Run(context.Background())
	logOutput(t, out)
	return &HarnessResult{Output: out.String(), Err: err, App: testApp}
}

func logOutput(t *testing.T, out *testutil.SafeBuffer) {
	t.Helper()
	if os.Getenv("BURSTCUT_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), out.String())
	}
}

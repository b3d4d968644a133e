package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quarry/internal/testsupport"
)

type cliTestEnv struct {
	service     *testsupport.FakeService
	configPath  string
	stateDir    string
	downloadDir string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	svc := testsupport.NewFakeService(t)
	return setupCLITestEnvAt(t, svc, svc.URL)
}

// setupCLITestEnvAt writes a config pointing at baseURL.
func setupCLITestEnvAt(t *testing.T, svc *testsupport.FakeService, baseURL string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("QUARRY_API_URL", "")
	t.Setenv("QUARRY_ORIGIN", "")
	t.Setenv("QUARRY_API_TOKEN", "")

	env := &cliTestEnv{
		service:     svc,
		configPath:  filepath.Join(base, "quarry.toml"),
		stateDir:    filepath.Join(base, "state"),
		downloadDir: filepath.Join(base, "exports"),
	}
	content := fmt.Sprintf(`[api]
base_url = %q
timeout_seconds = 5

[paths]
state_dir = %q
download_dir = %q

[polling]
interval_ms = 5

[logging]
level = "error"
`, baseURL, env.stateDir, env.downloadDir)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func mustRunCLI(t *testing.T, env *cliTestEnv, args ...string) string {
	t.Helper()
	out, errOut, err := runCLI(t, env, args...)
	if err != nil {
		t.Fatalf("quarry %s: %v\nstderr: %s", strings.Join(args, " "), err, errOut)
	}
	return out
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

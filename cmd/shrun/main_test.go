package main

import (
	"bytes"
	"encoding/json"
	"os"
	osexec "os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/shell/config"
	"github.com/jmgilman/go/shell/errors"
)

func requireTools(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range append([]string{"which"}, names...) {
		if _, err := osexec.LookPath(name); err != nil {
			t.Skipf("%s not available", name)
		}
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
}

// setEnv points shrun at a plain, quiet environment.
func setEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SHRUN_LOGIN_SHELL", "false")
	t.Setenv("SHRUN_SHELL", "/bin/sh")
	t.Setenv("SHRUN_LAUNCHER", "/usr/bin/env")
	t.Setenv("SHRUN_PATH_CACHE", "true")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_DEV", "false")
}

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "pipe.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRun_Manifest(t *testing.T) {
	requireTools(t, "echo", "rev", "cut")
	setEnv(t)
	dir := t.TempDir()
	path := writeManifest(t, dir, `
name: fields
stages:
  - command: echo
    args: ["1:2:3"]
  - command: rev
  - command: cut
    args: ["-d", ":", "-f", "1"]
`)

	var stdout, stderr bytes.Buffer
	code := run([]string{"run", path, "--dir", dir}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Equal(t, "3\n", stdout.String())
}

func TestRun_FileStages(t *testing.T) {
	requireTools(t, "rev")
	setEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "in.txt"), []byte("abc\n"), 0o600))
	path := writeManifest(t, dir, `
stages:
  - read: in.txt
  - command: rev
  - write: out/rev.txt
`)

	var stdout, stderr bytes.Buffer
	code := run([]string{"run", path, "--dir", dir}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(filepath.Join(dir, "out", "rev.txt"))
	require.NoError(t, err)
	assert.Equal(t, "cba\n", string(data))
}

func TestRun_NonZeroExit(t *testing.T) {
	requireTools(t)
	setEnv(t)
	dir := t.TempDir()
	path := writeManifest(t, dir, `
stages:
  - path: /bin/sh
    args: ["-c", "echo failing >&2; exit 4"]
  - write: never.txt
`)

	var stdout, stderr bytes.Buffer
	code := run([]string{"run", path, "--dir", dir}, &stdout, &stderr)
	assert.Equal(t, 4, code)
	assert.Equal(t, "failing\n", stderr.String())
	assert.NoFileExists(t, filepath.Join(dir, "never.txt"))
}

func TestRun_CommandNotFoundJSON(t *testing.T) {
	requireTools(t)
	setEnv(t)
	dir := t.TempDir()
	path := writeManifest(t, dir, "stages:\n  - command: definitely-not-a-command-xyz\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"--json", "run", path}, &stdout, &stderr)
	assert.Equal(t, 1, code)

	var resp errors.ErrorResponse
	require.NoError(t, json.Unmarshal(stderr.Bytes(), &resp), stderr.String())
	assert.Equal(t, string(errors.CodeCommandNotFound), resp.Code)
}

func TestRun_InvalidManifest(t *testing.T) {
	setEnv(t)
	dir := t.TempDir()
	path := writeManifest(t, dir, "stages: []\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{"run", path}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "INVALID_CONFIGURATION")
}

func TestRun_InvalidConfig(t *testing.T) {
	setEnv(t)
	t.Setenv("SHRUN_SHELL", "sh")

	var stdout, stderr bytes.Buffer
	code := run([]string{"which", "sh"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "SHRUN_SHELL")
}

func TestRun_InvalidLogLevelFlag(t *testing.T) {
	setEnv(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"--log-level", "loud", "which", "sh"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "invalid log level")
}

func TestWhich(t *testing.T) {
	requireTools(t, "sh")
	setEnv(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"which", "sh"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.True(t, filepath.IsAbs(string(bytes.TrimSpace(stdout.Bytes()))))

	stdout.Reset()
	stderr.Reset()
	code = run([]string{"which", "definitely-not-a-command-xyz"}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "not found")
}

func TestVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--version"}, &stdout, &stderr)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout.String(), version)
}

func TestLoggingConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LogConfig
		want string
		dev  bool
	}{
		{name: "defaults", cfg: config.LogConfig{}, want: "info"},
		{name: "development enables debug", cfg: config.LogConfig{Development: true}, want: "debug", dev: true},
		{name: "explicit level wins", cfg: config.LogConfig{Development: true, Level: "warn"}, want: "warn", dev: true},
		{name: "explicit level", cfg: config.LogConfig{Level: "error"}, want: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := loggingConfig(tt.cfg)
			assert.Equal(t, tt.want, got.Level)
			assert.Equal(t, tt.dev, got.Development)
		})
	}
}

// Package testutil provides shared test utilities for checkpoint tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mrourke/checkpoint/internal/config"
	"github.com/mrourke/checkpoint/internal/constants"
)

// SetupTestConfig creates a temporary config directory with test configuration.
// Returns a cleanup function that should be deferred.
func SetupTestConfig(t *testing.T, configContent string) func() {
	t.Helper()

	tmpDir := t.TempDir()
	os.Setenv(constants.EnvConfigDir, tmpDir)

	if configContent != "" {
		configPath := filepath.Join(tmpDir, constants.ConfigFileName)
		if err := os.WriteFile(configPath, []byte(configContent), constants.FileMode); err != nil {
			t.Fatal(err)
		}
	}

	config.Reset()
	config.Init()

	return func() {
		os.Unsetenv(constants.EnvConfigDir)
		config.Reset()
	}
}

// WriteMarker drops a project marker file (like go.mod or mix.exs) into dir.
func WriteMarker(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("marker\n"), constants.FileMode); err != nil {
		t.Fatal(err)
	}
}

// MinimalTestConfig is a minimal config for testing.
const MinimalTestConfig = `
[classifier]
temp_dirs = ["/tmp", "/var/tmp"]
system_roots = ["/", "/etc", "/usr", "/bin", "/var", "/home"]
denylist = ["rm", "delete", "drop", "truncate", "force", "reset", "clean"]

[[projects]]
name = "go"
marker = "go.mod"

[projects.compile]
command = ["go", "build", "./..."]

[projects.format]
command = ["gofmt", "-l", "."]
fail_on_output = true

[projects.lint]
command = ["golangci-lint", "run"]
optional = true

[projects.test]
command = ["go", "test", "./..."]
`

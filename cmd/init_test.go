package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/mrourke/checkpoint/internal/config"
	"github.com/mrourke/checkpoint/internal/constants"
	"github.com/spf13/cobra"
)

func TestRunInitCreatesConfigFile(t *testing.T) {
	resetGlobalState()
	t.Cleanup(resetGlobalState)

	configDir := filepath.Join(t.TempDir(), "checkpoint")
	t.Setenv(constants.EnvConfigDir, configDir)

	initForce = false
	if err := runInit(&cobra.Command{}, []string{}); err != nil {
		t.Fatalf("runInit() error = %v", err)
	}

	configPath := filepath.Join(configDir, constants.ConfigFileName)
	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("config file was not created: %v", err)
	}
	if !bytes.Equal(content, config.GetDefaultConfig()) {
		t.Error("config file content does not match default config")
	}
}

func TestRunInitRefusesExistingConfig(t *testing.T) {
	resetGlobalState()
	t.Cleanup(resetGlobalState)

	configDir := t.TempDir()
	t.Setenv(constants.EnvConfigDir, configDir)

	existing := []byte("# existing config")
	configPath := filepath.Join(configDir, constants.ConfigFileName)
	if err := os.WriteFile(configPath, existing, 0644); err != nil {
		t.Fatal(err)
	}

	initForce = false
	if err := runInit(&cobra.Command{}, []string{}); err == nil {
		t.Fatal("expected error when config exists without --force")
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(content, existing) {
		t.Error("existing config file was modified")
	}
}

func TestRunInitForceOverwrites(t *testing.T) {
	resetGlobalState()
	t.Cleanup(resetGlobalState)

	configDir := t.TempDir()
	t.Setenv(constants.EnvConfigDir, configDir)

	configPath := filepath.Join(configDir, constants.ConfigFileName)
	if err := os.WriteFile(configPath, []byte("# stale"), 0644); err != nil {
		t.Fatal(err)
	}

	initForce = true
	defer func() { initForce = false }()
	if err := runInit(&cobra.Command{}, []string{}); err != nil {
		t.Fatalf("runInit() with --force error = %v", err)
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(content, config.GetDefaultConfig()) {
		t.Error("config file was not overwritten with defaults")
	}
}

// Package config handles configuration loading and parsing for checkpoint.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
	"github.com/mrourke/checkpoint/internal/constants"
	"github.com/mrourke/checkpoint/internal/logger"
)

//go:embed config.toml
var defaultConfig []byte

// CheckSpec describes one quality gate check for a project type.
type CheckSpec struct {
	// Command is the argv of the external tool to run, exit 0 = pass.
	Command []string `toml:"command" yaml:"command"`
	// FailOnOutput marks checks whose tool exits 0 but reports drift on
	// stdout (gofmt -l style): any output counts as failure.
	FailOnOutput bool `toml:"fail_on_output" yaml:"fail_on_output"`
	// Optional checks degrade to not-applicable when the tool is missing.
	Optional bool `toml:"optional" yaml:"optional"`
	// Binary names the executable whose presence gates an optional check.
	// Defaults to Command[0].
	Binary string `toml:"binary" yaml:"binary"`
}

// Tool returns the executable name used for availability probing.
func (c CheckSpec) Tool() string {
	if c.Binary != "" {
		return c.Binary
	}
	if len(c.Command) > 0 {
		return c.Command[0]
	}
	return ""
}

// Empty reports whether no command is configured for this check.
func (c CheckSpec) Empty() bool { return len(c.Command) == 0 }

// ProjectType binds a marker file to the four gate check commands.
type ProjectType struct {
	Name    string    `toml:"name"`
	Marker  string    `toml:"marker"`
	Compile CheckSpec `toml:"compile"`
	Format  CheckSpec `toml:"format"`
	Lint    CheckSpec `toml:"lint"`
	Test    CheckSpec `toml:"test"`
}

// ClassifierConfig holds the path and keyword tables used by the classifier.
type ClassifierConfig struct {
	TempDirs    []string `toml:"temp_dirs"`
	SystemRoots []string `toml:"system_roots"`
	Denylist    []string `toml:"denylist"`
}

// Config is the parsed checkpoint configuration.
type Config struct {
	Classifier ClassifierConfig `toml:"classifier"`
	Projects   []ProjectType    `toml:"projects"`
}

var (
	globalConfig      *Config
	configInitialized bool
	configPath        string
	initErr           error
)

// GetConfigDir returns the config directory path.
// Uses CHECKPOINT_CONFIG env var if set, otherwise the XDG config home.
func GetConfigDir() (string, error) {
	if dir := os.Getenv(constants.EnvConfigDir); dir != "" {
		return dir, nil
	}
	return filepath.Join(xdg.ConfigHome, constants.AppName), nil
}

// EnsureConfigFiles creates the config directory and writes the default
// config file if it doesn't exist.
func EnsureConfigFiles(configDir string) error {
	if err := os.MkdirAll(configDir, constants.DirMode); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	path := filepath.Join(configDir, constants.ConfigFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, defaultConfig, constants.FileMode); err != nil {
			return fmt.Errorf("failed to write %s: %w", constants.ConfigFileName, err)
		}
	}

	return nil
}

// Load parses TOML config data into a Config.
func Load(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	for _, p := range cfg.Projects {
		if p.Marker == "" {
			return nil, fmt.Errorf("project %q has no marker file", p.Name)
		}
		if p.Compile.Empty() || p.Format.Empty() || p.Test.Empty() {
			return nil, fmt.Errorf("project %q is missing a mandatory check command", p.Name)
		}
	}
	return &cfg, nil
}

// loadEmbeddedDefaults loads the embedded default config file.
func loadEmbeddedDefaults() *Config {
	cfg, _ := Load(defaultConfig)
	return cfg
}

// Init loads configuration from files, creating defaults if necessary.
// If loading fails, it falls back to embedded defaults.
func Init() error {
	if configInitialized {
		return initErr
	}
	configInitialized = true

	configDir, err := GetConfigDir()
	if err != nil {
		logger.Debug("failed to get config dir, using embedded defaults", "error", err)
		globalConfig = loadEmbeddedDefaults()
		initErr = err
		return err
	}

	if err := EnsureConfigFiles(configDir); err != nil {
		logger.Debug("failed to ensure config files, using embedded defaults", "error", err)
		globalConfig = loadEmbeddedDefaults()
		initErr = err
		return err
	}

	path := filepath.Join(configDir, constants.ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Debug("failed to read config file, using embedded defaults", "path", path, "error", err)
		globalConfig = loadEmbeddedDefaults()
		initErr = fmt.Errorf("failed to read %s: %w", constants.ConfigFileName, err)
		return initErr
	}

	globalConfig, err = Load(data)
	if err != nil {
		logger.Debug("failed to parse config, using embedded defaults", "error", err)
		globalConfig = loadEmbeddedDefaults()
		initErr = fmt.Errorf("failed to load config: %w", err)
		return initErr
	}

	configPath = path
	logger.Debug("config loaded successfully",
		"path", path,
		"projects", len(globalConfig.Projects))
	return nil
}

// Get returns the current configuration.
// If Init has not been called, it initializes with defaults.
func Get() *Config {
	if !configInitialized {
		Init()
	}
	return globalConfig
}

// GetConfigPath returns the path the active config was loaded from, or ""
// when running on embedded defaults.
func GetConfigPath() string { return configPath }

// InitError returns the error from config initialization, if any.
func InitError() error { return initErr }

// Reset resets the configuration state. Used for testing.
func Reset() {
	configInitialized = false
	globalConfig = nil
	configPath = ""
	initErr = nil
}

// GetDefaultConfig returns the embedded default configuration.
func GetDefaultConfig() []byte {
	return defaultConfig
}

// FindProject matches a directory against configured project markers and
// returns the project type whose marker file exists there.
func (c *Config) FindProject(dir string) (ProjectType, bool) {
	for _, p := range c.Projects {
		if _, err := os.Stat(filepath.Join(dir, p.Marker)); err == nil {
			return p, true
		}
	}
	return ProjectType{}, false
}

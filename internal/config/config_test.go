package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mrourke/checkpoint/internal/constants"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(GetDefaultConfig())
	if err != nil {
		t.Fatalf("Load(defaults) failed: %v", err)
	}

	if len(cfg.Projects) == 0 {
		t.Fatal("default config has no project types")
	}
	names := map[string]bool{}
	for _, p := range cfg.Projects {
		names[p.Name] = true
	}
	for _, want := range []string{"elixir", "go", "rust", "node", "python"} {
		if !names[want] {
			t.Errorf("default config missing project type %q", want)
		}
	}

	if len(cfg.Classifier.TempDirs) == 0 {
		t.Error("default config has no temp_dirs")
	}
	if len(cfg.Classifier.SystemRoots) == 0 {
		t.Error("default config has no system_roots")
	}
	if len(cfg.Classifier.Denylist) == 0 {
		t.Error("default config has no denylist")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		toml    string
		wantErr string
	}{
		{
			name:    "invalid TOML",
			toml:    "[[projects]\nname=",
			wantErr: "failed to parse TOML",
		},
		{
			name: "missing marker",
			toml: `
[[projects]]
name = "x"
[projects.compile]
command = ["make"]
[projects.format]
command = ["fmt"]
[projects.test]
command = ["make", "test"]
`,
			wantErr: "no marker file",
		},
		{
			name: "missing mandatory check",
			toml: `
[[projects]]
name = "x"
marker = "Makefile"
[projects.compile]
command = ["make"]
`,
			wantErr: "missing a mandatory check",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.toml))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadLintOptional(t *testing.T) {
	// Lint may be absent entirely; only compile, format and test are
	// mandatory.
	cfg, err := Load([]byte(`
[[projects]]
name = "make"
marker = "Makefile"
[projects.compile]
command = ["make"]
[projects.format]
command = ["make", "fmt"]
[projects.test]
command = ["make", "test"]
`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Projects[0].Lint.Empty() {
		t.Error("expected empty lint spec")
	}
}

func TestCheckSpecTool(t *testing.T) {
	tests := []struct {
		name string
		spec CheckSpec
		want string
	}{
		{"binary wins", CheckSpec{Command: []string{"cargo", "clippy"}, Binary: "cargo-clippy"}, "cargo-clippy"},
		{"falls back to argv0", CheckSpec{Command: []string{"gofmt", "-l", "."}}, "gofmt"},
		{"empty", CheckSpec{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.spec.Tool(); got != tt.want {
				t.Errorf("Tool() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFindProject(t *testing.T) {
	cfg, err := Load(GetDefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	dir := t.TempDir()
	if _, found := cfg.FindProject(dir); found {
		t.Error("empty dir should match no project")
	}

	if err := os.WriteFile(filepath.Join(dir, "Cargo.toml"), []byte(""), 0644); err != nil {
		t.Fatal(err)
	}
	p, found := cfg.FindProject(dir)
	if !found || p.Name != "rust" {
		t.Errorf("FindProject = (%q, %v), want (rust, true)", p.Name, found)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()

	// Missing file is not an error.
	o, err := LoadOverrides(dir)
	if err != nil || o != nil {
		t.Fatalf("LoadOverrides(missing) = (%v, %v), want (nil, nil)", o, err)
	}

	data := `
checks:
  test:
    command: ["make", "check"]
  lint:
    command: ["make", "lint"]
    optional: true
`
	if err := os.WriteFile(filepath.Join(dir, constants.OverridesFile), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	o, err = LoadOverrides(dir)
	if err != nil {
		t.Fatalf("LoadOverrides failed: %v", err)
	}
	if got := o.Checks["test"].Command; len(got) != 2 || got[0] != "make" {
		t.Errorf("test override = %v", got)
	}
	if !o.Checks["lint"].Optional {
		t.Error("lint override should be optional")
	}
}

func TestLoadOverridesRejectsUnknownCheck(t *testing.T) {
	dir := t.TempDir()
	data := `
checks:
  deploy:
    command: ["make", "deploy"]
`
	if err := os.WriteFile(filepath.Join(dir, constants.OverridesFile), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOverrides(dir); err == nil || !strings.Contains(err.Error(), "unknown check") {
		t.Errorf("error = %v, want unknown check", err)
	}
}

func TestApplyOverrides(t *testing.T) {
	p := ProjectType{
		Name:    "go",
		Marker:  "go.mod",
		Compile: CheckSpec{Command: []string{"go", "build", "./..."}},
		Format:  CheckSpec{Command: []string{"gofmt", "-l", "."}, FailOnOutput: true},
		Test:    CheckSpec{Command: []string{"go", "test", "./..."}},
	}

	if got := p.Apply(nil); got.Test.Command[1] != "test" {
		t.Error("nil overrides must leave the project unchanged")
	}

	o := &Overrides{Checks: map[string]CheckSpec{
		"test": {Command: []string{"go", "test", "-race", "./..."}},
		// Empty override is ignored rather than wiping the check.
		"format": {},
	}}
	got := p.Apply(o)
	if strings.Join(got.Test.Command, " ") != "go test -race ./..." {
		t.Errorf("test = %v", got.Test.Command)
	}
	if got.Format.Empty() || !got.Format.FailOnOutput {
		t.Error("empty format override must not clear the configured check")
	}
	if strings.Join(got.Compile.Command, " ") != "go build ./..." {
		t.Errorf("compile changed unexpectedly: %v", got.Compile.Command)
	}
}

func TestInitWithConfigDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(constants.EnvConfigDir, dir)
	Reset()
	t.Cleanup(Reset)

	if err := Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, constants.ConfigFileName)); err != nil {
		t.Errorf("default config file not written: %v", err)
	}
	if Get() == nil {
		t.Fatal("Get returned nil after Init")
	}
	if GetConfigPath() == "" {
		t.Error("GetConfigPath should report the loaded file")
	}
}

func TestInitFallsBackOnBrokenConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(constants.EnvConfigDir, dir)
	if err := os.WriteFile(filepath.Join(dir, constants.ConfigFileName), []byte("not toml ["), 0644); err != nil {
		t.Fatal(err)
	}
	Reset()
	t.Cleanup(Reset)

	if err := Init(); err == nil {
		t.Fatal("expected Init to report the parse error")
	}
	if Get() == nil {
		t.Fatal("Get must fall back to embedded defaults")
	}
	if InitError() == nil {
		t.Error("InitError should be set")
	}
}

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrourke/checkpoint/internal/constants"
	"gopkg.in/yaml.v3"
)

// Overrides is the optional per-repository .checkpoint.yaml file. It lets a
// repo swap out individual gate check commands without touching the user's
// global configuration.
type Overrides struct {
	// Checks replaces individual check commands, keyed by check name
	// (compile, format, lint, test).
	Checks map[string]CheckSpec `yaml:"checks"`
}

// LoadOverrides reads .checkpoint.yaml from dir. A missing file is not an
// error; it returns (nil, nil).
func LoadOverrides(dir string) (*Overrides, error) {
	path := filepath.Join(dir, constants.OverridesFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", constants.OverridesFile, err)
	}

	var o Overrides
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", constants.OverridesFile, err)
	}
	for name := range o.Checks {
		switch name {
		case "compile", "format", "lint", "test":
		default:
			return nil, fmt.Errorf("%s: unknown check %q", constants.OverridesFile, name)
		}
	}
	return &o, nil
}

// Apply returns a copy of the project type with any overridden checks
// swapped in. A nil override set returns the project unchanged.
func (p ProjectType) Apply(o *Overrides) ProjectType {
	if o == nil {
		return p
	}
	if c, ok := o.Checks["compile"]; ok && !c.Empty() {
		p.Compile = c
	}
	if c, ok := o.Checks["format"]; ok && !c.Empty() {
		p.Format = c
	}
	if c, ok := o.Checks["lint"]; ok && !c.Empty() {
		p.Lint = c
	}
	if c, ok := o.Checks["test"]; ok && !c.Empty() {
		p.Test = c
	}
	return p
}

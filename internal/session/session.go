// Package session implements the one-shot session bootstrap: a read-only
// readiness report emitted at session start. It can warn, never block.
package session

import (
	"os"
	"path/filepath"

	"github.com/mrourke/checkpoint/internal/config"
	"github.com/mrourke/checkpoint/internal/constants"
	"github.com/mrourke/checkpoint/internal/logger"
)

// standingRuleFiles are the files agents read standing instructions from.
var standingRuleFiles = []string{"CLAUDE.md", "AGENTS.md", constants.OverridesFile}

// FileStatus records presence of one standing-rule file.
type FileStatus struct {
	Name    string
	Present bool
}

// ToolStatus records availability of one gate check tool.
type ToolStatus struct {
	Check     string // compile, format, lint, test
	Tool      string
	Available bool
}

// Context is the advisory readiness report for one session. It has no
// effect on gate decisions.
type Context struct {
	Cwd           string
	Project       string // matched project type, "" when unrecognized
	StandingRules []FileStatus
	Tools         []ToolStatus
	Warnings      []string
}

// LookPathFunc reports whether a tool is installed.
type LookPathFunc func(tool string) bool

// Bootstrap collects the session context for cwd. Purely read-only; every
// problem becomes a warning, never an error.
func Bootstrap(cwd string, cfg *config.Config, lookPath LookPathFunc) Context {
	sc := Context{Cwd: cwd}

	anyRules := false
	for _, name := range standingRuleFiles {
		_, err := os.Stat(filepath.Join(cwd, name))
		present := err == nil
		anyRules = anyRules || present
		sc.StandingRules = append(sc.StandingRules, FileStatus{Name: name, Present: present})
	}
	if !anyRules {
		sc.Warnings = append(sc.Warnings, "no standing-rule file found (CLAUDE.md, AGENTS.md or "+constants.OverridesFile+")")
	}

	project, found := cfg.FindProject(cwd)
	if !found {
		sc.Warnings = append(sc.Warnings, "no recognized project marker in "+cwd+"; the quality gate will not apply here")
		logger.Debug("bootstrap finished", "project", "none", "warnings", len(sc.Warnings))
		return sc
	}
	sc.Project = project.Name

	for _, chk := range []struct {
		name string
		spec config.CheckSpec
	}{
		{"compile", project.Compile},
		{"format", project.Format},
		{"lint", project.Lint},
		{"test", project.Test},
	} {
		if chk.spec.Empty() {
			continue
		}
		tool := chk.spec.Tool()
		available := lookPath == nil || lookPath(tool)
		sc.Tools = append(sc.Tools, ToolStatus{Check: chk.name, Tool: tool, Available: available})
		if !available {
			if chk.spec.Optional {
				sc.Warnings = append(sc.Warnings, "optional "+chk.name+" tool "+tool+" is not installed; the check will be skipped as not applicable")
			} else {
				sc.Warnings = append(sc.Warnings, chk.name+" tool "+tool+" is not installed; the quality gate will fail until it is")
			}
		}
	}

	if err := config.InitError(); err != nil {
		sc.Warnings = append(sc.Warnings, "configuration fell back to embedded defaults: "+err.Error())
	}

	logger.Debug("bootstrap finished", "project", sc.Project, "warnings", len(sc.Warnings))
	return sc
}

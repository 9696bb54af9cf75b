// Package controller decides when the safety machinery runs and with what
// blocking semantics: a blocking gate before commit/push, an advisory
// subset after each file edit, and classification for proposed commands.
package controller

import (
	"context"
	"os"
	"path/filepath"

	"github.com/mrourke/checkpoint/internal/classify"
	"github.com/mrourke/checkpoint/internal/config"
	"github.com/mrourke/checkpoint/internal/gate"
	"github.com/mrourke/checkpoint/internal/logger"
	"github.com/mrourke/checkpoint/internal/mode"
)

// Outcome wraps a gate report with its blocking semantics: the same Fail
// report blocks a commit but only advises after an edit.
type Outcome struct {
	Report   gate.Report
	Blocking bool // caller must stop on a failed blocking outcome
}

// Controller owns the pipeline and the classification policy wiring.
type Controller struct {
	cfg      *config.Config
	pipeline *gate.Pipeline
}

// New builds a controller over the given configuration and runner.
func New(cfg *config.Config, runner gate.Runner) *Controller {
	return &Controller{cfg: cfg, pipeline: gate.New(cfg, runner)}
}

// PreCommit runs the full gate for cwd. The outcome is blocking: on Fail
// the caller must not proceed with the commit or push. An unrecognized
// project yields NotApplicable, never Fail.
func (c *Controller) PreCommit(ctx context.Context, cwd string, m mode.Mode) Outcome {
	report := c.pipeline.Run(ctx, cwd, m)
	return Outcome{Report: report, Blocking: report.Failed()}
}

// FileChanged runs the cheap compile+format subset for the project owning
// the changed file. The outcome is always advisory: failures are reported
// but never block the edit.
func (c *Controller) FileChanged(ctx context.Context, path string, m mode.Mode) Outcome {
	dir, found := c.findProjectDir(path)
	if !found {
		return Outcome{Report: gate.Report{
			Decision: gate.NotApplicable,
			Advisory: "no recognized project above " + path + "; nothing to check",
		}}
	}

	checkMode := m
	if !m.SkipsChecks() {
		checkMode = mode.Safe
	}
	report := c.pipeline.Run(ctx, dir, checkMode)
	return Outcome{Report: report, Blocking: false}
}

// CommandProposed classifies a proposed shell command. Block verdicts are
// blocking, warn verdicts advisory.
func (c *Controller) CommandProposed(raw, cwd string, m mode.Mode) classify.Verdict {
	pol := classify.PolicyFor(c.cfg, cwd, m)
	v := classify.Classify(raw, pol)
	logger.Debug("classified command",
		"decision", v.Decision.String(),
		"rule", v.Rule,
		"command", raw)
	return v
}

// findProjectDir walks up from the file's directory looking for a
// configured project marker.
func (c *Controller) findProjectDir(path string) (string, bool) {
	dir := path
	if info, err := os.Stat(path); err != nil || !info.IsDir() {
		dir = filepath.Dir(path)
	}
	for {
		if _, ok := c.cfg.FindProject(dir); ok {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

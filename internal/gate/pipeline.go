package gate

import (
	"context"
	"strings"

	"github.com/mrourke/checkpoint/internal/config"
	"github.com/mrourke/checkpoint/internal/logger"
	"github.com/mrourke/checkpoint/internal/mode"
)

// CheckOrder is the fixed execution order of the pipeline. Safe mode runs
// only the first two; nothing ever reorders or parallelizes them, so
// diagnostic output stays deterministic.
var CheckOrder = []string{"compile", "format", "lint", "test"}

// Pipeline runs the quality gate checks for one directory.
type Pipeline struct {
	cfg    *config.Config
	runner Runner
}

// New builds a pipeline over the given configuration and runner.
func New(cfg *config.Config, runner Runner) *Pipeline {
	return &Pipeline{cfg: cfg, runner: runner}
}

// Run executes the gate for dir under the given mode and returns the
// aggregated report. Checks execute strictly sequentially in CheckOrder and
// the run never short-circuits on failure; the report always covers every
// applicable check.
func (p *Pipeline) Run(ctx context.Context, dir string, m mode.Mode) Report {
	if m.SkipsChecks() {
		logger.Debug("gate skipped", "mode", m.String())
		return Report{
			Decision: Skipped,
			Advisory: "quality gate skipped (spike mode): the skipped checks are deferred debt, run the gate before merging",
		}
	}

	project, found := p.cfg.FindProject(dir)
	if !found {
		logger.Debug("no recognized project marker", "dir", dir)
		return Report{
			Decision: NotApplicable,
			Advisory: "no recognized project in " + dir + "; quality gate does not apply",
		}
	}

	overrides, err := config.LoadOverrides(dir)
	if err != nil {
		// A broken override file must not abort the gate; fall back to
		// the configured commands and say so.
		logger.Warn("ignoring invalid overrides file", "dir", dir, "error", err)
	}
	project = project.Apply(overrides)

	checks := p.selectChecks(project, m)

	report := Report{Project: project.Name}
	for _, chk := range checks {
		report.Checks = append(report.Checks, p.runCheck(ctx, dir, chk))
	}

	report.Decision = Pass
	for _, res := range report.Checks {
		if res.Status == StatusFail {
			report.Decision = Fail
			break
		}
	}
	logger.Debug("gate finished", "project", project.Name, "decision", report.Decision.String())
	return report
}

// namedCheck pairs a check name with its resolved spec.
type namedCheck struct {
	name string
	spec config.CheckSpec
}

// selectChecks returns the check list for the mode: the full fixed order,
// or the fixed {compile, format} subset in safe mode. The subset is not
// user-tunable.
func (p *Pipeline) selectChecks(project config.ProjectType, m mode.Mode) []namedCheck {
	all := []namedCheck{
		{"compile", project.Compile},
		{"format", project.Format},
		{"lint", project.Lint},
		{"test", project.Test},
	}
	if m.ReducedChecks() {
		return all[:2]
	}
	return all
}

// runCheck executes one check and maps the process outcome to a result.
func (p *Pipeline) runCheck(ctx context.Context, dir string, chk namedCheck) CheckResult {
	if chk.spec.Empty() {
		return CheckResult{Name: chk.name, Status: StatusNotApplicable}
	}
	if chk.spec.Optional && !p.runner.LookPath(chk.spec.Tool()) {
		logger.Debug("optional check tool missing", "check", chk.name, "tool", chk.spec.Tool())
		return CheckResult{Name: chk.name, Status: StatusNotApplicable}
	}

	out, ok, err := p.runner.Run(ctx, dir, chk.spec.Command)
	if err != nil {
		if chk.spec.Optional {
			return CheckResult{Name: chk.name, Status: StatusNotApplicable, Output: err.Error()}
		}
		return CheckResult{
			Name:   chk.name,
			Status: StatusFail,
			Output: err.Error(),
			Hint:   remediationHints[chk.name],
		}
	}

	if ok && chk.spec.FailOnOutput && strings.TrimSpace(out) != "" {
		ok = false
	}
	if !ok {
		return CheckResult{
			Name:   chk.name,
			Status: StatusFail,
			Output: out,
			Hint:   remediationHints[chk.name],
		}
	}
	return CheckResult{Name: chk.name, Status: StatusPass}
}

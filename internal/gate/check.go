// Package gate runs the ordered quality gate pipeline: compile, format,
// lint, test. Checks run strictly in that order, one external process each,
// and the report aggregates every result instead of stopping at the first
// failure, so the caller fixes everything in one pass.
package gate

// Status is the outcome of a single check.
type Status int

const (
	// StatusPass means the tool exited zero (and stayed quiet, for
	// fail-on-output checks).
	StatusPass Status = iota
	// StatusFail means the check ran and found problems.
	StatusFail
	// StatusNotApplicable means the check could not run here: optional
	// tool missing, or no command configured. Never counts as failure.
	StatusNotApplicable
)

// String returns the status name as used in reports and audit logs.
func (s Status) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusFail:
		return "fail"
	case StatusNotApplicable:
		return "not_applicable"
	default:
		return "unknown"
	}
}

// CheckResult is one entry of the pipeline report.
type CheckResult struct {
	Name   string // compile, format, lint or test
	Status Status
	Output string // raw tool output, empty on pass
	Hint   string // canned remediation hint, set on failure
}

// Decision is the aggregated verdict of a pipeline run.
type Decision int

const (
	// Pass means every mandatory check passed.
	Pass Decision = iota
	// Fail means at least one mandatory check failed.
	Fail
	// Skipped means spike mode bypassed the gate; no check executed.
	Skipped
	// NotApplicable means the directory is not a recognized project.
	// Distinct from Fail so callers outside supported projects are never
	// blocked.
	NotApplicable
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case Pass:
		return "pass"
	case Fail:
		return "fail"
	case Skipped:
		return "skipped"
	case NotApplicable:
		return "not_applicable"
	default:
		return "unknown"
	}
}

// Report is the full outcome of a pipeline run.
type Report struct {
	Decision Decision
	Project  string // matched project type name, "" when not applicable
	Checks   []CheckResult
	Advisory string // set when the gate was skipped or could not apply
}

// Failed reports whether the run must stop a commit or push.
func (r Report) Failed() bool { return r.Decision == Fail }

// remediationHints is the canned per-check advice attached to every
// failure.
var remediationHints = map[string]string{
	"compile": "fix the build errors above and re-run the compile check; warnings are treated as errors",
	"format":  "run the project formatter to fix the drift, then re-stage the files",
	"lint":    "address the lint findings (or adjust the lint configuration), then re-run the gate",
	"test":    "run the failing tests locally, fix them, and re-run the gate before committing",
}

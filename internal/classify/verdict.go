package classify

import (
	"os"

	"github.com/mrourke/checkpoint/internal/config"
	"github.com/mrourke/checkpoint/internal/mode"
)

// Decision is the classification outcome for a command.
type Decision int

const (
	// Allow means the command may run.
	Allow Decision = iota
	// Warn means the command is suspect; the caller is told why but not
	// stopped.
	Warn
	// Block means the caller must not run the command.
	Block
)

// String returns the decision name as used in diagnostics and audit logs.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Warn:
		return "warn"
	case Block:
		return "block"
	default:
		return "unknown"
	}
}

// Verdict is the classifier's answer for one proposed command.
type Verdict struct {
	Decision    Decision
	Rule        string // name of the rule that matched, "" for default allow
	Reason      string
	Alternative string // safer way to do the same thing, when one exists
}

// Policy carries everything the rule table needs, resolved once per
// invocation. Rules never read ambient state.
type Policy struct {
	// Cwd anchors relative target paths.
	Cwd string
	// TempDirs are scratch roots where force deletion is fine.
	TempDirs []string
	// SystemRoots are directories mass permission changes must not touch.
	SystemRoots []string
	// Denylist keywords trigger the strict fallback.
	Denylist []string
	// Strict blocks commands that could not be fully classified.
	Strict bool
	// ParanoidPaths flags force deletion even inside Cwd.
	ParanoidPaths bool
}

// PolicyFor builds the classification policy from configuration and the
// resolved gate mode.
func PolicyFor(cfg *config.Config, cwd string, m mode.Mode) Policy {
	tempDirs := append([]string{}, cfg.Classifier.TempDirs...)
	if t := os.TempDir(); t != "" {
		tempDirs = append(tempDirs, t)
	}
	return Policy{
		Cwd:           cwd,
		TempDirs:      tempDirs,
		SystemRoots:   cfg.Classifier.SystemRoots,
		Denylist:      cfg.Classifier.Denylist,
		Strict:        m.StrictClassify(),
		ParanoidPaths: m.ParanoidPaths(),
	}
}

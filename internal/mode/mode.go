// Package mode resolves the process-wide gate mode from environment toggles.
//
// The mode is resolved exactly once at the start of an invocation and passed
// as a parameter from there on; no other package reads the environment
// directly. This keeps every component a pure function of its inputs.
package mode

import (
	"os"

	"github.com/mrourke/checkpoint/internal/constants"
)

// Mode selects how much of the safety machinery runs for one invocation.
type Mode int

const (
	// Normal runs the full check set with default classification policy.
	Normal Mode = iota
	// Safe restricts the quality gate to the cheap non-mutating checks
	// (compile and format). The subset is fixed, never user-tunable.
	Safe
	// SpikeSkip bypasses the quality gate entirely for exploratory work.
	SpikeSkip
	// Strict additionally blocks commands that could not be fully
	// classified but contain a denylist keyword.
	Strict
	// Paranoid widens destructive-path checks to targets inside the
	// working directory and implies Strict classification.
	Paranoid
)

// String returns the mode name as used in diagnostics.
func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Safe:
		return "safe"
	case SpikeSkip:
		return "spike-skip"
	case Strict:
		return "strict"
	case Paranoid:
		return "paranoid"
	default:
		return "unknown"
	}
}

// SkipsChecks reports whether the quality gate runs no checks at all.
func (m Mode) SkipsChecks() bool { return m == SpikeSkip }

// ReducedChecks reports whether the gate runs only compile and format.
func (m Mode) ReducedChecks() bool { return m == Safe }

// StrictClassify reports whether the classifier blocks on the denylist
// fallback. Paranoid is a superset of Strict.
func (m Mode) StrictClassify() bool { return m == Strict || m == Paranoid }

// ParanoidPaths reports whether destructive-path checks also flag targets
// inside the working directory.
func (m Mode) ParanoidPaths() bool { return m == Paranoid }

// LookupFunc is the environment accessor used by Resolve.
// It matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Resolve determines the mode from environment toggles. When several
// toggles are set the most restrictive gate behavior wins:
// spike-skip > safe > paranoid > strict > normal.
func Resolve(lookup LookupFunc) Mode {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	switch {
	case isSet(lookup, constants.EnvSpike):
		return SpikeSkip
	case isSet(lookup, constants.EnvSafe):
		return Safe
	case isSet(lookup, constants.EnvParanoid):
		return Paranoid
	case isSet(lookup, constants.EnvStrict):
		return Strict
	default:
		return Normal
	}
}

// isSet treats any non-empty value other than "0" and "false" as enabled.
func isSet(lookup LookupFunc, key string) bool {
	v, ok := lookup(key)
	if !ok {
		return false
	}
	return v != "" && v != "0" && v != "false"
}

package classify

import (
	"regexp"
	"strings"
)

// MaxResolveDepth bounds nested-command unwrapping. Beyond this many layers
// the original string is returned untouched, which both guarantees
// termination and makes Resolve idempotent for adversarial nesting.
const MaxResolveDepth = 5

// Resolution is the outcome of unwrapping a command.
type Resolution struct {
	Command string // the innermost command the classifier should inspect
	Depth   int    // wrapper layers removed
}

// shellWrappers always unwrap: `bash -c '...'` runs exactly its argument.
var shellWrappers = map[string]bool{
	"sh":   true,
	"bash": true,
	"zsh":  true,
	"dash": true,
	"ksh":  true,
}

// interpreterWrappers unwrap only when the inline program spawns a
// subprocess; otherwise the argument is data, not a command.
var interpreterWrappers = map[string]bool{
	"python":  true,
	"python3": true,
	"perl":    true,
	"ruby":    true,
	"node":    true,
}

// subprocessMarkers are the spawn idioms we recognize inside inline
// interpreter programs.
var subprocessMarkers = []string{
	"os.system",
	"subprocess",
	"popen",
	"exec(",
	"execsync",
	"child_process",
	"system(",
	"spawn",
	"`",
}

// Resolve unwraps shell and interpreter wrapper invocations so the
// classifier inspects the real inner command. Implemented as an explicit
// bounded loop with a depth counter rather than recursion; if a wrapper is
// still present after MaxResolveDepth unwraps, the input is returned as-is.
func Resolve(raw string) Resolution {
	cur := raw
	depth := 0
	for depth < MaxResolveDepth {
		inner, ok := unwrapOnce(cur)
		if !ok {
			return Resolution{Command: cur, Depth: depth}
		}
		cur = inner
		depth++
	}
	// Still wrapped at the bound: give up rather than loop, and hand back
	// the original so repeated calls agree.
	if _, ok := unwrapOnce(cur); ok {
		return Resolution{Command: raw, Depth: 0}
	}
	return Resolution{Command: cur, Depth: depth}
}

// unwrapOnce removes a single wrapper layer, if present.
func unwrapOnce(cmd string) (string, bool) {
	c := parseCommand(cmd)
	if c.Name == "" {
		return "", false
	}

	isShell := shellWrappers[c.Name]
	isInterp := interpreterWrappers[c.Name]
	if !isShell && !isInterp {
		return "", false
	}

	inner, ok := execFlagArg(c.Args, isShell)
	if !ok || strings.TrimSpace(inner) == "" {
		return "", false
	}

	if isInterp {
		if !containsSubprocessCall(inner) {
			return "", false
		}
		// Pull the shell string out of the spawn call so the next layer
		// sees a shell command, not interpreter source.
		if sh, ok := extractShellCall(inner); ok {
			return sh, true
		}
	}
	return inner, true
}

// shellCallPattern matches the single quoted argument of the common spawn
// idioms, e.g. os.system('rm -rf /') or execSync("rm -rf /").
var shellCallPattern = regexp.MustCompile(`(?i)(?:os\.system|subprocess\.(?:run|call|popen)|popen|execsync|system|exec)\(\s*(?:'([^']*)'|"([^"]*)")`)

// extractShellCall extracts the shell command string from an inline spawn
// call, when one quoted argument can be found.
func extractShellCall(code string) (string, bool) {
	m := shellCallPattern.FindStringSubmatch(code)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	if m[2] != "" {
		return m[2], true
	}
	return "", false
}

// execFlagArg finds the argument of -c (shells, interpreters) or -e
// (interpreters). Shells only honor -c.
func execFlagArg(args []string, shellOnly bool) (string, bool) {
	for i, a := range args {
		if a == "-c" || (!shellOnly && a == "-e") {
			if i+1 < len(args) {
				return args[i+1], true
			}
			return "", false
		}
	}
	return "", false
}

// containsSubprocessCall reports whether inline interpreter code reaches
// for a subprocess. Bounded keyword heuristics, not a language parser.
func containsSubprocessCall(code string) bool {
	lower := strings.ToLower(code)
	for _, marker := range subprocessMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

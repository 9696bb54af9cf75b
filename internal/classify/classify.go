package classify

import (
	"strings"

	"github.com/mrourke/checkpoint/internal/logger"
)

// maxPrefixStrips bounds how many sudo/env style prefixes are peeled off a
// segment before rule evaluation.
const maxPrefixStrips = 5

// Classify resolves wrappers, splits the command chain, and evaluates every
// segment against the rule table. The first blocking segment decides; a
// warning is kept only if nothing blocks. Classification never panics:
// anything malformed degrades to the strict-mode fallback.
func Classify(raw string, pol Policy) (v Verdict) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("classifier panic, applying fallback", "panic", r)
			v = fallbackVerdict(raw, pol)
		}
	}()

	res := Resolve(raw)
	if res.Depth > 0 {
		logger.Debug("unwrapped nested command", "depth", res.Depth, "inner", res.Command)
	}

	segments, err := SplitChain(res.Command)
	if err != nil {
		logger.Debug("unparseable command", "command", res.Command)
		return fallbackVerdict(res.Command, pol)
	}
	if len(segments) == 0 {
		return Verdict{Decision: Allow, Reason: "empty command"}
	}

	var warn *Verdict
	matched := false
	for _, seg := range segments {
		c := stripPrefixes(parseCommand(seg))

		// The dry-run escape hatch comes before every rule, including
		// the strict fallback.
		if isDryRun(c) {
			matched = true
			continue
		}

		for i := range ruleTable {
			rule := &ruleTable[i]
			// A family that evaluated this command shape counts as
			// classification even when its predicate allows it, so the
			// strict fallback fires only for genuinely unrecognized
			// commands.
			if rule.Applies != nil && rule.Applies(c) {
				matched = true
			}
			ok, detail := rule.Match(c, pol)
			if !ok {
				continue
			}
			matched = true
			reason := rule.Reason
			if detail != "" {
				reason += " " + detail
			}
			verdict := Verdict{
				Decision:    rule.Decision,
				Rule:        rule.Name,
				Reason:      reason,
				Alternative: rule.Alternative,
			}
			if rule.Decision == Block {
				return verdict
			}
			if warn == nil {
				warn = &verdict
			}
			break // first matching rule wins for this segment
		}
	}

	if warn != nil {
		return *warn
	}
	if !matched {
		if fb := fallbackVerdict(res.Command, pol); fb.Decision != Allow {
			return fb
		}
	}
	return Verdict{Decision: Allow}
}

// fallbackVerdict applies the strict-mode policy to commands no rule could
// judge: block when a denylist keyword is present and strict is on,
// otherwise allow.
func fallbackVerdict(raw string, pol Policy) Verdict {
	if !pol.Strict {
		return Verdict{Decision: Allow}
	}
	if kw, ok := denylistKeyword(raw, pol.Denylist); ok {
		return Verdict{
			Decision: Block,
			Rule:     "strict-fallback",
			Reason:   "could not fully classify command containing " + kw,
		}
	}
	return Verdict{Decision: Allow}
}

// denylistKeyword scans for a denylist word on token boundaries.
func denylistKeyword(raw string, denylist []string) (string, bool) {
	tokens := strings.FieldsFunc(strings.ToLower(raw), func(r rune) bool {
		return !('a' <= r && r <= 'z')
	})
	for _, tok := range tokens {
		for _, kw := range denylist {
			if tok == kw {
				return kw, true
			}
		}
	}
	return "", false
}

// isDryRun reports whether the command carries a recognized dry-run flag.
// --dry-run counts everywhere; -n only on the tools where it means one.
func isDryRun(c Command) bool {
	if c.HasFlag("--dry-run") {
		return true
	}
	if c.Name == "git" && c.Sub() == "clean" && c.HasShortFlag('n') {
		return true
	}
	if c.Name == "rsync" && c.HasShortFlag('n') {
		return true
	}
	switch c.Name {
	case "gofmt", "rustfmt", "mix", "cargo", "prettier", "ruff", "black":
		return c.HasFlag("--check", "--check-formatted")
	}
	return false
}

// stripPrefixes peels sudo/env style prefixes off the argv so rules see the
// real command. Raw is kept intact for the SQL rules.
func stripPrefixes(c Command) Command {
	for i := 0; i < maxPrefixStrips; i++ {
		switch c.Name {
		case "sudo", "nohup", "nice", "time", "doas":
			if len(c.Args) == 0 {
				return c
			}
			c = Command{Name: c.Args[0], Args: c.Args[1:], Raw: c.Raw}
		case "timeout":
			// timeout <duration> <cmd ...>
			if len(c.Args) < 2 {
				return c
			}
			c = Command{Name: c.Args[1], Args: c.Args[2:], Raw: c.Raw}
		case "env":
			rest := c.Args
			for len(rest) > 0 && (strings.Contains(rest[0], "=") || strings.HasPrefix(rest[0], "-")) {
				rest = rest[1:]
			}
			if len(rest) == 0 {
				return c
			}
			c = Command{Name: rest[0], Args: rest[1:], Raw: c.Raw}
		default:
			return c
		}
	}
	return c
}

// Package classify implements destructive-command classification for
// checkpoint. A proposed shell command is unwrapped, split into chain
// segments, normalized, and evaluated against an ordered rule table.
package classify

import (
	"errors"
	"strings"

	"mvdan.cc/sh/v3/shell"
	"mvdan.cc/sh/v3/syntax"
)

// ErrUnparseable is returned when a command cannot be parsed.
var ErrUnparseable = errors.New("unparseable command")

// Command is the normalized representation of a single chain segment.
// Rules match against it instead of raw regular expressions.
type Command struct {
	Name string   // argv[0], "" when the segment had no words
	Args []string // remaining argv
	Raw  string   // the segment as written
}

// emptyEnv keeps field expansion from leaking the real environment into
// classification. Unset variables expand to nothing.
func emptyEnv(string) string { return "" }

// parseCommand normalizes one segment into argv form. Segments the shell
// expander rejects (command substitution and friends) fall back to plain
// whitespace fields so classification still sees something.
func parseCommand(segment string) Command {
	fields, err := shell.Fields(segment, emptyEnv)
	if err != nil || len(fields) == 0 {
		fields = strings.Fields(segment)
	}
	if len(fields) == 0 {
		return Command{Raw: segment}
	}
	return Command{Name: fields[0], Args: fields[1:], Raw: segment}
}

// valueOpts are global options that consume the next argument, so their
// value must not be mistaken for a subcommand (`git -C /repo push`).
var valueOpts = map[string]bool{
	"-C":          true,
	"-c":          true,
	"--git-dir":   true,
	"--work-tree": true,
	"--namespace": true,
}

// Sub returns the first non-flag argument, the subcommand for tools like
// git. Arguments consumed by value-taking global options are skipped.
// Returns "" when there is none.
func (c Command) Sub() string {
	skipValue := false
	for _, a := range c.Args {
		if skipValue {
			skipValue = false
			continue
		}
		if strings.HasPrefix(a, "-") {
			if valueOpts[a] {
				skipValue = true
			}
			continue
		}
		return a
	}
	return ""
}

// HasFlag reports whether any of the given flags appears in the arguments.
func (c Command) HasFlag(flags ...string) bool {
	for _, a := range c.Args {
		for _, f := range flags {
			if a == f {
				return true
			}
		}
	}
	return false
}

// HasShortFlag reports whether the short option letter appears either alone
// or inside a combined cluster (-rf carries both r and f).
func (c Command) HasShortFlag(letter byte) bool {
	for _, a := range c.Args {
		if len(a) < 2 || a[0] != '-' || a[1] == '-' {
			continue
		}
		if strings.IndexByte(a[1:], letter) >= 0 {
			return true
		}
	}
	return false
}

// Targets returns the non-flag arguments after the subcommand position,
// the operand paths of commands like rm and chmod.
func (c Command) Targets() []string {
	var targets []string
	for _, a := range c.Args {
		if strings.HasPrefix(a, "-") {
			continue
		}
		targets = append(targets, a)
	}
	return targets
}

// SplitChain splits a command into segments on &&, ||, ;, | and & using a
// proper shell parser, so quoted operators and redirections are handled
// correctly. Returns ErrUnparseable if the command cannot be parsed.
func SplitChain(cmd string) ([]string, error) {
	if strings.TrimSpace(cmd) == "" {
		return nil, nil
	}

	parser := syntax.NewParser()
	prog, err := parser.Parse(strings.NewReader(cmd), "")
	if err != nil {
		return nil, ErrUnparseable
	}

	var segments []string
	printer := syntax.NewPrinter()
	for _, stmt := range prog.Stmts {
		extractSegments(stmt.Cmd, printer, &segments)
	}
	return segments, nil
}

// extractSegments recursively extracts simple commands from a shell AST node.
func extractSegments(node syntax.Command, printer *syntax.Printer, segments *[]string) {
	if node == nil {
		return
	}

	appendPrinted := func(cmd syntax.Command) {
		var buf strings.Builder
		printer.Print(&buf, cmd)
		if s := strings.TrimSpace(buf.String()); s != "" {
			*segments = append(*segments, s)
		}
	}

	switch cmd := node.(type) {
	case *syntax.CallExpr:
		appendPrinted(cmd)

	case *syntax.BinaryCmd:
		extractSegments(cmd.X.Cmd, printer, segments)
		extractSegments(cmd.Y.Cmd, printer, segments)

	case *syntax.Subshell:
		for _, stmt := range cmd.Stmts {
			extractSegments(stmt.Cmd, printer, segments)
		}

	case *syntax.Block:
		for _, stmt := range cmd.Stmts {
			extractSegments(stmt.Cmd, printer, segments)
		}

	case *syntax.IfClause:
		for clause := cmd; clause != nil; clause = clause.Else {
			for _, stmt := range clause.Cond {
				extractSegments(stmt.Cmd, printer, segments)
			}
			for _, stmt := range clause.Then {
				extractSegments(stmt.Cmd, printer, segments)
			}
		}

	case *syntax.WhileClause:
		for _, stmt := range cmd.Cond {
			extractSegments(stmt.Cmd, printer, segments)
		}
		for _, stmt := range cmd.Do {
			extractSegments(stmt.Cmd, printer, segments)
		}

	case *syntax.ForClause:
		for _, stmt := range cmd.Do {
			extractSegments(stmt.Cmd, printer, segments)
		}

	case *syntax.CaseClause:
		for _, item := range cmd.Items {
			for _, stmt := range item.Stmts {
				extractSegments(stmt.Cmd, printer, segments)
			}
		}

	case *syntax.TimeClause:
		if cmd.Stmt != nil {
			extractSegments(cmd.Stmt.Cmd, printer, segments)
		}

	case *syntax.CoprocClause:
		if cmd.Stmt != nil {
			extractSegments(cmd.Stmt.Cmd, printer, segments)
		}

	case *syntax.FuncDecl:
		if cmd.Body != nil {
			extractSegments(cmd.Body.Cmd, printer, segments)
		}

	default:
		appendPrinted(cmd)
	}
}

package classify

import (
	"fmt"
	"regexp"
)

// Rule pairs a predicate over the normalized command with the verdict to
// emit when it matches. The table is ordered; the first match wins.
//
// Applies is the command-shape test: it reports that this family evaluated
// the segment at all, whether or not Match fires. A segment recognized by
// some family but deliberately allowed (rm -rf into a temp root, push with
// --force-with-lease) must not fall through to the strict keyword fallback.
type Rule struct {
	Name        string
	Decision    Decision
	Applies     func(c Command) bool
	Match       func(c Command, pol Policy) (bool, string)
	Reason      string
	Alternative string
}

func gitSub(sub string) func(Command) bool {
	return func(c Command) bool { return c.Name == "git" && c.Sub() == sub }
}

// isRecursiveForceDelete is the rm family shape: recursive and force both
// present.
func isRecursiveForceDelete(c Command) bool {
	if c.Name != "rm" {
		return false
	}
	recursive := c.HasShortFlag('r') || c.HasShortFlag('R') || c.HasFlag("--recursive")
	force := c.HasShortFlag('f') || c.HasFlag("--force")
	return recursive && force
}

// isRecursiveOwnership is the chmod/chown family shape.
func isRecursiveOwnership(c Command) bool {
	if c.Name != "chmod" && c.Name != "chown" {
		return false
	}
	return c.HasShortFlag('R') || c.HasShortFlag('r') || c.HasFlag("--recursive")
}

// SQL statement shapes. Matched against the raw segment so destructive
// statements are caught inside psql -c / mysql -e style invocations too.
var (
	dropStmt     = regexp.MustCompile(`(?i)\bDROP\s+(DATABASE|TABLE|SCHEMA)\b`)
	ifExists     = regexp.MustCompile(`(?i)\bIF\s+EXISTS\b`)
	txnWrapper   = regexp.MustCompile(`(?i)\b(BEGIN|START\s+TRANSACTION|ROLLBACK)\b`)
	truncateStmt = regexp.MustCompile(`(?i)\bTRUNCATE\s+(TABLE\s+)?\S+`)
)

// ruleTable is the ordered classification table. Version-control history
// destruction first, then filesystem, then data stores.
var ruleTable = []Rule{
	{
		Name:     "git-reset-hard",
		Decision: Block,
		Applies:  gitSub("reset"),
		Match: func(c Command, _ Policy) (bool, string) {
			return c.Name == "git" && c.Sub() == "reset" && c.HasFlag("--hard", "--merge"), ""
		},
		Reason:      "git reset --hard/--merge discards uncommitted work and rewrites branch history",
		Alternative: "git stash push to save the work first, or git reset --soft to keep changes staged",
	},
	{
		Name:     "git-push-force",
		Decision: Block,
		Applies:  gitSub("push"),
		Match: func(c Command, _ Policy) (bool, string) {
			if c.Name != "git" || c.Sub() != "push" {
				return false, ""
			}
			if hasForceWithLease(c) {
				return false, ""
			}
			return c.HasFlag("--force", "-f"), ""
		},
		Reason:      "force push rewrites remote history that others may have already pulled",
		Alternative: "git push --force-with-lease, which fails safely if the remote gained new commits",
	},
	{
		Name:     "git-stash-drop",
		Decision: Block,
		Applies:  gitSub("stash"),
		Match: func(c Command, _ Policy) (bool, string) {
			if c.Name != "git" || c.Sub() != "stash" {
				return false, ""
			}
			return c.HasFlag("drop", "clear") || secondSub(c) == "drop" || secondSub(c) == "clear", ""
		},
		Reason:      "git stash drop/clear permanently deletes stashed changes",
		Alternative: "git stash show -p to review first, or git stash branch <name> to recover into a branch",
	},
	{
		Name:     "git-branch-force-delete",
		Decision: Block,
		Applies:  gitSub("branch"),
		Match: func(c Command, _ Policy) (bool, string) {
			if c.Name != "git" || c.Sub() != "branch" {
				return false, ""
			}
			return c.HasFlag("-D") || (c.HasFlag("--delete", "-d") && c.HasFlag("--force", "-f")), ""
		},
		Reason:      "force branch delete throws away commits that are not merged anywhere",
		Alternative: "git branch -d, which refuses to drop unmerged work",
	},
	{
		Name:     "git-checkout-discard",
		Decision: Block,
		Applies:  gitSub("checkout"),
		Match: func(c Command, _ Policy) (bool, string) {
			return c.Name == "git" && c.Sub() == "checkout" && c.HasFlag("--"), ""
		},
		Reason:      "git checkout -- discards uncommitted changes in the named paths",
		Alternative: "git stash push -- <path> keeps a recoverable copy before reverting",
	},
	{
		Name:     "git-clean-force",
		Decision: Block,
		Applies:  gitSub("clean"),
		Match: func(c Command, _ Policy) (bool, string) {
			if c.Name != "git" || c.Sub() != "clean" {
				return false, ""
			}
			return c.HasShortFlag('f') || c.HasFlag("--force"), ""
		},
		Reason:      "git clean -f permanently removes untracked files",
		Alternative: "git clean -n first to see what would be deleted",
	},
	{
		Name:        "rm-recursive-force",
		Decision:    Block,
		Applies:     isRecursiveForceDelete,
		Match:       matchRecursiveForceDelete,
		Reason:      "recursive force delete",
		Alternative: "move the target under /tmp instead of deleting, or delete specific files without -rf",
	},
	{
		Name:     "find-delete",
		Decision: Block,
		Match: func(c Command, _ Policy) (bool, string) {
			return c.Name == "find" && c.HasFlag("-delete"), ""
		},
		Reason:      "find -delete removes every file the expression matches",
		Alternative: "run the same find without -delete first and review the matches",
	},
	{
		Name:     "find-exec-rm",
		Decision: Block,
		Match: func(c Command, _ Policy) (bool, string) {
			if c.Name != "find" || !c.HasFlag("-exec", "-execdir") {
				return false, ""
			}
			return c.HasFlag("rm") && c.HasShortFlag('r'), ""
		},
		Reason:      "find -exec rm -rf deletes every path the expression matches",
		Alternative: "run the find alone first, then delete a reviewed list",
	},
	{
		Name:     "piped-delete",
		Decision: Block,
		Match: func(c Command, _ Policy) (bool, string) {
			if c.Name != "xargs" && c.Name != "parallel" {
				return false, ""
			}
			return c.HasFlag("rm") && c.HasShortFlag('r'), ""
		},
		Reason:      "piping paths into rm -rf deletes whatever the upstream command produced",
		Alternative: "run the upstream command alone and review its output before deleting",
	},
	{
		Name:        "recursive-chmod-system",
		Decision:    Block,
		Applies:     isRecursiveOwnership,
		Match:       matchRecursiveOwnership,
		Reason:      "recursive permission change rooted at a system directory",
		Alternative: "limit the change to a path inside the project",
	},
	{
		Name:     "sql-drop",
		Decision: Block,
		Match: func(c Command, _ Policy) (bool, string) {
			if !dropStmt.MatchString(c.Raw) {
				return false, ""
			}
			return !ifExists.MatchString(c.Raw) && !txnWrapper.MatchString(c.Raw), ""
		},
		Reason:      "DROP without IF EXISTS or a transaction wrapper cannot be undone",
		Alternative: "add IF EXISTS and wrap the statement in BEGIN/ROLLBACK to stage it first",
	},
	{
		Name:     "sql-drop-guarded",
		Decision: Warn,
		Match: func(c Command, _ Policy) (bool, string) {
			return dropStmt.MatchString(c.Raw), ""
		},
		Reason: "guarded DROP is still destructive once committed",
	},
	{
		Name:     "sql-truncate",
		Decision: Block,
		Match: func(c Command, _ Policy) (bool, string) {
			if !truncateStmt.MatchString(c.Raw) {
				return false, ""
			}
			return !txnWrapper.MatchString(c.Raw), ""
		},
		Reason:      "unconditional TRUNCATE wipes every row in the table",
		Alternative: "wrap it in a transaction, or use DELETE with a WHERE clause",
	},
	{
		Name:     "sql-truncate-guarded",
		Decision: Warn,
		Match: func(c Command, _ Policy) (bool, string) {
			return truncateStmt.MatchString(c.Raw), ""
		},
		Reason: "TRUNCATE inside a transaction still wipes the table once committed",
	},
}

// hasForceWithLease also accepts the --force-with-lease=<ref> form.
func hasForceWithLease(c Command) bool {
	for _, a := range c.Args {
		if a == "--force-with-lease" || len(a) > len("--force-with-lease") && a[:len("--force-with-lease=")] == "--force-with-lease=" {
			return true
		}
	}
	return false
}

// secondSub returns the non-flag argument after the subcommand, e.g. the
// "drop" in "git stash drop". Value-taking global options are skipped the
// same way Sub skips them.
func secondSub(c Command) string {
	seen := false
	skipValue := false
	for _, a := range c.Args {
		if skipValue {
			skipValue = false
			continue
		}
		if len(a) > 0 && a[0] == '-' {
			if valueOpts[a] {
				skipValue = true
			}
			continue
		}
		if !seen {
			seen = true
			continue
		}
		return a
	}
	return ""
}

// matchRecursiveForceDelete flags rm -rf whose target lands outside the
// working directory and the temp roots. Paranoid policy flags targets
// inside the working directory too; temp roots stay allowed either way.
func matchRecursiveForceDelete(c Command, pol Policy) (bool, string) {
	if !isRecursiveForceDelete(c) {
		return false, ""
	}
	for _, target := range c.Targets() {
		resolved := resolveTarget(target, pol.Cwd)
		if inAnyDir(resolved, pol.TempDirs) {
			continue
		}
		if pol.ParanoidPaths {
			return true, fmt.Sprintf("of %s (paranoid mode flags all recursive deletes)", resolved)
		}
		if pol.Cwd != "" && isWithin(resolved, pol.Cwd) {
			continue
		}
		return true, fmt.Sprintf("of %s, outside the working directory and temp dirs", resolved)
	}
	return false, ""
}

// matchRecursiveOwnership flags chmod/chown -R aimed at system roots.
// "/" and "/home" match only exactly; everything under them would
// otherwise be a system path.
func matchRecursiveOwnership(c Command, pol Policy) (bool, string) {
	if !isRecursiveOwnership(c) {
		return false, ""
	}
	for _, target := range c.Targets() {
		resolved := resolveTarget(target, pol.Cwd)
		for _, root := range pol.SystemRoots {
			if resolved == root {
				return true, fmt.Sprintf("(%s)", resolved)
			}
			if root == "/" || root == "/home" {
				continue
			}
			if isWithin(resolved, root) {
				return true, fmt.Sprintf("(%s)", resolved)
			}
		}
	}
	return false, ""
}

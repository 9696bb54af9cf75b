// checkpoint - command safety and quality gate hooks for coding agents.
//
// As a PreToolUse hook it classifies proposed Bash commands and blocks
// destructive ones; as a pre-commit/pre-push gate it runs the project's
// compile, format, lint and test checks and reports one aggregated verdict.
//
// Usage in ~/.claude/settings.json:
//
//	"hooks": {
//	  "PreToolUse": [{
//	    "matcher": "Bash",
//	    "hooks": [{"type": "command", "command": "checkpoint"}]
//	  }]
//	}
//
// Test:
//
//	echo '{"tool_name": "Bash", "tool_input": {"command": "git push --force origin main"}}' | checkpoint
package main

import (
	"os"

	"github.com/mrourke/checkpoint/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

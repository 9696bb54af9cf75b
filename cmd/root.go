// Package cmd implements the CLI commands for checkpoint.
package cmd

import (
	"github.com/mrourke/checkpoint/internal/audit"
	"github.com/mrourke/checkpoint/internal/config"
	"github.com/mrourke/checkpoint/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose    bool
	dryRun     bool
	noAuditLog bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Command safety and quality gate hooks for coding agents",
	Long: `Checkpoint guards an AI coding agent's shell access and version control
operations.

As a PreToolUse hook it classifies proposed Bash commands and blocks
destructive ones (history rewrites, recursive deletes, DROP TABLE). As a
pre-commit/pre-push gate it runs the project's compile, format, lint and
test checks in a fixed order and reports one aggregated verdict.

Usage in ~/.claude/settings.json:
  "hooks": {
    "PreToolUse": [{
      "matcher": "Bash",
      "hooks": [{"type": "command", "command": "checkpoint"}]
    }],
    "PostToolUse": [{
      "matcher": "Write|Edit",
      "hooks": [{"type": "command", "command": "checkpoint edited"}]
    }],
    "SessionStart": [{
      "hooks": [{"type": "command", "command": "checkpoint bootstrap"}]
    }]
  }

Mode toggles: CHECKPOINT_SPIKE skips the gate, CHECKPOINT_SAFE runs only
compile+format, CHECKPOINT_STRICT blocks unclassifiable commands,
CHECKPOINT_PARANOID widens destructive-path checks.`,
	// Run the classification hook by default when no subcommand is given
	RunE:          runHook,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Initialize before running any command
	cobra.OnInitialize(initApp)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output (debug logging)")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Describe the decision on stderr instead of emitting hook JSON")
	rootCmd.PersistentFlags().BoolVar(&noAuditLog, "no-audit-log", false, "Disable audit logging")
}

// initApp initializes the application (logger, config, audit)
func initApp() {
	logger.Init(logger.Options{Verbose: verbose})
	config.Init()
	audit.Init("", noAuditLog)
}

// IsVerbose returns whether verbose mode is enabled
func IsVerbose() bool {
	return verbose
}

// IsDryRun returns whether dry-run mode is enabled
func IsDryRun() bool {
	return dryRun
}

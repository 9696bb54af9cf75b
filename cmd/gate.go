package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mrourke/checkpoint/internal/audit"
	"github.com/mrourke/checkpoint/internal/config"
	"github.com/mrourke/checkpoint/internal/controller"
	"github.com/mrourke/checkpoint/internal/gate"
	"github.com/mrourke/checkpoint/internal/mode"
	"github.com/spf13/cobra"
)

// errGateFailed carries the blocking verdict to the exit code.
var errGateFailed = errors.New("quality gate failed")

var gateCmd = &cobra.Command{
	Use:   "gate [dir]",
	Short: "Run the blocking quality gate (pre-commit/pre-push)",
	Long: `Gate runs the project's compile, format, lint and test checks in that
fixed order and reports one aggregated verdict. All checks run even when an
early one fails, so one pass shows everything to fix.

Exit code 0 means proceed; non-zero means the commit or push must stop.
A directory without a recognized project marker is reported as not
applicable and never fails.

Wire it up as a git hook:
  echo 'checkpoint gate' > .git/hooks/pre-commit && chmod +x .git/hooks/pre-commit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGate,
}

func init() {
	rootCmd.AddCommand(gateCmd)
}

func runGate(cmd *cobra.Command, args []string) error {
	start := time.Now()
	m := mode.Resolve(nil)

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	if abs, err := os.Getwd(); err == nil && dir == "." {
		dir = abs
	}

	ctl := controller.New(config.Get(), gate.NewRunner())
	outcome := ctl.PreCommit(cmd.Context(), dir, m)
	report := outcome.Report

	printReport(report)
	logGateAudit(report, dir, m, start)

	if outcome.Blocking && report.Failed() {
		return errGateFailed
	}
	return nil
}

// printReport writes the human-readable per-check lines to stderr.
func printReport(report gate.Report) {
	switch report.Decision {
	case gate.Skipped:
		warnLine.Fprintf(os.Stderr, "gate skipped: %s\n", report.Advisory)
		return
	case gate.NotApplicable:
		fmt.Fprintf(os.Stderr, "gate not applicable: %s\n", report.Advisory)
		return
	}

	for _, chk := range report.Checks {
		switch chk.Status {
		case gate.StatusPass:
			allowLine.Fprintf(os.Stderr, "  ok  %s\n", chk.Name)
		case gate.StatusNotApplicable:
			fmt.Fprintf(os.Stderr, "  --  %s (not applicable)\n", chk.Name)
		case gate.StatusFail:
			blockLine.Fprintf(os.Stderr, "FAIL  %s\n", chk.Name)
			if chk.Output != "" {
				fmt.Fprintln(os.Stderr, chk.Output)
			}
			if chk.Hint != "" {
				fmt.Fprintf(os.Stderr, "hint: %s\n", chk.Hint)
			}
		}
	}

	if report.Failed() {
		blockLine.Fprintf(os.Stderr, "quality gate failed (%s)\n", report.Project)
	} else {
		allowLine.Fprintf(os.Stderr, "quality gate passed (%s)\n", report.Project)
	}
}

// logGateAudit appends the gate run to the audit log.
func logGateAudit(report gate.Report, dir string, m mode.Mode, start time.Time) {
	entry := audit.Entry{
		Kind:       audit.KindGate,
		Cwd:        dir,
		Mode:       m.String(),
		DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
		Decision:   report.Decision.String(),
	}
	for _, chk := range report.Checks {
		rec := audit.CheckRecord{Name: chk.Name, Status: chk.Status.String()}
		if chk.Status == gate.StatusFail {
			rec.Output = chk.Output
		}
		entry.Checks = append(entry.Checks, rec)
	}
	audit.Log(entry)
}

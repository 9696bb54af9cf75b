package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/mrourke/checkpoint/internal/audit"
	"github.com/mrourke/checkpoint/internal/classify"
	"github.com/mrourke/checkpoint/internal/config"
	"github.com/mrourke/checkpoint/internal/controller"
	"github.com/mrourke/checkpoint/internal/gate"
	"github.com/mrourke/checkpoint/internal/hookio"
	"github.com/mrourke/checkpoint/internal/mode"
	"github.com/spf13/cobra"
)

// errBlocked makes the process exit non-zero so the calling harness sees a
// blocked command even if it ignores the decision JSON.
var errBlocked = errors.New("command blocked")

var (
	blockLine = color.New(color.FgRed, color.Bold)
	warnLine  = color.New(color.FgYellow)
	allowLine = color.New(color.FgGreen)
)

// runHook is the default command: read a PreToolUse hook envelope from
// stdin, classify the proposed command, and emit the decision JSON.
func runHook(cmd *cobra.Command, args []string) error {
	start := time.Now()
	m := mode.Resolve(nil)

	in, _, err := hookio.Decode(os.Stdin)
	if err != nil {
		fmt.Print(hookio.FormatAsk("invalid hook input"))
		return nil
	}
	if in.ToolName != "Bash" {
		fmt.Print(hookio.FormatAsk("not a Bash command"))
		return nil
	}

	cwd := in.Cwd
	if cwd == "" {
		cwd, _ = os.Getwd()
	}

	ctl := controller.New(config.Get(), gate.NewRunner())
	v := ctl.CommandProposed(in.ToolInput.Command, cwd, m)

	audit.Log(audit.Entry{
		Kind:       audit.KindCommand,
		SessionID:  in.SessionID,
		ToolUseID:  in.ToolUseID,
		Cwd:        cwd,
		Mode:       m.String(),
		DurationMs: float64(time.Since(start).Microseconds()) / 1000.0,
		Command:    in.ToolInput.Command,
		Decision:   v.Decision.String(),
		Rule:       v.Rule,
		Reason:     v.Reason,
	})

	if dryRun {
		return printDryRun(in.ToolInput.Command, v)
	}

	switch v.Decision {
	case classify.Block:
		fmt.Print(hookio.FormatDeny(blockReason(v)))
		blockLine.Fprintf(os.Stderr, "blocked: %s\n", v.Reason)
		if v.Alternative != "" {
			fmt.Fprintf(os.Stderr, "safer: %s\n", v.Alternative)
		}
		return errBlocked
	case classify.Warn:
		fmt.Print(hookio.FormatAsk(v.Reason))
		warnLine.Fprintf(os.Stderr, "warning: %s\n", v.Reason)
	default:
		reason := v.Reason
		if reason == "" {
			reason = "no destructive pattern matched"
		}
		fmt.Print(hookio.FormatAllow(reason))
	}
	return nil
}

// printDryRun describes the decision on stderr without hook JSON.
func printDryRun(command string, v classify.Verdict) error {
	switch v.Decision {
	case classify.Block:
		blockLine.Fprintf(os.Stderr, "BLOCKED: %s (%s)\n", command, blockReason(v))
		return errBlocked
	case classify.Warn:
		warnLine.Fprintf(os.Stderr, "WARN: %s (%s)\n", command, v.Reason)
	default:
		allowLine.Fprintf(os.Stderr, "ALLOWED: %s\n", command)
	}
	return nil
}

// blockReason folds the safer alternative into the decision reason.
func blockReason(v classify.Verdict) string {
	if v.Alternative == "" {
		return v.Reason
	}
	return v.Reason + "; safer: " + v.Alternative
}

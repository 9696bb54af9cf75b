package cmd

import (
	"fmt"
	"os"

	"github.com/mrourke/checkpoint/internal/config"
	"github.com/mrourke/checkpoint/internal/gate"
	"github.com/mrourke/checkpoint/internal/mode"
	"github.com/mrourke/checkpoint/internal/session"
	"github.com/spf13/cobra"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap [dir]",
	Short: "Report session readiness (standing rules, project, tools)",
	Long: `Bootstrap collects a one-shot readiness report at session start: which
standing-rule files exist, whether the directory is a recognized project,
and whether the gate's check tools are installed.

The report is purely advisory. It never blocks and never mutates anything;
the exit code is always 0.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBootstrap,
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	} else if cwd, err := os.Getwd(); err == nil {
		dir = cwd
	}

	m := mode.Resolve(nil)
	runner := gate.NewRunner()
	sc := session.Bootstrap(dir, config.Get(), runner.LookPath)

	if sc.Project != "" {
		fmt.Fprintf(os.Stderr, "project: %s\n", sc.Project)
	}
	fmt.Fprintf(os.Stderr, "gate mode: %s\n", m.String())
	for _, f := range sc.StandingRules {
		if f.Present {
			fmt.Fprintf(os.Stderr, "rules: %s present\n", f.Name)
		}
	}
	for _, tool := range sc.Tools {
		if tool.Available {
			allowLine.Fprintf(os.Stderr, "tool: %s (%s) available\n", tool.Tool, tool.Check)
		}
	}
	for _, w := range sc.Warnings {
		warnLine.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	// Advisory by contract: always exit 0.
	return nil
}

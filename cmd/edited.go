package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/mrourke/checkpoint/internal/config"
	"github.com/mrourke/checkpoint/internal/controller"
	"github.com/mrourke/checkpoint/internal/gate"
	"github.com/mrourke/checkpoint/internal/hookio"
	"github.com/mrourke/checkpoint/internal/mode"
	"github.com/spf13/cobra"
)

var editedCmd = &cobra.Command{
	Use:   "edited [path]",
	Short: "Run the advisory compile+format check for one edited file",
	Long: `Edited runs the cheap compile and format checks for the project that owns
the changed file. The result is purely advisory: failures are reported on
stderr but the exit code is always 0, so an edit is never rolled back.

With no path argument it reads a PostToolUse hook envelope from stdin and
takes the file path from tool_input.file_path.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdited,
}

func init() {
	rootCmd.AddCommand(editedCmd)
}

func runEdited(cmd *cobra.Command, args []string) error {
	start := time.Now()
	m := mode.Resolve(nil)

	path := ""
	if len(args) > 0 {
		path = args[0]
	} else {
		in, _, err := hookio.Decode(os.Stdin)
		if err != nil {
			fmt.Fprintln(os.Stderr, "edited: no file path given and no hook input on stdin")
			return nil
		}
		path = in.ToolInput.FilePath
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "edited: no file path to check")
		return nil
	}

	ctl := controller.New(config.Get(), gate.NewRunner())
	outcome := ctl.FileChanged(cmd.Context(), path, m)
	report := outcome.Report

	printReport(report)
	if report.Failed() {
		warnLine.Fprintln(os.Stderr, "advisory only: the edit stands, fix before committing")
	}
	logGateAudit(report, path, m, start)

	// Never blocking, regardless of the report.
	return nil
}

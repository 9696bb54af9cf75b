package gate

import (
	"context"
	"os/exec"
)

// Runner abstracts the single external process a check invokes, so tests
// can substitute canned results for real tool runs.
type Runner interface {
	// Run executes argv in dir and returns the combined output and
	// whether the process exited zero. err is reserved for failures to
	// run the tool at all.
	Run(ctx context.Context, dir string, argv []string) (output string, ok bool, err error)

	// LookPath reports whether the named tool is installed.
	LookPath(tool string) bool
}

// execRunner is the production Runner backed by os/exec.
type execRunner struct{}

// NewRunner returns the os/exec backed Runner.
func NewRunner() Runner { return execRunner{} }

func (execRunner) Run(ctx context.Context, dir string, argv []string) (string, bool, error) {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		if _, isExit := err.(*exec.ExitError); isExit {
			return string(out), false, nil
		}
		return string(out), false, err
	}
	return string(out), true, nil
}

func (execRunner) LookPath(tool string) bool {
	_, err := exec.LookPath(tool)
	return err == nil
}

package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/mrourke/checkpoint/internal/config"
	"github.com/mrourke/checkpoint/internal/constants"
	"github.com/mrourke/checkpoint/internal/hookio"
	"github.com/spf13/cobra"
)

// setupTestConfig points the config loader at a temp directory and clears
// every mode toggle so tests see deterministic behavior.
func setupTestConfig(t *testing.T) {
	t.Helper()
	resetGlobalState()

	t.Setenv(constants.EnvConfigDir, t.TempDir())
	t.Setenv(constants.EnvSpike, "")
	t.Setenv(constants.EnvSafe, "")
	t.Setenv(constants.EnvStrict, "")
	t.Setenv(constants.EnvParanoid, "")

	config.Reset()
	config.Init()
	t.Cleanup(resetGlobalState)
}

// runHookWithInput feeds the JSON to runHook over a stdin pipe and captures
// stdout and stderr.
func runHookWithInput(t *testing.T, input string) (stdout, stderr string, err error) {
	t.Helper()

	oldStdin, oldStdout, oldStderr := os.Stdin, os.Stdout, os.Stderr

	stdinR, stdinW, _ := os.Pipe()
	stdinW.WriteString(input)
	stdinW.Close()
	os.Stdin = stdinR

	stdoutR, stdoutW, _ := os.Pipe()
	os.Stdout = stdoutW
	stderrR, stderrW, _ := os.Pipe()
	os.Stderr = stderrW

	err = runHook(&cobra.Command{}, []string{})

	os.Stdin = oldStdin
	stdoutW.Close()
	os.Stdout = oldStdout
	stderrW.Close()
	os.Stderr = oldStderr

	var outBuf, errBuf bytes.Buffer
	io.Copy(&outBuf, stdoutR)
	io.Copy(&errBuf, stderrR)
	return outBuf.String(), errBuf.String(), err
}

func decodeDecision(t *testing.T, stdout string) hookio.SpecificOutput {
	t.Helper()
	var out hookio.Output
	if err := json.Unmarshal([]byte(stdout), &out); err != nil {
		t.Fatalf("stdout is not decision JSON: %v\n%s", err, stdout)
	}
	return out.HookSpecificOutput
}

func TestRunHookAllowsSafeCommand(t *testing.T) {
	setupTestConfig(t)

	input := `{"tool_name":"Bash","cwd":"/home/dev/project","tool_input":{"command":"git status"}}`
	stdout, _, err := runHookWithInput(t, input)
	if err != nil {
		t.Fatalf("runHook() error = %v", err)
	}

	so := decodeDecision(t, stdout)
	if so.PermissionDecision != hookio.DecisionAllow {
		t.Errorf("decision = %q, want allow", so.PermissionDecision)
	}
}

func TestRunHookBlocksForcePush(t *testing.T) {
	setupTestConfig(t)

	input := `{"tool_name":"Bash","cwd":"/home/dev/project","tool_input":{"command":"git push --force origin main"}}`
	stdout, stderr, err := runHookWithInput(t, input)
	if err == nil {
		t.Fatal("expected non-nil error for a blocked command")
	}

	so := decodeDecision(t, stdout)
	if so.PermissionDecision != hookio.DecisionDeny {
		t.Errorf("decision = %q, want deny", so.PermissionDecision)
	}
	if !strings.Contains(so.PermissionDecisionReason, "--force-with-lease") {
		t.Errorf("reason %q should name the safer alternative", so.PermissionDecisionReason)
	}
	if !strings.Contains(stderr, "blocked:") {
		t.Errorf("stderr %q should carry the blocked line", stderr)
	}
}

func TestRunHookWarnsGuardedDrop(t *testing.T) {
	setupTestConfig(t)

	input := `{"tool_name":"Bash","cwd":"/home/dev/project","tool_input":{"command":"psql -c \"DROP TABLE IF EXISTS users\""}}`
	stdout, _, err := runHookWithInput(t, input)
	if err != nil {
		t.Fatalf("warn must not exit non-zero, got %v", err)
	}

	so := decodeDecision(t, stdout)
	if so.PermissionDecision != hookio.DecisionAsk {
		t.Errorf("decision = %q, want ask", so.PermissionDecision)
	}
}

func TestRunHookNonBashTool(t *testing.T) {
	setupTestConfig(t)

	input := `{"tool_name":"Write","tool_input":{"file_path":"/tmp/x"}}`
	stdout, _, err := runHookWithInput(t, input)
	if err != nil {
		t.Fatalf("runHook() error = %v", err)
	}

	so := decodeDecision(t, stdout)
	if so.PermissionDecision != hookio.DecisionAsk {
		t.Errorf("decision = %q, want ask for non-Bash tools", so.PermissionDecision)
	}
}

func TestRunHookInvalidInput(t *testing.T) {
	setupTestConfig(t)

	stdout, _, err := runHookWithInput(t, "not json at all")
	if err != nil {
		t.Fatalf("invalid input must not exit non-zero, got %v", err)
	}

	so := decodeDecision(t, stdout)
	if so.PermissionDecision != hookio.DecisionAsk {
		t.Errorf("decision = %q, want ask for invalid input", so.PermissionDecision)
	}
}

func TestRunHookDryRun(t *testing.T) {
	setupTestConfig(t)
	dryRun = true
	defer func() { dryRun = false }()

	input := `{"tool_name":"Bash","cwd":"/home/dev/project","tool_input":{"command":"rm -rf /etc"}}`
	stdout, stderr, err := runHookWithInput(t, input)
	if err == nil {
		t.Fatal("blocked command should still exit non-zero in dry-run")
	}
	if stdout != "" {
		t.Errorf("dry-run must not emit hook JSON, got %q", stdout)
	}
	if !strings.Contains(stderr, "BLOCKED") || !strings.Contains(stderr, "rm -rf /etc") {
		t.Errorf("dry-run stderr = %q", stderr)
	}
}

func TestRunHookSpikeModeStillBlocksCommands(t *testing.T) {
	// Spike mode skips the quality gate; command classification is
	// unaffected.
	setupTestConfig(t)
	t.Setenv(constants.EnvSpike, "1")

	input := `{"tool_name":"Bash","cwd":"/home/dev/project","tool_input":{"command":"git reset --hard"}}`
	stdout, _, err := runHookWithInput(t, input)
	if err == nil {
		t.Fatal("expected block in spike mode")
	}
	so := decodeDecision(t, stdout)
	if so.PermissionDecision != hookio.DecisionDeny {
		t.Errorf("decision = %q, want deny", so.PermissionDecision)
	}
}

// Package hookio implements the agent hook wire envelope: JSON input on
// stdin describing the proposed tool call, JSON decision output on stdout.
package hookio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mrourke/checkpoint/internal/logger"
)

// Hook event names
const (
	EventPreToolUse   = "PreToolUse"
	EventPostToolUse  = "PostToolUse"
	EventSessionStart = "SessionStart"
)

// Permission decisions
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
	DecisionAsk   = "ask"
)

// ToolInputData contains the tool call details. Command is set for Bash
// calls, FilePath for file edits.
type ToolInputData struct {
	Command     string `json:"command,omitempty"`
	FilePath    string `json:"file_path,omitempty"`
	Description string `json:"description,omitempty"`
	Timeout     int    `json:"timeout,omitempty"`
}

// Input represents the JSON input received from the agent hook.
type Input struct {
	SessionID      string        `json:"session_id"`
	TranscriptPath string        `json:"transcript_path"`
	Cwd            string        `json:"cwd"`
	PermissionMode string        `json:"permission_mode"`
	HookEventName  string        `json:"hook_event_name"`
	ToolName       string        `json:"tool_name"`
	ToolInput      ToolInputData `json:"tool_input"`
	ToolUseID      string        `json:"tool_use_id"`
}

// Output wraps SpecificOutput in the format the agent expects.
type Output struct {
	HookSpecificOutput SpecificOutput `json:"hookSpecificOutput"`
}

// SpecificOutput contains the permission decision details.
type SpecificOutput struct {
	HookEventName            string `json:"hookEventName"`
	PermissionDecision       string `json:"permissionDecision"`
	PermissionDecisionReason string `json:"permissionDecisionReason"`
}

// Decode reads and parses the hook input, returning the raw bytes as well
// so callers can audit exactly what arrived.
func Decode(r io.Reader) (Input, string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Input{}, "", fmt.Errorf("failed to read hook input: %w", err)
	}
	var in Input
	if err := json.Unmarshal(raw, &in); err != nil {
		return Input{}, string(raw), fmt.Errorf("failed to decode hook input: %w", err)
	}
	return in, string(raw), nil
}

// Format returns the decision JSON for the given event.
func Format(event, decision, reason string) string {
	out := Output{
		HookSpecificOutput: SpecificOutput{
			HookEventName:            event,
			PermissionDecision:       decision,
			PermissionDecisionReason: reason,
		},
	}
	data, err := json.Marshal(out)
	if err != nil {
		logger.Debug("failed to marshal hook output", "error", err)
		return `{"hookSpecificOutput":{"hookEventName":"` + event + `","permissionDecision":"ask","permissionDecisionReason":"internal error"}}`
	}
	return string(data)
}

// FormatAllow returns the JSON allow output for PreToolUse.
func FormatAllow(reason string) string {
	return Format(EventPreToolUse, DecisionAllow, reason)
}

// FormatDeny returns the JSON deny output for PreToolUse.
func FormatDeny(reason string) string {
	return Format(EventPreToolUse, DecisionDeny, reason)
}

// FormatAsk returns the JSON ask output for PreToolUse.
func FormatAsk(reason string) string {
	return Format(EventPreToolUse, DecisionAsk, reason)
}

package claude

import (
	"context"
	"fmt"

	"github.com/leefowlercu/agent-hook-prompt-flags/internal/framework"
	"github.com/leefowlercu/agent-hook-prompt-flags/internal/transcript"
	"github.com/leefowlercu/agent-hook-prompt-flags/pkg/types"
)

const (
	preToolUseType = "PreToolUse"

	// taskToolName is the subagent tool; injecting into it would recurse
	taskToolName = "Task"
)

// PreToolUseHandler handles the PreToolUse hook.
// The subject is the last user message recorded in the session transcript.
type PreToolUseHandler struct{}

// Force compile-time check for interface implementation
var _ framework.HookHandler = (*PreToolUseHandler)(nil)

// NewPreToolUseHandler creates a new PreToolUse handler
func NewPreToolUseHandler() *PreToolUseHandler {
	return &PreToolUseHandler{}
}

// ExtractSubject reads the last user message from the transcript.
// Transcript failures produce a skipped subject rather than an error.
func (h *PreToolUseHandler) ExtractSubject(ctx context.Context, input types.HookInput) (types.Subject, error) {
	var toolInput PreToolUseInput
	if err := decodeInput(input.RawData, &toolInput); err != nil {
		return types.Subject{}, fmt.Errorf("invalid PreToolUse input; %w", err)
	}

	subject := types.Subject{
		Event:  preToolUseType,
		Source: "transcript",
		Metadata: map[string]string{
			"session_id":      toolInput.SessionID,
			"transcript_path": toolInput.TranscriptPath,
			"cwd":             toolInput.CWD,
			"tool_name":       toolInput.ToolName,
		},
	}

	if toolInput.ToolName == taskToolName {
		subject.Skip = true
		subject.Metadata["skip_reason"] = "task tool"
		return subject, nil
	}

	if toolInput.TranscriptPath == "" {
		subject.Skip = true
		subject.Metadata["skip_reason"] = "no transcript path"
		return subject, nil
	}

	text, err := transcript.LastUserMessage(toolInput.TranscriptPath)
	if err != nil {
		subject.Skip = true
		subject.Metadata["skip_reason"] = "transcript unavailable"
		subject.Metadata["transcript_error"] = err.Error()
		return subject, nil
	}

	subject.Text = text
	return subject, nil
}

// GetType returns the hook type name
func (h *PreToolUseHandler) GetType() string {
	return preToolUseType
}

// CanHandle returns true if this handler can process the given hook input
func (h *PreToolUseHandler) CanHandle(input types.HookInput) bool {
	return input.Framework == frameworkName && input.HookType == preToolUseType
}

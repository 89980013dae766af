package claude

import (
	"context"
	"fmt"

	"github.com/leefowlercu/agent-hook-prompt-flags/internal/framework"
	"github.com/leefowlercu/agent-hook-prompt-flags/pkg/types"
)

const userPromptSubmitType = "UserPromptSubmit"

// UserPromptSubmitHandler handles the UserPromptSubmit hook
type UserPromptSubmitHandler struct{}

// Force compile-time check for interface implementation
var _ framework.HookHandler = (*UserPromptSubmitHandler)(nil)

// NewUserPromptSubmitHandler creates a new UserPromptSubmit handler
func NewUserPromptSubmitHandler() *UserPromptSubmitHandler {
	return &UserPromptSubmitHandler{}
}

// ExtractSubject returns the submitted prompt
func (h *UserPromptSubmitHandler) ExtractSubject(ctx context.Context, input types.HookInput) (types.Subject, error) {
	var promptInput UserPromptSubmitInput
	if err := decodeInput(input.RawData, &promptInput); err != nil {
		return types.Subject{}, fmt.Errorf("invalid UserPromptSubmit input; %w", err)
	}

	return types.Subject{
		Event:  userPromptSubmitType,
		Source: "prompt",
		Text:   promptInput.Prompt,
		Metadata: map[string]string{
			"session_id":      promptInput.SessionID,
			"transcript_path": promptInput.TranscriptPath,
			"cwd":             promptInput.CWD,
		},
	}, nil
}

// GetType returns the hook type name
func (h *UserPromptSubmitHandler) GetType() string {
	return userPromptSubmitType
}

// CanHandle returns true if this handler can process the given hook input
func (h *UserPromptSubmitHandler) CanHandle(input types.HookInput) bool {
	return input.Framework == frameworkName && input.HookType == userPromptSubmitType
}

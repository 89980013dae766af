package claude

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/leefowlercu/agent-hook-prompt-flags/internal/framework"
	"github.com/leefowlercu/agent-hook-prompt-flags/pkg/types"
)

const frameworkName = "claude"

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Framework implements the HookFramework interface for Claude Code
type Framework struct {
	handlers     []framework.HookHandler
	outputFormat string
	defaultEvent string
}

// Force compile-time check for interface implementation
var _ framework.HookFramework = (*Framework)(nil)

// NewFramework creates a new Claude framework instance.
// defaultEvent is used for payloads that do not carry hook_event_name.
func NewFramework(outputFormat, defaultEvent string) *Framework {
	if outputFormat == "" {
		outputFormat = OutputText
	}

	f := &Framework{
		handlers:     []framework.HookHandler{},
		outputFormat: outputFormat,
		defaultEvent: defaultEvent,
	}

	// Register default handlers
	f.RegisterHandler(NewUserPromptSubmitHandler())
	f.RegisterHandler(NewPreToolUseHandler())

	return f
}

// RegisterHandler registers a hook handler with the framework
func (f *Framework) RegisterHandler(handler framework.HookHandler) {
	f.handlers = append(f.handlers, handler)
}

// GetHandler returns the appropriate handler for the given input
func (f *Framework) GetHandler(input types.HookInput) (framework.HookHandler, error) {
	for _, handler := range f.handlers {
		if handler.CanHandle(input) {
			return handler, nil
		}
	}
	return nil, fmt.Errorf("no handler found for hook type %q", input.HookType)
}

// ParseInput reads and parses Claude hook data from stdin
func (f *Framework) ParseInput(reader io.Reader) (types.HookInput, error) {
	var rawData map[string]any

	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&rawData); err != nil {
		return types.HookInput{}, fmt.Errorf("failed to decode JSON input; %w", err)
	}
	if rawData == nil {
		return types.HookInput{}, fmt.Errorf("hook input must be a JSON object")
	}

	hookEventName, ok := rawData["hook_event_name"].(string)
	if !ok || hookEventName == "" {
		hookEventName = f.inferEvent(rawData)
	}
	if hookEventName == "" {
		return types.HookInput{}, fmt.Errorf("missing or invalid hook_event_name")
	}

	return types.HookInput{
		Framework: frameworkName,
		HookType:  hookEventName,
		RawData:   rawData,
	}, nil
}

// inferEvent picks the event for payloads without hook_event_name
func (f *Framework) inferEvent(rawData map[string]any) string {
	if f.defaultEvent != "" {
		return f.defaultEvent
	}
	if _, ok := rawData["prompt"]; ok {
		return userPromptSubmitType
	}
	if _, ok := rawData["tool_name"]; ok {
		return preToolUseType
	}
	return ""
}

// FormatOutput formats a decision for Claude Code.
//
// Text output is the content preceded by a blank line; Claude appends plain
// stdout of UserPromptSubmit and PreToolUse hooks to the context.
func (f *Framework) FormatOutput(decision types.Decision, input types.HookInput) ([]byte, error) {
	if !decision.Inject {
		return nil, nil
	}

	if f.outputFormat == OutputText {
		return []byte("\n" + decision.Content + "\n"), nil
	}

	output := HookOutput{
		Continue:       true,
		SuppressOutput: false,
		HookSpecificOutput: &HookSpecificOutput{
			HookEventName:     input.HookType,
			AdditionalContext: decision.Content,
		},
	}

	data, err := json.Marshal(output)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output; %w", err)
	}

	return append(data, '\n'), nil
}

// GetExitCode returns the exit code for a decision.
// Injection never blocks the host, so it is always 0.
func (f *Framework) GetExitCode(decision types.Decision) int {
	return 0
}

// GetName returns the framework name
func (f *Framework) GetName() string {
	return frameworkName
}

// decodeInput converts the raw payload map into a typed input struct
func decodeInput(rawData map[string]any, v any) error {
	data, err := json.Marshal(rawData)
	if err != nil {
		return fmt.Errorf("failed to marshal input data; %w", err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to unmarshal input data; %w", err)
	}

	return nil
}

package framework

import (
	"context"
	"io"

	"github.com/leefowlercu/agent-hook-prompt-flags/pkg/types"
)

// HookFramework defines the interface for hook framework implementations
type HookFramework interface {
	// ParseInput reads and parses hook data from stdin
	ParseInput(reader io.Reader) (types.HookInput, error)

	// FormatOutput renders a decision for the framework; nil means nothing is written
	FormatOutput(decision types.Decision, input types.HookInput) ([]byte, error)

	// GetExitCode returns the appropriate exit code for the framework based on the decision
	GetExitCode(decision types.Decision) int

	// GetHandler returns the handler for the given input
	GetHandler(input types.HookInput) (HookHandler, error)

	// GetName returns the framework name
	GetName() string
}

// HookHandler defines the interface for specific hook type handlers
type HookHandler interface {
	// ExtractSubject extracts the text to test for flag markers
	ExtractSubject(ctx context.Context, input types.HookInput) (types.Subject, error)

	// GetType returns the hook type name
	GetType() string

	// CanHandle returns true if this handler can process the given hook input
	CanHandle(input types.HookInput) bool
}

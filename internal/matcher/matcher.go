package matcher

import (
	"context"

	"github.com/leefowlercu/agent-hook-prompt-flags/pkg/types"
)

// Matcher defines the interface for flag matchers
type Matcher interface {
	// Match tests a subject against the configured flag rules
	Match(ctx context.Context, subject types.Subject) (types.MatchResults, error)

	// GetName returns the matcher name
	GetName() string
}

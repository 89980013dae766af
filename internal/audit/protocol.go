package audit

import (
	"strings"

	"github.com/leefowlercu/agent-hook-prompt-flags/internal/config"
	"github.com/leefowlercu/agent-hook-prompt-flags/pkg/types"
)

// Protocol represents an audit protocol with triggers and strategies
type Protocol struct {
	Name       string
	Triggers   config.TriggerConfig
	Strategies []config.StrategyConfig
}

// NewProtocol creates a new protocol from configuration
func NewProtocol(cfg config.ProtocolConfig) *Protocol {
	return &Protocol{
		Name:       cfg.Name,
		Triggers:   cfg.Triggers,
		Strategies: cfg.Strategies,
	}
}

// ShouldExecute determines if this protocol's triggers match the decision
func (p *Protocol) ShouldExecute(input types.AuditInput) bool {
	// A protocol without on_inject never executes
	if !p.Triggers.OnInject || !input.Decision.Inject {
		return false
	}

	if len(p.Triggers.Rules) == 0 {
		return true
	}

	for _, pattern := range p.Triggers.Rules {
		if matchesPattern(input.Decision.Rule, pattern) {
			return true
		}
	}

	return false
}

// matchesPattern checks if a rule name matches a pattern (supports wildcards).
// Example: "sub*" matches "subagents".
func matchesPattern(name string, pattern string) bool {
	if pattern == "*" {
		return true
	}

	if !strings.Contains(pattern, "*") {
		return name == pattern
	}

	parts := strings.Split(pattern, "*")

	if len(parts[0]) > 0 && !strings.HasPrefix(name, parts[0]) {
		return false
	}

	last := parts[len(parts)-1]
	if len(last) > 0 && !strings.HasSuffix(name, last) {
		return false
	}

	// Middle parts must appear in order between the prefix and suffix
	currentPos := len(parts[0])
	limit := len(name) - len(last)
	if limit < currentPos {
		return false
	}
	for i := 1; i < len(parts)-1; i++ {
		part := parts[i]
		if part == "" {
			continue
		}
		idx := strings.Index(name[currentPos:limit], part)
		if idx == -1 {
			return false
		}
		currentPos += idx + len(part)
	}

	return true
}

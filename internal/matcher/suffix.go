package matcher

import (
	"context"
	"log/slog"
	"slices"

	"github.com/leefowlercu/agent-hook-prompt-flags/internal/config"
	"github.com/leefowlercu/agent-hook-prompt-flags/internal/transcript"
	"github.com/leefowlercu/agent-hook-prompt-flags/pkg/types"
)

const matcherName = "suffix"

// SuffixMatcher matches subjects whose trimmed text ends with a rule's marker
type SuffixMatcher struct {
	rules  []config.FlagRule
	logger *slog.Logger
}

// NewSuffixMatcher creates a matcher over rules, evaluated in order
func NewSuffixMatcher(rules []config.FlagRule, logger *slog.Logger) *SuffixMatcher {
	return &SuffixMatcher{
		rules:  rules,
		logger: logger,
	}
}

// Match returns the first rule registered for the subject's event whose
// marker terminates the subject text
func (m *SuffixMatcher) Match(ctx context.Context, subject types.Subject) (types.MatchResults, error) {
	results := types.MatchResults{}

	if err := ctx.Err(); err != nil {
		results.Error = err
		return results, err
	}

	if subject.Skip {
		m.logger.Debug("subject skipped", "event", subject.Event, "reason", subject.Metadata["skip_reason"])
		return results, nil
	}

	for _, rule := range m.rules {
		if !slices.Contains(rule.Events, subject.Event) {
			continue
		}

		if transcript.HasMarker(subject.Text, rule.Marker) {
			results.Matched = true
			results.Match = types.Match{
				Rule:   rule.Name,
				Marker: rule.Marker,
			}
			m.logger.Debug("flag matched", "rule", rule.Name, "marker", rule.Marker, "event", subject.Event)
			return results, nil
		}
	}

	return results, nil
}

// GetName returns the matcher name
func (m *SuffixMatcher) GetName() string {
	return matcherName
}

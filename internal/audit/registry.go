package audit

import (
	"fmt"
	"sort"
	"sync"

	"github.com/leefowlercu/agent-hook-prompt-flags/internal/config"
)

// Factory builds a strategy from one configured strategy entry
type Factory func(cfg config.StrategyConfig) (Strategy, error)

// Registry maps strategy types to the factories that build them.
// Every configured entry gets its own instance, so two "log" entries
// write to their own files.
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory for strategyType
func (r *Registry) Register(strategyType string, factory Factory) error {
	if strategyType == "" {
		return fmt.Errorf("strategy type cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory for strategy type %q cannot be nil", strategyType)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[strategyType]; exists {
		return fmt.Errorf("strategy type %q is already registered", strategyType)
	}

	r.factories[strategyType] = factory
	return nil
}

// Build creates and validates a strategy instance for one configured entry
func (r *Registry) Build(cfg config.StrategyConfig) (Strategy, error) {
	r.mu.RLock()
	factory, exists := r.factories[cfg.Type]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("strategy type %q not registered; known types: %v", cfg.Type, r.Types())
	}

	strategy, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build %q strategy; %w", cfg.Type, err)
	}
	if strategy == nil {
		return nil, fmt.Errorf("factory for %q returned no strategy", cfg.Type)
	}

	if err := strategy.Validate(); err != nil {
		return nil, fmt.Errorf("%q strategy validation failed; %w", cfg.Type, err)
	}

	return strategy, nil
}

// Types returns the sorted registered strategy types
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for strategyType := range r.factories {
		types = append(types, strategyType)
	}
	sort.Strings(types)

	return types
}

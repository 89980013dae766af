package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/leefowlercu/agent-hook-prompt-flags/internal/config"
	"github.com/leefowlercu/agent-hook-prompt-flags/pkg/types"
)

// Strategy records an injection somewhere outside the hook's stdout
type Strategy interface {
	// Execute records the injection and returns the result
	Execute(ctx context.Context, input types.AuditInput) types.AuditResult

	// GetType returns the type identifier for this strategy (e.g., "log")
	GetType() string

	// Validate checks if the strategy configuration is valid
	Validate() error
}

// Engine runs the first audit protocol whose triggers match a decision
type Engine struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *Registry
}

// NewEngine creates an audit engine with an empty strategy registry
func NewEngine(cfg *config.Config, logger *slog.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		logger:   logger,
		registry: NewRegistry(),
	}
}

// RegisterFactory makes strategyType available to protocol configuration
func (e *Engine) RegisterFactory(strategyType string, factory Factory) error {
	return e.registry.Register(strategyType, factory)
}

// Execute audits one decision. Results are returned in configuration order.
func (e *Engine) Execute(ctx context.Context, input types.AuditInput) types.AuditResults {
	if !e.cfg.Audit.Enabled {
		e.logger.Debug("audit disabled, skipping")
		return types.AuditResults{}
	}

	protocol := e.selectProtocol(input)
	if protocol == nil {
		e.logger.Debug("no audit protocol matched triggers", "rule", input.Decision.Rule)
		return types.AuditResults{}
	}

	e.logger.Info("matched audit protocol", "protocol", protocol.Name, "rule", input.Decision.Rule)

	if e.cfg.Audit.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(e.cfg.Audit.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	start := time.Now()
	results := e.run(ctx, protocol, input)
	elapsed := time.Since(start)

	e.logger.Info("audit protocol completed",
		"protocol", protocol.Name,
		"strategies", len(results),
		"duration", elapsed)

	return types.AuditResults{
		Executed:      true,
		Results:       results,
		TotalDuration: elapsed,
		ProtocolName:  protocol.Name,
	}
}

func (e *Engine) selectProtocol(input types.AuditInput) *Protocol {
	for _, protocolCfg := range e.cfg.Audit.Protocols {
		if p := NewProtocol(protocolCfg); p.ShouldExecute(input) {
			return p
		}
	}
	return nil
}

// run builds one instance per configured strategy entry and executes them
// concurrently. Each goroutine owns one slot of the result slice.
func (e *Engine) run(ctx context.Context, protocol *Protocol, input types.AuditInput) []types.AuditResult {
	results := make([]types.AuditResult, len(protocol.Strategies))
	if len(results) == 0 {
		e.logger.Warn("protocol has no strategies", "protocol", protocol.Name)
		return results
	}

	var wg sync.WaitGroup
	for i, strategyCfg := range protocol.Strategies {
		strategy, err := e.registry.Build(strategyCfg)
		if err != nil {
			e.logger.Warn("failed to build audit strategy", "protocol", protocol.Name, "index", i, "error", err)
			results[i] = types.AuditResult{
				StrategyType: strategyCfg.Type,
				Message:      fmt.Sprintf("Strategy %d (%s) unavailable: %v", i, strategyCfg.Type, err),
				Error:        err,
			}
			continue
		}

		wg.Add(1)
		go func(slot *types.AuditResult) {
			defer wg.Done()
			*slot = e.executeStrategy(ctx, strategy, input)
		}(&results[i])
	}
	wg.Wait()

	return results
}

// executeStrategy runs a single strategy, turning a panic into a failed result
func (e *Engine) executeStrategy(ctx context.Context, strategy Strategy, input types.AuditInput) (result types.AuditResult) {
	strategyType := strategy.GetType()
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("strategy panicked", "type", strategyType, "panic", r)
			result = types.AuditResult{
				Message: "Strategy panicked during execution",
				Error:   fmt.Errorf("panic: %v", r),
			}
		}
		result.StrategyType = strategyType
		result.Duration = time.Since(start)
	}()

	result = strategy.Execute(ctx, input)

	e.logger.Debug("strategy completed",
		"type", strategyType,
		"success", result.Success,
		"duration", time.Since(start))

	return result
}

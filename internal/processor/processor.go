package processor

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	charmlog "github.com/charmbracelet/log"

	"github.com/leefowlercu/agent-hook-prompt-flags/internal/audit"
	"github.com/leefowlercu/agent-hook-prompt-flags/internal/audit/strategies"
	"github.com/leefowlercu/agent-hook-prompt-flags/internal/config"
	"github.com/leefowlercu/agent-hook-prompt-flags/internal/decision"
	"github.com/leefowlercu/agent-hook-prompt-flags/internal/framework"
	"github.com/leefowlercu/agent-hook-prompt-flags/internal/framework/claude"
	"github.com/leefowlercu/agent-hook-prompt-flags/internal/matcher"
	"github.com/leefowlercu/agent-hook-prompt-flags/pkg/types"
)

// Options carries per-invocation settings from the command line
type Options struct {
	Framework    string // Framework name (e.g., "claude")
	DefaultEvent string // Event assumed for payloads without hook_event_name
	BaseDir      string // Directory relative content files resolve against
}

// Processor orchestrates the entire hook processing flow
type Processor struct {
	cfg            *config.Config
	logger         *slog.Logger
	matcher        matcher.Matcher
	decisionEngine *decision.Engine
	auditEngine    *audit.Engine
}

// NewProcessor creates a new processor instance
func NewProcessor(cfg *config.Config, logger *slog.Logger, baseDir string) *Processor {
	auditEngine := audit.NewEngine(cfg, logger)
	registerAuditStrategies(auditEngine, logger)

	return &Processor{
		cfg:            cfg,
		logger:         logger,
		matcher:        matcher.NewSuffixMatcher(cfg.Flags.Rules, logger),
		decisionEngine: decision.NewEngine(cfg, baseDir),
		auditEngine:    auditEngine,
	}
}

// registerAuditStrategies makes the built-in strategy types available to audit protocols
func registerAuditStrategies(engine *audit.Engine, logger *slog.Logger) {
	err := engine.RegisterFactory("log", func(cfg config.StrategyConfig) (audit.Strategy, error) {
		strategy, err := strategies.NewLogStrategy(cfg)
		if err != nil {
			return nil, err
		}
		return strategy, nil
	})
	if err != nil {
		logger.Warn("failed to register log strategy", "error", err)
	}
}

// Process is the main entry point that reads from stdin and writes to stdout.
// It returns the exit code the framework wants alongside any error.
func Process(stdin io.Reader, stdout io.Writer, opts Options) (int, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return 1, fmt.Errorf("failed to load configuration; %w", err)
	}

	logger := setupLogger(cfg)

	if opts.Framework == "" {
		opts.Framework = cfg.Framework
	}

	if opts.BaseDir == "" {
		baseDir, err := decision.ExecutableDir()
		if err != nil {
			logger.Warn("failed to resolve executable directory", "error", err)
		}
		opts.BaseDir = baseDir
	}

	proc := NewProcessor(cfg, logger, opts.BaseDir)

	ctx := context.Background()
	return proc.ProcessHook(ctx, stdin, stdout, opts)
}

// ProcessHook processes a single hook invocation
func (p *Processor) ProcessHook(ctx context.Context, stdin io.Reader, stdout io.Writer, opts Options) (int, error) {
	p.logger.Info("processing hook request", "framework", opts.Framework)

	framework.RegisterFramework("claude", claude.NewFramework(p.cfg.Output.Format, opts.DefaultEvent))

	fw, err := framework.GetFramework(opts.Framework)
	if err != nil {
		available := framework.ListFrameworks()
		return 1, fmt.Errorf("failed to get framework %q; available frameworks: %v", opts.Framework, available)
	}

	rawInput, err := io.ReadAll(stdin)
	if err != nil {
		p.logger.Error("failed to read stdin", "error", err)
		return 1, fmt.Errorf("failed to read stdin; %w", err)
	}

	hookInput, err := fw.ParseInput(bytes.NewReader(rawInput))
	if err != nil {
		p.logger.Error("failed to parse input", "error", err)
		return 1, fmt.Errorf("failed to parse input; %w", err)
	}

	p.logger.Info("parsed hook input",
		"framework", hookInput.Framework,
		"hook_type", hookInput.HookType)

	handler, err := fw.GetHandler(hookInput)
	if err != nil {
		// Events without a handler are passed through untouched
		p.logger.Info("no handler for hook type, nothing to do", "hook_type", hookInput.HookType)
		return 0, nil
	}

	p.logger.Debug("using handler", "type", handler.GetType())

	subject, err := handler.ExtractSubject(ctx, hookInput)
	if err != nil {
		p.logger.Error("failed to extract subject", "error", err)
		return 1, fmt.Errorf("failed to extract subject; %w", err)
	}

	p.logger.Debug("extracted subject",
		"event", subject.Event,
		"source", subject.Source,
		"skip", subject.Skip,
		"length", len(subject.Text))

	matchResults, err := p.matcher.Match(ctx, subject)
	if err != nil {
		p.logger.Warn("flag matching failed", "error", err)
	}

	finalDecision, err := p.decisionEngine.Evaluate(ctx, matchResults)
	if err != nil {
		p.logger.Error("failed to make decision", "error", err)
		return 1, fmt.Errorf("failed to make decision; %w", err)
	}

	p.logger.Info("decision made",
		"inject", finalDecision.Inject,
		"rule", finalDecision.Rule,
		"marker", finalDecision.Marker)
	if contentErr, ok := finalDecision.Metadata["content_error"]; ok {
		p.logger.Warn("flag matched but content unavailable", "rule", finalDecision.Rule, "error", contentErr)
	}

	auditResults := p.auditEngine.Execute(ctx, types.AuditInput{
		HookInput: hookInput,
		Subject:   subject,
		Decision:  finalDecision,
		Timestamp: time.Now(),
		Framework: fw.GetName(),
	})
	for _, result := range auditResults.Results {
		if !result.Success {
			p.logger.Warn("audit strategy failed", "type", result.StrategyType, "message", result.Message)
		}
	}

	output, err := fw.FormatOutput(finalDecision, hookInput)
	if err != nil {
		p.logger.Error("failed to format output", "error", err)
		return 1, fmt.Errorf("failed to format output; %w", err)
	}

	if len(output) > 0 {
		if _, err := stdout.Write(output); err != nil {
			p.logger.Error("failed to write output", "error", err)
			return 1, fmt.Errorf("failed to write output; %w", err)
		}
	}

	p.logger.Info("hook processing completed successfully")

	return fw.GetExitCode(finalDecision), nil
}

// setupLogger creates and configures the logger based on configuration.
// Logs are written to file only (not stderr) to avoid interfering with hook framework IO.
func setupLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.Logging.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var output io.Writer
	if cfg.Logging.LogFile != "" {
		logFile, err := openLogFile(cfg.Logging.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file %s: %v\n", cfg.Logging.LogFile, err)
			output = io.Discard
		} else {
			output = logFile
		}
	} else {
		output = io.Discard
	}

	return slog.New(newHandler(output, cfg.Logging.Format, level))
}

// newHandler returns a JSON handler or a charmbracelet text handler
func newHandler(output io.Writer, format string, level slog.Level) slog.Handler {
	if format == "json" {
		return slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level})
	}

	logger := charmlog.NewWithOptions(output, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "hook-prompt-flags",
	})
	logger.SetLevel(charmlog.Level(level))

	return logger
}

// openLogFile opens or creates a log file for writing
func openLogFile(path string) (*os.File, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory; %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory; %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file; %w", err)
	}

	return file, nil
}

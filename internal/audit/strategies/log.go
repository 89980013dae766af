package strategies

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/leefowlercu/agent-hook-prompt-flags/internal/config"
	"github.com/leefowlercu/agent-hook-prompt-flags/pkg/types"
)

// LogStrategy appends one line per injection to a file
type LogStrategy struct {
	logFile string // Path to log file (supports ~ expansion)
	format  string // "json" or "text"
}

// NewLogStrategy creates a new log strategy from configuration
func NewLogStrategy(cfg config.StrategyConfig) (*LogStrategy, error) {
	logFile, ok := cfg.Config["log_file"].(string)
	if !ok || logFile == "" {
		return nil, fmt.Errorf("log_file is required")
	}

	format, ok := cfg.Config["format"].(string)
	if !ok || format == "" {
		format = "json"
	}

	strategy := &LogStrategy{
		logFile: logFile,
		format:  format,
	}

	if err := strategy.Validate(); err != nil {
		return nil, err
	}

	return strategy, nil
}

// Execute writes the injection record to the configured log file
func (s *LogStrategy) Execute(ctx context.Context, input types.AuditInput) types.AuditResult {
	if err := ctx.Err(); err != nil {
		return s.failure("Log operation cancelled", err)
	}

	logPath, err := expandPath(s.logFile)
	if err != nil {
		return s.failure(fmt.Sprintf("Failed to expand log path: %v", err), err)
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return s.failure(fmt.Sprintf("Failed to create log directory: %v", err), err)
	}

	var content string
	switch s.format {
	case "json":
		content, err = s.formatJSON(input)
	case "text":
		content = s.formatText(input)
	default:
		err = fmt.Errorf("unsupported format: %s", s.format)
	}
	if err != nil {
		return s.failure(fmt.Sprintf("Failed to format log content: %v", err), err)
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return s.failure(fmt.Sprintf("Failed to open log file: %v", err), err)
	}
	defer file.Close()

	if _, err := file.WriteString(content + "\n"); err != nil {
		return s.failure(fmt.Sprintf("Failed to write to log file: %v", err), err)
	}

	return types.AuditResult{
		StrategyType: s.GetType(),
		Success:      true,
		Message:      fmt.Sprintf("Logged %s injection to %s", input.Decision.Rule, filepath.Base(logPath)),
		Metadata: map[string]any{
			"log_file": logPath,
			"format":   s.format,
		},
	}
}

// GetType returns the strategy type identifier
func (s *LogStrategy) GetType() string {
	return "log"
}

// Validate checks if the strategy configuration is valid
func (s *LogStrategy) Validate() error {
	if s.logFile == "" {
		return fmt.Errorf("log_file cannot be empty")
	}

	if s.format != "json" && s.format != "text" {
		return fmt.Errorf("format must be 'json' or 'text', got: %s", s.format)
	}

	return nil
}

func (s *LogStrategy) failure(message string, err error) types.AuditResult {
	return types.AuditResult{
		StrategyType: s.GetType(),
		Success:      false,
		Message:      message,
		Error:        err,
	}
}

// formatJSON formats the log entry as JSON
func (s *LogStrategy) formatJSON(input types.AuditInput) (string, error) {
	logEntry := map[string]any{
		"timestamp":  input.Timestamp.Format(time.RFC3339),
		"framework":  input.Framework,
		"event":      input.Subject.Event,
		"session_id": input.Subject.Metadata["session_id"],
		"rule":       input.Decision.Rule,
		"marker":     input.Decision.Marker,
		"source":     input.Subject.Source,
		"length":     len(input.Decision.Content),
	}

	data, err := json.Marshal(logEntry)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON; %w", err)
	}

	return string(data), nil
}

// formatText formats the log entry as a single human-readable line
func (s *LogStrategy) formatText(input types.AuditInput) string {
	return fmt.Sprintf("[%s] Framework: %s | Event: %s | Session: %s | Rule: %s (%s) | Source: %s",
		input.Timestamp.Format("2006-01-02 15:04:05"),
		input.Framework,
		input.Subject.Event,
		input.Subject.Metadata["session_id"],
		input.Decision.Rule,
		input.Decision.Marker,
		input.Subject.Source)
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory; %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

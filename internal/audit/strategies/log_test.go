package strategies

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/leefowlercu/agent-hook-prompt-flags/internal/config"
	"github.com/leefowlercu/agent-hook-prompt-flags/pkg/types"
)

// Helper function to create a test AuditInput
func createTestInput() types.AuditInput {
	return types.AuditInput{
		HookInput: types.HookInput{
			Framework: "claude",
			HookType:  "UserPromptSubmit",
			RawData: map[string]any{
				"session_id": "test-session-123",
			},
		},
		Subject: types.Subject{
			Event:  "UserPromptSubmit",
			Source: "prompt",
			Text:   "please summarize -d",
			Metadata: map[string]string{
				"session_id": "test-session-123",
			},
		},
		Decision: types.Decision{
			Inject:  true,
			Rule:    "digest",
			Marker:  "-d",
			Content: "think harder. answer in short. keep it simple.",
		},
		Timestamp: time.Date(2025, 10, 16, 14, 30, 45, 0, time.UTC),
		Framework: "claude",
	}
}

func TestNewLogStrategy_ValidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StrategyConfig
	}{
		{
			name: "valid json config",
			cfg: config.StrategyConfig{
				Type:   "log",
				Config: map[string]any{"log_file": "/tmp/test.log", "format": "json"},
			},
		},
		{
			name: "valid text config",
			cfg: config.StrategyConfig{
				Type:   "log",
				Config: map[string]any{"log_file": "/tmp/test.log", "format": "text"},
			},
		},
		{
			name: "default format",
			cfg: config.StrategyConfig{
				Type:   "log",
				Config: map[string]any{"log_file": "/tmp/test.log"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			strategy, err := NewLogStrategy(tt.cfg)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if strategy == nil {
				t.Fatal("expected strategy but got nil")
			}
		})
	}
}

func TestNewLogStrategy_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.StrategyConfig
		errMsg string
	}{
		{
			name: "missing log_file",
			cfg: config.StrategyConfig{
				Type:   "log",
				Config: map[string]any{"format": "json"},
			},
			errMsg: "log_file is required",
		},
		{
			name: "empty log_file",
			cfg: config.StrategyConfig{
				Type:   "log",
				Config: map[string]any{"log_file": "", "format": "json"},
			},
			errMsg: "log_file is required",
		},
		{
			name: "invalid format",
			cfg: config.StrategyConfig{
				Type:   "log",
				Config: map[string]any{"log_file": "/tmp/test.log", "format": "xml"},
			},
			errMsg: "format must be 'json' or 'text'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLogStrategy(tt.cfg)
			if err == nil {
				t.Fatal("expected error but got none")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("expected error containing %q, got: %v", tt.errMsg, err)
			}
		})
	}
}

func TestLogStrategy_GetType(t *testing.T) {
	strategy := &LogStrategy{logFile: "/tmp/test.log", format: "json"}

	if got := strategy.GetType(); got != "log" {
		t.Errorf("GetType() = %q, want %q", got, "log")
	}
}

func TestLogStrategy_ExecuteJSON(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")
	strategy := &LogStrategy{logFile: logFile, format: "json"}

	result := strategy.Execute(context.Background(), createTestInput())

	if !result.Success {
		t.Fatalf("Execute() failed: %v", result.Error)
	}
	if !strings.Contains(result.Message, "Logged digest injection") {
		t.Errorf("Message = %q, want to contain 'Logged digest injection'", result.Message)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	var logEntry map[string]any
	if err := json.Unmarshal(data, &logEntry); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}

	if logEntry["framework"] != "claude" {
		t.Errorf("framework = %v, want 'claude'", logEntry["framework"])
	}
	if logEntry["session_id"] != "test-session-123" {
		t.Errorf("session_id = %v, want 'test-session-123'", logEntry["session_id"])
	}
	if logEntry["rule"] != "digest" {
		t.Errorf("rule = %v, want 'digest'", logEntry["rule"])
	}
	if logEntry["marker"] != "-d" {
		t.Errorf("marker = %v, want '-d'", logEntry["marker"])
	}
	if logEntry["timestamp"] != "2025-10-16T14:30:45Z" {
		t.Errorf("timestamp = %v", logEntry["timestamp"])
	}
}

func TestLogStrategy_ExecuteText(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")
	strategy := &LogStrategy{logFile: logFile, format: "text"}

	result := strategy.Execute(context.Background(), createTestInput())
	if !result.Success {
		t.Fatalf("Execute() failed: %v", result.Error)
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"[2025-10-16 14:30:45]",
		"Framework: claude",
		"Event: UserPromptSubmit",
		"Session: test-session-123",
		"Rule: digest (-d)",
		"Source: prompt",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("log line missing %q: %s", want, content)
		}
	}
}

func TestLogStrategy_FileCreation(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "nested", "dir", "test.log")
	strategy := &LogStrategy{logFile: logFile, format: "json"}

	result := strategy.Execute(context.Background(), createTestInput())
	if !result.Success {
		t.Fatalf("Execute() failed: %v", result.Error)
	}

	if _, err := os.Stat(logFile); os.IsNotExist(err) {
		t.Error("log file was not created")
	}
}

func TestLogStrategy_AppendMode(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")
	strategy := &LogStrategy{logFile: logFile, format: "json"}

	ctx := context.Background()
	input := createTestInput()

	for i := 0; i < 2; i++ {
		if result := strategy.Execute(ctx, input); !result.Success {
			t.Fatalf("Execute() #%d failed: %v", i+1, result.Error)
		}
	}

	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for i, line := range lines {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Errorf("line %d is not valid JSON: %v", i+1, err)
		}
	}
}

func TestLogStrategy_CancelledContext(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")
	strategy := &LogStrategy{logFile: logFile, format: "json"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := strategy.Execute(ctx, createTestInput())
	if result.Success {
		t.Error("expected failure for cancelled context")
	}
	if _, err := os.Stat(logFile); !os.IsNotExist(err) {
		t.Error("log file should not be created for cancelled context")
	}
}

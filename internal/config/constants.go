package config

import (
	"os"
	"path/filepath"
)

// Hook event names the default rules apply to
const (
	EventUserPromptSubmit = "UserPromptSubmit"
	EventPreToolUse       = "PreToolUse"
)

// DefaultConfig provides default configuration values
var DefaultConfig = Config{
	Framework: "claude",
	Logging: LoggingConfig{
		Level:   "info",
		Format:  "json",
		LogFile: "", // Empty = logging disabled, set path to enable file logging
	},
	Output: OutputConfig{
		Format: "text",
	},
	Flags: FlagsConfig{
		Rules: DefaultRules,
	},
	Audit: AuditConfig{
		Enabled:        false,
		TimeoutSeconds: 5,
	},
}

// DefaultRules reproduce the stock prompt flags
var DefaultRules = []FlagRule{
	{
		Name:   "subagents",
		Marker: "-s",
		Events: []string{EventUserPromptSubmit},
		Text: "Spawn subagents to implement this task. " +
			"Consider parallelizing the implementation and use specialized agents, if applicable.",
	},
	{
		Name:        "orchestrator",
		Marker:      "-s",
		Events:      []string{EventPreToolUse},
		ContentFile: filepath.Join("..", "context", "ORCHESTRATOR.md"),
	},
	{
		Name:   "digest",
		Marker: "-d",
		Events: []string{EventUserPromptSubmit},
		Text:   "think harder. answer in short. keep it simple.",
	},
	{
		Name:   "explain",
		Marker: "-e",
		Events: []string{EventUserPromptSubmit},
		Text: "above are the relevant logs - your job is to:\n" +
			"  think harder about what these logs say\n" +
			"  and give me a simpler & short explanation\n" +
			"  DO NOT JUMP TO CONCLUSIONS!! DO NOT MAKE ASSUMPTIONS! QUIET YOUR EGO\n" +
			"  AND ASSUME YOU KNOW NOTHING.\n" +
			"then, after you’ve explained the logs to me, suggest what the next step might be & why\n" +
			"answer in short",
	},
	{
		Name:   "ultrathink",
		Marker: "-u",
		Events: []string{EventUserPromptSubmit},
		Text: "Use the maximum amount of ultrathink. Take all the time you need. " +
			"It's much better if you do too much research and thinking than not enough.",
	},
}

// GetDefaultConfigDir returns the default configuration directory
func GetDefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".agent-hooks/prompt-flags"
	}
	return filepath.Join(home, ".agent-hooks/prompt-flags")
}

// GetDefaultConfigPath returns the default configuration file path
func GetDefaultConfigPath() string {
	return filepath.Join(GetDefaultConfigDir(), "config.yaml")
}

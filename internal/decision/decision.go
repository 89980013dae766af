package decision

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/leefowlercu/agent-hook-prompt-flags/internal/config"
	"github.com/leefowlercu/agent-hook-prompt-flags/pkg/types"
)

// Engine turns flag matches into injection decisions
type Engine struct {
	cfg     *config.Config
	baseDir string
}

// NewEngine creates a new decision engine.
// Relative content_file paths are resolved against baseDir.
func NewEngine(cfg *config.Config, baseDir string) *Engine {
	return &Engine{
		cfg:     cfg,
		baseDir: baseDir,
	}
}

// Evaluate evaluates match results and produces a decision.
// A content file that cannot be read yields a no-op decision, never an error.
func (e *Engine) Evaluate(ctx context.Context, results types.MatchResults) (types.Decision, error) {
	decision := types.Decision{
		Inject:   false,
		Metadata: make(map[string]any),
	}

	if results.Error != nil {
		decision.Metadata["match_error"] = results.Error.Error()
		return decision, nil
	}

	if !results.Matched {
		return decision, nil
	}

	rule, ok := e.findRule(results.Match.Rule)
	if !ok {
		return decision, fmt.Errorf("matched rule %q is not configured", results.Match.Rule)
	}

	decision.Rule = rule.Name
	decision.Marker = results.Match.Marker

	content := rule.Text
	if rule.ContentFile != "" {
		path, err := e.resolvePath(rule.ContentFile)
		if err != nil {
			decision.Metadata["content_error"] = err.Error()
			return decision, nil
		}
		decision.Metadata["content_file"] = path

		data, err := os.ReadFile(path)
		if err != nil {
			decision.Metadata["content_error"] = err.Error()
			return decision, nil
		}
		content = string(data)
	}

	content = strings.TrimRightFunc(content, unicode.IsSpace)
	if content == "" {
		decision.Metadata["content_error"] = "content is empty"
		return decision, nil
	}

	decision.Inject = true
	decision.Content = content

	return decision, nil
}

// findRule looks up a configured rule by name
func (e *Engine) findRule(name string) (config.FlagRule, bool) {
	for _, rule := range e.cfg.Flags.Rules {
		if rule.Name == name {
			return rule, true
		}
	}
	return config.FlagRule{}, false
}

// resolvePath expands ~ and anchors relative paths at the engine's base directory
func (e *Engine) resolvePath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory; %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}

	if filepath.IsAbs(path) || e.baseDir == "" {
		return path, nil
	}

	return filepath.Join(e.baseDir, path), nil
}

// ExecutableDir returns the directory of the running binary with symlinks resolved
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable; %w", err)
	}

	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable path; %w", err)
	}

	return filepath.Dir(resolved), nil
}

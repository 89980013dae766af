package types

import "time"

// HookInput represents parsed input from a hook framework
type HookInput struct {
	Framework string         // Framework name (e.g., "claude")
	HookType  string         // Hook type (e.g., "UserPromptSubmit")
	RawData   map[string]any // Raw JSON data from stdin
}

// Subject is the text a handler extracted for flag matching
type Subject struct {
	Event    string            // Hook event the text came from
	Source   string            // "prompt" or "transcript"
	Text     string            // The text whose suffix is tested
	Skip     bool              // Handler suppressed matching for this event
	Metadata map[string]string // Additional context
}

// Match is a flag rule whose marker terminates the subject text
type Match struct {
	Rule   string // Rule name (e.g., "subagents")
	Marker string // Marker that matched (e.g., "-s")
}

// MatchResults contains the result of testing a subject against the flag rules
type MatchResults struct {
	Matched bool
	Match   Match
	Error   error
}

// Decision represents what the hook injects into the host's context
type Decision struct {
	Inject   bool           // Whether any content is emitted
	Rule     string         // Rule that produced the content
	Marker   string         // Marker that triggered the rule
	Content  string         // Instruction text, trailing whitespace trimmed
	Metadata map[string]any // Additional metadata for logging and auditing
}

// AuditInput contains all context needed for audit strategies
type AuditInput struct {
	HookInput HookInput // Original hook input
	Subject   Subject   // Text that was matched
	Decision  Decision  // Decision made by the decision engine
	Timestamp time.Time // When the audit is being executed
	Framework string    // Framework name for context
}

// AuditResult represents the result of executing a single audit strategy
type AuditResult struct {
	StrategyType string         // Type of strategy that executed (e.g., "log")
	Success      bool           // Whether the strategy executed successfully
	Message      string         // Summary message
	Duration     time.Duration  // How long the strategy took to execute
	Metadata     map[string]any // Additional metadata from the strategy
	Error        error          // Error if the strategy failed
}

// AuditResults represents the aggregate results from executing an audit protocol
type AuditResults struct {
	Executed      bool          // Whether an audit protocol was executed
	Results       []AuditResult // Individual strategy results
	TotalDuration time.Duration // Total time for all strategies
	ProtocolName  string        // Name of the protocol that was executed
}

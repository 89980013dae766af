package config

// Config represents the application configuration
type Config struct {
	Framework string        `mapstructure:"framework" yaml:"framework"`
	Logging   LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Output    OutputConfig  `mapstructure:"output" yaml:"output"`
	Flags     FlagsConfig   `mapstructure:"flags" yaml:"flags"`
	Audit     AuditConfig   `mapstructure:"audit" yaml:"audit"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level" yaml:"level"`
	Format  string `mapstructure:"format" yaml:"format"`
	LogFile string `mapstructure:"log_file" yaml:"log_file"`
}

// OutputConfig controls how injected content is written for the host
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"` // "text" or "json"
}

// FlagsConfig holds the ordered flag rules; the first matching rule wins
type FlagsConfig struct {
	Rules []FlagRule `mapstructure:"rules" yaml:"rules"`
}

// FlagRule maps a trailing marker on a hook event to injected content.
// Exactly one of Text or ContentFile is set.
type FlagRule struct {
	Name        string   `mapstructure:"name" yaml:"name"`
	Marker      string   `mapstructure:"marker" yaml:"marker"`
	Events      []string `mapstructure:"events" yaml:"events"`
	Text        string   `mapstructure:"text" yaml:"text"`
	ContentFile string   `mapstructure:"content_file" yaml:"content_file"`
}

// AuditConfig contains configuration for recording injections
type AuditConfig struct {
	Enabled        bool             `mapstructure:"enabled" yaml:"enabled"`
	TimeoutSeconds int              `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	Protocols      []ProtocolConfig `mapstructure:"protocols" yaml:"protocols"`
}

// ProtocolConfig defines when an audit protocol runs and which strategies it executes
type ProtocolConfig struct {
	Name       string           `mapstructure:"name" yaml:"name"`
	Triggers   TriggerConfig    `mapstructure:"triggers" yaml:"triggers"`
	Strategies []StrategyConfig `mapstructure:"strategies" yaml:"strategies"`
}

// TriggerConfig contains the conditions under which a protocol runs
type TriggerConfig struct {
	OnInject bool     `mapstructure:"on_inject" yaml:"on_inject"`
	Rules    []string `mapstructure:"rules" yaml:"rules"` // Rule name patterns, "*" wildcards allowed
}

// StrategyConfig contains the type and free-form settings of one audit strategy
type StrategyConfig struct {
	Type   string         `mapstructure:"type" yaml:"type"`
	Config map[string]any `mapstructure:"config" yaml:"config"`
}

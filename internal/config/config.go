package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// InitConfig initializes the configuration using Viper.
// A non-empty configPath replaces the default search locations.
func InitConfig(configPath string) error {
	// Load .env file if it exists (fail silently if not found)
	loadEnvFiles()

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(GetDefaultConfigDir())
		viper.AddConfigPath(".")
	}

	// Set defaults
	viper.SetDefault("framework", DefaultConfig.Framework)
	viper.SetDefault("logging.level", DefaultConfig.Logging.Level)
	viper.SetDefault("logging.format", DefaultConfig.Logging.Format)
	viper.SetDefault("logging.log_file", DefaultConfig.Logging.LogFile)
	viper.SetDefault("output.format", DefaultConfig.Output.Format)
	viper.SetDefault("audit.enabled", DefaultConfig.Audit.Enabled)
	viper.SetDefault("audit.timeout_seconds", DefaultConfig.Audit.TimeoutSeconds)

	// Enable environment variable overrides
	viper.SetEnvPrefix("HOOK_PROMPT_FLAGS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Read config file (it's okay if the default one doesn't exist)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("failed to read config; %w", err)
		}
	}

	return nil
}

// GetConfig returns the current configuration
func GetConfig() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config; %w", err)
	}

	// A config file without a rules list keeps the stock flags
	if len(cfg.Flags.Rules) == 0 {
		cfg.Flags.Rules = append([]FlagRule(nil), DefaultRules...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration; %w", err)
	}

	return &cfg, nil
}

// Validate checks the flag rules and output settings
func (c *Config) Validate() error {
	if c.Output.Format != "text" && c.Output.Format != "json" {
		return fmt.Errorf("output.format must be 'text' or 'json', got: %s", c.Output.Format)
	}

	for i, rule := range c.Flags.Rules {
		if rule.Marker == "" {
			return fmt.Errorf("flags.rules[%d]: marker cannot be empty", i)
		}
		if len(rule.Events) == 0 {
			return fmt.Errorf("flags.rules[%d]: at least one event is required", i)
		}
		if (rule.Text == "") == (rule.ContentFile == "") {
			return fmt.Errorf("flags.rules[%d]: exactly one of text or content_file must be set", i)
		}
	}

	return nil
}

// loadEnvFiles loads environment variables from .env files
// It tries multiple locations and fails silently if files don't exist
func loadEnvFiles() {
	locations := []string{
		".env",
		filepath.Join(GetDefaultConfigDir(), ".env"),
	}

	// .env.local overrides .env
	localLocations := []string{
		".env.local",
		filepath.Join(GetDefaultConfigDir(), ".env.local"),
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			_ = godotenv.Load(location) // Fail silently
		}
	}

	for _, location := range localLocations {
		if _, err := os.Stat(location); err == nil {
			_ = godotenv.Overload(location) // Fail silently
		}
	}
}

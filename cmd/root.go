package cmd

import (
	"fmt"
	"os"

	"github.com/leefowlercu/agent-hook-prompt-flags/internal/config"
	"github.com/leefowlercu/agent-hook-prompt-flags/internal/processor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "hook-prompt-flags",
	Short: "Prompt flag hooks for AI agent frameworks",
	Long: "\nhook-prompt-flags is a CLI tool that integrates with AI agent hook frameworks " +
		"to expand short trailing prompt flags (-s, -d, -e, -u) into full instructions.\n\n" +
		"It reads hook data from stdin as JSON and, when the prompt or the last user message " +
		"in the session transcript ends with a configured flag, prints the matching instruction " +
		"to stdout. Logging goes to a file only to keep stdout clean for hook framework communication.",
	Args:              cobra.NoArgs,
	PersistentPreRunE: runInit,
	RunE:              runHook,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", fmt.Sprintf("Path to configuration file (default: %s)", config.GetDefaultConfigPath()))
	rootCmd.Flags().String("framework", config.DefaultConfig.Framework, "Hook framework to use (e.g., 'claude')")
	rootCmd.Flags().String("event", "", "Hook event to assume when the payload has no hook_event_name (e.g., 'PreToolUse')")
	rootCmd.Flags().String("log-level", config.DefaultConfig.Logging.Level, "Logging level (debug, info, warn, error)")
	rootCmd.Flags().String("log-format", config.DefaultConfig.Logging.Format, "Logging format (json, text)")
	rootCmd.Flags().String("log-file", config.DefaultConfig.Logging.LogFile, "Log file path (logging is disabled when empty)")
	rootCmd.Flags().String("output", config.DefaultConfig.Output.Format, "Output format (text, json)")

	// Bind flags to viper
	viper.BindPFlag("framework", rootCmd.Flags().Lookup("framework"))
	viper.BindPFlag("logging.level", rootCmd.Flags().Lookup("log-level"))
	viper.BindPFlag("logging.format", rootCmd.Flags().Lookup("log-format"))
	viper.BindPFlag("logging.log_file", rootCmd.Flags().Lookup("log-file"))
	viper.BindPFlag("output.format", rootCmd.Flags().Lookup("output"))

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cleanupCmd)

	// Enable --version flag on root command
	rootCmd.SetVersionTemplate("hook-prompt-flags version {{.Version}}\n")
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	err := config.InitConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize configuration; %w", err)
	}

	return nil
}

func runHook(cmd *cobra.Command, args []string) error {
	event, _ := cmd.Flags().GetString("event")

	code, err := processor.Process(os.Stdin, os.Stdout, processor.Options{
		Framework:    viper.GetString("framework"),
		DefaultEvent: event,
	})
	if err != nil {
		return err
	}

	if code != 0 {
		os.Exit(code)
	}

	return nil
}

// Execute runs the root command. Errors go to stderr; stdout belongs to the host.
func Execute() error {
	rootCmd.Version = version
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "hook-prompt-flags error: %v\n", err)
		return err
	}

	return nil
}

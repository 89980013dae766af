package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/leefowlercu/agent-hook-prompt-flags/internal/cleanup"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("78"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Remove conversation history from ~/.claude.json",
	Long: "Clean up a bloated ~/.claude.json by removing per-project conversation history " +
		"while preserving all configuration settings. A timestamped backup is written next to the file first.",
	Args: cobra.NoArgs,
	RunE: runCleanup,
}

func init() {
	cleanupCmd.Flags().String("file", "", "Config file to clean (default: ~/.claude.json)")
	cleanupCmd.Flags().BoolP("yes", "y", false, "Clean without asking, even when the file is already small")
}

func runCleanup(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		var err error
		if path, err = cleanup.DefaultPath(); err != nil {
			return err
		}
	}
	yes, _ := cmd.Flags().GetBool("yes")

	fmt.Fprintln(out, titleStyle.Render("🧹 Claude Code JSON Cleaner"))
	fmt.Fprintln(out, strings.Repeat("=", 40))

	size, err := cleanup.FileSize(path)
	if err != nil {
		if errors.Is(err, cleanup.ErrNotFound) {
			fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("❌ %s not found", path)))
		}
		return err
	}

	if size < cleanup.SmallFileThreshold {
		fmt.Fprintf(out, "✨ File is already small (%s), no cleaning needed!\n", formatMB(size))
		proceed, err := confirmSmallFile(yes)
		if err != nil {
			return err
		}
		if !proceed {
			return nil
		}
	}

	fmt.Fprintf(out, "📁 Original file size: %s\n", formatMB(size))

	report, err := cleanup.Clean(path, time.Now())
	if err != nil {
		if errors.Is(err, cleanup.ErrInvalidJSON) {
			fmt.Fprintln(out, errorStyle.Render("❌ Error: Invalid JSON in "+path))
		} else {
			fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("❌ Error: %v", err)))
		}
		return err
	}

	printReport(out, report)
	return nil
}

// confirmSmallFile asks whether to clean a file below the size threshold.
// Without a terminal the answer is the --yes flag.
func confirmSmallFile(yes bool) (bool, error) {
	if yes {
		return true, nil
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, nil
	}

	var proceed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Clean anyway?").
				Affirmative("Yes").
				Negative("No").
				Value(&proceed),
		),
	).WithTheme(huh.ThemeDracula()).WithAccessible(os.Getenv("ACCESSIBLE") != "")

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read confirmation; %w", err)
	}

	return proceed, nil
}

func printReport(out io.Writer, report cleanup.Report) {
	fmt.Fprintf(out, "💾 Backup: %s\n", report.BackupPath)

	for _, large := range report.Large {
		fmt.Fprintf(out, "  🧹 Cleared large history for %s... (%s)\n", truncate(large.Project, 30), formatMB(large.Size))
	}

	fmt.Fprintf(out, "\n📊 Found %d project histories totaling %s\n", report.HistoryCount, formatMB(report.HistoryBytes))

	fmt.Fprintln(out)
	fmt.Fprintln(out, successStyle.Render("✅ Success!"))
	fmt.Fprintf(out, "   Original: %s\n", formatMB(report.OriginalSize))
	fmt.Fprintf(out, "   New size: %.2f KB\n", float64(report.NewSize)/1024)
	fmt.Fprintf(out, "   Reduced by: %.1f%%\n", report.Reduction())
	fmt.Fprintf(out, "\n💡 Backup saved to: %s\n", report.BackupPath)
	fmt.Fprintln(out, dimStyle.Render("   You can delete it with: rm "+report.BackupPath))
}

func formatMB(size int64) string {
	return fmt.Sprintf("%.2f MB", float64(size)/1024/1024)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// Package cleanup compacts the Claude Code user config file, which stores
// per-project conversation history next to settings and grows without bound.
package cleanup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// LargeHistoryThreshold is the serialized size above which a cleared history is reported
const LargeHistoryThreshold = 1024 * 1024

// SmallFileThreshold is the file size below which cleaning is usually unnecessary
const SmallFileThreshold = 1024 * 1024

var (
	// ErrNotFound is returned when the config file does not exist
	ErrNotFound = errors.New("config file not found")

	// ErrInvalidJSON is returned when the config file is not valid JSON
	ErrInvalidJSON = errors.New("invalid JSON in config file")
)

// LargeHistory describes one project history above LargeHistoryThreshold
type LargeHistory struct {
	Project string
	Size    int64
}

// Report summarizes a cleanup run
type Report struct {
	Path         string
	BackupPath   string
	OriginalSize int64
	NewSize      int64
	HistoryCount int
	HistoryBytes int64
	Large        []LargeHistory
}

// Reduction returns the size reduction as a percentage of the original size
func (r Report) Reduction() float64 {
	if r.OriginalSize == 0 {
		return 0
	}
	return float64(r.OriginalSize-r.NewSize) / float64(r.OriginalSize) * 100
}

// DefaultPath returns ~/.claude.json
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory; %w", err)
	}
	return filepath.Join(home, ".claude.json"), nil
}

// FileSize returns the size of the config file, or ErrNotFound
func FileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to stat config file; %w", err)
	}
	return info.Size(), nil
}

// BackupPath returns the backup location for path at time now
func BackupPath(path string, now time.Time) string {
	return path + ".backup." + now.Format("20060102_150405")
}

// Clean clears the history of every project in the config file at path,
// keeping all other settings. A backup of the original is written first.
func Clean(path string, now time.Time) (Report, error) {
	report := Report{Path: path}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return report, ErrNotFound
		}
		return report, fmt.Errorf("failed to stat config file; %w", err)
	}
	report.OriginalSize = info.Size()

	data, err := os.ReadFile(path)
	if err != nil {
		return report, fmt.Errorf("failed to read config file; %w", err)
	}
	if !gjson.ValidBytes(data) {
		return report, ErrInvalidJSON
	}

	report.BackupPath = BackupPath(path, now)
	if err := writeIndented(report.BackupPath, data, 0600); err != nil {
		return report, fmt.Errorf("failed to write backup; %w", err)
	}

	cleaned, err := clearHistories(data, &report)
	if err != nil {
		restore(path, report.BackupPath)
		return report, err
	}

	if err := writeIndented(path, cleaned, info.Mode().Perm()); err != nil {
		restore(path, report.BackupPath)
		return report, fmt.Errorf("failed to write cleaned config; %w", err)
	}

	newSize, err := FileSize(path)
	if err != nil {
		return report, err
	}
	report.NewSize = newSize

	return report, nil
}

// clearHistories replaces projects.<id>.history with an empty list for every
// project object that has one
func clearHistories(data []byte, report *Report) ([]byte, error) {
	projects := gjson.GetBytes(data, "projects")
	if !projects.IsObject() {
		return data, nil
	}

	type target struct {
		key  string
		size int64
	}
	var targets []target

	projects.ForEach(func(key, project gjson.Result) bool {
		if !project.IsObject() {
			return true
		}
		if !project.Get("history").Exists() {
			return true
		}
		// sized without the file's indentation
		compact := project.Get("history|@ugly")
		targets = append(targets, target{key: key.String(), size: int64(len(compact.Raw))})
		return true
	})

	cleaned := data
	for _, t := range targets {
		var err error
		cleaned, err = sjson.SetRawBytes(cleaned, "projects."+gjson.Escape(t.key)+".history", []byte("[]"))
		if err != nil {
			return nil, fmt.Errorf("failed to clear history for %s; %w", t.key, err)
		}

		report.HistoryCount++
		report.HistoryBytes += t.size
		if t.size > LargeHistoryThreshold {
			report.Large = append(report.Large, LargeHistory{Project: t.key, Size: t.size})
		}
	}

	return cleaned, nil
}

// writeIndented writes data with two-space indentation through a temporary
// file so the target is never left half written
func writeIndented(path string, data []byte, perm os.FileMode) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("failed to indent JSON; %w", err)
	}
	buf.WriteByte('\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), perm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// restore moves the backup into place when the original has gone missing
func restore(path, backupPath string) {
	if _, err := os.Stat(path); err == nil {
		return
	}
	if _, err := os.Stat(backupPath); err != nil {
		return
	}
	_ = os.Rename(backupPath, path)
}

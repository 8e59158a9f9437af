// Package eventlog appends free-form lines to a plain-text log file.
package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Log is an append-only text file. The file is opened for each record and
// never truncated or rotated.
type Log struct {
	path string
}

func New(path string) *Log {
	return &Log{path: path}
}

// Path returns the file the log appends to.
func (l *Log) Path() string {
	return l.path
}

// Record appends msg as a single line.
func (l *Log) Record(msg string) error {
	if dir := filepath.Dir(l.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
	}

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}

	line := strings.ReplaceAll(msg, "\n", " ")
	if _, err := fmt.Fprintln(f, line); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing log line: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing log file: %w", err)
	}
	return nil
}

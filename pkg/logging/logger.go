// Package logging writes run output to the console and a persistent log
// file. The log file is created once at startup and never reconfigured.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Logger duplicates every message to the console (color-coded) and to a
// timestamped log file (plain text) for post-hoc diagnosis.
type Logger struct {
	console io.Writer
	file    io.WriteCloser
	path    string
	runID   string
}

// New creates a Logger writing to stderr and a new log file under dir.
// The file name carries a timestamp and a short run ID so concurrent or
// repeated runs never collide.
func New(dir string) (*Logger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	runID := uuid.NewString()[:8]
	name := fmt.Sprintf("mcli-%s-%s.log", time.Now().Format("20060102-150405"), runID)
	path := filepath.Join(dir, name)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	return &Logger{
		console: os.Stderr,
		file:    f,
		path:    path,
		runID:   runID,
	}, nil
}

// NewWithWriters creates a Logger with custom writers (for testing).
func NewWithWriters(console io.Writer, file io.WriteCloser) *Logger {
	return &Logger{console: console, file: file, runID: "test"}
}

// Path returns the log file path, empty when file logging is disabled.
func (l *Logger) Path() string {
	return l.path
}

// RunID returns the short run identifier.
func (l *Logger) RunID() string {
	return l.runID
}

// FileWriter returns a writer that appends raw command output to the log
// file only, keeping the console free of package-manager noise.
func (l *Logger) FileWriter() io.Writer {
	if l.file == nil {
		return io.Discard
	}
	return l.file
}

// Close closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

func (l *Logger) log(level, styled, msg string) {
	fmt.Fprintln(l.console, styled)
	if l.file != nil {
		fmt.Fprintf(l.file, "%s [%s] %s\n", time.Now().Format(time.RFC3339), level, stripNewlines(msg))
	}
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.log("INFO", InfoStyle.Render("→")+" "+msg, msg)
}

// Success logs a success message.
func (l *Logger) Success(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.log("OK", SuccessStyle.Render("✓")+" "+msg, msg)
}

// Warn logs a warning.
func (l *Logger) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.log("WARN", WarningStyle.Render("⚠")+" "+msg, msg)
}

// Error logs an error.
func (l *Logger) Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	l.log("ERROR", ErrorStyle.Render("✗")+" "+msg, msg)
}

func stripNewlines(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

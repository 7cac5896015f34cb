// Package logger holds the structured logger shared by memkit packages.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// L is the global logger instance. It discards all output by default so
// that library code stays silent unless a program opts in via Init.
var L = slog.New(slog.NewTextHandler(io.Discard, nil))

// logFile is the daily file opened for Options.LogDir, if any. Init and
// Close release it.
var logFile *os.File

const (
	logPrefix     = "memkit-"
	logSuffix     = ".log"
	retentionDays = 14
)

// Options configures the logger initialization.
type Options struct {
	Enabled bool       // If false, all logging is discarded
	Writer  io.Writer  // Destination; takes precedence over LogDir
	LogDir  string     // Directory for daily log files when Writer is nil
	Level   slog.Level // Minimum log level
	JSON    bool       // Emit JSON records instead of text
}

// Init configures logging. Call from main() before any goroutine allocates;
// replacing L is not synchronized with concurrent log calls.
func Init(opts Options) error {
	if err := Close(); err != nil {
		return err
	}
	if !opts.Enabled {
		L = slog.New(slog.NewTextHandler(io.Discard, nil))
		return nil
	}

	w := opts.Writer
	if w == nil {
		logDir := opts.LogDir
		if logDir == "" {
			w = os.Stderr
		} else {
			if err := os.MkdirAll(logDir, 0o755); err != nil {
				return err
			}
			cleanOldLogs(logDir)

			filename := filepath.Join(logDir, logPrefix+time.Now().Format("2006-01-02")+logSuffix)
			f, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return err
			}
			logFile = f
			w = f
		}
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	if opts.JSON {
		L = slog.New(slog.NewJSONHandler(w, handlerOpts))
	} else {
		L = slog.New(slog.NewTextHandler(w, handlerOpts))
	}
	return nil
}

// Close releases the log file opened by Init and points L back at a discard
// handler. It is a no-op when logging goes to a caller-supplied writer.
func Close() error {
	if logFile == nil {
		return nil
	}
	L = slog.New(slog.NewTextHandler(io.Discard, nil))
	err := logFile.Close()
	logFile = nil
	return err
}

// cleanOldLogs removes log files older than retentionDays.
func cleanOldLogs(logDir string) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}

		// memkit-2024-01-05.log
		dateStr := strings.TrimPrefix(strings.TrimSuffix(name, logSuffix), logPrefix)
		logDate, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}

		if logDate.Before(cutoff) {
			_ = os.Remove(filepath.Join(logDir, name))
		}
	}
}

// Debug logs a debug message with optional key-value pairs.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs an info message with optional key-value pairs.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs a warning message with optional key-value pairs.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs an error message with optional key-value pairs.
func Error(msg string, args ...any) { L.Error(msg, args...) }

// Package logging sets up the structured debug log.
// The terminal owns stdout and stderr while the render loop runs, so logs go
// to a file or nowhere.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// MaxLogSize is the size above which an existing log is rotated on Setup
const MaxLogSize = 10 * 1024 * 1024

// Options selects where and how much to log
type Options struct {
	Enabled bool
	Path    string
	Level   string // debug, info, warn, error
	Format  string // text or json
}

// Logger is a slog.Logger bound to its log file
type Logger struct {
	*slog.Logger
	file *os.File
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// Setup opens the log file, rotating it first when it exceeds MaxLogSize
// Disabled logging returns a discarding logger and no file
func Setup(opts Options) (*Logger, error) {
	if !opts.Enabled {
		return Discard(), nil
	}
	if opts.Path == "" {
		return nil, fmt.Errorf("logging enabled without a path")
	}

	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
	}

	if err := rotate(opts.Path); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(opts.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return &Logger{
		Logger: slog.New(newHandler(f, opts)),
		file:   f,
	}, nil
}

// rotate moves an oversized log to path.1, replacing any previous rotation
func rotate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat log file: %w", err)
	}
	if info.Size() <= MaxLogSize {
		return nil
	}
	if err := os.Rename(path, path+".1"); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	return nil
}

func newHandler(w io.Writer, opts Options) slog.Handler {
	hopts := &slog.HandlerOptions{Level: ParseLevel(opts.Level)}
	if strings.EqualFold(opts.Format, "json") {
		return slog.NewJSONHandler(w, hopts)
	}
	return slog.NewTextHandler(w, hopts)
}

// ParseLevel maps a level name to slog.Level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Close syncs and closes the log file, a no-op for discarding loggers
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	l.file.Sync()
	err := l.file.Close()
	l.file = nil
	return err
}

// Package logging provides the zerolog-based structured logging
// infrastructure shared by the CLI, the HTTP server and the internal
// packages. Components obtain their logger through FromContext and tag
// events with a "component" field via ComponentLogger.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Output format names accepted in Config.Format.
const (
	// FormatConsole renders human-readable, colorized console lines.
	FormatConsole = "console"
	// FormatJSON renders one JSON object per event.
	FormatJSON = "json"
)

// Config controls how New builds the root logger.
type Config struct {
	// Level is a zerolog level name ("trace", "debug", "info", ...).
	// Unparseable values fall back to "info".
	Level string
	// Format selects FormatConsole or FormatJSON. Defaults to console.
	Format string
	// File, when non-empty, duplicates output to the given log file in
	// addition to stderr. The parent directory is created on demand.
	File string
	// Caller adds the caller file:line to every event.
	Caller bool
}

// Result reports where New actually sent the log output. When file
// output was requested but could not be opened, Logger still works
// (stderr only) and FallbackReason explains what happened.
type Result struct {
	Logger         zerolog.Logger
	FilePath       string
	FallbackReason string

	file *os.File
}

// Close releases the log file handle, if one was opened.
func (r *Result) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// New builds the root logger from cfg. It never fails: a bad level
// falls back to info and an unopenable log file falls back to
// stderr-only output with the reason recorded on the Result.
func New(cfg Config) Result {
	lvl, err := zerolog.ParseLevel(strings.TrimSpace(cfg.Level))
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	var writers []io.Writer
	switch cfg.Format {
	case FormatJSON:
		writers = append(writers, os.Stderr)
	default:
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	}

	res := Result{}
	if cfg.File != "" {
		file, openErr := openLogFile(cfg.File)
		if openErr != nil {
			res.FallbackReason = fmt.Sprintf("log file unavailable, using stderr only: %v", openErr)
		} else {
			res.FilePath = cfg.File
			res.file = file
			writers = append(writers, file)
		}
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().
		Timestamp()
	if cfg.Caller {
		logger = logger.Caller()
	}
	res.Logger = logger.Logger()
	return res
}

// openLogFile opens path for appending, creating the parent directory
// when missing.
func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating log directory %s: %w", dir, err)
		}
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	return file, nil
}

// defaultLogger backs FromContext when the context carries no logger,
// so library code can always log without nil checks.
//
//nolint:gochecknoglobals // Shared fallback logger, configured once.
var defaultLogger = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.RFC3339,
}).Level(zerolog.InfoLevel).With().Timestamp().Logger()

// WithLogger returns a child context carrying logger. Retrieve it with
// FromContext.
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// FromContext returns the logger stored in ctx by WithLogger, or the
// package default logger when none is present.
func FromContext(ctx context.Context) zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return *l
	}
	return defaultLogger
}

// ComponentLogger returns logger tagged with a "component" field so
// every event identifies its originating subsystem.
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

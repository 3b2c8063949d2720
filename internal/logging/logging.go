// Package logging builds the *slog.Logger used across grok-search. Records
// are handled by zerolog: JSON lines in a log file, and a human readable
// console stream on stderr when debugging.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	slogzerolog "github.com/samber/slog-zerolog/v2"
)

// FileName is the name of the log file created inside the log directory.
const FileName = "grok-search.log"

// Options configures New.
type Options struct {
	// Dir is the directory holding the log file. Empty disables file output.
	Dir string

	// Level is one of debug, info, warn or error. Unknown values mean info.
	Level string

	// Debug also writes records to Console and forces the debug level.
	Debug bool

	// Console receives human readable records when Debug is set.
	Console io.Writer
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// New returns a logger writing according to opts and a closer releasing the
// log file. The closer is never nil.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if opts.Dir != "" {
		if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
			return nil, closer, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(filepath.Join(opts.Dir, FileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, closer, fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, f)
		closer = f
	}

	level := ParseLevel(opts.Level)
	if opts.Debug {
		level = slog.LevelDebug
		console := opts.Console
		if console == nil {
			console = os.Stderr
		}
		writers = append(writers, zerolog.ConsoleWriter{Out: console, NoColor: true})
	}

	if len(writers) == 0 {
		return Discard(), closer, nil
	}

	zl := zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	handler := slogzerolog.Option{
		Level:  level,
		Logger: &zl,
	}.NewZerologHandler()

	return slog.New(handler), closer, nil
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Package observability wires structured logging and tracing for the launcher.
//
// The launcher shares its standard streams with the toolbox, so a logger only
// writes somewhere when a sink is asked for: stderr (on, or auto when stderr
// is not a terminal) and an optional append-only file.
package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

const redactedValue = "[REDACTED]"

// sensitiveKeyParts mark attribute keys whose values never reach a sink.
var sensitiveKeyParts = []string{"token", "api_key", "apikey", "secret", "credential", "password"}

type contextKey struct{}

// Config describes where and how the launcher logs.
type Config struct {
	Level          string
	Format         string
	LogFile        string
	StderrMode     string
	InteractiveTTY bool

	// Identity attached to every record.
	SessionID   string
	CommandPath string
	Version     string
	Commit      string

	// Stderr overrides the stderr sink (tests).
	Stderr io.Writer
}

// WithLogger returns a new context carrying the given logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext extracts the logger from ctx, falling back to slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}

	return slog.Default()
}

type handlerFunc func(io.Writer, *slog.HandlerOptions) slog.Handler

// NewLogger builds the logger cfg describes. The cleanup closes the log file
// and is nil when there is nothing to close. With no sink enabled the logger
// discards every record.
func NewLogger(cfg *Config) (*slog.Logger, func() error, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	newHandler, err := parseFormat(cfg.Format)
	if err != nil {
		return nil, nil, err
	}

	toStderr, err := shouldEnableStderr(cfg.StderrMode, cfg.InteractiveTTY)
	if err != nil {
		return nil, nil, err
	}

	var sinks []io.Writer

	if toStderr {
		stderr := cfg.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}

		sinks = append(sinks, stderr)
	}

	var cleanup func() error

	if path := strings.TrimSpace(cfg.LogFile); path != "" {
		file, openErr := openLogFile(path)
		if openErr != nil {
			return nil, nil, openErr
		}

		sinks = append(sinks, file)
		cleanup = file.Close
	}

	if len(sinks) == 0 {
		return slog.New(slog.DiscardHandler), nil, nil
	}

	handler := newHandler(io.MultiWriter(sinks...), &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: redactAttr,
	})

	logger := slog.New(handler).With(
		slog.String("session.id", cfg.SessionID),
		slog.String("command.path", cfg.CommandPath),
		slog.String("launcher.version", cfg.Version),
		slog.String("launcher.commit", cfg.Commit),
	)

	return logger, cleanup, nil
}

// openLogFile opens path for appending, creating it and its directory.
func openLogFile(path string) (*os.File, error) {
	path = filepath.Clean(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create log file directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600) //nolint:gosec // G304: user-chosen log path
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return file, nil
}

func parseFormat(format string) (handlerFunc, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		return func(w io.Writer, opts *slog.HandlerOptions) slog.Handler { return slog.NewJSONHandler(w, opts) }, nil
	case "text":
		return func(w io.Writer, opts *slog.HandlerOptions) slog.Handler { return slog.NewTextHandler(w, opts) }, nil
	default:
		return nil, fmt.Errorf("invalid log format: %q (allowed: json, text)", format)
	}
}

// shouldEnableStderr resolves a stderr mode. Auto logs to stderr only when a
// person is not reading it.
func shouldEnableStderr(mode string, interactiveTTY bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return !interactiveTTY, nil
	case "on", "true", "1":
		return true, nil
	case "off", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --log-stderr value %q (allowed: auto, on, off)", mode)
	}
}

// parseLevel accepts the slog level names in any case, plus "warning".
func parseLevel(level string) (slog.Level, error) {
	trimmed := strings.TrimSpace(level)

	switch strings.ToLower(trimmed) {
	case "":
		return slog.LevelInfo, nil
	case "warning":
		return slog.LevelWarn, nil
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(trimmed)); err != nil {
		return 0, fmt.Errorf("invalid log level: %q (allowed: error, warn, info, debug)", level)
	}

	return l, nil
}

func redactAttr(_ []string, attr slog.Attr) slog.Attr {
	if isSensitiveKey(attr.Key) {
		return slog.String(attr.Key, redactedValue)
	}

	return attr
}

func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	if key == "authorization" {
		return true
	}

	for _, part := range sensitiveKeyParts {
		if strings.Contains(key, part) {
			return true
		}
	}

	return false
}

package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// NewLogger builds the process logger. format is "json" or "text"; level is one of
// debug, info, warn, error. Unknown values fall back to text/info.
func NewLogger(level, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel maps a config/CLI level string to a slog.Level.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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

// LogContext holds structured logging context information.
type LogContext struct {
	ReloadID   string
	DialogKind string
	Command    string
}

type logContextKeyType string

const logContextKey logContextKeyType = "log-context"

// WithReloadID tags the context with the article snapshot being processed.
func WithReloadID(ctx context.Context, id string) context.Context {
	lc := GetContext(ctx)
	lc.ReloadID = id
	return context.WithValue(ctx, logContextKey, lc)
}

// WithDialogKind tags the context with the dialog kind being dispatched.
func WithDialogKind(ctx context.Context, kind string) context.Context {
	lc := GetContext(ctx)
	lc.DialogKind = kind
	return context.WithValue(ctx, logContextKey, lc)
}

// WithCommand tags the context with the running CLI command.
func WithCommand(ctx context.Context, cmd string) context.Context {
	lc := GetContext(ctx)
	lc.Command = cmd
	return context.WithValue(ctx, logContextKey, lc)
}

// GetContext returns the structured log context from the provided context.
func GetContext(ctx context.Context) LogContext {
	if lc, ok := ctx.Value(logContextKey).(LogContext); ok {
		return lc
	}
	return LogContext{}
}

func getLogAttrs(ctx context.Context) []slog.Attr {
	lc := GetContext(ctx)
	attrs := []slog.Attr{}
	if lc.Command != "" {
		attrs = append(attrs, slog.String("command", lc.Command))
	}
	if lc.ReloadID != "" {
		attrs = append(attrs, logfields.ReloadID(lc.ReloadID))
	}
	if lc.DialogKind != "" {
		attrs = append(attrs, logfields.DialogKind(lc.DialogKind))
	}
	return attrs
}

// InfoContext logs an info message with context information.
func InfoContext(ctx context.Context, logger *slog.Logger, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, logger, slog.LevelInfo, msg, attrs)
}

// WarnContext logs a warning message with context information.
func WarnContext(ctx context.Context, logger *slog.Logger, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, logger, slog.LevelWarn, msg, attrs)
}

// ErrorContext logs an error message with context information.
func ErrorContext(ctx context.Context, logger *slog.Logger, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, logger, slog.LevelError, msg, attrs)
}

// DebugContext logs a debug message with context information.
func DebugContext(ctx context.Context, logger *slog.Logger, msg string, attrs ...slog.Attr) {
	logAttrs(ctx, logger, slog.LevelDebug, msg, attrs)
}

func logAttrs(ctx context.Context, logger *slog.Logger, level slog.Level, msg string, attrs []slog.Attr) {
	if logger == nil {
		logger = slog.Default()
	}
	all := append(getLogAttrs(ctx), attrs...)
	logger.LogAttrs(ctx, level, msg, all...)
}

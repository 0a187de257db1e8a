package observability

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for raw, want := range tests {
		if got := ParseLevel(raw); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", raw, got, want)
		}
	}
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("debug", "json", &buf)
	logger.Debug("hello", "k", "v")

	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("expected json output, got %s", buf.String())
	}
}

func TestContextAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("info", "text", &buf)

	ctx := WithCommand(context.Background(), "watch")
	ctx = WithReloadID(ctx, "r-1")
	ctx = WithDialogKind(ctx, "notice")
	InfoContext(ctx, logger, "dispatched", slog.Int("subscribers", 1))

	out := buf.String()
	for _, want := range []string{"command=watch", "reload_id=r-1", "dialog_kind=notice", "subscribers=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %s", want, out)
		}
	}

	lc := GetContext(ctx)
	if lc.ReloadID != "r-1" || lc.Command != "watch" {
		t.Errorf("unexpected log context %+v", lc)
	}
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("info", "text", &buf)
	DebugContext(context.Background(), logger, "quiet")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %s", buf.String())
	}
}

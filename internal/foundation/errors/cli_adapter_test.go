package errors

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("invalid input").Build(), expected: 2},
		{name: "not found", err: NotFoundError("missing").Build(), expected: 3},
		{name: "config", err: ConfigError("bad config").Build(), expected: 7},
		{name: "wrapped filesystem", err: fmt.Errorf("scan: %w", FileSystemError("read dir").Build()), expected: 11},
		{name: "unclassified", err: errors.New("unknown"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logs, out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	adapter := NewCLIErrorAdapter(false, logger)
	adapter.out = &out
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(ConfigError("base must end with /").WithContext("base", "/blog").Build())

	if code != 7 {
		t.Errorf("expected exit code 7, got %d", code)
	}
	if !strings.Contains(out.String(), "base must end with /") {
		t.Errorf("expected user message, got %q", out.String())
	}
	if !strings.Contains(out.String(), "check your configuration") {
		t.Errorf("expected user-action hint, got %q", out.String())
	}
	if !strings.Contains(logs.String(), "base=/blog") {
		t.Errorf("expected context in log output, got %q", logs.String())
	}
}

func TestCLIErrorAdapter_FormatVerbose(t *testing.T) {
	adapter := NewCLIErrorAdapter(true, nil)
	err := WrapError(errors.New("boom"), CategoryRuntime, "watch failed").Build()

	got := adapter.FormatError(err)
	if !strings.Contains(got, "boom") {
		t.Errorf("expected verbose output to include cause, got %q", got)
	}
}

package dialog

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHost_RendersTypedAndUntypedRequests(t *testing.T) {
	b := NewBus()
	var out bytes.Buffer
	h := NewHost(b, DefaultRegistry(), &out)
	h.Attach()
	defer h.Detach()

	OpenKind(b, Confirm, ConfirmContext{Message: "Delete draft?", ConfirmLabel: "Delete"})
	require.Contains(t, out.String(), "Delete draft?")
	require.Contains(t, out.String(), "Delete")
	require.Contains(t, out.String(), "Cancel")

	out.Reset()
	b.Open("notice", Context{"title": "Removed", "message": "intro.md is gone"})
	require.Contains(t, out.String(), "Removed")
	require.Contains(t, out.String(), "intro.md is gone")

	cur, ok := h.Current()
	require.True(t, ok)
	require.Equal(t, "notice", cur.Kind)
}

func TestHost_LastRequestWins(t *testing.T) {
	b := NewBus()
	h := NewHost(b, DefaultRegistry(), io.Discard)
	h.Attach()

	OpenKind(b, Notice, NoticeContext{Message: "first"})
	OpenKind(b, Notice, NoticeContext{Message: "second"})

	cur, ok := h.Current()
	require.True(t, ok)
	ctx, ok := ContextAs(cur, Notice)
	require.True(t, ok)
	require.Equal(t, "second", ctx.Message)

	h.Dismiss()
	_, ok = h.Current()
	require.False(t, ok)
}

func TestHost_AttachDetachIdempotent(t *testing.T) {
	b := NewBus()
	h := NewHost(b, DefaultRegistry(), io.Discard)

	h.Attach()
	h.Attach()
	require.Equal(t, 1, b.SubscriberCount())

	h.Detach()
	h.Detach()
	require.Zero(t, b.SubscriberCount())

	OpenKind(b, Notice, NoticeContext{Message: "unseen"})
	_, ok := h.Current()
	require.False(t, ok)
}

func TestHost_FailuresAreLoggedNotReturned(t *testing.T) {
	b := NewBus()
	var logs bytes.Buffer
	rec := &countingRecorder{}
	h := NewHost(b, DefaultRegistry(), io.Discard,
		WithHostLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		WithHostRecorder(rec),
	)
	h.Attach()

	require.NotPanics(t, func() { b.Open("missing", nil) })
	OpenKind(b, NewKind[int]("confirm"), 42)
	OpenKind(b, Notice, NoticeContext{Message: "ok"})

	require.Contains(t, logs.String(), "Cannot resolve dialog")
	require.Contains(t, logs.String(), "Dialog render failed")
	require.Equal(t, 2, rec.renders[false])
	require.Equal(t, 1, rec.renders[true])
}

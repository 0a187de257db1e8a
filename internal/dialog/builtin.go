package dialog

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// ConfirmContext asks the user to confirm an action.
type ConfirmContext struct {
	Message      string
	ConfirmLabel string
	CancelLabel  string
}

// NoticeContext informs the user about something that happened.
type NoticeContext struct {
	Title   string
	Message string
}

var (
	// Confirm is the "confirm" dialog kind.
	Confirm = NewKind[ConfirmContext]("confirm")
	// Notice is the "notice" dialog kind.
	Notice = NewKind[NoticeContext]("notice")
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	buttonStyle = lipgloss.NewStyle().Padding(0, 1).Border(lipgloss.NormalBorder(), false, true)
)

// DefaultRegistry returns a registry holding the built-in terminal dialogs.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	// Registration into a fresh registry cannot collide.
	_ = r.Register(Confirm.Name(), func() (Renderer, error) { return RendererFunc(renderConfirm), nil })
	_ = r.Register(Notice.Name(), func() (Renderer, error) { return RendererFunc(renderNotice), nil })
	return r
}

func renderConfirm(w io.Writer, ctx any) error {
	var c ConfirmContext
	switch v := ctx.(type) {
	case ConfirmContext:
		c = v
	case Context:
		c = ConfirmContext{
			Message:      stringField(v, "message"),
			ConfirmLabel: stringField(v, "confirmLabel"),
			CancelLabel:  stringField(v, "cancelLabel"),
		}
	default:
		return mismatch(Confirm.Name(), ctx)
	}
	if c.ConfirmLabel == "" {
		c.ConfirmLabel = "OK"
	}
	if c.CancelLabel == "" {
		c.CancelLabel = "Cancel"
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top,
		buttonStyle.Render(c.CancelLabel),
		" ",
		buttonStyle.Render(c.ConfirmLabel),
	)
	body := lipgloss.JoinVertical(lipgloss.Left, c.Message, "", buttons)
	_, err := fmt.Fprintln(w, boxStyle.Render(body))
	return err
}

func renderNotice(w io.Writer, ctx any) error {
	var n NoticeContext
	switch v := ctx.(type) {
	case NoticeContext:
		n = v
	case Context:
		n = NoticeContext{Title: stringField(v, "title"), Message: stringField(v, "message")}
	default:
		return mismatch(Notice.Name(), ctx)
	}
	parts := make([]string, 0, 2)
	if strings.TrimSpace(n.Title) != "" {
		parts = append(parts, titleStyle.Render(n.Title))
	}
	parts = append(parts, n.Message)
	_, err := fmt.Fprintln(w, boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...)))
	return err
}

func stringField(c Context, key string) string {
	if v, ok := c[key].(string); ok {
		return v
	}
	return ""
}

func mismatch(kind string, ctx any) error {
	return ferrors.ValidationError("dialog context does not match kind").
		WithContext("kind", kind).
		WithContext("context_type", fmt.Sprintf("%T", ctx)).
		Build()
}

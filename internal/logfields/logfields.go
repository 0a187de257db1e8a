package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyDialogKind  = "dialog_kind"
	KeySubscribers = "subscribers"
	KeyQueued      = "queued"
	KeyArticle     = "article"
	KeyArticles    = "articles"
	KeyPath        = "path"
	KeyReloadID    = "reload_id"
	KeyTrigger     = "trigger"
	KeyDurationMS  = "duration_ms"
	KeyAddr        = "addr"
	KeyError       = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func DialogKind(k string) slog.Attr   { return slog.String(KeyDialogKind, k) }
func Subscribers(n int) slog.Attr     { return slog.Int(KeySubscribers, n) }
func Queued(n int) slog.Attr          { return slog.Int(KeyQueued, n) }
func Article(name string) slog.Attr   { return slog.String(KeyArticle, name) }
func Articles(n int) slog.Attr        { return slog.Int(KeyArticles, n) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func ReloadID(id string) slog.Attr    { return slog.String(KeyReloadID, id) }
func Trigger(t string) slog.Attr      { return slog.String(KeyTrigger, t) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

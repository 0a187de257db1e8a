package dialog

import (
	"io"
	"log/slog"
	"sync"

	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/observability"
)

// Host is the dialog-hosting surface: it subscribes to a bus and renders the
// most recently requested dialog. Rendering failures are logged, never
// reported back to the requester.
type Host struct {
	bus      *Bus
	registry *Registry
	out      io.Writer
	logger   *slog.Logger
	recorder metrics.Recorder

	mu      sync.Mutex
	current *Request
	cancel  func()
}

// HostOption configures a Host.
type HostOption func(*Host)

// WithHostLogger sets the host logger.
func WithHostLogger(l *slog.Logger) HostOption {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithHostRecorder sets the metrics recorder for render outcomes.
func WithHostRecorder(r metrics.Recorder) HostOption {
	return func(h *Host) {
		if r != nil {
			h.recorder = r
		}
	}
}

// NewHost creates a detached host rendering into out.
func NewHost(bus *Bus, registry *Registry, out io.Writer, opts ...HostOption) *Host {
	h := &Host{
		bus:      bus,
		registry: registry,
		out:      out,
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Attach subscribes the host to its bus. Calling it again while attached is a no-op.
func (h *Host) Attach() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		return
	}
	h.cancel = h.bus.Subscribe(h.handle)
}

// Detach unsubscribes the host. The current dialog is kept.
func (h *Host) Detach() {
	h.mu.Lock()
	cancel := h.cancel
	h.cancel = nil
	h.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Current returns the last request the host received, unless dismissed.
func (h *Host) Current() (Request, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.current == nil {
		return Request{}, false
	}
	return *h.current, true
}

// Dismiss closes the current dialog.
func (h *Host) Dismiss() {
	h.mu.Lock()
	h.current = nil
	h.mu.Unlock()
}

func (h *Host) handle(req Request) {
	h.mu.Lock()
	h.current = &req
	h.mu.Unlock()

	ctx := logContext(req)
	renderer, err := h.registry.Resolve(req.Kind)
	if err != nil {
		h.recorder.IncDialogRender(req.Kind, false)
		observability.WarnContext(ctx, h.logger, "Cannot resolve dialog", logfields.Error(err))
		return
	}
	if err := renderer.Render(h.out, req.Context); err != nil {
		h.recorder.IncDialogRender(req.Kind, false)
		observability.WarnContext(ctx, h.logger, "Dialog render failed", logfields.Error(err))
		return
	}
	h.recorder.IncDialogRender(req.Kind, true)
}

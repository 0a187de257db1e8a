package dialog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/metrics"
	"git.home.luguber.info/inful/docsite/internal/observability"
)

// Context is the untyped payload accompanying an open request.
type Context map[string]any

// Request is one request to show a dialog. It is delivered to the subscribers
// attached at dispatch time and is not retained afterwards.
type Request struct {
	Kind    string
	Context any
}

// Handler receives open requests.
type Handler func(Request)

// Bus is a same-process publish/subscribe channel for dialog open requests.
//
// Open delivers a request synchronously to every attached handler in
// registration order. A request opened while another is being dispatched
// (from a handler, or from another goroutine) is queued and delivered once
// the current request has reached every handler. Requests opened with no
// subscribers are dropped.
type Bus struct {
	mu          sync.Mutex
	subs        []*subscription
	dispatching bool
	pending     []Request

	logger   *slog.Logger
	recorder metrics.Recorder
}

type subscription struct {
	handler Handler
	active  bool
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Bus) {
		if r != nil {
			b.recorder = r
		}
	}
}

// NewBus creates an empty bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe attaches h for future requests. The returned cancel detaches it;
// calling cancel more than once has no effect.
func (b *Bus) Subscribe(h Handler) (cancel func()) {
	b.mu.Lock()
	sub := &subscription{handler: h, active: true}
	b.subs = append(b.subs, sub)
	count := len(b.subs)
	b.mu.Unlock()

	b.recorder.SetSubscribers(count)

	var once sync.Once
	return func() {
		once.Do(func() { b.unsubscribe(sub) })
	}
}

func (b *Bus) unsubscribe(sub *subscription) {
	b.mu.Lock()
	sub.active = false
	for i, s := range b.subs {
		if s == sub {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			break
		}
	}
	count := len(b.subs)
	b.mu.Unlock()

	b.recorder.SetSubscribers(count)
}

// SubscriberCount returns the number of attached handlers.
func (b *Bus) SubscriberCount() int {
	if b == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Open requests that the dialog named kind be shown with ctx.
//
// When no dispatch is running, Open delivers the request and everything queued
// behind it before returning. When a dispatch is already running, whether
// Open was called from a handler or from another goroutine, the request is
// queued and Open returns immediately, before any handler has seen it. The
// active dispatcher delivers it once the current request has reached every
// handler.
func (b *Bus) Open(kind string, ctx Context) {
	b.publish(Request{Kind: kind, Context: ctx})
}

func (b *Bus) publish(req Request) {
	b.mu.Lock()
	b.pending = append(b.pending, req)
	if b.dispatching {
		queued := len(b.pending)
		b.mu.Unlock()
		observability.DebugContext(logContext(req), b.logger,
			"Dialog request queued behind active dispatch", logfields.Queued(queued))
		return
	}
	b.dispatching = true
	b.mu.Unlock()

	b.drain()
}

// drain delivers pending requests in FIFO order until the queue is empty.
// Only the goroutine that set dispatching runs it.
func (b *Bus) drain() {
	completed := false
	defer func() {
		if completed {
			return
		}
		// A handler panicked: reset so the bus stays usable, drop what was queued.
		b.mu.Lock()
		b.dispatching = false
		b.pending = nil
		b.mu.Unlock()
	}()

	for {
		b.mu.Lock()
		if len(b.pending) == 0 {
			b.dispatching = false
			b.mu.Unlock()
			completed = true
			return
		}
		req := b.pending[0]
		b.pending[0] = Request{}
		b.pending = b.pending[1:]
		targets := make([]*subscription, len(b.subs))
		copy(targets, b.subs)
		b.mu.Unlock()

		b.deliver(req, targets)
	}
}

func (b *Bus) deliver(req Request, targets []*subscription) {
	ctx := logContext(req)
	if len(targets) == 0 {
		b.recorder.IncDialogOpen(req.Kind, metrics.OutcomeDropped)
		observability.DebugContext(ctx, b.logger, "Dialog request dropped: no subscribers")
		return
	}

	start := time.Now()
	delivered := 0
	for _, sub := range targets {
		if !b.isActive(sub) {
			continue
		}
		sub.handler(req)
		delivered++
	}
	b.recorder.ObserveDispatchDuration(req.Kind, time.Since(start))
	b.recorder.IncDialogOpen(req.Kind, metrics.OutcomeDelivered)
	observability.DebugContext(ctx, b.logger, "Dialog request dispatched", logfields.Subscribers(delivered))
}

// logContext tags log lines about req with its kind.
func logContext(req Request) context.Context {
	return observability.WithDialogKind(context.Background(), req.Kind)
}

func (b *Bus) isActive(sub *subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return sub.active
}

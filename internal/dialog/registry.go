package dialog

import (
	"fmt"
	"io"
	"sort"
	"sync"

	ferrors "git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// Renderer draws one dialog for a request context.
type Renderer interface {
	Render(w io.Writer, ctx any) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(w io.Writer, ctx any) error

func (f RendererFunc) Render(w io.Writer, ctx any) error { return f(w, ctx) }

// Loader produces a Renderer on first use.
type Loader func() (Renderer, error)

// RenderFunc renders a dialog whose context type is known.
type RenderFunc[C any] func(w io.Writer, ctx C) error

// Registry maps dialog kinds to lazily loaded renderers. The set of kinds is
// fixed once the application has finished registering them.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	load     Loader
	once     sync.Once
	renderer Renderer
	err      error
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register adds a kind. Empty and duplicate kinds are rejected.
func (r *Registry) Register(kind string, load Loader) error {
	if kind == "" {
		return ferrors.ValidationError("dialog kind cannot be empty").Build()
	}
	if load == nil {
		return ferrors.ValidationError("dialog loader cannot be nil").WithContext("kind", kind).Build()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[kind]; exists {
		return ferrors.NewError(ferrors.CategoryAlreadyExists, "dialog kind already registered").
			WithContext("kind", kind).
			Build()
	}
	r.entries[kind] = &entry{load: load}
	return nil
}

// RegisterKind registers a typed renderer for k. The renderer rejects requests
// whose context is not a C.
func RegisterKind[C any](r *Registry, k Kind[C], load func() (RenderFunc[C], error)) error {
	return r.Register(k.Name(), func() (Renderer, error) {
		fn, err := load()
		if err != nil {
			return nil, err
		}
		return RendererFunc(func(w io.Writer, ctx any) error {
			typed, ok := ctx.(C)
			if !ok {
				return mismatch(k.Name(), ctx)
			}
			return fn(w, typed)
		}), nil
	})
}

// Resolve returns the renderer for kind, loading it on first use. Load
// failures, including a panicking loader, are remembered. Classified loader
// errors keep their category; anything else is reported as a dialog error.
func (r *Registry) Resolve(kind string) (Renderer, error) {
	r.mu.RLock()
	e, ok := r.entries[kind]
	r.mu.RUnlock()
	if !ok {
		return nil, ferrors.NotFoundError("dialog kind not registered").WithContext("kind", kind).Build()
	}
	e.once.Do(func() { e.renderer, e.err = loadEntry(kind, e.load) })
	return e.renderer, e.err
}

func loadEntry(kind string, load Loader) (renderer Renderer, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			renderer = nil
			err = ferrors.InternalError("dialog loader panicked").
				WithContext("kind", kind).
				WithContext("panic", fmt.Sprint(rec)).
				Build()
		}
	}()

	renderer, err = load()
	if err == nil && renderer == nil {
		return nil, ferrors.InternalError("dialog loader returned no renderer").WithContext("kind", kind).Build()
	}
	if err != nil {
		if classified, ok := ferrors.AsClassified(err); ok {
			return nil, classified.WithContext("kind", kind)
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryDialog, "load dialog renderer").
			WithContext("kind", kind).
			Build()
	}
	return renderer, nil
}

// Kinds lists registered kinds in sorted order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	kinds := make([]string, 0, len(r.entries))
	for k := range r.entries {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

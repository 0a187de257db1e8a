package dialog

// Kind pairs a dialog kind name with the Go type of its context, so that
// requesters and renderers agree on the payload shape at compile time.
type Kind[C any] struct {
	name string
}

// NewKind declares a dialog kind whose context has type C.
func NewKind[C any](name string) Kind[C] {
	return Kind[C]{name: name}
}

// Name returns the kind identifier carried in requests.
func (k Kind[C]) Name() string { return k.name }

// OpenKind opens the dialog k with a typed context.
func OpenKind[C any](b *Bus, k Kind[C], ctx C) {
	b.publish(Request{Kind: k.name, Context: ctx})
}

// ContextAs returns the request's context as C when the request is for k.
func ContextAs[C any](req Request, k Kind[C]) (C, bool) {
	var zero C
	if req.Kind != k.name {
		return zero, false
	}
	c, ok := req.Context.(C)
	if !ok {
		return zero, false
	}
	return c, true
}

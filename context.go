package skein

import "context"

// Context is the immutable propagation token: it names the active trace
// and, optionally, the active span by identifier only. It is a
// back-reference, never an ownership edge - the Collector remains the
// sole owner of trace and span data. Metadata is informational and is
// not persisted into the trace store.
type Context struct {
	TraceID  string
	SpanID   string // empty when no span is active
	Metadata Attributes
}

// WithSpanID returns a copy pointing at spanID as the active span.
func (c Context) WithSpanID(spanID string) Context {
	c.SpanID = spanID
	return c
}

// WithMetadata returns a copy with md merged into the token's metadata.
func (c Context) WithMetadata(md Attributes) Context {
	c.Metadata = c.Metadata.merged(md)
	return c
}

// ctxKeyType is a private type for context keys to avoid collisions.
type ctxKeyType string

const ctxKey ctxKeyType = "skein"

// ContextWith returns a context carrying tc as the current trace context.
// The context.Context itself is the per-goroutine slot: storing a derived
// context never affects the caller's, so the parent context is restored
// on every exit path simply by falling back to it. Crossing a goroutine
// boundary requires passing the context explicitly.
func ContextWith(ctx context.Context, tc Context) context.Context {
	return context.WithValue(ctx, ctxKey, tc)
}

// FromContext extracts the current trace context.
// ok is false if ctx carries none.
func FromContext(ctx context.Context) (Context, bool) {
	if ctx == nil {
		return Context{}, false
	}
	tc, ok := ctx.Value(ctxKey).(Context)
	return tc, ok
}

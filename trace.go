package skein

// Trace is the complete record of one transaction: trace-level metadata
// plus every span recorded under its trace ID. Spans appear in creation
// order, not tree order; the parent/child tree is reconstructed on demand
// by scanning ParentSpanID and is never stored explicitly.
type Trace struct {
	TraceID   string     `json:"trace_id"`
	CreatedAt int64      `json:"created_at"`
	Metadata  Attributes `json:"metadata"`
	Spans     []Span     `json:"spans"`
}

func newTrace(traceID string, createdAt int64) Trace {
	return Trace{
		TraceID:   traceID,
		CreatedAt: createdAt,
		Metadata:  Attributes{},
	}
}

// RootSpans returns the spans with no parent, in creation order.
func (t Trace) RootSpans() []Span {
	var roots []Span
	for _, s := range t.Spans {
		if s.Root() {
			roots = append(roots, s)
		}
	}
	return roots
}

// Children returns the direct children of spanID, in creation order.
// A dangling parent reference is tolerated: a spanID that no stored span
// carries simply yields no children.
func (t Trace) Children(spanID string) []Span {
	var children []Span
	for _, s := range t.Spans {
		if s.ParentSpanID == spanID && spanID != "" {
			children = append(children, s)
		}
	}
	return children
}

// Span returns the span with the given ID.
func (t Trace) Span(spanID string) (Span, bool) {
	for _, s := range t.Spans {
		if s.SpanID == spanID {
			return s, true
		}
	}
	return Span{}, false
}

// clone returns a deep copy sharing no maps or slices with the receiver.
func (t Trace) clone() Trace {
	t.Metadata = t.Metadata.clone()
	if t.Spans != nil {
		spans := make([]Span, len(t.Spans))
		for i, s := range t.Spans {
			spans[i] = s.clone()
		}
		t.Spans = spans
	}
	return t
}

package skein

import "sync"

// Collector is the sole mutable owner of all in-flight traces. Every
// read and write of trace state is serialized through it, so concurrent
// producers never observe or create a torn trace. Snapshots returned by
// the Collector are deep copies: holders can never write back into the
// store, and writes only happen through AddSpan and UpdateSpan.
//
// Safe for concurrent use by multiple goroutines.
type Collector struct {
	mu     sync.Mutex
	traces map[string]Trace
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		traces: make(map[string]Trace),
	}
}

// NewTrace creates and stores an empty trace keyed by traceID and
// returns a snapshot of it. An existing entry under the same key is
// silently replaced: ID uniqueness is the caller's responsibility, and
// the identifier generator guarantees it statistically.
func (c *Collector) NewTrace(traceID string, createdAt int64) Trace {
	c.mu.Lock()
	defer c.mu.Unlock()

	trace := newTrace(traceID, createdAt)
	c.traces[traceID] = trace
	return trace.clone()
}

// GetTrace returns a deep-copied snapshot of the trace's current state.
// The snapshot is a value: it is never mutated out from under the caller
// by later writes to the store.
func (c *Collector) GetTrace(traceID string) (Trace, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	trace, ok := c.traces[traceID]
	if !ok {
		return Trace{}, false
	}
	return trace.clone(), true
}

// AddSpan appends span to the trace's span sequence, preserving creation
// order. An unknown traceID is ignored: a missing or already-exported
// trace must never fail an in-flight operation.
func (c *Collector) AddSpan(traceID string, span Span) {
	c.mu.Lock()
	defer c.mu.Unlock()

	trace, ok := c.traces[traceID]
	if !ok {
		return
	}
	trace.Spans = append(trace.Spans, span.clone())
	c.traces[traceID] = trace
}

// UpdateSpan replaces the span with spanID by transform(span). The
// transform must be pure: it receives the span's current value and
// returns the replacement. Because every update runs under the store's
// lock, racing updates are serialized and each transform observes the
// previous winner's result, never a stale copy. Unknown traces and spans
// are ignored.
//
// The linear scan is deliberate: traces are short-lived and bounded by a
// single logical transaction, so spans-per-trace stays small and an
// index per span ID is not worth the bookkeeping.
func (c *Collector) UpdateSpan(traceID, spanID string, transform func(Span) Span) {
	c.mu.Lock()
	defer c.mu.Unlock()

	trace, ok := c.traces[traceID]
	if !ok {
		return
	}
	for i := range trace.Spans {
		if trace.Spans[i].SpanID == spanID {
			trace.Spans[i] = transform(trace.Spans[i].clone()).clone()
			return
		}
	}
}

// MergeMetadata merges md into the trace's metadata, later writes
// overriding earlier keys. An unknown traceID is ignored.
func (c *Collector) MergeMetadata(traceID string, md Attributes) {
	c.mu.Lock()
	defer c.mu.Unlock()

	trace, ok := c.traces[traceID]
	if !ok {
		return
	}
	trace.Metadata = trace.Metadata.merged(md)
	c.traces[traceID] = trace
}

// RemoveTrace deletes the trace entry. Removing an absent trace is a
// no-op.
func (c *Collector) RemoveTrace(traceID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.traces, traceID)
}

// Clear drops every in-flight trace. Intended for tests and resets.
func (c *Collector) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.traces = make(map[string]Trace)
}

// Count returns the number of in-flight traces.
func (c *Collector) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.traces)
}

// Package integration exercises the tracing engine end to end:
// lifecycle orchestration, the collector's serialization guarantees, and
// context propagation across goroutines.
package integration

import (
	"sync"

	"github.com/skeinlabs/skein"
)

// captureExporter records every exported trace for inspection.
type captureExporter struct {
	mu     sync.Mutex
	traces []skein.Trace
}

func (e *captureExporter) Export(trace skein.Trace) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.traces = append(e.traces, trace)
	return nil
}

func (*captureExporter) Shutdown() error { return nil }

func (e *captureExporter) exported() []skein.Trace {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]skein.Trace, len(e.traces))
	copy(out, e.traces)
	return out
}

// spansByName indexes a trace's spans by name. Names must be unique
// within the trace for the index to be meaningful.
func spansByName(trace skein.Trace) map[string]skein.Span {
	index := make(map[string]skein.Span, len(trace.Spans))
	for _, span := range trace.Spans {
		index[span.Name] = span
	}
	return index
}

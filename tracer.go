package skein

import (
	"context"
	"runtime"
	"sync"

	"github.com/zoobzio/clockz"
	"go.uber.org/zap"
)

// Tracer orchestrates the trace and span lifecycle: it opens spans
// against the Collector, threads trace identity through contexts, and
// hands each completed trace to the configured exporters before
// discarding it. Safe for concurrent use by multiple goroutines.
type Tracer struct {
	collector   *Collector
	exporters   []Exporter
	clock       clockz.Clock
	logger      *zap.Logger
	traceIDPool *IDPool
	spanIDPool  *IDPool
	idPoolOnce  sync.Once
}

// Option configures a Tracer.
type Option func(*Tracer)

// WithExporters sets the exporters invoked, in order, for every
// completed trace.
func WithExporters(exporters ...Exporter) Option {
	return func(t *Tracer) { t.exporters = exporters }
}

// WithClock injects a clock for deterministic testing.
func WithClock(clock clockz.Clock) Option {
	return func(t *Tracer) { t.clock = clock }
}

// WithLogger sets the logger used for export diagnostics. Defaults to a
// no-op logger; diagnostics never propagate into traced operations.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Tracer) { t.logger = logger }
}

// New creates a tracer backed by a fresh Collector.
func New(opts ...Option) *Tracer {
	t := &Tracer{
		collector: NewCollector(),
		clock:     clockz.RealClock,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Collector exposes the tracer's trace store for inspection. All
// mutation still goes through the store's own operations.
func (t *Tracer) Collector() *Collector { return t.collector }

// now returns the current time in microseconds from the injected clock.
func (t *Tracer) now() int64 {
	return t.clock.Now().UnixMicro()
}

// ensureIDPools initializes ID pools if not already created.
func (t *Tracer) ensureIDPools() {
	t.idPoolOnce.Do(func() {
		// Pool size based on number of CPUs for contention balance.
		poolSize := runtime.NumCPU() * 100
		factory := func() string { return generateID(t.clock) }
		t.traceIDPool = NewIDPool(poolSize, factory)
		t.spanIDPool = NewIDPool(poolSize, factory)
	})
}

func (t *Tracer) newTraceID() string {
	t.ensureIDPools()
	return t.traceIDPool.Get()
}

func (t *Tracer) newSpanID() string {
	t.ensureIDPools()
	return t.spanIDPool.Get()
}

// Trace runs fn inside a fresh trace. The derived context carries the
// new trace identity with no active span, so the first Span under it
// becomes a root. On every exit path - normal return, error return, or a
// panicking fn - the finished trace is read from the Collector, handed
// to every exporter in configured order, and removed; the original
// failure then propagates to the caller unchanged.
func (t *Tracer) Trace(ctx context.Context, fn func(context.Context) error) error {
	return t.TraceWith(ctx, nil, fn)
}

// TraceWith is Trace with initial trace-level metadata.
func (t *Tracer) TraceWith(ctx context.Context, metadata Attributes, fn func(context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	traceID := t.newTraceID()
	t.collector.NewTrace(traceID, t.now())
	if len(metadata) > 0 {
		t.collector.MergeMetadata(traceID, metadata)
	}

	// Export and discard on every exit path, including an unwinding fn.
	defer t.complete(traceID)

	return fn(ContextWith(ctx, Context{TraceID: traceID}))
}

// Span runs fn inside a new span under the current trace context. The
// span is a root if no span is active; otherwise it is a child of the
// active one. fn receives a derived context pointing at the new span;
// the caller's context still points at the parent on every exit path, so
// sibling or enclosing work is never attributed to a finished span.
//
// An error from fn finishes the span with StatusError and is returned
// unchanged; a panic finishes it with StatusError and resumes unwinding.
// Without a trace context, fn simply runs untraced.
func (t *Tracer) Span(ctx context.Context, operation Key, fn func(context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	parent, ok := FromContext(ctx)
	if !ok {
		return fn(ctx)
	}

	span := newSpan(t.newSpanID(), parent.SpanID, operation, t.now())
	t.collector.AddSpan(parent.TraceID, span)
	childCtx := ContextWith(ctx, parent.WithSpanID(span.SpanID))

	// Status stays error unless fn returns cleanly, so the deferred
	// finish also covers the panic path.
	status := StatusError
	defer func() {
		end := t.now()
		t.collector.UpdateSpan(parent.TraceID, span.SpanID, func(s Span) Span {
			return s.Finish(end, status)
		})
	}()

	if err := fn(childCtx); err != nil {
		return err
	}
	status = StatusOK
	return nil
}

// AddEvent appends a point-in-time event to the active span. Outside an
// active span the event is silently discarded: annotations are
// meaningless without an enclosing unit of work.
func (t *Tracer) AddEvent(ctx context.Context, name string, attrs Attributes) {
	tc, ok := FromContext(ctx)
	if !ok || tc.SpanID == "" {
		t.logger.Debug("event outside an active span discarded",
			zap.String("event", name))
		return
	}

	event := Event{
		Name:       name,
		Timestamp:  t.now(),
		Attributes: attrs.clone(),
	}
	t.collector.UpdateSpan(tc.TraceID, tc.SpanID, func(s Span) Span {
		return s.WithEvent(event)
	})
}

// SetAttributes merges attrs into the active span's attributes, later
// writes overriding earlier keys. No-op outside an active span.
func (t *Tracer) SetAttributes(ctx context.Context, attrs Attributes) {
	tc, ok := FromContext(ctx)
	if !ok || tc.SpanID == "" {
		return
	}

	t.collector.UpdateSpan(tc.TraceID, tc.SpanID, func(s Span) Span {
		return s.WithAttributes(attrs)
	})
}

// complete reads the finished trace, hands it to every exporter in
// configured order, then removes it from the collector. Export is
// best-effort, not transactional: the trace is discarded whether or not
// any exporter succeeds.
func (t *Tracer) complete(traceID string) {
	trace, ok := t.collector.GetTrace(traceID)
	if ok {
		for _, exporter := range t.exporters {
			t.export(exporter, trace)
		}
	}
	t.collector.RemoveTrace(traceID)
}

// export invokes one exporter, containing panics so a misbehaving sink
// can never unwind into the traced operation or starve later exporters.
func (t *Tracer) export(exporter Exporter, trace Trace) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("exporter panicked",
				zap.String("trace_id", trace.TraceID),
				zap.Any("panic", r))
		}
	}()

	if err := exporter.Export(trace); err != nil {
		t.logger.Warn("trace export failed",
			zap.String("trace_id", trace.TraceID),
			zap.Error(err))
	}
}

// Close shuts down the configured exporters and releases tracer
// resources. In-flight traces are not exported; let outstanding Trace
// calls finish first.
func (t *Tracer) Close() {
	for _, exporter := range t.exporters {
		t.shutdown(exporter)
	}
	if t.traceIDPool != nil {
		t.traceIDPool.Close()
	}
	if t.spanIDPool != nil {
		t.spanIDPool.Close()
	}
}

func (t *Tracer) shutdown(exporter Exporter) {
	defer func() {
		if r := recover(); r != nil {
			t.logger.Error("exporter shutdown panicked", zap.Any("panic", r))
		}
	}()

	if err := exporter.Shutdown(); err != nil {
		t.logger.Warn("exporter shutdown failed", zap.Error(err))
	}
}

// Package skein provides a minimal in-process tracing SDK.
//
// skein records the causal structure of a unit of work as a Trace: a tree
// of timed Spans annotated with point-in-time Events and key-value
// attributes. When the unit of work completes, the finished trace is
// handed to pluggable exporters and discarded; durability is the
// exporter's responsibility, never the engine's.
//
// Core Components:
//   - Tracer: orchestrates the trace/span lifecycle and export.
//   - Collector: serialized owner of all in-flight traces.
//   - Trace, Span, Event, Context: immutable value types.
//   - Exporter: pluggable sink for completed traces.
//
// Basic Usage:
//
//	tracer := skein.New(skein.WithExporters(exporter))
//	defer tracer.Close()
//
//	err := tracer.Trace(ctx, func(ctx context.Context) error {
//		return tracer.Span(ctx, "checkout", func(ctx context.Context) error {
//			tracer.AddEvent(ctx, "cart-loaded", skein.Attributes{"items": 3})
//			return chargeCard(ctx)
//		})
//	})
//
// Context Propagation:
//
// The active trace/span identity travels in the context.Context passed to
// each callback. Child spans read their parent from the incoming context
// and hand a derived context to their own callback; the caller's context
// is untouched on every exit path, so sibling work is never attributed to
// a finished span. Propagation is per goroutine by construction - handing
// work to another goroutine means passing the context explicitly.
//
// Thread Safety:
//
// Tracer and Collector are safe for concurrent use by multiple
// goroutines. All trace state lives in the Collector and every mutation
// is serialized through it; snapshots returned by the Collector are deep
// copies and cannot be written back.
//
// Error Handling:
//
// Tracing is invisible on the failure path: an error or panic inside a
// traced callback finishes the span with StatusError, still exports and
// discards the trace, and propagates the original failure unchanged.
// Exporter failures are logged and never reach the traced operation.
package skein

// Key represents a span operation name.
type Key = string

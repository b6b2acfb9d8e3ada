package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/skeinlabs/skein"
)

// TestConcurrentSpansOneTrace verifies that many goroutines opening
// spans and annotating inside one trace lose nothing: exactly one entry
// per span, every annotation applied, every span finished.
func TestConcurrentSpansOneTrace(t *testing.T) {
	exporter := &captureExporter{}
	tracer := skein.New(skein.WithExporters(exporter))
	defer tracer.Close()

	numWorkers := 8
	spansPerWorker := 25

	err := tracer.Trace(context.Background(), func(ctx context.Context) error {
		return tracer.Span(ctx, "fan-out", func(ctx context.Context) error {
			var wg sync.WaitGroup
			for w := 0; w < numWorkers; w++ {
				wg.Add(1)
				// Crossing the goroutine boundary requires handing the
				// context over explicitly.
				go func(ctx context.Context, w int) {
					defer wg.Done()
					for i := 0; i < spansPerWorker; i++ {
						_ = tracer.Span(ctx, fmt.Sprintf("w%d-op%d", w, i),
							func(ctx context.Context) error {
								tracer.AddEvent(ctx, "tick", skein.Attributes{"worker": w})
								tracer.SetAttributes(ctx, skein.Attributes{"iteration": i})
								return nil
							})
					}
				}(ctx, w)
			}
			wg.Wait()
			return nil
		})
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	traces := exporter.exported()
	if len(traces) != 1 {
		t.Fatalf("Expected 1 trace, got %d", len(traces))
	}
	trace := traces[0]

	wantSpans := 1 + numWorkers*spansPerWorker
	if len(trace.Spans) != wantSpans {
		t.Fatalf("Expected %d spans, got %d", wantSpans, len(trace.Spans))
	}

	byName := spansByName(trace)
	parent := byName["fan-out"]

	seen := make(map[string]bool)
	for _, span := range trace.Spans {
		if seen[span.SpanID] {
			t.Errorf("Duplicate span entry: %s", span.SpanID)
		}
		seen[span.SpanID] = true

		if !span.Finished() {
			t.Errorf("Span %s was never finished", span.Name)
		}
		if span.Name == "fan-out" {
			continue
		}
		if span.ParentSpanID != parent.SpanID {
			t.Errorf("Span %s attached to wrong parent: %s", span.Name, span.ParentSpanID)
		}
		if len(span.Events) != 1 {
			t.Errorf("Span %s lost its event: %d events", span.Name, len(span.Events))
		}
		if _, ok := span.Attributes["iteration"]; !ok {
			t.Errorf("Span %s lost its attributes: %v", span.Name, span.Attributes)
		}
	}
}

// TestInterleavedTraces verifies that concurrent traces never bleed
// spans into each other and are each exported and discarded.
func TestInterleavedTraces(t *testing.T) {
	exporter := &captureExporter{}
	tracer := skein.New(skein.WithExporters(exporter))
	defer tracer.Close()

	numTraces := 16
	spansPerTrace := 10

	var wg sync.WaitGroup
	for i := 0; i < numTraces; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = tracer.TraceWith(context.Background(), skein.Attributes{"owner": i},
				func(ctx context.Context) error {
					for s := 0; s < spansPerTrace; s++ {
						_ = tracer.Span(ctx, fmt.Sprintf("op-%d", s), func(ctx context.Context) error {
							tracer.SetAttributes(ctx, skein.Attributes{"owner": i})
							return nil
						})
					}
					return nil
				})
		}(i)
	}
	wg.Wait()

	traces := exporter.exported()
	if len(traces) != numTraces {
		t.Fatalf("Expected %d traces, got %d", numTraces, len(traces))
	}

	for _, trace := range traces {
		if len(trace.Spans) != spansPerTrace {
			t.Errorf("Trace %s has %d spans, expected %d", trace.TraceID, len(trace.Spans), spansPerTrace)
		}
		owner := trace.Metadata["owner"]
		for _, span := range trace.Spans {
			if span.Attributes["owner"] != owner {
				t.Errorf("Trace %s (owner %v) contains span owned by %v",
					trace.TraceID, owner, span.Attributes["owner"])
			}
		}
	}

	if tracer.Collector().Count() != 0 {
		t.Errorf("Expected all traces discarded, got %d in flight", tracer.Collector().Count())
	}
}

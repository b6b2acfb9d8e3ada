package integration

import (
	"context"
	"errors"
	"testing"

	"github.com/skeinlabs/skein"
)

// TestContextHandoffToWorker verifies that explicitly handing the
// context to another goroutine attributes its spans to the right parent.
func TestContextHandoffToWorker(t *testing.T) {
	exporter := &captureExporter{}
	tracer := skein.New(skein.WithExporters(exporter))
	defer tracer.Close()

	err := tracer.Trace(context.Background(), func(ctx context.Context) error {
		return tracer.Span(ctx, "dispatcher", func(ctx context.Context) error {
			done := make(chan error, 1)
			go func(ctx context.Context) {
				done <- tracer.Span(ctx, "worker", func(ctx context.Context) error {
					tracer.AddEvent(ctx, "processed", nil)
					return nil
				})
			}(ctx)
			return <-done
		})
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	trace := exporter.exported()[0]
	byName := spansByName(trace)

	dispatcher := byName["dispatcher"]
	worker := byName["worker"]
	if worker.ParentSpanID != dispatcher.SpanID {
		t.Errorf("Worker span attached to %s, expected dispatcher %s",
			worker.ParentSpanID, dispatcher.SpanID)
	}
	if len(worker.Events) != 1 || worker.Events[0].Name != "processed" {
		t.Errorf("Worker span lost its event: %v", worker.Events)
	}
}

// TestSiblingAfterFailure verifies that a sibling started after a failed
// span attaches to the shared parent, never to the failed sibling.
func TestSiblingAfterFailure(t *testing.T) {
	exporter := &captureExporter{}
	tracer := skein.New(skein.WithExporters(exporter))
	defer tracer.Close()

	err := tracer.Trace(context.Background(), func(ctx context.Context) error {
		return tracer.Span(ctx, "parent", func(ctx context.Context) error {
			_ = tracer.Span(ctx, "first-child", func(_ context.Context) error {
				return errors.New("first child fails")
			})
			return tracer.Span(ctx, "second-child", func(_ context.Context) error {
				return nil
			})
		})
	})
	if err != nil {
		t.Fatalf("Expected parent to succeed, got %v", err)
	}

	trace := exporter.exported()[0]
	byName := spansByName(trace)

	parent := byName["parent"]
	first := byName["first-child"]
	second := byName["second-child"]

	if first.Status != skein.StatusError {
		t.Errorf("Expected first child marked error, got %s", first.Status)
	}
	if second.Status != skein.StatusOK {
		t.Errorf("Expected second child ok, got %s", second.Status)
	}
	if second.ParentSpanID != parent.SpanID {
		t.Errorf("Second child attached to %s, expected parent %s",
			second.ParentSpanID, parent.SpanID)
	}
	if second.ParentSpanID == first.SpanID {
		t.Error("Second child wrongly attributed to its failed sibling")
	}
}

// TestNoImplicitCrossTraceLeak verifies that a goroutine started with a
// plain background context records nothing: propagation is explicit.
func TestNoImplicitCrossTraceLeak(t *testing.T) {
	exporter := &captureExporter{}
	tracer := skein.New(skein.WithExporters(exporter))
	defer tracer.Close()

	err := tracer.Trace(context.Background(), func(_ context.Context) error {
		done := make(chan struct{})
		go func() {
			// Deliberately NOT handed the trace context.
			_ = tracer.Span(context.Background(), "untracked", func(_ context.Context) error {
				return nil
			})
			close(done)
		}()
		<-done
		return nil
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	trace := exporter.exported()[0]
	if len(trace.Spans) != 0 {
		t.Errorf("Expected no spans from the detached goroutine, got %d", len(trace.Spans))
	}
}

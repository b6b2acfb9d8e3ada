package skein

// Exporter is a pluggable sink for completed traces. The tracer invokes
// exporters synchronously and sequentially, in configured order, exactly
// once per completed trace. A failing exporter is logged and skipped; it
// is never retried and never blocks the next exporter or the traced
// operation. The trace argument is a snapshot owned by the exporter for
// the duration of the call and safe to retain.
type Exporter interface {
	Export(trace Trace) error
	// Shutdown releases any resources held by the exporter. Called once
	// when the owning tracer closes.
	Shutdown() error
}

// ExporterFunc adapts a function to the Exporter interface with a no-op
// Shutdown.
type ExporterFunc func(trace Trace) error

// Export implements Exporter.
func (f ExporterFunc) Export(trace Trace) error { return f(trace) }

// Shutdown implements Exporter.
func (ExporterFunc) Shutdown() error { return nil }

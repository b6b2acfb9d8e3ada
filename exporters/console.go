package exporters

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/skeinlabs/skein"
)

// Console renders each completed trace as a human-readable indented
// tree, root spans first, one line per span:
//
//	{indent}▸ {name} ({duration}) {✓|✗}
//
// Verbose mode dumps span attributes and events under each line.
type Console struct {
	w       io.Writer
	verbose bool
	mu      sync.Mutex // Serializes whole-trace writes to the sink.
}

// ConsoleOptions configure a Console exporter.
type ConsoleOptions struct {
	// Verbose dumps attributes and events under each span line.
	Verbose bool `yaml:"verbose"`
}

// NewConsole creates a console exporter writing to stdout.
func NewConsole(opts ConsoleOptions) *Console {
	return NewConsoleWriter(os.Stdout, opts)
}

// NewConsoleWriter creates a console exporter writing to w.
func NewConsoleWriter(w io.Writer, opts ConsoleOptions) *Console {
	return &Console{w: w, verbose: opts.Verbose}
}

// Export implements skein.Exporter.
func (c *Console) Export(trace skein.Trace) error {
	var b strings.Builder
	fmt.Fprintf(&b, "trace %s (%d spans)\n", trace.TraceID, len(trace.Spans))
	for _, root := range trace.RootSpans() {
		c.writeSpan(&b, trace, root, 0)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := io.WriteString(c.w, b.String()); err != nil {
		return fmt.Errorf("write trace %s: %w", trace.TraceID, err)
	}
	return nil
}

func (c *Console) writeSpan(b *strings.Builder, trace skein.Trace, span skein.Span, depth int) {
	indent := strings.Repeat("  ", depth)
	mark := "✓"
	if span.Status == skein.StatusError {
		mark = "✗"
	}
	fmt.Fprintf(b, "%s▸ %s (%s) %s\n", indent, span.Name, spanDuration(span), mark)

	if c.verbose {
		for k, v := range span.Attributes {
			fmt.Fprintf(b, "%s    %s=%v\n", indent, k, v)
		}
		for _, e := range span.Events {
			fmt.Fprintf(b, "%s    @%d %s %v\n", indent, e.Timestamp, e.Name, e.Attributes)
		}
	}

	for _, child := range trace.Children(span.SpanID) {
		c.writeSpan(b, trace, child, depth+1)
	}
}

// spanDuration renders a span's duration; spans that were never finished
// show as "open".
func spanDuration(span skein.Span) string {
	micros, ok := span.Duration()
	if !ok {
		return "open"
	}
	return (time.Duration(micros) * time.Microsecond).String()
}

// Shutdown implements skein.Exporter.
func (*Console) Shutdown() error { return nil }

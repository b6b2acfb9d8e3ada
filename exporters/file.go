// Package exporters provides the built-in trace sinks and the ordered
// pipeline configuration that instantiates them. Exporters own their
// error handling and durability; the engine itself retains nothing once
// a trace has been handed over.
package exporters

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/zoobzio/clockz"

	"github.com/skeinlabs/skein"
)

// File writes each completed trace to its own JSON file named
// {trace_id}_{unix_seconds}.json inside the configured directory.
type File struct {
	dir    string
	pretty bool
	clock  clockz.Clock
}

// FileOptions configure a File exporter.
type FileOptions struct {
	// Dir is the output directory, created if missing.
	// Defaults to the working directory.
	Dir string `yaml:"dir"`
	// Pretty indents the JSON output for human reading.
	Pretty bool `yaml:"pretty"`
}

// NewFile creates a file exporter, creating the output directory if
// needed.
func NewFile(opts FileOptions) (*File, error) {
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	return &File{
		dir:    dir,
		pretty: opts.Pretty,
		clock:  clockz.RealClock,
	}, nil
}

// Export implements skein.Exporter. A write failure surfaces as an error
// to the tracer's diagnostics and never reaches the traced operation.
func (f *File) Export(trace skein.Trace) error {
	var (
		data []byte
		err  error
	)
	if f.pretty {
		data, err = sonic.MarshalIndent(trace, "", "  ")
	} else {
		data, err = sonic.Marshal(trace)
	}
	if err != nil {
		return fmt.Errorf("encode trace %s: %w", trace.TraceID, err)
	}

	name := fmt.Sprintf("%s_%d.json", trace.TraceID, f.clock.Now().Unix())
	if err := os.WriteFile(filepath.Join(f.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write trace %s: %w", trace.TraceID, err)
	}
	return nil
}

// Shutdown implements skein.Exporter. Each trace file is closed at write
// time, so there is nothing to release.
func (*File) Shutdown() error { return nil }

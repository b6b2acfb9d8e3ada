package skein

// Status marks whether a span's unit of work succeeded.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Span represents a single timed unit of work within a trace. Timestamps
// are microseconds; EndTime is zero until the span is finished.
//
// Spans are values: every mutation helper returns a new Span and leaves
// the receiver untouched, so a snapshot handed to one goroutine can never
// be torn by another. All shared span state lives in the Collector and is
// only changed through Collector.UpdateSpan.
//
//nolint:govet // Field order matches the export serialization order
type Span struct {
	SpanID       string     `json:"span_id"`
	ParentSpanID string     `json:"parent_span_id,omitempty"`
	Name         string     `json:"name"`
	StartTime    int64      `json:"start_time"`
	EndTime      int64      `json:"end_time,omitempty"`
	Attributes   Attributes `json:"attributes,omitempty"`
	Events       []Event    `json:"events,omitempty"`
	Status       Status     `json:"status"`
}

// newSpan creates an unfinished span. An empty parentID makes it a root.
func newSpan(spanID, parentID string, operation Key, start int64) Span {
	return Span{
		SpanID:       spanID,
		ParentSpanID: parentID,
		Name:         string(operation),
		StartTime:    start,
		Status:       StatusOK,
	}
}

// Root reports whether the span has no parent.
func (s Span) Root() bool { return s.ParentSpanID == "" }

// Finished reports whether the span has been completed.
func (s Span) Finished() bool { return s.EndTime != 0 }

// Duration returns the span's duration in microseconds.
// ok is false while the span is unfinished.
func (s Span) Duration() (micros int64, ok bool) {
	if !s.Finished() {
		return 0, false
	}
	return s.EndTime - s.StartTime, true
}

// WithAttributes returns a copy with attrs merged into the span's
// attributes, later writes overriding earlier keys.
func (s Span) WithAttributes(attrs Attributes) Span {
	s.Attributes = s.Attributes.merged(attrs)
	return s
}

// WithEvent returns a copy with event appended. Insertion order is
// preserved; events are never reordered or removed.
func (s Span) WithEvent(event Event) Span {
	events := make([]Event, len(s.Events), len(s.Events)+1)
	copy(events, s.Events)
	s.Events = append(events, event)
	return s
}

// Finish returns a copy marked complete with the given end time and
// status. Finishing an already-finished span returns it unchanged. An end
// time earlier than the start time is clamped to the start time so that
// EndTime >= StartTime always holds.
func (s Span) Finish(end int64, status Status) Span {
	if s.Finished() {
		return s
	}
	if end < s.StartTime {
		end = s.StartTime
	}
	s.EndTime = end
	s.Status = status
	return s
}

// clone returns a deep copy: attribute maps and the event sequence are
// independent of the receiver's.
func (s Span) clone() Span {
	s.Attributes = s.Attributes.clone()
	if s.Events != nil {
		events := make([]Event, len(s.Events))
		for i, e := range s.Events {
			events[i] = e.clone()
		}
		s.Events = events
	}
	return s
}

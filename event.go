package skein

// Attributes holds arbitrary key-value annotations on traces, spans and
// events. Insertion order is irrelevant; later writes override earlier
// keys with the same name.
type Attributes map[string]any

// merged returns a copy of a with overrides applied on top.
// Neither input is mutated.
func (a Attributes) merged(overrides Attributes) Attributes {
	if len(a) == 0 && len(overrides) == 0 {
		return nil
	}
	out := make(Attributes, len(a)+len(overrides))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}

// clone returns an independent copy of a. Values are copied shallowly;
// callers must not hand in attribute values they intend to mutate.
func (a Attributes) clone() Attributes {
	if a == nil {
		return nil
	}
	out := make(Attributes, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Event is a point-in-time annotation inside a span. Events are created
// at the moment of annotation and never mutated afterwards; they are
// owned by the span they are appended to.
type Event struct {
	Name       string     `json:"name"`
	Timestamp  int64      `json:"timestamp"`
	Attributes Attributes `json:"attributes,omitempty"`
}

// clone returns an independent copy of the event.
func (e Event) clone() Event {
	e.Attributes = e.Attributes.clone()
	return e
}

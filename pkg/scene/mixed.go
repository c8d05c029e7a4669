package scene

import (
	"bytes"
	"encoding/json"
)

// mixedMarker is how exporters encode a property whose value differs across
// an ambiguous aggregate (for example a text node with several font sizes).
const mixedMarker = "MIXED"

// Mixed is a style-bearing property that is either unset, resolved to a
// single value, or mixed.
type Mixed[T any] struct {
	value T
	set   bool
	mixed bool
}

// Resolved returns a property holding v.
func Resolved[T any](v T) Mixed[T] {
	return Mixed[T]{value: v, set: true}
}

// MixedValue returns a property in the mixed state.
func MixedValue[T any]() Mixed[T] {
	return Mixed[T]{set: true, mixed: true}
}

// IsMixed reports whether the property is mixed.
func (m Mixed[T]) IsMixed() bool { return m.mixed }

// IsSet reports whether the property carries a resolved value or the mixed marker.
func (m Mixed[T]) IsSet() bool { return m.set }

// Get returns the resolved value. ok is false when the property is unset or mixed.
func (m Mixed[T]) Get() (v T, ok bool) {
	if !m.set || m.mixed {
		return v, false
	}
	return m.value, true
}

// Value returns the resolved value, or the zero value when unset or mixed.
func (m Mixed[T]) Value() T {
	v, _ := m.Get()
	return v
}

// UnmarshalJSON accepts "MIXED", {"mixed": true}, null, or a plain T.
func (m *Mixed[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*m = Mixed[T]{}
		return nil
	}
	if isMixedMarker(trimmed) {
		*m = MixedValue[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	*m = Resolved(v)
	return nil
}

// MarshalJSON writes the mixed marker, null for unset, or the value.
func (m Mixed[T]) MarshalJSON() ([]byte, error) {
	switch {
	case !m.set:
		return []byte("null"), nil
	case m.mixed:
		return json.Marshal(mixedMarker)
	default:
		return json.Marshal(m.value)
	}
}

func isMixedMarker(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return false
		}
		return s == mixedMarker
	case '{':
		var probe struct {
			Mixed *bool `json:"mixed"`
		}
		if err := json.Unmarshal(data, &probe); err != nil {
			return false
		}
		return probe.Mixed != nil && *probe.Mixed
	}
	return false
}

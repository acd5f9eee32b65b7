package console

import (
	"bytes"
	"encoding/json"
)

// Keyed values can report their own identifier when they arrive embedded.
type Keyed interface {
	RefKey() string
}

// Ref is a foreign key of ambiguous backend shape: some endpoints return a
// bare identifier string, others a pre-populated nested object. Ref models
// that as a tagged union so display logic never has to branch on dynamic
// shape again.
type Ref[T Keyed] struct {
	id    string
	value *T
}

// UnresolvedRef references a foreign row by id only.
func UnresolvedRef[T Keyed](id string) Ref[T] {
	return Ref[T]{id: id}
}

// ResolvedRef wraps an embedded value.
func ResolvedRef[T Keyed](value T) Ref[T] {
	return Ref[T]{id: value.RefKey(), value: &value}
}

// ID returns the foreign identifier, empty when the reference is absent.
func (r Ref[T]) ID() string { return r.id }

// IsZero reports an absent reference: no id and no embedded value.
func (r Ref[T]) IsZero() bool { return r.id == "" && r.value == nil }

// Resolved returns the embedded value when present.
func (r Ref[T]) Resolved() (T, bool) {
	if r.value != nil {
		return *r.value, true
	}
	var zero T
	return zero, false
}

// Resolve attaches a looked-up value, producing a resolved reference.
func (r Ref[T]) Resolve(value T) Ref[T] {
	id := r.id
	if id == "" {
		id = value.RefKey()
	}
	return Ref[T]{id: id, value: &value}
}

// UnmarshalJSON accepts both backend shapes: "..." (bare id) and {...}
// (embedded object). null decodes to the zero reference.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = Ref[T]{}
		return nil
	}
	if trimmed[0] == '"' {
		var id string
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return err
		}
		*r = Ref[T]{id: id}
		return nil
	}
	var value T
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return err
	}
	*r = Ref[T]{id: value.RefKey(), value: &value}
	return nil
}

// MarshalJSON emits the embedded object when resolved, otherwise the id.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.value != nil {
		return json.Marshal(*r.value)
	}
	if r.id == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.id)
}

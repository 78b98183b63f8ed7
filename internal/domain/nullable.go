package domain

import (
	"bytes"
	"encoding/json"
)

// Nullable is one field of a partial update on a nullable column. The zero
// value leaves the column alone, Null clears it and Some writes a value.
//
// Decoded from JSON, an absent key stays unset and an explicit null clears.
type Nullable[T any] struct {
	Set   bool
	Value *T
}

// Some returns a Nullable that writes v.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: &v}
}

// Null returns a Nullable that clears the column.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true}
}

// IsNull reports an explicit clear.
func (n Nullable[T]) IsNull() bool {
	return n.Set && n.Value == nil
}

// Map converts the value, keeping the set and null states.
func Map[T, U any](n Nullable[T], f func(T) U) Nullable[U] {
	if n.Value == nil {
		return Nullable[U]{Set: n.Set}
	}
	return Some(f(*n.Value))
}

func (n Nullable[T]) applyTo(dst **T) {
	if n.Set {
		*dst = n.Value
	}
}

// UnmarshalJSON only runs when the key is present.
func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	n.Value = &v
	return nil
}

// MarshalJSON writes null for unset and cleared fields.
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

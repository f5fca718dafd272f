// Package result holds the typed, read-only view over the values a script produced in one run.
package result

import (
	"fmt"
)

// Set is the ordered result of one completed run. It is never modified after construction,
// so it is safe to read from any goroutine.
type Set struct {
	items []Item
}

// Empty returns a set with no items, as produced by a stopped run.
func Empty() *Set {
	return &Set{}
}

// New builds a set from already-converted items.
func New(items ...Item) *Set {
	return &Set{items: append([]Item(nil), items...)}
}

// FromValues converts the top-level values returned by an engine into a Set.
func FromValues(values []any) *Set {
	items := make([]Item, 0, len(values))
	for _, v := range values {
		items = append(items, FromValue(v))
	}
	return &Set{items: items}
}

// Len returns the number of items.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Item returns the item at ordinal i.
func (s *Set) Item(i int) (Item, error) {
	if i < 0 || i >= s.Len() {
		return Item{}, fmt.Errorf("%w: item %d, length %d", ErrIndexOutOfRange, i, s.Len())
	}
	return s.items[i], nil
}

// StringAt returns the string scalar at ordinal item.
func (s *Set) StringAt(item int) (string, error) {
	it, err := s.Item(item)
	if err != nil {
		return "", err
	}
	v, err := it.AsString()
	if err != nil {
		return "", fmt.Errorf("item %d: %w", item, err)
	}
	return v, nil
}

// IntAt returns the integer scalar at ordinal item.
func (s *Set) IntAt(item int) (int64, error) {
	it, err := s.Item(item)
	if err != nil {
		return 0, err
	}
	v, err := it.AsInt()
	if err != nil {
		return 0, fmt.Errorf("item %d: %w", item, err)
	}
	return v, nil
}

// FieldString returns the named string field of the record at ordinal item.
func (s *Set) FieldString(item int, field string) (string, error) {
	f, err := s.field(item, field)
	if err != nil {
		return "", err
	}
	v, err := f.AsString()
	if err != nil {
		return "", fmt.Errorf("item %d field %q: %w", item, field, err)
	}
	return v, nil
}

// FieldInt returns the named integer field of the record at ordinal item.
func (s *Set) FieldInt(item int, field string) (int64, error) {
	f, err := s.field(item, field)
	if err != nil {
		return 0, err
	}
	v, err := f.AsInt()
	if err != nil {
		return 0, fmt.Errorf("item %d field %q: %w", item, field, err)
	}
	return v, nil
}

func (s *Set) field(item int, field string) (Item, error) {
	it, err := s.Item(item)
	if err != nil {
		return Item{}, err
	}
	f, err := it.Field(field)
	if err != nil {
		return Item{}, fmt.Errorf("item %d: %w", item, err)
	}
	return f, nil
}

// Values returns all items as plain Go values, for JSON output.
func (s *Set) Values() []any {
	out := make([]any, 0, s.Len())
	for i := range s.Len() {
		out = append(out, s.items[i].Value())
	}
	return out
}

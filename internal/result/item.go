package result

import (
	"fmt"
	"maps"
	"math"
	"slices"
)

// Kind identifies what an Item holds.
type Kind int

const (
	KindUnsupported Kind = iota
	KindString
	KindInt
	KindRecord
)

// String returns a string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindRecord:
		return "record"
	case KindUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Item is one element of a result set: a scalar (string or int) or a record of scalars.
// Values of any other type are kept as KindUnsupported so that typed accessors fail instead
// of coercing them.
type Item struct {
	kind   Kind
	str    string
	num    int64
	raw    any
	fields map[string]Item
}

// StringItem builds a string scalar.
func StringItem(s string) Item {
	return Item{kind: KindString, str: s}
}

// IntItem builds an integer scalar.
func IntItem(n int64) Item {
	return Item{kind: KindInt, num: n}
}

// RecordItem builds a record from already-converted fields. Non-scalar fields are stored as
// unsupported.
func RecordItem(fields map[string]Item) Item {
	out := make(map[string]Item, len(fields))
	for k, v := range fields {
		if v.kind == KindRecord {
			v = Item{kind: KindUnsupported, raw: v.Value()}
		}
		out[k] = v
	}
	return Item{kind: KindRecord, fields: out}
}

// Kind returns the kind of the item.
func (i Item) Kind() Kind {
	return i.kind
}

// IsScalar reports whether the item is a string or an integer.
func (i Item) IsScalar() bool {
	return i.kind == KindString || i.kind == KindInt
}

// AsString returns the string value or ErrTypeMismatch.
func (i Item) AsString() (string, error) {
	if i.kind != KindString {
		return "", mismatch(KindString, i.kind)
	}
	return i.str, nil
}

// AsInt returns the integer value or ErrTypeMismatch.
func (i Item) AsInt() (int64, error) {
	if i.kind != KindInt {
		return 0, mismatch(KindInt, i.kind)
	}
	return i.num, nil
}

// Field returns the named field of a record item.
func (i Item) Field(name string) (Item, error) {
	if i.kind != KindRecord {
		return Item{}, fmt.Errorf("%w: %s item has no fields", ErrTypeMismatch, i.kind)
	}
	f, ok := i.fields[name]
	if !ok {
		return Item{}, fmt.Errorf("%w: %q", ErrFieldNotFound, name)
	}
	return f, nil
}

// FieldNames returns the record's field names in sorted order, or nil for scalars.
func (i Item) FieldNames() []string {
	if i.kind != KindRecord {
		return nil
	}
	return slices.Sorted(maps.Keys(i.fields))
}

// Value returns the item as a plain Go value suitable for JSON encoding.
func (i Item) Value() any {
	switch i.kind {
	case KindString:
		return i.str
	case KindInt:
		return i.num
	case KindRecord:
		out := make(map[string]any, len(i.fields))
		for k, v := range i.fields {
			out[k] = v.Value()
		}
		return out
	default:
		return i.raw
	}
}

// String renders the item for trace output.
func (i Item) String() string {
	switch i.kind {
	case KindString:
		return fmt.Sprintf("%q", i.str)
	case KindInt:
		return fmt.Sprintf("%d", i.num)
	case KindRecord:
		return fmt.Sprintf("record(%d fields)", len(i.fields))
	default:
		if o, ok := i.raw.(Opaque); ok {
			return fmt.Sprintf("unsupported(%s %s)", o.Type, o.Repr)
		}
		return fmt.Sprintf("unsupported(%T)", i.raw)
	}
}

// Opaque stands in for an engine value that has no result kind, such as a function or an
// integer wider than int64. It keeps the engine's type name and rendering for display; the
// typed accessors reject it.
type Opaque struct {
	Type string `json:"type"`
	Repr string `json:"repr"`
}

func (o Opaque) String() string {
	return o.Repr
}

func mismatch(want, got Kind) error {
	return fmt.Errorf("%w: want %s, stored %s", ErrTypeMismatch, want, got)
}

// FromValue converts a plain Go value produced by an engine into an Item.
func FromValue(v any) Item {
	switch t := v.(type) {
	case string:
		return StringItem(t)
	case []byte:
		return StringItem(string(t))
	case int:
		return IntItem(int64(t))
	case int8:
		return IntItem(int64(t))
	case int16:
		return IntItem(int64(t))
	case int32:
		return IntItem(int64(t))
	case int64:
		return IntItem(t)
	case uint8:
		return IntItem(int64(t))
	case uint16:
		return IntItem(int64(t))
	case uint32:
		return IntItem(int64(t))
	case uint:
		if uint64(t) > math.MaxInt64 {
			return Item{kind: KindUnsupported, raw: v}
		}
		return IntItem(int64(t))
	case uint64:
		if t > math.MaxInt64 {
			return Item{kind: KindUnsupported, raw: v}
		}
		return IntItem(int64(t))
	case map[string]any:
		fields := make(map[string]Item, len(t))
		for k, fv := range t {
			fields[k] = FromValue(fv)
		}
		return RecordItem(fields)
	case map[string]string:
		fields := make(map[string]Item, len(t))
		for k, fv := range t {
			fields[k] = StringItem(fv)
		}
		return RecordItem(fields)
	default:
		return Item{kind: KindUnsupported, raw: v}
	}
}

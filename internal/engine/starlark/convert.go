package starlark

import (
	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/atlanticdynamic/scriptsvc/internal/result"
)

const maxConvertDepth = 32

// toGo converts a Starlark value into plain Go values. Integers that do not fit in int64,
// values nested deeper than maxConvertDepth and types with no Go counterpart become
// result.Opaque, so typed result reads reject them.
func toGo(v starlark.Value) any {
	return convert(v, 0)
}

func convert(v starlark.Value, depth int) any {
	if depth > maxConvertDepth {
		return opaque(v)
	}
	switch t := v.(type) {
	case starlark.NoneType:
		return nil
	case starlark.Bool:
		return bool(t)
	case starlark.Int:
		if n, ok := t.Int64(); ok {
			return n
		}
		return opaque(t)
	case starlark.Float:
		return float64(t)
	case starlark.String:
		return string(t)
	case starlark.Bytes:
		return string(t)
	case *starlark.List:
		out := make([]any, 0, t.Len())
		for i := range t.Len() {
			out = append(out, convert(t.Index(i), depth+1))
		}
		return out
	case starlark.Tuple:
		out := make([]any, 0, len(t))
		for _, e := range t {
			out = append(out, convert(e, depth+1))
		}
		return out
	case *starlark.Dict:
		out := make(map[string]any, t.Len())
		for _, kv := range t.Items() {
			out[keyString(kv[0])] = convert(kv[1], depth+1)
		}
		return out
	case *starlarkstruct.Struct:
		d := make(starlark.StringDict)
		t.ToStringDict(d)
		out := make(map[string]any, len(d))
		for k, fv := range d {
			out[k] = convert(fv, depth+1)
		}
		return out
	default:
		return opaque(v)
	}
}

func opaque(v starlark.Value) result.Opaque {
	return result.Opaque{Type: v.Type(), Repr: v.String()}
}

// keyString names a record field. Field names are always strings, so non-string keys use
// their Starlark rendering.
func keyString(k starlark.Value) string {
	if s, ok := starlark.AsString(k); ok {
		return s
	}
	return k.String()
}

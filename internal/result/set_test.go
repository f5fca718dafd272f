package result

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func httpLikeSet() *Set {
	return FromValues([]any{
		map[string]any{"code": int64(200), "body": "ok"},
		"done",
	})
}

func TestSet_RecordAndScalar(t *testing.T) {
	t.Parallel()
	s := httpLikeSet()
	require.Equal(t, 2, s.Len())

	code, err := s.FieldInt(0, "code")
	require.NoError(t, err)
	assert.Equal(t, int64(200), code)

	body, err := s.FieldString(0, "body")
	require.NoError(t, err)
	assert.Equal(t, "ok", body)

	done, err := s.StringAt(1)
	require.NoError(t, err)
	assert.Equal(t, "done", done)
}

func TestSet_Errors(t *testing.T) {
	t.Parallel()
	s := httpLikeSet()

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"string past end", func() error { _, err := s.StringAt(2); return err }, ErrIndexOutOfRange},
		{"negative index", func() error { _, err := s.IntAt(-1); return err }, ErrIndexOutOfRange},
		{"field on scalar", func() error { _, err := s.FieldString(1, "body"); return err }, ErrTypeMismatch},
		{"missing field", func() error { _, err := s.FieldInt(0, "status"); return err }, ErrFieldNotFound},
		{"field type mismatch", func() error { _, err := s.FieldInt(0, "body"); return err }, ErrTypeMismatch},
		{"int on string", func() error { _, err := s.IntAt(1); return err }, ErrTypeMismatch},
		{"string on record", func() error { _, err := s.StringAt(0); return err }, ErrTypeMismatch},
		{"field past end", func() error { _, err := s.FieldString(5, "x"); return err }, ErrIndexOutOfRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSet_NoCoercion(t *testing.T) {
	t.Parallel()
	s := FromValues([]any{"42", int64(7), 3.5, nil, []any{1, 2}})

	_, err := s.IntAt(0)
	require.ErrorIs(t, err, ErrTypeMismatch)

	_, err = s.StringAt(1)
	require.ErrorIs(t, err, ErrTypeMismatch)

	for i := 2; i < s.Len(); i++ {
		it, err := s.Item(i)
		require.NoError(t, err)
		assert.Equal(t, KindUnsupported, it.Kind())
		_, err = s.StringAt(i)
		require.ErrorIs(t, err, ErrTypeMismatch)
		_, err = s.IntAt(i)
		require.ErrorIs(t, err, ErrTypeMismatch)
	}
}

func TestFromValue_Integers(t *testing.T) {
	t.Parallel()
	for _, v := range []any{int(5), int8(5), int16(5), int32(5), int64(5), uint8(5), uint16(5), uint32(5), uint(5), uint64(5)} {
		it := FromValue(v)
		n, err := it.AsInt()
		require.NoError(t, err, "%T", v)
		assert.Equal(t, int64(5), n)
	}

	assert.Equal(t, KindUnsupported, FromValue(uint64(math.MaxUint64)).Kind())
}

func TestFromValue_NestedRecordFieldUnsupported(t *testing.T) {
	t.Parallel()
	it := FromValue(map[string]any{
		"name":  "svc",
		"inner": map[string]any{"a": int64(1)},
	})
	require.Equal(t, KindRecord, it.Kind())
	assert.Equal(t, []string{"inner", "name"}, it.FieldNames())

	inner, err := it.Field("inner")
	require.NoError(t, err)
	assert.Equal(t, KindUnsupported, inner.Kind())
	assert.Equal(t, map[string]any{"a": int64(1)}, inner.Value())
}

func TestSet_EmptyAndNil(t *testing.T) {
	t.Parallel()
	var nilSet *Set
	assert.Equal(t, 0, nilSet.Len())
	_, err := nilSet.StringAt(0)
	require.ErrorIs(t, err, ErrIndexOutOfRange)

	e := Empty()
	assert.Equal(t, 0, e.Len())
	assert.Empty(t, e.Values())
}

func TestSet_Values(t *testing.T) {
	t.Parallel()
	s := httpLikeSet()
	assert.Equal(t, []any{
		map[string]any{"code": int64(200), "body": "ok"},
		"done",
	}, s.Values())
}

func TestSet_NewCopiesItems(t *testing.T) {
	t.Parallel()
	items := []Item{StringItem("a"), IntItem(1)}
	s := New(items...)
	items[0] = StringItem("changed")

	v, err := s.StringAt(0)
	require.NoError(t, err)
	assert.Equal(t, "a", v)
}

func TestSet_Tree(t *testing.T) {
	t.Parallel()
	out := httpLikeSet().Tree("Results")
	assert.Contains(t, out, "Results")
	assert.Contains(t, out, "code")
	assert.Contains(t, out, "200")
	assert.Contains(t, out, `"done"`)
}

func TestKind_String(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "string", KindString.String())
	assert.Equal(t, "int", KindInt.String())
	assert.Equal(t, "record", KindRecord.String())
	assert.Equal(t, "unsupported", KindUnsupported.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
}

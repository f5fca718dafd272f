package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"", TypeStarlark, false},
		{"starlark", TypeStarlark, false},
		{" Risor ", TypeRisor, false},
		{"lua", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseType(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownEngine)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpandResult(t *testing.T) {
	t.Parallel()
	assert.Nil(t, ExpandResult(nil))
	assert.Equal(t, []any{"a", int64(1)}, ExpandResult([]any{"a", int64(1)}))
	assert.Equal(t, []any{"x"}, ExpandResult("x"))
	assert.Equal(t, []any{map[string]any{"k": "v"}}, ExpandResult(map[string]any{"k": "v"}))

	in := []any{"a"}
	out := ExpandResult(in)
	out[0] = "b"
	assert.Equal(t, "a", in[0])
}

func TestSource(t *testing.T) {
	t.Parallel()

	_, err := SourceFromString("inline", "   \n")
	require.ErrorIs(t, err, ErrEmptySource)

	src, err := SourceFromString("inline", "x = 1")
	require.NoError(t, err)
	assert.Empty(t, src.Dir())

	dir := t.TempDir()
	path := filepath.Join(dir, "main.star")
	require.NoError(t, os.WriteFile(path, []byte("x = 1\n"), 0o600))

	src, err = SourceFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, src.Name)
	assert.Equal(t, dir, src.Dir())

	_, err = SourceFromFile(filepath.Join(dir, "missing.star"))
	require.Error(t, err)
}

func TestNewOptions(t *testing.T) {
	t.Parallel()
	paths := []string{"/a", "/b/?.star"}
	o := NewOptions(WithServiceName("svc", ""), WithSearchPaths(paths...))
	assert.Equal(t, "svc", o.ServiceName)
	assert.Equal(t, "svc", o.DisplayName)
	paths[0] = "/changed"
	assert.Equal(t, []string{"/a", "/b/?.star"}, o.SearchPaths)
	assert.Nil(t, o.InitScript)

	o = NewOptions(WithInitScript(Source{Name: "init", Code: "x = 1"}))
	require.NotNil(t, o.InitScript)
	assert.Equal(t, "x = 1", o.InitScript.Code)
}

func TestInitLookup(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	initFile := filepath.Join(dir, "init.star")
	require.NoError(t, os.WriteFile(initFile, []byte("greeting = 'hi'\n"), 0o600))

	env := func(m map[string]string) func(string) (string, bool) {
		return func(k string) (string, bool) {
			v, ok := m[k]
			return v, ok
		}
	}

	t.Run("env names", func(t *testing.T) {
		l := InitLookup{Prefix: "scriptsvc", Major: 1, Minor: 2}
		assert.Equal(t, []string{"SCRIPTSVC_INIT_1_2", "SCRIPTSVC_INIT"}, l.EnvNames())
	})

	t.Run("none configured", func(t *testing.T) {
		l := InitLookup{Prefix: "X", Getenv: env(nil)}
		src, err := l.Resolve()
		require.NoError(t, err)
		assert.Nil(t, src)
	})

	t.Run("explicit wins", func(t *testing.T) {
		l := InitLookup{Prefix: "X", Explicit: "a = 1", Getenv: env(map[string]string{"X_INIT": "b = 2"})}
		src, err := l.Resolve()
		require.NoError(t, err)
		require.NotNil(t, src)
		assert.Equal(t, "a = 1", src.Code)
	})

	t.Run("versioned before generic", func(t *testing.T) {
		l := InitLookup{Prefix: "X", Major: 1, Minor: 0, Getenv: env(map[string]string{
			"X_INIT_1_0": "v = 1",
			"X_INIT":     "v = 0",
		})}
		src, err := l.Resolve()
		require.NoError(t, err)
		require.NotNil(t, src)
		assert.Equal(t, "v = 1", src.Code)
		assert.Equal(t, "=X_INIT_1_0", src.Name)
	})

	t.Run("generic fallback", func(t *testing.T) {
		l := InitLookup{Prefix: "X", Getenv: env(map[string]string{"X_INIT": "v = 0"})}
		src, err := l.Resolve()
		require.NoError(t, err)
		require.NotNil(t, src)
		assert.Equal(t, "v = 0", src.Code)
	})

	t.Run("file reference", func(t *testing.T) {
		l := InitLookup{Prefix: "X", Getenv: env(map[string]string{"X_INIT": "@" + initFile})}
		src, err := l.Resolve()
		require.NoError(t, err)
		require.NotNil(t, src)
		assert.Equal(t, initFile, src.Name)
		assert.Contains(t, src.Code, "greeting")
	})

	t.Run("missing file", func(t *testing.T) {
		l := InitLookup{Prefix: "X", Explicit: "@" + filepath.Join(dir, "nope.star"), Getenv: env(nil)}
		_, err := l.Resolve()
		require.Error(t, err)
	})
}

func TestResolver(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	lib := t.TempDir()
	tmpl := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(base, "local.star"), []byte(""), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(lib, "shared.star"), []byte(""), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpl, "pkg"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(tmpl, "pkg", "init.star"), []byte(""), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(lib, "dir.star"), 0o750))

	r := NewResolver(base, ".star", []string{lib, filepath.Join(tmpl, "?", "init.star")})
	assert.Len(t, r.Paths(), 3)

	got, err := r.Resolve("local")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "local.star"), got)

	got, err = r.Resolve("shared.star")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(lib, "shared.star"), got)

	got, err = r.Resolve("pkg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpl, "pkg", "init.star"), got)

	_, err = r.Resolve("dir")
	require.ErrorIs(t, err, ErrModuleNotFound)

	_, err = r.Resolve("absent")
	require.ErrorIs(t, err, ErrModuleNotFound)
	assert.Contains(t, err.Error(), filepath.Join(lib, "absent.star"))
}

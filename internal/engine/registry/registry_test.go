package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlanticdynamic/scriptsvc/internal/engine"
)

func TestNew(t *testing.T) {
	t.Parallel()
	for _, typ := range Types() {
		t.Run(string(typ), func(t *testing.T) {
			e, err := New(typ, engine.WithServiceName("svc", ""))
			require.NoError(t, err)
			assert.Equal(t, typ, e.Type())
		})
	}

	_, err := New("lua")
	require.ErrorIs(t, err, engine.ErrUnknownEngine)
}

func TestFileExt(t *testing.T) {
	t.Parallel()
	assert.Equal(t, ".star", FileExt(engine.TypeStarlark))
	assert.Equal(t, ".risor", FileExt(engine.TypeRisor))
}

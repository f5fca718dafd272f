package interpolation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptSection struct {
	Path string   `env_interpolation:"yes"`
	Args []string `env_interpolation:"yes"`
	Code string   `env_interpolation:"no"`
}

type serviceSection struct {
	Name    string            `env_interpolation:"yes"`
	Script  scriptSection     `env_interpolation:"yes"`
	Extra   *scriptSection    `env_interpolation:"yes"`
	Labels  map[string]string `env_interpolation:"yes"`
	Skipped string
	hidden  string `env_interpolation:"yes"`
}

func TestInterpolateStruct(t *testing.T) {
	t.Parallel()
	e := NewExpander(mapLookup(map[string]string{
		"NAME": "svc",
		"DIR":  "/opt/scripts",
	}))

	cfg := &serviceSection{
		Name: "${NAME}",
		Script: scriptSection{
			Path: "${DIR}/main.star",
			Args: []string{"--name=${NAME}", "", "literal"},
			Code: "${NAME}",
		},
		Extra:   &scriptSection{Path: "${DIR:/tmp}/extra.star"},
		Labels:  map[string]string{"owner": "${OWNER:ops}"},
		Skipped: "${NAME}",
		hidden:  "${NAME}",
	}

	require.NoError(t, e.InterpolateStruct(cfg))
	assert.Equal(t, "svc", cfg.Name)
	assert.Equal(t, "/opt/scripts/main.star", cfg.Script.Path)
	assert.Equal(t, []string{"--name=svc", "", "literal"}, cfg.Script.Args)
	assert.Equal(t, "${NAME}", cfg.Script.Code)
	assert.Equal(t, "/opt/scripts/extra.star", cfg.Extra.Path)
	assert.Equal(t, "ops", cfg.Labels["owner"])
	assert.Equal(t, "${NAME}", cfg.Skipped)
	assert.Equal(t, "${NAME}", cfg.hidden)
}

func TestInterpolateStruct_Errors(t *testing.T) {
	t.Parallel()
	e := NewExpander(mapLookup(nil))

	cfg := &serviceSection{
		Name:   "${MISSING_ONE}",
		Script: scriptSection{Args: []string{"${MISSING_TWO}"}},
	}
	err := e.InterpolateStruct(cfg)
	require.ErrorIs(t, err, ErrUndefinedVariable)
	assert.Contains(t, err.Error(), "field Name")
	assert.Contains(t, err.Error(), "field Script")

	require.Error(t, e.InterpolateStruct("not a struct"))
	require.Error(t, e.InterpolateStruct(serviceSection{}))
	require.NoError(t, e.InterpolateStruct(nil))
	require.NoError(t, e.InterpolateStruct((*serviceSection)(nil)))
}

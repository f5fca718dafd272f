package config

import (
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_String(t *testing.T) {
	tests := []struct {
		name     string
		duration Duration
		expected string
	}{
		{"Zero", 0, "0s"},
		{"Seconds", Duration(5 * time.Second), "5s"},
		{"Minutes", Duration(10 * time.Minute), "10m0s"},
		{"Milliseconds", Duration(500 * time.Millisecond), "500ms"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.duration.String())
		})
	}
}

func TestDuration_Conversions(t *testing.T) {
	d := FromDuration(90 * time.Second)
	assert.Equal(t, 90*time.Second, d.AsDuration())
	assert.InDelta(t, 90.0, d.Seconds(), 0.0001)
}

func TestDuration_TOML(t *testing.T) {
	var doc struct {
		Timeout Duration `toml:"timeout"`
	}
	require.NoError(t, toml.Unmarshal([]byte(`timeout = "1m30s"`), &doc))
	assert.Equal(t, Duration(90*time.Second), doc.Timeout)

	require.Error(t, toml.Unmarshal([]byte(`timeout = "soon"`), &doc))

	out, err := toml.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(out), "1m30s")
}

func TestParseDuration(t *testing.T) {
	d, err := ParseDuration("250ms")
	require.NoError(t, err)
	assert.Equal(t, Duration(250*time.Millisecond), d)

	_, err = ParseDuration("")
	require.Error(t, err)
}

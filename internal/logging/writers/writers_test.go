package writers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutput(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		output   string
		wantType WriterType
		wantPath string
		wantErr  bool
	}{
		{name: "empty defaults to stdout", output: "", wantType: WriterTypeStdout},
		{name: "stdout", output: "stdout", wantType: WriterTypeStdout},
		{name: "stderr", output: "stderr", wantType: WriterTypeStderr},
		{name: "file path", output: "/var/log/svc.log", wantType: WriterTypeFile, wantPath: "/var/log/svc.log"},
		{name: "windows path", output: `C:\logs\svc.log`, wantType: WriterTypeFile, wantPath: `C:\logs\svc.log`},
		{name: "file protocol", output: "file:///tmp/svc.log", wantType: WriterTypeFile, wantPath: "/tmp/svc.log"},
		{name: "empty file protocol", output: "file://", wantErr: true},
		{name: "unsupported scheme", output: "redis://localhost:6379", wantErr: true},
		{name: "bare word", output: "syslog", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := ParseOutput(tt.output)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, o.Type)
			assert.Equal(t, tt.wantPath, o.Path)
		})
	}
}

func TestCreateWriter_File(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "dir", "svc.log")

	w, err := CreateWriter(path)
	require.NoError(t, err)
	_, err = w.Write([]byte("first\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	w, err = CreateWriter("file://" + path)
	require.NoError(t, err)
	_, err = w.Write([]byte("second\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(content))
}

func TestCreateWriter_StdStreams(t *testing.T) {
	t.Parallel()
	for _, out := range []string{"", "stdout", "stderr"} {
		w, err := CreateWriter(out)
		require.NoError(t, err)
		require.NoError(t, w.Close())
	}
}

func TestCreateWriter_Invalid(t *testing.T) {
	t.Parallel()
	w, err := CreateWriter("ftp://example.com/log")
	require.Error(t, err)
	assert.Nil(t, w)
}

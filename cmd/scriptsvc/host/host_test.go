package host

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlanticdynamic/scriptsvc/internal/config"
	"github.com/atlanticdynamic/scriptsvc/internal/engine"
	"github.com/atlanticdynamic/scriptsvc/internal/errz"
	"github.com/atlanticdynamic/scriptsvc/internal/service/controller"
	"github.com/atlanticdynamic/scriptsvc/internal/testutil"
	"github.com/atlanticdynamic/scriptsvc/internal/worker"
)

func discard() slog.Handler {
	return slog.NewTextHandler(io.Discard, nil)
}

func writeScript(t *testing.T, name, code string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(code), 0o600))
	return path
}

func newConfig(t *testing.T, script string, overrides ...config.Override) *config.Service {
	t.Helper()
	overrides = append([]config.Override{config.WithScriptPath(script)}, overrides...)
	cfg, err := config.NewFromOverrides(t.TempDir(), overrides...)
	require.NoError(t, err)
	return cfg
}

func TestNewEngine_InitFromEnv(t *testing.T) {
	script := writeScript(t, "svc.star", `_ = greeting + " " + service.name`)
	cfg := newConfig(t, script, config.WithServiceName("hosted"))

	env := map[string]string{"SCRIPTSVC_INIT_1_0": `greeting = "hello"`}
	eng, err := NewEngine(cfg, func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})
	require.NoError(t, err)
	assert.Equal(t, engine.TypeStarlark, eng.Type())

	ctrl, err := NewController(cfg, eng, discard())
	require.NoError(t, err)
	assert.Equal(t, "controller.Controller(hosted)", ctrl.String())
}

func TestNewEngine_BadInitFile(t *testing.T) {
	cfg := newConfig(t, writeScript(t, "svc.star", `_ = 1`))
	_, err := NewEngine(cfg, func(k string) (string, bool) {
		if k == "SCRIPTSVC_INIT" {
			return "@/nonexistent/init.star", true
		}
		return "", false
	})
	require.Error(t, err)
}

func TestNewDiagnostics_Disabled(t *testing.T) {
	cfg := newConfig(t, writeScript(t, "svc.star", `_ = 1`))
	d, err := NewDiagnostics(cfg, nil, discard())
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestForeground_Completed(t *testing.T) {
	script := writeScript(t, "svc.star", `
def main():
    return [{"code": 200, "body": service.args()[0]}, "done"]
`)
	cfg := newConfig(t, script,
		config.WithArgs([]string{"payload"}),
		config.WithDiagnosticsListen(testutil.GetRandomListeningPort(t)),
	)

	run, code, err := Foreground(t.Context(), cfg, discard())
	require.NoError(t, err)
	assert.Equal(t, controller.ExitOK, code)
	require.NotNil(t, run)
	assert.Equal(t, worker.OutcomeCompleted, run.Outcome)

	body, err := run.Results.FieldString(0, "body")
	require.NoError(t, err)
	assert.Equal(t, "payload", body)
}

func TestForeground_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		code string
		want uint32
		err  error
	}{
		{"compile error", "def broken(:\n", controller.ExitCompileError, errz.ErrCompile},
		{"runtime error", `fail("nope")`, controller.ExitRuntimeError, errz.ErrRuntime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newConfig(t, writeScript(t, "svc.star", tt.code))
			run, code, err := Foreground(t.Context(), cfg, discard())
			require.NoError(t, err)
			assert.Equal(t, tt.want, code)
			require.NotNil(t, run)
			require.ErrorIs(t, run.Err, tt.err)
		})
	}
}

func TestForeground_Risor(t *testing.T) {
	cfg := newConfig(t, writeScript(t, "svc.risor", `{"argc": len(ctx["argv"])}`),
		config.WithEngine("risor"),
		config.WithArgs([]string{"a", "b"}),
	)
	run, code, err := Foreground(t.Context(), cfg, discard())
	require.NoError(t, err)
	assert.Equal(t, controller.ExitOK, code, fmt.Sprint(run.Err))
	n, err := run.Results.FieldInt(0, "argc")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

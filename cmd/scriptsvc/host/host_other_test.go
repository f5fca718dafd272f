//go:build !windows

package host

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atlanticdynamic/scriptsvc/internal/service/winsvc"
)

func TestDispatch_Unsupported(t *testing.T) {
	cfg := newConfig(t, writeScript(t, "svc.star", `_ = 1`))
	err := Dispatch(t.Context(), cfg, discard(), false)
	require.ErrorIs(t, err, winsvc.ErrUnsupportedPlatform)
}

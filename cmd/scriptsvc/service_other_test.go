//go:build !windows

package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/atlanticdynamic/scriptsvc/internal/service/winsvc"
)

func TestServiceCommands_Unsupported(t *testing.T) {
	for _, sub := range []string{"remove", "start", "stop"} {
		t.Run(sub, func(t *testing.T) {
			_, _, err := runApp(t, "service", sub, "--name", "scriptsvc-test")
			require.ErrorIs(t, err, winsvc.ErrUnsupportedPlatform)
		})
	}

	t.Run("install requires config", func(t *testing.T) {
		_, _, err := runApp(t, "service", "install", "--name", "x")
		require.Error(t, err)
	})

	t.Run("install", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "svc.star", `_ = 1`)
		cfgPath := writeFile(t, dir, "svc.toml", "[script]\npath = \"svc.star\"\n")
		_, _, err := runApp(t, "service", "install", "--config", cfgPath)
		require.ErrorIs(t, err, winsvc.ErrUnsupportedPlatform)
	})
}

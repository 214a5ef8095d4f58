package launchd

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cbillows/launchd-me/config"
	"github.com/cbillows/launchd-me/errors"
)

// writeFakeTool drops an executable shell script standing in for plutil or
// launchctl.
func writeFakeTool(t *testing.T, name, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tools are shell scripts")
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func launchctlWith(launchctl, plutil string) *Launchctl {
	cfg := &config.Config{}
	cfg.Launchd.LaunchctlPath = launchctl
	cfg.Launchd.PlutilPath = plutil
	cfg.Launchd.TimeoutSeconds = 5
	return NewLaunchctl(cfg)
}

func TestValidateAcceptsCleanLint(t *testing.T) {
	plutil := writeFakeTool(t, "plutil", `echo "$2: OK"`)
	l := launchctlWith("launchctl", plutil)

	assert.NoError(t, l.Validate(context.Background(), "/tmp/job.plist"))
}

func TestValidateRejectionCarriesDiagnostics(t *testing.T) {
	plutil := writeFakeTool(t, "plutil", `echo "unexpected character at line 3" >&2; exit 1`)
	l := launchctlWith("launchctl", plutil)

	err := l.Validate(context.Background(), "/tmp/job.plist")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidDescriptor))
	assert.Contains(t, errors.FlattenDetails(err), "unexpected character at line 3")
}

func TestLoadFailureCarriesStderr(t *testing.T) {
	launchctl := writeFakeTool(t, "launchctl", `echo "Load failed: 5: Input/output error" >&2; exit 5`)
	l := launchctlWith(launchctl, "plutil")

	err := l.Load(context.Background(), "/tmp/job.plist")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrActivation))
	assert.Contains(t, errors.FlattenDetails(err), "Input/output error")
}

func TestIsLoaded(t *testing.T) {
	t.Run("known label", func(t *testing.T) {
		launchctl := writeFakeTool(t, "launchctl", `exit 0`)
		l := launchctlWith(launchctl, "plutil")

		state, err := l.IsLoaded(context.Background(), "local.ldm.backup")
		require.NoError(t, err)
		assert.Equal(t, LiveLoaded, state)
	})

	t.Run("unknown label is absent, not an error", func(t *testing.T) {
		launchctl := writeFakeTool(t, "launchctl", `echo "Could not find service" >&2; exit 113`)
		l := launchctlWith(launchctl, "plutil")

		state, err := l.IsLoaded(context.Background(), "local.ldm.missing")
		require.NoError(t, err)
		assert.Equal(t, LiveAbsent, state)
	})
}

func TestMissingBinaryIsAnError(t *testing.T) {
	l := launchctlWith(filepath.Join(t.TempDir(), "no-such-launchctl"), "plutil")

	_, err := l.IsLoaded(context.Background(), "local.ldm.backup")
	require.Error(t, err)
	assert.False(t, errors.Is(err, errors.ErrActivation))
}

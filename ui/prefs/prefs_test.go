package prefs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	p := Load()
	p.SetFloat(KeyWindowWidth, 1120)
	p.SetString(KeyAspectRatio, "16:9")
	p.SetBool(KeyAspectLock, true)
	require.NoError(t, p.Save())

	q := Load()
	require.Equal(t, 1120.0, q.FloatWithFallback(KeyWindowWidth, 0))
	require.Equal(t, "16:9", q.String(KeyAspectRatio))
	require.True(t, q.Bool(KeyAspectLock, false))
}

func TestFallbacks(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	p := Load()
	require.Equal(t, 800.0, p.FloatWithFallback(KeyWindowHeight, 800))
	require.Equal(t, "", p.String(KeyLastDir))
	require.False(t, p.Bool(KeyAspectLock, false))
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_MissingFileYieldsDefaults(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadSettings_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFileName)
	body := "window: 5\nmin_display_usd: 1.0\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Window)
	assert.Equal(t, 1.0, s.MinDisplayUSD)
	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultSettings().ImmediateRetries, s.ImmediateRetries)
	assert.Equal(t, DefaultSettings().Stables, s.Stables)
}

func TestLoadSettings_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("window: [not a number"), 0o644))

	_, err := LoadSettings(path)
	require.Error(t, err)
}

func TestLoadSettings_WindowFloor(t *testing.T) {
	path := filepath.Join(t.TempDir(), SettingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("window: 0\n"), 0o644))

	s, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings().Window, s.Window)
}

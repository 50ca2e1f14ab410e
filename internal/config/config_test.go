package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestEnvOverridesDefault(t *testing.T) {
	t.Setenv("MAX_TRACKS", "12")
	t.Setenv("TRACKING_THRESHOLD", "0.42")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.MaxTracks)
	assert.InDelta(t, float64(0.42), float64(cfg.TrackingThreshold), 1e-6)
}

func TestYAMLOverlayThenEnvWins(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/tuning.yaml"
	require.NoError(t, os.WriteFile(path, []byte("max_tracks: 7\nreset_hour: 5\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxTracks)
	assert.Equal(t, 5, cfg.ResetHour)

	t.Setenv("MAX_TRACKS", "20")
	cfg2, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg2.MaxTracks, "env var must win over the yaml overlay")
}

func TestMissingConfigFileIsNotAnError(t *testing.T) {
	_, err := Load("/nonexistent/path/tuning.yaml")
	assert.NoError(t, err)
}

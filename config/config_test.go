package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 5.0, cfg.Player().Headroom)
	assert.Equal(t, 0.05, cfg.Player().ReleaseEpsilon)
	assert.Equal(t, 1.0, cfg.Player().Speed)
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := DefaultConfig()
	cfg.Playback.Speed = 0.75
	cfg.Audio.PortName = "IAC Driver Bus 1"
	cfg.UI.LastFile = "/tmp/song.mid"
	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"playback":{"speed":2}}`), 0644))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, 2.0, cfg.Playback.Speed)
	assert.Equal(t, uint8(96), cfg.Audio.Velocity)
	assert.Equal(t, 4.0, cfg.UI.Lookahead)
}

func TestLoadRejectsBadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"playback":`), 0644))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestPathUsesHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "go-notefall", "config.json"), p)
}

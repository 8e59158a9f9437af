package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsrosen6/nvdisplay/internal/profile"
)

func TestInitConfig_CreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path())
	assert.Equal(t, "log.txt", cfg.LogFile)
	assert.Empty(t, cfg.Profiles)
	assert.FileExists(t, path)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "log.txt"), cfg.LogPath())
}

func TestInitConfig_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := InitConfig(path)
	assert.ErrorContains(t, err, "unmarshaling json")
}

func TestLogPath_Absolute(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "events.txt")
	cfg := &Config{path: "/somewhere/config.json", LogFile: abs}
	assert.Equal(t, abs, cfg.LogPath())
}

func TestProfiles_PersistAcrossReads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := InitConfig(path)
	require.NoError(t, err)

	want := profile.Profile{Displays: []profile.Settings{
		{DisplayID: 2147881094, Width: 2560, Height: 1440, RefreshMHz: 143981, Scaling: "default"},
	}}
	require.NoError(t, cfg.SetProfile("desk", want))

	again, err := InitConfig(path)
	require.NoError(t, err)
	got, err := again.Profile("desk")
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("profile mismatch (-want +got):\n%s", diff)
	}

	_, err = again.Profile("couch")
	assert.ErrorIs(t, err, ErrProfileNotFound)

	assert.Error(t, again.SetProfile(" ", want))
}

func TestReload(t *testing.T) {
	reloadDelay = 0
	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := InitConfig(path)
	require.NoError(t, err)

	other := defaultCfg(path)
	other.LogFile = "other.txt"
	other.Profiles["tv"] = profile.Profile{}
	require.NoError(t, other.Write())

	require.NoError(t, cfg.Reload(3))
	assert.Equal(t, "other.txt", cfg.LogFile)
	assert.Contains(t, cfg.Profiles, "tv")

	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))
	assert.Error(t, cfg.Reload(2))
	assert.Equal(t, "other.txt", cfg.LogFile)
}

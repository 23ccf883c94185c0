package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreMissingFile(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "nested", ConfigFileName), zerolog.Nop())
	assert.Equal(t, Default(), s.Get())
}

func TestNewStoreMalformedFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("theme = [unterminated"), 0o644))

	s := NewStore(path, zerolog.Nop())
	assert.Equal(t, Default(), s.Get())
}

func TestNewStoreOutOfRangeFontSizeFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("theme = \"dark\"\nfont_size = 999\n"), 0o644))

	s := NewStore(path, zerolog.Nop())
	assert.Equal(t, Default(), s.Get())
}

func TestNewStorePartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte("theme = \"dark\"\n"), 0o644))

	s := NewStore(path, zerolog.Nop())
	assert.Equal(t, Config{Theme: "dark", FontSize: Default().FontSize}, s.Get())
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", ConfigFileName)
	s := NewStore(path, zerolog.Nop())

	want := Config{Theme: "solarized", FontSize: 18}
	require.NoError(t, s.Save(want))
	assert.Equal(t, want, s.Get())

	_, err := os.Stat(path + ".tmp")
	assert.True(t, errors.Is(err, os.ErrNotExist), "temp file should be renamed away")

	reloaded := NewStore(path, zerolog.Nop())
	assert.Equal(t, want, reloaded.Get())
}

func TestSaveFailureKeepsCache(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	// The parent "directory" is a regular file, so MkdirAll fails.
	s := NewStore(filepath.Join(blocker, ConfigFileName), zerolog.Nop())
	err := s.Save(Config{Theme: "dark", FontSize: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPersist)
	assert.Equal(t, Default(), s.Get())
}

func TestLoadMissingIsNotError(t *testing.T) {
	var c Config
	meta, err := Load(filepath.Join(t.TempDir(), "absent.toml"), &c)
	require.NoError(t, err)
	assert.False(t, meta.IsDefined("theme"))
}

func TestDirsPaths(t *testing.T) {
	d := Dirs{Config: "/cfg", Data: "/data"}
	assert.Equal(t, filepath.Join("/cfg", "config.toml"), d.ConfigPath())
	assert.Equal(t, filepath.Join("/cfg", "presets.toml"), d.PresetsPath())

	def := DefaultDirs()
	assert.Equal(t, AppName, filepath.Base(def.Config))
	assert.Equal(t, AppName, filepath.Base(def.Data))
}

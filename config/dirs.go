package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// AppName names the per-application config and data directories.
const AppName = "txtransform"

const (
	ConfigFileName  = "config.toml"
	PresetsFileName = "presets.toml"
)

// Dirs holds the directories the application reads and writes.
// Config holds config.toml and presets.toml; Data holds user scripts.
type Dirs struct {
	Config string
	Data   string
}

// DefaultDirs follows the XDG base directory conventions of the host
// (or the platform equivalents on macOS and Windows).
func DefaultDirs() Dirs {
	return Dirs{
		Config: filepath.Join(xdg.ConfigHome, AppName),
		Data:   filepath.Join(xdg.DataHome, AppName),
	}
}

func (d Dirs) ConfigPath() string  { return filepath.Join(d.Config, ConfigFileName) }
func (d Dirs) PresetsPath() string { return filepath.Join(d.Config, PresetsFileName) }

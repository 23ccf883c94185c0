// Package config owns the persisted application documents: config.toml
// (UI settings) and the TOML helpers shared with the preset store.
//
// Both documents follow the same rule: a missing or unreadable file yields
// defaults, and every write replaces the file atomically.
package config

import (
	"sync"

	"github.com/rs/zerolog"
)

// Config is the user-facing application settings document.
type Config struct {
	Theme    string `toml:"theme" json:"theme" yaml:"theme"`
	FontSize uint8  `toml:"font_size" json:"font_size" yaml:"font_size"`
}

// Default returns the settings used when config.toml is absent.
func Default() Config {
	return Config{Theme: "light", FontSize: 14}
}

// Store caches Config behind a RWMutex.
type Store struct {
	mu   sync.RWMutex
	path string
	cfg  Config
	log  zerolog.Logger
}

// NewStore loads path, falling back to Default when the file is missing or
// malformed. Keys absent from the file keep their default value.
func NewStore(path string, logger zerolog.Logger) *Store {
	s := &Store{path: path, cfg: Default(), log: logger}

	var raw Config
	meta, err := Load(path, &raw)
	if err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("config unreadable, using defaults")
		return s
	}
	if meta.IsDefined("theme") {
		s.cfg.Theme = raw.Theme
	}
	if meta.IsDefined("font_size") {
		s.cfg.FontSize = raw.FontSize
	}
	logger.Debug().Str("path", path).Str("theme", s.cfg.Theme).Uint8("font_size", s.cfg.FontSize).Msg("config loaded")
	return s
}

// Get returns the cached settings.
func (s *Store) Get() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Save writes cfg to disk, then updates the cache. The cache is left
// unchanged when the write fails.
func (s *Store) Save(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := Save(s.path, cfg); err != nil {
		return err
	}
	s.cfg = cfg
	return nil
}

// Path returns the backing file.
func (s *Store) Path() string { return s.path }

package preset

import (
	"sync"

	"github.com/rs/zerolog"

	"txtransform/config"
)

// Manager handles loading, saving, and updating the preset list.
type Manager struct {
	mu       sync.RWMutex
	filePath string
	presets  []Preset
	log      zerolog.Logger
}

// NewManager loads the preset list from filePath. A missing or malformed
// file yields an empty list; the failure is logged, never returned.
func NewManager(filePath string, logger zerolog.Logger) *Manager {
	m := &Manager{filePath: filePath, presets: []Preset{}, log: logger}

	var doc Document
	if _, err := config.Load(filePath, &doc); err != nil {
		logger.Warn().Err(err).Str("path", filePath).Msg("presets unreadable, starting empty")
		return m
	}
	for _, p := range doc.Presets {
		m.presets = append(m.presets, p.Clone())
	}
	logger.Debug().Str("path", filePath).Int("count", len(m.presets)).Msg("presets loaded")
	return m
}

// List returns a snapshot of every preset in insertion order.
func (m *Manager) List() []Preset {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return copyPresets(m.presets)
}

// FindByName returns the most recently added preset called name.
func (m *Manager) FindByName(name string) (Preset, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.presets) - 1; i >= 0; i-- {
		if m.presets[i].Name == name {
			return m.presets[i].Clone(), true
		}
	}
	return Preset{}, false
}

// Add appends p and persists the whole list. On a persistence error the
// in-memory list keeps p; the file catches up on the next successful write.
func (m *Manager) Add(p Preset) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presets = append(m.presets, p.Clone())
	return m.writeAtomic()
}

// Remove deletes every preset called name and persists the list. It reports
// how many entries were removed; persistence errors do not restore them.
func (m *Manager) Remove(name string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.presets[:0:0]
	for _, p := range m.presets {
		if p.Name != name {
			kept = append(kept, p)
		}
	}
	removed := len(m.presets) - len(kept)
	m.presets = kept
	return removed, m.writeAtomic()
}

// Save replaces the whole list. Unlike Add and Remove, the in-memory list is
// only updated once the file has been written.
func (m *Manager) Save(presets []Preset) error {
	next := copyPresets(presets)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := config.Save(m.filePath, Document{Presets: next}); err != nil {
		return err
	}
	m.presets = next
	return nil
}

// Path returns the backing file.
func (m *Manager) Path() string { return m.filePath }

// writeAtomic persists m.presets. Caller must hold m.mu.
func (m *Manager) writeAtomic() error {
	return config.Save(m.filePath, Document{Presets: m.presets})
}

func copyPresets(in []Preset) []Preset {
	out := make([]Preset, len(in))
	for i, p := range in {
		out[i] = p.Clone()
	}
	return out
}

// Package runs tracks in-flight pipeline runs so they can be listed and
// canceled. Canceling a run cancels its context, which kills any script the
// run is waiting on.
package runs

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("run not found")

type Manager struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

func NewManager() *Manager {
	return &Manager{runs: make(map[string]*Run)}
}

// Start registers a run for presetName and returns it together with the
// context the run must execute under. Callers must call Finish when done.
func (m *Manager) Start(parent context.Context, presetName string) (*Run, context.Context) {
	ctx, cancel := context.WithCancel(parent)
	r := &Run{
		ID:        uuid.New().String(),
		Preset:    presetName,
		StartedAt: time.Now(),
		cancel:    cancel,
		done:      make(chan struct{}),
		finished:  new(sync.Once),
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[r.ID] = r
	return r, ctx
}

// Finish releases the run. Unknown IDs are ignored.
func (m *Manager) Finish(id string) {
	m.mu.Lock()
	r, ok := m.runs[id]
	delete(m.runs, id)
	m.mu.Unlock()
	if ok {
		r.finish()
	}
}

// List returns the in-flight runs, oldest first.
func (m *Manager) List() []*Run {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]*Run, 0, len(m.runs))
	for _, r := range m.runs {
		list = append(list, r)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].StartedAt.Before(list[j].StartedAt)
	})
	return list
}

func (m *Manager) Get(id string) (*Run, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runs[id]
	return r, ok
}

// Cancel stops the run and forgets it.
func (m *Manager) Cancel(id string) error {
	m.mu.Lock()
	r, ok := m.runs[id]
	if !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	delete(m.runs, id)
	m.mu.Unlock()

	r.finish()
	return nil
}

// Package state holds the shared mutable caches written by feed callbacks
// and read by the tick loop. Each feed owns exactly the fields it updates;
// access to each container is individually locked so the tick task never
// blocks on slow feed delivery.
package state

import (
	"sync"

	"github.com/sweeney/feeder-control/internal/logic"
)

// SettingsStore holds the latest feeder settings. Updates replace the whole
// value (last-write-wins, no merge).
type SettingsStore struct {
	mu       sync.RWMutex
	settings logic.Settings
	loaded   bool
}

// NewSettingsStore creates an empty store. The loop no-ops until the first
// Set.
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{}
}

// Set replaces the stored settings wholesale.
func (s *SettingsStore) Set(settings logic.Settings) {
	s.mu.Lock()
	s.settings = settings
	s.loaded = true
	s.mu.Unlock()
}

// Get returns the current settings and whether any settings have arrived.
func (s *SettingsStore) Get() (logic.Settings, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings, s.loaded
}

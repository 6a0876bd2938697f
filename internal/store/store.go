// Package store caches the most recent tmux snapshot for the
// interactive controller. Refreshes replace the snapshot wholesale;
// there is no merge logic, since tmux is the sole source of truth and
// re-reading it is cheap.
package store

import (
	"sync"

	"github.com/muxman/muxman/internal/model"
)

// Store holds the last snapshot read from tmux.
type Store struct {
	mu   sync.RWMutex
	snap model.Snapshot
}

// New creates an empty store. Current returns an empty snapshot until
// the first Replace.
func New() *Store {
	return &Store{}
}

// Current returns the last-known snapshot without blocking.
func (s *Store) Current() model.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Replace installs a new snapshot, discarding the previous one.
func (s *Store) Replace(snap model.Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

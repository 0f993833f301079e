package store

import (
	"context"
	"sync"
	"time"

	"github.com/FrontRowWithJ/WeatherBot/internal/interaction"
)

// MemoryStore is a concurrency-safe in-memory implementation of
// interaction.Source. State lives only for the lifetime of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[interaction.Key]interaction.State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states: make(map[interaction.Key]interaction.State),
	}
}

// Load returns the state for key, if tracked.
func (s *MemoryStore) Load(_ context.Context, key interaction.Key) (interaction.State, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[key]
	return st, ok, nil
}

// Commit stores the state for key, creating or replacing it.
func (s *MemoryStore) Commit(_ context.Context, key interaction.Key, st interaction.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[key] = st
	return nil
}

// Discard removes the state for key. Removing an unknown key is a no-op.
func (s *MemoryStore) Discard(_ context.Context, key interaction.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, key)
	return nil
}

// SweepExpired removes every state past the inactivity ceiling and
// returns how many were dropped. The lazy expiry check on access would
// discard exactly the same entries; the sweep only bounds memory.
func (s *MemoryStore) SweepExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	dropped := 0
	for key, st := range s.states {
		if st.Expired(now) {
			delete(s.states, key)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of tracked states.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

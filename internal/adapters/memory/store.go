// Package memory provides an in-memory ports.UsageStore. Tests use it to
// inject usage state and failures; the CLI falls back to it when the state
// directory cannot be created, so tracking degrades to a no-op instead of
// failing the command.
package memory

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/corey/slc/internal/ports"
)

// Ensure Store implements the interface.
var _ ports.UsageStore = (*Store)(nil)

// Store keeps the last saved state as a JSON snapshot, so Load always returns
// a fresh copy that went through the same encoding as the bbolt adapter.
type Store struct {
	mu    sync.Mutex
	data  []byte
	saves int

	// LoadErr and SaveErr, when set, are returned by Load and Save.
	LoadErr error
	SaveErr error
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{}
}

// NewStoreWithState creates a store pre-loaded with state.
func NewStoreWithState(state *ports.UsageState) (*Store, error) {
	s := NewStore()
	if err := s.Save(state); err != nil {
		return nil, err
	}
	s.saves = 0
	return s, nil
}

// Load returns a copy of the last saved state, or nil, nil if nothing was saved.
func (s *Store) Load() (*ports.UsageState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	if s.data == nil {
		return nil, nil
	}
	var state ports.UsageState
	if err := json.Unmarshal(s.data, &state); err != nil {
		return nil, fmt.Errorf("unmarshal usage state: %w", err)
	}
	return &state, nil
}

// Save replaces the stored snapshot.
func (s *Store) Save(state *ports.UsageState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	if state == nil {
		return fmt.Errorf("nil usage state")
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal usage state: %w", err)
	}
	s.data = data
	s.saves++
	return nil
}

// Saves returns the number of successful Save calls.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// Reset forgets the saved state.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}

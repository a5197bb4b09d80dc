package quota

import (
	"context"
	"sync"
)

// State is the persisted quota record for one key. LastResetDate is the local
// calendar date ("2006-01-02") of the most recent reset.
type State struct {
	LastResetDate string `json:"lastResetDate"`
	Remaining     int    `json:"remaining"`
}

// Store persists per-key quota state. Get returns (nil, nil) when the key has
// no record yet.
type Store interface {
	Get(ctx context.Context, key string) (*State, error)
	Set(ctx context.Context, key string, state *State) error
	Clear(ctx context.Context, key string) error
}

// MemoryStore keeps quota state in process memory. Suitable for a single
// instance; use RedisStore when running more than one replica.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]State
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]State)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[key]
	if !ok {
		return nil, nil
	}
	out := st
	return &out, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, state *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[key] = *state
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, key)
	return nil
}

package statestore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"naikai-shop/internal/shop/app/core"
	"naikai-shop/internal/shop/domain/state"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore keeps encoded client states in process memory. States not
// saved within ttl expire; a zero ttl keeps them forever. Expired states are
// dropped when loaded and by a sweep that Save runs at most once per ttl.
type MemoryStore struct {
	mu        sync.Mutex
	entries   map[string]entry
	ttl       time.Duration
	now       func() time.Time
	nextSweep time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryStore) Load(ctx context.Context, id string) (*state.ClientState, error) {
	m.mu.Lock()
	e, ok := m.entries[id]
	if ok && m.expired(e) {
		delete(m.entries, id)
		ok = false
	}
	m.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrClientNotFound, id)
	}

	var s state.ClientState
	if err := json.Unmarshal(e.data, &s); err != nil {
		return nil, fmt.Errorf("decode client state %s: %w", id, err)
	}
	return &s, nil
}

func (m *MemoryStore) Save(ctx context.Context, s *state.ClientState) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode client state %s: %w", s.ID, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e := entry{data: data}
	if m.ttl > 0 {
		now := m.now()
		e.expiresAt = now.Add(m.ttl)
		if !now.Before(m.nextSweep) {
			m.sweep()
			m.nextSweep = now.Add(m.ttl)
		}
	}
	m.entries[s.ID] = e
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[id]; !ok {
		return fmt.Errorf("%w: %s", core.ErrClientNotFound, id)
	}
	delete(m.entries, id)
	return nil
}

func (m *MemoryStore) Close() error {
	return nil
}

// sweep must be called with mu held.
func (m *MemoryStore) sweep() {
	for id, e := range m.entries {
		if m.expired(e) {
			delete(m.entries, id)
		}
	}
}

func (m *MemoryStore) expired(e entry) bool {
	return !e.expiresAt.IsZero() && !m.now().Before(e.expiresAt)
}

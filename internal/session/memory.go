package session

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryManager keeps flow state in-process. Used by tests.
type MemoryManager struct {
	mu     sync.Mutex
	states map[int64][]byte
}

func NewMemoryManager() *MemoryManager {
	return &MemoryManager{states: make(map[int64][]byte)}
}

func (m *MemoryManager) Get(ctx context.Context, userID int64) (*State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok := m.states[userID]
	if !ok {
		return &State{}, nil
	}
	var state State
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (m *MemoryManager) Set(ctx context.Context, userID int64, state *State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[userID] = raw
	return nil
}

func (m *MemoryManager) Clear(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
	return nil
}

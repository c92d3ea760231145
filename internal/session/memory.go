package session

import (
	"context"
	"sync"

	"mini-games-bot/internal/game"
)

// MemoryStore keeps sessions in process memory. Sessions are lost on restart.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[int64]game.State
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[int64]game.State),
	}
}

func (m *MemoryStore) Get(_ context.Context, userID int64) (game.State, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.users[userID]
	return s, ok, nil
}

func (m *MemoryStore) Put(_ context.Context, userID int64, state game.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = state
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, userID)
	return nil
}

// Len returns the number of active sessions.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}

func (m *MemoryStore) Close() error { return nil }

package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"fintwin/internal/core"
)

// MemoryStore keeps transactions per user in memory. Used for tests and the
// dev backend.
type MemoryStore struct {
	mu    sync.Mutex
	users map[string][]core.Transaction
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string][]core.Transaction)}
}

func (m *MemoryStore) Create(_ context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx.ID = uuid.NewString()
	tx.CreatedAt = time.Now().UTC()
	m.users[userID] = append(m.users[userID], tx)
	return tx, nil
}

func (m *MemoryStore) Get(_ context.Context, userID, id string) (core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, tx := range m.users[userID] {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, ErrNotFound
}

func (m *MemoryStore) List(_ context.Context, userID string) ([]core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.users[userID]
	out := make([]core.Transaction, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		out = append(out, items[i])
	}
	return out, nil
}

func (m *MemoryStore) Update(_ context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.users[userID]
	for i, existing := range items {
		if existing.ID == tx.ID {
			tx.CreatedAt = existing.CreatedAt
			items[i] = tx
			return tx, nil
		}
	}
	return core.Transaction{}, ErrNotFound
}

func (m *MemoryStore) Delete(_ context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.users[userID]
	for i, tx := range items {
		if tx.ID == id {
			m.users[userID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

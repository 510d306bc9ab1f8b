package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store серверный реестр активных токенов: выход из системы удаляет запись,
// после чего токен больше не принимается даже до истечения срока
type Store interface {
	Put(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error
	Lookup(ctx context.Context, tokenID string) (uuid.UUID, bool, error)
	Delete(ctx context.Context, tokenID string) error
}

type memoryEntry struct {
	userID    uuid.UUID
	expiresAt time.Time
}

type MemoryStore struct {
	mtx     sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(ctx context.Context, tokenID string, userID uuid.UUID, ttl time.Duration) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.entries[tokenID] = memoryEntry{userID: userID, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Lookup(ctx context.Context, tokenID string) (uuid.UUID, bool, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	e, ok := s.entries[tokenID]
	if !ok || !s.now().Before(e.expiresAt) {
		return uuid.Nil, false, nil
	}
	return e.userID, true, nil
}

func (s *MemoryStore) Delete(ctx context.Context, tokenID string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	delete(s.entries, tokenID)
	return nil
}

// Sweep удаляет просроченные записи, возвращает их число
func (s *MemoryStore) Sweep(ctx context.Context) (int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Len() int {
	s.mtx.RLock()
	defer s.mtx.RUnlock()
	return len(s.entries)
}

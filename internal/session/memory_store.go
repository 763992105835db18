package session

import (
	"context"
	"sync"
	"time"

	"myblog/internal/custom_errors"
)

type memoryEntry struct {
	userID  int64
	expires time.Time
}

type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memoryEntry), now: time.Now}
}

func (s *MemoryStore) Save(ctx context.Context, id string, userID int64, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = memoryEntry{userID: userID, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.sessions[id]
	if !ok {
		return 0, custom_errors.ErrSessionNotFound
	}
	if !s.now().Before(entry.expires) {
		delete(s.sessions, id)
		return 0, custom_errors.ErrSessionNotFound
	}
	return entry.userID, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	count := 0
	for id, entry := range s.sessions {
		if now.Before(entry.expires) {
			count++
		} else {
			delete(s.sessions, id)
		}
	}
	return count, nil
}

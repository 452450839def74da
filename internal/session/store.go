// Package session keeps server-side login sessions and the signed cookie that
// points at them.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultTTL = 24 * time.Hour

var ErrNotFound = errors.New("session not found")

// Store maps opaque session ids to user ids.
type Store interface {
	Create(ctx context.Context, userID int64) (string, error)
	UserID(ctx context.Context, id string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type memoryEntry struct {
	userID  int64
	expires time.Time
}

// MemoryStore keeps sessions in process memory. Sessions are lost on restart and
// are not shared between replicas; use RedisStore for anything beyond one process.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memoryEntry
}

// NewMemoryStore returns a MemoryStore whose sessions live for ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]memoryEntry),
	}
}

func (s *MemoryStore) Create(_ context.Context, userID int64) (string, error) {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = memoryEntry{userID: userID, expires: s.now().Add(s.ttl)}
	s.sweepLocked()
	return id, nil
}

func (s *MemoryStore) UserID(_ context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return 0, ErrNotFound
	}
	if !s.now().Before(e.expires) {
		delete(s.sessions, id)
		return 0, ErrNotFound
	}
	return e.userID, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// sweepLocked drops expired entries. Caller holds s.mu.
func (s *MemoryStore) sweepLocked() {
	now := s.now()
	for id, e := range s.sessions {
		if !now.Before(e.expires) {
			delete(s.sessions, id)
		}
	}
}

package cart

import (
	"context"
	"encoding/json"
	"sync"
)

// Store persists each user's carts between requests. Writes replace the
// whole value, so concurrent sessions of one user are last-writer-wins.
type Store interface {
	Load(ctx context.Context, userID string) (*Carts, error)
	Save(ctx context.Context, userID string, carts *Carts) error
	Reset(ctx context.Context, userID string) error
}

// MemoryStore keeps carts in process. It is used when no Redis URL is
// configured and in tests.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: map[string][]byte{}}
}

func (s *MemoryStore) Load(ctx context.Context, userID string) (*Carts, error) {
	s.mu.Lock()
	raw, ok := s.carts[userID]
	s.mu.Unlock()
	if !ok {
		return New(), nil
	}
	return decode(raw)
}

func (s *MemoryStore) Save(ctx context.Context, userID string, carts *Carts) error {
	raw, err := json.Marshal(carts)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.carts[userID] = raw
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Reset(ctx context.Context, userID string) error {
	s.mu.Lock()
	delete(s.carts, userID)
	s.mu.Unlock()
	return nil
}

func decode(raw []byte) (*Carts, error) {
	carts := New()
	if err := json.Unmarshal(raw, carts); err != nil {
		return nil, err
	}
	if carts.Carts == nil {
		carts.Carts = map[string]*Cart{}
	}
	return carts, nil
}

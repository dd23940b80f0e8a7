package memory

import (
	"context"
	"sync"

	domcart "example.com/phonestore/internal/domain/cart"
)

// SlotStore keeps cart slots in process memory. Handlers run concurrently, so
// the map is guarded by a RWMutex.
type SlotStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewSlotStore() *SlotStore {
	return &SlotStore{slots: make(map[string][]byte)}
}

func (s *SlotStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.slots[key]
	if !ok {
		return nil, domcart.ErrSlotNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (s *SlotStore) Set(ctx context.Context, key string, value []byte) error {
	v := make([]byte, len(value))
	copy(v, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[key] = v
	return nil
}

func (s *SlotStore) Ping(ctx context.Context) error {
	return nil
}

// Len reports how many slots are held.
func (s *SlotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.slots)
}

package receipt

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu       sync.Mutex
	receipts []*Receipt
}

// NewMemoryStore returns a Store that only remembers the last saved
// collection.
func NewMemoryStore() Store { return &memoryStore{} }

func (s *memoryStore) LoadAll(ctx context.Context) ([]*Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Receipt, len(s.receipts))
	for i, rc := range s.receipts {
		cp := *rc
		out[i] = &cp
	}
	return out, nil
}

func (s *memoryStore) SaveAll(ctx context.Context, receipts []*Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts = make([]*Receipt, len(receipts))
	for i, rc := range receipts {
		cp := *rc
		s.receipts[i] = &cp
	}
	return nil
}

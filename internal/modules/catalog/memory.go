package catalog

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu    sync.Mutex
	items []*Item
}

// NewMemoryStore returns a Store that only remembers the last saved
// collection. Default backend when nothing durable is configured, and
// the fixture the tests run against.
func NewMemoryStore() Store { return &memoryStore{} }

func (s *memoryStore) LoadAll(ctx context.Context) ([]*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Item, len(s.items))
	for i, it := range s.items {
		cp := *it
		out[i] = &cp
	}
	return out, nil
}

func (s *memoryStore) SaveAll(ctx context.Context, items []*Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make([]*Item, len(items))
	for i, it := range items {
		cp := *it
		s.items[i] = &cp
	}
	return nil
}

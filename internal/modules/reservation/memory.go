package reservation

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu           sync.Mutex
	reservations []*Reservation
}

// NewMemoryStore returns a Store that only remembers the last saved
// collection.
func NewMemoryStore() Store { return &memoryStore{} }

func (s *memoryStore) LoadAll(ctx context.Context) ([]*Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Reservation, len(s.reservations))
	for i, rv := range s.reservations {
		cp := *rv
		out[i] = &cp
	}
	return out, nil
}

func (s *memoryStore) SaveAll(ctx context.Context, reservations []*Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reservations = make([]*Reservation, len(reservations))
	for i, rv := range reservations {
		cp := *rv
		s.reservations[i] = &cp
	}
	return nil
}

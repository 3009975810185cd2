package audit

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu   sync.Mutex
	logs []*StockAuditLog
}

// NewMemoryStore returns a Store that only remembers the last saved
// collection.
func NewMemoryStore() Store { return &memoryStore{} }

func (s *memoryStore) LoadAll(ctx context.Context) ([]*StockAuditLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*StockAuditLog, len(s.logs))
	for i, l := range s.logs {
		cp := *l
		out[i] = &cp
	}
	return out, nil
}

func (s *memoryStore) SaveAll(ctx context.Context, logs []*StockAuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = make([]*StockAuditLog, len(logs))
	for i, l := range logs {
		cp := *l
		s.logs[i] = &cp
	}
	return nil
}

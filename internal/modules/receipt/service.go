package receipt

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/campuskits/merchstore-backend/internal/activity"
)

// Service owns the receipt register. Receipts link to reservations by
// item code and buyer name rather than a stored foreign key, so every
// lookup that resolves "the receipt for this reservation" picks the
// most recently issued match (highest id wins).
type Service interface {
	// Issue appends a receipt with the next sequential id.
	Issue(ctx context.Context, req IssueRequest) *Receipt

	// UpdateStatus mutates a receipt's status in place. No history of
	// prior statuses is kept. Returns false if the id is unknown.
	UpdateStatus(ctx context.Context, receiptID int, newStatus string) bool

	FindByID(receiptID int) (*Receipt, bool)

	// ListByBuyer returns the buyer's receipts newest first by id.
	ListByBuyer(buyer string) []*Receipt

	// FindLatestByItemAndBuyer returns the most recent receipt for an
	// item and buyer, highest id wins.
	FindLatestByItemAndBuyer(itemCode int, buyer string) (*Receipt, bool)

	// FindOpenByItemAndBuyer is the reconciliation variant restricted
	// to receipts still awaiting pickup.
	FindOpenByItemAndBuyer(itemCode int, buyer string) (*Receipt, bool)

	ListAll() []*Receipt
}

type service struct {
	mu       sync.Mutex
	receipts []*Receipt
	nextID   int
	store    Store
	activity *activity.Logger
}

// NewService loads the receipt register from the store.
func NewService(ctx context.Context, store Store, log *activity.Logger) (Service, error) {
	receipts, err := store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load receipts: %w", err)
	}
	next := IDFloor
	for _, rc := range receipts {
		if rc.ID >= next {
			next = rc.ID + 1
		}
	}
	return &service{receipts: receipts, nextID: next, store: store, activity: log}, nil
}

func (s *service) Issue(ctx context.Context, req IssueRequest) *Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	rc := &Receipt{
		ID:        s.nextID,
		CreatedAt: time.Now().Truncate(time.Second),
		Status:    req.Status,
		Quantity:  req.Quantity,
		Amount:    req.Amount,
		ItemCode:  req.ItemCode,
		ItemName:  req.ItemName,
		Size:      req.Size,
		BuyerName: req.BuyerName,
		BundleID:  req.BundleID,
	}
	s.nextID++
	s.receipts = append(s.receipts, rc)
	s.persist(ctx)
	cp := *rc
	return &cp
}

func (s *service) UpdateStatus(ctx context.Context, receiptID int, newStatus string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rc := range s.receipts {
		if rc.ID == receiptID {
			rc.Status = newStatus
			s.persist(ctx)
			return true
		}
	}
	return false
}

func (s *service) FindByID(receiptID int) (*Receipt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rc := range s.receipts {
		if rc.ID == receiptID {
			cp := *rc
			return &cp, true
		}
	}
	return nil, false
}

func (s *service) ListByBuyer(buyer string) []*Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Receipt
	for _, rc := range s.receipts {
		if rc.BuyerName == buyer {
			cp := *rc
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *service) FindLatestByItemAndBuyer(itemCode int, buyer string) (*Receipt, bool) {
	return s.latest(itemCode, buyer, func(*Receipt) bool { return true })
}

func (s *service) FindOpenByItemAndBuyer(itemCode int, buyer string) (*Receipt, bool) {
	return s.latest(itemCode, buyer, func(rc *Receipt) bool { return rc.Status == StatusPaid })
}

func (s *service) latest(itemCode int, buyer string, keep func(*Receipt) bool) (*Receipt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var best *Receipt
	for _, rc := range s.receipts {
		if rc.ItemCode != itemCode || rc.BuyerName != buyer || !keep(rc) {
			continue
		}
		if best == nil || rc.ID > best.ID {
			best = rc
		}
	}
	if best == nil {
		return nil, false
	}
	cp := *best
	return &cp, true
}

func (s *service) ListAll() []*Receipt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Receipt, len(s.receipts))
	for i, rc := range s.receipts {
		cp := *rc
		out[i] = &cp
	}
	return out
}

func (s *service) persist(ctx context.Context) {
	if err := s.store.SaveAll(ctx, s.receipts); err != nil {
		s.activity.PersistenceFailure("receipts", err)
	}
}

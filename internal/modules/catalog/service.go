package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/campuskits/merchstore-backend/internal/activity"
)

// Service owns the item collection and all quantity arithmetic.
type Service interface {
	// Find returns the first variant with the given code.
	Find(code int) (*Item, bool)

	// FindVariant returns the exact (code, size) variant.
	FindVariant(code int, size string) (*Item, bool)

	// ListAll returns the whole catalog.
	ListAll() []*Item

	// ListByCourse returns in-stock items for a course, including
	// universal items visible to every course.
	ListByCourse(course string) []*Item

	// AddItem adds a variant to the catalog.
	AddItem(ctx context.Context, req AddItemRequest) (*Item, error)

	// SetQuantity replaces a variant's quantity. Rejects negatives.
	SetQuantity(ctx context.Context, actor string, code int, size string, newQty int, reason string) error

	// AddQuantity applies a signed delta. Rejects a negative result.
	AddQuantity(ctx context.Context, actor string, code int, size string, delta int, reason string) error

	// ReserveCheck reports whether qty could be deducted right now.
	// It never mutates stock: reservation and deduction are
	// deliberately decoupled.
	ReserveCheck(code int, size string, qty int) bool

	// Deduct lowers quantity for a sale. Returns false without
	// mutating anything when stock is insufficient.
	Deduct(ctx context.Context, code int, size string, qty int) bool
}

type service struct {
	mu       sync.Mutex
	items    []*Item
	byCode   map[int][]*Item
	store    Store
	activity *activity.Logger
}

// NewService loads the item collection from the store and returns the
// catalog manager.
func NewService(ctx context.Context, store Store, log *activity.Logger) (Service, error) {
	items, err := store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	s := &service{items: items, byCode: map[int][]*Item{}, store: store, activity: log}
	for _, it := range items {
		s.byCode[it.Code] = append(s.byCode[it.Code], it)
	}
	return s, nil
}

func (s *service) Find(code int) (*Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	variants := s.byCode[code]
	if len(variants) == 0 {
		return nil, false
	}
	cp := *variants[0]
	return &cp, true
}

func (s *service) FindVariant(code int, size string) (*Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.variant(code, size)
	if it == nil {
		return nil, false
	}
	cp := *it
	return &cp, true
}

func (s *service) ListAll() []*Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Item, len(s.items))
	for i, it := range s.items {
		cp := *it
		out[i] = &cp
	}
	return out
}

func (s *service) ListByCourse(course string) []*Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Item
	for _, it := range s.items {
		if it.Quantity <= 0 {
			continue
		}
		if it.Course == course || it.Course == UniversalCourse {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out
}

func (s *service) AddItem(ctx context.Context, req AddItemRequest) (*Item, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if req.Quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative")
	}
	if req.UnitPrice < 0 {
		return nil, fmt.Errorf("unit_price cannot be negative")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.variant(req.Code, req.Size) != nil {
		return nil, fmt.Errorf("item %d/%s already exists", req.Code, req.Size)
	}
	it := &Item{
		Code:      req.Code,
		Size:      req.Size,
		Name:      req.Name,
		Course:    req.Course,
		Quantity:  req.Quantity,
		UnitPrice: req.UnitPrice,
	}
	s.items = append(s.items, it)
	s.byCode[it.Code] = append(s.byCode[it.Code], it)
	s.persist(ctx)
	cp := *it
	return &cp, nil
}

func (s *service) SetQuantity(ctx context.Context, actor string, code int, size string, newQty int, reason string) error {
	if newQty < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.variant(code, size)
	if it == nil {
		return fmt.Errorf("item %d/%s not found", code, size)
	}
	before := it.Quantity
	it.Quantity = newQty
	s.persist(ctx)
	s.activity.StockChanged(actor, it.Name, code, size, before, newQty, reason)
	return nil
}

func (s *service) AddQuantity(ctx context.Context, actor string, code int, size string, delta int, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.variant(code, size)
	if it == nil {
		return fmt.Errorf("item %d/%s not found", code, size)
	}
	if it.Quantity+delta < 0 {
		return fmt.Errorf("quantity cannot go negative (have %d, delta %d)", it.Quantity, delta)
	}
	before := it.Quantity
	it.Quantity += delta
	s.persist(ctx)
	s.activity.StockChanged(actor, it.Name, code, size, before, it.Quantity, reason)
	return nil
}

func (s *service) ReserveCheck(code int, size string, qty int) bool {
	if qty <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.variant(code, size)
	return it != nil && it.Quantity >= qty
}

func (s *service) Deduct(ctx context.Context, code int, size string, qty int) bool {
	if qty <= 0 {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	it := s.variant(code, size)
	if it == nil || it.Quantity < qty {
		return false
	}
	it.Quantity -= qty
	s.persist(ctx)
	return true
}

// variant looks up the exact (code, size) record. Callers hold s.mu.
func (s *service) variant(code int, size string) *Item {
	for _, it := range s.byCode[code] {
		if it.Size == size {
			return it
		}
	}
	return nil
}

// persist rewrites the durable copy. A failed write is reported and
// the in-memory state stays authoritative until the next save.
// Callers hold s.mu.
func (s *service) persist(ctx context.Context) {
	if err := s.store.SaveAll(ctx, s.items); err != nil {
		s.activity.PersistenceFailure("items", err)
	}
}

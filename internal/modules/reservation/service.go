package reservation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/campuskits/merchstore-backend/internal/activity"
	"github.com/campuskits/merchstore-backend/internal/modules/catalog"
)

// CatalogReader is the catalog-facing dependency of the ledger:
// availability without deduction. Creating a reservation never locks
// or lowers stock.
type CatalogReader interface {
	ReserveCheck(code int, size string, qty int) bool
	FindVariant(code int, size string) (*catalog.Item, bool)
}

// Service owns the reservation ledger and its lifecycle. Transitions
// that carry a stock effect (payment, pickup, return approval) are
// driven by the checkout coordinator, which deducts or restocks first
// and only then commits the status change here.
type Service interface {
	// Create reserves stock for a student. The availability check is
	// pure: stock is untouched until payment. Fails when the item is
	// unknown or stock is insufficient; no partial reservation is
	// ever persisted.
	Create(ctx context.Context, req CreateRequest) (*Reservation, error)

	// Approve moves a PENDING reservation to awaiting payment.
	Approve(ctx context.Context, id int) bool

	// MarkPaid commits payment. Valid only from awaiting payment and
	// not yet paid. The caller must have deducted stock already.
	MarkPaid(ctx context.Context, id int, method PaymentMethod) bool

	// MarkPickedUp completes the reservation and stamps the
	// completion time the return window counts from.
	MarkPickedUp(ctx context.Context, id int) bool

	// RequestReturn is valid only for COMPLETED reservations within
	// ReturnWindow of pickup.
	RequestReturn(ctx context.Context, id int, reason string) bool

	// MarkReturned commits an approved return. The caller must have
	// restocked already.
	MarkReturned(ctx context.Context, id int) bool

	// RejectReturn reverts a requested return to COMPLETED with an
	// explanatory reason appended.
	RejectReturn(ctx context.Context, id int, reason string) bool

	// Cancel voids a reservation from any state that is not COMPLETED
	// or terminal. Stock is never held on reserve, so cancellation
	// never restocks.
	Cancel(ctx context.Context, id int, reason string) bool

	Get(id int) (*Reservation, bool)
	ListAll() []*Reservation
	ListByStudent(studentID string) []*Reservation
	ListByStatus(status Status) []*Reservation

	// ListByBundle returns the reservations co-reserved under one
	// bundle tag.
	ListByBundle(bundleID string) []*Reservation
}

type service struct {
	mu           sync.Mutex
	reservations []*Reservation
	nextID       int
	stock        CatalogReader
	store        Store
	activity     *activity.Logger
	now          func() time.Time
}

// NewService loads the ledger from the store.
func NewService(ctx context.Context, store Store, stock CatalogReader, log *activity.Logger) (Service, error) {
	reservations, err := store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}
	next := IDFloor
	for _, rv := range reservations {
		if rv.ID >= next {
			next = rv.ID + 1
		}
	}
	return &service{
		reservations: reservations,
		nextID:       next,
		stock:        stock,
		store:        store,
		activity:     log,
		now:          time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Reservation, error) {
	if req.StudentName == "" {
		return nil, fmt.Errorf("student_name is required")
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be greater than zero")
	}
	it, ok := s.stock.FindVariant(req.ItemCode, req.Size)
	if !ok {
		return nil, fmt.Errorf("item %d/%s not found", req.ItemCode, req.Size)
	}
	if !s.stock.ReserveCheck(req.ItemCode, req.Size, req.Quantity) {
		return nil, fmt.Errorf("insufficient stock for %s (%d/%s): requested %d, available %d",
			it.Name, req.ItemCode, req.Size, req.Quantity, it.Quantity)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rv := &Reservation{
		ID:            s.nextID,
		StudentName:   req.StudentName,
		StudentID:     req.StudentID,
		Course:        req.Course,
		ItemCode:      req.ItemCode,
		ItemName:      it.Name,
		Size:          req.Size,
		Quantity:      req.Quantity,
		TotalPrice:    float64(req.Quantity) * it.UnitPrice,
		Status:        StatusPending,
		Paid:          false,
		PaymentMethod: PayUnpaid,
		BundleID:      req.BundleID,
		CreatedAt:     s.now().Truncate(time.Second),
	}
	s.nextID++
	s.reservations = append(s.reservations, rv)
	s.persist(ctx)
	s.activity.ReservationTransition(rv.ID, "", string(StatusPending), "reserved by "+rv.StudentName)
	cp := *rv
	return &cp, nil
}

func (s *service) Approve(ctx context.Context, id int) bool {
	return s.transition(ctx, id, StatusPending, StatusAwaitingPayment, "admin approved", nil)
}

func (s *service) MarkPaid(ctx context.Context, id int, method PaymentMethod) bool {
	return s.transition(ctx, id, StatusAwaitingPayment, StatusReadyForPickup, "paid via "+string(method),
		func(rv *Reservation) bool {
			if rv.Paid {
				return false
			}
			rv.Paid = true
			rv.PaymentMethod = method
			return true
		})
}

func (s *service) MarkPickedUp(ctx context.Context, id int) bool {
	return s.transition(ctx, id, StatusReadyForPickup, StatusCompleted, "picked up",
		func(rv *Reservation) bool {
			t := s.now().Truncate(time.Second)
			rv.CompletedAt = &t
			return true
		})
}

func (s *service) RequestReturn(ctx context.Context, id int, reason string) bool {
	return s.transition(ctx, id, StatusCompleted, StatusReturnRequested, "return requested: "+reason,
		func(rv *Reservation) bool {
			if rv.CompletedAt == nil || s.now().Sub(*rv.CompletedAt) > ReturnWindow {
				return false
			}
			rv.Reason = reason
			return true
		})
}

func (s *service) MarkReturned(ctx context.Context, id int) bool {
	return s.transition(ctx, id, StatusReturnRequested, StatusReturned, "return approved", nil)
}

func (s *service) RejectReturn(ctx context.Context, id int, reason string) bool {
	return s.transition(ctx, id, StatusReturnRequested, StatusCompleted, "return rejected: "+reason,
		func(rv *Reservation) bool {
			if rv.Reason != "" {
				rv.Reason += "; "
			}
			rv.Reason += "return rejected: " + reason
			return true
		})
}

func (s *service) Cancel(ctx context.Context, id int, reason string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rv := s.find(id)
	if rv == nil {
		return false
	}
	switch rv.Status {
	case StatusCompleted, StatusReturned, StatusCancelled:
		return false
	}
	from := rv.Status
	rv.Status = StatusCancelled
	if reason != "" {
		rv.Reason = reason
	}
	s.persist(ctx)
	s.activity.ReservationTransition(id, string(from), string(StatusCancelled), reason)
	return true
}

func (s *service) Get(id int) (*Reservation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rv := s.find(id)
	if rv == nil {
		return nil, false
	}
	cp := *rv
	return &cp, true
}

func (s *service) ListAll() []*Reservation {
	return s.filter(func(*Reservation) bool { return true })
}

func (s *service) ListByStudent(studentID string) []*Reservation {
	return s.filter(func(rv *Reservation) bool { return rv.StudentID == studentID })
}

func (s *service) ListByStatus(status Status) []*Reservation {
	return s.filter(func(rv *Reservation) bool { return rv.Status == status })
}

func (s *service) ListByBundle(bundleID string) []*Reservation {
	return s.filter(func(rv *Reservation) bool { return rv.BundleID != "" && rv.BundleID == bundleID })
}

// transition moves a reservation from exactly `from` to `to`. The
// optional mutate hook runs before the status flips and can veto the
// transition; nothing is persisted on a veto.
func (s *service) transition(ctx context.Context, id int, from, to Status, note string, mutate func(*Reservation) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	rv := s.find(id)
	if rv == nil || rv.Status != from {
		return false
	}
	if mutate != nil {
		saved := *rv
		if !mutate(rv) {
			*rv = saved
			return false
		}
	}
	rv.Status = to
	s.persist(ctx)
	s.activity.ReservationTransition(id, string(from), string(to), note)
	return true
}

func (s *service) filter(keep func(*Reservation) bool) []*Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Reservation
	for _, rv := range s.reservations {
		if keep(rv) {
			cp := *rv
			out = append(out, &cp)
		}
	}
	return out
}

func (s *service) find(id int) *Reservation {
	for _, rv := range s.reservations {
		if rv.ID == id {
			return rv
		}
	}
	return nil
}

func (s *service) persist(ctx context.Context) {
	if err := s.store.SaveAll(ctx, s.reservations); err != nil {
		s.activity.PersistenceFailure("reservations", err)
	}
}

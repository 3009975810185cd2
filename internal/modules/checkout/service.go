package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/campuskits/merchstore-backend/internal/activity"
	"github.com/campuskits/merchstore-backend/internal/modules/audit"
	"github.com/campuskits/merchstore-backend/internal/modules/catalog"
	"github.com/campuskits/merchstore-backend/internal/modules/receipt"
	"github.com/campuskits/merchstore-backend/internal/modules/reservation"
)

// Service sequences every flow that touches more than one collection.
// It holds no state of its own. Each step is ordered so the stock
// mutation is attempted before any status transition is committed: if
// the stock mutation fails, nothing downstream happens.
type Service interface {
	// MarkPaid deducts stock, commits payment on the reservation, and
	// issues the receipt. Stock can vanish between approval and
	// payment; when the deduction fails the reservation keeps its
	// prior state.
	MarkPaid(ctx context.Context, reservationID int, method string) (*reservation.Reservation, error)

	// MarkPickedUp completes the reservation, moves the linked
	// receipt along, and logs the remaining stock for traceability.
	MarkPickedUp(ctx context.Context, actor string, reservationID int) (*reservation.Reservation, error)

	// ApproveReturn restocks first, then flips the reservation and
	// receipt, then appends an executed RETURN audit record.
	ApproveReturn(ctx context.Context, actor string, reservationID int) (*reservation.Reservation, error)

	// RequestAdjustment queues a direct stock edit for admin
	// approval. The catalog is untouched until approval.
	RequestAdjustment(ctx context.Context, actor string, itemCode int, size string, newQty int, reason string) (*audit.StockAuditLog, error)

	// ApproveAdjustment resolves the audit entry and applies the
	// queued quantity to the catalog.
	ApproveAdjustment(ctx context.Context, logID, approver string) (*audit.StockAuditLog, error)

	// RejectAdjustment resolves the audit entry as rejected; the
	// catalog is left exactly as it was.
	RejectAdjustment(ctx context.Context, logID, approver, reason string) bool
}

type service struct {
	catalog  catalog.Service
	ledger   reservation.Service
	receipts receipt.Service
	trail    audit.Service
	activity *activity.Logger
}

// NewService wires the coordinator to the four collection managers.
func NewService(cat catalog.Service, ledger reservation.Service, receipts receipt.Service, trail audit.Service, log *activity.Logger) Service {
	return &service{catalog: cat, ledger: ledger, receipts: receipts, trail: trail, activity: log}
}

func (s *service) MarkPaid(ctx context.Context, reservationID int, method string) (*reservation.Reservation, error) {
	pm, err := parseMethod(method)
	if err != nil {
		return nil, err
	}
	rv, ok := s.ledger.Get(reservationID)
	if !ok {
		return nil, fmt.Errorf("reservation %d not found", reservationID)
	}
	if rv.Status != reservation.StatusAwaitingPayment || rv.Paid {
		return nil, fmt.Errorf("reservation %d cannot be paid from status %q", reservationID, rv.Status)
	}

	// Stock first. Approval never held any, so it may be gone by now.
	if !s.catalog.Deduct(ctx, rv.ItemCode, rv.Size, rv.Quantity) {
		return nil, fmt.Errorf("insufficient stock for %s (%d/%s): payment refused", rv.ItemName, rv.ItemCode, rv.Size)
	}
	if !s.ledger.MarkPaid(ctx, reservationID, pm) {
		// The reservation moved under us; give the stock back.
		_ = s.catalog.AddQuantity(ctx, "system", rv.ItemCode, rv.Size, rv.Quantity, "payment rollback")
		return nil, fmt.Errorf("reservation %d changed state during payment", reservationID)
	}

	s.receipts.Issue(ctx, receipt.IssueRequest{
		Status:    receipt.StatusPaid,
		Quantity:  rv.Quantity,
		Amount:    rv.TotalPrice,
		ItemCode:  rv.ItemCode,
		ItemName:  rv.ItemName,
		Size:      rv.Size,
		BuyerName: rv.StudentName,
		BundleID:  rv.BundleID,
	})

	if it, ok := s.catalog.FindVariant(rv.ItemCode, rv.Size); ok {
		s.activity.StockLevel("payment", it.Name, it.Code, it.Size, it.Quantity)
	}

	paid, _ := s.ledger.Get(reservationID)
	return paid, nil
}

func (s *service) MarkPickedUp(ctx context.Context, actor string, reservationID int) (*reservation.Reservation, error) {
	rv, ok := s.ledger.Get(reservationID)
	if !ok {
		return nil, fmt.Errorf("reservation %d not found", reservationID)
	}
	if !s.ledger.MarkPickedUp(ctx, reservationID) {
		return nil, fmt.Errorf("reservation %d cannot be picked up from status %q", reservationID, rv.Status)
	}

	if rc, ok := s.receipts.FindLatestByItemAndBuyer(rv.ItemCode, rv.StudentName); ok {
		s.receipts.UpdateStatus(ctx, rc.ID, receipt.StatusCompleted)
	}

	// Trace the absolute remaining stock, not the delta.
	if it, ok := s.catalog.FindVariant(rv.ItemCode, rv.Size); ok {
		s.activity.StockLevel("pickup by "+actor, it.Name, it.Code, it.Size, it.Quantity)
	}

	done, _ := s.ledger.Get(reservationID)
	return done, nil
}

func (s *service) ApproveReturn(ctx context.Context, actor string, reservationID int) (*reservation.Reservation, error) {
	rv, ok := s.ledger.Get(reservationID)
	if !ok {
		return nil, fmt.Errorf("reservation %d not found", reservationID)
	}
	if rv.Status != reservation.StatusReturnRequested {
		return nil, fmt.Errorf("reservation %d has no return request pending", reservationID)
	}

	it, ok := s.catalog.FindVariant(rv.ItemCode, rv.Size)
	if !ok {
		return nil, fmt.Errorf("item %d/%s no longer in catalog", rv.ItemCode, rv.Size)
	}
	before := it.Quantity

	// Restock first: a failed restock leaves everything untouched.
	if err := s.catalog.AddQuantity(ctx, actor, rv.ItemCode, rv.Size, rv.Quantity, "return restock"); err != nil {
		return nil, fmt.Errorf("restock failed: %w", err)
	}
	if !s.ledger.MarkReturned(ctx, reservationID) {
		_ = s.catalog.AddQuantity(ctx, "system", rv.ItemCode, rv.Size, -rv.Quantity, "return rollback")
		return nil, fmt.Errorf("reservation %d changed state during return", reservationID)
	}

	if rc, ok := s.receipts.FindLatestByItemAndBuyer(rv.ItemCode, rv.StudentName); ok {
		s.receipts.UpdateStatus(ctx, rc.ID, receipt.StatusReturned)
	}

	after := before + rv.Quantity
	s.trail.RecordExecuted(ctx, actor, rv.ItemName, rv.ItemCode, rv.Size, before, after, rv.Reason, audit.ChangeReturn)
	s.activity.StockLevel("return by "+actor, rv.ItemName, rv.ItemCode, rv.Size, after)

	returned, _ := s.ledger.Get(reservationID)
	return returned, nil
}

func (s *service) RequestAdjustment(ctx context.Context, actor string, itemCode int, size string, newQty int, reason string) (*audit.StockAuditLog, error) {
	if newQty < 0 {
		return nil, fmt.Errorf("new quantity cannot be negative")
	}
	it, ok := s.catalog.FindVariant(itemCode, size)
	if !ok {
		return nil, fmt.Errorf("item %d/%s not found", itemCode, size)
	}
	changeType := audit.DeriveChangeType(newQty - it.Quantity)
	return s.trail.LogChange(ctx, actor, it.Name, itemCode, size, it.Quantity, newQty, reason, changeType), nil
}

func (s *service) ApproveAdjustment(ctx context.Context, logID, approver string) (*audit.StockAuditLog, error) {
	entry, ok := s.trail.Get(logID)
	if !ok {
		return nil, fmt.Errorf("stock change %s not found", logID)
	}
	// The trail marks approval and execution as one step; applying
	// the quantity to the catalog is this coordinator's job.
	if !s.trail.Approve(ctx, logID, approver) {
		return nil, fmt.Errorf("stock change %s is not pending", logID)
	}
	if err := s.catalog.SetQuantity(ctx, approver, entry.ItemCode, entry.Size, entry.QtyAfter, entry.Reason); err != nil {
		return nil, fmt.Errorf("approved stock change %s could not be applied: %w", logID, err)
	}
	resolved, _ := s.trail.Get(logID)
	return resolved, nil
}

func (s *service) RejectAdjustment(ctx context.Context, logID, approver, reason string) bool {
	return s.trail.Reject(ctx, logID, approver, reason)
}

func parseMethod(method string) (reservation.PaymentMethod, error) {
	pm := reservation.PaymentMethod(strings.ToUpper(method))
	switch pm {
	case reservation.PayCash, reservation.PayGCash, reservation.PayCard, reservation.PayBank:
		return pm, nil
	default:
		return "", fmt.Errorf("invalid payment method %q (allowed: CASH, GCASH, CARD, BANK)", method)
	}
}

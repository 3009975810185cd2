package audit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campuskits/merchstore-backend/internal/activity"
)

// Service owns the stock audit trail: every staff-initiated stock
// change is recorded here as PENDING and only takes effect once an
// admin approves it.
type Service interface {
	// LogChange appends a PENDING record of a requested stock change.
	LogChange(ctx context.Context, actor, itemName string, itemCode int, size string, qtyBefore, qtyAfter int, reason string, changeType ChangeType) *StockAuditLog

	// RecordExecuted appends a record of a stock change that has
	// already been applied (e.g. a return restock), skipping the
	// approval queue.
	RecordExecuted(ctx context.Context, actor, itemName string, itemCode int, size string, qtyBefore, qtyAfter int, reason string, changeType ChangeType) *StockAuditLog

	// Approve resolves a PENDING record. The record jumps straight to
	// EXECUTED: approval and application are one caller-visible step.
	// Returns false if the record is missing or no longer PENDING.
	Approve(ctx context.Context, logID, approver string) bool

	// Reject resolves a PENDING record as REJECTED, terminal.
	// Returns false if the record is missing or no longer PENDING.
	Reject(ctx context.Context, logID, approver, reason string) bool

	Get(logID string) (*StockAuditLog, bool)
	ListAll() []*StockAuditLog
	ListByStatus(status Status) []*StockAuditLog
	ListByActor(actor string) []*StockAuditLog
	ListByItemCode(code int) []*StockAuditLog
	ListByReason(fragment string) []*StockAuditLog
}

type service struct {
	mu       sync.Mutex
	logs     []*StockAuditLog
	store    Store
	activity *activity.Logger
}

// NewService loads the audit trail from the store.
func NewService(ctx context.Context, store Store, log *activity.Logger) (Service, error) {
	logs, err := store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load audit trail: %w", err)
	}
	return &service{logs: logs, store: store, activity: log}, nil
}

func (s *service) LogChange(ctx context.Context, actor, itemName string, itemCode int, size string, qtyBefore, qtyAfter int, reason string, changeType ChangeType) *StockAuditLog {
	return s.append(ctx, actor, itemName, itemCode, size, qtyBefore, qtyAfter, reason, changeType, StatusPending, "", nil)
}

func (s *service) RecordExecuted(ctx context.Context, actor, itemName string, itemCode int, size string, qtyBefore, qtyAfter int, reason string, changeType ChangeType) *StockAuditLog {
	now := timestamp()
	return s.append(ctx, actor, itemName, itemCode, size, qtyBefore, qtyAfter, reason, changeType, StatusExecuted, actor, &now)
}

func (s *service) append(ctx context.Context, actor, itemName string, itemCode int, size string, qtyBefore, qtyAfter int, reason string, changeType ChangeType, status Status, approver string, approvedAt *time.Time) *StockAuditLog {
	l := &StockAuditLog{
		ID:         uuid.NewString(),
		Actor:      actor,
		ItemCode:   itemCode,
		ItemName:   itemName,
		Size:       size,
		QtyBefore:  qtyBefore,
		QtyAfter:   qtyAfter,
		QtyChanged: qtyAfter - qtyBefore,
		Reason:     reason,
		ChangeType: changeType,
		Status:     status,
		CreatedAt:  timestamp(),
		ApprovedBy: approver,
		ApprovedAt: approvedAt,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, l)
	s.persist(ctx)
	cp := *l
	return &cp
}

func (s *service) Approve(ctx context.Context, logID, approver string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.find(logID)
	if l == nil || l.Status != StatusPending {
		return false
	}
	// Approval and execution are one observable step: callers see the
	// record jump from PENDING straight to EXECUTED.
	l.Status = StatusExecuted
	l.ApprovedBy = approver
	now := timestamp()
	l.ApprovedAt = &now
	s.persist(ctx)
	s.activity.AuditDecision(logID, "approved", approver, l.Reason)
	return true
}

func (s *service) Reject(ctx context.Context, logID, approver, reason string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.find(logID)
	if l == nil || l.Status != StatusPending {
		return false
	}
	l.Status = StatusRejected
	l.ApprovedBy = approver
	now := timestamp()
	l.ApprovedAt = &now
	l.Notes = reason
	s.persist(ctx)
	s.activity.AuditDecision(logID, "rejected", approver, reason)
	return true
}

func (s *service) Get(logID string) (*StockAuditLog, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.find(logID)
	if l == nil {
		return nil, false
	}
	cp := *l
	return &cp, true
}

func (s *service) ListAll() []*StockAuditLog {
	return s.filter(func(*StockAuditLog) bool { return true })
}

func (s *service) ListByStatus(status Status) []*StockAuditLog {
	return s.filter(func(l *StockAuditLog) bool { return l.Status == status })
}

func (s *service) ListByActor(actor string) []*StockAuditLog {
	return s.filter(func(l *StockAuditLog) bool { return l.Actor == actor })
}

func (s *service) ListByItemCode(code int) []*StockAuditLog {
	return s.filter(func(l *StockAuditLog) bool { return l.ItemCode == code })
}

func (s *service) ListByReason(fragment string) []*StockAuditLog {
	needle := strings.ToLower(fragment)
	return s.filter(func(l *StockAuditLog) bool {
		return strings.Contains(strings.ToLower(l.Reason), needle)
	})
}

func (s *service) filter(keep func(*StockAuditLog) bool) []*StockAuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*StockAuditLog
	for _, l := range s.logs {
		if keep(l) {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out
}

func (s *service) find(logID string) *StockAuditLog {
	for _, l := range s.logs {
		if l.ID == logID {
			return l
		}
	}
	return nil
}

func (s *service) persist(ctx context.Context) {
	if err := s.store.SaveAll(ctx, s.logs); err != nil {
		s.activity.PersistenceFailure("stock_audit_logs", err)
	}
}

// timestamp returns second-precision local time, the granularity the
// durable formats carry.
func timestamp() time.Time {
	return time.Now().Truncate(time.Second)
}

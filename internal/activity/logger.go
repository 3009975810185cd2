package activity

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger is the activity-log collaborator every manager reports to.
// It is an observability side channel, not the durable audit record:
// each call emits one human-readable line carrying the actor, the
// item touched, before/after quantities, and the reason.
type Logger struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Logger {
	return &Logger{log: log}
}

// NewNop returns a logger that discards everything. Used by tests.
func NewNop() *Logger {
	return &Logger{log: zap.NewNop()}
}

// StockChanged records a catalog quantity mutation.
func (l *Logger) StockChanged(actor, itemName string, code int, size string, before, after int, reason string) {
	l.log.Info(fmt.Sprintf("%s changed stock of %s (%d/%s): %d -> %d (%s)",
		actor, itemName, code, size, before, after, reason),
		zap.String("actor", actor),
		zap.Int("item_code", code),
		zap.String("size", size),
		zap.Int("qty_before", before),
		zap.Int("qty_after", after),
		zap.String("reason", reason),
	)
}

// StockLevel records the remaining stock observed during a pickup or
// return, absolute quantity rather than a delta.
func (l *Logger) StockLevel(event, itemName string, code int, size string, remaining int) {
	l.log.Info(fmt.Sprintf("%s: %s (%d/%s) remaining stock %d",
		event, itemName, code, size, remaining),
		zap.String("event", event),
		zap.Int("item_code", code),
		zap.String("size", size),
		zap.Int("remaining", remaining),
	)
}

// ReservationTransition records a reservation state change.
func (l *Logger) ReservationTransition(id int, from, to, note string) {
	l.log.Info(fmt.Sprintf("reservation %d: %s -> %s (%s)", id, from, to, note),
		zap.Int("reservation_id", id),
		zap.String("from", from),
		zap.String("to", to),
		zap.String("note", note),
	)
}

// AuditDecision records an admin approving or rejecting a pending
// stock change request.
func (l *Logger) AuditDecision(logID, decision, approver, reason string) {
	l.log.Info(fmt.Sprintf("stock change %s %s by %s (%s)", logID, decision, approver, reason),
		zap.String("log_id", logID),
		zap.String("decision", decision),
		zap.String("approver", approver),
		zap.String("reason", reason),
	)
}

// PersistenceFailure reports a failed durable rewrite. The in-memory
// state stays authoritative until the next successful save.
func (l *Logger) PersistenceFailure(collection string, err error) {
	l.log.Warn(fmt.Sprintf("failed to persist %s collection, in-memory state is ahead of disk", collection),
		zap.String("collection", collection),
		zap.Error(err),
	)
}

// SkippedRecord reports a malformed persisted record dropped on load.
func (l *Logger) SkippedRecord(collection string, err error) {
	l.log.Warn(fmt.Sprintf("skipping malformed %s record", collection),
		zap.String("collection", collection),
		zap.Error(err),
	)
}

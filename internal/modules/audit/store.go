package audit

import "context"

// Store is the durable home of the audit log collection.
type Store interface {
	LoadAll(ctx context.Context) ([]*StockAuditLog, error)
	SaveAll(ctx context.Context, logs []*StockAuditLog) error
}

package audit

import (
	"context"
	"database/sql"
	"fmt"
)

type postgresStore struct{ db *sql.DB }

// NewPostgresStore returns a Store backed by the stock_audit_logs
// table, rewritten in full on every save.
func NewPostgresStore(db *sql.DB) Store { return &postgresStore{db: db} }

func (s *postgresStore) LoadAll(ctx context.Context) ([]*StockAuditLog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, actor, item_code, item_name, size, qty_before, qty_after, qty_changed,
		       reason, change_type, status, created_at, approved_by, approved_at, notes
		FROM stock_audit_logs ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("load stock_audit_logs: %w", err)
	}
	defer rows.Close()
	var logs []*StockAuditLog
	for rows.Next() {
		l := &StockAuditLog{}
		var approvedBy sql.NullString
		var approvedAt sql.NullTime
		if err := rows.Scan(&l.ID, &l.Actor, &l.ItemCode, &l.ItemName, &l.Size,
			&l.QtyBefore, &l.QtyAfter, &l.QtyChanged, &l.Reason, &l.ChangeType,
			&l.Status, &l.CreatedAt, &approvedBy, &approvedAt, &l.Notes); err != nil {
			return nil, fmt.Errorf("scan stock_audit_log: %w", err)
		}
		if approvedBy.Valid {
			l.ApprovedBy = approvedBy.String
		}
		if approvedAt.Valid {
			t := approvedAt.Time
			l.ApprovedAt = &t
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *postgresStore) SaveAll(ctx context.Context, logs []*StockAuditLog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM stock_audit_logs`); err != nil {
		return fmt.Errorf("clear stock_audit_logs: %w", err)
	}
	for _, l := range logs {
		var approvedBy interface{}
		if l.ApprovedBy != "" {
			approvedBy = l.ApprovedBy
		}
		var approvedAt interface{}
		if l.ApprovedAt != nil {
			approvedAt = *l.ApprovedAt
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO stock_audit_logs
			  (id, actor, item_code, item_name, size, qty_before, qty_after, qty_changed,
			   reason, change_type, status, created_at, approved_by, approved_at, notes)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`,
			l.ID, l.Actor, l.ItemCode, l.ItemName, l.Size, l.QtyBefore, l.QtyAfter,
			l.QtyChanged, l.Reason, l.ChangeType, l.Status, l.CreatedAt,
			approvedBy, approvedAt, l.Notes)
		if err != nil {
			return fmt.Errorf("insert stock_audit_log %s: %w", l.ID, err)
		}
	}
	return tx.Commit()
}

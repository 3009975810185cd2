package receipt

import (
	"context"
	"database/sql"
	"fmt"
)

type postgresStore struct{ db *sql.DB }

// NewPostgresStore returns a Store backed by the receipts table,
// rewritten in full on every save.
func NewPostgresStore(db *sql.DB) Store { return &postgresStore{db: db} }

func (s *postgresStore) LoadAll(ctx context.Context) ([]*Receipt, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, created_at, status, quantity, amount, item_code, item_name, size, buyer_name, bundle_id
		FROM receipts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load receipts: %w", err)
	}
	defer rows.Close()
	var receipts []*Receipt
	for rows.Next() {
		rc := &Receipt{}
		var bundleID sql.NullString
		if err := rows.Scan(&rc.ID, &rc.CreatedAt, &rc.Status, &rc.Quantity, &rc.Amount,
			&rc.ItemCode, &rc.ItemName, &rc.Size, &rc.BuyerName, &bundleID); err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		if bundleID.Valid {
			rc.BundleID = bundleID.String
		}
		receipts = append(receipts, rc)
	}
	return receipts, rows.Err()
}

func (s *postgresStore) SaveAll(ctx context.Context, receipts []*Receipt) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM receipts`); err != nil {
		return fmt.Errorf("clear receipts: %w", err)
	}
	for _, rc := range receipts {
		var bundleID interface{}
		if rc.BundleID != "" {
			bundleID = rc.BundleID
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO receipts
			  (id, created_at, status, quantity, amount, item_code, item_name, size, buyer_name, bundle_id)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			rc.ID, rc.CreatedAt, rc.Status, rc.Quantity, rc.Amount,
			rc.ItemCode, rc.ItemName, rc.Size, rc.BuyerName, bundleID)
		if err != nil {
			return fmt.Errorf("insert receipt %d: %w", rc.ID, err)
		}
	}
	return tx.Commit()
}

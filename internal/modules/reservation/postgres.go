package reservation

import (
	"context"
	"database/sql"
	"fmt"
)

type postgresStore struct{ db *sql.DB }

// NewPostgresStore returns a Store backed by the reservations table,
// rewritten in full on every save.
func NewPostgresStore(db *sql.DB) Store { return &postgresStore{db: db} }

func (s *postgresStore) LoadAll(ctx context.Context) ([]*Reservation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, student_name, student_id, course, item_code, item_name, size,
		       quantity, total_price, status, paid, payment_method, bundle_id,
		       reason, created_at, completed_at
		FROM reservations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}
	defer rows.Close()
	var reservations []*Reservation
	for rows.Next() {
		rv := &Reservation{}
		var bundleID, reason sql.NullString
		var completedAt sql.NullTime
		if err := rows.Scan(&rv.ID, &rv.StudentName, &rv.StudentID, &rv.Course,
			&rv.ItemCode, &rv.ItemName, &rv.Size, &rv.Quantity, &rv.TotalPrice,
			&rv.Status, &rv.Paid, &rv.PaymentMethod, &bundleID, &reason,
			&rv.CreatedAt, &completedAt); err != nil {
			return nil, fmt.Errorf("scan reservation: %w", err)
		}
		if bundleID.Valid {
			rv.BundleID = bundleID.String
		}
		if reason.Valid {
			rv.Reason = reason.String
		}
		if completedAt.Valid {
			t := completedAt.Time
			rv.CompletedAt = &t
		}
		reservations = append(reservations, rv)
	}
	return reservations, rows.Err()
}

func (s *postgresStore) SaveAll(ctx context.Context, reservations []*Reservation) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reservations`); err != nil {
		return fmt.Errorf("clear reservations: %w", err)
	}
	for _, rv := range reservations {
		var bundleID interface{}
		if rv.BundleID != "" {
			bundleID = rv.BundleID
		}
		var completedAt interface{}
		if rv.CompletedAt != nil {
			completedAt = *rv.CompletedAt
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO reservations
			  (id, student_name, student_id, course, item_code, item_name, size,
			   quantity, total_price, status, paid, payment_method, bundle_id,
			   reason, created_at, completed_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
			rv.ID, rv.StudentName, rv.StudentID, rv.Course, rv.ItemCode, rv.ItemName,
			rv.Size, rv.Quantity, rv.TotalPrice, rv.Status, rv.Paid, rv.PaymentMethod,
			bundleID, rv.Reason, rv.CreatedAt, completedAt)
		if err != nil {
			return fmt.Errorf("insert reservation %d: %w", rv.ID, err)
		}
	}
	return tx.Commit()
}

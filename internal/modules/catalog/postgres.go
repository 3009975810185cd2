package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

type postgresStore struct{ db *sql.DB }

// NewPostgresStore returns a Store backed by the items table. SaveAll
// rewrites the table in full inside one transaction, matching the
// whole-collection persistence contract of the other backends.
func NewPostgresStore(db *sql.DB) Store { return &postgresStore{db: db} }

func (s *postgresStore) LoadAll(ctx context.Context) ([]*Item, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, size, name, course, quantity, unit_price
		FROM items ORDER BY code, size`)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		it := &Item{}
		if err := rows.Scan(&it.Code, &it.Size, &it.Name, &it.Course, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *postgresStore) SaveAll(ctx context.Context, items []*Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items`); err != nil {
		return fmt.Errorf("clear items: %w", err)
	}
	for _, it := range items {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO items (code, size, name, course, quantity, unit_price)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			it.Code, it.Size, it.Name, it.Course, it.Quantity, it.UnitPrice)
		if err != nil {
			return fmt.Errorf("insert item %d/%s: %w", it.Code, it.Size, err)
		}
	}
	return tx.Commit()
}

package reservation

import "context"

// Store is the durable home of the reservation ledger.
type Store interface {
	LoadAll(ctx context.Context) ([]*Reservation, error)
	SaveAll(ctx context.Context, reservations []*Reservation) error
}

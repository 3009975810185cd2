package receipt

import "context"

// Store is the durable home of the receipt collection.
type Store interface {
	LoadAll(ctx context.Context) ([]*Receipt, error)
	SaveAll(ctx context.Context, receipts []*Receipt) error
}

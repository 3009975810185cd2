package catalog

import "context"

// Store is the durable home of the item collection. The service keeps
// the authoritative copy in memory and rewrites the durable copy in
// full after every mutation; LoadAll on an empty backend returns an
// empty collection, never an error.
type Store interface {
	LoadAll(ctx context.Context) ([]*Item, error)
	SaveAll(ctx context.Context, items []*Item) error
}

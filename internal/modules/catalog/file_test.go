package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskits/merchstore-backend/internal/activity"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	store := NewFileStore(dir, activity.NewNop())

	// A missing file is an empty collection, not an error.
	items, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	saved := []*Item{
		{Code: 2001, Size: "M", Name: "Polo Shirt", Course: "BSIT", Quantity: 10, UnitPrice: 450},
		{Code: 3005, Size: "", Name: "Lanyard", Course: UniversalCourse, Quantity: 50, UnitPrice: 80},
	}
	require.NoError(t, store.SaveAll(ctx, saved))

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, *saved[0], *loaded[0])
	assert.Equal(t, *saved[1], *loaded[1])
}

func TestFileStoreSkipsMalformedRecords(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	// One good record, one with the wrong shape.
	blob := `[
	  {"code": 2001, "size": "M", "name": "Polo Shirt", "course": "BSIT", "quantity": 10, "unit_price": 450},
	  {"code": "not-a-number", "size": "L"}
	]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "items.json"), []byte(blob), 0o644))

	store := NewFileStore(dir, activity.NewNop())
	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1, "bad record skipped, load continues")
	assert.Equal(t, 2001, loaded[0].Code)
}

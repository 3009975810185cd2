package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskits/merchstore-backend/internal/activity"
)

func newTestService(t *testing.T, items ...Item) Service {
	t.Helper()
	store := NewMemoryStore()
	svc, err := NewService(context.Background(), store, activity.NewNop())
	require.NoError(t, err)
	for _, it := range items {
		_, err := svc.AddItem(context.Background(), AddItemRequest(it))
		require.NoError(t, err)
	}
	return svc
}

func poloShirt() Item {
	return Item{Code: 2001, Size: "M", Name: "Polo Shirt", Course: "BSIT", Quantity: 10, UnitPrice: 450.00}
}

func TestAddItemValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, AddItemRequest{Code: 1, Size: "S", Quantity: 1})
	assert.Error(t, err, "missing name")

	_, err = svc.AddItem(ctx, AddItemRequest{Code: 1, Size: "S", Name: "Lanyard", Quantity: -1})
	assert.Error(t, err, "negative quantity")

	_, err = svc.AddItem(ctx, AddItemRequest{Code: 1, Size: "S", Name: "Lanyard", UnitPrice: -5})
	assert.Error(t, err, "negative price")

	_, err = svc.AddItem(ctx, AddItemRequest{Code: 1, Size: "S", Name: "Lanyard", Quantity: 3, UnitPrice: 80})
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, AddItemRequest{Code: 1, Size: "S", Name: "Lanyard", Quantity: 3, UnitPrice: 80})
	assert.Error(t, err, "duplicate (code,size)")
}

func TestFindAndVariants(t *testing.T) {
	svc := newTestService(t,
		Item{Code: 2001, Size: "M", Name: "Polo Shirt", Course: "BSIT", Quantity: 10, UnitPrice: 450},
		Item{Code: 2001, Size: "L", Name: "Polo Shirt", Course: "BSIT", Quantity: 4, UnitPrice: 450},
	)

	it, ok := svc.Find(2001)
	require.True(t, ok)
	assert.Equal(t, "Polo Shirt", it.Name)

	it, ok = svc.FindVariant(2001, "L")
	require.True(t, ok)
	assert.Equal(t, 4, it.Quantity)

	_, ok = svc.FindVariant(2001, "XXL")
	assert.False(t, ok)

	_, ok = svc.Find(9999)
	assert.False(t, ok)
}

func TestListByCourseIncludesUniversalItems(t *testing.T) {
	svc := newTestService(t,
		Item{Code: 1, Size: "M", Name: "BSIT Shirt", Course: "BSIT", Quantity: 5, UnitPrice: 400},
		Item{Code: 2, Size: "M", Name: "BSBA Shirt", Course: "BSBA", Quantity: 5, UnitPrice: 400},
		Item{Code: 3, Size: "", Name: "School Lanyard", Course: UniversalCourse, Quantity: 20, UnitPrice: 80},
		Item{Code: 4, Size: "", Name: "Sold Out Pin", Course: UniversalCourse, Quantity: 0, UnitPrice: 25},
	)

	items := svc.ListByCourse("BSIT")
	codes := make([]int, 0, len(items))
	for _, it := range items {
		codes = append(codes, it.Code)
	}
	assert.ElementsMatch(t, []int{1, 3}, codes, "own course plus universal, in-stock only")
}

func TestReserveCheckNeverMutates(t *testing.T) {
	svc := newTestService(t, poloShirt())

	for i := 0; i < 50; i++ {
		svc.ReserveCheck(2001, "M", 3)
	}
	it, _ := svc.FindVariant(2001, "M")
	assert.Equal(t, 10, it.Quantity)

	assert.True(t, svc.ReserveCheck(2001, "M", 10))
	assert.False(t, svc.ReserveCheck(2001, "M", 11))
	assert.False(t, svc.ReserveCheck(2001, "M", 0))
	assert.False(t, svc.ReserveCheck(9999, "M", 1))
}

func TestDeduct(t *testing.T) {
	svc := newTestService(t, poloShirt())
	ctx := context.Background()

	assert.True(t, svc.Deduct(ctx, 2001, "M", 3))
	it, _ := svc.FindVariant(2001, "M")
	assert.Equal(t, 7, it.Quantity)

	// Insufficient stock refuses with no partial deduction.
	assert.False(t, svc.Deduct(ctx, 2001, "M", 8))
	it, _ = svc.FindVariant(2001, "M")
	assert.Equal(t, 7, it.Quantity)

	assert.True(t, svc.Deduct(ctx, 2001, "M", 7))
	it, _ = svc.FindVariant(2001, "M")
	assert.Equal(t, 0, it.Quantity)

	assert.False(t, svc.Deduct(ctx, 2001, "M", 1), "quantity never goes negative")
}

func TestSetAndAddQuantityGuards(t *testing.T) {
	svc := newTestService(t, poloShirt())
	ctx := context.Background()

	require.NoError(t, svc.SetQuantity(ctx, "staff1", 2001, "M", 4, "damage"))
	it, _ := svc.FindVariant(2001, "M")
	assert.Equal(t, 4, it.Quantity)

	assert.Error(t, svc.SetQuantity(ctx, "staff1", 2001, "M", -1, "bad"))
	assert.Error(t, svc.SetQuantity(ctx, "staff1", 9999, "M", 1, "missing"))

	require.NoError(t, svc.AddQuantity(ctx, "staff1", 2001, "M", -4, "writeoff"))
	it, _ = svc.FindVariant(2001, "M")
	assert.Equal(t, 0, it.Quantity)

	assert.Error(t, svc.AddQuantity(ctx, "staff1", 2001, "M", -1, "too far"))
	it, _ = svc.FindVariant(2001, "M")
	assert.Equal(t, 0, it.Quantity)
}

func TestCatalogRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	svc, err := NewService(ctx, store, activity.NewNop())
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, AddItemRequest(poloShirt()))
	require.NoError(t, err)
	require.True(t, svc.Deduct(ctx, 2001, "M", 2))

	// A fresh manager over the same store sees the saved state.
	reloaded, err := NewService(ctx, store, activity.NewNop())
	require.NoError(t, err)
	it, ok := reloaded.FindVariant(2001, "M")
	require.True(t, ok)
	assert.Equal(t, 8, it.Quantity)
	assert.Equal(t, 450.00, it.UnitPrice)
}

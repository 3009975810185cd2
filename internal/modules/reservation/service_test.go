package reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskits/merchstore-backend/internal/activity"
	"github.com/campuskits/merchstore-backend/internal/modules/catalog"
)

func newTestCatalog(t *testing.T) catalog.Service {
	t.Helper()
	cat, err := catalog.NewService(context.Background(), catalog.NewMemoryStore(), activity.NewNop())
	require.NoError(t, err)
	_, err = cat.AddItem(context.Background(), catalog.AddItemRequest{
		Code: 2001, Size: "M", Name: "Polo Shirt", Course: "BSIT", Quantity: 10, UnitPrice: 450.00,
	})
	require.NoError(t, err)
	return cat
}

func newTestLedger(t *testing.T) (Service, catalog.Service) {
	t.Helper()
	cat := newTestCatalog(t)
	svc, err := NewService(context.Background(), NewMemoryStore(), cat, activity.NewNop())
	require.NoError(t, err)
	return svc, cat
}

func createRequest() CreateRequest {
	return CreateRequest{
		StudentName: "Dela Cruz, Juan",
		StudentID:   "02000123456",
		Course:      "BSIT",
		ItemCode:    2001,
		Size:        "M",
		Quantity:    3,
	}
}

func TestCreateAssignsSequentialIDsFromFloor(t *testing.T) {
	svc, _ := newTestLedger(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)
	assert.Equal(t, IDFloor, first.ID)

	second, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)
	assert.Equal(t, IDFloor+1, second.ID)
}

func TestCreateDoesNotTouchStock(t *testing.T) {
	svc, cat := newTestLedger(t)
	ctx := context.Background()

	rv, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)
	assert.Equal(t, StatusPending, rv.Status)
	assert.False(t, rv.Paid)
	assert.Equal(t, PayUnpaid, rv.PaymentMethod)
	assert.Equal(t, 1350.00, rv.TotalPrice)
	assert.Equal(t, "Polo Shirt", rv.ItemName)

	it, _ := cat.FindVariant(2001, "M")
	assert.Equal(t, 10, it.Quantity, "reserving never deducts")
}

func TestCreateFailsOnInsufficientStock(t *testing.T) {
	svc, _ := newTestLedger(t)
	ctx := context.Background()

	req := createRequest()
	req.Quantity = 11
	rv, err := svc.Create(ctx, req)
	assert.Error(t, err)
	assert.Nil(t, rv)
	assert.Empty(t, svc.ListAll(), "no partial reservation is ever persisted")

	req.Quantity = 3
	req.ItemCode = 9999
	_, err = svc.Create(ctx, req)
	assert.Error(t, err)

	req.ItemCode = 2001
	req.Quantity = 0
	_, err = svc.Create(ctx, req)
	assert.Error(t, err)
}

func TestApproveOnlyFromPending(t *testing.T) {
	svc, _ := newTestLedger(t)
	ctx := context.Background()

	rv, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)

	assert.True(t, svc.Approve(ctx, rv.ID))
	got, _ := svc.Get(rv.ID)
	assert.Equal(t, StatusAwaitingPayment, got.Status)

	assert.False(t, svc.Approve(ctx, rv.ID), "already approved")
	assert.False(t, svc.Approve(ctx, 9999), "unknown id")
}

func TestMarkPaidPreconditions(t *testing.T) {
	svc, _ := newTestLedger(t)
	ctx := context.Background()

	rv, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)

	assert.False(t, svc.MarkPaid(ctx, rv.ID, PayCash), "cannot pay a PENDING reservation")

	require.True(t, svc.Approve(ctx, rv.ID))
	assert.True(t, svc.MarkPaid(ctx, rv.ID, PayCash))

	got, _ := svc.Get(rv.ID)
	assert.Equal(t, StatusReadyForPickup, got.Status)
	assert.True(t, got.Paid)
	assert.Equal(t, PayCash, got.PaymentMethod)

	assert.False(t, svc.MarkPaid(ctx, rv.ID, PayCash), "second payment refused")
}

func TestReturnWindowBoundary(t *testing.T) {
	svc, _ := newTestLedger(t)
	ctx := context.Background()
	mgr := svc.(*service)

	t0 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	mgr.now = func() time.Time { return t0 }

	rv, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)
	require.True(t, svc.Approve(ctx, rv.ID))
	require.True(t, svc.MarkPaid(ctx, rv.ID, PayGCash))
	require.True(t, svc.MarkPickedUp(ctx, rv.ID))

	got, _ := svc.Get(rv.ID)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, StatusCompleted, got.Status)

	// One second past the window: refused, status unchanged.
	mgr.now = func() time.Time { return t0.Add(ReturnWindow + time.Second) }
	assert.False(t, svc.RequestReturn(ctx, rv.ID, "wrong size"))
	got, _ = svc.Get(rv.ID)
	assert.Equal(t, StatusCompleted, got.Status)

	// Exactly ten days after pickup: still eligible.
	mgr.now = func() time.Time { return t0.Add(ReturnWindow) }
	assert.True(t, svc.RequestReturn(ctx, rv.ID, "wrong size"))
	got, _ = svc.Get(rv.ID)
	assert.Equal(t, StatusReturnRequested, got.Status)
	assert.Equal(t, "wrong size", got.Reason)
}

func TestRequestReturnOnlyWhenCompleted(t *testing.T) {
	svc, _ := newTestLedger(t)
	ctx := context.Background()

	rv, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)
	assert.False(t, svc.RequestReturn(ctx, rv.ID, "changed my mind"))
}

func TestRejectReturnRevertsToCompleted(t *testing.T) {
	svc, _ := newTestLedger(t)
	ctx := context.Background()

	rv := completedReservation(t, svc)
	require.True(t, svc.RequestReturn(ctx, rv.ID, "wrong size"))
	require.True(t, svc.RejectReturn(ctx, rv.ID, "tags removed"))

	got, _ := svc.Get(rv.ID)
	assert.Equal(t, StatusCompleted, got.Status)
	assert.Contains(t, got.Reason, "return rejected: tags removed")

	assert.False(t, svc.RejectReturn(ctx, rv.ID, "again"), "no request pending anymore")
}

func TestMarkReturnedOnlyFromRequested(t *testing.T) {
	svc, _ := newTestLedger(t)
	ctx := context.Background()

	rv := completedReservation(t, svc)
	assert.False(t, svc.MarkReturned(ctx, rv.ID))

	require.True(t, svc.RequestReturn(ctx, rv.ID, "wrong size"))
	assert.True(t, svc.MarkReturned(ctx, rv.ID))
	got, _ := svc.Get(rv.ID)
	assert.Equal(t, StatusReturned, got.Status)
}

func TestCancelRules(t *testing.T) {
	svc, _ := newTestLedger(t)
	ctx := context.Background()

	rv, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)
	assert.True(t, svc.Cancel(ctx, rv.ID, "changed my mind"))
	got, _ := svc.Get(rv.ID)
	assert.Equal(t, StatusCancelled, got.Status)
	assert.False(t, svc.Cancel(ctx, rv.ID, "twice"), "cancel is terminal")

	done := completedReservation(t, svc)
	assert.False(t, svc.Cancel(ctx, done.ID, "too late"), "COMPLETED cannot cancel")
}

func TestStateMachineCoversEveryStatus(t *testing.T) {
	statuses := []Status{
		StatusPending, StatusAwaitingPayment, StatusReadyForPickup,
		StatusCompleted, StatusReturnRequested, StatusReturned, StatusCancelled,
	}
	for _, st := range statuses {
		_, ok := validTransitions[st]
		assert.True(t, ok, "status %q missing from the transition table", st)
	}
	assert.Empty(t, validTransitions[StatusReturned], "terminal")
	assert.Empty(t, validTransitions[StatusCancelled], "terminal")
}

func TestLedgerRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	cat := newTestCatalog(t)
	ctx := context.Background()

	svc, err := NewService(ctx, store, cat, activity.NewNop())
	require.NoError(t, err)
	rv, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)
	require.True(t, svc.Approve(ctx, rv.ID))

	reloaded, err := NewService(ctx, store, cat, activity.NewNop())
	require.NoError(t, err)
	got, ok := reloaded.Get(rv.ID)
	require.True(t, ok)
	assert.Equal(t, StatusAwaitingPayment, got.Status)
	assert.Equal(t, rv.TotalPrice, got.TotalPrice)

	// Id assignment resumes above the highest persisted id.
	next, err := reloaded.Create(ctx, createRequest())
	require.NoError(t, err)
	assert.Equal(t, rv.ID+1, next.ID)
}

func TestListByBundle(t *testing.T) {
	svc, _ := newTestLedger(t)
	ctx := context.Background()

	bundled := createRequest()
	bundled.BundleID = "B-0001"
	a, err := svc.Create(ctx, bundled)
	require.NoError(t, err)
	b, err := svc.Create(ctx, bundled)
	require.NoError(t, err)
	_, err = svc.Create(ctx, createRequest()) // no bundle
	require.NoError(t, err)

	got := svc.ListByBundle("B-0001")
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, b.ID, got[1].ID)

	assert.Empty(t, svc.ListByBundle(""), "empty tag never groups")
}

func completedReservation(t *testing.T, svc Service) *Reservation {
	t.Helper()
	ctx := context.Background()
	rv, err := svc.Create(ctx, createRequest())
	require.NoError(t, err)
	require.True(t, svc.Approve(ctx, rv.ID))
	require.True(t, svc.MarkPaid(ctx, rv.ID, PayCash))
	require.True(t, svc.MarkPickedUp(ctx, rv.ID))
	got, _ := svc.Get(rv.ID)
	return got
}

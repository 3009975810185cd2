package audit

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskits/merchstore-backend/internal/activity"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(context.Background(), NewMemoryStore(), activity.NewNop())
	require.NoError(t, err)
	return svc
}

func TestDeriveChangeType(t *testing.T) {
	tests := []struct {
		delta    int
		expected ChangeType
	}{
		{6, ChangeAdd},
		{1, ChangeAdd},
		{0, ChangeAdjust},
		{-1, ChangeRemove},
		{-6, ChangeRemove},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, DeriveChangeType(tt.delta), "delta %d", tt.delta)
	}
}

func TestLogChangeCreatesPendingWithDeltaInvariant(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	l := svc.LogChange(ctx, "staff1", "Polo Shirt", 2001, "M", 10, 4, "damage", ChangeRemove)
	require.NotNil(t, l)
	assert.NotEmpty(t, l.ID)
	assert.Equal(t, StatusPending, l.Status)
	assert.Equal(t, -6, l.QtyChanged)
	assert.Equal(t, l.QtyAfter-l.QtyBefore, l.QtyChanged)
	assert.Empty(t, l.ApprovedBy)
	assert.Nil(t, l.ApprovedAt)
}

func TestApproveJumpsToExecuted(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	l := svc.LogChange(ctx, "staff1", "Polo Shirt", 2001, "M", 10, 14, "restock", ChangeAdd)
	require.True(t, svc.Approve(ctx, l.ID, "admin"))

	got, ok := svc.Get(l.ID)
	require.True(t, ok)
	assert.Equal(t, StatusExecuted, got.Status, "approval and execution are one visible step")
	assert.Equal(t, "admin", got.ApprovedBy)
	require.NotNil(t, got.ApprovedAt)

	// Already resolved: approving or rejecting again signals failure
	// by return, nothing changes.
	assert.False(t, svc.Approve(ctx, l.ID, "admin2"))
	assert.False(t, svc.Reject(ctx, l.ID, "admin2", "late"))
	got, _ = svc.Get(l.ID)
	assert.Equal(t, "admin", got.ApprovedBy)
}

func TestRejectIsTerminal(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	l := svc.LogChange(ctx, "staff1", "Polo Shirt", 2001, "M", 10, 4, "damage", ChangeRemove)
	require.True(t, svc.Reject(ctx, l.ID, "admin", "insufficient justification"))

	got, ok := svc.Get(l.ID)
	require.True(t, ok)
	assert.Equal(t, StatusRejected, got.Status)
	assert.Equal(t, "insufficient justification", got.Notes)

	assert.False(t, svc.Approve(ctx, l.ID, "admin"))
}

func TestResolveUnknownID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	assert.False(t, svc.Approve(ctx, "no-such-id", "admin"))
	assert.False(t, svc.Reject(ctx, "no-such-id", "admin", "x"))
	_, ok := svc.Get("no-such-id")
	assert.False(t, ok)
}

func TestRecordExecuted(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	l := svc.RecordExecuted(ctx, "staff2", "Polo Shirt", 2001, "M", 7, 10, "wrong size", ChangeReturn)
	assert.Equal(t, StatusExecuted, l.Status)
	assert.Equal(t, 3, l.QtyChanged)
	assert.Equal(t, "staff2", l.ApprovedBy)
	require.NotNil(t, l.ApprovedAt)
}

func TestQueryAccessors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	a := svc.LogChange(ctx, "staff1", "Polo Shirt", 2001, "M", 10, 4, "damage", ChangeRemove)
	b := svc.LogChange(ctx, "staff2", "Lanyard", 3005, "", 50, 60, "restock delivery", ChangeAdd)
	svc.Approve(ctx, b.ID, "admin")

	assert.Len(t, svc.ListAll(), 2)
	assert.Len(t, svc.ListByStatus(StatusPending), 1)
	assert.Len(t, svc.ListByStatus(StatusExecuted), 1)
	assert.Len(t, svc.ListByActor("staff1"), 1)
	assert.Len(t, svc.ListByItemCode(3005), 1)

	byReason := svc.ListByReason("DAMAGE")
	require.Len(t, byReason, 1, "reason match is case-insensitive substring")
	assert.Equal(t, a.ID, byReason[0].ID)
}

func TestExportCSV(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	l := svc.LogChange(ctx, "staff1", "Polo Shirt", 2001, "M", 10, 4, "damage", ChangeRemove)
	svc.Approve(ctx, l.ID, "admin")

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, svc.ListAll()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2, "header plus one entry")

	assert.Equal(t, []string{
		"LogID", "Timestamp", "Actor", "ItemCode", "ItemName", "Size",
		"QtyBefore", "QtyAfter", "QtyDelta", "ChangeType", "Reason",
		"Status", "Approver", "ApprovalTime",
	}, rows[0])

	row := rows[1]
	assert.Equal(t, l.ID, row[0])
	assert.Equal(t, "staff1", row[2])
	assert.Equal(t, "2001", row[3])
	assert.Equal(t, "-6", row[8])
	assert.Equal(t, "REMOVE", row[9])
	assert.Equal(t, "EXECUTED", row[11])
	assert.Equal(t, "admin", row[12])
	assert.NotEmpty(t, row[13])
}

func TestAuditRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	svc, err := NewService(ctx, store, activity.NewNop())
	require.NoError(t, err)
	l := svc.LogChange(ctx, "staff1", "Polo Shirt", 2001, "M", 10, 4, "damage", ChangeRemove)
	svc.Approve(ctx, l.ID, "admin")

	reloaded, err := NewService(ctx, store, activity.NewNop())
	require.NoError(t, err)
	got, ok := reloaded.Get(l.ID)
	require.True(t, ok)
	assert.Equal(t, StatusExecuted, got.Status)
	assert.Equal(t, -6, got.QtyChanged)
	assert.Equal(t, "admin", got.ApprovedBy)
}

package audit

import "time"

// ChangeType classifies the direction of a stock change.
type ChangeType string

const (
	ChangeAdd    ChangeType = "ADD"
	ChangeRemove ChangeType = "REMOVE"
	ChangeAdjust ChangeType = "ADJUST"
	ChangeReturn ChangeType = "RETURN"
)

// Status is the approval state of a stock change record.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusExecuted Status = "EXECUTED"
)

// StockAuditLog is one pending-approval record of a staff-initiated
// stock quantity change. Append-only apart from the status and
// approval metadata. QtyChanged always equals QtyAfter - QtyBefore.
type StockAuditLog struct {
	ID         string     `json:"id"`
	Actor      string     `json:"actor"`
	ItemCode   int        `json:"item_code"`
	ItemName   string     `json:"item_name"`
	Size       string     `json:"size"`
	QtyBefore  int        `json:"qty_before"`
	QtyAfter   int        `json:"qty_after"`
	QtyChanged int        `json:"qty_changed"`
	Reason     string     `json:"reason"`
	ChangeType ChangeType `json:"change_type"`
	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ApprovedBy string     `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

// DeriveChangeType maps a quantity delta to its change type: ADD for
// a positive delta, REMOVE for a negative one, ADJUST for zero.
func DeriveChangeType(delta int) ChangeType {
	switch {
	case delta > 0:
		return ChangeAdd
	case delta < 0:
		return ChangeRemove
	default:
		return ChangeAdjust
	}
}

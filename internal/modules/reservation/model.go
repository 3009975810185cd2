package reservation

import "time"

// Status is the lifecycle state of a reservation.
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusAwaitingPayment Status = "APPROVED - WAITING FOR PAYMENT"
	StatusReadyForPickup  Status = "PAID - READY FOR PICKUP"
	StatusCompleted       Status = "COMPLETED"
	StatusReturnRequested Status = "RETURN REQUESTED"
	StatusReturned        Status = "RETURNED - REFUNDED"
	StatusCancelled       Status = "CANCELLED"
)

// PaymentMethod is how a reservation was (or will be) paid.
type PaymentMethod string

const (
	PayUnpaid PaymentMethod = "UNPAID"
	PayCash   PaymentMethod = "CASH"
	PayGCash  PaymentMethod = "GCASH"
	PayCard   PaymentMethod = "CARD"
	PayBank   PaymentMethod = "BANK"
)

// IDFloor is the first reservation id ever assigned.
const IDFloor = 5001

// ReturnWindow is how long after pickup a return may be requested.
const ReturnWindow = 10 * 24 * time.Hour

// Reservation is a student's claim on stock. Creating one never
// deducts stock; only payment does.
type Reservation struct {
	ID            int           `json:"id"`
	StudentName   string        `json:"student_name"`
	StudentID     string        `json:"student_id"`
	Course        string        `json:"course"`
	ItemCode      int           `json:"item_code"`
	ItemName      string        `json:"item_name"`
	Size          string        `json:"size"`
	Quantity      int           `json:"quantity"`
	TotalPrice    float64       `json:"total_price"`
	Status        Status        `json:"status"`
	Paid          bool          `json:"paid"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	BundleID      string        `json:"bundle_id,omitempty"`
	Reason        string        `json:"reason,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}

// CreateRequest is the payload for reserving stock.
type CreateRequest struct {
	StudentName string `json:"student_name"`
	StudentID   string `json:"student_id"`
	Course      string `json:"course"`
	ItemCode    int    `json:"item_code"`
	Size        string `json:"size"`
	Quantity    int    `json:"quantity"`
	BundleID    string `json:"bundle_id,omitempty"`
}

// validTransitions is the reservation state machine. Cancellation is
// handled separately: any state that is not terminal and not
// COMPLETED may cancel.
var validTransitions = map[Status][]Status{
	StatusPending:         {StatusAwaitingPayment, StatusCancelled},
	StatusAwaitingPayment: {StatusReadyForPickup, StatusCancelled},
	StatusReadyForPickup:  {StatusCompleted, StatusCancelled},
	StatusCompleted:       {StatusReturnRequested},
	StatusReturnRequested: {StatusReturned, StatusCompleted, StatusCancelled},
	StatusReturned:        {},
	StatusCancelled:       {},
}

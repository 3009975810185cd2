package receipt

import "time"

// Receipt statuses track the linked reservation as it progresses.
const (
	StatusPaid      = "PAID"
	StatusCompleted = "COMPLETED"
	StatusReturned  = "RETURNED - REFUNDED"
)

// IDFloor is the first receipt id ever issued. Ids count up from here
// and are never reused.
const IDFloor = 10000000

// Receipt is the monetary record issued when a reservation is paid.
// One receipt per transaction; the status is mutated in place as the
// reservation progresses, no history of prior statuses is kept.
type Receipt struct {
	ID        int       `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Status    string    `json:"status"`
	Quantity  int       `json:"quantity"`
	Amount    float64   `json:"amount"`
	ItemCode  int       `json:"item_code"`
	ItemName  string    `json:"item_name"`
	Size      string    `json:"size"`
	BuyerName string    `json:"buyer_name"`
	BundleID  string    `json:"bundle_id,omitempty"`
}

// IssueRequest is the payload for issuing a receipt.
type IssueRequest struct {
	Status    string  `json:"status"`
	Quantity  int     `json:"quantity"`
	Amount    float64 `json:"amount"`
	ItemCode  int     `json:"item_code"`
	ItemName  string  `json:"item_name"`
	Size      string  `json:"size"`
	BuyerName string  `json:"buyer_name"`
	BundleID  string  `json:"bundle_id,omitempty"`
}

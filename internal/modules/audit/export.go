package audit

import (
	"encoding/csv"
	"io"
	"strconv"
)

const timeLayout = "2006-01-02 15:04:05"

var csvHeader = []string{
	"LogID", "Timestamp", "Actor", "ItemCode", "ItemName", "Size",
	"QtyBefore", "QtyAfter", "QtyDelta", "ChangeType", "Reason",
	"Status", "Approver", "ApprovalTime",
}

// ExportCSV writes the full audit history as fixed-column CSV, header
// row first, one row per log entry. Compliance reporting format.
func ExportCSV(w io.Writer, logs []*StockAuditLog) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, l := range logs {
		approvedAt := ""
		if l.ApprovedAt != nil {
			approvedAt = l.ApprovedAt.Format(timeLayout)
		}
		row := []string{
			l.ID,
			l.CreatedAt.Format(timeLayout),
			l.Actor,
			strconv.Itoa(l.ItemCode),
			l.ItemName,
			l.Size,
			strconv.Itoa(l.QtyBefore),
			strconv.Itoa(l.QtyAfter),
			strconv.Itoa(l.QtyChanged),
			string(l.ChangeType),
			l.Reason,
			string(l.Status),
			l.ApprovedBy,
			approvedAt,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

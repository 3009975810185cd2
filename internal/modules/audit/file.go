package audit

import (
	"context"
	"encoding/json"
	"path/filepath"

	"github.com/campuskits/merchstore-backend/internal/activity"
	"github.com/campuskits/merchstore-backend/internal/filestore"
)

type fileStore struct {
	path     string
	activity *activity.Logger
}

// NewFileStore returns a Store backed by a JSON flat file under dir.
func NewFileStore(dir string, log *activity.Logger) Store {
	return &fileStore{path: filepath.Join(dir, "stock_audit_logs.json"), activity: log}
}

func (s *fileStore) LoadAll(ctx context.Context) ([]*StockAuditLog, error) {
	var raw []json.RawMessage
	if err := filestore.Read(s.path, &raw); err != nil {
		return nil, err
	}
	logs := make([]*StockAuditLog, 0, len(raw))
	for _, rec := range raw {
		var l StockAuditLog
		if err := json.Unmarshal(rec, &l); err != nil {
			s.activity.SkippedRecord("stock_audit_logs", err)
			continue
		}
		logs = append(logs, &l)
	}
	return logs, nil
}

func (s *fileStore) SaveAll(ctx context.Context, logs []*StockAuditLog) error {
	return filestore.Write(s.path, logs)
}

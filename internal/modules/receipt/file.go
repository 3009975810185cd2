package receipt

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
	return &fileStore{path: filepath.Join(dir, "receipts.json"), activity: log}
}

func (s *fileStore) LoadAll(ctx context.Context) ([]*Receipt, error) {
	var raw []json.RawMessage
	if err := filestore.Read(s.path, &raw); err != nil {
		return nil, err
	}
	receipts := make([]*Receipt, 0, len(raw))
	for _, rec := range raw {
		var rc Receipt
		if err := json.Unmarshal(rec, &rc); err != nil {
			s.activity.SkippedRecord("receipts", err)
			continue
		}
		receipts = append(receipts, &rc)
	}
	return receipts, nil
}

func (s *fileStore) SaveAll(ctx context.Context, receipts []*Receipt) error {
	return filestore.Write(s.path, receipts)
}

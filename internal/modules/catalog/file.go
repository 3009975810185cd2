package catalog

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
// Malformed records are skipped with a warning rather than failing
// the whole load.
func NewFileStore(dir string, log *activity.Logger) Store {
	return &fileStore{path: filepath.Join(dir, "items.json"), activity: log}
}

func (s *fileStore) LoadAll(ctx context.Context) ([]*Item, error) {
	var raw []json.RawMessage
	if err := filestore.Read(s.path, &raw); err != nil {
		return nil, err
	}
	items := make([]*Item, 0, len(raw))
	for _, rec := range raw {
		var it Item
		if err := json.Unmarshal(rec, &it); err != nil {
			s.activity.SkippedRecord("items", err)
			continue
		}
		items = append(items, &it)
	}
	return items, nil
}

func (s *fileStore) SaveAll(ctx context.Context, items []*Item) error {
	return filestore.Write(s.path, items)
}

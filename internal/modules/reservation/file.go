package reservation

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
	return &fileStore{path: filepath.Join(dir, "reservations.json"), activity: log}
}

func (s *fileStore) LoadAll(ctx context.Context) ([]*Reservation, error) {
	var raw []json.RawMessage
	if err := filestore.Read(s.path, &raw); err != nil {
		return nil, err
	}
	reservations := make([]*Reservation, 0, len(raw))
	for _, rec := range raw {
		var rv Reservation
		if err := json.Unmarshal(rec, &rv); err != nil {
			s.activity.SkippedRecord("reservations", err)
			continue
		}
		reservations = append(reservations, &rv)
	}
	return reservations, nil
}

func (s *fileStore) SaveAll(ctx context.Context, reservations []*Reservation) error {
	return filestore.Write(s.path, reservations)
}

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"cafe-system/internal/models"
)

// FileStore keeps the whole history in one JSON file, read at open and
// rewritten on every mutation, matching the cafe's customer_data.json.
type FileStore struct {
	path    string
	records map[string]*models.CustomerRecord
}

// OpenFile loads the store from path. A missing file starts an empty store;
// an unreadable or corrupt one is an error, since overwriting it would
// destroy history.
func OpenFile(path string) (*FileStore, error) {
	s := &FileStore{
		path:    path,
		records: make(map[string]*models.CustomerRecord),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrUnavailable, path, err)
	}
	if err := json.Unmarshal(data, &s.records); err != nil {
		return nil, fmt.Errorf("%w: %s is corrupt: %v", ErrUnavailable, path, err)
	}
	return s, nil
}

func (s *FileStore) Append(ctx context.Context, customer string, bill models.BillBreakdown) error {
	rec, ok := s.records[customer]
	if !ok {
		rec = &models.CustomerRecord{CustomerName: customer}
		s.records[customer] = rec
	}
	rec.History = append(rec.History, bill)
	if err := s.flush(); err != nil {
		// Roll back the in-memory append so a retry does not double-record.
		rec.History = rec.History[:len(rec.History)-1]
		if len(rec.History) == 0 {
			delete(s.records, customer)
		}
		return err
	}
	return nil
}

func (s *FileStore) Lookup(ctx context.Context, customer string) (*models.CustomerRecord, error) {
	rec, ok := s.records[customer]
	if !ok {
		return nil, nil
	}
	out := &models.CustomerRecord{
		CustomerName: rec.CustomerName,
		History:      make([]models.BillBreakdown, len(rec.History)),
	}
	copy(out.History, rec.History)
	return out, nil
}

func (s *FileStore) Clear(ctx context.Context, customer string) error {
	if _, ok := s.records[customer]; !ok {
		return nil
	}
	delete(s.records, customer)
	return s.flush()
}

func (s *FileStore) ClearAll(ctx context.Context) error {
	s.records = make(map[string]*models.CustomerRecord)
	return s.flush()
}

func (s *FileStore) Close() {}

// flush rewrites the whole file via a temp file and rename, so a crash
// mid-write never leaves a half-written store behind.
func (s *FileStore) flush() error {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encoding records: %v", ErrUnavailable, err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %v", ErrUnavailable, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: writing %s: %v", ErrUnavailable, s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: closing temp file: %v", ErrUnavailable, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("%w: replacing %s: %v", ErrUnavailable, s.path, err)
	}
	return nil
}

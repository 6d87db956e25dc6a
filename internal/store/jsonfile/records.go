// Package jsonfile persists collector records in a single JSON file.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hay-kot/signup/internal/collector"
)

// RecordsFile is the root JSON structure stored on disk.
type RecordsFile struct {
	Records []collector.Record `json:"records"`
}

// RecordStore implements collector.Store using a JSON file for persistence.
type RecordStore struct {
	path string
	mu   sync.RWMutex
}

var _ collector.Store = (*RecordStore)(nil)

// NewRecordStore creates a new JSON file record store at the given path.
func NewRecordStore(path string) *RecordStore {
	return &RecordStore{path: path}
}

// List returns all records, oldest first.
func (s *RecordStore) List(_ context.Context) ([]collector.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := s.load()
	if err != nil {
		return nil, err
	}
	return file.Records, nil
}

// Append adds r to the end of the file.
func (s *RecordStore) Append(_ context.Context, r collector.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := s.load()
	if err != nil {
		return err
	}

	file.Records = append(file.Records, r)
	return s.save(file)
}

// load reads the records file from disk.
// Returns an empty RecordsFile if the file doesn't exist.
func (s *RecordStore) load() (RecordsFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return RecordsFile{}, nil
		}
		return RecordsFile{}, fmt.Errorf("read records: %w", err)
	}

	if len(data) == 0 {
		return RecordsFile{}, nil
	}

	var file RecordsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return RecordsFile{}, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return file, nil
}

// save writes the records file to disk atomically.
func (s *RecordStore) save(file RecordsFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/akolanti/DocFlowAPI/internal/domain/docModel"
	"github.com/akolanti/DocFlowAPI/pkg/logger_i"
)

// Store owns the single index file. Every writer in the process must share
// one Store instance: Upsert runs its load-modify-save cycle under the store
// mutex, which is what keeps concurrent ingestions from dropping each
// other's records.
type Store struct {
	path   string
	mu     sync.Mutex
	logger *logger_i.Logger
}

func NewStore(path string) *Store {
	return &Store{
		path:   path,
		logger: logger_i.NewLogger("IndexStore"),
	}
}

func (s *Store) Path() string {
	return s.path
}

// Load reads the whole persisted collection. A missing file is an empty
// collection; a present but unparsable file is ErrCorruptIndex.
func (s *Store) Load() ([]docModel.DocumentRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []docModel.DocumentRecord{}, nil
		}
		return nil, fmt.Errorf("reading index %s: %w", s.path, err)
	}

	var records []docModel.DocumentRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Error("Index file exists but does not parse", "path", s.path, "error", err)
		return nil, fmt.Errorf("%s: %v: %w", s.path, err, docModel.ErrCorruptIndex)
	}
	return records, nil
}

// Save overwrites the whole collection. The bytes go to a temp file in the
// same directory first and get renamed over the live file, so a reader only
// ever observes a fully-old or fully-new index.
func (s *Store) Save(records []docModel.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(records)
}

func (s *Store) saveLocked(records []docModel.DocumentRecord) error {
	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return fmt.Errorf("marshalling index: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".index-*.json")
	if err != nil {
		return fmt.Errorf("creating temp index file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp index file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp index file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("swapping index file: %w", err)
	}
	return nil
}

// Upsert is the only way records enter or get replaced in the store. A
// matching file_name drops the old record entirely - callers pass the full
// record, never a partial patch.
func (s *Store) Upsert(record docModel.DocumentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.Load()
	if err != nil {
		return err
	}

	kept := records[:0]
	for _, r := range records {
		if r.FileName != record.FileName {
			kept = append(kept, r)
		}
	}
	kept = append(kept, record)

	if err := s.saveLocked(kept); err != nil {
		return err
	}
	s.logger.Debug("Upserted record", "file_name", record.FileName, "total", len(kept))
	return nil
}

// Find scans for a record by file name.
func (s *Store) Find(fileName string) (docModel.DocumentRecord, bool, error) {
	records, err := s.Load()
	if err != nil {
		return docModel.DocumentRecord{}, false, err
	}
	for _, r := range records {
		if r.FileName == fileName {
			return r, true, nil
		}
	}
	return docModel.DocumentRecord{}, false, nil
}

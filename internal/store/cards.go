package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// CardRecord is the serialized form of a flashcard. The flashcard package
// maps these to its domain type; JSON shape changes happen here only.
type CardRecord struct {
	ID             string          `json:"id"`
	Concept        string          `json:"concept"`
	FrontCode      string          `json:"front_code"`
	ErrorHighlight string          `json:"error_highlight,omitempty"`
	BackCode       string          `json:"back_code"`
	Explanation    string          `json:"explanation"`
	CreatedAt      time.Time       `json:"created_at"`
	Stats          CardStatsRecord `json:"stats"`
}

// CardStatsRecord is the serialized mastery state of a card.
type CardStatsRecord struct {
	CorrectStreak  int    `json:"correct_streak"`
	IncorrectCount int    `json:"incorrect_count"`
	Status         string `json:"status"`
}

// CardStore persists the flashcard collection as one JSON array slot.
// The collection is the unit of persistence: Load reads it whole, Save
// overwrites it whole.
type CardStore interface {
	Load() ([]CardRecord, error)
	Save(records []CardRecord) error
}

// FileCardStore is a CardStore backed by a single file on disk.
type FileCardStore struct {
	path string
}

// NewFileCardStore creates a CardStore at the given path.
func NewFileCardStore(path string) *FileCardStore {
	return &FileCardStore{path: path}
}

// Load reads the full collection. A missing file is an empty collection.
// An unreadable or unparsable file also yields an empty collection, with
// the error returned so the caller can log it; it is never fatal.
func (s *FileCardStore) Load() ([]CardRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cards: %w", err)
	}

	var records []CardRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse cards: %w", err)
	}
	return records, nil
}

// Save overwrites the collection. It writes to a temporary file in the
// same directory and renames it into place, so a crash mid-write cannot
// leave a torn file behind.
func (s *FileCardStore) Save(records []CardRecord) error {
	if records == nil {
		records = []CardRecord{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cards: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cards-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write cards: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace cards file: %w", err)
	}
	return nil
}

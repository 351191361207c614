package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testRecords() []CardRecord {
	return []CardRecord{
		{
			ID:             "card-1",
			Concept:        "Off-by-one in loop bound",
			FrontCode:      "for i := 0; i <= len(xs); i++ {",
			ErrorHighlight: "i <= len(xs)",
			BackCode:       "for i := 0; i < len(xs); i++ {",
			Explanation:    "<= walks one past the last index.",
			CreatedAt:      time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			Stats:          CardStatsRecord{CorrectStreak: 2, IncorrectCount: 1, Status: "learning"},
		},
		{
			ID:          "card-2",
			Concept:     "Nil map write",
			FrontCode:   "var m map[string]int\nm[\"a\"] = 1",
			BackCode:    "m := map[string]int{}\nm[\"a\"] = 1",
			Explanation: "Writing to a nil map panics.",
			CreatedAt:   time.Date(2026, 8, 2, 9, 30, 0, 0, time.UTC),
			Stats:       CardStatsRecord{Status: "new"},
		},
	}
}

func TestFileCardStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	s := NewFileCardStore(path)

	want := testRecords()
	if err := s.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("Load() returned %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFileCardStore_MissingFileIsEmpty(t *testing.T) {
	s := NewFileCardStore(filepath.Join(t.TempDir(), "does-not-exist.json"))

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for missing file", err)
	}
	if len(got) != 0 {
		t.Fatalf("Load() = %d records, want empty collection", len(got))
	}
}

func TestFileCardStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileCardStore(path).Load(); err == nil {
		t.Fatal("Load() error = nil, want parse error for corrupt file")
	}
}

func TestFileCardStore_SaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	s := NewFileCardStore(path)

	if err := s.Save(testRecords()); err != nil {
		t.Fatalf("first Save() error = %v", err)
	}
	if err := s.Save(testRecords()[:1]); err != nil {
		t.Fatalf("second Save() error = %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Load() = %d records after overwrite, want 1", len(got))
	}
	if got[0].ID != "card-1" {
		t.Errorf("surviving record ID = %q, want %q", got[0].ID, "card-1")
	}
}

func TestFileCardStore_SaveNilWritesEmptyArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.json")
	s := NewFileCardStore(path)

	if err := s.Save(nil); err != nil {
		t.Fatalf("Save(nil) error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("file contents = %q, want %q", data, "[]")
	}
}

func TestFileCardStore_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileCardStore(filepath.Join(dir, "cards.json"))

	if err := s.Save(testRecords()); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if e.Name() != "cards.json" {
			t.Errorf("unexpected file left behind: %s", e.Name())
		}
	}
}

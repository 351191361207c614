package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_AppliesPragmas(t *testing.T) {
	s := openTestStore(t)

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want %q", mode, "wal")
	}

	var fk int
	if err := s.DB().QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("foreign_keys = %d, want 1", fk)
	}
}

func TestEventRepo_AppendAndQuery(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	data := LLMRequestEventData{
		RequestID:    "req-1",
		Provider:     "gemini",
		Model:        "gemini-2.5-flash",
		Purpose:      "code-diagnosis",
		InputTokens:  812,
		OutputTokens: 1540,
		LatencyMs:    2310,
		Success:      true,
	}
	if err := repo.AppendLLMRequest(ctx, data); err != nil {
		t.Fatalf("AppendLLMRequest() error = %v", err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("QueryLLMEvents() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	got := events[0]
	if got.ID == 0 {
		t.Error("event ID not assigned")
	}
	if got.Timestamp.IsZero() {
		t.Error("event timestamp not assigned")
	}
	if got.LLMRequestEventData != data {
		t.Errorf("event data = %+v, want %+v", got.LLMRequestEventData, data)
	}
}

func TestEventRepo_FailedRequestKeepsErrorMessage(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	data := LLMRequestEventData{
		RequestID:    "req-err",
		Provider:     "anthropic",
		Model:        "claude-sonnet-4-0",
		Purpose:      "code-diagnosis",
		LatencyMs:    95,
		Success:      false,
		ErrorMessage: "rate limited",
	}
	if err := repo.AppendLLMRequest(ctx, data); err != nil {
		t.Fatalf("AppendLLMRequest() error = %v", err)
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("QueryLLMEvents() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Success {
		t.Error("Success = true, want false")
	}
	if events[0].ErrorMessage != "rate limited" {
		t.Errorf("ErrorMessage = %q, want %q", events[0].ErrorMessage, "rate limited")
	}
}

func TestEventRepo_QueryNewestFirstWithLimit(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		data := LLMRequestEventData{
			RequestID: fmt.Sprintf("req-%d", i),
			Provider:  "mock",
			Model:     "mock-model",
			Purpose:   "code-diagnosis",
			Success:   true,
		}
		if err := repo.AppendLLMRequest(ctx, data); err != nil {
			t.Fatalf("AppendLLMRequest(%d) error = %v", i, err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 3})
	if err != nil {
		t.Fatalf("QueryLLMEvents() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	for i, want := range []string{"req-5", "req-4", "req-3"} {
		if events[i].RequestID != want {
			t.Errorf("events[%d].RequestID = %q, want %q", i, events[i].RequestID, want)
		}
	}
}

func TestDataDir_EnvOverride(t *testing.T) {
	t.Setenv("BUGDRILL_DATA", "/tmp/bugdrill-test-data")

	dir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir() error = %v", err)
	}
	if dir != "/tmp/bugdrill-test-data" {
		t.Errorf("DataDir() = %q, want BUGDRILL_DATA value", dir)
	}
}

func TestDataDir_XDGFallback(t *testing.T) {
	t.Setenv("BUGDRILL_DATA", "")
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")

	dir, err := DataDir()
	if err != nil {
		t.Fatalf("DataDir() error = %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-data", "bugdrill") {
		t.Errorf("DataDir() = %q, want XDG data home child", dir)
	}
}

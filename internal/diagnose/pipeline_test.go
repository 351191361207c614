package diagnose

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/tanvik/bugdrill/internal/llm"
)

const validDiagnosis = `{
	"rawError": "TypeError: cannot concatenate str and int",
	"trace": [
		{"status": "success", "title": "Assign name", "description": "name is bound to \"Ada\"", "isError": false},
		{"status": "error", "title": "Concatenate", "description": "str + int fails", "isError": true,
		 "badCode": "greeting = name + 42", "goodCode": "greeting = name + str(42)", "errorHighlight": "name + 42"}
	],
	"generatedFlashcards": [
		{"concept": "String concatenation needs matching types",
		 "frontCode": "greeting = name + 42",
		 "errorHighlight": "name + 42",
		 "backCode": "greeting = name + str(42)",
		 "explanation": "Convert the int before concatenating."}
	]
}`

func testRetryConfig() llm.RetryConfig {
	return llm.RetryConfig{
		MaxAttempts: 5,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     8 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func newTestPipeline(mock *llm.MockProvider) *Pipeline {
	cfg := DefaultConfig()
	cfg.Attempts = 5
	return NewPipeline(llm.WithRetry(mock, testRetryConfig()), cfg)
}

func TestSubmit_EmptyInputNeverCallsProvider(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(validDiagnosis)},
	)
	p := newTestPipeline(mock)

	for _, code := range []string{"", "   ", "\n\t", "  "} {
		_, err := p.Submit(context.Background(), code)
		if !errors.Is(err, ErrEmptySubmission) {
			t.Fatalf("Submit(%q): expected ErrEmptySubmission, got %v", code, err)
		}
	}
	if mock.CallCount() != 0 {
		t.Fatalf("expected zero provider calls, got %d", mock.CallCount())
	}
}

func TestSubmit_ReturnsDiagnosisUnchanged(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(validDiagnosis)},
	)
	p := newTestPipeline(mock)

	result, err := p.Submit(context.Background(), "greeting = name + 42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.RawError != "TypeError: cannot concatenate str and int" {
		t.Errorf("rawError = %q", result.RawError)
	}
	if len(result.Trace) != 2 {
		t.Fatalf("expected 2 trace steps, got %d", len(result.Trace))
	}
	// Order is the model's execution order, never reordered locally.
	if result.Trace[0].Title != "Assign name" || result.Trace[1].Title != "Concatenate" {
		t.Errorf("trace order changed: %+v", result.Trace)
	}
	if !result.Trace[1].IsError || result.Trace[1].ErrorHighlight != "name + 42" {
		t.Errorf("error step not preserved: %+v", result.Trace[1])
	}
	if len(result.Flashcards) != 1 {
		t.Fatalf("expected 1 flashcard draft, got %d", len(result.Flashcards))
	}
}

func TestSubmit_OptionalFieldsMayBeAbsent(t *testing.T) {
	minimal := `{"rawError": "All good", "trace": []}`
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(minimal)},
	)
	p := newTestPipeline(mock)

	result, err := p.Submit(context.Background(), "x = 1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Trace == nil {
		t.Error("trace should be non-nil even when empty")
	}
	if len(result.Flashcards) != 0 {
		t.Errorf("expected no flashcards, got %d", len(result.Flashcards))
	}
}

func TestSubmit_FailsTerminallyAfterFiveAttempts(t *testing.T) {
	mock := llm.NewMockProvider() // Empty queue: every attempt fails.
	p := newTestPipeline(mock)

	_, err := p.Submit(context.Background(), "x = 1")
	var analysisErr *AnalysisError
	if !errors.As(err, &analysisErr) {
		t.Fatalf("expected AnalysisError, got %T: %v", err, err)
	}
	if analysisErr.Attempts != 5 {
		t.Errorf("Attempts = %d, want 5", analysisErr.Attempts)
	}
	if mock.CallCount() != 5 {
		t.Fatalf("expected exactly 5 provider calls, got %d", mock.CallCount())
	}
}

func TestSubmit_MissingSummaryIsTerminal(t *testing.T) {
	// The mock skips schema validation, so the pipeline's own decode
	// guard is what rejects this.
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`{"rawError":"  ","trace":[]}`)},
	)
	p := newTestPipeline(mock)

	_, err := p.Submit(context.Background(), "x = 1")
	var analysisErr *AnalysisError
	if !errors.As(err, &analysisErr) {
		t.Fatalf("expected AnalysisError, got %v", err)
	}
}

// blockingProvider parks every Generate call until released, so tests
// can observe the pipeline with a request genuinely in flight.
type blockingProvider struct {
	entered chan struct{}
	release chan struct{}
	content json.RawMessage
}

func (b *blockingProvider) Generate(_ context.Context, _ llm.Request) (*llm.Response, error) {
	b.entered <- struct{}{}
	<-b.release
	return &llm.Response{Content: b.content, Model: "blocking", StopReason: "end"}, nil
}

func (b *blockingProvider) ModelID() string { return "blocking" }

func TestSubmit_RejectsConcurrentSubmission(t *testing.T) {
	bp := &blockingProvider{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		content: json.RawMessage(validDiagnosis),
	}
	p := NewPipeline(bp, DefaultConfig())

	done := make(chan error, 1)
	go func() {
		_, err := p.Submit(context.Background(), "x = 1")
		done <- err
	}()
	<-bp.entered // First request is now in flight.

	_, err := p.Submit(context.Background(), "y = 2")
	if !errors.Is(err, ErrAnalysisInFlight) {
		t.Fatalf("expected ErrAnalysisInFlight, got %v", err)
	}

	close(bp.release)
	if err := <-done; err != nil {
		t.Fatalf("first submission failed: %v", err)
	}
}

func TestSubmit_AbandonDiscardsLateResult(t *testing.T) {
	bp := &blockingProvider{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		content: json.RawMessage(validDiagnosis),
	}
	p := NewPipeline(bp, DefaultConfig())

	done := make(chan error, 1)
	go func() {
		_, err := p.Submit(context.Background(), "x = 1")
		done <- err
	}()
	<-bp.entered

	p.Abandon()

	// The slot is free immediately: a second submission dispatches while
	// the abandoned one is still running.
	done2 := make(chan error, 1)
	var second *Result
	go func() {
		res, err := p.Submit(context.Background(), "y = 2")
		second = res
		done2 <- err
	}()
	<-bp.entered

	close(bp.release) // Releases both requests.

	if err := <-done; !errors.Is(err, ErrResultDiscarded) {
		t.Fatalf("expected ErrResultDiscarded for abandoned request, got %v", err)
	}
	if err := <-done2; err != nil {
		t.Fatalf("second submission failed: %v", err)
	}
	if second == nil || second.RawError == "" {
		t.Fatal("second submission should carry the diagnosis")
	}
}

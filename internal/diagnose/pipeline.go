package diagnose

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tanvik/bugdrill/internal/llm"
)

// Config holds pipeline tuning knobs.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Attempts is the total request budget, first try included. It must
	// match the retry configuration of the provider the pipeline is built
	// on; it is reported in terminal AnalysisErrors.
	Attempts int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.4,
		Attempts:    llm.DefaultConfig().Retry.MaxAttempts,
	}
}

// Pipeline owns the lifecycle of one analysis request: sanitization,
// prompt and schema construction, the (retried) call to the generation
// model, and decoding of the structured diagnosis.
//
// Only one request may be in flight at a time; a second Submit while one
// is pending is rejected, not queued. Each Submit is stamped with a
// generation number, and Abandon bumps it so a late result from an
// abandoned request is discarded instead of being applied.
type Pipeline struct {
	provider llm.Provider
	cfg      Config

	mu         sync.Mutex
	inFlight   bool
	generation uint64
}

// NewPipeline creates a Pipeline on the given provider. The provider is
// expected to carry the retry decorator; the pipeline itself never
// retries a terminal failure.
func NewPipeline(provider llm.Provider, cfg Config) *Pipeline {
	return &Pipeline{provider: provider, cfg: cfg}
}

// Submit analyzes one code submission and returns its diagnosis.
// Whitespace-only input fails with ErrEmptySubmission before any network
// call. Transient failures are retried inside the provider chain; once
// the budget is spent the error surfaces as a terminal *AnalysisError.
func (p *Pipeline) Submit(ctx context.Context, code string) (*Result, error) {
	code = Sanitize(code)
	if code == "" {
		return nil, ErrEmptySubmission
	}

	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return nil, ErrAnalysisInFlight
	}
	p.inFlight = true
	p.generation++
	gen := p.generation
	p.mu.Unlock()

	result, err := p.run(ctx, code)

	p.mu.Lock()
	stale := gen != p.generation
	if !stale {
		p.inFlight = false
	}
	p.mu.Unlock()

	if stale {
		return nil, ErrResultDiscarded
	}
	return result, err
}

// Abandon supersedes the in-flight request, if any. The request itself
// keeps running until its context ends, but its result is discarded on
// arrival and the submission slot is freed immediately.
func (p *Pipeline) Abandon() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	p.inFlight = false
}

func (p *Pipeline) run(ctx context.Context, code string) (*Result, error) {
	ctx = llm.WithPurpose(ctx, "code-diagnosis")

	userMsg, err := buildUserMessage(code)
	if err != nil {
		return nil, fmt.Errorf("build diagnosis prompt: %w", err)
	}

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: userMsg},
		},
		Schema:      ResultSchema,
		MaxTokens:   p.cfg.MaxTokens,
		Temperature: p.cfg.Temperature,
	}

	resp, err := p.provider.Generate(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &AnalysisError{Attempts: p.cfg.Attempts, Err: err}
	}

	result, err := decodeResult(resp.Content)
	if err != nil {
		// Schema validation inside the provider chain makes this
		// unreachable for real providers; kept as a final guard.
		return nil, &AnalysisError{Attempts: p.cfg.Attempts, Err: err}
	}
	return result, nil
}

// decodeResult parses a response into a Result and checks the fields the
// pipeline itself depends on: a non-empty error summary and a present
// (possibly empty) trace. The trace content is passed through untouched;
// the pipeline is a transport layer, not an interpreter of the diagnosis.
func decodeResult(raw json.RawMessage) (*Result, error) {
	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("parse diagnosis: %w", err)
	}
	if strings.TrimSpace(res.RawError) == "" {
		return nil, fmt.Errorf("diagnosis missing error summary")
	}
	if res.Trace == nil {
		res.Trace = []TraceStep{}
	}
	return &res, nil
}

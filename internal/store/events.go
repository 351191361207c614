package store

import (
	"context"
	"database/sql"
	"time"
)

// LLMRequestEventData captures a single call to the generation model.
type LLMRequestEventData struct {
	RequestID    string
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMEventRecord is a persisted LLM request event.
type LLMEventRecord struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// QueryOpts configures event queries.
type QueryOpts struct {
	Limit int // max results, newest first (0 = default 50)
}

// EventRepo provides access to the LLM request event log.
type EventRepo interface {
	// AppendLLMRequest records one model API call.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns recent events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error)
}

type sqlEventRepo struct {
	db *sql.DB
}

func (r *sqlEventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO llm_request_events
	(request_id, provider, model, purpose, input_tokens, output_tokens, latency_ms, success, error_message)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		data.RequestID, data.Provider, data.Model, data.Purpose,
		data.InputTokens, data.OutputTokens, data.LatencyMs,
		boolToInt(data.Success), data.ErrorMessage,
	)
	return err
}

func (r *sqlEventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMEventRecord, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT id, request_id, timestamp, provider, model, purpose,
	input_tokens, output_tokens, latency_ms, success, error_message
FROM llm_request_events
ORDER BY id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LLMEventRecord
	for rows.Next() {
		var rec LLMEventRecord
		var success int
		if err := rows.Scan(
			&rec.ID, &rec.RequestID, &rec.Timestamp, &rec.Provider, &rec.Model,
			&rec.Purpose, &rec.InputTokens, &rec.OutputTokens, &rec.LatencyMs,
			&success, &rec.ErrorMessage,
		); err != nil {
			return nil, err
		}
		rec.Success = success != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package diagnose

import (
	"errors"
	"fmt"
)

// ErrEmptySubmission rejects a submission that is empty after trimming.
// Raised before any network activity; the user fixes it by typing code.
var ErrEmptySubmission = errors.New("submission is empty")

// ErrAnalysisInFlight rejects a submission while another one is still
// pending. Requests are never queued or run in parallel.
var ErrAnalysisInFlight = errors.New("an analysis is already in flight")

// ErrResultDiscarded reports that a completed analysis was superseded by
// Abandon before its result arrived, so the result was thrown away.
var ErrResultDiscarded = errors.New("analysis result discarded: submission superseded")

// AnalysisError is the terminal failure after the retry budget is spent.
// It wraps the last underlying error for diagnostics; callers offer the
// user a retry of the whole pipeline.
type AnalysisError struct {
	Attempts int
	Err      error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

package diagnose

// StepStatus classifies one trace step.
type StepStatus string

const (
	StepSuccess StepStatus = "success"
	StepWarning StepStatus = "warning"
	StepError   StepStatus = "error"
)

// TraceStep is one node in the diagnosed execution trace, in the order
// the model judged the code to execute. Every field beyond the first
// four is optional: the model may omit any of them, even on error steps,
// and consumers must tolerate absence.
type TraceStep struct {
	Status      StepStatus `json:"status"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsError     bool       `json:"isError"`

	BadCode        string `json:"badCode,omitempty"`
	GoodCode       string `json:"goodCode,omitempty"`
	ErrorHighlight string `json:"errorHighlight,omitempty"` // substring of BadCode
	Reason         string `json:"reason,omitempty"`
	Tip            string `json:"tip,omitempty"`
}

// Draft is an ephemeral flashcard definition produced by the model.
// It has no identity or stats until the flashcard engine ingests it.
type Draft struct {
	Concept        string `json:"concept"`
	FrontCode      string `json:"frontCode"`
	ErrorHighlight string `json:"errorHighlight,omitempty"`
	BackCode       string `json:"backCode"`
	Explanation    string `json:"explanation"`
}

// Result is the structured diagnosis for one submission. RawError and
// Trace are required (Trace may be empty); Flashcards may be absent.
type Result struct {
	RawError   string      `json:"rawError"`
	Trace      []TraceStep `json:"trace"`
	Flashcards []Draft     `json:"generatedFlashcards,omitempty"`
}

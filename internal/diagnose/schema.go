package diagnose

import "github.com/tanvik/bugdrill/internal/llm"

// ResultSchema is the output contract sent to the generation model and
// enforced on its responses. It mirrors the Result type: a one-sentence
// error summary, an ordered execution trace, and optional flashcard
// drafts for each detected error.
var ResultSchema = &llm.Schema{
	Name:        "code-diagnosis",
	Description: "Step-by-step execution trace of a code snippet with detected errors and flashcard drafts",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"rawError": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "One-sentence summary of the primary error, or a short all-clear note",
			},
			"trace": map[string]any{
				"type":        "array",
				"description": "Execution trace in run order; may be empty",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"status": map[string]any{
							"type": "string",
							"enum": []any{"success", "warning", "error"},
						},
						"title": map[string]any{
							"type":        "string",
							"description": "Short label for this execution step",
						},
						"description": map[string]any{
							"type":        "string",
							"description": "What happens at this step",
						},
						"isError": map[string]any{
							"type": "boolean",
						},
						"badCode": map[string]any{
							"type":        "string",
							"description": "The flawed code fragment, when this step is an error",
						},
						"goodCode": map[string]any{
							"type":        "string",
							"description": "The corrected fragment",
						},
						"errorHighlight": map[string]any{
							"type":        "string",
							"description": "Exact substring of badCode where the fault lies",
						},
						"reason": map[string]any{
							"type": "string",
						},
						"tip": map[string]any{
							"type": "string",
						},
					},
					"required": []any{"status", "title", "description", "isError"},
				},
			},
			"generatedFlashcards": map[string]any{
				"type":        "array",
				"description": "One draft per distinct error concept; omit when no errors found",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"concept": map[string]any{
							"type":        "string",
							"description": "The abstracted lesson this card teaches",
						},
						"frontCode": map[string]any{
							"type":        "string",
							"description": "The flawed snippet shown on the front",
						},
						"errorHighlight": map[string]any{
							"type":        "string",
							"description": "Exact substring of frontCode where the fault lies",
						},
						"backCode": map[string]any{
							"type":        "string",
							"description": "The corrected snippet",
						},
						"explanation": map[string]any{
							"type": "string",
						},
					},
					"required": []any{"concept", "frontCode", "backCode", "explanation"},
				},
			},
		},
		"required": []any{"rawError", "trace"},
	},
}

package llm

import (
	"context"
	"encoding/json"
)

// Provider is the abstraction over the hosted generation model.
// Bugdrill depends on exactly one capability: send a prompt, get back
// structured JSON or a distinguishable error.
type Provider interface {
	// Generate sends a prompt to the model and returns its output.
	// When the request carries a Schema, the provider asks the model for
	// JSON constrained to that schema and validates the response against
	// it before returning.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured for.
	ModelID() string
}

// Request describes one generation call.
type Request struct {
	// System sets the model's role and constraints.
	System string

	// Messages is the conversation. Bugdrill only ever sends a single
	// user message, but the slice keeps the surface general.
	Messages []Message

	// Schema, when set, constrains the output to the given JSON Schema.
	Schema *Schema

	// MaxTokens caps the response length.
	MaxTokens int

	// Temperature controls randomness, 0.0-1.0. Zero means deterministic.
	Temperature float64
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema the model output must conform to.
type Schema struct {
	// Name identifies the schema. Kebab-case, e.g. "code-diagnosis".
	Name string

	// Description tells the model what the schema represents.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response is the model's output.
type Response struct {
	// Content is the generated payload. With a Schema in the request this
	// is schema-valid JSON; without one it is the raw text.
	Content json.RawMessage

	// Usage reports token consumption.
	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token counts for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

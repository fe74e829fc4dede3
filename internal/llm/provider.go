package llm

import (
	"context"
	"encoding/json"
)

// Provider is the abstraction over a single text-generation backend.
// Each implementation re-serializes the request into its own calling
// convention; callers never see provider-specific request shapes.
type Provider interface {
	// Generate sends a prompt to the backend and returns its output.
	// When the request carries a Schema, the provider uses its native
	// structured-output mechanism and the response Content is the
	// validated JSON.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// StreamingProvider is implemented by providers that support incremental
// delivery of generated text.
type StreamingProvider interface {
	Provider

	// GenerateStream opens a single streaming connection and yields one
	// StreamDelta per decoded chunk. The channel is closed after the
	// terminal delta. A delta with Err set is always terminal.
	GenerateStream(ctx context.Context, req Request) (<-chan StreamDelta, error)
}

// StreamDelta is one incremental piece of a streamed response.
type StreamDelta struct {
	// Text is the textual fragment carried by this chunk. May be empty
	// on the terminal delta.
	Text string

	// Done is true on the final delta of a successful stream.
	Done bool

	// Err is set when the stream terminated abnormally. Partial output
	// already delivered is not retried.
	Err error
}

// Request describes what to send to the backend.
type Request struct {
	// System is the system prompt. Sets the model's role and constraints.
	System string

	// Messages is the conversation history. Interview calls are
	// single-turn, so this usually contains one user message.
	Messages []Message

	// Schema is the JSON Schema the response must conform to.
	// When set, the provider asks for its native JSON response mode.
	// When nil, the response Content is raw text.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Message represents a single message in the conversation.
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

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema (used as schema name for OpenAI,
	// resource name for validation). Kebab-case, e.g. "interview-question".
	Name string

	// Description is sent to the model to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the backend's output.
type Response struct {
	// Content is the generated output. When a Schema was provided this
	// is the validated JSON object, otherwise the raw text.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

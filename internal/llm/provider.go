package llm

import (
	"context"
	"encoding/json"
)

// Provider is the abstraction every LLM backend implements.
// Callers send a Request and receive the model's JSON reply.
type Provider interface {
	// Generate sends the request and returns the reply. When the request
	// carries a Schema, the returned Content has already been validated
	// against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier the provider sends requests to.
	ModelID() string
}

// Request describes one completion call.
type Request struct {
	// System sets the model's role and output constraints.
	System string

	// Messages is the conversation. Question generation is single-turn,
	// so this normally holds one user message.
	Messages []Message

	// Schema, when set, asks the provider for structured output and
	// enables response validation. Nil means free-form text.
	Schema *Schema

	// MaxTokens bounds the reply length.
	MaxTokens int

	// Temperature controls sampling randomness in [0, 1].
	// Zero leaves the provider default in place.
	Temperature float64
}

// Message is a single conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role identifies who sent a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is a named JSON Schema the reply must satisfy.
type Schema struct {
	// Name is a kebab-case identifier, e.g. "quiz-question". Providers use
	// it as the tool or schema name.
	Name string

	// Description tells the model what the object represents.
	Description string

	// Definition is the JSON Schema document.
	Definition map[string]any
}

// Response holds the model's reply.
type Response struct {
	// Content is the reply with any markdown code fence removed. With a
	// Schema it is a validated JSON object.
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end" or "max_tokens".
	StopReason string
}

// Usage reports token consumption for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

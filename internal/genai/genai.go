// Package genai provides GenAI chat clients for MindGuide.
//
// It exposes a provider-neutral ClientInterface with Gemini as the primary
// backend and OpenAI as an alternate, both constructed through functional
// options. The flow module translates transcripts into the external chat
// shape defined here.
package genai

import (
	"context"
	"errors"
	"fmt"
)

// Role identifies the author of a message in the external chat protocol.
// The external protocol has no third-party "system" role mid-conversation;
// everything the service said maps to the model role.
type Role string

const (
	// RoleUser marks a message authored by the end user.
	RoleUser Role = "user"
	// RoleModel marks a message authored by the model.
	RoleModel Role = "model"
)

// Message is one entry of the chat history sent to the external service.
type Message struct {
	Role    Role
	Content string
}

// Provider selects which GenAI backend serves requests.
type Provider string

const (
	// ProviderGemini uses the Google Gemini API (default).
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI uses the OpenAI chat completions API.
	ProviderOpenAI Provider = "openai"
)

// Fixed generation parameters. They affect only output variability, not
// correctness, and are not user-configurable.
const (
	GenerationTemperature     = 0.7
	GenerationTopP            = 0.95
	GenerationTopK            = 40
	GenerationMaxOutputTokens = 1024
)

// Error variables for better error handling and testability
var (
	// ErrAPIKeyMissing indicates the provider credential was not configured.
	ErrAPIKeyMissing = errors.New("genai: API key not set")
	// ErrNoContent indicates the service returned a response with no usable text.
	ErrNoContent = errors.New("genai: no content returned")
	// ErrUnknownProvider indicates an unsupported provider name.
	ErrUnknownProvider = errors.New("genai: unknown provider")
)

// ClientInterface defines the operations the flow module needs from a GenAI
// backend: send a chat history plus a trailing instruction message, receive
// free text.
type ClientInterface interface {
	// GenerateWithHistory submits the instruction as the final message of a
	// chat seeded with the given history and returns the model's text reply.
	GenerateWithHistory(ctx context.Context, history []Message, instruction string) (string, error)
}

// Opts holds configuration for client construction.
type Opts struct {
	Provider Provider
	APIKey   string
	Model    string
}

// Option configures client construction.
type Option func(*Opts)

// WithProvider selects the GenAI backend.
func WithProvider(p Provider) Option {
	return func(o *Opts) { o.Provider = p }
}

// WithAPIKey sets the provider credential explicitly. Credentials are passed
// in at construction time, never read from the environment at call sites.
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// WithModel overrides the provider's default model name.
func WithModel(model string) Option {
	return func(o *Opts) { o.Model = model }
}

// NewClient constructs a client for the configured provider. Gemini is the
// default when no provider is specified.
func NewClient(ctx context.Context, opts ...Option) (ClientInterface, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	switch cfg.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(ctx, opts...)
	case ProviderOpenAI:
		return NewOpenAIClient(opts...)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, cfg.Provider)
	}
}

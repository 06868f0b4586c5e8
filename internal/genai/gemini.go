// Package genai provides GenAI chat clients for MindGuide.
//
// This file implements the Gemini backend on the official genai SDK.
package genai

import (
	"context"
	"fmt"
	"log/slog"

	gemini "google.golang.org/genai"
)

// DefaultGeminiModel is the model used when no override is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// generativeModels is the minimal surface of the Gemini SDK used by the
// client, extracted for testability.
type generativeModels interface {
	GenerateContent(ctx context.Context, model string, contents []*gemini.Content, config *gemini.GenerateContentConfig) (*gemini.GenerateContentResponse, error)
}

// GeminiClient is a thin wrapper around the official genai client.
type GeminiClient struct {
	models generativeModels
	model  string
}

// NewGeminiClient creates a Gemini-backed client. The API key must be
// provided through options; its absence is a construction error.
func NewGeminiClient(ctx context.Context, opts ...Option) (*GeminiClient, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyMissing
	}
	cli, err := gemini.NewClient(ctx, &gemini.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: gemini.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	slog.Debug("GeminiClient created", "model", model)
	return &GeminiClient{models: cli.Models, model: model}, nil
}

// GenerateWithHistory submits the chat history with the instruction as the
// trailing user message and returns the model's free-text reply.
func (g *GeminiClient) GenerateWithHistory(ctx context.Context, history []Message, instruction string) (string, error) {
	contents := make([]*gemini.Content, 0, len(history)+1)
	for _, msg := range history {
		role := gemini.RoleUser
		if msg.Role == RoleModel {
			role = gemini.RoleModel
		}
		contents = append(contents, &gemini.Content{
			Role:  role,
			Parts: []*gemini.Part{{Text: msg.Content}},
		})
	}
	contents = append(contents, &gemini.Content{
		Role:  gemini.RoleUser,
		Parts: []*gemini.Part{{Text: instruction}},
	})

	config := &gemini.GenerateContentConfig{
		Temperature:     gemini.Ptr[float32](GenerationTemperature),
		TopP:            gemini.Ptr[float32](GenerationTopP),
		TopK:            gemini.Ptr[float32](GenerationTopK),
		MaxOutputTokens: GenerationMaxOutputTokens,
	}

	slog.Debug("GeminiClient.GenerateWithHistory: sending request", "model", g.model, "historyLength", len(history), "instructionLength", len(instruction))
	resp, err := g.models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		slog.Error("GeminiClient.GenerateWithHistory: request failed", "error", err, "model", g.model)
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		slog.Warn("GeminiClient.GenerateWithHistory: response contained no candidates", "model", g.model)
		return "", ErrNoContent
	}
	text := resp.Candidates[0].Content.Parts[0].Text
	slog.Debug("GeminiClient.GenerateWithHistory: received reply", "model", g.model, "replyLength", len(text))
	return text, nil
}

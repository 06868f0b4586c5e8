// Package genai provides GenAI chat clients for MindGuide.
//
// This file implements the alternate OpenAI backend.
package genai

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// chatService defines the minimal interface for chat completions.
type chatService interface {
	New(ctx context.Context, params openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// OpenAIClient wraps the OpenAI chat completion service.
type OpenAIClient struct {
	chat  chatService
	model openai.ChatModel
}

// NewOpenAIClient creates an OpenAI-backed client. The API key must be
// provided through options; its absence is a construction error.
func NewOpenAIClient(opts ...Option) (*OpenAIClient, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyMissing
	}
	cli := openai.NewClient(option.WithAPIKey(cfg.APIKey))
	model := openai.ChatModelGPT4oMini
	if cfg.Model != "" {
		model = openai.ChatModel(cfg.Model)
	}
	slog.Debug("OpenAIClient created", "model", model)
	return &OpenAIClient{chat: &cli.Chat.Completions, model: model}, nil
}

// GenerateWithHistory submits the chat history with the instruction as the
// trailing user message and returns the model's free-text reply.
func (c *OpenAIClient) GenerateWithHistory(ctx context.Context, history []Message, instruction string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+1)
	for _, msg := range history {
		if msg.Role == RoleModel {
			messages = append(messages, openai.AssistantMessage(msg.Content))
		} else {
			messages = append(messages, openai.UserMessage(msg.Content))
		}
	}
	messages = append(messages, openai.UserMessage(instruction))

	// The chat completions API has no top-k parameter; temperature and
	// top-p cover the variability contract.
	params := openai.ChatCompletionNewParams{
		Model:               c.model,
		Messages:            messages,
		Temperature:         openai.Float(GenerationTemperature),
		TopP:                openai.Float(GenerationTopP),
		MaxCompletionTokens: openai.Int(GenerationMaxOutputTokens),
	}

	slog.Debug("OpenAIClient.GenerateWithHistory: sending request", "model", c.model, "historyLength", len(history), "instructionLength", len(instruction))
	resp, err := c.chat.New(ctx, params)
	if err != nil {
		slog.Error("OpenAIClient.GenerateWithHistory: request failed", "error", err, "model", c.model)
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		slog.Warn("OpenAIClient.GenerateWithHistory: response contained no choices", "model", c.model)
		return "", ErrNoContent
	}
	text := resp.Choices[0].Message.Content
	slog.Debug("OpenAIClient.GenerateWithHistory: received reply", "model", c.model, "replyLength", len(text))
	return text, nil
}

package openai

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/kailas-cloud/webrag/internal/domain"
	"github.com/kailas-cloud/webrag/internal/domain/prompt"
)

// ChatConfig holds the chat completion settings.
type ChatConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Logger      *zap.Logger
}

// Generator streams chat completions from an OpenAI-compatible API.
type Generator struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
	logger      *zap.Logger
}

// NewGenerator creates a streaming chat generator.
func NewGenerator(cfg *ChatConfig) *Generator {
	g := &Generator{
		client:      newClient(cfg.APIKey, cfg.BaseURL),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		logger:      cfg.Logger,
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	return g
}

// Stream opens a streaming completion. A failure to open it wraps domain.ErrGeneration.
func (g *Generator) Stream(ctx context.Context, messages []prompt.Message) (prompt.TokenStream, error) {
	req := openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    toOpenAIMessages(messages),
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
		Stream:      true,
	}

	stream, err := g.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("open chat stream: %w: %w", domain.ErrGeneration, err)
	}
	return &TokenStream{stream: stream}, nil
}

func toOpenAIMessages(messages []prompt.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}
	return out
}

// TokenStream yields content deltas of an open completion.
type TokenStream struct {
	stream *openai.ChatCompletionStream
}

// Recv returns the next non-empty content delta, or io.EOF when the model is done.
func (s *TokenStream) Recv() (string, error) {
	for {
		resp, err := s.stream.Recv()
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		if err != nil {
			return "", fmt.Errorf("chat stream: %w: %w", domain.ErrGeneration, err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		if delta := resp.Choices[0].Delta.Content; delta != "" {
			return delta, nil
		}
	}
}

// Close releases the underlying HTTP response.
func (s *TokenStream) Close() error {
	return s.stream.Close() //nolint:wrapcheck // pass-through
}

package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/webrag/internal/domain"
	"github.com/kailas-cloud/webrag/internal/domain/prompt"
	"github.com/kailas-cloud/webrag/internal/domain/query"
	"github.com/kailas-cloud/webrag/internal/metrics"
)

// Reply is an open answer stream. The caller must Close Stream.
type Reply struct {
	Stream   prompt.TokenStream
	Chunks   int
	Degraded bool
}

// Service answers a conversation using retrieved context.
type Service struct {
	contexts  ContextBuilder
	generator Generator
	limit     int
	logger    *zap.Logger
}

// New creates a chat service.
func New(cb ContextBuilder, gen Generator, logger *zap.Logger) *Service {
	return &Service{contexts: cb, generator: gen, limit: query.DefaultLimit, logger: logger}
}

// Reply grounds the last user message and opens the model stream with the
// system prompt prepended to the full history. Nothing is streamed if this fails.
func (s *Service) Reply(ctx context.Context, messages []prompt.Message) (Reply, error) {
	if err := validate(messages); err != nil {
		return Reply{}, err
	}
	question := messages[len(messages)-1].Content

	rc, err := s.contexts.BuildContext(ctx, question, s.limit)
	if err != nil {
		metrics.ChatRequestsTotal.WithLabelValues("context_error").Inc()
		return Reply{}, fmt.Errorf("build context: %w", err)
	}

	history := make([]prompt.Message, 0, len(messages)+1)
	history = append(history, prompt.Message{Role: prompt.RoleSystem, Content: rc.Prompt})
	history = append(history, messages...)

	stream, err := s.generator.Stream(ctx, history)
	if err != nil {
		metrics.ChatRequestsTotal.WithLabelValues("generation_error").Inc()
		s.logger.Error("Failed to open chat stream", zap.Int("messages", len(history)), zap.Error(err))
		return Reply{}, fmt.Errorf("generate reply: %w", err)
	}

	metrics.ChatRequestsTotal.WithLabelValues("ok").Inc()
	return Reply{Stream: stream, Chunks: len(rc.Context.Chunks), Degraded: rc.Degraded}, nil
}

func validate(messages []prompt.Message) error {
	if len(messages) == 0 {
		return fmt.Errorf("no messages: %w", domain.ErrInvalidInput)
	}
	for i, m := range messages {
		if !m.Role.IsValid() {
			return fmt.Errorf("message %d has unknown role %q: %w", i, m.Role, domain.ErrInvalidInput)
		}
	}
	last := messages[len(messages)-1]
	if last.Role != prompt.RoleUser || strings.TrimSpace(last.Content) == "" {
		return fmt.Errorf("last message must be a non-empty user message: %w", domain.ErrInvalidInput)
	}
	return nil
}

package chat

import (
	"context"

	"github.com/kailas-cloud/webrag/internal/domain/prompt"
	"github.com/kailas-cloud/webrag/internal/usecase/retrieval"
)

// ContextBuilder assembles the grounded system prompt for a question.
type ContextBuilder interface {
	BuildContext(ctx context.Context, question string, limit int) (retrieval.Result, error)
}

// Generator opens a streaming chat completion.
type Generator interface {
	Stream(ctx context.Context, messages []prompt.Message) (prompt.TokenStream, error)
}

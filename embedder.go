package webrag

import "context"

// Embedder converts text to vector embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector and token counts.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Extractor turns a URL into the plain text of the rendered page.
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

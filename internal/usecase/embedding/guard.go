package embedding

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/webrag/internal/domain"
)

// Guard rejects vectors whose length differs from the configured dimension.
// It must be the outermost decorator so cached and instruction-prefixed vectors are checked too.
type Guard struct {
	inner     domain.Embedder
	dimension int
}

// NewGuard wraps inner with a dimension check.
func NewGuard(inner domain.Embedder, dimension int) *Guard {
	return &Guard{inner: inner, dimension: dimension}
}

// Dimension returns the expected vector length.
func (g *Guard) Dimension() int { return g.dimension }

// Embed returns the inner result only if its vector has exactly Dimension components.
func (g *Guard) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	result, err := g.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, err //nolint:wrapcheck // transparent decorator
	}
	if err := domain.CheckDimension(result.Embedding, g.dimension); err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embedding response: %w: %w", domain.ErrEmbedding, err)
	}
	return result, nil
}

// HealthCheck forwards to the inner embedder when it supports one.
func (g *Guard) HealthCheck(ctx context.Context) error {
	if hc, ok := g.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // transparent decorator
	}
	return nil
}

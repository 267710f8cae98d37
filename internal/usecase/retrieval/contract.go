package retrieval

import (
	"context"

	"github.com/kailas-cloud/webrag/internal/domain"
	domchunk "github.com/kailas-cloud/webrag/internal/domain/chunk"
	domcol "github.com/kailas-cloud/webrag/internal/domain/collection"
)

// Embedder vectorizes the question.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// ChunkSearcher finds the chunks nearest to a vector.
type ChunkSearcher interface {
	Search(ctx context.Context, col domcol.Collection, vector []float32, limit int) ([]domchunk.Chunk, error)
}

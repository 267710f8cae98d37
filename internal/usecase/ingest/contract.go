package ingest

import (
	"context"

	"github.com/kailas-cloud/webrag/internal/domain"
	domchunk "github.com/kailas-cloud/webrag/internal/domain/chunk"
	domcol "github.com/kailas-cloud/webrag/internal/domain/collection"
	dom "github.com/kailas-cloud/webrag/internal/domain/ingest"
)

// Extractor turns a URL into plain text.
type Extractor interface {
	Extract(ctx context.Context, url string) (string, error)
}

// Segmenter splits text into overlapping windows.
type Segmenter interface {
	Split(text string) []string
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// ChunkWriter stores a chunk and returns its ID.
type ChunkWriter interface {
	Insert(ctx context.Context, col domcol.Collection, c domchunk.Chunk) (string, error)
}

// CollectionEnsurer creates the collection if absent and returns the stored definition.
type CollectionEnsurer interface {
	Ensure(ctx context.Context, want domcol.Collection) (domcol.Collection, error)
}

// Observer receives progress events. Calls happen on the ingesting goroutine.
type Observer interface {
	URLStarted(url string, chunks int)
	ChunkStored(url string, chunkIndex int)
	URLDone(res dom.Result)
}

package retrieval

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/webrag/internal/domain"
	domcol "github.com/kailas-cloud/webrag/internal/domain/collection"
	"github.com/kailas-cloud/webrag/internal/domain/prompt"
	"github.com/kailas-cloud/webrag/internal/domain/query"
	"github.com/kailas-cloud/webrag/internal/metrics"
)

// DefaultMaxLimit caps the number of chunks one question may pull into a prompt.
const DefaultMaxLimit = 100

// Result is an assembled prompt and the retrieval behind it.
type Result struct {
	Prompt  string
	Context query.Context
	// Degraded is set when the search failed and the prompt was built without context.
	Degraded bool
}

// Service builds grounded prompts.
type Service struct {
	embedder      Embedder
	chunks        ChunkSearcher
	collection    domcol.Collection
	defaultLimit  int
	maxLimit      int
	searchTimeout time.Duration
	logger        *zap.Logger
}

// New creates a retrieval service over col.
func New(emb Embedder, chunks ChunkSearcher, col domcol.Collection, logger *zap.Logger) *Service {
	return &Service{
		embedder:      emb,
		chunks:        chunks,
		collection:    col,
		defaultLimit:  query.DefaultLimit,
		maxLimit:      DefaultMaxLimit,
		searchTimeout: 10 * time.Second,
		logger:        logger,
	}
}

// WithLimits overrides the default and maximum limits. Non-positive values are ignored.
func (s *Service) WithLimits(defaultLimit, maxLimit int) *Service {
	if defaultLimit > 0 {
		s.defaultLimit = defaultLimit
	}
	if maxLimit > 0 {
		s.maxLimit = maxLimit
	}
	return s
}

// WithSearchTimeout bounds the vector search call.
func (s *Service) WithSearchTimeout(d time.Duration) *Service {
	if d > 0 {
		s.searchTimeout = d
	}
	return s
}

// BuildContext embeds the question, retrieves up to limit chunks and renders the prompt.
// A failed search does not fail the call: the prompt is built with an empty context.
func (s *Service) BuildContext(ctx context.Context, question string, limit int) (Result, error) {
	if strings.TrimSpace(question) == "" {
		return Result{}, fmt.Errorf("question is blank: %w", domain.ErrInvalidInput)
	}
	limit = s.clampLimit(limit)

	emb, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return Result{}, fmt.Errorf("embed question: %w", err)
	}

	qc := query.Context{Vector: emb.Embedding, Limit: limit}
	degraded := false

	searchCtx, cancel := context.WithTimeout(ctx, s.searchTimeout)
	chunks, err := s.chunks.Search(searchCtx, s.collection, emb.Embedding, limit)
	cancel()

	switch {
	case err != nil:
		degraded = true
		metrics.RetrievalTotal.WithLabelValues("degraded").Inc()
		s.logger.Warn("Vector search failed, answering without context",
			zap.String("collection", s.collection.Name()),
			zap.Int("limit", limit),
			zap.Error(err),
		)
	case len(chunks) == 0:
		metrics.RetrievalTotal.WithLabelValues("empty").Inc()
	default:
		qc.Chunks = chunks
		metrics.RetrievalTotal.WithLabelValues("ok").Inc()
	}

	return Result{
		Prompt:   prompt.Build(qc.Texts(), question),
		Context:  qc,
		Degraded: degraded,
	}, nil
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	return limit
}

package webrag

import (
	"context"

	dom "github.com/kailas-cloud/webrag/internal/domain/ingest"
	healthuc "github.com/kailas-cloud/webrag/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/webrag/internal/usecase/ingest"
	"github.com/kailas-cloud/webrag/internal/usecase/retrieval"
)

// --- ingestUseCase mock ---

type mockIngestUC struct {
	mode     dom.Mode
	ingestFn func(ctx context.Context, urls []string, mode dom.Mode, obs ingestuc.Observer) (dom.Report, error)
}

func (m *mockIngestUC) IngestWithMode(
	ctx context.Context, urls []string, mode dom.Mode, obs ingestuc.Observer,
) (dom.Report, error) {
	return m.ingestFn(ctx, urls, mode, obs)
}

func (m *mockIngestUC) Mode() dom.Mode { return m.mode }

// --- retrievalUseCase mock ---

type mockRetrievalUC struct {
	buildFn func(ctx context.Context, question string, limit int) (retrieval.Result, error)
}

func (m *mockRetrievalUC) BuildContext(ctx context.Context, question string, limit int) (retrieval.Result, error) {
	return m.buildFn(ctx, question, limit)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

// --- public Embedder mock ---

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

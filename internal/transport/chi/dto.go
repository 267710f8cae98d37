package chi

import (
	"time"

	"github.com/kailas-cloud/webrag/internal/domain/chunk"
	dom "github.com/kailas-cloud/webrag/internal/domain/ingest"
	"github.com/kailas-cloud/webrag/internal/domain/prompt"
)

// IngestRequest is the body of POST /api/v1/ingest.
type IngestRequest struct {
	URLs []string `json:"urls"`
	Mode string   `json:"mode,omitempty"`
}

// IngestResultItem reports one URL.
type IngestResultItem struct {
	URL    string         `json:"url"`
	Status string         `json:"status"`
	Chunks int            `json:"chunks"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

// IngestResponse is returned when the run completed (all URLs, or isolated mode).
type IngestResponse struct {
	Results        []IngestResultItem `json:"results"`
	ChunksInserted int                `json:"chunks_inserted"`
	Failed         int                `json:"failed"`
}

// IngestErrorResponse is returned when a fail-fast run was aborted.
type IngestErrorResponse struct {
	ErrorResponse
	Results []IngestResultItem `json:"results"`
}

// ContextRequest is the body of POST /api/v1/context.
type ContextRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// ChunkItem is one retrieved chunk.
type ChunkItem struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	SourceURL  string    `json:"source_url"`
	ChunkIndex int       `json:"chunk_index"`
	Score      float64   `json:"score"`
	InsertedAt time.Time `json:"inserted_at"`
}

// ContextResponse carries the assembled prompt.
type ContextResponse struct {
	Prompt   string      `json:"prompt"`
	Degraded bool        `json:"degraded"`
	Chunks   []ChunkItem `json:"chunks"`
}

// ChatRequest is the body of POST /api/v1/chat.
type ChatRequest struct {
	Messages []prompt.Message `json:"messages"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func reportToItems(results []dom.Result) []IngestResultItem {
	items := make([]IngestResultItem, len(results))
	for i, r := range results {
		items[i] = IngestResultItem{
			URL:    r.URL(),
			Status: string(r.Status()),
			Chunks: r.Chunks(),
		}
		if r.Err() != nil {
			_, code := statusFor(r.Err())
			items[i].Error = &ErrorResponse{Code: code, Message: safeDomainMessage(r.Err())}
		}
	}
	return items
}

func chunksToItems(cs []chunk.Chunk) []ChunkItem {
	items := make([]ChunkItem, len(cs))
	for i, c := range cs {
		items[i] = ChunkItem{
			ID:         c.ID(),
			Text:       c.Text(),
			SourceURL:  c.SourceURL(),
			ChunkIndex: c.Index(),
			Score:      c.Score(),
			InsertedAt: c.InsertedAt(),
		}
	}
	return items
}

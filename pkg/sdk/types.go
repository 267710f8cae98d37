package sdk

import "time"

// Ingest modes accepted by the server.
const (
	ModeFailFast = "fail_fast"
	ModeIsolated = "isolated"
)

// IngestRequest is the body of POST /api/v1/ingest.
type IngestRequest struct {
	URLs []string `json:"urls"`
	Mode string   `json:"mode,omitempty"`
}

// URLError describes why one URL failed.
type URLError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// URLResult reports one URL.
type URLResult struct {
	URL    string    `json:"url"`
	Status string    `json:"status"` // "ok" or "failed"
	Chunks int       `json:"chunks"`
	Error  *URLError `json:"error,omitempty"`
}

// IngestResponse lists per-URL outcomes in input order.
type IngestResponse struct {
	Results        []URLResult `json:"results"`
	ChunksInserted int         `json:"chunks_inserted"`
	Failed         int         `json:"failed"`
}

// ContextRequest is the body of POST /api/v1/context.
type ContextRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// Chunk is a retrieved piece of a page.
type Chunk struct {
	ID         string    `json:"id"`
	Text       string    `json:"text"`
	SourceURL  string    `json:"source_url"`
	ChunkIndex int       `json:"chunk_index"`
	Score      float64   `json:"score"`
	InsertedAt time.Time `json:"inserted_at"`
}

// ContextResponse carries the assembled prompt.
type ContextResponse struct {
	Prompt   string  `json:"prompt"`
	Degraded bool    `json:"degraded"`
	Chunks   []Chunk `json:"chunks"`
}

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// ChatInfo describes a streamed answer.
type ChatInfo struct {
	Bytes    int64
	Degraded bool
}

// Health is the aggregated server health.
type Health struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

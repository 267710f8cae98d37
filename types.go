package webrag

import (
	"time"

	domchunk "github.com/kailas-cloud/webrag/internal/domain/chunk"
	dom "github.com/kailas-cloud/webrag/internal/domain/ingest"
)

// URLResult is the outcome of ingesting one URL.
type URLResult struct {
	URL    string
	OK     bool
	Chunks int   // chunks stored for this URL, including before a failure
	Err    error // nil when OK
}

// IngestReport lists per-URL outcomes in input order.
type IngestReport struct {
	Results        []URLResult
	ChunksInserted int
	Failed         int
}

// Chunk is a retrieved piece of a page.
type Chunk struct {
	ID         string
	Text       string
	SourceURL  string
	Index      int
	Score      float64 // higher is more similar
	InsertedAt time.Time
}

// PromptContext is an assembled prompt and the chunks behind it.
type PromptContext struct {
	Prompt string
	Chunks []Chunk
	// Degraded is set when the vector search failed and the prompt carries no context.
	Degraded bool
}

func reportFromDomain(rep dom.Report) IngestReport {
	out := IngestReport{
		Results:        make([]URLResult, len(rep.Results)),
		ChunksInserted: rep.ChunksInserted(),
		Failed:         rep.Failed(),
	}
	for i, r := range rep.Results {
		out.Results[i] = urlResultFromDomain(r)
	}
	return out
}

func urlResultFromDomain(r dom.Result) URLResult {
	return URLResult{
		URL:    r.URL(),
		OK:     r.Status() == dom.StatusOK,
		Chunks: r.Chunks(),
		Err:    r.Err(),
	}
}

func chunksFromDomain(cs []domchunk.Chunk) []Chunk {
	out := make([]Chunk, len(cs))
	for i, c := range cs {
		out[i] = Chunk{
			ID:         c.ID(),
			Text:       c.Text(),
			SourceURL:  c.SourceURL(),
			Index:      c.Index(),
			Score:      c.Score(),
			InsertedAt: c.InsertedAt(),
		}
	}
	return out
}

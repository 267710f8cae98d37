package webrag

import dom "github.com/kailas-cloud/webrag/internal/domain/ingest"

// ProgressKind identifies a progress event.
type ProgressKind int

// Progress event kinds.
const (
	// URLStarted fires once a page is extracted and split; Chunks holds the window count.
	URLStarted ProgressKind = iota
	// ChunkStored fires after each chunk is embedded and inserted.
	ChunkStored
	// URLDone fires when a URL finished, successfully or not.
	URLDone
)

// ProgressEvent reports ingestion progress.
type ProgressEvent struct {
	Kind       ProgressKind
	URL        string
	Chunks     int
	ChunkIndex int
	Result     URLResult // set for URLDone
}

// IngestOption tunes a single Ingest call.
type IngestOption func(*ingestOptions)

type ingestOptions struct {
	mode     IngestMode
	progress func(ProgressEvent)
}

// WithMode overrides the client's default ingest mode for one call.
func WithMode(m IngestMode) IngestOption {
	return func(o *ingestOptions) { o.mode = m }
}

// WithProgress receives events on the ingesting goroutine.
func WithProgress(fn func(ProgressEvent)) IngestOption {
	return func(o *ingestOptions) { o.progress = fn }
}

// progressObserver forwards pipeline events to a callback.
type progressObserver struct {
	fn func(ProgressEvent)
}

func (p progressObserver) URLStarted(url string, chunks int) {
	p.fn(ProgressEvent{Kind: URLStarted, URL: url, Chunks: chunks})
}

func (p progressObserver) ChunkStored(url string, idx int) {
	p.fn(ProgressEvent{Kind: ChunkStored, URL: url, ChunkIndex: idx})
}

func (p progressObserver) URLDone(res dom.Result) {
	r := urlResultFromDomain(res)
	p.fn(ProgressEvent{Kind: URLDone, URL: r.URL, Chunks: r.Chunks, Result: r})
}

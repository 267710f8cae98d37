package chunk

import (
	"fmt"
	"net/url"
	"time"
)

// Chunk is one stored slice of page text with its embedding (immutable value object).
type Chunk struct {
	id         string
	text       string
	sourceURL  string
	index      int
	vector     []float32
	insertedAt time.Time
	score      float64
}

// New validates and creates a Chunk ready for insertion. The ID is assigned by the store.
func New(text, sourceURL string, index int, vector []float32) (Chunk, error) {
	if text == "" {
		return Chunk{}, fmt.Errorf("chunk text is required")
	}
	if _, err := url.Parse(sourceURL); err != nil || sourceURL == "" {
		return Chunk{}, fmt.Errorf("chunk source url is invalid: %q", sourceURL)
	}
	if index < 0 {
		return Chunk{}, fmt.Errorf("chunk index must not be negative")
	}
	if len(vector) == 0 {
		return Chunk{}, fmt.Errorf("chunk vector is required")
	}

	v := make([]float32, len(vector))
	copy(v, vector)

	return Chunk{
		text:       text,
		sourceURL:  sourceURL,
		index:      index,
		vector:     v,
		insertedAt: time.Now().UTC(),
	}, nil
}

// Reconstruct creates a Chunk without validation (storage hydration).
func Reconstruct(
	id, text, sourceURL string, index int,
	vector []float32, insertedAt time.Time, score float64,
) Chunk {
	return Chunk{
		id:         id,
		text:       text,
		sourceURL:  sourceURL,
		index:      index,
		vector:     vector,
		insertedAt: insertedAt,
		score:      score,
	}
}

// ID returns the store-assigned identifier.
func (c Chunk) ID() string { return c.id }

// Text returns the chunk text.
func (c Chunk) Text() string { return c.text }

// SourceURL returns the page the chunk was cut from.
func (c Chunk) SourceURL() string { return c.sourceURL }

// Index returns the chunk position within its page.
func (c Chunk) Index() int { return c.index }

// Vector returns the embedding vector.
func (c Chunk) Vector() []float32 { return c.vector }

// InsertedAt returns the insertion timestamp.
func (c Chunk) InsertedAt() time.Time { return c.insertedAt }

// Score returns the similarity to the query (search results only, higher is closer).
func (c Chunk) Score() float64 { return c.score }

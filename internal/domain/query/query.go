// Package query holds the ephemeral state of one retrieval.
package query

import "github.com/kailas-cloud/webrag/internal/domain/chunk"

// DefaultLimit is the number of chunks retrieved when the caller does not ask for a specific amount.
const DefaultLimit = 10

// Context is what a single retrieval produced: the query vector and the chunks it matched.
type Context struct {
	Vector []float32
	Chunks []chunk.Chunk // most similar first
	Limit  int
}

// Texts returns the chunk texts in retrieval order.
func (c Context) Texts() []string {
	out := make([]string, len(c.Chunks))
	for i := range c.Chunks {
		out[i] = c.Chunks[i].Text()
	}
	return out
}

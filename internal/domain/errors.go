package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput signals a request the pipeline refuses to start on (empty URL list, blank query).
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrFetch signals that a page could not be loaded or read.
	ErrFetch = errors.New("fetch failed")
	// ErrEmbedding signals a failed or malformed embedding call.
	ErrEmbedding = errors.New("embedding failed")
	// ErrEmbeddingProviderError signals an error reported by the embedding API itself.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrVectorDimMismatch signals a vector whose length differs from the collection dimension.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrStoreWrite signals a failed write to the vector store.
	ErrStoreWrite = errors.New("vector store write failed")
	// ErrStoreRead signals a failed read from the vector store.
	ErrStoreRead = errors.New("vector store read failed")
	// ErrCollectionMismatch signals an existing collection created with another dimension or metric.
	ErrCollectionMismatch = errors.New("collection mismatch")
	// ErrGeneration signals that the chat model could not produce a response.
	ErrGeneration = errors.New("generation failed")
)

// CheckDimension returns ErrVectorDimMismatch when len(vec) != want.
func CheckDimension(vec []float32, want int) error {
	if len(vec) != want {
		return fmt.Errorf("got %d components, want %d: %w", len(vec), want, ErrVectorDimMismatch)
	}
	return nil
}

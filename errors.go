package webrag

import "github.com/kailas-cloud/webrag/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput           = domain.ErrInvalidInput
	ErrNotFound               = domain.ErrNotFound
	ErrFetch                  = domain.ErrFetch
	ErrEmbedding              = domain.ErrEmbedding
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrVectorDimMismatch      = domain.ErrVectorDimMismatch
	ErrStoreWrite             = domain.ErrStoreWrite
	ErrStoreRead              = domain.ErrStoreRead
	ErrCollectionMismatch     = domain.ErrCollectionMismatch
)

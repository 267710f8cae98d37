package health

import (
	"context"

	domcol "github.com/kailas-cloud/webrag/internal/domain/collection"
)

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// EmbeddingChecker checks embedding provider availability.
type EmbeddingChecker interface {
	HealthCheck(ctx context.Context) error
}

// CollectionGetter reads collection metadata.
type CollectionGetter interface {
	Get(ctx context.Context, name string) (domcol.Collection, error)
}

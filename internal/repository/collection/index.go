package collection

import (
	"github.com/kailas-cloud/webrag/internal/db"
	domcol "github.com/kailas-cloud/webrag/internal/domain/collection"
)

// Chunk hash field names shared with the chunk repository.
const (
	FieldText       = "text"
	FieldSourceURL  = "source_url"
	FieldChunkIndex = "chunk_index"
	FieldInsertedAt = "inserted_at"
	FieldVector     = "__vector"
	VectorAlias     = "vector"
)

// Algorithm selects the vector index algorithm.
type Algorithm string

// Supported vector index algorithms.
const (
	AlgorithmHNSW Algorithm = "hnsw"
	AlgorithmFlat Algorithm = "flat"
)

// IndexConfig holds vector index parameters.
type IndexConfig struct {
	Algorithm   Algorithm
	M           int
	EFConstruct int
}

func distanceFor(m domcol.Metric) db.DistanceMetric {
	switch m {
	case domcol.MetricDotProduct:
		return db.DistanceIP
	case domcol.MetricEuclidean:
		return db.DistanceL2
	default:
		return db.DistanceCosine
	}
}

// buildIndex creates the FT definition for a collection's chunk hashes.
// source_url and inserted_at are indexed for filtering; text is stored but not indexed.
func (r *Repo) buildIndex(col domcol.Collection) (*db.IndexDefinition, error) {
	b := db.NewIndex(r.ns.IndexName(col.Name())).
		Prefix(r.ns.ChunkPrefix(col.Name())).
		Tag(FieldSourceURL).
		Numeric(FieldInsertedAt).
		Numeric(FieldChunkIndex)

	distance := distanceFor(col.Metric())
	if r.index.Algorithm == AlgorithmFlat {
		b = b.VectorFlat(FieldVector, VectorAlias, col.Dimension(), distance)
	} else {
		b = b.VectorHNSW(FieldVector, VectorAlias, col.Dimension(), distance, r.index.M, r.index.EFConstruct)
	}

	return b.Build()
}

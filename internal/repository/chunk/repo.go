package chunk

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/kailas-cloud/webrag/internal/db"
	"github.com/kailas-cloud/webrag/internal/domain"
	domchunk "github.com/kailas-cloud/webrag/internal/domain/chunk"
	domcol "github.com/kailas-cloud/webrag/internal/domain/collection"
	colrepo "github.com/kailas-cloud/webrag/internal/repository/collection"
)

// store is the consumer interface for chunks (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo stores chunks as hashes under the collection prefix and searches them by vector.
// Insert-only: chunks are never updated or deduplicated.
type Repo struct {
	store store
	ns    domain.Namespace
	newID func() string
}

// New creates a chunk repository.
func New(s store, ns domain.Namespace) *Repo {
	return &Repo{store: s, ns: ns, newID: uuid.NewString}
}

// Insert stores one chunk and returns its generated ID.
// A vector whose length differs from the collection dimension is rejected before any write.
func (r *Repo) Insert(ctx context.Context, col domcol.Collection, c domchunk.Chunk) (string, error) {
	if err := domain.CheckDimension(c.Vector(), col.Dimension()); err != nil {
		return "", fmt.Errorf("insert chunk: %w: %w", domain.ErrStoreWrite, err)
	}

	id := r.newID()
	key := r.ns.ChunkKey(col.Name(), id)

	if err := r.store.HSet(ctx, key, chunkToHash(c)); err != nil {
		return "", fmt.Errorf("hset chunk %s: %w: %w", key, domain.ErrStoreWrite, err)
	}
	return id, nil
}

// Search returns at most limit chunks ordered most similar first.
// An empty collection yields an empty slice and no error.
func (r *Repo) Search(
	ctx context.Context, col domcol.Collection, vector []float32, limit int,
) ([]domchunk.Chunk, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("search limit must be positive, got %d: %w", limit, domain.ErrInvalidInput)
	}
	if err := domain.CheckDimension(vector, col.Dimension()); err != nil {
		return nil, fmt.Errorf("search %s: %w", col.Name(), err)
	}

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.ns.IndexName(col.Name()),
		VectorField:  colrepo.VectorAlias,
		Vector:       vector,
		K:            limit,
		ReturnFields: returnFields,
	})
	if err != nil {
		if errors.Is(err, db.ErrIndexNotFound) {
			return nil, fmt.Errorf("search %s: %w: %w", col.Name(), domain.ErrStoreRead, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("search %s: %w: %w", col.Name(), domain.ErrStoreRead, err)
	}
	if sr == nil || sr.Total == 0 || len(sr.Entries) == 0 {
		return []domchunk.Chunk{}, nil
	}

	// Engines already sort KNN hits, but ties and RESP quirks are not guaranteed; sort by distance, then key.
	entries := sr.Entries
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Distance != entries[j].Distance {
			return entries[i].Distance < entries[j].Distance
		}
		return entries[i].Key < entries[j].Key
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}

	prefix := r.ns.ChunkPrefix(col.Name())
	out := make([]domchunk.Chunk, 0, len(entries))
	for _, e := range entries {
		out = append(out, chunkFromEntry(e, prefix, col.Metric()))
	}
	return out, nil
}

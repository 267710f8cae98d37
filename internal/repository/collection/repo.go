package collection

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/webrag/internal/db"
	"github.com/kailas-cloud/webrag/internal/domain"
	domcol "github.com/kailas-cloud/webrag/internal/domain/collection"
)

// store is the consumer interface for collections (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	VectorIndexInfo(ctx context.Context, name string) (db.VectorIndexInfo, error)
}

// Repo owns the collection lifecycle: metadata hash plus FT index.
type Repo struct {
	store  store
	ns     domain.Namespace
	index  IndexConfig
	logger *zap.Logger
}

// New creates a collection repository.
func New(s store, ns domain.Namespace, logger *zap.Logger) *Repo {
	return &Repo{
		store:  s,
		ns:     ns,
		index:  IndexConfig{Algorithm: AlgorithmHNSW, M: 16, EFConstruct: 200},
		logger: logger,
	}
}

// WithIndex configures vector index parameters.
func (r *Repo) WithIndex(cfg IndexConfig) *Repo {
	if cfg.Algorithm != "" {
		r.index.Algorithm = cfg.Algorithm
	}
	if cfg.M > 0 {
		r.index.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		r.index.EFConstruct = cfg.EFConstruct
	}
	return r
}

// Ensure makes sure the collection exists with the requested dimension and metric and returns the stored one.
// Existing metadata with another dimension or metric yields ErrCollectionMismatch.
// Safe to call repeatedly and concurrently: a lost FT.CREATE race counts as success.
func (r *Repo) Ensure(ctx context.Context, want domcol.Collection) (domcol.Collection, error) {
	name := want.Name()

	stored, found, err := r.get(ctx, name)
	if err != nil {
		return domcol.Collection{}, err
	}
	if found {
		if err := stored.Compatible(want); err != nil {
			return domcol.Collection{}, fmt.Errorf("%w: %w", domain.ErrCollectionMismatch, err)
		}
	}

	// Probe: metadata without an index (e.g. index dropped by hand) is repaired below.
	exists, err := r.store.IndexExists(ctx, r.ns.IndexName(name))
	if err != nil {
		return domcol.Collection{}, fmt.Errorf("probe collection %s: %w: %w", name, domain.ErrStoreRead, err)
	}
	if found && exists {
		return stored, nil
	}

	col := want
	if found {
		col = stored
	}
	if err := r.create(ctx, col, !found); err != nil {
		return domcol.Collection{}, err
	}

	r.logger.Info("Collection created",
		zap.String("collection", name),
		zap.Int("dimension", col.Dimension()),
		zap.String("metric", string(col.Metric())),
	)
	return col, nil
}

// Get retrieves a collection by name.
func (r *Repo) Get(ctx context.Context, name string) (domcol.Collection, error) {
	col, found, err := r.get(ctx, name)
	if err != nil {
		return domcol.Collection{}, err
	}
	if !found {
		return domcol.Collection{}, domain.ErrNotFound
	}
	return col, nil
}

func (r *Repo) get(ctx context.Context, name string) (domcol.Collection, bool, error) {
	m, err := r.store.HGetAll(ctx, r.ns.MetaKey(name))
	if err != nil {
		return domcol.Collection{}, false, fmt.Errorf("hgetall collection %s: %w: %w", name, domain.ErrStoreRead, err)
	}
	if len(m) == 0 {
		return domcol.Collection{}, false, nil
	}
	col, err := collectionFromHash(m)
	if err != nil {
		return domcol.Collection{}, false, fmt.Errorf("parse collection %s: %w: %w", name, domain.ErrStoreRead, err)
	}
	return col, true, nil
}

// create runs FT.CREATE and, when writeMeta is set, stores metadata.
// Metadata is rolled back if the index cannot be created.
func (r *Repo) create(ctx context.Context, col domcol.Collection, writeMeta bool) error {
	name := col.Name()
	metaKey := r.ns.MetaKey(name)

	def, err := r.buildIndex(col)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	if writeMeta {
		if err := r.store.HSet(ctx, metaKey, collectionToHash(col)); err != nil {
			return fmt.Errorf("hset collection %s: %w: %w", name, domain.ErrStoreWrite, err)
		}
	}

	err = r.store.CreateIndex(ctx, def)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, db.ErrIndexExists):
		// lost a creation race, or an index outlived its metadata
		if err = r.verifyIndex(ctx, col); err == nil {
			return nil
		}
	default:
		err = fmt.Errorf("create index %s: %w: %w", name, domain.ErrStoreWrite, err)
	}

	if writeMeta {
		if cleanupErr := r.store.Del(ctx, metaKey); cleanupErr != nil {
			err = errors.Join(err, cleanupErr)
		}
	}
	return err
}

// verifyIndex checks an index someone else created against col.
func (r *Repo) verifyIndex(ctx context.Context, col domcol.Collection) error {
	name := col.Name()
	info, err := r.store.VectorIndexInfo(ctx, r.ns.IndexName(name))
	if err != nil {
		return fmt.Errorf("inspect index %s: %w: %w", name, domain.ErrStoreRead, err)
	}

	if info.Dimension == 0 {
		r.logger.Warn("Existing index does not report its vector dimension, adopting it unchecked",
			zap.String("collection", name),
		)
		return nil
	}
	wantDistance := distanceFor(col.Metric())
	if info.Dimension != col.Dimension() || (info.Distance != "" && info.Distance != wantDistance) {
		return fmt.Errorf("%w: index %s has dim=%d metric=%s, want dim=%d metric=%s",
			domain.ErrCollectionMismatch, r.ns.IndexName(name),
			info.Dimension, info.Distance, col.Dimension(), wantDistance)
	}
	return nil
}

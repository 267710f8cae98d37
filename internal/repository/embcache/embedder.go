package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/webrag/internal/db"
	"github.com/kailas-cloud/webrag/internal/domain"
)

// store is the consumer interface for the embedding cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Scope identifies the vector space a cached embedding belongs to.
// Every field is part of the cache key.
type Scope struct {
	Provider   string
	BaseURL    string
	Model      string
	Dimensions int
}

// CachedEmbedder caches embeddings in a key-value store.
// Cache failures never fail the call: the inner embedder is the source of truth.
type CachedEmbedder struct {
	inner      domain.Embedder
	store      store
	ns         domain.Namespace
	scope      Scope
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// scope partitions keys so a new provider, endpoint, model or dimension never serves stale vectors.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"/"stale"), passed explicitly.
func New(
	inner domain.Embedder,
	s store,
	ns domain.Namespace,
	scope Scope,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedEmbedder {
	return &CachedEmbedder{
		inner:      inner,
		store:      s,
		ns:         ns,
		scope:      scope,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// WithTTL expires cached vectors after ttl. Zero keeps them forever.
func (c *CachedEmbedder) WithTTL(ttl time.Duration) *CachedEmbedder {
	c.ttl = ttl
	return c
}

// Embed returns a cached embedding or calls the inner embedder.
// Cache hit: TotalTokens = 0 (no real tokens consumed).
func (c *CachedEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := c.cacheKey(text)

	if vec, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return domain.EmbeddingResult{Embedding: vec}, nil
	}

	c.incCache("miss")

	result, err := c.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed text: %w", err)
	}
	if len(result.Embedding) > 0 && c.fits(result.Embedding) {
		c.putToCache(ctx, key, result.Embedding)
	}
	return result, nil
}

// HealthCheck forwards to the inner embedder when it supports one.
func (c *CachedEmbedder) HealthCheck(ctx context.Context) error {
	if hc, ok := c.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx) //nolint:wrapcheck // pass-through
	}
	return nil
}

func (c *CachedEmbedder) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// fits reports whether vec has the scope's dimension. Zero Dimensions accepts any length.
func (c *CachedEmbedder) fits(vec []float32) bool {
	return c.scope.Dimensions <= 0 || len(vec) == c.scope.Dimensions
}

func (c *CachedEmbedder) cacheKey(text string) string {
	h := sha256.New()
	for _, part := range []string{
		c.scope.Provider,
		c.scope.BaseURL,
		c.scope.Model,
		strconv.Itoa(c.scope.Dimensions),
		text,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return c.ns.CacheKey(hex.EncodeToString(h.Sum(nil)))
}

func (c *CachedEmbedder) getFromCache(ctx context.Context, key string) ([]float32, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached embedding", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	vec, err := db.DecodeVector(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached embedding", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !c.fits(vec) {
		c.incCache("stale")
		c.logger.Warn("Ignoring cached embedding of wrong dimension",
			zap.String("key", key),
			zap.Int("cached", len(vec)),
			zap.Int("want", c.scope.Dimensions),
		)
		return nil, false
	}

	return vec, true
}

func (c *CachedEmbedder) putToCache(ctx context.Context, key string, vec []float32) {
	data := []byte(db.EncodeVector(vec))

	var err error
	if c.ttl > 0 {
		err = c.store.SetWithTTL(ctx, key, data, c.ttl)
	} else {
		err = c.store.Set(ctx, key, data)
	}
	if err != nil {
		c.logger.Warn("Failed to cache embedding", zap.String("key", key), zap.Error(err))
	}
}

package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/webrag/internal/domain"
	domchunk "github.com/kailas-cloud/webrag/internal/domain/chunk"
	domcol "github.com/kailas-cloud/webrag/internal/domain/collection"
	dom "github.com/kailas-cloud/webrag/internal/domain/ingest"
	"github.com/kailas-cloud/webrag/internal/metrics"
)

// Default per-call timeouts, derived from the run context.
const (
	DefaultEmbedTimeout = 30 * time.Second
	DefaultStoreTimeout = 10 * time.Second
)

// Service runs URLs through extract, split, embed and insert, sequentially.
type Service struct {
	extractor    Extractor
	segmenter    Segmenter
	embedder     Embedder
	chunks       ChunkWriter
	collections  CollectionEnsurer
	collection   domcol.Collection
	mode         dom.Mode
	embedTimeout time.Duration
	storeTimeout time.Duration
	logger       *zap.Logger
}

// New creates an ingestion service writing into col. Mode defaults to fail-fast.
func New(
	ext Extractor, seg Segmenter, emb Embedder,
	chunks ChunkWriter, colls CollectionEnsurer, col domcol.Collection,
	logger *zap.Logger,
) *Service {
	return &Service{
		extractor:    ext,
		segmenter:    seg,
		embedder:     emb,
		chunks:       chunks,
		collections:  colls,
		collection:   col,
		mode:         dom.ModeFailFast,
		embedTimeout: DefaultEmbedTimeout,
		storeTimeout: DefaultStoreTimeout,
		logger:       logger,
	}
}

// WithMode sets the default failure mode.
func (s *Service) WithMode(m dom.Mode) *Service {
	s.mode = m
	return s
}

// WithTimeouts overrides per-call timeouts. Non-positive values keep the current ones.
func (s *Service) WithTimeouts(embed, store time.Duration) *Service {
	if embed > 0 {
		s.embedTimeout = embed
	}
	if store > 0 {
		s.storeTimeout = store
	}
	return s
}

// Mode returns the default failure mode.
func (s *Service) Mode() dom.Mode { return s.mode }

// Ingest processes urls with the service's default mode.
func (s *Service) Ingest(ctx context.Context, urls []string) (dom.Report, error) {
	return s.IngestWithMode(ctx, urls, s.mode, nil)
}

// IngestWithMode processes urls in order. The collection is ensured once before the first URL.
//
// In fail-fast mode the first failure stops the run and is returned; the report holds
// the URLs completed so far plus the failed one. In isolated mode a failing URL is
// recorded and the run continues; only collection and context errors are returned.
func (s *Service) IngestWithMode(
	ctx context.Context, urls []string, mode dom.Mode, obs Observer,
) (dom.Report, error) {
	var report dom.Report

	if err := validateURLs(urls); err != nil {
		return report, err
	}

	col, err := s.ensureCollection(ctx)
	if err != nil {
		return report, err
	}

	for _, u := range urls {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("ingest interrupted before %s: %w", u, err)
		}

		start := time.Now()
		n, err := s.ingestURL(ctx, col, u, obs)
		metrics.IngestURLDuration.Observe(time.Since(start).Seconds())

		if err != nil {
			res := dom.NewFailed(u, n, err)
			report.Add(res)
			metrics.IngestURLsTotal.WithLabelValues(string(dom.StatusFailed)).Inc()
			notifyDone(obs, res)

			if mode != dom.ModeIsolated {
				return report, err
			}
			continue
		}

		res := dom.NewOK(u, n)
		report.Add(res)
		metrics.IngestURLsTotal.WithLabelValues(string(dom.StatusOK)).Inc()
		notifyDone(obs, res)

		s.logger.Info("Ingested page",
			zap.String("url", u),
			zap.Int("chunks", n),
			zap.Duration("duration", time.Since(start)),
		)
	}

	return report, nil
}

func (s *Service) ensureCollection(ctx context.Context) (domcol.Collection, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	col, err := s.collections.Ensure(ctx, s.collection)
	if err != nil {
		s.logger.Error("Failed to ensure collection",
			zap.String("collection", s.collection.Name()),
			zap.Error(err),
		)
		return domcol.Collection{}, fmt.Errorf("ensure collection %s: %w", s.collection.Name(), err)
	}
	return col, nil
}

// ingestURL returns the number of chunks stored, which is non-zero on failure
// when the page was partially ingested.
func (s *Service) ingestURL(ctx context.Context, col domcol.Collection, u string, obs Observer) (int, error) {
	text, err := s.extractor.Extract(ctx, u)
	if err != nil {
		s.logger.Error("Failed to extract page", zap.String("url", u), zap.Error(err))
		return 0, fmt.Errorf("ingest %s: %w", u, err)
	}

	pieces := s.segmenter.Split(text)
	if obs != nil {
		obs.URLStarted(u, len(pieces))
	}
	if len(pieces) == 0 {
		s.logger.Warn("Page has no text", zap.String("url", u))
		return 0, nil
	}

	for i, piece := range pieces {
		if err := s.ingestChunk(ctx, col, u, i, piece); err != nil {
			s.logger.Error("Failed to ingest chunk",
				zap.String("url", u),
				zap.Int("chunk_index", i),
				zap.Error(err),
			)
			return i, fmt.Errorf("ingest %s chunk %d: %w", u, i, err)
		}
		metrics.IngestChunksTotal.Inc()
		if obs != nil {
			obs.ChunkStored(u, i)
		}
	}
	return len(pieces), nil
}

func (s *Service) ingestChunk(ctx context.Context, col domcol.Collection, u string, i int, piece string) error {
	embedCtx, cancel := context.WithTimeout(ctx, s.embedTimeout)
	res, err := s.embedder.Embed(embedCtx, piece)
	cancel()
	if err != nil {
		if !errors.Is(err, domain.ErrEmbedding) {
			err = fmt.Errorf("%w: %w", domain.ErrEmbedding, err)
		}
		return fmt.Errorf("embed: %w", err)
	}

	c, err := domchunk.New(piece, u, i, res.Embedding)
	if err != nil {
		return fmt.Errorf("build chunk: %w: %w", domain.ErrEmbedding, err)
	}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	if _, err := s.chunks.Insert(storeCtx, col, c); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

func notifyDone(obs Observer, res dom.Result) {
	if obs != nil {
		obs.URLDone(res)
	}
}

func validateURLs(urls []string) error {
	if len(urls) == 0 {
		return fmt.Errorf("no urls to ingest: %w", domain.ErrInvalidInput)
	}
	for i, u := range urls {
		if strings.TrimSpace(u) == "" {
			return fmt.Errorf("url #%d is blank: %w", i, domain.ErrInvalidInput)
		}
	}
	return nil
}

package webrag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/webrag/internal/db"
	dbValkey "github.com/kailas-cloud/webrag/internal/db/valkey"
	"github.com/kailas-cloud/webrag/internal/domain"
	domcol "github.com/kailas-cloud/webrag/internal/domain/collection"
	dom "github.com/kailas-cloud/webrag/internal/domain/ingest"
	"github.com/kailas-cloud/webrag/internal/domain/segment"
	"github.com/kailas-cloud/webrag/internal/metrics"
	chunkrepo "github.com/kailas-cloud/webrag/internal/repository/chunk"
	collectionrepo "github.com/kailas-cloud/webrag/internal/repository/collection"
	"github.com/kailas-cloud/webrag/internal/repository/embcache"
	"github.com/kailas-cloud/webrag/internal/transport/browser"
	openaiEmb "github.com/kailas-cloud/webrag/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/webrag/internal/usecase/embedding"
	extractuc "github.com/kailas-cloud/webrag/internal/usecase/extract"
	healthuc "github.com/kailas-cloud/webrag/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/webrag/internal/usecase/ingest"
	"github.com/kailas-cloud/webrag/internal/usecase/retrieval"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped for mocks in tests.
type ingestUseCase interface {
	IngestWithMode(ctx context.Context, urls []string, mode dom.Mode, obs ingestuc.Observer) (dom.Report, error)
	Mode() dom.Mode
}

type retrievalUseCase interface {
	BuildContext(ctx context.Context, question string, limit int) (retrieval.Result, error)
}

// Client is the webrag entry point.
type Client struct {
	store     db.Store
	ingestSvc ingestUseCase
	retrieval retrievalUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the database.
// The provided context is used for the initial readiness check.
// The collection itself is created on the first Ingest.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("webrag: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}

	c, err := wireClient(store, cfg, obs)
	if err != nil {
		store.Close()
		return nil, err
	}
	return c, nil
}

func validateConfig(cfg *clientConfig) error {
	var errs []error
	if len(cfg.addrs) == 0 {
		errs = append(errs, errors.New("database address required (use WithValkey or WithRedis)"))
	}
	if cfg.openai == nil && cfg.embedder == nil {
		errs = append(errs, errors.New("embedder required (use WithOpenAIEmbeddings or WithEmbedder)"))
	}
	if cfg.openai != nil {
		if cfg.openai.APIKey == "" {
			errs = append(errs, errors.New("openai api key required"))
		}
		if cfg.openai.Model == "" {
			errs = append(errs, errors.New("openai model required"))
		}
	}
	if cfg.dimensions <= 0 {
		errs = append(errs, errors.New("embedding dimensions must be positive"))
	}
	if _, err := dom.ParseMode(string(cfg.ingestMode)); err != nil {
		errs = append(errs, err)
	}
	switch cfg.indexAlgorithm {
	case "", IndexHNSW, IndexFlat:
	default:
		errs = append(errs, fmt.Errorf("unknown index algorithm %q", cfg.indexAlgorithm))
	}
	if len(errs) > 0 {
		return fmt.Errorf("webrag: %w", errors.Join(errs...))
	}
	return nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
		s, err := dbValkey.NewStore(dbValkey.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("webrag: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("webrag: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, cfg *clientConfig, obs *observer) (*Client, error) {
	ns := domain.Namespace(cfg.namespace)

	col, err := domcol.New(cfg.collection, cfg.dimensions, domcol.Metric(cfg.metric))
	if err != nil {
		return nil, fmt.Errorf("webrag: %w", err)
	}
	seg, err := segment.New(cfg.chunkSize, cfg.chunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("webrag: %w", err)
	}
	mode, _ := dom.ParseMode(string(cfg.ingestMode))

	docEmb := buildEmbedder(store, ns, cfg, cfg.documentInstruction)
	queryEmb := buildEmbedder(store, ns, cfg, cfg.queryInstruction)

	ext := cfg.extractor
	if ext == nil {
		launcher := browser.NewLauncher(browser.Config{
			Bin:       cfg.browserBin,
			Headless:  true,
			NoSandbox: cfg.noSandbox,
		})
		ext = extractuc.New(launcher, cfg.logger).WithTimeout(cfg.pageTimeout)
	}

	chunks := chunkrepo.New(store, ns)
	colls := collectionrepo.New(store, ns, cfg.logger).WithIndex(collectionrepo.IndexConfig{
		Algorithm:   collectionrepo.Algorithm(cfg.indexAlgorithm),
		M:           cfg.hnswM,
		EFConstruct: cfg.hnswEF,
	})

	return &Client{
		store: store,
		ingestSvc: ingestuc.New(ext, seg, docEmb, chunks, colls, col, cfg.logger).
			WithMode(mode).
			WithTimeouts(cfg.embedTimeout, cfg.storeTimeout),
		retrieval: retrieval.New(queryEmb, chunks, col, cfg.logger).
			WithLimits(cfg.defaultLimit, cfg.maxLimit).
			WithSearchTimeout(cfg.searchTimeout),
		healthSvc: healthuc.New(store, docEmb).WithCollection(colls, col.Name()),
		obs:       obs,
	}, nil
}

// buildEmbedder assembles the decorator chain: provider -> cache -> instrumented -> instruction -> dimension guard.
func buildEmbedder(store db.Store, ns domain.Namespace, cfg *clientConfig, instruction string) *embeddinguc.Guard {
	var (
		base     domain.Embedder
		provider = "custom"
		model    = "custom"
	)
	if cfg.openai != nil {
		provider = cfg.openai.Provider
		if provider == "" {
			provider = "openai"
		}
		model = cfg.openai.Model
		base = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:            cfg.openai.APIKey,
			BaseURL:           cfg.openai.BaseURL,
			Model:             cfg.openai.Model,
			Dimensions:        cfg.openai.Dimensions,
			RequestDimensions: cfg.openai.RequestDimensions,
			Provider:          provider,
			Logger:            cfg.logger,
		})
	} else {
		base = &embedderAdapter{inner: cfg.embedder}
	}

	if cfg.cache {
		scope := embcache.Scope{Provider: provider, Model: model, Dimensions: cfg.dimensions}
		if cfg.openai != nil {
			scope.BaseURL = cfg.openai.BaseURL
		}
		base = embcache.New(base, store, ns, scope, metrics.EmbeddingCacheTotal, cfg.logger).
			WithTTL(cfg.cacheTTL)
	}

	var emb domain.Embedder = embeddinguc.NewInstrumentedEmbedder(base, provider, model, cfg.logger)
	if instruction != "" {
		emb = domain.NewInstructionEmbedder(emb, instruction)
	}
	return embeddinguc.NewGuard(emb, cfg.dimensions)
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Ingest extracts, splits, embeds and stores every URL in order.
// In FailFast mode the first failure stops the run; the returned report still
// lists what completed plus the failed URL. In Isolated mode failures are
// recorded per URL and the error is nil unless the run could not start.
func (c *Client) Ingest(ctx context.Context, urls []string, opts ...IngestOption) (rep IngestReport, err error) {
	start := time.Now()
	defer func() { c.obs.observe("ingest", start, err) }()

	o := ingestOptions{mode: IngestMode(c.ingestSvc.Mode())}
	for _, fn := range opts {
		fn(&o)
	}
	mode, err := dom.ParseMode(string(o.mode))
	if err != nil {
		return IngestReport{}, fmt.Errorf("ingest: %w: %w", ErrInvalidInput, err)
	}

	var obs ingestuc.Observer
	if o.progress != nil {
		obs = progressObserver{fn: o.progress}
	}

	report, err := c.ingestSvc.IngestWithMode(ctx, urls, mode, obs)
	if err != nil {
		return reportFromDomain(report), fmt.Errorf("ingest: %w", err)
	}
	return reportFromDomain(report), nil
}

// BuildContext embeds question, retrieves up to limit chunks (0 = default) and
// returns the grounded prompt. A failed search yields a prompt without context
// and Degraded set, never an error.
func (c *Client) BuildContext(ctx context.Context, question string, limit int) (pc PromptContext, err error) {
	start := time.Now()
	defer func() { c.obs.observe("build_context", start, err) }()

	res, err := c.retrieval.BuildContext(ctx, question, limit)
	if err != nil {
		return PromptContext{}, fmt.Errorf("build context: %w", err)
	}
	return PromptContext{
		Prompt:   res.Prompt,
		Chunks:   chunksFromDomain(res.Context.Chunks),
		Degraded: res.Degraded,
	}, nil
}

// embedderAdapter wraps public Embedder to satisfy internal domain.Embedder.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	r, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w: %w", domain.ErrEmbedding, err)
	}
	return domain.EmbeddingResult{
		Embedding:    r.Embedding,
		PromptTokens: r.PromptTokens,
		TotalTokens:  r.TotalTokens,
	}, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/webrag/internal/config"
	"github.com/kailas-cloud/webrag/internal/db"
	dbValkey "github.com/kailas-cloud/webrag/internal/db/valkey"
	"github.com/kailas-cloud/webrag/internal/domain"
	domcol "github.com/kailas-cloud/webrag/internal/domain/collection"
	dom "github.com/kailas-cloud/webrag/internal/domain/ingest"
	"github.com/kailas-cloud/webrag/internal/domain/segment"
	logpkg "github.com/kailas-cloud/webrag/internal/logger"
	"github.com/kailas-cloud/webrag/internal/metrics"
	chunkrepo "github.com/kailas-cloud/webrag/internal/repository/chunk"
	collectionrepo "github.com/kailas-cloud/webrag/internal/repository/collection"
	"github.com/kailas-cloud/webrag/internal/repository/embcache"
	"github.com/kailas-cloud/webrag/internal/transport/browser"
	chiTransport "github.com/kailas-cloud/webrag/internal/transport/chi"
	openaiTransport "github.com/kailas-cloud/webrag/internal/transport/openai"
	chatuc "github.com/kailas-cloud/webrag/internal/usecase/chat"
	embeddinguc "github.com/kailas-cloud/webrag/internal/usecase/embedding"
	extractuc "github.com/kailas-cloud/webrag/internal/usecase/extract"
	healthuc "github.com/kailas-cloud/webrag/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/webrag/internal/usecase/ingest"
	"github.com/kailas-cloud/webrag/internal/usecase/retrieval"
	"github.com/kailas-cloud/webrag/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting webrag API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("collection", cfg.Storage.Collection),
	)

	// Valkey and Redis share one driver
	store, err := dbValkey.NewStore(dbValkey.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterPipelineMetrics()

	ns := domain.Namespace(cfg.Storage.Namespace)

	docEmbedder := buildEmbedder(cfg.Embedding, cfg.Embedding.DocumentInstruction, store, ns, logger)
	queryEmbedder := buildEmbedder(cfg.Embedding, cfg.Embedding.QueryInstruction, store, ns, logger)
	logger.Info("Embedders created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
		zap.Bool("cache", cfg.Embedding.Cache),
	)

	want, err := domcol.New(cfg.Storage.Collection, cfg.Embedding.Dimensions, domcol.Metric(cfg.Storage.Metric))
	if err != nil {
		logger.Fatal("Invalid collection settings", zap.Error(err))
	}

	collRepo := collectionrepo.New(store, ns, logger).WithIndex(collectionrepo.IndexConfig{
		Algorithm:   collectionrepo.Algorithm(cfg.Index.Algorithm),
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	})

	// A collection created with another model is unusable; refuse to start.
	ensureCtx, cancelEnsure := context.WithTimeout(ctx, time.Duration(cfg.Ingest.StoreTimeoutSec)*time.Second)
	col, err := collRepo.Ensure(ensureCtx, want)
	cancelEnsure()
	if err != nil {
		if errors.Is(err, domain.ErrCollectionMismatch) {
			logger.Fatal("Stored collection does not match the embedding settings",
				zap.String("collection", want.Name()),
				zap.Int("dimensions", want.Dimension()),
				zap.String("metric", string(want.Metric())),
				zap.Error(err),
			)
		}
		logger.Fatal("Failed to ensure collection", zap.Error(err))
	}

	seg, err := segment.New(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		logger.Fatal("Invalid chunking settings", zap.Error(err))
	}
	mode, err := dom.ParseMode(cfg.Ingest.Mode)
	if err != nil {
		logger.Fatal("Invalid ingest mode", zap.Error(err))
	}

	launcher := browser.NewLauncher(browser.Config{
		Bin:       cfg.Browser.Bin,
		Headless:  !cfg.Browser.Headful,
		NoSandbox: cfg.Browser.NoSandbox,
	})
	extractor := extractuc.New(launcher, logger).
		WithTimeout(time.Duration(cfg.Browser.TimeoutSec) * time.Second)

	chunkRepo := chunkrepo.New(store, ns)

	ingestSvc := ingestuc.New(extractor, seg, docEmbedder, chunkRepo, collRepo, col, logger).
		WithMode(mode).
		WithTimeouts(
			time.Duration(cfg.Ingest.EmbedTimeoutSec)*time.Second,
			time.Duration(cfg.Ingest.StoreTimeoutSec)*time.Second,
		)
	retrievalSvc := retrieval.New(queryEmbedder, chunkRepo, col, logger).
		WithLimits(cfg.Retrieval.DefaultLimit, cfg.Retrieval.MaxLimit).
		WithSearchTimeout(time.Duration(cfg.Retrieval.SearchTimeoutSec) * time.Second)

	// nil interface, not a typed nil pointer, when chat is off
	var replier chiTransport.Replier
	if cfg.ChatEnabled() {
		gen := openaiTransport.NewGenerator(&openaiTransport.ChatConfig{
			APIKey:      cfg.Chat.APIKey,
			BaseURL:     cfg.Chat.BaseURL,
			Model:       cfg.Chat.Model,
			Temperature: cfg.Chat.Temperature,
			MaxTokens:   cfg.Chat.MaxTokens,
			Logger:      logger,
		})
		replier = chatuc.New(retrievalSvc, gen, logger)
		logger.Info("Chat enabled", zap.String("model", cfg.Chat.Model))
	}

	healthSvc := healthuc.New(store, docEmbedder).WithCollection(collRepo, col.Name())

	server := chiTransport.NewServer(ingestSvc, retrievalSvc, replier, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Instruction -> Guard
func buildEmbedder(
	embCfg config.EmbeddingConfig,
	instruction string,
	store db.Store,
	ns domain.Namespace,
	logger *zap.Logger,
) *embeddinguc.Guard {
	// Base provider (with transport metrics built-in)
	var embedder domain.Embedder = openaiTransport.NewEmbedder(&openaiTransport.Config{
		APIKey:            embCfg.APIKey,
		BaseURL:           embCfg.BaseURL,
		Model:             embCfg.Model,
		Dimensions:        embCfg.Dimensions,
		RequestDimensions: embCfg.RequestDimensions,
		Provider:          embCfg.Provider,
		Logger:            logger,
	})

	if embCfg.Cache {
		scope := embcache.Scope{
			Provider:   embCfg.Provider,
			BaseURL:    embCfg.BaseURL,
			Model:      embCfg.Model,
			Dimensions: embCfg.Dimensions,
		}
		embedder = embcache.New(embedder, store, ns, scope, metrics.EmbeddingCacheTotal, logger).
			WithTTL(time.Duration(embCfg.CacheTTLSec) * time.Second)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, embCfg.Provider, embCfg.Model, logger)

	// Instruction prefix outside the cache: the cache key includes the instruction
	if instruction != "" {
		embedder = domain.NewInstructionEmbedder(embedder, instruction)
	}

	return embeddinguc.NewGuard(embedder, embCfg.Dimensions)
}

package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/webrag"
	"github.com/kailas-cloud/webrag/internal/config"
	logpkg "github.com/kailas-cloud/webrag/internal/logger"
)

// newLocalClient builds an in-process client from config/<env>.yaml.
func newLocalClient(ctx context.Context) (*webrag.Client, error) {
	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	level := "warn"
	if verbose {
		level = "info"
	}
	logger, err := logpkg.NewLogger("local", level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	c, err := webrag.New(ctx, clientOptions(cfg, logger)...)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func clientOptions(cfg config.Config, logger *zap.Logger) []webrag.Option {
	opts := make([]webrag.Option, 0, 13)

	addr := cfg.Database.Addrs[0]
	if cfg.Database.Driver == "redis" {
		opts = append(opts, webrag.WithRedis(addr, cfg.Database.Password))
	} else {
		opts = append(opts, webrag.WithValkey(addr, cfg.Database.Password))
	}

	opts = append(opts,
		webrag.WithNamespace(cfg.Storage.Namespace),
		webrag.WithCollection(cfg.Storage.Collection, webrag.Metric(cfg.Storage.Metric)),
		webrag.WithOpenAIEmbeddings(webrag.OpenAIConfig{
			APIKey:            cfg.Embedding.APIKey,
			BaseURL:           cfg.Embedding.BaseURL,
			Model:             cfg.Embedding.Model,
			Dimensions:        cfg.Embedding.Dimensions,
			RequestDimensions: cfg.Embedding.RequestDimensions,
			Provider:          cfg.Embedding.Provider,
		}),
		webrag.WithInstructions(cfg.Embedding.DocumentInstruction, cfg.Embedding.QueryInstruction),
		webrag.WithBrowser(cfg.Browser.Bin, cfg.Browser.NoSandbox, time.Duration(cfg.Browser.TimeoutSec)*time.Second),
		webrag.WithChunking(cfg.Chunking.Size, cfg.Chunking.Overlap),
		webrag.WithIngestMode(webrag.IngestMode(cfg.Ingest.Mode)),
		webrag.WithIngestTimeouts(
			time.Duration(cfg.Ingest.EmbedTimeoutSec)*time.Second,
			time.Duration(cfg.Ingest.StoreTimeoutSec)*time.Second,
		),
		webrag.WithIndex(webrag.IndexAlgorithm(cfg.Index.Algorithm), cfg.Index.HNSWM, cfg.Index.HNSWEFConstruct),
		webrag.WithRetrieval(
			cfg.Retrieval.DefaultLimit,
			cfg.Retrieval.MaxLimit,
			time.Duration(cfg.Retrieval.SearchTimeoutSec)*time.Second,
		),
		webrag.WithLogger(logger),
	)
	if cfg.Embedding.Cache {
		opts = append(opts, webrag.WithEmbeddingCache(time.Duration(cfg.Embedding.CacheTTLSec)*time.Second))
	}
	return opts
}

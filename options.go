package webrag

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/webrag/internal/domain/segment"
)

// Metric is the similarity function a collection is indexed with.
type Metric string

// Supported metrics.
const (
	MetricCosine     Metric = "cosine"
	MetricDotProduct Metric = "dot_product"
	MetricEuclidean  Metric = "euclidean"
)

// IngestMode selects how an ingestion run reacts to a failing URL.
type IngestMode string

// Ingest modes.
const (
	// FailFast aborts the run on the first failing URL or chunk.
	FailFast IngestMode = "fail_fast"
	// Isolated records the failure and continues with the next URL.
	Isolated IngestMode = "isolated"
)

// IndexAlgorithm selects the vector index built for a new collection.
type IndexAlgorithm string

// Index algorithms.
const (
	IndexHNSW IndexAlgorithm = "hnsw"
	IndexFlat IndexAlgorithm = "flat"
)

// OpenAIConfig configures the built-in OpenAI-compatible embedder.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string // empty = api.openai.com
	Model   string
	// Dimensions is the vector length the model returns. It fixes the collection dimension.
	Dimensions int
	// RequestDimensions sends Dimensions to the API for models that support shortening.
	RequestDimensions bool
	// Provider labels logs and metrics. Defaults to "openai".
	Provider string
}

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "valkey" or "redis"
	addrs    []string
	password string

	namespace  string
	collection string
	metric     Metric

	openai     *OpenAIConfig
	embedder   Embedder
	dimensions int
	cache      bool
	cacheTTL   time.Duration

	documentInstruction string
	queryInstruction    string

	extractor    Extractor
	browserBin   string
	noSandbox    bool
	pageTimeout  time.Duration
	chunkSize    int
	chunkOverlap int
	ingestMode   IngestMode
	embedTimeout time.Duration
	storeTimeout time.Duration

	indexAlgorithm IndexAlgorithm
	hnswM          int
	hnswEF         int

	defaultLimit  int
	maxLimit      int
	searchTimeout time.Duration

	logger     *zap.Logger
	metricsReg prometheus.Registerer
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		namespace:    "webrag:",
		collection:   "knowledge",
		metric:       MetricCosine,
		chunkSize:    segment.DefaultChunkSize,
		chunkOverlap: segment.DefaultOverlap,
		ingestMode:   FailFast,
	}
}

// WithValkey configures the client to connect to a Valkey instance with valkey-search.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis configures the client to connect to a Redis 8+ instance (or Redis Stack).
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithNamespace sets the key prefix for every key the client writes. Default "webrag:".
func WithNamespace(ns string) Option {
	return optionFunc(func(c *clientConfig) {
		c.namespace = ns
	})
}

// WithCollection selects the collection and its similarity metric. Default "knowledge", cosine.
func WithCollection(name string, metric Metric) Option {
	return optionFunc(func(c *clientConfig) {
		c.collection = name
		if metric != "" {
			c.metric = metric
		}
	})
}

// WithOpenAIEmbeddings uses an OpenAI-compatible /embeddings endpoint.
func WithOpenAIEmbeddings(cfg OpenAIConfig) Option {
	return optionFunc(func(c *clientConfig) {
		c.openai = &cfg
		c.embedder = nil
		c.dimensions = cfg.Dimensions
	})
}

// WithEmbedder plugs in a custom embedder producing vectors of the given length.
func WithEmbedder(e Embedder, dimensions int) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
		c.openai = nil
		c.dimensions = dimensions
	})
}

// WithInstructions prefixes texts before embedding: document for ingested chunks, query for questions.
// Needed by instruction-tuned models such as Qwen3-Embedding.
func WithInstructions(document, query string) Option {
	return optionFunc(func(c *clientConfig) {
		c.documentInstruction = document
		c.queryInstruction = query
	})
}

// WithEmbeddingCache caches vectors in the store, keyed by model and text. Zero ttl never expires.
func WithEmbeddingCache(ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cache = true
		c.cacheTTL = ttl
	})
}

// WithExtractor replaces the headless browser with a custom page-to-text extractor.
func WithExtractor(e Extractor) Option {
	return optionFunc(func(c *clientConfig) {
		c.extractor = e
	})
}

// WithBrowser configures the built-in headless Chromium.
// An empty bin lets the client find a local browser or download one.
func WithBrowser(bin string, noSandbox bool, pageTimeout time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.browserBin = bin
		c.noSandbox = noSandbox
		c.pageTimeout = pageTimeout
	})
}

// WithChunking sets the window size and overlap in characters. Default 512/128.
func WithChunking(size, overlap int) Option {
	return optionFunc(func(c *clientConfig) {
		c.chunkSize = size
		c.chunkOverlap = overlap
	})
}

// WithIngestMode sets the default failure mode for Ingest. Default FailFast.
func WithIngestMode(m IngestMode) Option {
	return optionFunc(func(c *clientConfig) {
		c.ingestMode = m
	})
}

// WithIngestTimeouts bounds each embedding call and each store call of an ingestion.
// Zero keeps the defaults (30s embed, 10s store).
func WithIngestTimeouts(embed, store time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedTimeout = embed
		c.storeTimeout = store
	})
}

// WithIndex tunes the vector index created for a new collection.
// m and efConstruct apply to HNSW only; zero keeps 16/200.
func WithIndex(algorithm IndexAlgorithm, m, efConstruct int) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexAlgorithm = algorithm
		c.hnswM = m
		c.hnswEF = efConstruct
	})
}

// WithRetrieval sets the limit used when BuildContext gets 0, the hard cap on limit
// and the search timeout. Zero values keep 10, 100 and 10s.
func WithRetrieval(defaultLimit, maxLimit int, searchTimeout time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLimit = defaultLimit
		c.maxLimit = maxLimit
		c.searchTimeout = searchTimeout
	})
}

// WithLogger enables structured logging. Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}

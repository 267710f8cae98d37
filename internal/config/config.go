package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/webrag/internal/domain/segment"
)

// Config holds the webrag configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Chat      ChatConfig      `yaml:"chat"`
	Auth      AuthConfig      `yaml:"auth"`
	Index     IndexConfig     `yaml:"index"`
	Storage   StorageConfig   `yaml:"storage"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Ingest    IngestConfig    `yaml:"ingest"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Browser   BrowserConfig   `yaml:"browser"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: valkey)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"` // optional: local Valkey usually runs without AUTH
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// IndexConfig holds vector index settings.
type IndexConfig struct {
	Algorithm       string `yaml:"algorithm"` // hnsw (default), flat
	HNSWM           int    `yaml:"hnsw_m"`
	HNSWEFConstruct int    `yaml:"hnsw_ef_construction"`
}

// StorageConfig names where chunks live.
type StorageConfig struct {
	Namespace  string `yaml:"namespace"`
	Collection string `yaml:"collection"`
	Metric     string `yaml:"metric"` // cosine, dot_product, euclidean
}

// EmbeddingConfig holds the embedding provider settings. Model and dimensions travel together.
type EmbeddingConfig struct {
	Provider            string `yaml:"provider"` // label for logs and metrics
	APIKey              string `yaml:"api_key"`
	BaseURL             string `yaml:"base_url"`
	Model               string `yaml:"model"`
	Dimensions          int    `yaml:"dimensions"`
	RequestDimensions   bool   `yaml:"request_dimensions"`
	DocumentInstruction string `yaml:"document_instruction"`
	QueryInstruction    string `yaml:"query_instruction"`
	Cache               bool   `yaml:"cache"`
	CacheTTLSec         int    `yaml:"cache_ttl_sec"` // 0 = no expiry
}

// ChatConfig holds the chat completion settings. Chat is disabled when Model is empty.
type ChatConfig struct {
	APIKey      string  `yaml:"api_key"` // defaults to embedding.api_key
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// ChunkingConfig holds segmenter parameters.
type ChunkingConfig struct {
	Size    int `yaml:"size"`
	Overlap int `yaml:"overlap"`
}

// IngestConfig holds ingestion pipeline settings.
type IngestConfig struct {
	Mode            string `yaml:"mode"` // fail_fast (default), isolated
	EmbedTimeoutSec int    `yaml:"embed_timeout_sec"`
	StoreTimeoutSec int    `yaml:"store_timeout_sec"`
}

// RetrievalConfig holds context assembly settings.
type RetrievalConfig struct {
	DefaultLimit     int `yaml:"default_limit"`
	MaxLimit         int `yaml:"max_limit"`
	SearchTimeoutSec int `yaml:"search_timeout_sec"`
}

// BrowserConfig holds headless browser settings.
type BrowserConfig struct {
	Bin        string `yaml:"bin"` // empty = auto-detect or download
	TimeoutSec int    `yaml:"timeout_sec"`
	NoSandbox  bool   `yaml:"no_sandbox"`
	Headful    bool   `yaml:"headful"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory, if present, is loaded into the environment first.
func Load(env string) (Config, error) {
	_ = godotenv.Load()
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		// ingestion of a batch of pages easily outlives a short write timeout
		c.HTTP.WriteTimeoutSec = 600
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "valkey"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Index.Algorithm == "" {
		c.Index.Algorithm = "hnsw"
	}
	if c.Index.HNSWM <= 0 {
		c.Index.HNSWM = 16
	}
	if c.Index.HNSWEFConstruct <= 0 {
		c.Index.HNSWEFConstruct = 200
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Chat.APIKey == "" {
		c.Chat.APIKey = c.Embedding.APIKey
	}
	if c.Chat.BaseURL == "" {
		c.Chat.BaseURL = c.Embedding.BaseURL
	}
	if c.Chunking.Size <= 0 {
		c.Chunking.Size = segment.DefaultChunkSize
		if c.Chunking.Overlap == 0 {
			c.Chunking.Overlap = segment.DefaultOverlap
		}
	}
	if c.Ingest.Mode == "" {
		c.Ingest.Mode = "fail_fast"
	}
	if c.Ingest.EmbedTimeoutSec <= 0 {
		c.Ingest.EmbedTimeoutSec = 30
	}
	if c.Ingest.StoreTimeoutSec <= 0 {
		c.Ingest.StoreTimeoutSec = 10
	}
	if c.Retrieval.DefaultLimit <= 0 {
		c.Retrieval.DefaultLimit = 10
	}
	if c.Retrieval.MaxLimit <= 0 {
		c.Retrieval.MaxLimit = 100
	}
	if c.Retrieval.SearchTimeoutSec <= 0 {
		c.Retrieval.SearchTimeoutSec = 10
	}
	if c.Browser.TimeoutSec <= 0 {
		c.Browser.TimeoutSec = 60
	}
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	missing := func(field string) {
		errs = append(errs, fmt.Errorf("%s is required", field))
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port))
	}
	if len(c.Database.Addrs) == 0 {
		missing("database.addrs")
	}
	switch c.Database.Driver {
	case "valkey", "redis":
	default:
		errs = append(errs, fmt.Errorf("database.driver must be \"valkey\" or \"redis\", got %q", c.Database.Driver))
	}
	if c.Embedding.APIKey == "" {
		missing("embedding.api_key")
	}
	if c.Embedding.Model == "" {
		missing("embedding.model")
	}
	if c.Embedding.Dimensions <= 0 {
		missing("embedding.dimensions")
	}
	if c.Storage.Namespace == "" {
		missing("storage.namespace")
	}
	if c.Storage.Collection == "" {
		missing("storage.collection")
	}
	switch c.Storage.Metric {
	case "cosine", "dot_product", "euclidean":
	case "":
		missing("storage.metric")
	default:
		errs = append(errs, fmt.Errorf(
			"storage.metric must be one of cosine, dot_product, euclidean, got %q", c.Storage.Metric))
	}
	switch c.Index.Algorithm {
	case "hnsw", "flat":
	default:
		errs = append(errs, fmt.Errorf("index.algorithm must be \"hnsw\" or \"flat\", got %q", c.Index.Algorithm))
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		errs = append(errs, fmt.Errorf(
			"chunking.overlap must be in [0, chunking.size), got overlap=%d size=%d",
			c.Chunking.Overlap, c.Chunking.Size))
	}
	switch c.Ingest.Mode {
	case "fail_fast", "isolated":
	default:
		errs = append(errs, fmt.Errorf("ingest.mode must be \"fail_fast\" or \"isolated\", got %q", c.Ingest.Mode))
	}
	if c.Retrieval.DefaultLimit > c.Retrieval.MaxLimit {
		errs = append(errs, fmt.Errorf("retrieval.default_limit %d exceeds retrieval.max_limit %d",
			c.Retrieval.DefaultLimit, c.Retrieval.MaxLimit))
	}

	return errors.Join(errs...)
}

// ChatEnabled reports whether a chat model is configured.
func (c *Config) ChatEnabled() bool {
	return c.Chat.Model != ""
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}

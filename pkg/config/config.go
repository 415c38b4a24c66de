// Package config holds the typed configuration for the retrieval
// engine. Every tunable is an explicit struct field with a default and a
// validated range; nothing is carried in loose maps.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Chunking configuration
	Chunking ChunkingConfig `mapstructure:"chunking"`

	// Embedding configuration
	Embedding EmbeddingConfig `mapstructure:"embedding"`

	// Extraction configuration
	Extraction ExtractionConfig `mapstructure:"extraction"`

	// Retrieval configuration
	Retrieval RetrievalConfig `mapstructure:"retrieval"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// ChunkingConfig holds text splitting configuration.
type ChunkingConfig struct {
	ChunkSize    int `mapstructure:"chunk_size"`
	ChunkOverlap int `mapstructure:"chunk_overlap"`
	MinChunkSize int `mapstructure:"min_chunk_size"`
}

// EmbeddingConfig holds embedding client and batch configuration.
type EmbeddingConfig struct {
	Provider     string        `mapstructure:"provider"` // openai or compatible
	Model        string        `mapstructure:"model"`
	APIKey       string        `mapstructure:"api_key"`
	BaseURL      string        `mapstructure:"base_url"`
	Dimensions   int           `mapstructure:"dimensions"`
	MaxWorkers   int           `mapstructure:"max_workers"`
	MaxRetries   int           `mapstructure:"max_retries"`
	RetryDelay   time.Duration `mapstructure:"retry_delay"`
	RequestDelay time.Duration `mapstructure:"request_delay"`
}

// ExtractionConfig holds entity extraction configuration.
type ExtractionConfig struct {
	Model       string  `mapstructure:"model"`
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float32 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	MaxRetries  int     `mapstructure:"max_retries"`
	// MaxChars caps the combined text sent in the single extraction call
	// per document.
	MaxChars int `mapstructure:"max_chars"`
	// MaxChunks caps how many leading chunks feed that call.
	MaxChunks int `mapstructure:"max_chunks"`
}

// RetrievalConfig holds hybrid search weights and limits.
type RetrievalConfig struct {
	SemanticWeight     float64 `mapstructure:"semantic_weight"`
	GraphWeight        float64 `mapstructure:"graph_weight"`
	MinSimilarity      float64 `mapstructure:"min_similarity"`
	MaxSemanticResults int     `mapstructure:"max_semantic_results"`
	MaxGraphResults    int     `mapstructure:"max_graph_results"`
}

// CircuitBreakerConfig holds configuration for circuit breaking around
// the extraction model.
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// TelemetryConfig holds telemetry configuration.
type TelemetryConfig struct {
	ParquetPath string `mapstructure:"parquet_path"`
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Default returns the configuration with all defaults applied and no
// file or environment input.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info", Format: "text"},
		Chunking: ChunkingConfig{
			ChunkSize:    800,
			ChunkOverlap: 150,
			MinChunkSize: 50,
		},
		Embedding: EmbeddingConfig{
			Provider:     "openai",
			Model:        "text-embedding-3-small",
			MaxWorkers:   3,
			MaxRetries:   3,
			RetryDelay:   500 * time.Millisecond,
			RequestDelay: 200 * time.Millisecond,
		},
		Extraction: ExtractionConfig{
			Model:       "gpt-4o-mini",
			Temperature: 0.1,
			MaxTokens:   1500,
			MaxRetries:  2,
			MaxChars:    3000,
			MaxChunks:   5,
		},
		Retrieval: RetrievalConfig{
			SemanticWeight:     0.7,
			GraphWeight:        0.3,
			MinSimilarity:      0.1,
			MaxSemanticResults: 5,
			MaxGraphResults:    3,
		},
		CircuitBreaker: CircuitBreakerConfig{
			Enabled:          true,
			MaxRequests:      1,
			Interval:         60,
			Timeout:          30,
			ReadyToTripRatio: 0.6,
		},
	}
}

// setDefaults sets default configuration values.
func setDefaults() {
	defaults := Default()

	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.format", defaults.Log.Format)

	viper.SetDefault("chunking.chunk_size", defaults.Chunking.ChunkSize)
	viper.SetDefault("chunking.chunk_overlap", defaults.Chunking.ChunkOverlap)
	viper.SetDefault("chunking.min_chunk_size", defaults.Chunking.MinChunkSize)

	viper.SetDefault("embedding.provider", defaults.Embedding.Provider)
	viper.SetDefault("embedding.model", defaults.Embedding.Model)
	viper.SetDefault("embedding.max_workers", defaults.Embedding.MaxWorkers)
	viper.SetDefault("embedding.max_retries", defaults.Embedding.MaxRetries)
	viper.SetDefault("embedding.retry_delay", defaults.Embedding.RetryDelay)
	viper.SetDefault("embedding.request_delay", defaults.Embedding.RequestDelay)

	viper.SetDefault("extraction.model", defaults.Extraction.Model)
	viper.SetDefault("extraction.temperature", defaults.Extraction.Temperature)
	viper.SetDefault("extraction.max_tokens", defaults.Extraction.MaxTokens)
	viper.SetDefault("extraction.max_retries", defaults.Extraction.MaxRetries)
	viper.SetDefault("extraction.max_chars", defaults.Extraction.MaxChars)
	viper.SetDefault("extraction.max_chunks", defaults.Extraction.MaxChunks)

	viper.SetDefault("retrieval.semantic_weight", defaults.Retrieval.SemanticWeight)
	viper.SetDefault("retrieval.graph_weight", defaults.Retrieval.GraphWeight)
	viper.SetDefault("retrieval.min_similarity", defaults.Retrieval.MinSimilarity)
	viper.SetDefault("retrieval.max_semantic_results", defaults.Retrieval.MaxSemanticResults)
	viper.SetDefault("retrieval.max_graph_results", defaults.Retrieval.MaxGraphResults)

	viper.SetDefault("telemetry.parquet_path", defaults.Telemetry.ParquetPath)

	viper.SetDefault("circuit_breaker.enabled", defaults.CircuitBreaker.Enabled)
	viper.SetDefault("circuit_breaker.max_requests", defaults.CircuitBreaker.MaxRequests)
	viper.SetDefault("circuit_breaker.interval", defaults.CircuitBreaker.Interval)
	viper.SetDefault("circuit_breaker.timeout", defaults.CircuitBreaker.Timeout)
	viper.SetDefault("circuit_breaker.ready_to_trip_ratio", defaults.CircuitBreaker.ReadyToTripRatio)
}

// overrideWithEnv overrides config with environment variables.
func overrideWithEnv(config *Config) {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		if config.Embedding.APIKey == "" {
			config.Embedding.APIKey = apiKey
		}
		if config.Extraction.APIKey == "" {
			config.Extraction.APIKey = apiKey
		}
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		if config.Embedding.BaseURL == "" {
			config.Embedding.BaseURL = baseURL
		}
		if config.Extraction.BaseURL == "" {
			config.Extraction.BaseURL = baseURL
		}
	}
}

// Validate checks every tunable against its allowed range.
func (c *Config) Validate() error {
	if c.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("chunking.chunk_size must be positive, got %d", c.Chunking.ChunkSize)
	}
	if c.Chunking.ChunkOverlap < 0 || c.Chunking.ChunkOverlap >= c.Chunking.ChunkSize {
		return fmt.Errorf("chunking.chunk_overlap must be in [0, chunk_size), got %d", c.Chunking.ChunkOverlap)
	}
	if c.Chunking.MinChunkSize < 0 {
		return fmt.Errorf("chunking.min_chunk_size must not be negative, got %d", c.Chunking.MinChunkSize)
	}
	if c.Embedding.MaxWorkers <= 0 {
		return fmt.Errorf("embedding.max_workers must be positive, got %d", c.Embedding.MaxWorkers)
	}
	if c.Embedding.MaxRetries < 0 {
		return fmt.Errorf("embedding.max_retries must not be negative, got %d", c.Embedding.MaxRetries)
	}
	if w := c.Retrieval.SemanticWeight; w < 0 || w > 1 {
		return fmt.Errorf("retrieval.semantic_weight must be in [0, 1], got %g", w)
	}
	if w := c.Retrieval.GraphWeight; w < 0 || w > 1 {
		return fmt.Errorf("retrieval.graph_weight must be in [0, 1], got %g", w)
	}
	if s := c.Retrieval.MinSimilarity; s < -1 || s > 1 {
		return fmt.Errorf("retrieval.min_similarity must be in [-1, 1], got %g", s)
	}
	if c.Retrieval.MaxSemanticResults <= 0 {
		return fmt.Errorf("retrieval.max_semantic_results must be positive, got %d", c.Retrieval.MaxSemanticResults)
	}
	if c.Retrieval.MaxGraphResults <= 0 {
		return fmt.Errorf("retrieval.max_graph_results must be positive, got %d", c.Retrieval.MaxGraphResults)
	}
	if c.Extraction.MaxChars <= 0 {
		return fmt.Errorf("extraction.max_chars must be positive, got %d", c.Extraction.MaxChars)
	}
	if c.Extraction.MaxChunks <= 0 {
		return fmt.Errorf("extraction.max_chunks must be positive, got %d", c.Extraction.MaxChunks)
	}
	if r := c.CircuitBreaker.ReadyToTripRatio; r < 0 || r > 1 {
		return fmt.Errorf("circuit_breaker.ready_to_trip_ratio must be in [0, 1], got %g", r)
	}
	return nil
}

// Profile names for ApplyProfile.
const (
	ProfileFast     = "fast"
	ProfileBalanced = "balanced"
	ProfileQuality  = "quality"
)

// ApplyProfile adjusts chunking and batch tunables for a workload
// profile: fast favors throughput, quality favors recall, balanced is
// the default.
func (c *Config) ApplyProfile(name string) error {
	switch name {
	case ProfileFast:
		c.Chunking.ChunkSize = 2000
		c.Chunking.ChunkOverlap = 50
		c.Embedding.MaxWorkers = 5
		c.Embedding.RequestDelay = 50 * time.Millisecond
	case ProfileBalanced:
		c.Chunking.ChunkSize = 1500
		c.Chunking.ChunkOverlap = 100
		c.Embedding.MaxWorkers = 3
		c.Embedding.RequestDelay = 100 * time.Millisecond
	case ProfileQuality:
		c.Chunking.ChunkSize = 1000
		c.Chunking.ChunkOverlap = 150
		c.Embedding.MaxWorkers = 2
		c.Embedding.RequestDelay = 200 * time.Millisecond
	default:
		return fmt.Errorf("unknown profile %q", name)
	}
	return nil
}

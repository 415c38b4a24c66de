package hybridrag

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Hamza08dev/hybridrag/pkg/chunker"
	"github.com/Hamza08dev/hybridrag/pkg/config"
	"github.com/Hamza08dev/hybridrag/pkg/embedder"
	"github.com/Hamza08dev/hybridrag/pkg/extractor"
	"github.com/Hamza08dev/hybridrag/pkg/llm"
	"github.com/Hamza08dev/hybridrag/pkg/nlp"
	"github.com/Hamza08dev/hybridrag/pkg/qa"
	"github.com/Hamza08dev/hybridrag/pkg/store"
	"github.com/Hamza08dev/hybridrag/pkg/types"
)

// Client is a self-contained retrieval engine session: it owns its
// store, so multiple clients with independent corpora can coexist in one
// process.
type Client struct {
	config *config.Config
	logger *slog.Logger

	store     *store.MemoryStore
	chunker   *chunker.Chunker
	embedder  embedder.Client
	chat      llm.Client
	extractor *extractor.Extractor
	retriever *Retriever
	answerer  *qa.Answerer
}

// NewClient creates a Client around the given embedding and chat
// clients. The chat client is wrapped with retries and, when enabled in
// the configuration, a circuit breaker.
func NewClient(embedderClient embedder.Client, chatClient llm.Client, cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if embedderClient == nil {
		return nil, fmt.Errorf("embedder client is required")
	}
	if chatClient == nil {
		return nil, fmt.Errorf("chat client is required")
	}
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	policy := nlp.DefaultRetryPolicy()
	if cfg.Extraction.MaxRetries > 0 {
		policy.MaxAttempts = cfg.Extraction.MaxRetries
	}
	chat := llm.NewCircuitBreakerClient(
		llm.NewRetryClient(chatClient, policy),
		cfg.CircuitBreaker, logger, "extraction")

	st := store.NewMemoryStore(logger)

	return &Client{
		config:    cfg,
		logger:    logger,
		store:     st,
		chunker:   chunker.New(cfg.Chunking),
		embedder:  embedderClient,
		chat:      chat,
		extractor: extractor.New(chat, cfg.Extraction, logger),
		retriever: NewRetriever(cfg.Retrieval, logger),
		answerer:  qa.NewAnswerer(chat, logger),
	}, nil
}

// Search embeds the query and returns the fused semantic and graph
// results. If the query embedding fails the search degrades to
// graph-only rather than returning an error.
func (c *Client) Search(ctx context.Context, query string) ([]types.RankedResult, error) {
	queryEmbedding, err := c.embedder.EmbedQuery(ctx, query)
	if err != nil {
		c.logger.Warn("query embedding failed, degrading to graph-only search", "error", err)
		queryEmbedding = nil
	}
	return c.retriever.Search(query, c.store, queryEmbedding), nil
}

// Ask retrieves passages for question and generates a grounded answer.
func (c *Client) Ask(ctx context.Context, question string) (string, error) {
	results, err := c.Search(ctx, question)
	if err != nil {
		return "", err
	}
	return c.answerer.Answer(ctx, question, results)
}

// GetStats returns storage counters.
func (c *Client) GetStats() types.StoreStats {
	return c.store.GetStats()
}

// ClearStorage removes all ingested data.
func (c *Client) ClearStorage() {
	c.store.ClearStorage()
}

// Store returns the underlying store for direct queries.
func (c *Client) Store() *store.MemoryStore {
	return c.store
}

// Close releases the external clients.
func (c *Client) Close() error {
	embErr := c.embedder.Close()
	chatErr := c.chat.Close()
	if embErr != nil {
		return embErr
	}
	return chatErr
}

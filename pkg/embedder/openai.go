package embedder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sashabaranov/go-openai"

	"github.com/Hamza08dev/hybridrag/pkg/config"
	"github.com/Hamza08dev/hybridrag/pkg/nlp"
)

// OpenAIClient implements the Client interface against the OpenAI
// embeddings API or any compatible endpoint.
type OpenAIClient struct {
	client *openai.Client
	model  string
	policy *nlp.RetryPolicy
	logger *slog.Logger

	mu         sync.Mutex
	dimensions int
}

// NewOpenAIClient creates an embedding client from the embedding
// configuration.
func NewOpenAIClient(cfg config.EmbeddingConfig, logger *slog.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("embedding api key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	policy := nlp.DefaultRetryPolicy()
	if cfg.MaxRetries > 0 {
		policy.MaxAttempts = cfg.MaxRetries
	}
	if cfg.RetryDelay > 0 {
		policy.InitialDelay = cfg.RetryDelay
	}

	return &OpenAIClient{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      cfg.Model,
		policy:     policy,
		logger:     logger,
		dimensions: cfg.Dimensions,
	}, nil
}

// Embed generates embeddings for the given texts in a single request.
func (c *OpenAIClient) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var resp openai.EmbeddingResponse
	err := nlp.Retry(ctx, c.policy, func() error {
		var err error
		resp, err = c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: texts,
			Model: openai.EmbeddingModel(c.model),
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embeddings: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Data))
	}

	embeddings := make([][]float64, len(resp.Data))
	for i, item := range resp.Data {
		vec := make([]float64, len(item.Embedding))
		for j, v := range item.Embedding {
			vec[j] = float64(v)
		}
		embeddings[i] = vec
	}

	if len(embeddings) > 0 {
		c.mu.Lock()
		if c.dimensions == 0 {
			c.dimensions = len(embeddings[0])
		}
		c.mu.Unlock()
	}
	return embeddings, nil
}

// EmbedSingle generates an embedding for a single text.
func (c *OpenAIClient) EmbedSingle(ctx context.Context, text string) ([]float64, error) {
	embeddings, err := c.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	return embeddings[0], nil
}

// EmbedQuery generates an embedding for a search query. The OpenAI API
// does not distinguish document and query embeddings, so this is
// EmbedSingle.
func (c *OpenAIClient) EmbedQuery(ctx context.Context, query string) ([]float64, error) {
	return c.EmbedSingle(ctx, query)
}

// Dimensions returns the vector width observed so far.
func (c *OpenAIClient) Dimensions() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dimensions
}

// Close cleans up any resources.
func (c *OpenAIClient) Close() error {
	return nil
}

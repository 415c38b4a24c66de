package embedder

import (
	"context"
)

// Client is the interface for text embedding providers.
type Client interface {
	// Embed generates embeddings for the given texts, one vector per
	// input, in input order.
	Embed(ctx context.Context, texts []string) ([][]float64, error)

	// EmbedSingle generates an embedding for a single text.
	EmbedSingle(ctx context.Context, text string) ([]float64, error)

	// EmbedQuery generates an embedding for a search query. Providers
	// that distinguish document and query embeddings use the query
	// variant here; others fall back to EmbedSingle.
	EmbedQuery(ctx context.Context, query string) ([]float64, error)

	// Dimensions returns the expected vector width, or 0 if unknown
	// until the first call.
	Dimensions() int

	// Close cleans up any resources.
	Close() error
}

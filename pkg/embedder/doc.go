// Package embedder provides text embedding clients for vector
// representations.
//
// This package defines the Client interface and an implementation for
// OpenAI-compatible embedding APIs.
//
// # Usage
//
//	embedder, err := embedder.NewOpenAIClient(cfg, logger)
//	if err != nil { ... }
//	defer embedder.Close()
//
//	embeddings, err := embedder.Embed(ctx, []string{"hello world"})
//
// # Batch Processing
//
// The Client interface supports batch embedding for efficiency:
//   - Embed(): Embed multiple texts in a single request
//   - EmbedSingle(): Convenience method for single text
//
// Implementations handle batching internally based on provider limits.
package embedder

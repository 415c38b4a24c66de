package hybridrag

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Hamza08dev/hybridrag/pkg/loader"
	"github.com/Hamza08dev/hybridrag/pkg/types"
)

// IngestResult summarizes one document ingestion.
type IngestResult struct {
	DocumentID        string
	Title             string
	ChunkCount        int
	DroppedChunks     int
	EntityCount       int
	RelationshipCount int
	Duration          time.Duration
}

// IngestDocument extracts text from the file at path and ingests it.
// The document title is derived from the file name.
func (c *Client) IngestDocument(ctx context.Context, path string) (*IngestResult, error) {
	text, err := loader.ExtractText(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return c.IngestText(ctx, loader.TitleFromPath(path), text)
}

// IngestText chunks, embeds, and extracts entities from text, then
// stores the document as a single unit. Chunks whose embedding calls
// exhaust retries are dropped rather than failing the ingestion; a
// failed extraction call degrades to an entity-free document. The
// store insert itself is all-or-nothing.
func (c *Client) IngestText(ctx context.Context, title, text string) (*IngestResult, error) {
	start := time.Now()
	docID := "doc_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]

	chunks, err := c.chunker.Split(docID, title, text)
	if err != nil {
		return nil, fmt.Errorf("failed to chunk document: %w", err)
	}

	embedded, dropped := c.embedChunks(ctx, chunks)
	if len(embedded) == 0 {
		return nil, fmt.Errorf("all %d chunk embeddings failed", len(chunks))
	}

	entities, relationships, err := c.extractor.ExtractFromChunks(ctx, embedded)
	if err != nil {
		c.logger.Warn("entity extraction failed, storing document without graph data",
			"document_id", docID, "error", err)
		entities = map[string][]types.EntityRecord{}
		relationships = nil
	}

	if !c.store.AddDocument(docID, title, embedded, entities, relationships) {
		return nil, fmt.Errorf("failed to store document %s", docID)
	}

	entityCount := 0
	for _, list := range entities {
		entityCount += len(list)
	}

	result := &IngestResult{
		DocumentID:        docID,
		Title:             title,
		ChunkCount:        len(embedded),
		DroppedChunks:     dropped,
		EntityCount:       entityCount,
		RelationshipCount: len(relationships),
		Duration:          time.Since(start),
	}
	c.logger.Info("ingested document", "document_id", docID, "title", title,
		"chunks", result.ChunkCount, "dropped_chunks", dropped,
		"entities", entityCount, "relationships", len(relationships),
		"duration", result.Duration)
	return result, nil
}

// embedChunks embeds chunks with a bounded worker pool, preserving
// chunk order. Chunks whose embedding fails are dropped; the remainder
// is returned along with the drop count.
func (c *Client) embedChunks(ctx context.Context, chunks []types.Chunk) ([]types.Chunk, int) {
	embeddings := make([][]float64, len(chunks))

	sem := make(chan struct{}, c.config.Embedding.MaxWorkers)
	var wg sync.WaitGroup
	for i := range chunks {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			vec, err := c.embedder.EmbedSingle(ctx, chunks[i].Text)
			if err != nil {
				c.logger.Warn("dropping chunk after failed embedding",
					"chunk_id", chunks[i].ID, "error", err)
				return
			}
			embeddings[i] = vec
		}(i)

		if delay := c.config.Embedding.RequestDelay; delay > 0 {
			time.Sleep(delay)
		}
	}
	wg.Wait()

	embedded := make([]types.Chunk, 0, len(chunks))
	dropped := 0
	for i, chunk := range chunks {
		if embeddings[i] == nil {
			dropped++
			continue
		}
		chunk.Embedding = embeddings[i]
		embedded = append(embedded, chunk)
	}
	return embedded, dropped
}

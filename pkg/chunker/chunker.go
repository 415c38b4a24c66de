// Package chunker splits document text into overlapping chunks sized
// for embedding.
package chunker

import (
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/Hamza08dev/hybridrag/pkg/config"
	"github.com/Hamza08dev/hybridrag/pkg/types"
)

// Chunker splits text recursively on paragraph, line, sentence and word
// boundaries, keeping a configurable overlap between adjacent chunks.
type Chunker struct {
	splitter     textsplitter.RecursiveCharacter
	chunkSize    int
	chunkOverlap int
	minChunkSize int
}

// New creates a Chunker from the chunking configuration.
func New(cfg config.ChunkingConfig) *Chunker {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(cfg.ChunkSize),
		textsplitter.WithChunkOverlap(cfg.ChunkOverlap),
		textsplitter.WithSeparators([]string{"\n\n", "\n", ". ", " ", ""}),
	)

	return &Chunker{
		splitter:     splitter,
		chunkSize:    cfg.ChunkSize,
		chunkOverlap: cfg.ChunkOverlap,
		minChunkSize: cfg.MinChunkSize,
	}
}

// Split breaks text into chunks for the given document. Fragments whose
// trimmed length is at or below the minimum chunk size are dropped.
// Chunk indices and TotalChunks refer to the kept chunks only.
func (c *Chunker) Split(docID, docTitle, text string) ([]types.Chunk, error) {
	pieces, err := c.splitter.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("failed to split text: %w", err)
	}

	kept := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		trimmed := strings.TrimSpace(piece)
		if len(trimmed) > c.minChunkSize {
			kept = append(kept, trimmed)
		}
	}
	if len(kept) == 0 {
		return nil, types.ErrNoChunks
	}

	chunks := make([]types.Chunk, len(kept))
	for i, text := range kept {
		chunks[i] = types.Chunk{
			ID:            fmt.Sprintf("chunk_%d", i),
			Text:          text,
			Length:        len(text),
			DocumentID:    docID,
			DocumentTitle: docTitle,
			Metadata: types.ChunkMetadata{
				Index:       i,
				TotalChunks: len(kept),
				ChunkSize:   c.chunkSize,
				Overlap:     c.chunkOverlap,
			},
		}
	}
	return chunks, nil
}

package hybridrag

import (
	"context"

	"github.com/Hamza08dev/hybridrag/pkg/types"
)

// This file defines focused interfaces so consumers can depend on the
// smallest surface that meets their needs.

// Ingester loads documents into the engine.
type Ingester interface {
	// IngestDocument extracts text from the file at path and ingests it.
	IngestDocument(ctx context.Context, path string) (*IngestResult, error)

	// IngestText ingests raw text under the given title.
	IngestText(ctx context.Context, title, text string) (*IngestResult, error)
}

// Searcher answers queries over ingested documents.
type Searcher interface {
	// Search returns the fused semantic and graph results for query.
	Search(ctx context.Context, query string) ([]types.RankedResult, error)

	// Ask retrieves passages for question and generates a grounded
	// answer.
	Ask(ctx context.Context, question string) (string, error)
}

// StoreAdmin exposes storage maintenance operations.
type StoreAdmin interface {
	// GetStats returns storage counters.
	GetStats() types.StoreStats

	// ClearStorage removes all ingested data.
	ClearStorage()
}

// Engine is the full client surface, composed from the focused
// interfaces.
type Engine interface {
	Ingester
	Searcher
	StoreAdmin

	// Close releases the external clients.
	Close() error
}

var _ Engine = (*Client)(nil)

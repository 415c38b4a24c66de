package types

// SearchType labels which search path produced a result.
type SearchType string

const (
	// SearchTypeSemantic marks results found by vector similarity alone.
	SearchTypeSemantic SearchType = "semantic"
	// SearchTypeGraph marks results found by relationship traversal alone.
	SearchTypeGraph SearchType = "graph"
	// SearchTypeHybrid marks results found by both search paths.
	SearchTypeHybrid SearchType = "hybrid"
)

// ChunkMatch is one similarity-search hit.
type ChunkMatch struct {
	ChunkID       string        `json:"chunk_id"`
	Text          string        `json:"text"`
	Similarity    float64       `json:"similarity"`
	DocumentID    string        `json:"document_id"`
	DocumentTitle string        `json:"document_title"`
	Metadata      ChunkMetadata `json:"metadata"`
}

// EntityMatch is one entity-search hit.
type EntityMatch struct {
	EntityID   string  `json:"entity_id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	DocumentID string  `json:"document_id"`
	MatchType  string  `json:"match_type"`
}

// RelationshipRef is the relationship payload attached to graph results.
type RelationshipRef struct {
	Type   string `json:"type"`
	Source string `json:"source"`
	Target string `json:"target"`
}

// RankedResult is one entry in the fused result list returned by Search.
// Score is the raw per-path score (cosine similarity for semantic results,
// graph relevance for graph results); FinalScore is the weighted score
// used for ranking.
type RankedResult struct {
	ChunkID       string           `json:"chunk_id"`
	Text          string           `json:"text"`
	Score         float64          `json:"score"`
	FinalScore    float64          `json:"final_score"`
	DocumentID    string           `json:"document_id"`
	DocumentTitle string           `json:"document_title"`
	SearchType    SearchType       `json:"search_type"`
	Metadata      ChunkMetadata    `json:"metadata"`
	RelatedEntity string           `json:"related_entity,omitempty"`
	Relationship  *RelationshipRef `json:"relationship,omitempty"`
	Query         string           `json:"query,omitempty"`
	QueryEntities []string         `json:"query_entities,omitempty"`
}

// StoreStats summarizes the contents of a store. Entities counts every
// mention, so an entity appearing in N documents counts N times.
type StoreStats struct {
	Documents     int    `json:"documents"`
	Chunks        int    `json:"chunks"`
	Entities      int    `json:"entities"`
	Relationships int    `json:"relationships"`
	EntityTypes   int    `json:"entity_types"`
	StorageType   string `json:"storage_type"`
}

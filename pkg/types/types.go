package types

import (
	"errors"
	"strings"
	"time"
)

// Validation errors
var (
	ErrEmptyDocumentID       = errors.New("document id cannot be empty")
	ErrDuplicateDocumentID   = errors.New("document id already exists")
	ErrNoChunks              = errors.New("document must contain at least one chunk")
	ErrEmptyChunkID          = errors.New("chunk id cannot be empty")
	ErrEmptyChunkText        = errors.New("chunk text cannot be empty")
	ErrMissingEmbedding      = errors.New("chunk embedding cannot be empty")
	ErrEmbeddingDimensions   = errors.New("chunk embedding dimensions do not match the store")
	ErrEmptyEntityName       = errors.New("entity name cannot be empty")
	ErrEmptyRelationshipEnds = errors.New("relationship source and target cannot be empty")
)

// Entity types extracted from document text.
const (
	EntityTypePerson       = "PERSON"
	EntityTypeOrganization = "ORGANIZATION"
	EntityTypeTechnology   = "TECHNOLOGY"
	EntityTypeSkill        = "SKILL"
)

// Relationship types between entity surface forms.
const (
	RelationWorksAt  = "WORKS_AT"
	RelationUses     = "USES"
	RelationHasSkill = "HAS_SKILL"
	RelationDevelops = "DEVELOPS"
)

// EntityTypes lists the entity vocabulary in a fixed order.
var EntityTypes = []string{
	EntityTypePerson,
	EntityTypeOrganization,
	EntityTypeTechnology,
	EntityTypeSkill,
}

// RelationshipTypes lists the relationship vocabulary in a fixed order.
var RelationshipTypes = []string{
	RelationWorksAt,
	RelationUses,
	RelationHasSkill,
	RelationDevelops,
}

// Document holds metadata about one ingested source. It is created once
// per ingestion and never mutated afterwards.
type Document struct {
	ID                string                 `json:"id"`
	Title             string                 `json:"title"`
	ChunkCount        int                    `json:"chunk_count"`
	EntityCount       int                    `json:"entity_count"`
	RelationshipCount int                    `json:"relationship_count"`
	CreatedAt         time.Time              `json:"created_at"`
	Metadata          map[string]interface{} `json:"metadata,omitempty"`
}

// ChunkMetadata describes how a chunk was produced from its document.
type ChunkMetadata struct {
	Index       int `json:"chunk_index"`
	TotalChunks int `json:"total_chunks"`
	ChunkSize   int `json:"chunk_size"`
	Overlap     int `json:"overlap"`
}

// Chunk is a bounded span of a document's text together with its
// embedding. Chunks are immutable once stored.
type Chunk struct {
	ID            string        `json:"id"`
	Text          string        `json:"text"`
	Embedding     []float64     `json:"embedding,omitempty"`
	Length        int           `json:"length"`
	DocumentID    string        `json:"document_id,omitempty"`
	DocumentTitle string        `json:"document_title,omitempty"`
	Metadata      ChunkMetadata `json:"metadata"`
}

// Validate checks that the chunk is storable.
func (c *Chunk) Validate() error {
	if c.ID == "" {
		return ErrEmptyChunkID
	}
	if strings.TrimSpace(c.Text) == "" {
		return ErrEmptyChunkText
	}
	if len(c.Embedding) == 0 {
		return ErrMissingEmbedding
	}
	return nil
}

// HasEmbedding reports whether the chunk carries an embedding vector.
func (c *Chunk) HasEmbedding() bool {
	return len(c.Embedding) > 0
}

// EntityRecord is the ingestion payload for one extracted entity mention.
type EntityRecord struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// Validate checks that the record is storable.
func (e *EntityRecord) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyEntityName
	}
	return nil
}

// Entity is a stored entity mention. Multiple Entity records may share
// the same lowercased name, one per mention per document.
type Entity struct {
	ID         string  `json:"entity_id"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	DocumentID string  `json:"document_id"`
}

// Key returns the dedup key for the entity: its lowercased name.
func (e *Entity) Key() string {
	return strings.ToLower(e.Name)
}

// RelationshipRecord is the ingestion payload for one extracted relationship.
type RelationshipRecord struct {
	Type       string  `json:"type"`
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Confidence float64 `json:"confidence"`
}

// Validate checks that the record is storable.
func (r *RelationshipRecord) Validate() error {
	if strings.TrimSpace(r.Source) == "" || strings.TrimSpace(r.Target) == "" {
		return ErrEmptyRelationshipEnds
	}
	return nil
}

// Key returns the dedup key: lowercase(source)|type|lowercase(target).
func (r *RelationshipRecord) Key() string {
	return strings.ToLower(r.Source) + "|" + r.Type + "|" + strings.ToLower(r.Target)
}

// Relationship is a stored directed edge between two entity surface forms.
// Source and target are free text from the extractor, not validated
// against Entity records.
type Relationship struct {
	ID         string  `json:"relationship_id"`
	Type       string  `json:"type"`
	Source     string  `json:"source"`
	Target     string  `json:"target"`
	Confidence float64 `json:"confidence"`
	DocumentID string  `json:"document_id"`
}

// Key returns the dedup key: lowercase(source)|type|lowercase(target).
func (r *Relationship) Key() string {
	return strings.ToLower(r.Source) + "|" + r.Type + "|" + strings.ToLower(r.Target)
}

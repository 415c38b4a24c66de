// Package store provides the in-memory storage layer for ingested
// documents, chunks, entities, and relationships, together with the
// similarity and lookup queries the retriever is built on.
//
// The store is a single shared resource guarded by a read/write lock:
// AddDocument and ClearStorage are exclusive with respect to all reads,
// so a reader never observes a document whose chunks are inserted but
// whose entities or relationships are not.
package store

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Hamza08dev/hybridrag/pkg/types"
)

// StorageType identifies this store implementation in stats output.
const StorageType = "in_memory"

// MemoryStore is an in-memory vector and entity store. The zero value is
// not usable; create instances with NewMemoryStore.
type MemoryStore struct {
	mu     sync.RWMutex
	logger *slog.Logger

	// dimensions is fixed by the first chunk ever stored. Chunks with a
	// different embedding size are rejected, never silently compared.
	dimensions int

	documents  map[string]*types.Document
	chunks     []*types.Chunk
	chunkIndex map[string]*types.Chunk

	entitiesByName map[string][]*types.Entity
	entitiesByType map[string][]*types.Entity
	// typeOrder preserves first-seen entity type order so that scans over
	// entitiesByType are deterministic.
	typeOrder []string

	relationships         []*types.Relationship
	relationshipsBySource map[string][]*types.Relationship
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(logger *slog.Logger) *MemoryStore {
	if logger == nil {
		logger = slog.Default()
	}
	s := &MemoryStore{logger: logger}
	s.reset()
	return s
}

func (s *MemoryStore) reset() {
	s.dimensions = 0
	s.documents = make(map[string]*types.Document)
	s.chunks = nil
	s.chunkIndex = make(map[string]*types.Chunk)
	s.entitiesByName = make(map[string][]*types.Entity)
	s.entitiesByType = make(map[string][]*types.Entity)
	s.typeOrder = nil
	s.relationships = nil
	s.relationshipsBySource = make(map[string][]*types.Relationship)
}

// AddDocument inserts a document with its chunks, entities, and
// relationships as a single visible unit. It returns false and leaves the
// store unchanged on any invalid payload: a missing or mis-sized chunk
// embedding, an empty entity name, or a duplicate document id.
func (s *MemoryStore) AddDocument(docID, title string, chunks []types.Chunk, entitiesByType map[string][]types.EntityRecord, relationships []types.RelationshipRecord) bool {
	staged, err := s.stage(docID, title, chunks, entitiesByType, relationships)
	if err != nil {
		s.logger.Error("failed to add document", "document_id", docID, "error", err)
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.documents[docID]; exists {
		s.logger.Error("failed to add document", "document_id", docID, "error", types.ErrDuplicateDocumentID)
		return false
	}
	if s.dimensions != 0 && staged.dimensions != s.dimensions {
		s.logger.Error("failed to add document", "document_id", docID,
			"error", types.ErrEmbeddingDimensions, "got", staged.dimensions, "want", s.dimensions)
		return false
	}

	// Commit. Everything below is append-only and cannot fail.
	if s.dimensions == 0 {
		s.dimensions = staged.dimensions
	}
	s.documents[docID] = staged.document
	for _, chunk := range staged.chunks {
		s.chunks = append(s.chunks, chunk)
		s.chunkIndex[chunk.ID] = chunk
	}
	for _, entity := range staged.entities {
		name := entity.Key()
		s.entitiesByName[name] = append(s.entitiesByName[name], entity)
		if _, seen := s.entitiesByType[entity.Type]; !seen {
			s.typeOrder = append(s.typeOrder, entity.Type)
		}
		s.entitiesByType[entity.Type] = append(s.entitiesByType[entity.Type], entity)
	}
	for _, rel := range staged.relationships {
		s.relationships = append(s.relationships, rel)
		source := strings.ToLower(rel.Source)
		s.relationshipsBySource[source] = append(s.relationshipsBySource[source], rel)
	}

	s.logger.Info("added document", "document_id", docID, "title", title,
		"chunks", len(staged.chunks), "entities", len(staged.entities), "relationships", len(staged.relationships))
	return true
}

// stagedDocument holds a fully validated batch ready to commit.
type stagedDocument struct {
	document      *types.Document
	chunks        []*types.Chunk
	entities      []*types.Entity
	relationships []*types.Relationship
	dimensions    int
}

// stage validates the whole batch before anything is committed, so a bad
// payload never leaves the store partially updated.
func (s *MemoryStore) stage(docID, title string, chunks []types.Chunk, entitiesByType map[string][]types.EntityRecord, relationships []types.RelationshipRecord) (*stagedDocument, error) {
	if docID == "" {
		return nil, types.ErrEmptyDocumentID
	}
	if len(chunks) == 0 {
		return nil, types.ErrNoChunks
	}

	staged := &stagedDocument{}

	for i := range chunks {
		chunk := chunks[i]
		if err := chunk.Validate(); err != nil {
			return nil, fmt.Errorf("chunk %d: %w", i, err)
		}
		if staged.dimensions == 0 {
			staged.dimensions = len(chunk.Embedding)
		} else if len(chunk.Embedding) != staged.dimensions {
			return nil, fmt.Errorf("chunk %d: %w", i, types.ErrEmbeddingDimensions)
		}
		chunk.DocumentID = docID
		chunk.DocumentTitle = title
		staged.chunks = append(staged.chunks, &chunk)
	}

	// Entity types are iterated in the fixed vocabulary order first so
	// that entity ids and index order do not depend on map iteration.
	for _, entityType := range orderedTypes(entitiesByType) {
		for i := range entitiesByType[entityType] {
			record := entitiesByType[entityType][i]
			if err := record.Validate(); err != nil {
				return nil, fmt.Errorf("entity %q (%s): %w", record.Name, entityType, err)
			}
			staged.entities = append(staged.entities, &types.Entity{
				ID:         strings.ToLower(record.Name) + "_" + shortID(),
				Name:       record.Name,
				Type:       entityType,
				Confidence: record.Confidence,
				DocumentID: docID,
			})
		}
	}

	// Relationships are deduplicated per batch on lowercase(source)|type|
	// lowercase(target); re-assertions from other documents are kept.
	seen := make(map[string]struct{})
	for i := range relationships {
		record := relationships[i]
		if err := record.Validate(); err != nil {
			return nil, fmt.Errorf("relationship %d: %w", i, err)
		}
		if _, dup := seen[record.Key()]; dup {
			continue
		}
		seen[record.Key()] = struct{}{}
		staged.relationships = append(staged.relationships, &types.Relationship{
			ID:         "rel_" + shortID(),
			Type:       record.Type,
			Source:     record.Source,
			Target:     record.Target,
			Confidence: record.Confidence,
			DocumentID: docID,
		})
	}

	staged.document = &types.Document{
		ID:                docID,
		Title:             title,
		ChunkCount:        len(staged.chunks),
		EntityCount:       len(staged.entities),
		RelationshipCount: len(staged.relationships),
		CreatedAt:         time.Now(),
		Metadata: map[string]interface{}{
			"total_chunks":       len(staged.chunks),
			"entity_count":       len(staged.entities),
			"relationship_count": len(staged.relationships),
		},
	}
	return staged, nil
}

// orderedTypes returns the map keys with the fixed entity vocabulary
// first, then any remaining types sorted alphabetically.
func orderedTypes(entitiesByType map[string][]types.EntityRecord) []string {
	ordered := make([]string, 0, len(entitiesByType))
	for _, entityType := range types.EntityTypes {
		if _, ok := entitiesByType[entityType]; ok {
			ordered = append(ordered, entityType)
		}
	}
	var extra []string
	for entityType := range entitiesByType {
		known := false
		for _, t := range types.EntityTypes {
			if t == entityType {
				known = true
				break
			}
		}
		if !known {
			extra = append(extra, entityType)
		}
	}
	sort.Strings(extra)
	return append(ordered, extra...)
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// CosineSimilarity returns the cosine similarity of two vectors in
// [-1, 1]. Zero-magnitude or mismatched inputs yield exactly 0 so callers
// can treat missing embeddings as maximally dissimilar rather than
// handling NaN.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Similarity exposes CosineSimilarity on the store for callers holding
// the narrow store handle.
func (s *MemoryStore) Similarity(a, b []float64) float64 {
	return CosineSimilarity(a, b)
}

// SearchSimilarChunks scans every embedded chunk, keeps those with
// similarity >= minSimilarity, and returns the topK best ordered by
// similarity descending. Chunks without an embedding or with a different
// dimensionality are skipped, not scored as zero. Ties keep chunk
// insertion order.
func (s *MemoryStore) SearchSimilarChunks(queryEmbedding []float64, topK int, minSimilarity float64) []types.ChunkMatch {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.chunks) == 0 {
		s.logger.Warn("similarity search on empty store")
		return nil
	}

	var matches []types.ChunkMatch
	for _, chunk := range s.chunks {
		if !chunk.HasEmbedding() || len(chunk.Embedding) != len(queryEmbedding) {
			continue
		}
		similarity := CosineSimilarity(queryEmbedding, chunk.Embedding)
		if similarity < minSimilarity {
			continue
		}
		matches = append(matches, types.ChunkMatch{
			ChunkID:       chunk.ID,
			Text:          chunk.Text,
			Similarity:    similarity,
			DocumentID:    chunk.DocumentID,
			DocumentTitle: chunk.DocumentTitle,
			Metadata:      chunk.Metadata,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
	if topK >= 0 && len(matches) > topK {
		matches = matches[:topK]
	}

	s.logger.Debug("similarity search", "results", len(matches), "top_k", topK)
	return matches
}

// SearchEntities returns stored entities whose lowercased name contains,
// or is contained by, any lowercased query term. The match is substring
// based in both directions on purpose, to catch partial mentions. When
// entityTypes is empty all stored types are searched, in first-seen order.
func (s *MemoryStore) SearchEntities(queryTerms []string, entityTypes []string) []types.EntityMatch {
	s.mu.RLock()
	defer s.mu.RUnlock()

	terms := make([]string, 0, len(queryTerms))
	for _, term := range queryTerms {
		terms = append(terms, strings.ToLower(term))
	}

	searchTypes := entityTypes
	if len(searchTypes) == 0 {
		searchTypes = s.typeOrder
	}

	var results []types.EntityMatch
	for _, entityType := range searchTypes {
		for _, entity := range s.entitiesByType[entityType] {
			name := entity.Key()
			for _, term := range terms {
				if strings.Contains(name, term) || strings.Contains(term, name) {
					results = append(results, types.EntityMatch{
						EntityID:   entity.ID,
						Name:       entity.Name,
						Type:       entity.Type,
						Confidence: entity.Confidence,
						DocumentID: entity.DocumentID,
						MatchType:  "name_match",
					})
					break
				}
			}
		}
	}

	s.logger.Debug("entity search", "results", len(results), "terms", len(terms))
	return results
}

// GetEntityRelationships returns every relationship whose lowercased
// source or target contains the lowercased entity name.
func (s *MemoryStore) GetEntityRelationships(entityName string) []types.Relationship {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name := strings.ToLower(entityName)
	var results []types.Relationship
	for _, rel := range s.relationships {
		if strings.Contains(strings.ToLower(rel.Source), name) ||
			strings.Contains(strings.ToLower(rel.Target), name) {
			results = append(results, *rel)
		}
	}
	return results
}

// Chunks returns a snapshot of all stored chunks in insertion order. The
// returned chunks are shared immutable values; callers must not modify
// them.
func (s *MemoryStore) Chunks() []*types.Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]*types.Chunk, len(s.chunks))
	copy(snapshot, s.chunks)
	return snapshot
}

// GetChunk returns the chunk stored under the given id.
func (s *MemoryStore) GetChunk(chunkID string) (types.Chunk, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunk, ok := s.chunkIndex[chunkID]
	if !ok {
		return types.Chunk{}, false
	}
	return *chunk, true
}

// GetDocument returns document metadata by id.
func (s *MemoryStore) GetDocument(docID string) (types.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[docID]
	if !ok {
		return types.Document{}, false
	}
	return *doc, true
}

// Dimensions returns the store-wide embedding dimensionality, or 0 when
// no chunk has been stored yet.
func (s *MemoryStore) Dimensions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimensions
}

// GetStats returns storage counters. The entity count sums per-type list
// lengths, so an entity mentioned in N documents counts N times.
func (s *MemoryStore) GetStats() types.StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entityCount := 0
	for _, entities := range s.entitiesByType {
		entityCount += len(entities)
	}
	return types.StoreStats{
		Documents:     len(s.documents),
		Chunks:        len(s.chunks),
		Entities:      entityCount,
		Relationships: len(s.relationships),
		EntityTypes:   len(s.entitiesByType),
		StorageType:   StorageType,
	}
}

// ClearStorage wipes all collections atomically from the caller's point
// of view. There is no partial-document removal; see the package docs.
func (s *MemoryStore) ClearStorage() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	s.logger.Info("storage cleared")
}

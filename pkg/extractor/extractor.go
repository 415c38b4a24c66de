// Package extractor turns document text into typed entities and
// relationships using a chat model.
package extractor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	jsonrepair "github.com/kaptinlin/jsonrepair"

	"github.com/Hamza08dev/hybridrag/pkg/config"
	"github.com/Hamza08dev/hybridrag/pkg/llm"
	"github.com/Hamza08dev/hybridrag/pkg/types"
)

const (
	defaultEntityConfidence       = 0.8
	defaultRelationshipConfidence = 0.7
)

const systemPrompt = `You are an information extraction system. Extract entities and relationships from the provided text.

Entity types: PERSON, ORGANIZATION, TECHNOLOGY, SKILL
Relationship types: WORKS_AT, USES, HAS_SKILL, DEVELOPS

Respond with JSON only, in exactly this shape:
{
  "entities": {
    "PERSON": [{"name": "...", "confidence": 0.9}],
    "ORGANIZATION": [],
    "TECHNOLOGY": [],
    "SKILL": []
  },
  "relationships": [
    {"source": "...", "type": "WORKS_AT", "target": "...", "confidence": 0.9}
  ]
}

Only include entities actually mentioned in the text. Confidence is a number between 0 and 1.`

// Extractor extracts entities and relationships from text.
type Extractor struct {
	client    llm.Client
	maxChars  int
	maxChunks int
	logger    *slog.Logger
}

// New creates an Extractor using the given chat client.
func New(client llm.Client, cfg config.ExtractionConfig, logger *slog.Logger) *Extractor {
	return &Extractor{
		client:    client,
		maxChars:  cfg.MaxChars,
		maxChunks: cfg.MaxChunks,
		logger:    logger,
	}
}

// wire format for the model's JSON reply
type extractionPayload struct {
	Entities      map[string][]extractedEntity `json:"entities"`
	Relationships []extractedRelationship      `json:"relationships"`
}

type extractedEntity struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

type extractedRelationship struct {
	Source     string  `json:"source"`
	Type       string  `json:"type"`
	Target     string  `json:"target"`
	Confidence float64 `json:"confidence"`
}

// Extract runs the extraction model over text and returns entities
// grouped by type plus relationships. Entities outside the known type
// vocabulary are dropped, as are relationships of unknown types.
func (e *Extractor) Extract(ctx context.Context, text string) (map[string][]types.EntityRecord, []types.RelationshipRecord, error) {
	resp, err := e.client.Chat(ctx, []llm.Message{
		llm.SystemMessage(systemPrompt),
		llm.UserMessage("Text:\n\n" + text),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("extraction call failed: %w", err)
	}

	return e.parse(resp.Content)
}

// ExtractFromChunks combines the leading chunks of a document, capped
// by the configured chunk and character limits, and extracts from the
// combined text in a single call.
func (e *Extractor) ExtractFromChunks(ctx context.Context, chunks []types.Chunk) (map[string][]types.EntityRecord, []types.RelationshipRecord, error) {
	if len(chunks) == 0 {
		return map[string][]types.EntityRecord{}, nil, nil
	}

	limit := len(chunks)
	if e.maxChunks > 0 && limit > e.maxChunks {
		limit = e.maxChunks
	}

	var sb strings.Builder
	for _, chunk := range chunks[:limit] {
		if e.maxChars > 0 && sb.Len()+len(chunk.Text) > e.maxChars {
			remaining := e.maxChars - sb.Len()
			if remaining > 0 {
				sb.WriteString(chunk.Text[:remaining])
			}
			break
		}
		sb.WriteString(chunk.Text)
		sb.WriteString("\n\n")
	}

	return e.Extract(ctx, sb.String())
}

// parse repairs and decodes the model's JSON, then filters and
// deduplicates against the known vocabularies.
func (e *Extractor) parse(content string) (map[string][]types.EntityRecord, []types.RelationshipRecord, error) {
	repaired, err := jsonrepair.JSONRepair(content)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to repair extraction json: %w", err)
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(repaired), &payload); err != nil {
		return nil, nil, fmt.Errorf("failed to parse extraction json: %w", err)
	}

	entities := make(map[string][]types.EntityRecord)
	for _, entityType := range types.EntityTypes {
		seen := make(map[string]bool)
		for _, raw := range payload.Entities[entityType] {
			name := strings.TrimSpace(raw.Name)
			if name == "" {
				continue
			}
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true

			confidence := raw.Confidence
			if confidence <= 0 {
				confidence = defaultEntityConfidence
			}
			entities[entityType] = append(entities[entityType], types.EntityRecord{
				Name:       name,
				Type:       entityType,
				Confidence: confidence,
			})
		}
	}

	validRelations := make(map[string]bool, len(types.RelationshipTypes))
	for _, rt := range types.RelationshipTypes {
		validRelations[rt] = true
	}

	var relationships []types.RelationshipRecord
	seenRels := make(map[string]bool)
	dropped := 0
	for _, raw := range payload.Relationships {
		source := strings.TrimSpace(raw.Source)
		target := strings.TrimSpace(raw.Target)
		relType := strings.ToUpper(strings.TrimSpace(raw.Type))
		if source == "" || target == "" || !validRelations[relType] {
			dropped++
			continue
		}

		rec := types.RelationshipRecord{
			Source:     source,
			Type:       relType,
			Target:     target,
			Confidence: raw.Confidence,
		}
		if rec.Confidence <= 0 {
			rec.Confidence = defaultRelationshipConfidence
		}
		if seenRels[rec.Key()] {
			continue
		}
		seenRels[rec.Key()] = true
		relationships = append(relationships, rec)
	}

	if dropped > 0 {
		e.logger.Debug("dropped invalid relationships from extraction", "count", dropped)
	}
	return entities, relationships, nil
}

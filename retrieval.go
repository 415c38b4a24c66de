package hybridrag

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/Hamza08dev/hybridrag/pkg/config"
	"github.com/Hamza08dev/hybridrag/pkg/nlp"
	"github.com/Hamza08dev/hybridrag/pkg/store"
	"github.com/Hamza08dev/hybridrag/pkg/types"
)

// Graph scoring constants: a chunk co-mentioning both relationship ends
// scores higher than one mentioning a single end, and the relationship
// confidence adds a small bonus on top.
const (
	graphScoreBothEnds = 0.9
	graphScoreOneEnd   = 0.6
	graphConfidenceMul = 0.1
)

// Retriever fuses semantic similarity search with graph expansion over
// extracted entities. It is stateless between calls; the store is
// passed in per search.
type Retriever struct {
	cfg     config.RetrievalConfig
	matcher *nlp.EntityMatcher
	logger  *slog.Logger
}

// NewRetriever creates a Retriever with the given retrieval settings.
func NewRetriever(cfg config.RetrievalConfig, logger *slog.Logger) *Retriever {
	if logger == nil {
		logger = slog.Default()
	}
	return &Retriever{
		cfg:     cfg,
		matcher: nlp.NewEntityMatcher(),
		logger:  logger,
	}
}

// Search runs both search paths and fuses their results. A nil
// queryEmbedding degrades to graph-only search; entity extraction and
// graph expansion always run. Every returned result is annotated with
// the original query and the extracted query entities.
func (r *Retriever) Search(query string, st *store.MemoryStore, queryEmbedding []float64) []types.RankedResult {
	var semantic []types.ChunkMatch
	if len(queryEmbedding) > 0 {
		semantic = st.SearchSimilarChunks(queryEmbedding, r.cfg.MaxSemanticResults, r.cfg.MinSimilarity)
	}

	queryEntities := r.matcher.Extract(query)
	graph := r.graphSearch(queryEntities, st)

	results := r.combineAndRank(semantic, graph)
	for i := range results {
		results[i].Query = query
		results[i].QueryEntities = queryEntities
	}

	r.logger.Debug("hybrid search",
		"query", query,
		"semantic_results", len(semantic),
		"graph_results", len(graph),
		"fused_results", len(results))
	return results
}

// graphSearch resolves query entities against the store, walks their
// relationships, and scores every stored chunk by whether its text
// co-mentions the relationship's endpoints. The confidence bonus is
// deliberately not clamped, so a graph score can slightly exceed 1.0.
func (r *Retriever) graphSearch(queryEntities []string, st *store.MemoryStore) []types.RankedResult {
	if len(queryEntities) == 0 {
		return nil
	}

	matches := st.SearchEntities(queryEntities, nil)
	if len(matches) == 0 {
		return nil
	}

	chunks := st.Chunks()
	seen := make(map[string]struct{})
	var results []types.RankedResult

	for _, match := range matches {
		for _, rel := range st.GetEntityRelationships(match.Name) {
			source := strings.ToLower(rel.Source)
			target := strings.ToLower(rel.Target)

			for _, chunk := range chunks {
				if _, dup := seen[chunk.ID]; dup {
					continue
				}
				text := strings.ToLower(chunk.Text)
				hasSource := strings.Contains(text, source)
				hasTarget := strings.Contains(text, target)

				var score float64
				switch {
				case hasSource && hasTarget:
					score = graphScoreBothEnds
				case hasSource || hasTarget:
					score = graphScoreOneEnd
				default:
					continue
				}
				score += rel.Confidence * graphConfidenceMul

				seen[chunk.ID] = struct{}{}
				results = append(results, types.RankedResult{
					ChunkID:       chunk.ID,
					Text:          chunk.Text,
					Score:         score,
					DocumentID:    chunk.DocumentID,
					DocumentTitle: chunk.DocumentTitle,
					SearchType:    types.SearchTypeGraph,
					Metadata:      chunk.Metadata,
					RelatedEntity: match.Name,
					Relationship: &types.RelationshipRef{
						Type:   rel.Type,
						Source: rel.Source,
						Target: rel.Target,
					},
				})
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > r.cfg.MaxGraphResults {
		results = results[:r.cfg.MaxGraphResults]
	}
	return results
}

// combineAndRank fuses the two result lists. Semantic results seed the
// output; graph results either append or, when the chunk was found by
// both paths, merge into the existing entry as a hybrid result.
func (r *Retriever) combineAndRank(semantic []types.ChunkMatch, graph []types.RankedResult) []types.RankedResult {
	byChunk := make(map[string]int)
	results := make([]types.RankedResult, 0, len(semantic)+len(graph))

	for _, match := range semantic {
		byChunk[match.ChunkID] = len(results)
		results = append(results, types.RankedResult{
			ChunkID:       match.ChunkID,
			Text:          match.Text,
			Score:         match.Similarity,
			FinalScore:    match.Similarity * r.cfg.SemanticWeight,
			DocumentID:    match.DocumentID,
			DocumentTitle: match.DocumentTitle,
			SearchType:    types.SearchTypeSemantic,
			Metadata:      match.Metadata,
		})
	}

	for _, gr := range graph {
		if i, ok := byChunk[gr.ChunkID]; ok {
			results[i].FinalScore += gr.Score * r.cfg.GraphWeight
			results[i].SearchType = types.SearchTypeHybrid
			results[i].RelatedEntity = gr.RelatedEntity
			results[i].Relationship = gr.Relationship
			continue
		}
		gr.FinalScore = gr.Score * r.cfg.GraphWeight
		byChunk[gr.ChunkID] = len(results)
		results = append(results, gr)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})

	limit := r.cfg.MaxSemanticResults + r.cfg.MaxGraphResults
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

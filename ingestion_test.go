package hybridrag

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hamza08dev/hybridrag/pkg/config"
	"github.com/Hamza08dev/hybridrag/pkg/llm"
)

// fakeEmbedder returns a fixed-width vector per text and fails for any
// text containing "fail-embed".
type fakeEmbedder struct {
	calls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, text := range texts {
		vec, err := f.EmbedSingle(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (f *fakeEmbedder) EmbedSingle(ctx context.Context, text string) ([]float64, error) {
	f.calls++
	if strings.Contains(text, "fail-embed") {
		return nil, errors.New("invalid input")
	}
	if strings.Contains(strings.ToLower(text), "alice") {
		return []float64{0, 1, 0}, nil
	}
	return []float64{1, 0, 0}, nil
}

func (f *fakeEmbedder) EmbedQuery(ctx context.Context, query string) ([]float64, error) {
	return f.EmbedSingle(ctx, query)
}

func (f *fakeEmbedder) Dimensions() int { return 3 }
func (f *fakeEmbedder) Close() error    { return nil }

// fakeChat answers extraction prompts with a fixed entity payload and
// everything else with a canned answer.
type fakeChat struct {
	err   error
	calls int
}

const extractionReply = `{
	"entities": {
		"PERSON": [{"name": "Alice", "confidence": 0.95}],
		"ORGANIZATION": [{"name": "Acme Corp", "confidence": 0.9}]
	},
	"relationships": [
		{"source": "Alice", "type": "WORKS_AT", "target": "Acme Corp", "confidence": 0.9}
	]
}`

func (f *fakeChat) Chat(ctx context.Context, messages []llm.Message) (*llm.Response, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for _, m := range messages {
		if m.Role == llm.RoleSystem && strings.Contains(m.Content, "information extraction") {
			return &llm.Response{Content: extractionReply}, nil
		}
	}
	return &llm.Response{Content: "Alice works at Acme Corp."}, nil
}

func (f *fakeChat) Close() error { return nil }

func testClientConfig() *config.Config {
	cfg := config.Default()
	cfg.Embedding.RequestDelay = 0
	cfg.Chunking.ChunkSize = 80
	cfg.Chunking.ChunkOverlap = 10
	cfg.Chunking.MinChunkSize = 10
	return cfg
}

func newTestClient(t *testing.T, emb *fakeEmbedder, chat *fakeChat) *Client {
	t.Helper()
	client, err := NewClient(emb, chat, testClientConfig(), discardLogger())
	require.NoError(t, err)
	return client
}

func TestIngestTextStoresDocument(t *testing.T) {
	client := newTestClient(t, &fakeEmbedder{}, &fakeChat{})

	result, err := client.IngestText(context.Background(),
		"Team Notes", "Alice works at Acme Corp as a senior platform engineer in Berlin.")
	require.NoError(t, err)

	assert.NotEmpty(t, result.DocumentID)
	assert.True(t, strings.HasPrefix(result.DocumentID, "doc_"))
	assert.Equal(t, "Team Notes", result.Title)
	assert.Equal(t, 1, result.ChunkCount)
	assert.Equal(t, 0, result.DroppedChunks)
	assert.Equal(t, 2, result.EntityCount)
	assert.Equal(t, 1, result.RelationshipCount)

	stats := client.GetStats()
	assert.Equal(t, 1, stats.Documents)
	assert.Equal(t, 1, stats.Chunks)
	assert.Equal(t, 2, stats.Entities)
	assert.Equal(t, 1, stats.Relationships)
}

func TestIngestTextDropsFailedChunks(t *testing.T) {
	client := newTestClient(t, &fakeEmbedder{}, &fakeChat{})

	text := "Alice works at Acme Corp leading the platform engineering team there.\n\n" +
		"This fail-embed paragraph cannot be turned into a vector at all."
	result, err := client.IngestText(context.Background(), "Partial", text)
	require.NoError(t, err)

	assert.Equal(t, 1, result.ChunkCount)
	assert.Equal(t, 1, result.DroppedChunks)
	assert.Equal(t, 1, client.GetStats().Chunks)
}

func TestIngestTextAllEmbeddingsFail(t *testing.T) {
	client := newTestClient(t, &fakeEmbedder{}, &fakeChat{})

	_, err := client.IngestText(context.Background(), "Bad",
		"Every single sentence here says fail-embed so nothing survives, fail-embed again.")
	require.Error(t, err)
	assert.Equal(t, 0, client.GetStats().Documents)
}

func TestIngestTextExtractionFailureDegrades(t *testing.T) {
	client := newTestClient(t, &fakeEmbedder{}, &fakeChat{err: errors.New("model offline")})

	result, err := client.IngestText(context.Background(), "No Graph",
		"Alice works at Acme Corp as a senior platform engineer in Berlin.")
	require.NoError(t, err)

	assert.Equal(t, 0, result.EntityCount)
	assert.Equal(t, 0, result.RelationshipCount)
	assert.Equal(t, 1, client.GetStats().Documents)
	assert.Equal(t, 0, client.GetStats().Entities)
}

func TestIngestTextEmpty(t *testing.T) {
	client := newTestClient(t, &fakeEmbedder{}, &fakeChat{})

	_, err := client.IngestText(context.Background(), "Empty", "   ")
	assert.Error(t, err)
}

func TestIngestDocumentFromFile(t *testing.T) {
	client := newTestClient(t, &fakeEmbedder{}, &fakeChat{})

	path := filepath.Join(t.TempDir(), "team-notes.txt")
	require.NoError(t, os.WriteFile(path,
		[]byte("Alice works at Acme Corp as a senior platform engineer."), 0644))

	result, err := client.IngestDocument(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "team-notes", result.Title)
	assert.Equal(t, 1, client.GetStats().Documents)
}

func TestIngestDocumentMissingFile(t *testing.T) {
	client := newTestClient(t, &fakeEmbedder{}, &fakeChat{})

	_, err := client.IngestDocument(context.Background(), filepath.Join(t.TempDir(), "nope.txt"))
	assert.Error(t, err)
}

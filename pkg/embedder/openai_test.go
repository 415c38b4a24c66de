package embedder

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hamza08dev/hybridrag/pkg/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func embeddingServer(t *testing.T, vectors [][]float32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		type datum struct {
			Object    string    `json:"object"`
			Index     int       `json:"index"`
			Embedding []float32 `json:"embedding"`
		}
		data := make([]datum, len(vectors))
		for i, v := range vectors {
			data[i] = datum{Object: "embedding", Index: i, Embedding: v}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"object": "list",
			"data":   data,
			"model":  "text-embedding-3-small",
		})
	}))
}

func TestNewOpenAIClientRequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIClient(config.EmbeddingConfig{Model: "text-embedding-3-small"}, testLogger())
	assert.Error(t, err)
}

func TestEmbedReturnsVectorsInOrder(t *testing.T) {
	srv := embeddingServer(t, [][]float32{{1, 0, 0}, {0, 1, 0}})
	defer srv.Close()

	client, err := NewOpenAIClient(config.EmbeddingConfig{
		Model:   "text-embedding-3-small",
		APIKey:  "test-key",
		BaseURL: srv.URL + "/v1",
	}, testLogger())
	require.NoError(t, err)
	defer client.Close()

	embeddings, err := client.Embed(context.Background(), []string{"first", "second"})
	require.NoError(t, err)
	require.Len(t, embeddings, 2)

	assert.Equal(t, []float64{1, 0, 0}, embeddings[0])
	assert.Equal(t, []float64{0, 1, 0}, embeddings[1])
	assert.Equal(t, 3, client.Dimensions())
}

func TestEmbedSingle(t *testing.T) {
	srv := embeddingServer(t, [][]float32{{0.5, 0.5}})
	defer srv.Close()

	client, err := NewOpenAIClient(config.EmbeddingConfig{
		Model:   "text-embedding-3-small",
		APIKey:  "test-key",
		BaseURL: srv.URL + "/v1",
	}, testLogger())
	require.NoError(t, err)

	vec, err := client.EmbedSingle(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 0.5}, vec)
}

func TestEmbedEmptyInput(t *testing.T) {
	client, err := NewOpenAIClient(config.EmbeddingConfig{
		Model:  "text-embedding-3-small",
		APIKey: "test-key",
	}, testLogger())
	require.NoError(t, err)

	embeddings, err := client.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, embeddings)
}

func TestEmbedCountMismatch(t *testing.T) {
	srv := embeddingServer(t, [][]float32{{1, 2}})
	defer srv.Close()

	client, err := NewOpenAIClient(config.EmbeddingConfig{
		Model:      "text-embedding-3-small",
		APIKey:     "test-key",
		BaseURL:    srv.URL + "/v1",
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
	}, testLogger())
	require.NoError(t, err)

	_, err = client.Embed(context.Background(), []string{"one", "two"})
	assert.Error(t, err)
}

package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hamza08dev/hybridrag/pkg/config"
	"github.com/Hamza08dev/hybridrag/pkg/types"
)

func testConfig() config.ChunkingConfig {
	return config.ChunkingConfig{ChunkSize: 100, ChunkOverlap: 20, MinChunkSize: 10}
}

func TestSplitShortText(t *testing.T) {
	c := New(testConfig())

	chunks, err := c.Split("doc_1", "Title", "Alice works at Acme Corporation as a senior engineer.")
	require.NoError(t, err)
	require.Len(t, chunks, 1)

	assert.Equal(t, "chunk_0", chunks[0].ID)
	assert.Equal(t, "doc_1", chunks[0].DocumentID)
	assert.Equal(t, "Title", chunks[0].DocumentTitle)
	assert.Equal(t, 0, chunks[0].Metadata.Index)
	assert.Equal(t, 1, chunks[0].Metadata.TotalChunks)
	assert.Equal(t, len(chunks[0].Text), chunks[0].Length)
}

func TestSplitLongTextProducesMultipleChunks(t *testing.T) {
	c := New(testConfig())

	var sb strings.Builder
	for i := 0; i < 20; i++ {
		sb.WriteString("This sentence pads the document with enough text to split. ")
	}

	chunks, err := c.Split("doc_1", "Long", sb.String())
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, ch := range chunks {
		assert.Equal(t, i, ch.Metadata.Index)
		assert.Equal(t, len(chunks), ch.Metadata.TotalChunks)
		assert.LessOrEqual(t, len(ch.Text), 100)
		assert.Greater(t, len(strings.TrimSpace(ch.Text)), 10)
	}
}

func TestSplitDropsTinyFragments(t *testing.T) {
	c := New(testConfig())

	// Paragraph separators force a split; the middle fragment is below
	// the minimum size and must not survive.
	text := "The first paragraph has plenty of content to stand on its own as a chunk.\n\nok\n\nThe closing paragraph also carries enough text to be kept around."
	chunks, err := c.Split("doc_1", "Frag", text)
	require.NoError(t, err)

	for _, ch := range chunks {
		assert.NotEqual(t, "ok", ch.Text)
	}
}

func TestSplitEmptyText(t *testing.T) {
	c := New(testConfig())

	_, err := c.Split("doc_1", "Empty", "   \n\n  ")
	assert.ErrorIs(t, err, types.ErrNoChunks)
}

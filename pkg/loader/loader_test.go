package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExtractTextPlain(t *testing.T) {
	path := writeTemp(t, "notes.txt", "Alice works at Acme.\nBob uses Go.")

	text, err := ExtractText(path)
	require.NoError(t, err)
	assert.Equal(t, "Alice works at Acme.\nBob uses Go.", text)
}

func TestExtractTextMarkdownStripsMarkup(t *testing.T) {
	md := "# Team\n\nAlice works at **Acme** as a *senior* engineer.\n\n- Bob uses Go\n- Carol develops Rust\n"
	path := writeTemp(t, "team.md", md)

	text, err := ExtractText(path)
	require.NoError(t, err)

	assert.Contains(t, text, "Team")
	assert.Contains(t, text, "Alice works at Acme as a senior engineer.")
	assert.Contains(t, text, "Bob uses Go")
	assert.NotContains(t, text, "#")
	assert.NotContains(t, text, "**")
}

func TestExtractTextMarkdownKeepsCodeBlocks(t *testing.T) {
	md := "Setup:\n\n```\ngo install example.com/tool\n```\n"
	path := writeTemp(t, "setup.md", md)

	text, err := ExtractText(path)
	require.NoError(t, err)
	assert.Contains(t, text, "go install example.com/tool")
}

func TestExtractTextUnsupportedFormat(t *testing.T) {
	path := writeTemp(t, "data.xlsx", "not really a spreadsheet")

	_, err := ExtractText(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExtractTextMissingFile(t *testing.T) {
	_, err := ExtractText(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestTitleFromPath(t *testing.T) {
	assert.Equal(t, "quarterly-report", TitleFromPath("/data/docs/quarterly-report.pdf"))
	assert.Equal(t, "README", TitleFromPath("README.md"))
	assert.Equal(t, "notes", TitleFromPath("notes"))
}

// Package loader extracts plain text from document files so they can
// be chunked and embedded. PDF, DOCX, Markdown and plain text files are
// supported.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// ErrUnsupportedFormat is returned for file extensions the loader does
// not understand.
var ErrUnsupportedFormat = fmt.Errorf("unsupported document format")

// ExtractText reads the file at path and returns its plain text
// content.
func ExtractText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(path)
	case ".docx":
		return extractDOCX(path)
	case ".md", ".markdown":
		return extractMarkdown(path)
	case ".txt", "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read text file: %w", err)
		}
		return string(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// TitleFromPath derives a document title from the file name, without
// its extension.
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func extractPDF(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat pdf: %w", err)
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return "", fmt.Errorf("failed to parse pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to extract page %d: %w", i, err)
		}
		sb.WriteString(pageText)
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}

func extractDOCX(path string) (string, error) {
	r, err := docx.ReadDocxFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}
	defer r.Close()

	return r.Editable().GetContent(), nil
}

// extractMarkdown parses the file with goldmark and collects the text
// content of the AST, so markup characters do not leak into chunks.
func extractMarkdown(path string) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read markdown file: %w", err)
	}

	md := goldmark.New()
	doc := md.Parser().Parse(gmtext.NewReader(source))

	var sb strings.Builder
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			sb.Write(node.Segment.Value(source))
			if node.HardLineBreak() || node.SoftLineBreak() {
				sb.WriteString("\n")
			}
		case *ast.Heading, *ast.Paragraph, *ast.ListItem:
			if sb.Len() > 0 {
				sb.WriteString("\n\n")
			}
		case *ast.CodeBlock:
			writeCodeLines(&sb, source, node.Lines())
		case *ast.FencedCodeBlock:
			writeCodeLines(&sb, source, node.Lines())
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to walk markdown ast: %w", err)
	}
	return strings.TrimSpace(sb.String()), nil
}

func writeCodeLines(sb *strings.Builder, source []byte, lines *gmtext.Segments) {
	if sb.Len() > 0 {
		sb.WriteString("\n\n")
	}
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
}

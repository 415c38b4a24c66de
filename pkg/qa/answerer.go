// Package qa generates grounded answers from retrieved passages.
package qa

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Hamza08dev/hybridrag/pkg/llm"
	"github.com/Hamza08dev/hybridrag/pkg/types"
)

const answerSystemPrompt = `You are a helpful assistant. Answer the question using only the numbered passages provided. If the passages do not contain the answer, say so. Cite passage numbers when relevant.`

// NoContextAnswer is returned when retrieval produced no passages.
const NoContextAnswer = "I could not find any relevant information in the ingested documents to answer that question."

// Answerer turns a question and its retrieved passages into an answer.
type Answerer struct {
	client llm.Client
	logger *slog.Logger
}

// NewAnswerer creates an Answerer using the given chat client.
func NewAnswerer(client llm.Client, logger *slog.Logger) *Answerer {
	return &Answerer{client: client, logger: logger}
}

// Answer generates an answer to question grounded in results. With no
// results the canned no-context answer is returned without a model
// call.
func (a *Answerer) Answer(ctx context.Context, question string, results []types.RankedResult) (string, error) {
	if len(results) == 0 {
		return NoContextAnswer, nil
	}

	prompt := fmt.Sprintf("Passages:\n\n%s\nQuestion: %s", buildContext(results), question)

	resp, err := a.client.Chat(ctx, []llm.Message{
		llm.SystemMessage(answerSystemPrompt),
		llm.UserMessage(prompt),
	})
	if err != nil {
		return "", fmt.Errorf("answer generation failed: %w", err)
	}
	return resp.Content, nil
}

func buildContext(results []types.RankedResult) string {
	var sb strings.Builder
	for i, r := range results {
		title := r.DocumentTitle
		if title == "" {
			title = r.DocumentID
		}
		sb.WriteString(fmt.Sprintf("[%d] (%s) %s\n\n", i+1, title, strings.TrimSpace(r.Text)))
	}
	return sb.String()
}

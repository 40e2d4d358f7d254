package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/corvid-labs/askdoc/internal/core/domain"
	"github.com/corvid-labs/askdoc/internal/core/ports/driven"
	"github.com/corvid-labs/askdoc/internal/logger"
)

// InsufficientContextAnswer is returned verbatim when retrieval finds
// nothing to ground the answer in. It is a normal answer, not an error.
const InsufficientContextAnswer = "I don't have enough information in the provided documents to answer that question."

const answerPrompt = `You are a helpful assistant answering questions about a set of documents.
Use ONLY the context below to answer. If the context does not contain
the answer, say you don't know. Do not invent information.

Context:
%s

Question: %s

Answer:`

// AnswerService generates grounded answers from retrieved chunks.
type AnswerService struct {
	llm driven.LLMService
}

// NewAnswerService creates an answer service over the given LLM.
func NewAnswerService(llm driven.LLMService) *AnswerService {
	return &AnswerService{llm: llm}
}

// Generate produces an answer to the query grounded in the retrieval
// result. An empty result yields InsufficientContextAnswer without
// calling the model. Generation failures wrap domain.ErrGeneration.
func (s *AnswerService) Generate(ctx context.Context, query string, result domain.RetrievalResult) (string, error) {
	if len(result) == 0 {
		logger.Debug("Empty retrieval result, returning insufficient-context answer")
		return InsufficientContextAnswer, nil
	}

	prompt := fmt.Sprintf(answerPrompt, formatContext(result), query)
	logger.Debug("Generating answer from %d chunks (%s)", len(result), s.llm.ModelName())

	answer, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   1024,
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("%w: model returned empty answer", domain.ErrGeneration)
	}
	return answer, nil
}

// formatContext renders retrieved chunks as numbered passages for the prompt.
func formatContext(result domain.RetrievalResult) string {
	var b strings.Builder
	for i, sc := range result {
		fmt.Fprintf(&b, "[%d] %s\n\n", i+1, strings.TrimSpace(sc.Chunk.Content))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Package llm provides a translation adapter backed by an LLM service.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/corvid-labs/askdoc/internal/core/domain"
	"github.com/corvid-labs/askdoc/internal/core/ports/driven"
)

// Ensure Translator implements the interface.
var _ driven.Translator = (*Translator)(nil)

// translatePrompt instructs the model to return only the translation.
const translatePrompt = `Translate the following text to %s.
Return ONLY the translated text, nothing else.

Text:
%s`

// Translator renders text in a target language through an LLM.
type Translator struct {
	llm driven.LLMService
}

// NewTranslator creates a translator over the given LLM service.
func NewTranslator(llm driven.LLMService) *Translator {
	return &Translator{llm: llm}
}

// Translate renders text in the target language. English is the source
// language of generated answers, so it passes through unchanged.
func (t *Translator) Translate(ctx context.Context, text string, target domain.Language) (string, error) {
	if !target.IsValid() {
		return "", fmt.Errorf("%w: unknown language %q", domain.ErrInvalidInput, target)
	}
	if !target.NeedsTranslation() || strings.TrimSpace(text) == "" {
		return text, nil
	}

	prompt := fmt.Sprintf(translatePrompt, target.Description(), text)
	translated, err := t.llm.Generate(ctx, prompt, driven.GenerateOptions{
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("%w: translate to %s: %v", domain.ErrGeneration, target, err)
	}

	return strings.TrimSpace(translated), nil
}

package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvid-labs/askdoc/internal/core/domain"
)

func TestNormalise_StripsFormatting(t *testing.T) {
	normaliser := New()
	raw := &domain.RawDocument{
		Name:     "guide.md",
		MIMEType: "text/markdown",
		Content: []byte(`# Title

Some **bold** and *italic* text with [a link](https://example.com).

` + "```go\nfunc ignored() {}\n```" + `

Second paragraph.`),
	}

	result, err := normaliser.Normalise(context.Background(), raw)
	require.NoError(t, err)

	content := result.Document.Content
	assert.Contains(t, content, "Title")
	assert.Contains(t, content, "bold")
	assert.Contains(t, content, "a link")
	assert.Contains(t, content, "Second paragraph.")
	assert.NotContains(t, content, "**")
	assert.NotContains(t, content, "https://example.com")
	assert.NotContains(t, content, "func ignored")
}

func TestNormalise_PreservesParagraphBreaks(t *testing.T) {
	raw := &domain.RawDocument{
		Name:     "doc.md",
		MIMEType: "text/markdown",
		Content:  []byte("# Heading\n\nfirst paragraph\n\nsecond paragraph"),
	}

	result, err := New().Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "Heading\n\nfirst paragraph\n\nsecond paragraph", result.Document.Content)
}

func TestNormalise_NilInput(t *testing.T) {
	_, err := New().Normalise(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNormalise_Empty(t *testing.T) {
	result, err := New().Normalise(context.Background(), &domain.RawDocument{Name: "empty.md"})
	require.NoError(t, err)
	assert.Empty(t, result.Document.Content)
}

package pdf

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/corvid-labs/askdoc/internal/core/domain"
	"github.com/corvid-labs/askdoc/internal/core/ports/driven"
	"github.com/corvid-labs/askdoc/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles PDF documents.
type Normaliser struct{}

// New creates a new PDF normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/pdf"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise extracts the PDF's text page by page in reading order.
// Corrupt or non-PDF input fails with an error wrapping domain.ErrExtraction.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (result *driven.NormaliseResult, err error) {
	if raw == nil || len(raw.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document %q", domain.ErrExtraction, rawName(raw))
	}

	// The pdf library panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %q: %v", domain.ErrExtraction, raw.Name, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrExtraction, raw.Name, err)
	}

	text, err := extractPages(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", domain.ErrExtraction, raw.Name, err)
	}

	doc := domain.Document{
		ID:      uuid.New().String(),
		Name:    raw.Name,
		Content: normalisers.Clean(text),
		Metadata: map[string]any{
			"mime_type": "application/pdf",
			"pages":     reader.NumPage(),
		},
		CreatedAt: time.Now().UTC(),
	}

	return &driven.NormaliseResult{Document: doc}, nil
}

// extractPages concatenates the plain text of every page, separated by
// blank lines so page boundaries survive as paragraph breaks.
func extractPages(reader *pdf.Reader) (string, error) {
	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

func rawName(raw *domain.RawDocument) string {
	if raw == nil {
		return ""
	}
	return raw.Name
}
